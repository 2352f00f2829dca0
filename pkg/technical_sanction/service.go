package technical_sanction

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/event_bus"
	"github.com/worksledger/worksledger/internal/utils"
	"github.com/worksledger/worksledger/pkg/calc"
	"github.com/worksledger/worksledger/pkg/dataset"
)

type Service interface {
	List(ctx context.Context, workId *int) ([]TechnicalSanction, error)
	Get(ctx context.Context, id int) (TechnicalSanction, error)
	Create(ctx context.Context, req WriteRequest) (TechnicalSanction, error)
	Update(ctx context.Context, id int, req WriteRequest) (TechnicalSanction, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
	clock    utils.Clock
}

func NewService(repo Repository, eventBus *event_bus.EventBus, clock utils.Clock) Service {
	return &ServiceImpl{repo: repo, eventBus: eventBus, clock: clock}
}

func (s *ServiceImpl) List(ctx context.Context, workId *int) ([]TechnicalSanction, error) {
	return s.repo.List(ctx, dataset.IsDemo(ctx), workId)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (TechnicalSanction, error) {
	return s.repo.Get(ctx, dataset.IsDemo(ctx), id)
}

// prepare applies the request the way a stored record must look: hand-entered
// amounts keep their override flag, everything else is recomputed, and a
// milestone set without a date is dated today.
func (s *ServiceImpl) prepare(id int, req WriteRequest) (TechnicalSanction, error) {
	ts, err := req.ToEntity(id)
	if err != nil {
		return TechnicalSanction{}, fmt.Errorf("invalid technical sanction: %w", err)
	}
	if err := ts.Validate(); err != nil {
		return TechnicalSanction{}, fmt.Errorf("invalid technical sanction: %w", err)
	}
	ts.Derived = calc.RecalculateTechnicalSanction(ts.Inputs, ts.Overrides, ts.Derived)

	today := utils.Today(s.clock)
	if ts.Noting && ts.NotingDate == nil {
		ts.NotingDate = &today
	}
	if ts.Order && ts.OrderDate == nil {
		ts.OrderDate = &today
	}
	return ts, nil
}

func (s *ServiceImpl) Create(ctx context.Context, req WriteRequest) (TechnicalSanction, error) {
	ts, err := s.prepare(0, req)
	if err != nil {
		return TechnicalSanction{}, err
	}
	created, err := s.repo.Create(ctx, dataset.IsDemo(ctx), ts)
	if err != nil {
		return TechnicalSanction{}, err
	}
	s.publishSaved(ctx, created, true)
	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id int, req WriteRequest) (TechnicalSanction, error) {
	ts, err := s.prepare(id, req)
	if err != nil {
		return TechnicalSanction{}, err
	}
	updated, err := s.repo.Update(ctx, dataset.IsDemo(ctx), ts)
	if err != nil {
		return TechnicalSanction{}, err
	}
	s.publishSaved(ctx, updated, false)
	return updated, nil
}

func (s *ServiceImpl) publishSaved(ctx context.Context, ts TechnicalSanction, created bool) {
	overridden := make([]string, 0)
	for _, f := range ts.Overrides.Active() {
		overridden = append(overridden, string(f))
	}
	event := event_bus.NewEvent(ctx, event_bus.TechnicalSanctionSavedEvent, event_bus.TechnicalSanctionSaved{
		Id:         ts.Id,
		WorkId:     ts.WorkId,
		SubName:    ts.SubName,
		Created:    created,
		Overridden: overridden,
		FinalTotal: ts.Derived.FinalTotal,
	})
	if err := s.eventBus.Publish(event); err != nil {
		log.Errorf("failed to publish technical sanction event: %v", err)
	}
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	return s.repo.Delete(ctx, dataset.IsDemo(ctx), id)
}
