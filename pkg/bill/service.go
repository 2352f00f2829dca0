package bill

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
	List(ctx context.Context, filter ListFilter) ([]Bill, error)
	Get(ctx context.Context, id int) (Bill, error)
	Create(ctx context.Context, req WriteRequest) (Bill, error)
	Update(ctx context.Context, id int, req WriteRequest) (Bill, error)
	Delete(ctx context.Context, id int) (bool, error)
	// Register renders the filtered bills as an XLSX workbook.
	Register(ctx context.Context, filter ListFilter) ([]byte, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
	clock    utils.Clock
}

func NewService(repo Repository, eventBus *event_bus.EventBus, clock utils.Clock) Service {
	return &ServiceImpl{repo: repo, eventBus: eventBus, clock: clock}
}

func (s *ServiceImpl) List(ctx context.Context, filter ListFilter) ([]Bill, error) {
	return s.repo.List(ctx, dataset.IsDemo(ctx), filter)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Bill, error) {
	return s.repo.Get(ctx, dataset.IsDemo(ctx), id)
}

// prepare keeps hand-entered amounts (as magnitudes for deductions) and
// recomputes the rest.
func (s *ServiceImpl) prepare(b Bill) (Bill, error) {
	if err := b.Validate(); err != nil {
		return Bill{}, fmt.Errorf("invalid bill: %w", err)
	}
	b.Derived = calc.RecalculateBill(b.Inputs, b.Overrides, b.Derived)
	return b, nil
}

func (s *ServiceImpl) Create(ctx context.Context, req WriteRequest) (Bill, error) {
	b, err := req.ToEntity(0, utils.Today(s.clock))
	if err != nil {
		return Bill{}, fmt.Errorf("invalid bill: %w", err)
	}
	if b, err = s.prepare(b); err != nil {
		return Bill{}, err
	}
	created, err := s.repo.Create(ctx, dataset.IsDemo(ctx), b)
	if err != nil {
		return Bill{}, err
	}
	s.publishSaved(ctx, created, true)
	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id int, req WriteRequest) (Bill, error) {
	existing, err := s.repo.Get(ctx, dataset.IsDemo(ctx), id)
	if err != nil {
		return Bill{}, err
	}
	b, err := req.ToEntity(id, existing.Date)
	if err != nil {
		return Bill{}, fmt.Errorf("invalid bill: %w", err)
	}
	b.TenderId = existing.TenderId
	if b, err = s.prepare(b); err != nil {
		return Bill{}, err
	}
	updated, err := s.repo.Update(ctx, dataset.IsDemo(ctx), b)
	if err != nil {
		return Bill{}, err
	}
	s.publishSaved(ctx, updated, false)
	return updated, nil
}

func (s *ServiceImpl) publishSaved(ctx context.Context, b Bill, created bool) {
	overridden := make([]string, 0)
	for _, f := range b.Overrides.Active() {
		overridden = append(overridden, string(f))
	}
	event := event_bus.NewEvent(ctx, event_bus.BillSavedEvent, event_bus.BillSaved{
		Id:         b.Id,
		TenderId:   b.TenderId,
		BillNumber: b.BillNumber,
		Created:    created,
		Overridden: overridden,
		NetAmount:  b.Derived.NetAmount,
	})
	if err := s.eventBus.Publish(event); err != nil {
		log.Errorf("failed to publish bill event: %v", err)
	}
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	return s.repo.Delete(ctx, dataset.IsDemo(ctx), id)
}

func (s *ServiceImpl) Register(ctx context.Context, filter ListFilter) ([]byte, error) {
	bills, err := s.repo.List(ctx, dataset.IsDemo(ctx), filter)
	if err != nil {
		return nil, err
	}
	return RenderRegister(bills, utils.Today(s.clock))
}
