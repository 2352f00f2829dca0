package work

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/event_bus"
	"github.com/worksledger/worksledger/internal/utils"
	"github.com/worksledger/worksledger/pkg/dataset"
)

type Service interface {
	List(ctx context.Context, grId *int) ([]Work, error)
	Get(ctx context.Context, id int) (Work, error)
	Create(ctx context.Context, work Work) (Work, error)
	Update(ctx context.Context, work Work) (Work, error)
	Delete(ctx context.Context, id int) (bool, error)
	ListSpills(ctx context.Context, workId *int) ([]Spill, error)
	AddSpill(ctx context.Context, spill Spill) (Spill, error)
	UpdateSpill(ctx context.Context, spill Spill) (Spill, error)
	DeleteSpill(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
	clock    utils.Clock
}

func NewService(repo Repository, eventBus *event_bus.EventBus, clock utils.Clock) Service {
	return &ServiceImpl{repo: repo, eventBus: eventBus, clock: clock}
}

func (s *ServiceImpl) List(ctx context.Context, grId *int) ([]Work, error) {
	return s.repo.List(ctx, dataset.IsDemo(ctx), grId)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Work, error) {
	return s.repo.Get(ctx, dataset.IsDemo(ctx), id)
}

func (s *ServiceImpl) prepare(work Work) (Work, error) {
	if work.Date.IsZero() {
		work.Date = utils.Today(s.clock)
	}
	if !work.IsCancelled {
		work.CancelReason = ""
		work.CancelDetails = ""
	}
	if err := work.Validate(); err != nil {
		return Work{}, fmt.Errorf("invalid work: %w", err)
	}
	return work, nil
}

func (s *ServiceImpl) Create(ctx context.Context, work Work) (Work, error) {
	work, err := s.prepare(work)
	if err != nil {
		return Work{}, err
	}
	created, err := s.repo.Create(ctx, dataset.IsDemo(ctx), work)
	if err != nil {
		return Work{}, err
	}
	if created.IsCancelled {
		s.publishCancelled(ctx, created)
	}
	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, work Work) (Work, error) {
	demo := dataset.IsDemo(ctx)
	existing, err := s.repo.Get(ctx, demo, work.Id)
	if err != nil {
		return Work{}, err
	}
	work, err = s.prepare(work)
	if err != nil {
		return Work{}, err
	}
	updated, err := s.repo.Update(ctx, demo, work)
	if err != nil {
		return Work{}, err
	}
	if updated.IsCancelled && !existing.IsCancelled {
		s.publishCancelled(ctx, updated)
	}
	return updated, nil
}

func (s *ServiceImpl) publishCancelled(ctx context.Context, w Work) {
	event := event_bus.NewEvent(ctx, event_bus.WorkCancelledEvent, event_bus.WorkCancelled{
		Id:      w.Id,
		GrId:    w.GrId,
		Name:    w.Name,
		Reason:  string(w.CancelReason),
		Details: w.CancelDetails,
	})
	if err := s.eventBus.Publish(event); err != nil {
		log.Errorf("failed to publish work cancellation: %v", err)
	}
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	return s.repo.Delete(ctx, dataset.IsDemo(ctx), id)
}

func (s *ServiceImpl) ListSpills(ctx context.Context, workId *int) ([]Spill, error) {
	return s.repo.ListSpills(ctx, dataset.IsDemo(ctx), workId)
}

func (s *ServiceImpl) AddSpill(ctx context.Context, spill Spill) (Spill, error) {
	spill.Id = 0
	if err := spill.Validate(); err != nil {
		return Spill{}, fmt.Errorf("invalid spill: %w", err)
	}
	return s.repo.StoreSpill(ctx, dataset.IsDemo(ctx), spill)
}

func (s *ServiceImpl) UpdateSpill(ctx context.Context, spill Spill) (Spill, error) {
	if err := spill.Validate(); err != nil {
		return Spill{}, fmt.Errorf("invalid spill: %w", err)
	}
	if _, err := s.repo.GetSpill(ctx, dataset.IsDemo(ctx), spill.Id); err != nil {
		return Spill{}, err
	}
	return s.repo.StoreSpill(ctx, dataset.IsDemo(ctx), spill)
}

func (s *ServiceImpl) DeleteSpill(ctx context.Context, id int) (bool, error) {
	return s.repo.DeleteSpill(ctx, dataset.IsDemo(ctx), id)
}
