package tender

import (
	"context"
	"fmt"

	"github.com/worksledger/worksledger/internal/utils"
	"github.com/worksledger/worksledger/pkg/dataset"
)

type Service interface {
	List(ctx context.Context, workId *int) ([]Tender, error)
	Get(ctx context.Context, id int) (Tender, error)
	Create(ctx context.Context, req WriteRequest) (Tender, error)
	Update(ctx context.Context, id int, req WriteRequest) (Tender, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) Service {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) List(ctx context.Context, workId *int) ([]Tender, error) {
	return s.repo.List(ctx, dataset.IsDemo(ctx), workId)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Tender, error) {
	return s.repo.Get(ctx, dataset.IsDemo(ctx), id)
}

func (s *ServiceImpl) prepare(id int, req WriteRequest) (Tender, error) {
	today := utils.Today(s.clock)
	t, err := req.ToEntity(id, today)
	if err != nil {
		return Tender{}, fmt.Errorf("invalid tender: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tender{}, fmt.Errorf("invalid tender: %w", err)
	}
	t.SyncStageDates(today)
	return t, nil
}

func (s *ServiceImpl) Create(ctx context.Context, req WriteRequest) (Tender, error) {
	t, err := s.prepare(0, req)
	if err != nil {
		return Tender{}, err
	}
	return s.repo.Create(ctx, dataset.IsDemo(ctx), t)
}

func (s *ServiceImpl) Update(ctx context.Context, id int, req WriteRequest) (Tender, error) {
	t, err := s.prepare(id, req)
	if err != nil {
		return Tender{}, err
	}
	return s.repo.Update(ctx, dataset.IsDemo(ctx), t)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	return s.repo.Delete(ctx, dataset.IsDemo(ctx), id)
}
