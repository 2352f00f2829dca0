package gr

import (
	"context"
	"fmt"

	"github.com/worksledger/worksledger/pkg/dataset"
)

type Service interface {
	List(ctx context.Context) ([]GR, error)
	Get(ctx context.Context, id int) (GR, error)
	Create(ctx context.Context, gr GR) (GR, error)
	Update(ctx context.Context, gr GR) (GR, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) List(ctx context.Context) ([]GR, error) {
	return s.repo.List(ctx, dataset.IsDemo(ctx))
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (GR, error) {
	return s.repo.Get(ctx, dataset.IsDemo(ctx), id)
}

func (s *ServiceImpl) Create(ctx context.Context, gr GR) (GR, error) {
	if err := gr.Validate(); err != nil {
		return GR{}, fmt.Errorf("invalid gr: %w", err)
	}
	return s.repo.Create(ctx, dataset.IsDemo(ctx), gr)
}

func (s *ServiceImpl) Update(ctx context.Context, gr GR) (GR, error) {
	if err := gr.Validate(); err != nil {
		return GR{}, fmt.Errorf("invalid gr: %w", err)
	}
	return s.repo.Update(ctx, dataset.IsDemo(ctx), gr)
}

// Delete removes a GR together with its works and everything below them.
func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	return s.repo.Delete(ctx, dataset.IsDemo(ctx), id)
}
