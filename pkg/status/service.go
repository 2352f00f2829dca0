package status

import (
	"context"
	"errors"
	"fmt"

	"github.com/worksledger/worksledger/pkg/dataset"
)

var ErrUnknownPage = errors.New("unknown page")
var ErrWorkNotInGR = errors.New("work does not belong to GR")

type Service interface {
	Dashboard(ctx context.Context, filter Filter) (Dashboard, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &ServiceImpl{repo: repo}
}

// Dashboard counts within the filter. A work filter without a GR filter
// narrows the GR count to the work's GR.
func (s *ServiceImpl) Dashboard(ctx context.Context, filter Filter) (Dashboard, error) {
	if !filter.Page.Valid() {
		return Dashboard{}, fmt.Errorf("%w: %q", ErrUnknownPage, filter.Page)
	}
	demo := dataset.IsDemo(ctx)
	if filter.WorkId != nil {
		grId, err := s.repo.WorkGR(ctx, demo, *filter.WorkId)
		if err != nil {
			return Dashboard{}, err
		}
		if filter.GrId != nil && *filter.GrId != grId {
			return Dashboard{}, fmt.Errorf("%w: work %d, GR %d", ErrWorkNotInGR, *filter.WorkId, *filter.GrId)
		}
		filter.GrId = &grId
	}
	counts, err := s.repo.Counts(ctx, demo, filter.GrId, filter.WorkId)
	if err != nil {
		return Dashboard{}, err
	}
	return Build(counts, filter), nil
}
