package gr

import (
	"context"
	"sort"
	"time"
)

type RepositoryStub struct {
	nextId int
	grs    map[int]GR
}

func NewStubRepository() *RepositoryStub {
	return &RepositoryStub{grs: map[int]GR{}}
}

func (s *RepositoryStub) List(ctx context.Context, demo bool) ([]GR, error) {
	grs := make([]GR, 0)
	for _, g := range s.grs {
		if g.IsDemo == demo {
			grs = append(grs, g)
		}
	}
	sort.Slice(grs, func(i, j int) bool { return grs[i].Id < grs[j].Id })
	return grs, nil
}

func (s *RepositoryStub) Get(ctx context.Context, demo bool, id int) (GR, error) {
	g, ok := s.grs[id]
	if !ok || g.IsDemo != demo {
		return GR{}, ErrGRNotFound
	}
	return g, nil
}

func (s *RepositoryStub) Create(ctx context.Context, demo bool, gr GR) (GR, error) {
	for _, existing := range s.grs {
		if existing.Number == gr.Number && existing.IsDemo == demo {
			return GR{}, ErrDuplicateGRNumber
		}
	}
	s.nextId++
	gr.Id = s.nextId
	gr.IsDemo = demo
	gr.CreatedAt = time.Now()
	gr.UpdatedAt = gr.CreatedAt
	s.grs[gr.Id] = gr
	return gr, nil
}

func (s *RepositoryStub) Update(ctx context.Context, demo bool, gr GR) (GR, error) {
	existing, err := s.Get(ctx, demo, gr.Id)
	if err != nil {
		return GR{}, err
	}
	existing.Number = gr.Number
	existing.Date = gr.Date
	existing.UpdatedAt = time.Now()
	s.grs[gr.Id] = existing
	return existing, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, demo bool, id int) (bool, error) {
	if _, err := s.Get(ctx, demo, id); err != nil {
		return false, nil
	}
	delete(s.grs, id)
	return true, nil
}

func (s *RepositoryStub) Cleanup() {
	s.grs = map[int]GR{}
	s.nextId = 0
}
