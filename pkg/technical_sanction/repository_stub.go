package technical_sanction

import (
	"context"
	"sort"
	"time"
)

type RepositoryStub struct {
	nextId int
	items  map[int]TechnicalSanction
	// Works maps work ids to names, per data set.
	Works map[bool]map[int]string
}

func NewStubRepository() *RepositoryStub {
	s := &RepositoryStub{}
	s.Cleanup()
	return s
}

func (s *RepositoryStub) List(ctx context.Context, demo bool, workId *int) ([]TechnicalSanction, error) {
	result := make([]TechnicalSanction, 0)
	for _, ts := range s.items {
		if ts.IsDemo == demo && (workId == nil || ts.WorkId == *workId) {
			result = append(result, ts)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Id < result[j].Id })
	return result, nil
}

func (s *RepositoryStub) Get(ctx context.Context, demo bool, id int) (TechnicalSanction, error) {
	ts, ok := s.items[id]
	if !ok || ts.IsDemo != demo {
		return TechnicalSanction{}, ErrTechnicalSanctionNotFound
	}
	return ts, nil
}

func (s *RepositoryStub) Create(ctx context.Context, demo bool, ts TechnicalSanction) (TechnicalSanction, error) {
	name, ok := s.Works[demo][ts.WorkId]
	if !ok {
		return TechnicalSanction{}, ErrWorkNotFound
	}
	s.nextId++
	ts.Id = s.nextId
	ts.WorkName = name
	ts.IsDemo = demo
	ts.CreatedAt = time.Now()
	ts.UpdatedAt = ts.CreatedAt
	s.items[ts.Id] = ts
	return ts, nil
}

func (s *RepositoryStub) Update(ctx context.Context, demo bool, ts TechnicalSanction) (TechnicalSanction, error) {
	existing, err := s.Get(ctx, demo, ts.Id)
	if err != nil {
		return TechnicalSanction{}, err
	}
	name, ok := s.Works[demo][ts.WorkId]
	if !ok {
		return TechnicalSanction{}, ErrWorkNotFound
	}
	ts.WorkName = name
	ts.IsDemo = demo
	ts.CreatedAt = existing.CreatedAt
	ts.UpdatedAt = time.Now()
	s.items[ts.Id] = ts
	return ts, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, demo bool, id int) (bool, error) {
	if _, err := s.Get(ctx, demo, id); err != nil {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *RepositoryStub) Cleanup() {
	s.nextId = 0
	s.items = map[int]TechnicalSanction{}
	s.Works = map[bool]map[int]string{
		false: {1: "Road widening, ward 4"},
		true:  {50: "Demo culvert"},
	}
}
