package tender

import (
	"context"
	"sort"
	"time"
)

type RepositoryStub struct {
	nextId int
	items  map[int]Tender
	// Works maps work ids to names, per data set.
	Works map[bool]map[int]string
	// Sanctions maps technical sanction ids to their work id, per data set.
	Sanctions map[bool]map[int]int
}

func NewStubRepository() *RepositoryStub {
	s := &RepositoryStub{}
	s.Cleanup()
	return s
}

func (s *RepositoryStub) List(ctx context.Context, demo bool, workId *int) ([]Tender, error) {
	result := make([]Tender, 0)
	for _, t := range s.items {
		if t.IsDemo == demo && (workId == nil || t.WorkId == *workId) {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Id < result[j].Id })
	return result, nil
}

func (s *RepositoryStub) Get(ctx context.Context, demo bool, id int) (Tender, error) {
	t, ok := s.items[id]
	if !ok || t.IsDemo != demo {
		return Tender{}, ErrTenderNotFound
	}
	return t, nil
}

func (s *RepositoryStub) check(demo bool, t Tender) (string, error) {
	name, ok := s.Works[demo][t.WorkId]
	if !ok {
		return "", ErrWorkNotFound
	}
	if t.TechnicalSanctionId != nil && s.Sanctions[demo][*t.TechnicalSanctionId] != t.WorkId {
		return "", ErrTechnicalSanctionMismatch
	}
	for _, other := range s.items {
		if other.Id != t.Id && other.IsDemo == demo && other.TenderNumber == t.TenderNumber {
			return "", ErrDuplicateTenderNumber
		}
	}
	return name, nil
}

func (s *RepositoryStub) Create(ctx context.Context, demo bool, t Tender) (Tender, error) {
	name, err := s.check(demo, t)
	if err != nil {
		return Tender{}, err
	}
	s.nextId++
	t.Id = s.nextId
	t.WorkName = name
	t.IsDemo = demo
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	s.items[t.Id] = t
	return t, nil
}

func (s *RepositoryStub) Update(ctx context.Context, demo bool, t Tender) (Tender, error) {
	existing, err := s.Get(ctx, demo, t.Id)
	if err != nil {
		return Tender{}, err
	}
	name, err := s.check(demo, t)
	if err != nil {
		return Tender{}, err
	}
	t.WorkName = name
	t.IsDemo = demo
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now()
	s.items[t.Id] = t
	return t, nil
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
	s.items = map[int]Tender{}
	s.Works = map[bool]map[int]string{
		false: {1: "Road widening, ward 4", 2: "Drainage, ward 9"},
		true:  {50: "Demo culvert"},
	}
	s.Sanctions = map[bool]map[int]int{
		false: {7: 1},
		true:  {},
	}
}
