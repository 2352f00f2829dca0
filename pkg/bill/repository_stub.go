package bill

import (
	"context"
	"sort"
	"time"
)

// StubTender is the slice of a tender the stub needs to fill bill reads.
type StubTender struct {
	Number   string
	WorkId   int
	WorkName string
}

type RepositoryStub struct {
	nextId  int
	items   map[int]Bill
	Tenders map[bool]map[int]StubTender
	GRs     map[bool][]int
}

func NewStubRepository() *RepositoryStub {
	s := &RepositoryStub{}
	s.Cleanup()
	return s
}

func (s *RepositoryStub) List(ctx context.Context, demo bool, filter ListFilter) ([]Bill, error) {
	result := make([]Bill, 0)
	for _, b := range s.items {
		if b.IsDemo != demo {
			continue
		}
		if filter.TenderId != nil && b.TenderId != *filter.TenderId {
			continue
		}
		if filter.WorkId != nil && b.WorkId != *filter.WorkId {
			continue
		}
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Id > result[j].Id })
	return result, nil
}

func (s *RepositoryStub) Get(ctx context.Context, demo bool, id int) (Bill, error) {
	b, ok := s.items[id]
	if !ok || b.IsDemo != demo {
		return Bill{}, ErrBillNotFound
	}
	return b, nil
}

func (s *RepositoryStub) resolve(demo bool, b Bill) (Bill, error) {
	t, ok := s.Tenders[demo][b.TenderId]
	if !ok {
		return Bill{}, ErrTenderNotFound
	}
	if b.PaymentDoneFromGRId != nil {
		found := false
		for _, id := range s.GRs[demo] {
			found = found || id == *b.PaymentDoneFromGRId
		}
		if !found {
			return Bill{}, ErrGRNotFound
		}
	}
	b.TenderNumber = t.Number
	b.WorkId = t.WorkId
	b.WorkName = t.WorkName
	b.IsDemo = demo
	return b, nil
}

func (s *RepositoryStub) Create(ctx context.Context, demo bool, b Bill) (Bill, error) {
	b, err := s.resolve(demo, b)
	if err != nil {
		return Bill{}, err
	}
	s.nextId++
	b.Id = s.nextId
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	s.items[b.Id] = b
	return b, nil
}

func (s *RepositoryStub) Update(ctx context.Context, demo bool, b Bill) (Bill, error) {
	existing, err := s.Get(ctx, demo, b.Id)
	if err != nil {
		return Bill{}, err
	}
	b.TenderId = existing.TenderId
	if b, err = s.resolve(demo, b); err != nil {
		return Bill{}, err
	}
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = time.Now()
	s.items[b.Id] = b
	return b, nil
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
	s.items = map[int]Bill{}
	s.Tenders = map[bool]map[int]StubTender{
		false: {
			1: {Number: "T-2025-01", WorkId: 1, WorkName: "Road widening, ward 4"},
			2: {Number: "T-2025-02", WorkId: 2, WorkName: "Drainage, ward 9"},
		},
		true: {60: {Number: "DEMO-T-1", WorkId: 50, WorkName: "Demo culvert"}},
	}
	s.GRs = map[bool][]int{false: {1}, true: {10}}
}
