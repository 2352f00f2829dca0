package work

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type RepositoryStub struct {
	nextId  int
	works   map[int]Work
	spills  map[int]Spill
	demoSet map[int]bool
	// GRs lists the GR ids Create and Update accept, per data set.
	GRs map[bool][]int
}

func NewStubRepository() *RepositoryStub {
	s := &RepositoryStub{}
	s.Cleanup()
	return s
}

func (s *RepositoryStub) hasGR(demo bool, grId int) bool {
	for _, id := range s.GRs[demo] {
		if id == grId {
			return true
		}
	}
	return false
}

func (s *RepositoryStub) withSpills(w Work) Work {
	w.Spills = []Spill{}
	for _, sp := range s.sortedSpills() {
		if sp.WorkId == w.Id {
			w.Spills = append(w.Spills, sp)
		}
	}
	return w
}

func (s *RepositoryStub) sortedSpills() []Spill {
	spills := make([]Spill, 0, len(s.spills))
	for _, sp := range s.spills {
		spills = append(spills, sp)
	}
	sort.Slice(spills, func(i, j int) bool { return spills[i].Id < spills[j].Id })
	return spills
}

func (s *RepositoryStub) List(ctx context.Context, demo bool, grId *int) ([]Work, error) {
	works := make([]Work, 0)
	for _, w := range s.works {
		if w.IsDemo == demo && (grId == nil || w.GrId == *grId) {
			works = append(works, s.withSpills(w))
		}
	}
	sort.Slice(works, func(i, j int) bool { return works[i].Id < works[j].Id })
	return works, nil
}

func (s *RepositoryStub) Get(ctx context.Context, demo bool, id int) (Work, error) {
	w, ok := s.works[id]
	if !ok || w.IsDemo != demo {
		return Work{}, ErrWorkNotFound
	}
	return s.withSpills(w), nil
}

func (s *RepositoryStub) Create(ctx context.Context, demo bool, work Work) (Work, error) {
	if !s.hasGR(demo, work.GrId) {
		return Work{}, ErrGRNotFound
	}
	s.nextId++
	work.Id = s.nextId
	work.IsDemo = demo
	work.CreatedAt = time.Now()
	work.UpdatedAt = work.CreatedAt
	work.Spills = nil
	s.works[work.Id] = work
	return s.withSpills(work), nil
}

func (s *RepositoryStub) Update(ctx context.Context, demo bool, work Work) (Work, error) {
	existing, err := s.Get(ctx, demo, work.Id)
	if err != nil {
		return Work{}, err
	}
	if !s.hasGR(demo, work.GrId) {
		return Work{}, ErrGRNotFound
	}
	if work.RA.Add(existing.TotalARA()).GreaterThan(work.AA) {
		return Work{}, ErrSpillExceedsAA
	}
	work.IsDemo = demo
	work.CreatedAt = existing.CreatedAt
	work.UpdatedAt = time.Now()
	work.Spills = nil
	s.works[work.Id] = work
	return s.withSpills(work), nil
}

func (s *RepositoryStub) Delete(ctx context.Context, demo bool, id int) (bool, error) {
	if _, err := s.Get(ctx, demo, id); err != nil {
		return false, nil
	}
	delete(s.works, id)
	for spillId, sp := range s.spills {
		if sp.WorkId == id {
			delete(s.spills, spillId)
		}
	}
	return true, nil
}

func (s *RepositoryStub) ListSpills(ctx context.Context, demo bool, workId *int) ([]Spill, error) {
	spills := make([]Spill, 0)
	for _, sp := range s.sortedSpills() {
		if s.demoSet[sp.Id] == demo && (workId == nil || sp.WorkId == *workId) {
			spills = append(spills, sp)
		}
	}
	return spills, nil
}

func (s *RepositoryStub) GetSpill(ctx context.Context, demo bool, id int) (Spill, error) {
	sp, ok := s.spills[id]
	if !ok || s.demoSet[id] != demo {
		return Spill{}, ErrSpillNotFound
	}
	return sp, nil
}

func (s *RepositoryStub) StoreSpill(ctx context.Context, demo bool, spill Spill) (Spill, error) {
	w, err := s.Get(ctx, demo, spill.WorkId)
	if err != nil {
		return Spill{}, err
	}
	total := decimal.Zero
	for _, sp := range w.Spills {
		if sp.Id != spill.Id {
			total = total.Add(sp.ARA)
		}
	}
	if w.RA.Add(total).Add(spill.ARA).GreaterThan(w.AA) {
		return Spill{}, fmt.Errorf("%w: stub ceiling", ErrSpillExceedsAA)
	}
	if spill.Id == 0 {
		s.nextId++
		spill.Id = s.nextId
		spill.CreatedAt = time.Now()
	}
	s.spills[spill.Id] = spill
	s.demoSet[spill.Id] = demo
	return spill, nil
}

func (s *RepositoryStub) DeleteSpill(ctx context.Context, demo bool, id int) (bool, error) {
	if _, err := s.GetSpill(ctx, demo, id); err != nil {
		return false, nil
	}
	delete(s.spills, id)
	delete(s.demoSet, id)
	return true, nil
}

func (s *RepositoryStub) Cleanup() {
	s.nextId = 0
	s.works = map[int]Work{}
	s.spills = map[int]Spill{}
	s.demoSet = map[int]bool{}
	s.GRs = map[bool][]int{false: {1, 2}, true: {10}}
}
