package status

import "context"

type countsCall struct {
	Demo   bool
	GrId   *int
	WorkId *int
}

// RepositoryStub returns fixed counts and records the scope it was asked for.
type RepositoryStub struct {
	Result Counts
	// WorkGRs maps active work ids to their GR, per data set.
	WorkGRs map[bool]map[int]int
	Calls   []countsCall
}

func NewStubRepository() *RepositoryStub {
	return &RepositoryStub{WorkGRs: map[bool]map[int]int{false: {}, true: {}}}
}

func (s *RepositoryStub) WorkGR(ctx context.Context, demo bool, workId int) (int, error) {
	grId, ok := s.WorkGRs[demo][workId]
	if !ok {
		return 0, ErrWorkNotFound
	}
	return grId, nil
}

func (s *RepositoryStub) Counts(ctx context.Context, demo bool, grId, workId *int) (Counts, error) {
	s.Calls = append(s.Calls, countsCall{Demo: demo, GrId: grId, WorkId: workId})
	return s.Result, nil
}
