package status

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worksledger/worksledger/pkg/dataset"
)

var ctx = context.Background()

func ptr[T any](v T) *T {
	return &v
}

var sampleCounts = Counts{
	GRs: 2, Works: 5, TechnicalSanctions: 4, Tenders: 3, Bills: 6,
	WorksWithoutTS: 2, WorksWithTSNoTender: 1, TendersOpen: 2, TendersAwarded: 1,
	TSNoting: 1, TSOrdered: 2,
	TendersOnlinePending: 1, TendersTechnical: 1, TendersFinancial: 0, TendersLOA: 1,
	BillsPendingPayment: 4, BillsPaymentCompleted: 2,
}

func setupService() (Service, *RepositoryStub) {
	repo := NewStubRepository()
	repo.Result = sampleCounts
	repo.WorkGRs[false][3] = 1
	repo.WorkGRs[true][30] = 10
	return NewService(repo), repo
}

func TestServiceImpl_Dashboard(t *testing.T) {
	t.Run("should build every section without a page", func(t *testing.T) {
		// given
		service, _ := setupService()

		// when
		d, err := service.Dashboard(ctx, Filter{})

		// then
		require.NoError(t, err)
		require.NotNil(t, d.Overall)
		assert.Equal(t, 5, d.ActiveWorks)
		assert.Equal(t, &WorksStatus{NoTSYet: 2, TSCreated: 1, TendersOpen: 2, TendersAwarded: 1, BillsPending: 4, Completed: 2}, d.WorksStatus)
		assert.Equal(t, &TSStatus{NotingStage: 1, OrderingStage: 2}, d.TSStatus)
		assert.Equal(t, &TendersStatus{OnlinePending: 1, TechnicalVerification: 1, LOAIssued: 1, WorkOrderIssued: 1}, d.TendersStatus)
		assert.Equal(t, &BillsStatus{PendingPayment: 4, PaymentCompleted: 2}, d.BillsStatus)
		assert.Nil(t, d.GRFilter)
	})

	t.Run("should build only the works section for the works page", func(t *testing.T) {
		// given
		service, _ := setupService()

		// when
		d, err := service.Dashboard(ctx, Filter{Page: PageWorks})

		// then
		require.NoError(t, err)
		assert.Nil(t, d.Overall)
		assert.NotNil(t, d.WorksStatus)
		assert.Nil(t, d.TSStatus)
		assert.Nil(t, d.TendersStatus)
		assert.Nil(t, d.BillsStatus)
	})

	t.Run("should build only the technical sanction section for the ts page", func(t *testing.T) {
		// given
		service, _ := setupService()

		// when
		d, err := service.Dashboard(ctx, Filter{Page: PageTS})

		// then
		require.NoError(t, err)
		assert.NotNil(t, d.TSStatus)
		assert.Nil(t, d.WorksStatus)
	})

	t.Run("should reject an unknown page", func(t *testing.T) {
		// given
		service, _ := setupService()

		// when
		_, err := service.Dashboard(ctx, Filter{Page: "bills"})

		// then
		assert.ErrorIs(t, err, ErrUnknownPage)
	})

	t.Run("should narrow the GR to the filtered work's GR", func(t *testing.T) {
		// given
		service, repo := setupService()

		// when
		d, err := service.Dashboard(ctx, Filter{WorkId: ptr(3)})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, *d.GRFilter)
		assert.Equal(t, 3, *d.WorkFilter)
		require.Len(t, repo.Calls, 1)
		assert.Equal(t, 1, *repo.Calls[0].GrId)
	})

	t.Run("should reject a work outside the filtered GR", func(t *testing.T) {
		// given
		service, _ := setupService()

		// when
		_, err := service.Dashboard(ctx, Filter{GrId: ptr(2), WorkId: ptr(3)})

		// then
		assert.ErrorIs(t, err, ErrWorkNotInGR)
	})

	t.Run("should not find a live work from the demo data set", func(t *testing.T) {
		// given
		service, _ := setupService()

		// when
		_, err := service.Dashboard(dataset.WithDemo(ctx, true), Filter{WorkId: ptr(3)})

		// then
		assert.ErrorIs(t, err, ErrWorkNotFound)
	})

	t.Run("should count within the demo data set", func(t *testing.T) {
		// given
		service, repo := setupService()

		// when
		_, err := service.Dashboard(dataset.WithDemo(ctx, true), Filter{})

		// then
		require.NoError(t, err)
		assert.True(t, repo.Calls[0].Demo)
	})
}
