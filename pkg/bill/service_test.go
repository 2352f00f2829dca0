package bill

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worksledger/worksledger/internal/event_bus"
	"github.com/worksledger/worksledger/internal/rest"
	"github.com/worksledger/worksledger/internal/utils"
	"github.com/worksledger/worksledger/pkg/dataset"
)

var ctx = context.Background()

var today = time.Date(2025, 6, 30, 8, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func setupService(t *testing.T) (Service, *RepositoryStub, *[]event_bus.BillSaved) {
	repo := NewStubRepository()
	bus := event_bus.NewEventBus(&utils.MockClock{FixedNow: today})
	var saved []event_bus.BillSaved
	event_bus.SubscribeTyped(bus, event_bus.BillSavedEvent, func(e event_bus.EventT[event_bus.BillSaved]) error {
		saved = append(saved, e.Data)
		return nil
	})
	t.Cleanup(repo.Cleanup)
	return NewService(repo, bus, &utils.MockClock{FixedNow: today}), repo, &saved
}

func newRequest() WriteRequest {
	return WriteRequest{
		Tender:                     ptr(1),
		BillNumber:                 "RA-1",
		WorkPortion:                d("100000"),
		GSTPercentage:              d("18"),
		TDSPercentage:              d("2"),
		GSTOnWorkPortionPercentage: d("2"),
		LWCPercentage:              d("1"),
	}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should compute the statutory deductions", func(t *testing.T) {
		// given
		service, _, saved := setupService(t)

		// when
		created, err := service.Create(ctx, newRequest())

		// then
		require.NoError(t, err)
		assert.True(t, d("18000").Equal(created.Derived.GST))
		assert.True(t, d("118000").Equal(created.Derived.BillTotal))
		assert.True(t, d("2000").Equal(created.Derived.TDS))
		assert.True(t, d("2000").Equal(created.Derived.GSTOnWorkPortion))
		assert.True(t, d("1000").Equal(created.Derived.LWC))
		assert.True(t, d("113000").Equal(created.Derived.NetAmount))
		assert.Equal(t, "2025-06-30", created.Date.Format(utils.DateLayout))
		assert.Equal(t, "T-2025-01", created.TenderNumber)
		assert.False(t, created.IsPaid())
		require.Len(t, *saved, 1)
		assert.True(t, (*saved)[0].NetAmount.Equal(d("113000")))
	})

	t.Run("should store overridden deductions as magnitudes", func(t *testing.T) {
		// given
		service, _, saved := setupService(t)
		req := newRequest()
		req.TDS = ptr(d("-2500"))
		req.LWC = ptr(d("-900"))

		// when
		created, err := service.Create(ctx, req)

		// then
		require.NoError(t, err)
		assert.True(t, created.Overrides.TDS)
		assert.True(t, created.Overrides.LWC)
		assert.True(t, d("2500").Equal(created.Derived.TDS))
		assert.True(t, d("900").Equal(created.Derived.LWC))
		assert.True(t, d("112600").Equal(created.Derived.NetAmount))
		assert.Equal(t, []string{"tds", "lwc"}, (*saved)[0].Overridden)
	})

	t.Run("should feed an overridden gst into the bill total", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		req := newRequest()
		req.GST = ptr(d("20000"))

		// when
		created, err := service.Create(ctx, req)

		// then
		require.NoError(t, err)
		assert.True(t, d("120000").Equal(created.Derived.BillTotal))
		assert.True(t, d("115000").Equal(created.Derived.NetAmount))
	})

	t.Run("should subtract security deposit, insurance and royalty as magnitudes", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		req := newRequest()
		req.SecurityDeposit = d("-500")
		req.Insurance = d("-100")
		req.Royalty = d("200")

		// when
		created, err := service.Create(ctx, req)

		// then
		require.NoError(t, err)
		assert.True(t, d("112200").Equal(created.Derived.NetAmount))
	})

	t.Run("should mark a bill paid from a GR", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		req := newRequest()
		req.PaymentDoneFromGR = ptr(1)

		// when
		created, err := service.Create(ctx, req)

		// then
		require.NoError(t, err)
		assert.True(t, created.IsPaid())
	})

	t.Run("should require a tender", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		req := newRequest()
		req.Tender = nil

		// when
		_, err := service.Create(ctx, req)

		// then
		require.Error(t, err)
		assert.True(t, rest.IsValidation(err))
	})

	t.Run("should reject a tender of the other data set", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)

		// when
		_, err := service.Create(dataset.WithDemo(ctx, true), newRequest())

		// then
		assert.ErrorIs(t, err, ErrTenderNotFound)
	})

	t.Run("should reject an unknown paying GR", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		req := newRequest()
		req.PaymentDoneFromGR = ptr(10)

		// when
		_, err := service.Create(ctx, req)

		// then
		assert.ErrorIs(t, err, ErrGRNotFound)
	})

	t.Run("should reject a negative work portion", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		req := newRequest()
		req.WorkPortion = d("-1")

		// when
		_, err := service.Create(ctx, req)

		// then
		require.Error(t, err)
		assert.True(t, rest.IsValidation(err))
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should clear an override the request no longer carries", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		req := newRequest()
		req.NetAmount = ptr(d("1234.56"))
		created, err := service.Create(ctx, req)
		require.NoError(t, err)
		require.True(t, created.Overrides.NetAmount)

		// when
		updated, err := service.Update(ctx, created.Id, newRequest())

		// then
		require.NoError(t, err)
		assert.False(t, updated.Overrides.NetAmount)
		assert.True(t, d("113000").Equal(updated.Derived.NetAmount))
	})

	t.Run("should keep the original tender and date", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		req := newRequest()
		req.Date = ptr("2025-01-15")
		created, err := service.Create(ctx, req)
		require.NoError(t, err)
		update := newRequest()
		update.Tender = ptr(2)

		// when
		updated, err := service.Update(ctx, created.Id, update)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, updated.TenderId)
		assert.Equal(t, "2025-01-15", updated.Date.Format(utils.DateLayout))
	})

	t.Run("should fail for a missing bill", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)

		// when
		_, err := service.Update(ctx, 5, newRequest())

		// then
		assert.ErrorIs(t, err, ErrBillNotFound)
	})
}

func TestServiceImpl_ListFilters(t *testing.T) {
	// given
	service, _, _ := setupService(t)
	_, err := service.Create(ctx, newRequest())
	require.NoError(t, err)
	other := newRequest()
	other.Tender = ptr(2)
	_, err = service.Create(ctx, other)
	require.NoError(t, err)

	// when
	all, err := service.List(ctx, ListFilter{})
	require.NoError(t, err)
	byTender, err := service.List(ctx, ListFilter{TenderId: ptr(2)})
	require.NoError(t, err)
	byWork, err := service.List(ctx, ListFilter{WorkId: ptr(1)})
	require.NoError(t, err)

	// then
	assert.Len(t, all, 2)
	require.Len(t, byTender, 1)
	assert.Equal(t, 2, byTender[0].TenderId)
	require.Len(t, byWork, 1)
	assert.Equal(t, 1, byWork[0].TenderId)
}
