package technical_sanction

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

var today = time.Date(2025, 3, 14, 16, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func setupService(t *testing.T) (Service, *RepositoryStub, *[]event_bus.TechnicalSanctionSaved) {
	repo := NewStubRepository()
	bus := event_bus.NewEventBus(&utils.MockClock{FixedNow: today})
	var saved []event_bus.TechnicalSanctionSaved
	event_bus.SubscribeTyped(bus, event_bus.TechnicalSanctionSavedEvent, func(e event_bus.EventT[event_bus.TechnicalSanctionSaved]) error {
		saved = append(saved, e.Data)
		return nil
	})
	t.Cleanup(repo.Cleanup)
	return NewService(repo, bus, &utils.MockClock{FixedNow: today}), repo, &saved
}

func newRequest() WriteRequest {
	return WriteRequest{
		Work:                      1,
		SubName:                   "Phase 1",
		WorkPortion:               d("100000"),
		Royalty:                   d("5000"),
		Testing:                   d("2000"),
		Consultancy:               d("3000"),
		GSTPercentage:             d("18"),
		ContingencyPercentage:     d("4"),
		LabourInsurancePercentage: d("1"),
	}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should compute every derived amount", func(t *testing.T) {
		// given
		service, _, saved := setupService(t)

		// when
		created, err := service.Create(ctx, newRequest())

		// then
		require.NoError(t, err)
		assert.Equal(t, "Road widening, ward 4", created.WorkName)
		assert.True(t, d("18000").Equal(created.Derived.GSTAmount))
		assert.True(t, d("125000").Equal(created.Derived.GrandTotal))
		assert.True(t, d("4000").Equal(created.Derived.ContingencyAmount))
		assert.True(t, d("1000").Equal(created.Derived.LabourInsuranceAmount))
		assert.True(t, d("133000").Equal(created.Derived.FinalTotal))
		assert.Empty(t, created.Overrides.Active())
		require.Len(t, *saved, 1)
		assert.True(t, (*saved)[0].Created)
		assert.Empty(t, (*saved)[0].Overridden)
	})

	t.Run("should keep a hand-entered amount and feed it downstream", func(t *testing.T) {
		// given
		service, _, saved := setupService(t)
		req := newRequest()
		req.GST = ptr(d("20000"))

		// when
		created, err := service.Create(ctx, req)

		// then
		require.NoError(t, err)
		assert.True(t, created.Overrides.GST)
		assert.True(t, d("20000").Equal(created.Derived.GSTAmount))
		assert.True(t, d("127000").Equal(created.Derived.GrandTotal))
		assert.True(t, d("135000").Equal(created.Derived.FinalTotal))
		assert.Equal(t, []string{"gst"}, (*saved)[0].Overridden)
	})

	t.Run("should compute contingency from work portion even with an overridden grand total", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		req := newRequest()
		req.GrandTotal = ptr(d("999999"))

		// when
		created, err := service.Create(ctx, req)

		// then
		require.NoError(t, err)
		assert.True(t, d("999999").Equal(created.Derived.GrandTotal))
		assert.True(t, d("4000").Equal(created.Derived.ContingencyAmount))
	})

	t.Run("should date a milestone set without a date", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		req := newRequest()
		req.Noting = true
		req.Order = true
		req.OrderDate = ptr("2025-01-02")

		// when
		created, err := service.Create(ctx, req)

		// then
		require.NoError(t, err)
		assert.Equal(t, "2025-03-14", utils.FormatDate(created.NotingDate))
		assert.Equal(t, "2025-01-02", utils.FormatDate(created.OrderDate))
	})

	t.Run("should leave an unset milestone undated", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)

		// when
		created, err := service.Create(ctx, newRequest())

		// then
		require.NoError(t, err)
		assert.Nil(t, created.NotingDate)
		assert.Nil(t, created.OrderDate)
	})

	t.Run("should reject a malformed milestone date", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		req := newRequest()
		req.NotingDate = ptr("14/03/2025")

		// when
		_, err := service.Create(ctx, req)

		// then
		require.Error(t, err)
		assert.True(t, rest.IsValidation(err))
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		req := newRequest()
		req.Royalty = d("-1")

		// when
		_, err := service.Create(ctx, req)

		// then
		require.Error(t, err)
		assert.True(t, rest.IsValidation(err))
	})

	t.Run("should fail for a work of the other data set", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)

		// when
		_, err := service.Create(dataset.WithDemo(ctx, true), newRequest())

		// then
		assert.ErrorIs(t, err, ErrWorkNotFound)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should clear an override absent from the request", func(t *testing.T) {
		// given
		service, _, saved := setupService(t)
		req := newRequest()
		req.GST = ptr(d("20000"))
		created, err := service.Create(ctx, req)
		require.NoError(t, err)

		// when
		updated, err := service.Update(ctx, created.Id, newRequest())

		// then
		require.NoError(t, err)
		assert.False(t, updated.Overrides.GST)
		assert.True(t, d("18000").Equal(updated.Derived.GSTAmount))
		assert.True(t, d("133000").Equal(updated.Derived.FinalTotal))
		require.Len(t, *saved, 2)
		assert.False(t, (*saved)[1].Created)
	})

	t.Run("should fail for a missing technical sanction", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)

		// when
		_, err := service.Update(ctx, 42, newRequest())

		// then
		assert.ErrorIs(t, err, ErrTechnicalSanctionNotFound)
	})
}

func TestServiceImpl_ListIsScopedToDataSet(t *testing.T) {
	// given
	service, _, _ := setupService(t)
	_, err := service.Create(ctx, newRequest())
	require.NoError(t, err)
	demoReq := newRequest()
	demoReq.Work = 50
	demoCtx := dataset.WithDemo(ctx, true)
	_, err = service.Create(demoCtx, demoReq)
	require.NoError(t, err)

	// when
	live, err := service.List(ctx, nil)
	require.NoError(t, err)
	demo, err := service.List(demoCtx, ptr(50))
	require.NoError(t, err)
	none, err := service.List(ctx, ptr(50))
	require.NoError(t, err)

	// then
	assert.Len(t, live, 1)
	assert.Len(t, demo, 1)
	assert.Empty(t, none)
}

func TestServiceImpl_Delete(t *testing.T) {
	// given
	service, _, _ := setupService(t)
	created, err := service.Create(ctx, newRequest())
	require.NoError(t, err)

	// when
	deleted, err := service.Delete(ctx, created.Id)
	require.NoError(t, err)
	_, getErr := service.Get(ctx, created.Id)

	// then
	assert.True(t, deleted)
	assert.ErrorIs(t, getErr, ErrTechnicalSanctionNotFound)
}
