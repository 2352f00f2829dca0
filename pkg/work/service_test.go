package work

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

var today = time.Date(2025, 2, 10, 9, 30, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setupService(t *testing.T) (Service, *RepositoryStub, *[]event_bus.WorkCancelled) {
	repo := NewStubRepository()
	bus := event_bus.NewEventBus(&utils.MockClock{FixedNow: today})
	var cancelled []event_bus.WorkCancelled
	event_bus.SubscribeTyped(bus, event_bus.WorkCancelledEvent, func(e event_bus.EventT[event_bus.WorkCancelled]) error {
		cancelled = append(cancelled, e.Data)
		return nil
	})
	t.Cleanup(repo.Cleanup)
	return NewService(repo, bus, &utils.MockClock{FixedNow: today}), repo, &cancelled
}

func newWork(aa, ra string) Work {
	return Work{GrId: 1, Name: "Road widening, ward 4", AA: d(aa), RA: d(ra)}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should default the date to today", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)

		// when
		created, err := service.Create(ctx, newWork("500000", "0"))

		// then
		require.NoError(t, err)
		assert.Equal(t, "2025-02-10", created.Date.Format(utils.DateLayout))
		assert.Empty(t, created.Spills)
	})

	t.Run("should reject RA above AA", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)

		// when
		_, err := service.Create(ctx, newWork("1000", "1000.01"))

		// then
		assert.ErrorIs(t, err, ErrRAExceedsAA)
	})

	t.Run("should require a cancel reason for a cancelled work", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		w := newWork("1000", "0")
		w.IsCancelled = true

		// when
		_, err := service.Create(ctx, w)

		// then
		require.Error(t, err)
		assert.True(t, rest.IsValidation(err))
	})

	t.Run("should reject an unknown cancel reason", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		w := newWork("1000", "0")
		w.IsCancelled = true
		w.CancelReason = "LOST_INTEREST"

		// when
		_, err := service.Create(ctx, w)

		// then
		assert.True(t, rest.IsValidation(err))
	})

	t.Run("should reject an unknown GR", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		w := newWork("1000", "0")
		w.GrId = 99

		// when
		_, err := service.Create(ctx, w)

		// then
		assert.ErrorIs(t, err, ErrGRNotFound)
	})
}

func TestServiceImpl_Cancel(t *testing.T) {
	// given
	service, _, cancelled := setupService(t)
	created, err := service.Create(ctx, newWork("1000", "0"))
	require.NoError(t, err)
	created.IsCancelled = true
	created.CancelReason = MovedToOtherDepartment
	created.CancelDetails = "Handed to irrigation"

	// when
	updated, err := service.Update(ctx, created)
	require.NoError(t, err)
	_, err = service.Update(ctx, updated)
	require.NoError(t, err)

	// then
	require.Len(t, *cancelled, 1)
	assert.Equal(t, "MOVED_TO_OTHER_DEPARTMENT", (*cancelled)[0].Reason)
	assert.Equal(t, created.Id, (*cancelled)[0].Id)
}

func TestServiceImpl_UncancelClearsReason(t *testing.T) {
	// given
	service, _, _ := setupService(t)
	w := newWork("1000", "0")
	w.IsCancelled = true
	w.CancelReason = ShiftedToOtherWork
	created, err := service.Create(ctx, w)
	require.NoError(t, err)

	// when
	created.IsCancelled = false
	updated, err := service.Update(ctx, created)

	// then
	require.NoError(t, err)
	assert.Empty(t, updated.CancelReason)
}

func TestServiceImpl_Spills(t *testing.T) {
	t.Run("should accept spills up to AA", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		w, err := service.Create(ctx, newWork("1000", "600"))
		require.NoError(t, err)

		// when
		_, err1 := service.AddSpill(ctx, Spill{WorkId: w.Id, ARA: d("300")})
		_, err2 := service.AddSpill(ctx, Spill{WorkId: w.Id, ARA: d("100")})
		_, err3 := service.AddSpill(ctx, Spill{WorkId: w.Id, ARA: d("0.01")})

		// then
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.ErrorIs(t, err3, ErrSpillExceedsAA)
		stored, err := service.Get(ctx, w.Id)
		require.NoError(t, err)
		assert.True(t, d("400").Equal(stored.TotalARA()))
		assert.False(t, stored.CanAddSpill())
	})

	t.Run("should exclude the spill itself when updating", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		w, err := service.Create(ctx, newWork("1000", "0"))
		require.NoError(t, err)
		spill, err := service.AddSpill(ctx, Spill{WorkId: w.Id, ARA: d("900")})
		require.NoError(t, err)

		// when
		spill.ARA = d("1000")
		updated, err := service.UpdateSpill(ctx, spill)

		// then
		require.NoError(t, err)
		assert.True(t, d("1000").Equal(updated.ARA))
	})

	t.Run("should reject a non-positive ARA", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		w, err := service.Create(ctx, newWork("1000", "0"))
		require.NoError(t, err)

		// when
		_, err = service.AddSpill(ctx, Spill{WorkId: w.Id, ARA: d("0")})

		// then
		assert.True(t, rest.IsValidation(err))
	})

	t.Run("should not let RA grow past AA minus spills", func(t *testing.T) {
		// given
		service, _, _ := setupService(t)
		w, err := service.Create(ctx, newWork("1000", "0"))
		require.NoError(t, err)
		_, err = service.AddSpill(ctx, Spill{WorkId: w.Id, ARA: d("500")})
		require.NoError(t, err)

		// when
		w.RA = d("600")
		_, err = service.Update(ctx, w)

		// then
		assert.ErrorIs(t, err, ErrSpillExceedsAA)
	})
}

func TestServiceImpl_DataSetIsolation(t *testing.T) {
	// given
	service, _, _ := setupService(t)
	demoCtx := dataset.WithDemo(ctx, true)
	live, err := service.Create(ctx, newWork("1000", "0"))
	require.NoError(t, err)
	demoWork := newWork("2000", "0")
	demoWork.GrId = 10
	_, err = service.Create(demoCtx, demoWork)
	require.NoError(t, err)

	// when
	demoWorks, err := service.List(demoCtx, nil)
	require.NoError(t, err)
	_, getErr := service.Get(demoCtx, live.Id)

	// then
	require.Len(t, demoWorks, 1)
	assert.True(t, d("2000").Equal(demoWorks[0].AA))
	assert.ErrorIs(t, getErr, ErrWorkNotFound)
}
