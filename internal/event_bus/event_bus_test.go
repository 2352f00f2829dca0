package event_bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worksledger/worksledger/internal/utils"
)

func TestEventBus_PublishInSubscriptionOrder(t *testing.T) {
	// given
	bus := NewEventBus(utils.SystemClock{})
	var calls []int
	for i := 1; i <= 5; i++ {
		n := i
		bus.Subscribe(BillSavedEvent, func(e Event) error {
			calls = append(calls, n)
			return nil
		})
	}

	// when
	err := bus.Publish(NewEvent(context.Background(), BillSavedEvent, BillSaved{Id: 1}))

	// then
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, calls)
}

func TestEventBus_SubscribeTyped(t *testing.T) {
	// given
	bus := NewEventBus(utils.SystemClock{})
	var received BillSaved
	SubscribeTyped(bus, BillSavedEvent, func(e EventT[BillSaved]) error {
		received = e.Data
		return nil
	})

	// when
	err := bus.Publish(NewEvent(context.Background(), BillSavedEvent, BillSaved{Id: 7, NetAmount: decimal.NewFromInt(113000)}))
	require.NoError(t, err)
	err = bus.Publish(NewEvent(context.Background(), BillSavedEvent, "not a bill"))

	// then
	require.NoError(t, err)
	assert.Equal(t, 7, received.Id)
	assert.True(t, decimal.NewFromInt(113000).Equal(received.NetAmount))
}

func TestEventBus_CollectsErrorsAndPanics(t *testing.T) {
	// given
	bus := NewEventBus(utils.SystemClock{})
	ran := false
	bus.Subscribe(WorkCancelledEvent, func(e Event) error { return errors.New("boom") })
	bus.Subscribe(WorkCancelledEvent, func(e Event) error { panic("bad handler") })
	bus.Subscribe(WorkCancelledEvent, func(e Event) error {
		ran = true
		return nil
	})

	// when
	err := bus.Publish(NewEvent(context.Background(), WorkCancelledEvent, WorkCancelled{Id: 3}))

	// then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 handler(s) failed")
	assert.True(t, ran)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	// given
	bus := NewEventBus(utils.SystemClock{})
	count := 0
	unsubscribe := bus.Subscribe(BillSavedEvent, func(e Event) error {
		count++
		return nil
	})

	// when
	unsubscribe()
	err := bus.Publish(NewEvent(context.Background(), BillSavedEvent, BillSaved{}))

	// then
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEventBus_CancelledContext(t *testing.T) {
	// given
	bus := NewEventBus(utils.SystemClock{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// when
	err := bus.Publish(NewEvent(ctx, BillSavedEvent, BillSaved{}))

	// then
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegisterAuditLog(t *testing.T) {
	// given
	bus := NewEventBus(utils.SystemClock{})
	unsubscribe := RegisterAuditLog(bus)

	// when
	err := bus.Publish(NewEvent(context.Background(), TechnicalSanctionSavedEvent, TechnicalSanctionSaved{Id: 1, FinalTotal: decimal.NewFromInt(65000)}))

	// then
	assert.NoError(t, err)
	unsubscribe()
	assert.Empty(t, bus.subscribers)
}

func TestEventBus_PublishStampsTimestampFromClock(t *testing.T) {
	// given
	now := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	bus := NewEventBus(&utils.MockClock{FixedNow: now})
	var stamped time.Time
	SubscribeTyped(bus, WorkCancelledEvent, func(e EventT[WorkCancelled]) error {
		stamped = e.Timestamp
		return nil
	})

	// when
	err := bus.Publish(NewEvent(context.Background(), WorkCancelledEvent, WorkCancelled{Id: 3}))

	// then
	require.NoError(t, err)
	assert.Equal(t, now, stamped)
}
