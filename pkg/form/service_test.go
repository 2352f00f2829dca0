package form

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worksledger/worksledger/internal/event_bus"
	"github.com/worksledger/worksledger/internal/rest"
	"github.com/worksledger/worksledger/internal/utils"
	"github.com/worksledger/worksledger/pkg/bill"
	"github.com/worksledger/worksledger/pkg/calc"
	"github.com/worksledger/worksledger/pkg/dataset"
	"github.com/worksledger/worksledger/pkg/technical_sanction"
)

type fixture struct {
	service   Service
	store     *Store
	bills     bill.Service
	sanctions technical_sanction.Service
}

func setupService(t *testing.T) fixture {
	clock := &utils.MockClock{FixedNow: today}
	bus := event_bus.NewEventBus(clock)
	billRepo := bill.NewStubRepository()
	tsRepo := technical_sanction.NewStubRepository()
	t.Cleanup(billRepo.Cleanup)
	t.Cleanup(tsRepo.Cleanup)
	bills := bill.NewService(billRepo, bus, clock)
	sanctions := technical_sanction.NewService(tsRepo, bus, clock)
	store := NewStore(time.Hour, clock)
	return fixture{
		service:   NewService(store, bills, sanctions, clock),
		store:     store,
		bills:     bills,
		sanctions: sanctions,
	}
}

// blockingBills holds every Create until release is closed.
type blockingBills struct {
	bill.Service
	entered chan struct{}
	release chan struct{}
	creates atomic.Int32
}

func (b *blockingBills) Create(ctx context.Context, req bill.WriteRequest) (bill.Bill, error) {
	b.creates.Add(1)
	b.entered <- struct{}{}
	<-b.release
	return b.Service.Create(ctx, req)
}

func intPtr(v int) *int {
	return &v
}

func TestService_SubmitCreatesBill(t *testing.T) {
	// given
	ctx := context.Background()
	fx := setupService(t)
	view, err := fx.service.OpenBill(ctx, nil, intPtr(1))
	require.NoError(t, err)
	_, err = fx.service.SetInput(ctx, view.Id, "bill_number", "RA-1")
	require.NoError(t, err)
	_, err = fx.service.SetInput(ctx, view.Id, "work_portion", "100000")
	require.NoError(t, err)

	// when
	sub, err := fx.service.Submit(ctx, view.Id)

	// then
	require.NoError(t, err)
	assert.True(t, sub.Created)
	require.NotNil(t, sub.Bill)
	assert.Equal(t, "RA-1", sub.Bill.BillNumber)
	assert.True(t, d("113000").Equal(sub.Bill.Derived.NetAmount))
	assert.Empty(t, sub.Bill.Overrides.Active())
	assert.Equal(t, 0, fx.store.Len())
}

func TestService_SubmitStoresOverride(t *testing.T) {
	// given
	ctx := context.Background()
	fx := setupService(t)
	view, err := fx.service.OpenBill(ctx, nil, intPtr(1))
	require.NoError(t, err)
	_, err = fx.service.SetInput(ctx, view.Id, "work_portion", "100000")
	require.NoError(t, err)
	_, err = fx.service.Override(ctx, view.Id, "gst", "20000")
	require.NoError(t, err)

	// when
	sub, err := fx.service.Submit(ctx, view.Id)

	// then
	require.NoError(t, err)
	assert.True(t, sub.Bill.Overrides.GST)
	assert.True(t, d("20000").Equal(sub.Bill.Derived.GST))
	assert.True(t, d("120000").Equal(sub.Bill.Derived.BillTotal))
}

func TestService_EditBillRoundTrip(t *testing.T) {
	// given
	ctx := context.Background()
	fx := setupService(t)
	gst := d("20000")
	stored, err := fx.bills.Create(ctx, bill.WriteRequest{
		Tender:                     intPtr(1),
		BillNumber:                 "RA-1",
		WorkPortion:                d("100000"),
		GSTPercentage:              d("18"),
		TDSPercentage:              d("2"),
		GSTOnWorkPortionPercentage: d("2"),
		LWCPercentage:              d("1"),
		GST:                        &gst,
	})
	require.NoError(t, err)

	// when
	view, err := fx.service.OpenBill(ctx, intPtr(stored.Id), nil)
	require.NoError(t, err)
	sub, err := fx.service.Submit(ctx, view.Id)

	// then
	require.NoError(t, err)
	assert.True(t, view.Frozen)
	assert.True(t, gst.Equal(view.Derived[calc.BillGST]))
	assert.False(t, view.Overrides[calc.BillGST])
	assert.False(t, sub.Created)
	assert.Equal(t, stored.Id, sub.Bill.Id)
	assert.False(t, sub.Bill.Overrides.GST)
	assert.True(t, d("18000").Equal(sub.Bill.Derived.GST))
}

func TestService_OpenUnknownBill(t *testing.T) {
	// given
	fx := setupService(t)

	// when
	_, err := fx.service.OpenBill(context.Background(), intPtr(404), nil)

	// then
	assert.ErrorIs(t, err, bill.ErrBillNotFound)
	assert.Equal(t, 0, fx.store.Len())
}

func TestService_RejectedSubmitKeepsSession(t *testing.T) {
	// given
	ctx := context.Background()
	fx := setupService(t)
	view, err := fx.service.OpenBill(ctx, nil, nil)
	require.NoError(t, err)
	_, err = fx.service.SetInput(ctx, view.Id, "work_portion", "100000")
	require.NoError(t, err)

	// when
	_, err = fx.service.Submit(ctx, view.Id)

	// then
	assert.True(t, rest.IsValidation(err))
	_, err = fx.service.Submit(ctx, view.Id)
	assert.True(t, rest.IsValidation(err))
	after, err := fx.service.Get(ctx, view.Id)
	require.NoError(t, err)
	assert.Equal(t, "100000", after.Inputs["work_portion"])
	assert.True(t, d("18000").Equal(after.Derived[calc.BillGST]))
}

func TestService_SubmitCreatesTechnicalSanction(t *testing.T) {
	// given
	ctx := context.Background()
	fx := setupService(t)
	view, err := fx.service.OpenTechnicalSanction(ctx, nil, intPtr(1))
	require.NoError(t, err)
	for field, raw := range map[string]string{"work_portion": "50000", "royalty": "1000", "testing": "500", "consultancy": "2000"} {
		_, err = fx.service.SetInput(ctx, view.Id, field, raw)
		require.NoError(t, err)
	}
	_, err = fx.service.SetMilestone(ctx, view.Id, "order", true)
	require.NoError(t, err)

	// when
	sub, err := fx.service.Submit(ctx, view.Id)

	// then
	require.NoError(t, err)
	require.NotNil(t, sub.TechnicalSanction)
	assert.Nil(t, sub.Bill)
	assert.True(t, d("65000").Equal(sub.TechnicalSanction.Derived.FinalTotal))
	assert.True(t, sub.TechnicalSanction.Order)
	require.NotNil(t, sub.TechnicalSanction.OrderDate)
	assert.Equal(t, "2025-03-14", utils.FormatDate(sub.TechnicalSanction.OrderDate))
}

func TestService_MilestoneOnBillForm(t *testing.T) {
	// given
	ctx := context.Background()
	fx := setupService(t)
	view, err := fx.service.OpenBill(ctx, nil, intPtr(1))
	require.NoError(t, err)

	// when
	_, err = fx.service.SetMilestone(ctx, view.Id, "noting", true)

	// then
	assert.ErrorIs(t, err, ErrMilestoneNotBound)
}

func TestService_DemoSessionsAreIsolated(t *testing.T) {
	// given
	fx := setupService(t)
	demoCtx := dataset.WithDemo(context.Background(), true)
	view, err := fx.service.OpenBill(demoCtx, nil, intPtr(60))
	require.NoError(t, err)

	// when
	_, liveErr := fx.service.Get(context.Background(), view.Id)
	_, demoErr := fx.service.Get(demoCtx, view.Id)

	// then
	assert.ErrorIs(t, liveErr, ErrSessionNotFound)
	assert.NoError(t, demoErr)
}

func TestService_Close(t *testing.T) {
	// given
	ctx := context.Background()
	fx := setupService(t)
	view, err := fx.service.OpenTechnicalSanction(ctx, nil, intPtr(1))
	require.NoError(t, err)

	// when
	require.NoError(t, fx.service.Close(ctx, view.Id))

	// then
	_, err = fx.service.Get(ctx, view.Id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, fx.service.Close(ctx, view.Id), ErrSessionNotFound)
}

func TestService_ConcurrentSubmitSavesOnce(t *testing.T) {
	// given
	ctx := context.Background()
	fx := setupService(t)
	bills := &blockingBills{Service: fx.bills, entered: make(chan struct{}, 1), release: make(chan struct{})}
	service := NewService(fx.store, bills, fx.sanctions, &utils.MockClock{FixedNow: today})
	view, err := service.OpenBill(ctx, nil, intPtr(1))
	require.NoError(t, err)
	_, err = service.SetInput(ctx, view.Id, "work_portion", "100000")
	require.NoError(t, err)

	first := make(chan error, 1)
	go func() {
		_, err := service.Submit(ctx, view.Id)
		first <- err
	}()
	<-bills.entered

	// when
	_, secondErr := service.Submit(ctx, view.Id)
	_, getErr := service.Get(ctx, view.Id)
	close(bills.release)

	// then
	assert.ErrorIs(t, secondErr, ErrSubmitInProgress)
	assert.ErrorIs(t, getErr, ErrSubmitInProgress)
	require.NoError(t, <-first)
	assert.Equal(t, int32(1), bills.creates.Load())
	stored, err := fx.bills.List(ctx, bill.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, stored, 1)
	assert.Equal(t, 0, fx.store.Len())
}
