package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worksledger/worksledger/internal/utils"
	"github.com/worksledger/worksledger/pkg/calc"
	"github.com/worksledger/worksledger/pkg/technical_sanction"
)

var today = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

func openTS(t *testing.T) *TSForm {
	t.Helper()
	work := 5
	f := NewTSForm(&utils.MockClock{FixedNow: today})
	f.OpenCreate(&work)
	return f
}

func fillTS(t *testing.T, f *TSForm) {
	t.Helper()
	require.NoError(t, f.SetInput("work_portion", "50000"))
	require.NoError(t, f.SetInput("royalty", "1000"))
	require.NoError(t, f.SetInput("testing", "500"))
	require.NoError(t, f.SetInput("consultancy", "2000"))
}

func TestTSForm_CreateScenario(t *testing.T) {
	// given
	f := openTS(t)

	// when
	fillTS(t, f)

	// then
	v := f.View()
	assertAmount(t, "9000", v, calc.TSGST)
	assertAmount(t, "60500", v, calc.TSGrandTotal)
	assertAmount(t, "2000", v, calc.TSContingency)
	assertAmount(t, "500", v, calc.TSLabourInsurance)
	assertAmount(t, "65000", v, calc.TSFinalTotal)
}

func TestTSForm_ContingencyAndLabourIgnoreOverrides(t *testing.T) {
	// given
	f := openTS(t)
	fillTS(t, f)

	// when
	require.NoError(t, f.Override("gst", "10000"))
	require.NoError(t, f.Override("grand_total", "1"))
	require.NoError(t, f.SetInput("work_portion", "60000"))

	// then
	v := f.View()
	assertAmount(t, "10000", v, calc.TSGST)
	assertAmount(t, "1", v, calc.TSGrandTotal)
	assertAmount(t, "2400", v, calc.TSContingency)
	assertAmount(t, "600", v, calc.TSLabourInsurance)
	assertAmount(t, "76500", v, calc.TSFinalTotal)
}

func TestTSForm_MilestoneFillsToday(t *testing.T) {
	// given
	f := openTS(t)

	// when
	require.NoError(t, f.SetMilestone("noting", true))

	// then
	v := f.View()
	assert.True(t, v.Milestones["noting"])
	assert.False(t, v.Milestones["order"])
	assert.Equal(t, "2025-03-14", v.Details["noting_date"])
	assert.Empty(t, v.Details["order_date"])
}

func TestTSForm_MilestoneKeepsEnteredDate(t *testing.T) {
	// given
	f := openTS(t)
	require.NoError(t, f.SetInput("order_date", "2025-02-01"))

	// when
	require.NoError(t, f.SetMilestone("order", true))
	require.NoError(t, f.SetMilestone("order", false))

	// then
	v := f.View()
	assert.False(t, v.Milestones["order"])
	assert.Equal(t, "2025-02-01", v.Details["order_date"])
}

func TestTSForm_UnknownMilestone(t *testing.T) {
	// given
	f := openTS(t)

	// then
	assert.ErrorIs(t, f.SetMilestone("approval", true), ErrUnknownMilestone)
}

func TestTSForm_Payload(t *testing.T) {
	// given
	f := openTS(t)
	fillTS(t, f)
	require.NoError(t, f.SetInput("sub_name", " Phase 1 "))
	require.NoError(t, f.SetMilestone("noting", true))
	require.NoError(t, f.Override("contingency", "2500"))

	// when
	req, err := f.Payload()

	// then
	require.NoError(t, err)
	assert.Equal(t, 5, req.Work)
	assert.Equal(t, "Phase 1", req.SubName)
	assert.True(t, req.Noting)
	require.NotNil(t, req.NotingDate)
	assert.Equal(t, "2025-03-14", *req.NotingDate)
	assert.Nil(t, req.OrderDate)
	keys := payloadKeys(t, req)
	assert.Contains(t, keys, "contingency")
	assert.NotContains(t, keys, "gst")
	assert.NotContains(t, keys, "final_total")
	assert.True(t, d("2500").Equal(*req.Contingency))
}

func storedTS() technical_sanction.TechnicalSanction {
	in := calc.DefaultTSInputs()
	in.WorkPortion = d("50000")
	in.Royalty = d("1000")
	in.Testing = d("500")
	in.Consultancy = d("2000")
	notedOn := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	return technical_sanction.TechnicalSanction{
		Id:         3,
		WorkId:     5,
		SubName:    "Phase 1",
		Inputs:     in,
		Noting:     true,
		NotingDate: &notedOn,
	}
}

func TestTSForm_EditFreezesUntilTouched(t *testing.T) {
	// given
	ts := storedTS()
	ts.Derived = calc.TSDerived{
		GSTAmount:             d("9500"),
		GrandTotal:            d("61000"),
		ContingencyAmount:     d("2000"),
		LabourInsuranceAmount: d("500"),
		FinalTotal:            d("65500"),
	}
	ts.Overrides = calc.TSOverrides{GST: true}
	f := NewTSForm(&utils.MockClock{FixedNow: today})

	// when
	f.OpenEdit(ts)
	loaded := f.View()
	require.NoError(t, f.SetInput("testing", "500"))
	touched := f.View()

	// then
	assert.True(t, loaded.Frozen)
	assert.False(t, loaded.Overrides[calc.TSGST])
	assertAmount(t, "9500", loaded, calc.TSGST)
	assert.True(t, loaded.Milestones["noting"])
	assert.Equal(t, "2025-01-10", loaded.Details["noting_date"])
	assert.Equal(t, "5", loaded.Details["work"])

	assertAmount(t, "9000", touched, calc.TSGST)
	assertAmount(t, "65000", touched, calc.TSFinalTotal)
}
