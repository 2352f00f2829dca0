package bill

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worksledger/worksledger/pkg/calc"
	"github.com/xuri/excelize/v2"
)

func registerBill(number string, wp string, paid bool) Bill {
	in := calc.DefaultBillInputs()
	in.WorkPortion = d(wp)
	b := Bill{
		Id:           1,
		BillNumber:   number,
		TenderNumber: "T-1",
		WorkName:     "Road widening, ward 4",
		Date:         time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Inputs:       in,
		Derived:      calc.RecalculateBill(in, calc.BillOverrides{}, calc.BillDerived{}),
	}
	if paid {
		b.PaymentDoneFromGRId = ptr(1)
	}
	return b
}

func TestRenderRegister(t *testing.T) {
	// given
	bills := []Bill{registerBill("RA-1", "100000", true), registerBill("=SUM(A1)", "50000", false)}

	// when
	content, err := RenderRegister(bills, today)

	// then
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{registerSheet}, f.GetSheetList())
	title, _ := f.GetCellValue(registerSheet, "A1")
	assert.Equal(t, "Bill register as of 2025-06-30", title)
	header, _ := f.GetCellValue(registerSheet, "P3")
	assert.Equal(t, "Net Amount", header)

	first, _ := f.GetCellValue(registerSheet, "A4")
	assert.Equal(t, "RA-1", first)
	injected, _ := f.GetCellValue(registerSheet, "A5")
	assert.Equal(t, "'=SUM(A1)", injected)
	paid, _ := f.GetCellValue(registerSheet, "Q4")
	assert.Equal(t, "Yes", paid)

	totalLabel, _ := f.GetCellValue(registerSheet, "A6")
	assert.Equal(t, "Total", totalLabel)
	raw, err := f.GetCellValue(registerSheet, "P6", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "169500", raw)
}

func TestRenderRegister_Empty(t *testing.T) {
	// when
	content, err := RenderRegister(nil, today)

	// then
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()
	label, _ := f.GetCellValue(registerSheet, "A4")
	assert.Equal(t, "Total", label)
}
