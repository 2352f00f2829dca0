package bill

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/worksledger/worksledger/internal/utils"
	"github.com/xuri/excelize/v2"
)

const registerSheet = "Bills"

var registerHeaders = []string{
	"Bill No.", "Date", "Tender", "Work", "Work Portion", "Royalty & Testing", "GST",
	"Reimbursement", "Bill Total", "TDS", "GST on WP", "Security Deposit", "LWC",
	"Insurance", "Royalty", "Net Amount", "Paid",
}

// amountColumn is the first of the summed amount columns.
const amountColumn = 5

// RenderRegister writes the bills as a one-sheet workbook with a totals row.
func RenderRegister(bills []Bill, generated time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), registerSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("create amount style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	if err := f.SetCellValue(registerSheet, "A1", "Bill register as of "+generated.Format(utils.DateLayout)); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(registerSheet, "A3", &registerHeaders); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(registerHeaders))
	if err := f.SetCellStyle(registerSheet, "A3", lastCol+"3", headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(registerSheet, "A", lastCol, 14); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(registerSheet, "D", "D", 36); err != nil {
		return nil, err
	}

	row := 4
	var totals []decimal.Decimal
	for _, b := range bills {
		amounts := registerAmounts(b)
		if totals == nil {
			totals = make([]decimal.Decimal, len(amounts))
		}
		values := []any{
			sanitizeCell(b.BillNumber),
			b.Date.Format(utils.DateLayout),
			sanitizeCell(b.TenderNumber),
			sanitizeCell(b.WorkName),
		}
		for i, a := range amounts {
			totals[i] = totals[i].Add(a)
			values = append(values, a.InexactFloat64())
		}
		values = append(values, paidLabel(b))
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(registerSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write bill %d: %w", b.Id, err)
		}
		row++
	}
	firstAmount, _ := excelize.ColumnNumberToName(amountColumn)
	if row > 4 {
		if err := f.SetCellStyle(registerSheet, firstAmount+"4", fmt.Sprintf("%s%d", lastCol, row-1), amountStyle); err != nil {
			return nil, err
		}
	}

	if err := f.SetCellValue(registerSheet, fmt.Sprintf("A%d", row), "Total"); err != nil {
		return nil, err
	}
	for i, total := range totals {
		cell, _ := excelize.CoordinatesToCellName(amountColumn+i, row)
		if err := f.SetCellFloat(registerSheet, cell, total.InexactFloat64(), -1, 64); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(registerSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), totalStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// registerAmounts lists the amount columns in header order. Deductions are
// shown as magnitudes.
func registerAmounts(b Bill) []decimal.Decimal {
	return []decimal.Decimal{
		b.Inputs.WorkPortion,
		b.Inputs.RoyaltyAndTesting,
		b.Derived.GST,
		b.Inputs.ReimbursementOfInsurance,
		b.Derived.BillTotal,
		b.Derived.TDS,
		b.Derived.GSTOnWorkPortion,
		b.Inputs.SecurityDeposit.Abs(),
		b.Derived.LWC,
		b.Inputs.Insurance.Abs(),
		b.Inputs.Royalty.Abs(),
		b.Derived.NetAmount,
	}
}

func paidLabel(b Bill) string {
	if b.IsPaid() {
		return "Yes"
	}
	return "No"
}

// sanitizeCell stops spreadsheet apps from evaluating user text as a formula.
func sanitizeCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
