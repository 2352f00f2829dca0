package form

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/worksledger/worksledger/internal/utils"
	"github.com/worksledger/worksledger/pkg/bill"
	"github.com/worksledger/worksledger/pkg/calc"
)

var billInputFields = []string{
	workPortionField,
	"royalty_and_testing",
	"gst_percentage",
	"reimbursement_of_insurance",
	"security_deposit",
	"tds_percentage",
	"gst_on_workportion_percentage",
	"lwc_percentage",
	"insurance",
	"royalty",
}

var billDetailFields = []string{"tender", "bill_number", "date", "payment_done_from_gr"}

type BillForm struct {
	state     State
	billId    int
	frozen    bool
	inputs    map[string]string
	details   map[string]string
	overrides calc.BillOverrides
	derived   calc.BillDerived
}

func NewBillForm() *BillForm {
	f := &BillForm{}
	f.reset()
	return f
}

func (f *BillForm) Kind() Kind    { return KindBill }
func (f *BillForm) State() State  { return f.state }
func (f *BillForm) RecordId() int { return f.billId }
func (f *BillForm) Frozen() bool  { return f.frozen }

func (f *BillForm) reset() {
	f.state = Uninitialized
	f.billId = 0
	f.frozen = false
	f.inputs = map[string]string{}
	f.details = map[string]string{}
	f.overrides = calc.BillOverrides{}
	f.derived = calc.BillDerived{}
}

func billRawInputs(in calc.BillInputs) map[string]string {
	return map[string]string{
		workPortionField:                in.WorkPortion.String(),
		"royalty_and_testing":           in.RoyaltyAndTesting.String(),
		"gst_percentage":                in.GSTPercentage.String(),
		"reimbursement_of_insurance":    in.ReimbursementOfInsurance.String(),
		"security_deposit":              in.SecurityDeposit.String(),
		"tds_percentage":                in.TDSPercentage.String(),
		"gst_on_workportion_percentage": in.GSTOnWorkPortionPercentage.String(),
		"lwc_percentage":                in.LWCPercentage.String(),
		"insurance":                     in.Insurance.String(),
		"royalty":                       in.Royalty.String(),
	}
}

// OpenCreate starts a new bill with the statutory rates, zero amounts and an
// empty work portion. The engine is live immediately.
func (f *BillForm) OpenCreate(tenderId *int) {
	f.reset()
	f.inputs = billRawInputs(calc.DefaultBillInputs())
	f.inputs[workPortionField] = ""
	if tenderId != nil {
		f.details["tender"] = strconv.Itoa(*tenderId)
	}
	f.state = Initialized
}

// OpenEdit loads a stored bill verbatim. Override flags start cleared and
// nothing is recomputed while loading. The loaded derived values are shown
// only: a payload built without touching them carries no derived keys, so
// the save recomputes every derived field and drops stored overrides.
func (f *BillForm) OpenEdit(b bill.Bill) {
	f.reset()
	f.state = Initializing
	f.billId = b.Id
	f.inputs = billRawInputs(b.Inputs)
	f.details["bill_number"] = b.BillNumber
	f.details["date"] = utils.FormatDate(&b.Date)
	if b.PaymentDoneFromGRId != nil {
		f.details["payment_done_from_gr"] = strconv.Itoa(*b.PaymentDoneFromGRId)
	}
	f.derived = b.Derived
	f.frozen = true
	f.state = Initialized
}

func (f *BillForm) calcInputs() calc.BillInputs {
	return calc.BillInputs{
		WorkPortion:                calc.ParseAmount(f.inputs[workPortionField]),
		RoyaltyAndTesting:          calc.ParseAmount(f.inputs["royalty_and_testing"]),
		GSTPercentage:              calc.ParseAmount(f.inputs["gst_percentage"]),
		ReimbursementOfInsurance:   calc.ParseAmount(f.inputs["reimbursement_of_insurance"]),
		SecurityDeposit:            calc.ParseAmount(f.inputs["security_deposit"]),
		TDSPercentage:              calc.ParseAmount(f.inputs["tds_percentage"]),
		GSTOnWorkPortionPercentage: calc.ParseAmount(f.inputs["gst_on_workportion_percentage"]),
		LWCPercentage:              calc.ParseAmount(f.inputs["lwc_percentage"]),
		Insurance:                  calc.ParseAmount(f.inputs["insurance"]),
		Royalty:                    calc.ParseAmount(f.inputs["royalty"]),
	}
}

func (f *BillForm) recalculate() {
	if f.state != Initialized || f.frozen || !hasAmount(f.inputs[workPortionField]) {
		return
	}
	f.derived = calc.RecalculateBill(f.calcInputs(), f.overrides, f.derived)
}

// SetInput stores raw as typed. Calculation inputs trigger the engine;
// detail fields such as the bill number do not.
func (f *BillForm) SetInput(field, raw string) error {
	if f.state != Initialized {
		return ErrNotInitialized
	}
	switch {
	case slices.Contains(billInputFields, field):
		f.inputs[field] = raw
		f.frozen = false
		f.recalculate()
	case slices.Contains(billDetailFields, field):
		f.details[field] = raw
	default:
		return unknownField(field)
	}
	return nil
}

// Override enters a derived amount by hand and freezes it.
func (f *BillForm) Override(field, raw string) error {
	if f.state != Initialized {
		return ErrNotInitialized
	}
	if !f.overrides.Set(calc.Field(field), true) {
		return unknownField(field)
	}
	f.derived.Set(calc.Field(field), calc.ParseAmount(raw))
	f.frozen = false
	f.recalculate()
	return nil
}

// Release hands a derived amount back to its formula.
func (f *BillForm) Release(field string) error {
	if f.state != Initialized {
		return ErrNotInitialized
	}
	if !f.overrides.Set(calc.Field(field), false) {
		return unknownField(field)
	}
	f.frozen = false
	f.recalculate()
	return nil
}

func (f *BillForm) Close() {
	f.reset()
}

// Payload assembles the write request. Tender is sent on create only and a
// derived amount only when its override flag is set.
func (f *BillForm) Payload() (bill.WriteRequest, error) {
	if f.state != Initialized {
		return bill.WriteRequest{}, ErrNotInitialized
	}
	in := f.calcInputs()
	req := bill.WriteRequest{
		BillNumber:                 strings.TrimSpace(f.details["bill_number"]),
		Date:                       optionalString(f.details["date"]),
		WorkPortion:                in.WorkPortion,
		RoyaltyAndTesting:          in.RoyaltyAndTesting,
		GSTPercentage:              in.GSTPercentage,
		ReimbursementOfInsurance:   in.ReimbursementOfInsurance,
		SecurityDeposit:            in.SecurityDeposit,
		TDSPercentage:              in.TDSPercentage,
		GSTOnWorkPortionPercentage: in.GSTOnWorkPortionPercentage,
		LWCPercentage:              in.LWCPercentage,
		Insurance:                  in.Insurance,
		Royalty:                    in.Royalty,
	}
	var err error
	if f.billId == 0 {
		if req.Tender, err = optionalInt("tender", f.details["tender"]); err != nil {
			return bill.WriteRequest{}, err
		}
	}
	if req.PaymentDoneFromGR, err = optionalInt("payment_done_from_gr", f.details["payment_done_from_gr"]); err != nil {
		return bill.WriteRequest{}, err
	}
	for _, field := range f.overrides.Active() {
		v, _ := f.derived.Get(field)
		req.SetDerived(field, v)
	}
	return req, nil
}

func (f *BillForm) View() View {
	derived := make(map[calc.Field]decimal.Decimal, len(calc.BillFields))
	overrides := make(map[calc.Field]bool, len(calc.BillFields))
	for _, field := range calc.BillFields {
		derived[field], _ = f.derived.Get(field)
		overrides[field] = f.overrides.Is(field)
	}
	return View{
		Kind:      KindBill,
		State:     f.state,
		RecordId:  f.billId,
		Frozen:    f.frozen,
		Inputs:    maps.Clone(f.inputs),
		Details:   maps.Clone(f.details),
		Derived:   derived,
		Overrides: overrides,
	}
}
