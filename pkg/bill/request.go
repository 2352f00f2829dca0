package bill

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"github.com/worksledger/worksledger/internal/utils"
	"github.com/worksledger/worksledger/pkg/calc"
)

// WriteRequest is the snake_case create/update body. Tender is honoured on
// create only. A derived amount is present only when it was entered by hand.
type WriteRequest struct {
	Tender                     *int             `json:"tender,omitempty"`
	BillNumber                 string           `json:"bill_number"`
	Date                       *string          `json:"date,omitempty"`
	PaymentDoneFromGR          *int             `json:"payment_done_from_gr,omitempty"`
	WorkPortion                decimal.Decimal  `json:"work_portion"`
	RoyaltyAndTesting          decimal.Decimal  `json:"royalty_and_testing"`
	GSTPercentage              decimal.Decimal  `json:"gst_percentage"`
	ReimbursementOfInsurance   decimal.Decimal  `json:"reimbursement_of_insurance"`
	SecurityDeposit            decimal.Decimal  `json:"security_deposit"`
	TDSPercentage              decimal.Decimal  `json:"tds_percentage"`
	GSTOnWorkPortionPercentage decimal.Decimal  `json:"gst_on_workportion_percentage"`
	LWCPercentage              decimal.Decimal  `json:"lwc_percentage"`
	Insurance                  decimal.Decimal  `json:"insurance"`
	Royalty                    decimal.Decimal  `json:"royalty"`
	GST                        *decimal.Decimal `json:"gst,omitempty"`
	BillTotal                  *decimal.Decimal `json:"bill_total,omitempty"`
	TDS                        *decimal.Decimal `json:"tds,omitempty"`
	GSTOnWorkPortion           *decimal.Decimal `json:"gst_on_workportion,omitempty"`
	LWC                        *decimal.Decimal `json:"lwc,omitempty"`
	NetAmount                  *decimal.Decimal `json:"net_amount,omitempty"`
}

func (r WriteRequest) Inputs() calc.BillInputs {
	return calc.BillInputs{
		WorkPortion:                r.WorkPortion,
		RoyaltyAndTesting:          r.RoyaltyAndTesting,
		GSTPercentage:              r.GSTPercentage,
		ReimbursementOfInsurance:   r.ReimbursementOfInsurance,
		SecurityDeposit:            r.SecurityDeposit,
		TDSPercentage:              r.TDSPercentage,
		GSTOnWorkPortionPercentage: r.GSTOnWorkPortionPercentage,
		LWCPercentage:              r.LWCPercentage,
		Insurance:                  r.Insurance,
		Royalty:                    r.Royalty,
	}
}

func (r *WriteRequest) derivedRef(f calc.Field) **decimal.Decimal {
	switch f {
	case calc.BillGST:
		return &r.GST
	case calc.BillTotal:
		return &r.BillTotal
	case calc.BillTDS:
		return &r.TDS
	case calc.BillGSTOnWorkPortion:
		return &r.GSTOnWorkPortion
	case calc.BillLWC:
		return &r.LWC
	case calc.BillNetAmount:
		return &r.NetAmount
	}
	return nil
}

// Overrides derives the override flags and the hand-entered values from key presence.
func (r WriteRequest) Overrides() (calc.BillOverrides, calc.BillDerived) {
	var ov calc.BillOverrides
	var given calc.BillDerived
	for _, f := range calc.BillFields {
		if v := *r.derivedRef(f); v != nil {
			ov.Set(f, true)
			given.Set(f, *v)
		}
	}
	return ov, given
}

// SetDerived puts a hand-entered amount into the request.
func (r *WriteRequest) SetDerived(f calc.Field, v decimal.Decimal) bool {
	ref := r.derivedRef(f)
	if ref == nil {
		return false
	}
	*ref = &v
	return true
}

// ToEntity converts the request without computing derived values. A missing
// bill date becomes today.
func (r WriteRequest) ToEntity(id int, today time.Time) (Bill, error) {
	b := Bill{
		Id:                  id,
		BillNumber:          r.BillNumber,
		Date:                today,
		PaymentDoneFromGRId: r.PaymentDoneFromGR,
		Inputs:              r.Inputs(),
	}
	if r.Tender != nil {
		b.TenderId = *r.Tender
	}
	if r.Date != nil {
		d, err := utils.ParseDate(*r.Date)
		if err != nil {
			return Bill{}, validation.Errors{"date": err}
		}
		if d != nil {
			b.Date = *d
		}
	}
	b.Overrides, b.Derived = r.Overrides()
	return b, nil
}
