package technical_sanction

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"github.com/worksledger/worksledger/internal/utils"
	"github.com/worksledger/worksledger/pkg/calc"
)

// WriteRequest is the snake_case create/update body. A derived amount is
// present only when it was entered by hand; an absent amount is recomputed
// and its override flag cleared.
type WriteRequest struct {
	Work                      int              `json:"work"`
	SubName                   string           `json:"sub_name"`
	WorkPortion               decimal.Decimal  `json:"work_portion"`
	Royalty                   decimal.Decimal  `json:"royalty"`
	Testing                   decimal.Decimal  `json:"testing"`
	Consultancy               decimal.Decimal  `json:"consultancy"`
	GSTPercentage             decimal.Decimal  `json:"gst_percentage"`
	ContingencyPercentage     decimal.Decimal  `json:"contingency_percentage"`
	LabourInsurancePercentage decimal.Decimal  `json:"labour_insurance_percentage"`
	Noting                    bool             `json:"noting"`
	Order                     bool             `json:"order"`
	NotingDate                *string          `json:"noting_date,omitempty"`
	OrderDate                 *string          `json:"order_date,omitempty"`
	GST                       *decimal.Decimal `json:"gst,omitempty"`
	GrandTotal                *decimal.Decimal `json:"grand_total,omitempty"`
	Contingency               *decimal.Decimal `json:"contingency,omitempty"`
	LabourInsurance           *decimal.Decimal `json:"labour_insurance,omitempty"`
	FinalTotal                *decimal.Decimal `json:"final_total,omitempty"`
}

func (r WriteRequest) Inputs() calc.TSInputs {
	return calc.TSInputs{
		WorkPortion:               r.WorkPortion,
		Royalty:                   r.Royalty,
		Testing:                   r.Testing,
		Consultancy:               r.Consultancy,
		GSTPercentage:             r.GSTPercentage,
		ContingencyPercentage:     r.ContingencyPercentage,
		LabourInsurancePercentage: r.LabourInsurancePercentage,
	}
}

func (r WriteRequest) derivedRefs() map[calc.Field]**decimal.Decimal {
	return map[calc.Field]**decimal.Decimal{
		calc.TSGST:             &r.GST,
		calc.TSGrandTotal:      &r.GrandTotal,
		calc.TSContingency:     &r.Contingency,
		calc.TSLabourInsurance: &r.LabourInsurance,
		calc.TSFinalTotal:      &r.FinalTotal,
	}
}

// Overrides derives the override flags and the hand-entered values from key presence.
func (r WriteRequest) Overrides() (calc.TSOverrides, calc.TSDerived) {
	var ov calc.TSOverrides
	var given calc.TSDerived
	for f, ref := range r.derivedRefs() {
		if *ref != nil {
			ov.Set(f, true)
			given.Set(f, **ref)
		}
	}
	return ov, given
}

// SetDerived puts a hand-entered amount into the request.
func (r *WriteRequest) SetDerived(f calc.Field, v decimal.Decimal) bool {
	switch f {
	case calc.TSGST:
		r.GST = &v
	case calc.TSGrandTotal:
		r.GrandTotal = &v
	case calc.TSContingency:
		r.Contingency = &v
	case calc.TSLabourInsurance:
		r.LabourInsurance = &v
	case calc.TSFinalTotal:
		r.FinalTotal = &v
	default:
		return false
	}
	return true
}

// ToEntity converts the request without computing derived values.
func (r WriteRequest) ToEntity(id int) (TechnicalSanction, error) {
	ts := TechnicalSanction{
		Id:      id,
		WorkId:  r.Work,
		SubName: r.SubName,
		Inputs:  r.Inputs(),
		Noting:  r.Noting,
		Order:   r.Order,
	}
	if r.NotingDate != nil {
		d, err := utils.ParseDate(*r.NotingDate)
		if err != nil {
			return TechnicalSanction{}, validation.Errors{"noting_date": err}
		}
		ts.NotingDate = d
	}
	if r.OrderDate != nil {
		d, err := utils.ParseDate(*r.OrderDate)
		if err != nil {
			return TechnicalSanction{}, validation.Errors{"order_date": err}
		}
		ts.OrderDate = d
	}
	ts.Overrides, ts.Derived = r.Overrides()
	return ts, nil
}
