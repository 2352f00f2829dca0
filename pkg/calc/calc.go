// Package calc computes the statutory derived amounts of bills and technical
// sanctions. Every function is pure: the caller passes the base inputs, the
// override flags and the previous derived values and gets the new derived
// values back.
package calc

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Field identifies a derived amount by its wire name.
type Field string

const (
	BillGST              Field = "gst"
	BillTotal            Field = "bill_total"
	BillTDS              Field = "tds"
	BillGSTOnWorkPortion Field = "gst_on_workportion"
	BillLWC              Field = "lwc"
	BillNetAmount        Field = "net_amount"

	TSGST             Field = "gst"
	TSGrandTotal      Field = "grand_total"
	TSContingency     Field = "contingency"
	TSLabourInsurance Field = "labour_insurance"
	TSFinalTotal      Field = "final_total"
)

// BillFields lists the bill derived fields in evaluation order.
var BillFields = []Field{BillGST, BillTDS, BillGSTOnWorkPortion, BillLWC, BillTotal, BillNetAmount}

// TSFields lists the technical sanction derived fields in evaluation order.
var TSFields = []Field{TSGST, TSContingency, TSLabourInsurance, TSGrandTotal, TSFinalTotal}

var hundred = decimal.NewFromInt(100)

// ParseAmount converts a raw form value to a decimal. Blank or unparseable
// input is zero.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func percentOf(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}

type BillInputs struct {
	WorkPortion                decimal.Decimal `json:"work_portion"`
	RoyaltyAndTesting          decimal.Decimal `json:"royalty_and_testing"`
	GSTPercentage              decimal.Decimal `json:"gst_percentage"`
	ReimbursementOfInsurance   decimal.Decimal `json:"reimbursement_of_insurance"`
	SecurityDeposit            decimal.Decimal `json:"security_deposit"`
	TDSPercentage              decimal.Decimal `json:"tds_percentage"`
	GSTOnWorkPortionPercentage decimal.Decimal `json:"gst_on_workportion_percentage"`
	LWCPercentage              decimal.Decimal `json:"lwc_percentage"`
	Insurance                  decimal.Decimal `json:"insurance"`
	Royalty                    decimal.Decimal `json:"royalty"`
}

// DefaultBillInputs returns zero amounts with the statutory rates.
func DefaultBillInputs() BillInputs {
	return BillInputs{
		GSTPercentage:              decimal.NewFromInt(18),
		TDSPercentage:              decimal.NewFromInt(2),
		GSTOnWorkPortionPercentage: decimal.NewFromInt(2),
		LWCPercentage:              decimal.NewFromInt(1),
	}
}

type BillDerived struct {
	GST              decimal.Decimal `json:"gst"`
	BillTotal        decimal.Decimal `json:"bill_total"`
	TDS              decimal.Decimal `json:"tds"`
	GSTOnWorkPortion decimal.Decimal `json:"gst_on_workportion"`
	LWC              decimal.Decimal `json:"lwc"`
	NetAmount        decimal.Decimal `json:"net_amount"`
}

type BillOverrides struct {
	GST              bool `json:"gst"`
	BillTotal        bool `json:"bill_total"`
	TDS              bool `json:"tds"`
	GSTOnWorkPortion bool `json:"gst_on_workportion"`
	LWC              bool `json:"lwc"`
	NetAmount        bool `json:"net_amount"`
}

func (d *BillDerived) ref(f Field) *decimal.Decimal {
	switch f {
	case BillGST:
		return &d.GST
	case BillTotal:
		return &d.BillTotal
	case BillTDS:
		return &d.TDS
	case BillGSTOnWorkPortion:
		return &d.GSTOnWorkPortion
	case BillLWC:
		return &d.LWC
	case BillNetAmount:
		return &d.NetAmount
	}
	return nil
}

// Get returns the value of f; ok is false for an unknown field.
func (d BillDerived) Get(f Field) (decimal.Decimal, bool) {
	if p := d.ref(f); p != nil {
		return *p, true
	}
	return decimal.Zero, false
}

// Set stores v into f and reports whether f is a bill derived field.
func (d *BillDerived) Set(f Field, v decimal.Decimal) bool {
	p := d.ref(f)
	if p == nil {
		return false
	}
	*p = v
	return true
}

func (o *BillOverrides) ref(f Field) *bool {
	switch f {
	case BillGST:
		return &o.GST
	case BillTotal:
		return &o.BillTotal
	case BillTDS:
		return &o.TDS
	case BillGSTOnWorkPortion:
		return &o.GSTOnWorkPortion
	case BillLWC:
		return &o.LWC
	case BillNetAmount:
		return &o.NetAmount
	}
	return nil
}

func (o BillOverrides) Is(f Field) bool {
	p := o.ref(f)
	return p != nil && *p
}

func (o *BillOverrides) Set(f Field, on bool) bool {
	p := o.ref(f)
	if p == nil {
		return false
	}
	*p = on
	return true
}

// Active lists the overridden fields in evaluation order.
func (o BillOverrides) Active() []Field {
	var active []Field
	for _, f := range BillFields {
		if o.Is(f) {
			active = append(active, f)
		}
	}
	return active
}

// RecalculateBill recomputes every bill derived field whose override flag is
// off. Overridden fields keep their previous value; deduction amounts are
// kept as magnitudes. Totals consume the post-override value of their terms.
func RecalculateBill(in BillInputs, ov BillOverrides, prev BillDerived) BillDerived {
	wp := in.WorkPortion
	out := prev

	if !ov.GST {
		out.GST = percentOf(wp, in.GSTPercentage)
	}
	if ov.TDS {
		out.TDS = prev.TDS.Abs()
	} else {
		out.TDS = percentOf(wp, in.TDSPercentage)
	}
	if ov.GSTOnWorkPortion {
		out.GSTOnWorkPortion = prev.GSTOnWorkPortion.Abs()
	} else {
		out.GSTOnWorkPortion = percentOf(wp, in.GSTOnWorkPortionPercentage)
	}
	if ov.LWC {
		out.LWC = prev.LWC.Abs()
	} else {
		out.LWC = percentOf(wp.Add(in.RoyaltyAndTesting), in.LWCPercentage)
	}

	if !ov.BillTotal {
		out.BillTotal = wp.Add(in.RoyaltyAndTesting).Add(out.GST).Add(in.ReimbursementOfInsurance)
	}

	if !ov.NetAmount {
		out.NetAmount = out.BillTotal.
			Sub(out.TDS).
			Sub(out.GSTOnWorkPortion).
			Sub(in.SecurityDeposit.Abs()).
			Sub(out.LWC).
			Sub(in.Insurance.Abs()).
			Sub(in.Royalty.Abs())
	}
	return out
}

type TSInputs struct {
	WorkPortion               decimal.Decimal `json:"work_portion"`
	Royalty                   decimal.Decimal `json:"royalty"`
	Testing                   decimal.Decimal `json:"testing"`
	Consultancy               decimal.Decimal `json:"consultancy"`
	GSTPercentage             decimal.Decimal `json:"gst_percentage"`
	ContingencyPercentage     decimal.Decimal `json:"contingency_percentage"`
	LabourInsurancePercentage decimal.Decimal `json:"labour_insurance_percentage"`
}

func DefaultTSInputs() TSInputs {
	return TSInputs{
		GSTPercentage:             decimal.NewFromInt(18),
		ContingencyPercentage:     decimal.NewFromInt(4),
		LabourInsurancePercentage: decimal.NewFromInt(1),
	}
}

type TSDerived struct {
	GSTAmount             decimal.Decimal `json:"gst"`
	GrandTotal            decimal.Decimal `json:"grand_total"`
	ContingencyAmount     decimal.Decimal `json:"contingency"`
	LabourInsuranceAmount decimal.Decimal `json:"labour_insurance"`
	FinalTotal            decimal.Decimal `json:"final_total"`
}

type TSOverrides struct {
	GST             bool `json:"gst"`
	GrandTotal      bool `json:"grand_total"`
	Contingency     bool `json:"contingency"`
	LabourInsurance bool `json:"labour_insurance"`
	FinalTotal      bool `json:"final_total"`
}

func (d *TSDerived) ref(f Field) *decimal.Decimal {
	switch f {
	case TSGST:
		return &d.GSTAmount
	case TSGrandTotal:
		return &d.GrandTotal
	case TSContingency:
		return &d.ContingencyAmount
	case TSLabourInsurance:
		return &d.LabourInsuranceAmount
	case TSFinalTotal:
		return &d.FinalTotal
	}
	return nil
}

func (d TSDerived) Get(f Field) (decimal.Decimal, bool) {
	if p := d.ref(f); p != nil {
		return *p, true
	}
	return decimal.Zero, false
}

func (d *TSDerived) Set(f Field, v decimal.Decimal) bool {
	p := d.ref(f)
	if p == nil {
		return false
	}
	*p = v
	return true
}

func (o *TSOverrides) ref(f Field) *bool {
	switch f {
	case TSGST:
		return &o.GST
	case TSGrandTotal:
		return &o.GrandTotal
	case TSContingency:
		return &o.Contingency
	case TSLabourInsurance:
		return &o.LabourInsurance
	case TSFinalTotal:
		return &o.FinalTotal
	}
	return nil
}

func (o TSOverrides) Is(f Field) bool {
	p := o.ref(f)
	return p != nil && *p
}

func (o *TSOverrides) Set(f Field, on bool) bool {
	p := o.ref(f)
	if p == nil {
		return false
	}
	*p = on
	return true
}

func (o TSOverrides) Active() []Field {
	var active []Field
	for _, f := range TSFields {
		if o.Is(f) {
			active = append(active, f)
		}
	}
	return active
}

// RecalculateTechnicalSanction recomputes every non-overridden technical
// sanction amount. Contingency and labour insurance depend on the work
// portion only.
func RecalculateTechnicalSanction(in TSInputs, ov TSOverrides, prev TSDerived) TSDerived {
	wp := in.WorkPortion
	out := prev

	if !ov.GST {
		out.GSTAmount = percentOf(wp, in.GSTPercentage)
	}
	if !ov.Contingency {
		out.ContingencyAmount = percentOf(wp, in.ContingencyPercentage)
	}
	if !ov.LabourInsurance {
		out.LabourInsuranceAmount = percentOf(wp, in.LabourInsurancePercentage)
	}

	base := wp.Add(in.Royalty).Add(in.Testing).Add(out.GSTAmount)
	if !ov.GrandTotal {
		out.GrandTotal = base
	}
	if !ov.FinalTotal {
		out.FinalTotal = base.Add(in.Consultancy).Add(out.ContingencyAmount).Add(out.LabourInsuranceAmount)
	}
	return out
}
