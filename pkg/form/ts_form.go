package form

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/worksledger/worksledger/internal/utils"
	"github.com/worksledger/worksledger/pkg/calc"
	"github.com/worksledger/worksledger/pkg/technical_sanction"
)

var tsInputFields = []string{
	workPortionField,
	"royalty",
	"testing",
	"consultancy",
	"gst_percentage",
	"contingency_percentage",
	"labour_insurance_percentage",
}

var tsDetailFields = []string{"work", "sub_name", "noting_date", "order_date"}

type TSForm struct {
	state      State
	tsId       int
	frozen     bool
	inputs     map[string]string
	details    map[string]string
	milestones map[technical_sanction.Milestone]bool
	overrides  calc.TSOverrides
	derived    calc.TSDerived
	clock      utils.Clock
}

func NewTSForm(clock utils.Clock) *TSForm {
	f := &TSForm{clock: clock}
	f.reset()
	return f
}

func (f *TSForm) Kind() Kind    { return KindTechnicalSanction }
func (f *TSForm) State() State  { return f.state }
func (f *TSForm) RecordId() int { return f.tsId }
func (f *TSForm) Frozen() bool  { return f.frozen }

func (f *TSForm) reset() {
	f.state = Uninitialized
	f.tsId = 0
	f.frozen = false
	f.inputs = map[string]string{}
	f.details = map[string]string{}
	f.milestones = map[technical_sanction.Milestone]bool{
		technical_sanction.Noting: false,
		technical_sanction.Order:  false,
	}
	f.overrides = calc.TSOverrides{}
	f.derived = calc.TSDerived{}
}

func tsRawInputs(in calc.TSInputs) map[string]string {
	return map[string]string{
		workPortionField:              in.WorkPortion.String(),
		"royalty":                     in.Royalty.String(),
		"testing":                     in.Testing.String(),
		"consultancy":                 in.Consultancy.String(),
		"gst_percentage":              in.GSTPercentage.String(),
		"contingency_percentage":      in.ContingencyPercentage.String(),
		"labour_insurance_percentage": in.LabourInsurancePercentage.String(),
	}
}

func (f *TSForm) OpenCreate(workId *int) {
	f.reset()
	f.inputs = tsRawInputs(calc.DefaultTSInputs())
	f.inputs[workPortionField] = ""
	if workId != nil {
		f.details["work"] = strconv.Itoa(*workId)
	}
	f.state = Initialized
}

// OpenEdit loads a stored sanction verbatim, milestones and their dates included.
// As with bills, loaded derived values are display only and an untouched
// payload lets the save recompute them.
func (f *TSForm) OpenEdit(ts technical_sanction.TechnicalSanction) {
	f.reset()
	f.state = Initializing
	f.tsId = ts.Id
	f.inputs = tsRawInputs(ts.Inputs)
	f.details["work"] = strconv.Itoa(ts.WorkId)
	f.details["sub_name"] = ts.SubName
	f.details["noting_date"] = utils.FormatDate(ts.NotingDate)
	f.details["order_date"] = utils.FormatDate(ts.OrderDate)
	f.milestones[technical_sanction.Noting] = ts.Noting
	f.milestones[technical_sanction.Order] = ts.Order
	f.derived = ts.Derived
	f.frozen = true
	f.state = Initialized
}

func (f *TSForm) calcInputs() calc.TSInputs {
	return calc.TSInputs{
		WorkPortion:               calc.ParseAmount(f.inputs[workPortionField]),
		Royalty:                   calc.ParseAmount(f.inputs["royalty"]),
		Testing:                   calc.ParseAmount(f.inputs["testing"]),
		Consultancy:               calc.ParseAmount(f.inputs["consultancy"]),
		GSTPercentage:             calc.ParseAmount(f.inputs["gst_percentage"]),
		ContingencyPercentage:     calc.ParseAmount(f.inputs["contingency_percentage"]),
		LabourInsurancePercentage: calc.ParseAmount(f.inputs["labour_insurance_percentage"]),
	}
}

func (f *TSForm) recalculate() {
	if f.state != Initialized || f.frozen || !hasAmount(f.inputs[workPortionField]) {
		return
	}
	f.derived = calc.RecalculateTechnicalSanction(f.calcInputs(), f.overrides, f.derived)
}

func (f *TSForm) SetInput(field, raw string) error {
	if f.state != Initialized {
		return ErrNotInitialized
	}
	switch {
	case slices.Contains(tsInputFields, field):
		f.inputs[field] = raw
		f.frozen = false
		f.recalculate()
	case slices.Contains(tsDetailFields, field):
		f.details[field] = raw
	default:
		return unknownField(field)
	}
	return nil
}

func (f *TSForm) Override(field, raw string) error {
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

func (f *TSForm) Release(field string) error {
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

// SetMilestone ticks or unticks noting or order. Ticking a milestone that
// has no date yet dates it today; unticking keeps the date.
func (f *TSForm) SetMilestone(name string, done bool) error {
	if f.state != Initialized {
		return ErrNotInitialized
	}
	m := technical_sanction.Milestone(name)
	if _, ok := f.milestones[m]; !ok {
		return ErrUnknownMilestone
	}
	f.milestones[m] = done
	dateField := name + "_date"
	if done && strings.TrimSpace(f.details[dateField]) == "" {
		today := utils.Today(f.clock)
		f.details[dateField] = utils.FormatDate(&today)
	}
	return nil
}

func (f *TSForm) Close() {
	f.reset()
}

func (f *TSForm) Payload() (technical_sanction.WriteRequest, error) {
	if f.state != Initialized {
		return technical_sanction.WriteRequest{}, ErrNotInitialized
	}
	in := f.calcInputs()
	req := technical_sanction.WriteRequest{
		SubName:                   strings.TrimSpace(f.details["sub_name"]),
		WorkPortion:               in.WorkPortion,
		Royalty:                   in.Royalty,
		Testing:                   in.Testing,
		Consultancy:               in.Consultancy,
		GSTPercentage:             in.GSTPercentage,
		ContingencyPercentage:     in.ContingencyPercentage,
		LabourInsurancePercentage: in.LabourInsurancePercentage,
		Noting:                    f.milestones[technical_sanction.Noting],
		Order:                     f.milestones[technical_sanction.Order],
		NotingDate:                optionalString(f.details["noting_date"]),
		OrderDate:                 optionalString(f.details["order_date"]),
	}
	work, err := optionalInt("work", f.details["work"])
	if err != nil {
		return technical_sanction.WriteRequest{}, err
	}
	if work != nil {
		req.Work = *work
	}
	for _, field := range f.overrides.Active() {
		v, _ := f.derived.Get(field)
		req.SetDerived(field, v)
	}
	return req, nil
}

func (f *TSForm) View() View {
	derived := make(map[calc.Field]decimal.Decimal, len(calc.TSFields))
	overrides := make(map[calc.Field]bool, len(calc.TSFields))
	for _, field := range calc.TSFields {
		derived[field], _ = f.derived.Get(field)
		overrides[field] = f.overrides.Is(field)
	}
	milestones := make(map[string]bool, len(f.milestones))
	for m, done := range f.milestones {
		milestones[string(m)] = done
	}
	return View{
		Kind:       KindTechnicalSanction,
		State:      f.state,
		RecordId:   f.tsId,
		Frozen:     f.frozen,
		Inputs:     maps.Clone(f.inputs),
		Details:    maps.Clone(f.details),
		Derived:    derived,
		Overrides:  overrides,
		Milestones: milestones,
	}
}
