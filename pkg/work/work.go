package work

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

type CancelReason string

const (
	ShiftedToOtherWork     CancelReason = "SHIFTED_TO_OTHER_WORK"
	MovedToOtherDepartment CancelReason = "MOVED_TO_OTHER_DEPARTMENT"
)

var ErrRAExceedsAA = errors.New("revised approval exceeds administrative approval")

// Work is a funded project under a GR. AA is the administrative approval,
// RA the revised approval; spills (ARA) add to RA and together may never
// exceed AA.
type Work struct {
	Id            int
	GrId          int
	Date          time.Time
	Name          string
	AA            decimal.Decimal
	RA            decimal.Decimal
	IsCancelled   bool
	CancelReason  CancelReason
	CancelDetails string
	Spills        []Spill
	IsDemo        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Spill struct {
	Id        int
	WorkId    int
	ARA       decimal.Decimal
	CreatedAt time.Time
}

func nonNegative(value any) error {
	d, _ := value.(decimal.Decimal)
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}

func positive(value any) error {
	d, _ := value.(decimal.Decimal)
	if !d.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
}

func (w Work) Validate() error {
	err := validation.ValidateStruct(&w,
		validation.Field(&w.GrId, validation.Required),
		validation.Field(&w.Name, validation.Required, validation.Length(1, 500)),
		validation.Field(&w.AA, validation.By(nonNegative)),
		validation.Field(&w.RA, validation.By(nonNegative)),
		validation.Field(&w.CancelReason,
			validation.When(w.IsCancelled, validation.Required),
			validation.In(ShiftedToOtherWork, MovedToOtherDepartment)),
	)
	if err != nil {
		return err
	}
	if w.RA.GreaterThan(w.AA) {
		return ErrRAExceedsAA
	}
	return nil
}

func (s Spill) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.WorkId, validation.Required),
		validation.Field(&s.ARA, validation.By(positive)),
	)
}

// TotalARA sums the spills recorded on the work.
func (w Work) TotalARA() decimal.Decimal {
	total := decimal.Zero
	for _, s := range w.Spills {
		total = total.Add(s.ARA)
	}
	return total
}

// CanAddSpill reports whether RA plus existing spills leaves room under AA.
func (w Work) CanAddSpill() bool {
	return w.RA.Add(w.TotalARA()).LessThan(w.AA)
}
