package technical_sanction

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/worksledger/worksledger/pkg/calc"
)

type Milestone string

const (
	Noting Milestone = "noting"
	Order  Milestone = "order"
)

// TechnicalSanction is a costed technical approval for a work. Derived
// amounts are stored alongside the flags recording which were entered by hand.
type TechnicalSanction struct {
	Id         int
	WorkId     int
	WorkName   string
	SubName    string
	Inputs     calc.TSInputs
	Derived    calc.TSDerived
	Overrides  calc.TSOverrides
	Noting     bool
	NotingDate *time.Time
	Order      bool
	OrderDate  *time.Time
	IsDemo     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ts TechnicalSanction) Validate() error {
	return validation.ValidateStruct(&ts,
		validation.Field(&ts.WorkId, validation.Required),
		validation.Field(&ts.SubName, validation.Length(0, 255)),
		validation.Field(&ts.Inputs),
	)
}
