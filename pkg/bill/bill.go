package bill

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/worksledger/worksledger/pkg/calc"
)

// Bill is a running or final bill raised against a tender. Derived amounts
// are stored with the flags recording which were entered by hand.
type Bill struct {
	Id                  int
	TenderId            int
	TenderNumber        string
	WorkId              int
	WorkName            string
	BillNumber          string
	Date                time.Time
	PaymentDoneFromGRId *int
	Inputs              calc.BillInputs
	Derived             calc.BillDerived
	Overrides           calc.BillOverrides
	IsDemo              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsPaid reports whether the bill was paid out of a GR.
func (b Bill) IsPaid() bool {
	return b.PaymentDoneFromGRId != nil
}

func (b Bill) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.TenderId, validation.Required),
		validation.Field(&b.BillNumber, validation.Length(0, 100)),
		validation.Field(&b.Date, validation.Required),
		validation.Field(&b.Inputs),
	)
}

// ListFilter narrows a bill listing. Nil fields do not filter.
type ListFilter struct {
	TenderId *int
	WorkId   *int
}
