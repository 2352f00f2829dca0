package calc

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// NonNegative rejects negative decimal amounts.
var NonNegative = validation.By(func(value any) error {
	d, ok := value.(decimal.Decimal)
	if ok && d.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
})

// Percentage accepts rates from 0 to 100 inclusive.
var Percentage = validation.By(func(value any) error {
	d, ok := value.(decimal.Decimal)
	if ok && (d.IsNegative() || d.GreaterThan(hundred)) {
		return errors.New("must be between 0 and 100")
	}
	return nil
})

func (in BillInputs) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.WorkPortion, NonNegative),
		validation.Field(&in.GSTPercentage, Percentage),
		validation.Field(&in.TDSPercentage, Percentage),
		validation.Field(&in.GSTOnWorkPortionPercentage, Percentage),
		validation.Field(&in.LWCPercentage, Percentage),
	)
}

func (in TSInputs) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.WorkPortion, NonNegative),
		validation.Field(&in.Royalty, NonNegative),
		validation.Field(&in.Testing, NonNegative),
		validation.Field(&in.Consultancy, NonNegative),
		validation.Field(&in.GSTPercentage, Percentage),
		validation.Field(&in.ContingencyPercentage, Percentage),
		validation.Field(&in.LabourInsurancePercentage, Percentage),
	)
}
