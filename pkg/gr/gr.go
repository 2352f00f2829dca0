package gr

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// GR is a Government Resolution, the funding authorization grouping works.
type GR struct {
	Id        int
	Number    string
	Date      time.Time
	IsDemo    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (g GR) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Number, validation.Required, validation.Length(1, 100)),
		validation.Field(&g.Date, validation.Required),
	)
}
