// Package form holds the server-side editing sessions for bills and
// technical sanctions. A session keeps the raw inputs as typed, the derived
// amounts and the override flags, and recomputes the derived amounts after
// every edit once the form is initialized.
//
// A form opened for edit keeps the loaded derived amounts until the first
// calculation input or derived amount is edited; from then on every amount
// whose override flag is off follows its formula.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"github.com/worksledger/worksledger/pkg/calc"
)

type State int

const (
	Uninitialized State = iota
	Initializing
	Initialized
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Initialized:
		return "initialized"
	}
	return "uninitialized"
}

type Kind string

const (
	KindBill              Kind = "bill"
	KindTechnicalSanction Kind = "technical_sanction"
)

var (
	ErrNotInitialized    = errors.New("form is not initialized")
	ErrUnknownField      = errors.New("unknown field")
	ErrUnknownMilestone  = errors.New("unknown milestone")
	ErrSessionNotFound   = errors.New("form session not found")
	ErrMilestoneNotBound = errors.New("form has no milestones")
	ErrSubmitInProgress  = errors.New("form is being submitted")
)

const workPortionField = "work_portion"

// Form is the behaviour shared by bill and technical sanction sessions.
type Form interface {
	Kind() Kind
	State() State
	// RecordId is the id of the record being edited, 0 for a new one.
	RecordId() int
	SetInput(field, raw string) error
	Override(field, raw string) error
	Release(field string) error
	Close()
	View() View
}

// View is a read-only snapshot of a session.
type View struct {
	Id         string
	Kind       Kind
	State      State
	RecordId   int
	Frozen     bool
	Inputs     map[string]string
	Details    map[string]string
	Derived    map[calc.Field]decimal.Decimal
	Overrides  map[calc.Field]bool
	Milestones map[string]bool
}

func unknownField(field string) error {
	return fmt.Errorf("%w: %s", ErrUnknownField, field)
}

// hasAmount reports whether raw holds a parseable number.
func hasAmount(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	_, err := decimal.NewFromString(raw)
	return err == nil
}

func optionalInt(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, validation.Errors{field: errors.New("must be an integer")}
	}
	return &v, nil
}

func optionalString(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}
