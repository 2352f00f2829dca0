package tender

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Stage is one step of the tender award process, named by its column.
type Stage string

const (
	Online                Stage = "online"
	Offline               Stage = "offline"
	TechnicalVerification Stage = "technical_verification"
	FinancialVerification Stage = "financial_verification"
	LOA                   Stage = "loa"
	EMDSupporting         Stage = "emd_supporting"
	EMDAwarded            Stage = "emd_awarded"
	WorkOrder             Stage = "work_order"
)

// Stages lists the award stages in process order.
var Stages = []Stage{Online, Offline, TechnicalVerification, FinancialVerification, LOA, EMDSupporting, EMDAwarded, WorkOrder}

type StageStatus struct {
	Done bool
	Date *time.Time
}

type Tender struct {
	Id                  int
	WorkId              int
	WorkName            string
	TechnicalSanctionId *int
	TenderNumber        string
	Date                time.Time
	AgencyName          string
	Stages              map[Stage]StageStatus
	IsDemo              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (t Tender) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.WorkId, validation.Required),
		validation.Field(&t.TenderNumber, validation.Required, validation.Length(1, 100)),
		validation.Field(&t.AgencyName, validation.Required, validation.Length(1, 300)),
		validation.Field(&t.Date, validation.Required),
	)
}

// Stage returns the status of s; an unknown stage reads as not done.
func (t Tender) Stage(s Stage) StageStatus {
	return t.Stages[s]
}

// SyncStageDates dates every reached stage that has no date yet and drops
// the date of every stage that is not reached.
func (t *Tender) SyncStageDates(today time.Time) {
	if t.Stages == nil {
		t.Stages = map[Stage]StageStatus{}
	}
	for _, s := range Stages {
		st := t.Stages[s]
		switch {
		case st.Done && st.Date == nil:
			d := today
			st.Date = &d
		case !st.Done:
			st.Date = nil
		}
		t.Stages[s] = st
	}
}

// CurrentStage is the furthest reached stage, empty when none is.
func (t Tender) CurrentStage() Stage {
	var current Stage
	for _, s := range Stages {
		if t.Stages[s].Done {
			current = s
		}
	}
	return current
}
