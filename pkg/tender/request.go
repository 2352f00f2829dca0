package tender

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/worksledger/worksledger/internal/utils"
)

// WriteRequest is the snake_case create/update body. A stage flag without a
// date is dated on save.
type WriteRequest struct {
	Work                      int     `json:"work"`
	TechnicalSanction         *int    `json:"technical_sanction,omitempty"`
	TenderNumber              string  `json:"tender_number"`
	Date                      *string `json:"date,omitempty"`
	AgencyName                string  `json:"agency_name"`
	Online                    bool    `json:"online"`
	OnlineDate                *string `json:"online_date,omitempty"`
	Offline                   bool    `json:"offline"`
	OfflineDate               *string `json:"offline_date,omitempty"`
	TechnicalVerification     bool    `json:"technical_verification"`
	TechnicalVerificationDate *string `json:"technical_verification_date,omitempty"`
	FinancialVerification     bool    `json:"financial_verification"`
	FinancialVerificationDate *string `json:"financial_verification_date,omitempty"`
	LOA                       bool    `json:"loa"`
	LOADate                   *string `json:"loa_date,omitempty"`
	EMDSupporting             bool    `json:"emd_supporting"`
	EMDSupportingDate         *string `json:"emd_supporting_date,omitempty"`
	EMDAwarded                bool    `json:"emd_awarded"`
	EMDAwardedDate            *string `json:"emd_awarded_date,omitempty"`
	WorkOrder                 bool    `json:"work_order"`
	WorkOrderDate             *string `json:"work_order_date,omitempty"`
}

type stageInput struct {
	done bool
	date *string
}

func (r WriteRequest) stages() map[Stage]stageInput {
	return map[Stage]stageInput{
		Online:                {r.Online, r.OnlineDate},
		Offline:               {r.Offline, r.OfflineDate},
		TechnicalVerification: {r.TechnicalVerification, r.TechnicalVerificationDate},
		FinancialVerification: {r.FinancialVerification, r.FinancialVerificationDate},
		LOA:                   {r.LOA, r.LOADate},
		EMDSupporting:         {r.EMDSupporting, r.EMDSupportingDate},
		EMDAwarded:            {r.EMDAwarded, r.EMDAwardedDate},
		WorkOrder:             {r.WorkOrder, r.WorkOrderDate},
	}
}

// ToEntity converts the request; a missing tender date becomes today.
func (r WriteRequest) ToEntity(id int, today time.Time) (Tender, error) {
	t := Tender{
		Id:                  id,
		WorkId:              r.Work,
		TechnicalSanctionId: r.TechnicalSanction,
		TenderNumber:        r.TenderNumber,
		AgencyName:          r.AgencyName,
		Date:                today,
		Stages:              make(map[Stage]StageStatus, len(Stages)),
	}
	if r.Date != nil {
		d, err := utils.ParseDate(*r.Date)
		if err != nil {
			return Tender{}, validation.Errors{"date": err}
		}
		if d != nil {
			t.Date = *d
		}
	}
	for s, in := range r.stages() {
		st := StageStatus{Done: in.done}
		if in.date != nil {
			d, err := utils.ParseDate(*in.date)
			if err != nil {
				return Tender{}, validation.Errors{string(s) + "_date": err}
			}
			st.Date = d
		}
		t.Stages[s] = st
	}
	return t, nil
}
