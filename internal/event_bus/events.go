package event_bus

import "github.com/shopspring/decimal"

const (
	BillSavedEvent              EventType = "bill.saved"
	TechnicalSanctionSavedEvent EventType = "technical_sanction.saved"
	WorkCancelledEvent          EventType = "work.cancelled"
)

type BillSaved struct {
	Id         int
	TenderId   int
	BillNumber string
	Created    bool
	// Overridden lists the derived fields whose values were entered by hand.
	Overridden []string
	NetAmount  decimal.Decimal
}

type TechnicalSanctionSaved struct {
	Id         int
	WorkId     int
	SubName    string
	Created    bool
	Overridden []string
	FinalTotal decimal.Decimal
}

type WorkCancelled struct {
	Id      int
	GrId    int
	Name    string
	Reason  string
	Details string
}
