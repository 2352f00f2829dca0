// Package status computes the workflow progress dashboard. Cancelled works
// and everything hanging off them are left out of every count.
package status

type Page string

const (
	PageAll   Page = ""
	PageWorks Page = "works"
	PageTS    Page = "ts"
)

func (p Page) Valid() bool {
	return p == PageAll || p == PageWorks || p == PageTS
}

type Filter struct {
	GrId   *int
	WorkId *int
	Page   Page
}

// Counts holds every raw count the dashboard is assembled from.
type Counts struct {
	GRs                   int
	Works                 int
	TechnicalSanctions    int
	Tenders               int
	Bills                 int
	WorksWithoutTS        int
	WorksWithTSNoTender   int
	TendersOpen           int
	TendersAwarded        int
	TSNoting              int
	TSOrdered             int
	TendersOnlinePending  int
	TendersTechnical      int
	TendersFinancial      int
	TendersLOA            int
	BillsPendingPayment   int
	BillsPaymentCompleted int
}

type Overall struct {
	TotalGRs           int `json:"total_grs"`
	ActiveWorks        int `json:"active_works"`
	TechnicalSanctions int `json:"technical_sanctions"`
	Tenders            int `json:"tenders"`
	Bills              int `json:"bills"`
}

type WorksStatus struct {
	NoTSYet        int `json:"no_ts_yet"`
	TSCreated      int `json:"ts_created"`
	TendersOpen    int `json:"tenders_open"`
	TendersAwarded int `json:"tenders_awarded"`
	BillsPending   int `json:"bills_pending"`
	Completed      int `json:"completed"`
}

type TSStatus struct {
	NotingStage   int `json:"noting_stage"`
	OrderingStage int `json:"ordering_stage"`
}

type TendersStatus struct {
	OnlinePending         int `json:"online_pending"`
	TechnicalVerification int `json:"technical_verification"`
	FinancialVerification int `json:"financial_verification"`
	LOAIssued             int `json:"loa_issued"`
	WorkOrderIssued       int `json:"work_order_issued"`
}

type BillsStatus struct {
	PendingPayment   int `json:"pending_payment"`
	PaymentCompleted int `json:"payment_completed"`
}

// Dashboard is the response body. Sections not requested by the page are nil.
type Dashboard struct {
	GRFilter   *int `json:"gr_filter,omitempty"`
	WorkFilter *int `json:"work_filter,omitempty"`
	*Overall
	WorksStatus   *WorksStatus   `json:"works_status,omitempty"`
	TSStatus      *TSStatus      `json:"ts_status,omitempty"`
	TendersStatus *TendersStatus `json:"tenders_status,omitempty"`
	BillsStatus   *BillsStatus   `json:"bills_status,omitempty"`
}

// Build assembles the sections the page asks for.
func Build(c Counts, f Filter) Dashboard {
	d := Dashboard{GRFilter: f.GrId, WorkFilter: f.WorkId}
	if f.Page == PageAll {
		d.Overall = &Overall{
			TotalGRs:           c.GRs,
			ActiveWorks:        c.Works,
			TechnicalSanctions: c.TechnicalSanctions,
			Tenders:            c.Tenders,
			Bills:              c.Bills,
		}
		d.TendersStatus = &TendersStatus{
			OnlinePending:         c.TendersOnlinePending,
			TechnicalVerification: c.TendersTechnical,
			FinancialVerification: c.TendersFinancial,
			LOAIssued:             c.TendersLOA,
			WorkOrderIssued:       c.TendersAwarded,
		}
		d.BillsStatus = &BillsStatus{
			PendingPayment:   c.BillsPendingPayment,
			PaymentCompleted: c.BillsPaymentCompleted,
		}
	}
	if f.Page == PageAll || f.Page == PageWorks {
		d.WorksStatus = &WorksStatus{
			NoTSYet:        c.WorksWithoutTS,
			TSCreated:      c.WorksWithTSNoTender,
			TendersOpen:    c.TendersOpen,
			TendersAwarded: c.TendersAwarded,
			BillsPending:   c.BillsPendingPayment,
			Completed:      c.BillsPaymentCompleted,
		}
	}
	if f.Page == PageAll || f.Page == PageTS {
		d.TSStatus = &TSStatus{
			NotingStage:   c.TSNoting,
			OrderingStage: c.TSOrdered,
		}
	}
	return d
}
