package bill

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/rest"
	"github.com/worksledger/worksledger/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type BillDTO struct {
	Id                         int             `json:"id"`
	Tender                     int             `json:"tender"`
	TenderNumber               string          `json:"tenderNumber"`
	Work                       int             `json:"work"`
	WorkName                   string          `json:"workName"`
	BillNumber                 string          `json:"billNumber"`
	Date                       string          `json:"date"`
	PaymentDoneFromGr          *int            `json:"paymentDoneFromGr"`
	IsPaid                     bool            `json:"isPaid"`
	WorkPortion                decimal.Decimal `json:"workPortion"`
	RoyaltyAndTesting          decimal.Decimal `json:"royaltyAndTesting"`
	GSTPercentage              decimal.Decimal `json:"gstPercentage"`
	ReimbursementOfInsurance   decimal.Decimal `json:"reimbursementOfInsurance"`
	SecurityDeposit            decimal.Decimal `json:"securityDeposit"`
	TDSPercentage              decimal.Decimal `json:"tdsPercentage"`
	GSTOnWorkPortionPercentage decimal.Decimal `json:"gstOnWorkportionPercentage"`
	LWCPercentage              decimal.Decimal `json:"lwcPercentage"`
	Insurance                  decimal.Decimal `json:"insurance"`
	Royalty                    decimal.Decimal `json:"royalty"`
	GST                        decimal.Decimal `json:"gst"`
	BillTotal                  decimal.Decimal `json:"billTotal"`
	TDS                        decimal.Decimal `json:"tds"`
	GSTOnWorkPortion           decimal.Decimal `json:"gstOnWorkportion"`
	LWC                        decimal.Decimal `json:"lwc"`
	NetAmount                  decimal.Decimal `json:"netAmount"`
	Overrides                  OverridesDTO    `json:"overrides"`
	IsDemo                     bool            `json:"isDemo"`
}

type OverridesDTO struct {
	GST              bool `json:"gst"`
	BillTotal        bool `json:"billTotal"`
	TDS              bool `json:"tds"`
	GSTOnWorkPortion bool `json:"gstOnWorkportion"`
	LWC              bool `json:"lwc"`
	NetAmount        bool `json:"netAmount"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func ToDTO(b Bill) BillDTO {
	return BillDTO{
		Id:                         b.Id,
		Tender:                     b.TenderId,
		TenderNumber:               b.TenderNumber,
		Work:                       b.WorkId,
		WorkName:                   b.WorkName,
		BillNumber:                 b.BillNumber,
		Date:                       utils.FormatDate(&b.Date),
		PaymentDoneFromGr:          b.PaymentDoneFromGRId,
		IsPaid:                     b.IsPaid(),
		WorkPortion:                b.Inputs.WorkPortion,
		RoyaltyAndTesting:          b.Inputs.RoyaltyAndTesting,
		GSTPercentage:              b.Inputs.GSTPercentage,
		ReimbursementOfInsurance:   b.Inputs.ReimbursementOfInsurance,
		SecurityDeposit:            b.Inputs.SecurityDeposit,
		TDSPercentage:              b.Inputs.TDSPercentage,
		GSTOnWorkPortionPercentage: b.Inputs.GSTOnWorkPortionPercentage,
		LWCPercentage:              b.Inputs.LWCPercentage,
		Insurance:                  b.Inputs.Insurance,
		Royalty:                    b.Inputs.Royalty,
		GST:                        b.Derived.GST,
		BillTotal:                  b.Derived.BillTotal,
		TDS:                        b.Derived.TDS,
		GSTOnWorkPortion:           b.Derived.GSTOnWorkPortion,
		LWC:                        b.Derived.LWC,
		NetAmount:                  b.Derived.NetAmount,
		Overrides: OverridesDTO{
			GST:              b.Overrides.GST,
			BillTotal:        b.Overrides.BillTotal,
			TDS:              b.Overrides.TDS,
			GSTOnWorkPortion: b.Overrides.GSTOnWorkPortion,
			LWC:              b.Overrides.LWC,
			NetAmount:        b.Overrides.NetAmount,
		},
		IsDemo: b.IsDemo,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBillNotFound):
		rest.WriteError(w, http.StatusNotFound, "Bill not found", "")
	case errors.Is(err, ErrTenderNotFound):
		rest.WriteError(w, http.StatusBadRequest, "Tender not found", "tender must reference an existing tender")
	case errors.Is(err, ErrGRNotFound):
		rest.WriteError(w, http.StatusBadRequest, "GR not found", "payment_done_from_gr must reference an existing GR")
	case rest.IsValidation(err):
		rest.WriteError(w, http.StatusBadRequest, "Invalid bill", err.Error())
	default:
		rest.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

func parseFilter(r *http.Request) (ListFilter, error) {
	var filter ListFilter
	tenderId, ok, err := rest.QueryInt(r, "tender")
	if err != nil {
		return ListFilter{}, err
	}
	if ok {
		filter.TenderId = &tenderId
	}
	workId, ok, err := rest.QueryInt(r, "work")
	if err != nil {
		return ListFilter{}, err
	}
	if ok {
		filter.WorkId = &workId
	}
	return filter, nil
}

// List godoc
// @Summary List bills
// @Tags Bill
// @Produce json
// @Param tender query int false "Tender ID"
// @Param work query int false "Work ID"
// @Success 200 {array} BillDTO
// @Router /api/bills [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing bills")
	filter, err := parseFilter(r)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}
	bills, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]BillDTO, 0, len(bills))
	for _, b := range bills {
		dtos = append(dtos, ToDTO(b))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// Export godoc
// @Summary Download the bill register as XLSX
// @Tags Bill
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param tender query int false "Tender ID"
// @Param work query int false "Work ID"
// @Success 200 {file} file
// @Router /api/bills/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	log.Debug("Exporting bill register")
	filter, err := parseFilter(r)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}
	content, err := h.service.Register(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="bills.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		log.Errorf("failed to write bill register: %v", err)
	}
}

// Get godoc
// @Summary Get a bill
// @Tags Bill
// @Produce json
// @Param id path int true "Bill ID"
// @Success 200 {object} BillDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/bills/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid bill id", err.Error())
		return
	}
	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(b))
}

// Create godoc
// @Summary Create a bill
// @Description Derived amounts present in the body are stored as overrides; absent ones are computed.
// @Tags Bill
// @Accept json
// @Produce json
// @Param bill body WriteRequest true "Bill"
// @Success 201 {object} BillDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/bills [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating bill")
	var req WriteRequest
	if err := rest.DecodeJSON(r, &req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ToDTO(created))
}

// Update godoc
// @Summary Update a bill
// @Description The tender of a bill cannot change. A derived amount absent from the body loses its override.
// @Tags Bill
// @Accept json
// @Produce json
// @Param id path int true "Bill ID"
// @Param bill body WriteRequest true "Bill"
// @Success 200 {object} BillDTO
// @Router /api/bills/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid bill id", err.Error())
		return
	}
	var req WriteRequest
	if err := rest.DecodeJSON(r, &req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	updated, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(updated))
}

// Delete godoc
// @Summary Delete a bill
// @Tags Bill
// @Param id path int true "Bill ID"
// @Success 204 "No Content"
// @Router /api/bills/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid bill id", err.Error())
		return
	}
	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		rest.WriteError(w, http.StatusNotFound, "Bill not found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
