package technical_sanction

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/rest"
	"github.com/worksledger/worksledger/internal/utils"
)

type TechnicalSanctionDTO struct {
	Id                        int             `json:"id"`
	Work                      int             `json:"work"`
	WorkName                  string          `json:"workName"`
	SubName                   string          `json:"subName"`
	WorkPortion               decimal.Decimal `json:"workPortion"`
	Royalty                   decimal.Decimal `json:"royalty"`
	Testing                   decimal.Decimal `json:"testing"`
	Consultancy               decimal.Decimal `json:"consultancy"`
	GSTPercentage             decimal.Decimal `json:"gstPercentage"`
	GSTAmount                 decimal.Decimal `json:"gstAmount"`
	GrandTotal                decimal.Decimal `json:"grandTotal"`
	ContingencyPercentage     decimal.Decimal `json:"contingencyPercentage"`
	ContingencyAmount         decimal.Decimal `json:"contingencyAmount"`
	LabourInsurancePercentage decimal.Decimal `json:"labourInsurancePercentage"`
	LabourInsuranceAmount     decimal.Decimal `json:"labourInsuranceAmount"`
	FinalTotal                decimal.Decimal `json:"finalTotal"`
	Overrides                 OverridesDTO    `json:"overrides"`
	Noting                    bool            `json:"noting"`
	NotingDate                string          `json:"notingDate,omitempty"`
	Order                     bool            `json:"order"`
	OrderDate                 string          `json:"orderDate,omitempty"`
	IsDemo                    bool            `json:"isDemo"`
}

// OverridesDTO reports which derived amounts were entered by hand.
type OverridesDTO struct {
	GST             bool `json:"gst"`
	GrandTotal      bool `json:"grandTotal"`
	Contingency     bool `json:"contingency"`
	LabourInsurance bool `json:"labourInsurance"`
	FinalTotal      bool `json:"finalTotal"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func ToDTO(ts TechnicalSanction) TechnicalSanctionDTO {
	return TechnicalSanctionDTO{
		Id:                        ts.Id,
		Work:                      ts.WorkId,
		WorkName:                  ts.WorkName,
		SubName:                   ts.SubName,
		WorkPortion:               ts.Inputs.WorkPortion,
		Royalty:                   ts.Inputs.Royalty,
		Testing:                   ts.Inputs.Testing,
		Consultancy:               ts.Inputs.Consultancy,
		GSTPercentage:             ts.Inputs.GSTPercentage,
		GSTAmount:                 ts.Derived.GSTAmount,
		GrandTotal:                ts.Derived.GrandTotal,
		ContingencyPercentage:     ts.Inputs.ContingencyPercentage,
		ContingencyAmount:         ts.Derived.ContingencyAmount,
		LabourInsurancePercentage: ts.Inputs.LabourInsurancePercentage,
		LabourInsuranceAmount:     ts.Derived.LabourInsuranceAmount,
		FinalTotal:                ts.Derived.FinalTotal,
		Overrides: OverridesDTO{
			GST:             ts.Overrides.GST,
			GrandTotal:      ts.Overrides.GrandTotal,
			Contingency:     ts.Overrides.Contingency,
			LabourInsurance: ts.Overrides.LabourInsurance,
			FinalTotal:      ts.Overrides.FinalTotal,
		},
		Noting:     ts.Noting,
		NotingDate: utils.FormatDate(ts.NotingDate),
		Order:      ts.Order,
		OrderDate:  utils.FormatDate(ts.OrderDate),
		IsDemo:     ts.IsDemo,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTechnicalSanctionNotFound):
		rest.WriteError(w, http.StatusNotFound, "Technical sanction not found", "")
	case errors.Is(err, ErrWorkNotFound):
		rest.WriteError(w, http.StatusBadRequest, "Work not found", "work must reference an existing work")
	case rest.IsValidation(err):
		rest.WriteError(w, http.StatusBadRequest, "Invalid technical sanction", err.Error())
	default:
		rest.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

// List godoc
// @Summary List technical sanctions, optionally of one work
// @Tags TechnicalSanction
// @Produce json
// @Param work query int false "Work ID"
// @Success 200 {array} TechnicalSanctionDTO
// @Router /api/technical-sanctions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing technical sanctions")
	workId, ok, err := rest.QueryInt(r, "work")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid work parameter", err.Error())
		return
	}
	var filter *int
	if ok {
		filter = &workId
	}
	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]TechnicalSanctionDTO, 0, len(items))
	for _, ts := range items {
		dtos = append(dtos, ToDTO(ts))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// Get godoc
// @Summary Get a technical sanction
// @Tags TechnicalSanction
// @Produce json
// @Param id path int true "Technical sanction ID"
// @Success 200 {object} TechnicalSanctionDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/technical-sanctions/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid technical sanction id", err.Error())
		return
	}
	ts, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(ts))
}

// Create godoc
// @Summary Create a technical sanction
// @Description Derived amounts present in the body are stored as overrides; absent ones are computed.
// @Tags TechnicalSanction
// @Accept json
// @Produce json
// @Param ts body WriteRequest true "Technical sanction"
// @Success 201 {object} TechnicalSanctionDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/technical-sanctions [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating technical sanction")
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
// @Summary Update a technical sanction
// @Description A derived amount absent from the body loses its override and is recomputed.
// @Tags TechnicalSanction
// @Accept json
// @Produce json
// @Param id path int true "Technical sanction ID"
// @Param ts body WriteRequest true "Technical sanction"
// @Success 200 {object} TechnicalSanctionDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/technical-sanctions/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid technical sanction id", err.Error())
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
// @Summary Delete a technical sanction
// @Tags TechnicalSanction
// @Param id path int true "Technical sanction ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/technical-sanctions/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid technical sanction id", err.Error())
		return
	}
	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		rest.WriteError(w, http.StatusNotFound, "Technical sanction not found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
