package form

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/rest"
	"github.com/worksledger/worksledger/pkg/bill"
	"github.com/worksledger/worksledger/pkg/technical_sanction"
)

// ViewDTO exposes a session. Field keys are the snake_case names accepted by
// the input and derived endpoints.
type ViewDTO struct {
	Id         string                     `json:"id"`
	Kind       Kind                       `json:"kind"`
	State      string                     `json:"state"`
	RecordId   *int                       `json:"recordId"`
	Frozen     bool                       `json:"frozen"`
	Inputs     map[string]string          `json:"inputs"`
	Details    map[string]string          `json:"details"`
	Derived    map[string]decimal.Decimal `json:"derived"`
	Overrides  map[string]bool            `json:"overrides"`
	Milestones map[string]bool            `json:"milestones,omitempty"`
}

type SubmissionDTO struct {
	Created           bool                                     `json:"created"`
	Bill              *bill.BillDTO                            `json:"bill,omitempty"`
	TechnicalSanction *technical_sanction.TechnicalSanctionDTO `json:"technicalSanction,omitempty"`
}

type openBillRequest struct {
	Id     *int `json:"id"`
	Tender *int `json:"tender"`
}

type openTSRequest struct {
	Id   *int `json:"id"`
	Work *int `json:"work"`
}

type valueRequest struct {
	Value string `json:"value"`
}

type milestoneRequest struct {
	Done bool `json:"done"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func ToDTO(v View) ViewDTO {
	dto := ViewDTO{
		Id:         v.Id,
		Kind:       v.Kind,
		State:      v.State.String(),
		Frozen:     v.Frozen,
		Inputs:     v.Inputs,
		Details:    v.Details,
		Derived:    make(map[string]decimal.Decimal, len(v.Derived)),
		Overrides:  make(map[string]bool, len(v.Overrides)),
		Milestones: v.Milestones,
	}
	if v.RecordId != 0 {
		id := v.RecordId
		dto.RecordId = &id
	}
	for f, amount := range v.Derived {
		dto.Derived[string(f)] = amount
	}
	for f, on := range v.Overrides {
		dto.Overrides[string(f)] = on
	}
	return dto
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, bill.ErrBillNotFound),
		errors.Is(err, technical_sanction.ErrTechnicalSanctionNotFound):
		rest.WriteError(w, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, ErrUnknownField),
		errors.Is(err, ErrUnknownMilestone),
		errors.Is(err, ErrMilestoneNotBound),
		errors.Is(err, bill.ErrTenderNotFound),
		errors.Is(err, bill.ErrGRNotFound),
		errors.Is(err, technical_sanction.ErrWorkNotFound),
		rest.IsValidation(err):
		rest.WriteError(w, http.StatusBadRequest, "Invalid form", err.Error())
	case errors.Is(err, ErrNotInitialized),
		errors.Is(err, ErrSubmitInProgress):
		rest.WriteError(w, http.StatusConflict, "Form not ready", err.Error())
	default:
		log.Errorf("form request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

// OpenBill godoc
// @Summary Open a bill form session
// @Description With id the stored bill is loaded for edit; otherwise a new bill starts from the statutory rates.
// @Tags Form
// @Accept json
// @Produce json
// @Success 201 {object} ViewDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/forms/bill [post]
func (h *Handler) OpenBill(w http.ResponseWriter, r *http.Request) {
	log.Debug("Opening bill form")
	var req openBillRequest
	if err := rest.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	view, err := h.service.OpenBill(r.Context(), req.Id, req.Tender)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ToDTO(view))
}

// OpenTechnicalSanction godoc
// @Summary Open a technical sanction form session
// @Tags Form
// @Accept json
// @Produce json
// @Success 201 {object} ViewDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/forms/technical-sanction [post]
func (h *Handler) OpenTechnicalSanction(w http.ResponseWriter, r *http.Request) {
	log.Debug("Opening technical sanction form")
	var req openTSRequest
	if err := rest.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	view, err := h.service.OpenTechnicalSanction(r.Context(), req.Id, req.Work)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ToDTO(view))
}

// Get godoc
// @Summary Get a form session
// @Tags Form
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} ViewDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/forms/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(view))
}

// SetInput godoc
// @Summary Type into a base input or detail field
// @Tags Form
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param field path string true "Field name"
// @Success 200 {object} ViewDTO
// @Router /api/forms/{id}/input/{field} [put]
func (h *Handler) SetInput(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if err := rest.DecodeJSON(r, &req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	vars := mux.Vars(r)
	view, err := h.service.SetInput(r.Context(), vars["id"], vars["field"], req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(view))
}

// Override godoc
// @Summary Enter a derived amount by hand
// @Tags Form
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param field path string true "Derived field name"
// @Success 200 {object} ViewDTO
// @Router /api/forms/{id}/derived/{field} [put]
func (h *Handler) Override(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if err := rest.DecodeJSON(r, &req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	vars := mux.Vars(r)
	view, err := h.service.Override(r.Context(), vars["id"], vars["field"], req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(view))
}

// Release godoc
// @Summary Return a derived amount to its formula
// @Tags Form
// @Produce json
// @Param id path string true "Session ID"
// @Param field path string true "Derived field name"
// @Success 200 {object} ViewDTO
// @Router /api/forms/{id}/derived/{field} [delete]
func (h *Handler) Release(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	view, err := h.service.Release(r.Context(), vars["id"], vars["field"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(view))
}

// SetMilestone godoc
// @Summary Tick or untick a technical sanction milestone
// @Tags Form
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param name path string true "noting or order"
// @Success 200 {object} ViewDTO
// @Router /api/forms/{id}/milestone/{name} [put]
func (h *Handler) SetMilestone(w http.ResponseWriter, r *http.Request) {
	var req milestoneRequest
	if err := rest.DecodeJSON(r, &req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	vars := mux.Vars(r)
	view, err := h.service.SetMilestone(r.Context(), vars["id"], vars["name"], req.Done)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(view))
}

// Submit godoc
// @Summary Save the form and close the session
// @Tags Form
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SubmissionDTO
// @Success 201 {object} SubmissionDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/forms/{id}/submit [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Debugf("Submitting form %s", id)
	sub, err := h.service.Submit(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dto := SubmissionDTO{Created: sub.Created}
	if sub.Bill != nil {
		b := bill.ToDTO(*sub.Bill)
		dto.Bill = &b
	}
	if sub.TechnicalSanction != nil {
		ts := technical_sanction.ToDTO(*sub.TechnicalSanction)
		dto.TechnicalSanction = &ts
	}
	status := http.StatusOK
	if sub.Created {
		status = http.StatusCreated
	}
	rest.WriteJSON(w, status, dto)
}

// Close godoc
// @Summary Discard a form session
// @Tags Form
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/forms/{id} [delete]
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Close(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
