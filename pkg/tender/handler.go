package tender

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/rest"
	"github.com/worksledger/worksledger/internal/utils"
)

type TenderDTO struct {
	Id                        int    `json:"id"`
	Work                      int    `json:"work"`
	WorkName                  string `json:"workName"`
	TechnicalSanction         *int   `json:"technicalSanction"`
	TenderNumber              string `json:"tenderNumber"`
	Date                      string `json:"date"`
	AgencyName                string `json:"agencyName"`
	Online                    bool   `json:"online"`
	OnlineDate                string `json:"onlineDate,omitempty"`
	Offline                   bool   `json:"offline"`
	OfflineDate               string `json:"offlineDate,omitempty"`
	TechnicalVerification     bool   `json:"technicalVerification"`
	TechnicalVerificationDate string `json:"technicalVerificationDate,omitempty"`
	FinancialVerification     bool   `json:"financialVerification"`
	FinancialVerificationDate string `json:"financialVerificationDate,omitempty"`
	LOA                       bool   `json:"loa"`
	LOADate                   string `json:"loaDate,omitempty"`
	EMDSupporting             bool   `json:"emdSupporting"`
	EMDSupportingDate         string `json:"emdSupportingDate,omitempty"`
	EMDAwarded                bool   `json:"emdAwarded"`
	EMDAwardedDate            string `json:"emdAwardedDate,omitempty"`
	WorkOrder                 bool   `json:"workOrder"`
	WorkOrderDate             string `json:"workOrderDate,omitempty"`
	CurrentStage              string `json:"currentStage,omitempty"`
	IsDemo                    bool   `json:"isDemo"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func ToDTO(t Tender) TenderDTO {
	stage := func(s Stage) (bool, string) {
		st := t.Stage(s)
		return st.Done, utils.FormatDate(st.Date)
	}
	dto := TenderDTO{
		Id:                t.Id,
		Work:              t.WorkId,
		WorkName:          t.WorkName,
		TechnicalSanction: t.TechnicalSanctionId,
		TenderNumber:      t.TenderNumber,
		Date:              utils.FormatDate(&t.Date),
		AgencyName:        t.AgencyName,
		CurrentStage:      string(t.CurrentStage()),
		IsDemo:            t.IsDemo,
	}
	dto.Online, dto.OnlineDate = stage(Online)
	dto.Offline, dto.OfflineDate = stage(Offline)
	dto.TechnicalVerification, dto.TechnicalVerificationDate = stage(TechnicalVerification)
	dto.FinancialVerification, dto.FinancialVerificationDate = stage(FinancialVerification)
	dto.LOA, dto.LOADate = stage(LOA)
	dto.EMDSupporting, dto.EMDSupportingDate = stage(EMDSupporting)
	dto.EMDAwarded, dto.EMDAwardedDate = stage(EMDAwarded)
	dto.WorkOrder, dto.WorkOrderDate = stage(WorkOrder)
	return dto
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTenderNotFound):
		rest.WriteError(w, http.StatusNotFound, "Tender not found", "")
	case errors.Is(err, ErrWorkNotFound):
		rest.WriteError(w, http.StatusBadRequest, "Work not found", "work must reference an existing work")
	case errors.Is(err, ErrTechnicalSanctionMismatch):
		rest.WriteError(w, http.StatusBadRequest, "Invalid technical sanction", err.Error())
	case errors.Is(err, ErrDuplicateTenderNumber):
		rest.WriteError(w, http.StatusConflict, "Tender number already exists", "")
	case rest.IsValidation(err):
		rest.WriteError(w, http.StatusBadRequest, "Invalid tender", err.Error())
	default:
		rest.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

// List godoc
// @Summary List tenders, optionally of one work
// @Tags Tender
// @Produce json
// @Param work query int false "Work ID"
// @Success 200 {array} TenderDTO
// @Router /api/tenders [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing tenders")
	workId, ok, err := rest.QueryInt(r, "work")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid work parameter", err.Error())
		return
	}
	var filter *int
	if ok {
		filter = &workId
	}
	tenders, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]TenderDTO, 0, len(tenders))
	for _, t := range tenders {
		dtos = append(dtos, ToDTO(t))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// Get godoc
// @Summary Get a tender
// @Tags Tender
// @Produce json
// @Param id path int true "Tender ID"
// @Success 200 {object} TenderDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/tenders/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid tender id", err.Error())
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(t))
}

// Create godoc
// @Summary Create a tender
// @Tags Tender
// @Accept json
// @Produce json
// @Param tender body WriteRequest true "Tender"
// @Success 201 {object} TenderDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 409 {object} rest.ErrorResponse
// @Router /api/tenders [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating tender")
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
// @Summary Update a tender
// @Tags Tender
// @Accept json
// @Produce json
// @Param id path int true "Tender ID"
// @Param tender body WriteRequest true "Tender"
// @Success 200 {object} TenderDTO
// @Router /api/tenders/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid tender id", err.Error())
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
// @Summary Delete a tender and its bills
// @Tags Tender
// @Param id path int true "Tender ID"
// @Success 204 "No Content"
// @Router /api/tenders/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid tender id", err.Error())
		return
	}
	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		rest.WriteError(w, http.StatusNotFound, "Tender not found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
