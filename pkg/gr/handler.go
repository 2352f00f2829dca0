package gr

import (
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/rest"
	"github.com/worksledger/worksledger/internal/utils"
)

type GRDTO struct {
	Id       int    `json:"id"`
	GrNumber string `json:"grNumber"`
	GrDate   string `json:"grDate"`
	IsDemo   bool   `json:"isDemo"`
}

type GRWriteDTO struct {
	GrNumber string `json:"gr_number"`
	Date     string `json:"date"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func toDTO(g GR) GRDTO {
	return GRDTO{
		Id:       g.Id,
		GrNumber: g.Number,
		GrDate:   g.Date.Format(utils.DateLayout),
		IsDemo:   g.IsDemo,
	}
}

func fromDTO(id int, dto GRWriteDTO) (GR, error) {
	var date time.Time
	if dto.Date != "" {
		parsed, err := time.Parse(utils.DateLayout, dto.Date)
		if err != nil {
			return GR{}, err
		}
		date = parsed
	}
	return GR{Id: id, Number: dto.GrNumber, Date: date}, nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGRNotFound):
		rest.WriteError(w, http.StatusNotFound, "GR not found", "")
	case errors.Is(err, ErrDuplicateGRNumber):
		rest.WriteError(w, http.StatusBadRequest, "Duplicate GR number", err.Error())
	case rest.IsValidation(err):
		rest.WriteError(w, http.StatusBadRequest, "Invalid GR", err.Error())
	default:
		rest.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

// List godoc
// @Summary List GRs
// @Tags GR
// @Produce json
// @Success 200 {array} GRDTO
// @Router /api/grs [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing GRs")
	grs, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]GRDTO, 0, len(grs))
	for _, g := range grs {
		dtos = append(dtos, toDTO(g))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// Get godoc
// @Summary Get a GR by ID
// @Tags GR
// @Produce json
// @Param id path int true "GR ID"
// @Success 200 {object} GRDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/grs/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid GR id", err.Error())
		return
	}
	g, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(g))
}

// Create godoc
// @Summary Create a GR
// @Tags GR
// @Accept json
// @Produce json
// @Param gr body GRWriteDTO true "GR"
// @Success 201 {object} GRDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/grs [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating GR")
	var dto GRWriteDTO
	if err := rest.DecodeJSON(r, &dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	g, err := fromDTO(0, dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", "date must be in YYYY-MM-DD format")
		return
	}
	created, err := h.service.Create(r.Context(), g)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, toDTO(created))
}

// Update godoc
// @Summary Update a GR
// @Tags GR
// @Accept json
// @Produce json
// @Param id path int true "GR ID"
// @Param gr body GRWriteDTO true "GR"
// @Success 200 {object} GRDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/grs/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid GR id", err.Error())
		return
	}
	var dto GRWriteDTO
	if err := rest.DecodeJSON(r, &dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	g, err := fromDTO(id, dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", "date must be in YYYY-MM-DD format")
		return
	}
	updated, err := h.service.Update(r.Context(), g)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(updated))
}

// Delete godoc
// @Summary Delete a GR and everything recorded under it
// @Tags GR
// @Param id path int true "GR ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/grs/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid GR id", err.Error())
		return
	}
	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		rest.WriteError(w, http.StatusNotFound, "GR not found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
