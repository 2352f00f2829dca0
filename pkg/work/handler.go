package work

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/rest"
	"github.com/worksledger/worksledger/internal/utils"
)

type SpillDTO struct {
	Id        int             `json:"id"`
	WorkId    int             `json:"workId"`
	ARA       decimal.Decimal `json:"ARA"`
	CreatedAt time.Time       `json:"createdAt"`
}

type WorkDTO struct {
	Id            int             `json:"id"`
	Gr            int             `json:"gr"`
	Date          string          `json:"date"`
	WorkName      string          `json:"workName"`
	AA            decimal.Decimal `json:"AA"`
	RA            decimal.Decimal `json:"RA"`
	TotalARA      decimal.Decimal `json:"totalARA"`
	CanAddSpill   bool            `json:"canAddSpill"`
	IsCancelled   bool            `json:"isCancelled"`
	CancelReason  string          `json:"cancelReason,omitempty"`
	CancelDetails string          `json:"cancelDetails,omitempty"`
	Spills        []SpillDTO      `json:"spills"`
	IsDemo        bool            `json:"isDemo"`
}

type WorkWriteDTO struct {
	Gr            int              `json:"gr"`
	Date          string           `json:"date,omitempty"`
	NameOfWork    string           `json:"name_of_work"`
	AA            decimal.Decimal  `json:"aa"`
	RA            *decimal.Decimal `json:"ra,omitempty"`
	IsCancelled   bool             `json:"is_cancelled"`
	CancelReason  string           `json:"cancel_reason,omitempty"`
	CancelDetails string           `json:"cancel_details,omitempty"`
}

type SpillWriteDTO struct {
	WorkId int             `json:"work_id"`
	ARA    decimal.Decimal `json:"ara"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func spillToDTO(s Spill) SpillDTO {
	return SpillDTO{Id: s.Id, WorkId: s.WorkId, ARA: s.ARA, CreatedAt: s.CreatedAt}
}

func WorkToDTO(w Work) WorkDTO {
	spills := make([]SpillDTO, 0, len(w.Spills))
	for _, s := range w.Spills {
		spills = append(spills, spillToDTO(s))
	}
	return WorkDTO{
		Id:            w.Id,
		Gr:            w.GrId,
		Date:          w.Date.Format(utils.DateLayout),
		WorkName:      w.Name,
		AA:            w.AA,
		RA:            w.RA,
		TotalARA:      w.TotalARA(),
		CanAddSpill:   w.CanAddSpill(),
		IsCancelled:   w.IsCancelled,
		CancelReason:  string(w.CancelReason),
		CancelDetails: w.CancelDetails,
		Spills:        spills,
		IsDemo:        w.IsDemo,
	}
}

func dtoToWork(id int, dto WorkWriteDTO) (Work, error) {
	date, err := utils.ParseDate(dto.Date)
	if err != nil {
		return Work{}, err
	}
	w := Work{
		Id:            id,
		GrId:          dto.Gr,
		Name:          dto.NameOfWork,
		AA:            dto.AA,
		IsCancelled:   dto.IsCancelled,
		CancelReason:  CancelReason(dto.CancelReason),
		CancelDetails: dto.CancelDetails,
	}
	if date != nil {
		w.Date = *date
	}
	if dto.RA != nil {
		w.RA = *dto.RA
	}
	return w, nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrWorkNotFound):
		rest.WriteError(w, http.StatusNotFound, "Work not found", "")
	case errors.Is(err, ErrSpillNotFound):
		rest.WriteError(w, http.StatusNotFound, "Spill not found", "")
	case errors.Is(err, ErrGRNotFound):
		rest.WriteError(w, http.StatusBadRequest, "GR not found", "gr must reference an existing GR")
	case errors.Is(err, ErrSpillExceedsAA):
		rest.WriteError(w, http.StatusBadRequest, "Spill exceeds AA", err.Error())
	case errors.Is(err, ErrRAExceedsAA):
		rest.WriteError(w, http.StatusBadRequest, "RA exceeds AA", err.Error())
	case rest.IsValidation(err):
		rest.WriteError(w, http.StatusBadRequest, "Invalid request", err.Error())
	default:
		rest.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

func optionalQueryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	value, ok, err := rest.QueryInt(r, name)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid "+name+" parameter", err.Error())
		return nil, false
	}
	if !ok {
		return nil, true
	}
	return &value, true
}

// ListWorks godoc
// @Summary List works, optionally of one GR
// @Tags Work
// @Produce json
// @Param gr query int false "GR ID"
// @Success 200 {array} WorkDTO
// @Router /api/works [get]
func (h *Handler) ListWorks(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing works")
	grId, ok := optionalQueryInt(w, r, "gr")
	if !ok {
		return
	}
	works, err := h.service.List(r.Context(), grId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]WorkDTO, 0, len(works))
	for _, wk := range works {
		dtos = append(dtos, WorkToDTO(wk))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// GetWork godoc
// @Summary Get a work with its spills
// @Tags Work
// @Produce json
// @Param id path int true "Work ID"
// @Success 200 {object} WorkDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/works/{id} [get]
func (h *Handler) GetWork(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid work id", err.Error())
		return
	}
	wk, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, WorkToDTO(wk))
}

// CreateWork godoc
// @Summary Create a work
// @Description The date defaults to today. RA must not exceed AA.
// @Tags Work
// @Accept json
// @Produce json
// @Param work body WorkWriteDTO true "Work"
// @Success 201 {object} WorkDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/works [post]
func (h *Handler) CreateWork(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating work")
	var dto WorkWriteDTO
	if err := rest.DecodeJSON(r, &dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	wk, err := dtoToWork(0, dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", "date must be in YYYY-MM-DD format")
		return
	}
	created, err := h.service.Create(r.Context(), wk)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, WorkToDTO(created))
}

// UpdateWork godoc
// @Summary Update or cancel a work
// @Tags Work
// @Accept json
// @Produce json
// @Param id path int true "Work ID"
// @Param work body WorkWriteDTO true "Work"
// @Success 200 {object} WorkDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/works/{id} [put]
func (h *Handler) UpdateWork(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid work id", err.Error())
		return
	}
	var dto WorkWriteDTO
	if err := rest.DecodeJSON(r, &dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	wk, err := dtoToWork(id, dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", "date must be in YYYY-MM-DD format")
		return
	}
	updated, err := h.service.Update(r.Context(), wk)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, WorkToDTO(updated))
}

// DeleteWork godoc
// @Summary Delete a work
// @Tags Work
// @Param id path int true "Work ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/works/{id} [delete]
func (h *Handler) DeleteWork(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid work id", err.Error())
		return
	}
	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		rest.WriteError(w, http.StatusNotFound, "Work not found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSpills godoc
// @Summary List spills, optionally of one work
// @Tags Spill
// @Produce json
// @Param work query int false "Work ID"
// @Success 200 {array} SpillDTO
// @Router /api/spills [get]
func (h *Handler) ListSpills(w http.ResponseWriter, r *http.Request) {
	workId, ok := optionalQueryInt(w, r, "work")
	if !ok {
		return
	}
	spills, err := h.service.ListSpills(r.Context(), workId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]SpillDTO, 0, len(spills))
	for _, s := range spills {
		dtos = append(dtos, spillToDTO(s))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// CreateSpill godoc
// @Summary Record a spill (ARA) on a work
// @Description Rejected when RA plus all spills would exceed AA.
// @Tags Spill
// @Accept json
// @Produce json
// @Param spill body SpillWriteDTO true "Spill"
// @Success 201 {object} SpillDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/spills [post]
func (h *Handler) CreateSpill(w http.ResponseWriter, r *http.Request) {
	var dto SpillWriteDTO
	if err := rest.DecodeJSON(r, &dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	created, err := h.service.AddSpill(r.Context(), Spill{WorkId: dto.WorkId, ARA: dto.ARA})
	if err != nil {
		if errors.Is(err, ErrWorkNotFound) {
			rest.WriteError(w, http.StatusBadRequest, "Work not found", "work_id must reference an existing work")
			return
		}
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, spillToDTO(created))
}

// UpdateSpill godoc
// @Summary Update a spill
// @Tags Spill
// @Accept json
// @Produce json
// @Param id path int true "Spill ID"
// @Param spill body SpillWriteDTO true "Spill"
// @Success 200 {object} SpillDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/spills/{id} [put]
func (h *Handler) UpdateSpill(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid spill id", err.Error())
		return
	}
	var dto SpillWriteDTO
	if err := rest.DecodeJSON(r, &dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	updated, err := h.service.UpdateSpill(r.Context(), Spill{Id: id, WorkId: dto.WorkId, ARA: dto.ARA})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, spillToDTO(updated))
}

// DeleteSpill godoc
// @Summary Delete a spill
// @Tags Spill
// @Param id path int true "Spill ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/spills/{id} [delete]
func (h *Handler) DeleteSpill(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "id")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid spill id", err.Error())
		return
	}
	deleted, err := h.service.DeleteSpill(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		rest.WriteError(w, http.StatusNotFound, "Spill not found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
