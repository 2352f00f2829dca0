package status

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/rest"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// Get godoc
// @Summary Workflow progress dashboard
// @Description Counts GRs, active works, technical sanctions, tenders and bills by stage. Cancelled works are excluded.
// @Tags Status
// @Produce json
// @Param gr query int false "GR ID"
// @Param work query int false "Work ID"
// @Param page query string false "Only one section: works or ts"
// @Success 200 {object} Dashboard
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/status [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log.Debug("Computing status dashboard")
	filter := Filter{Page: Page(r.URL.Query().Get("page"))}

	grId, ok, err := rest.QueryInt(r, "gr")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid GR ID. Must be an integer.", "")
		return
	}
	if ok {
		filter.GrId = &grId
	}
	workId, ok, err := rest.QueryInt(r, "work")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid Work ID. Must be an integer.", "")
		return
	}
	if ok {
		filter.WorkId = &workId
	}

	dashboard, err := h.service.Dashboard(r.Context(), filter)
	switch {
	case err == nil:
		rest.WriteJSON(w, http.StatusOK, dashboard)
	case errors.Is(err, ErrWorkNotFound):
		rest.WriteError(w, http.StatusNotFound, "Work not found", err.Error())
	case errors.Is(err, ErrWorkNotInGR), errors.Is(err, ErrUnknownPage):
		rest.WriteError(w, http.StatusBadRequest, "Invalid filter", err.Error())
	default:
		rest.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}
