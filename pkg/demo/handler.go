package demo

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/rest"
)

type SummaryDTO struct {
	ClearedRows        int `json:"clearedRows"`
	GRs                int `json:"grs"`
	Works              int `json:"works"`
	Spills             int `json:"spills"`
	TechnicalSanctions int `json:"technicalSanctions"`
	Tenders            int `json:"tenders"`
	Bills              int `json:"bills"`
}

type Handler struct {
	seeder *Seeder
}

func NewHandler(seeder *Seeder) *Handler {
	return &Handler{seeder}
}

// Reset godoc
// @Summary Rebuild the demo data set
// @Tags Demo
// @Produce json
// @Success 200 {object} SummaryDTO
// @Router /api/demo/reset [post]
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	log.Info("Resetting demo data")
	summary, err := h.seeder.Seed(r.Context())
	if err != nil {
		log.Errorf("demo reset failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Demo reset failed", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, SummaryDTO{
		ClearedRows:        summary.Cleared.Total(),
		GRs:                summary.GRs,
		Works:              summary.Works,
		Spills:             summary.Spills,
		TechnicalSanctions: summary.TechnicalSanctions,
		Tenders:            summary.Tenders,
		Bills:              summary.Bills,
	})
}
