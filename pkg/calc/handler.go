package calc

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/worksledger/worksledger/internal/rest"
)

// BillRequest asks for one bill recalculation. Inputs left out of the body
// keep their statutory defaults.
type BillRequest struct {
	Inputs    BillInputs    `json:"inputs"`
	Overrides BillOverrides `json:"overrides"`
	Previous  BillDerived   `json:"previous"`
}

type TSRequest struct {
	Inputs    TSInputs    `json:"inputs"`
	Overrides TSOverrides `json:"overrides"`
	Previous  TSDerived   `json:"previous"`
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Bill godoc
// @Summary Recalculate bill amounts
// @Description Stateless: overridden amounts pass through, the rest follow their formulas.
// @Tags Calculate
// @Accept json
// @Produce json
// @Param request body BillRequest true "Inputs, override flags and previous amounts"
// @Success 200 {object} BillDerived
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/calculate/bill [post]
func (h *Handler) Bill(w http.ResponseWriter, r *http.Request) {
	req := BillRequest{Inputs: DefaultBillInputs()}
	if err := rest.DecodeJSON(r, &req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := req.Inputs.Validate(); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid inputs", err.Error())
		return
	}
	log.Debugf("Calculating bill for work portion %s", req.Inputs.WorkPortion)
	rest.WriteJSON(w, http.StatusOK, RecalculateBill(req.Inputs, req.Overrides, req.Previous))
}

// TechnicalSanction godoc
// @Summary Recalculate technical sanction amounts
// @Tags Calculate
// @Accept json
// @Produce json
// @Param request body TSRequest true "Inputs, override flags and previous amounts"
// @Success 200 {object} TSDerived
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/calculate/technical-sanction [post]
func (h *Handler) TechnicalSanction(w http.ResponseWriter, r *http.Request) {
	req := TSRequest{Inputs: DefaultTSInputs()}
	if err := rest.DecodeJSON(r, &req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := req.Inputs.Validate(); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid inputs", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, RecalculateTechnicalSanction(req.Inputs, req.Overrides, req.Previous))
}
