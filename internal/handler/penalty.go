package handler

import (
	"net/http"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"
	customError "github.com/segyhp/rent-billing/pkg/errors"
	"github.com/segyhp/rent-billing/pkg/response"
	"github.com/segyhp/rent-billing/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type PenaltyHandler struct {
	service   PenaltyService
	validator *validator.Validate
}

func NewPenaltyHandler(service PenaltyService) *PenaltyHandler {
	return &PenaltyHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Current handles GET /settings/penalty-current
func (h *PenaltyHandler) Current(w http.ResponseWriter, r *http.Request) {
	current, err := h.service.GetCurrentRate(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, current)
}

// History handles GET /settings/penalty-history
func (h *PenaltyHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.GetHistory(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, history)
}

// Impact handles GET /settings/penalty-impact?newRate=&effectiveFrom=
func (h *PenaltyHandler) Impact(w http.ResponseWriter, r *http.Request) {
	rate, err := newRateParam(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	var effectiveFrom *time.Time
	if s := r.URL.Query().Get("effectiveFrom"); s != "" {
		from, err := domain.ParseDate(s)
		if err != nil {
			response.FromError(w, customError.WrapInvalidEffectiveDate(err.Error()))
			return
		}
		effectiveFrom = &from
	}

	previews, err := h.service.GetImpact(r.Context(), rate, effectiveFrom)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, previews)
}

// ImpactExample handles GET /settings/penalty-impact-example?newRate=
func (h *PenaltyHandler) ImpactExample(w http.ResponseWriter, r *http.Request) {
	rate, err := newRateParam(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	example, err := h.service.GetImpactExample(r.Context(), rate)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, example)
}

// Update handles PUT /settings/penalty-update
func (h *PenaltyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var request domain.UpdatePenaltyRateRequest
	if err := decode(r, h.validator, &request); err != nil {
		response.FromError(w, err)
		return
	}

	if _, err := h.service.UpdateRate(r.Context(), &request); err != nil {
		response.FromError(w, err)
		return
	}
	response.Message(w, "Penalty rate updated", nil)
}

func newRateParam(r *http.Request) (decimal.Decimal, error) {
	s := r.URL.Query().Get("newRate")
	if s == "" {
		return decimal.Zero, customError.WrapInvalidRate("(missing)")
	}
	rate, err := utils.ParseRate(s)
	if err != nil {
		return decimal.Zero, customError.WrapInvalidRate(s)
	}
	return rate, nil
}
