package handler

import (
	"net/http"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"
	customError "github.com/segyhp/rent-billing/pkg/errors"
	"github.com/segyhp/rent-billing/pkg/response"
	"github.com/segyhp/rent-billing/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BillingHandler struct {
	service   BillingService
	validator *validator.Validate
	now       func() time.Time
}

func NewBillingHandler(service BillingService) *BillingHandler {
	return &BillingHandler{
		service:   service,
		validator: validator.New(),
		now:       time.Now,
	}
}

// GetLedger handles GET /tenants/{tenantId}/ledger
func (h *BillingHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	tenantID := mux.Vars(r)["tenantId"]

	asOf, err := utils.ParseAsOf(r.URL.Query().Get("asOf"), h.now())
	if err != nil {
		response.FromError(w, customError.WrapValidation(err))
		return
	}

	ledger, err := h.service.GetLedger(r.Context(), tenantID, asOf)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, ledger)
}

// ListPayments handles GET /tenants/{tenantId}/payments
func (h *BillingHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListPayments(r.Context(), mux.Vars(r)["tenantId"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, payments)
}

// MakePayment handles POST /tenants/{tenantId}/payments
func (h *BillingHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	var request domain.MakePaymentRequest
	if err := decode(r, h.validator, &request); err != nil {
		response.FromError(w, err)
		return
	}

	entry, err := h.service.RecordPayment(r.Context(), mux.Vars(r)["tenantId"], &request)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, entry)
}

// PreviewPayment handles POST /tenants/{tenantId}/payments/preview
func (h *BillingHandler) PreviewPayment(w http.ResponseWriter, r *http.Request) {
	var request domain.MakePaymentRequest
	if err := decode(r, h.validator, &request); err != nil {
		response.FromError(w, err)
		return
	}

	allocation, err := h.service.PreviewPayment(r.Context(), mux.Vars(r)["tenantId"], &request)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, allocation)
}

// CreateTenant handles POST /tenants
func (h *BillingHandler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateTenantRequest
	if err := decode(r, h.validator, &request); err != nil {
		response.FromError(w, err)
		return
	}

	tenant, err := h.service.CreateTenant(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, tenant)
}

// GetTenant handles GET /tenants/{tenantId}
func (h *BillingHandler) GetTenant(w http.ResponseWriter, r *http.Request) {
	tenant, err := h.service.GetTenant(r.Context(), mux.Vars(r)["tenantId"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, tenant)
}

// DeactivateTenant handles DELETE /tenants/{tenantId}
func (h *BillingHandler) DeactivateTenant(w http.ResponseWriter, r *http.Request) {
	tenantID := mux.Vars(r)["tenantId"]
	if err := h.service.DeactivateTenant(r.Context(), tenantID); err != nil {
		response.FromError(w, err)
		return
	}
	response.Message(w, "Tenant deactivated", map[string]string{"tenantId": tenantID})
}

// UpdateRentFactors handles PUT /tenants/{tenantId}/rent-factors
func (h *BillingHandler) UpdateRentFactors(w http.ResponseWriter, r *http.Request) {
	var request domain.RentFactorsRequest
	if err := decode(r, h.validator, &request); err != nil {
		response.FromError(w, err)
		return
	}

	factors, err := h.service.UpdateRentFactors(r.Context(), mux.Vars(r)["tenantId"], &request)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, factors)
}

// CreateProperty handles POST /properties
func (h *BillingHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var request domain.CreatePropertyRequest
	if err := decode(r, h.validator, &request); err != nil {
		response.FromError(w, err)
		return
	}

	property, err := h.service.CreateProperty(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, property)
}

// GetProperty handles GET /properties/{propertyId}
func (h *BillingHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["propertyId"]
	id, err := uuid.Parse(raw)
	if err != nil {
		response.FromError(w, customError.WrapPropertyNotFound(raw))
		return
	}

	property, err := h.service.GetProperty(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, property)
}

// ListProperties handles GET /properties
func (h *BillingHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.service.ListProperties(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, properties)
}
