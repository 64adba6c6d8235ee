package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"
	customError "github.com/segyhp/rent-billing/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingService is what the tenant, payment and property endpoints need.
type BillingService interface {
	GetLedger(ctx context.Context, tenantID string, asOf time.Time) (*domain.LedgerResponse, error)
	ListPayments(ctx context.Context, tenantID string) ([]domain.PaymentEntry, error)
	PreviewPayment(ctx context.Context, tenantID string, request *domain.MakePaymentRequest) (*domain.PaymentAllocation, error)
	RecordPayment(ctx context.Context, tenantID string, request *domain.MakePaymentRequest) (*domain.PaymentEntry, error)
	CreateTenant(ctx context.Context, request *domain.CreateTenantRequest) (*domain.TenantResponse, error)
	GetTenant(ctx context.Context, tenantID string) (*domain.TenantResponse, error)
	UpdateRentFactors(ctx context.Context, tenantID string, request *domain.RentFactorsRequest) (*domain.RentFactors, error)
	DeactivateTenant(ctx context.Context, tenantID string) error
	CreateProperty(ctx context.Context, request *domain.CreatePropertyRequest) (*domain.Property, error)
	GetProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	ListProperties(ctx context.Context) ([]domain.Property, error)
}

// PenaltyService backs the /settings/penalty-* endpoints.
type PenaltyService interface {
	GetCurrentRate(ctx context.Context) (*domain.PenaltyInterestMaster, error)
	GetHistory(ctx context.Context) ([]domain.PenaltyInterestHistory, error)
	UpdateRate(ctx context.Context, request *domain.UpdatePenaltyRateRequest) (*domain.PenaltyInterestHistory, error)
	GetImpact(ctx context.Context, newRate decimal.Decimal, effectiveFrom *time.Time) ([]domain.TenantImpactPreview, error)
	GetImpactExample(ctx context.Context, newRate decimal.Decimal) (*domain.PenaltyImpactExample, error)
}

// decode reads a JSON body into dst and runs struct validation on it.
func decode(r *http.Request, v *validator.Validate, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return customError.WrapValidation(err)
	}
	if err := v.Struct(dst); err != nil {
		return customError.WrapValidation(err)
	}
	return nil
}
