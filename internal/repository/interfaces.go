package repository

import (
	"context"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TenantRepository defines the interface for tenant and rent factor data operations
type TenantRepository interface {
	// GetTenant retrieves a tenant by its tenant ID
	GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error)

	// GetRentFactors retrieves the latest rent factor snapshot of a tenant
	GetRentFactors(ctx context.Context, tenantID string) (*domain.RentFactors, error)

	// ListRentFactors retrieves every rent factor snapshot, oldest first
	ListRentFactors(ctx context.Context, tenantID string) ([]domain.RentFactors, error)

	// ListActiveTenants retrieves tenants that are still billed
	ListActiveTenants(ctx context.Context) ([]domain.Tenant, error)

	// CreateTenant creates a tenant with an optional first rent factor snapshot
	CreateTenant(ctx context.Context, tenant *domain.Tenant, factors *domain.RentFactors) error

	// AddRentFactors appends a rent factor snapshot
	AddRentFactors(ctx context.Context, factors *domain.RentFactors) error

	// Deactivate marks a tenant inactive without deleting its history
	Deactivate(ctx context.Context, tenantID string, at time.Time) error
}

// PropertyRepository defines the interface for property data operations
type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	List(ctx context.Context) ([]domain.Property, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// ListPayments retrieves every payment of a tenant with its allocation
	// lines, ordered by payment date
	ListPayments(ctx context.Context, tenantID string) ([]domain.PaymentEntry, error)

	// InsertPayment stores a payment and its allocation lines atomically
	InsertPayment(ctx context.Context, payment *domain.PaymentEntry) error
}

// PenaltyRateRepository defines the interface for penalty rate data operations
type PenaltyRateRepository interface {
	// GetCurrentRate retrieves the master rate row, nil when none is set
	GetCurrentRate(ctx context.Context) (*domain.PenaltyInterestMaster, error)

	// GetHistory retrieves the rate log ordered by effective date
	GetHistory(ctx context.Context) ([]domain.PenaltyInterestHistory, error)

	// CommitRateChange appends a history row and moves the master row in one
	// transaction
	CommitRateChange(ctx context.Context, rate decimal.Decimal, effectiveFrom time.Time) (*domain.PenaltyInterestHistory, error)
}
