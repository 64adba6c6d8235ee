package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	BillingCycleMonthly = "monthly"
)

// Property is a billed premises owning zero or more tenants
type Property struct {
	ID              uuid.UUID `json:"PROPERTY_ID" db:"id"`
	BillingName     string    `json:"BILLING_NAME" db:"billing_name"`
	LandlordName    string    `json:"LANDLORD_NAME" db:"landlord_name"`
	LandlordContact string    `json:"LANDLORD_CONTACT" db:"landlord_contact"`
	Address         string    `json:"ADDRESS" db:"address"`
	BillingCycle    string    `json:"BILLING_CYCLE" db:"billing_cycle"`
	IsActive        bool      `json:"IS_ACTIVE" db:"is_active"`
	CreatedAt       time.Time `json:"CREATED_AT" db:"created_at"`
	UpdatedAt       time.Time `json:"UPDATED_AT" db:"updated_at"`
}

// Tenant is an occupant billed monthly rent
type Tenant struct {
	TenantID      string     `json:"TENANT_ID" db:"tenant_id"`
	Name          string     `json:"TENANT_NAME" db:"name"`
	PropertyID    *uuid.UUID `json:"PROPERTY_ID" db:"property_id"`
	LeaseStart    *time.Time `json:"LEASE_START,omitempty" db:"lease_start"`
	IsActive      bool       `json:"IS_ACTIVE" db:"is_active"`
	DeactivatedAt *time.Time `json:"DEACTIVATED_AT,omitempty" db:"deactivated_at"`
	CreatedAt     time.Time  `json:"CREATED_AT" db:"created_at"`
	UpdatedAt     time.Time  `json:"UPDATED_AT" db:"updated_at"`
}

// RentFactors is one snapshot of a tenant's monthly obligation. A snapshot
// applies from EffectiveFrom until a later snapshot supersedes it.
type RentFactors struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	TenantID      string          `json:"TENANT_ID" db:"tenant_id"`
	BasicRent     decimal.Decimal `json:"BASIC_RENT" db:"basic_rent"`
	PropertyTax   decimal.Decimal `json:"PROPERTY_TAX" db:"property_tax"`
	RepairCess    decimal.Decimal `json:"REPAIR_CESS" db:"repair_cess"`
	Misc          decimal.Decimal `json:"MISC" db:"misc"`
	EffectiveFrom RentMonth       `json:"EFFECTIVE_FROM" db:"effective_from"`
	CreatedAt     time.Time       `json:"CREATED_AT" db:"created_at"`
}

// TotalRent is the sum of all rent components.
func (f RentFactors) TotalRent() decimal.Decimal {
	return f.BasicRent.Add(f.PropertyTax).Add(f.RepairCess).Add(f.Misc)
}

// DTOs for requests and responses

type CreatePropertyRequest struct {
	BillingName     string `json:"billingName" validate:"required"`
	LandlordName    string `json:"landlordName" validate:"required"`
	LandlordContact string `json:"landlordContact"`
	Address         string `json:"address" validate:"required"`
	BillingCycle    string `json:"billingCycle" validate:"omitempty,oneof=monthly"`
}

type CreateTenantRequest struct {
	TenantID    string              `json:"tenantId" validate:"required,max=64"`
	Name        string              `json:"name" validate:"required"`
	PropertyID  *uuid.UUID          `json:"propertyId"`
	LeaseStart  string              `json:"leaseStart" validate:"omitempty,datetime=2006-01-02"`
	RentFactors *RentFactorsRequest `json:"rentFactors" validate:"omitempty"`
}

type RentFactorsRequest struct {
	BasicRent     decimal.Decimal `json:"BASIC_RENT"`
	PropertyTax   decimal.Decimal `json:"PROPERTY_TAX"`
	RepairCess    decimal.Decimal `json:"REPAIR_CESS"`
	Misc          decimal.Decimal `json:"MISC"`
	EffectiveFrom string          `json:"effectiveFrom" validate:"required"`
}

type TenantResponse struct {
	Tenant      *Tenant          `json:"tenant"`
	RentFactors *RentFactors     `json:"rentFactors,omitempty"`
	TotalRent   *decimal.Decimal `json:"totalRent,omitempty"`
}
