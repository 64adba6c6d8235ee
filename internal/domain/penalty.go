package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PenaltyInterestMaster is the currently effective penalty rate (percent per month).
type PenaltyInterestMaster struct {
	ID            int             `json:"ID" db:"id"`
	InterestRate  decimal.Decimal `json:"INTEREST_RATE" db:"interest_rate"`
	EffectiveFrom time.Time       `json:"EFFECTIVE_FROM" db:"effective_from"`
	CreatedAt     time.Time       `json:"CREATED_AT" db:"created_at"`
	UpdatedAt     time.Time       `json:"UPDATED_AT" db:"updated_at"`
}

// PenaltyInterestHistory is one row of the append-only rate log.
type PenaltyInterestHistory struct {
	ID            uuid.UUID       `json:"ID" db:"id"`
	InterestRate  decimal.Decimal `json:"INTEREST_RATE" db:"interest_rate"`
	EffectiveFrom time.Time       `json:"EFFECTIVE_FROM" db:"effective_from"`
	CreatedAt     time.Time       `json:"CREATED_AT" db:"created_at"`
}

// PenaltyImpactMonth compares the penalty charged in one month under two rates.
type PenaltyImpactMonth struct {
	RentMonth  RentMonth       `json:"rentMonth"`
	OldPenalty decimal.Decimal `json:"oldPenalty"`
	NewPenalty decimal.Decimal `json:"newPenalty"`
	Difference decimal.Decimal `json:"difference"`
}

// TenantImpactPreview reports how a rate change would move a tenant's penalties.
type TenantImpactPreview struct {
	TenantID        string               `json:"tenantId"`
	TenantName      string               `json:"tenantName"`
	Months          []PenaltyImpactMonth `json:"months"`
	TotalOldPenalty decimal.Decimal      `json:"totalOldPenalty"`
	TotalNewPenalty decimal.Decimal      `json:"totalNewPenalty"`
	TotalDifference decimal.Decimal      `json:"totalDifference"`
}

// PenaltyImpactExample is one illustrative month from the impact preview.
type PenaltyImpactExample struct {
	TenantID          string          `json:"tenantId"`
	TenantName        string          `json:"tenantName"`
	RentMonth         RentMonth       `json:"rentMonth"`
	OutstandingAmount decimal.Decimal `json:"outstandingAmount"`
	OldRate           decimal.Decimal `json:"oldRate"`
	NewRate           decimal.Decimal `json:"newRate"`
	OldPenalty        decimal.Decimal `json:"oldPenalty"`
	NewPenalty        decimal.Decimal `json:"newPenalty"`
	Difference        decimal.Decimal `json:"difference"`
}

type UpdatePenaltyRateRequest struct {
	NewRate       decimal.Decimal `json:"newRate"`
	EffectiveFrom string          `json:"effectiveFrom" validate:"required,datetime=2006-01-02"`
}
