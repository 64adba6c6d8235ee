package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthLedgerEntry is the derived obligation view of one calendar month.
// It is recomputed on every read and never stored.
type MonthLedgerEntry struct {
	RentMonth            RentMonth       `json:"RENT_MONTH"`
	TotalRent            decimal.Decimal `json:"TOTAL_RENT"`
	RentPending          decimal.Decimal `json:"RENT_PENDING"`
	PenaltyPending       decimal.Decimal `json:"PENALTY_PENDING"`
	OutstandingPending   decimal.Decimal `json:"OUTSTANDING_PENDING"`
	RentCollected        decimal.Decimal `json:"RENT_COLLECTED"`
	PenaltyPaid          decimal.Decimal `json:"PENALTY_PAID"`
	OutstandingCollected decimal.Decimal `json:"OUTSTANDING_COLLECTED"`
	PenaltyCharged       decimal.Decimal `json:"PENALTY_CHARGED"`
	PenaltyRate          decimal.Decimal `json:"PENALTY_RATE"`
	IsPaid               bool            `json:"isPaid"`
	PenaltyTriggerDate   time.Time       `json:"penaltyTriggerDate"`
	PenaltyShouldApply   bool            `json:"penaltyShouldApply"`
}

// LedgerResponse is the tenant ledger as served over HTTP.
type LedgerResponse struct {
	TenantID       string             `json:"tenantId"`
	AsOf           time.Time          `json:"asOf"`
	Entries        []MonthLedgerEntry `json:"entries"`
	TotalDue       decimal.Decimal    `json:"totalDue"`
	PenaltyDue     decimal.Decimal    `json:"penaltyDue"`
	OutstandingDue decimal.Decimal    `json:"outstandingDue"`
	CurrentRentDue decimal.Decimal    `json:"currentRentDue"`
}

// OverdueTenant summarises one tenant with unpaid past rent or penalty.
type OverdueTenant struct {
	TenantID       string          `json:"tenantId"`
	TenantName     string          `json:"tenantName"`
	OutstandingDue decimal.Decimal `json:"outstandingDue"`
	PenaltyDue     decimal.Decimal `json:"penaltyDue"`
	TotalDue       decimal.Decimal `json:"totalDue"`
	DaysOverdue    int             `json:"daysOverdue"`
}
