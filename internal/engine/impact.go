package engine

import (
	"github.com/segyhp/rent-billing/internal/domain"

	"github.com/shopspring/decimal"
)

// ImpactMonth is the penalty charged in one month under both schedules,
// with the balance and rates that produced it.
type ImpactMonth struct {
	RentMonth   domain.RentMonth
	Outstanding Money
	OldRate     decimal.Decimal
	NewRate     decimal.Decimal
	OldPenalty  Money
	NewPenalty  Money
}

func (m ImpactMonth) Difference() Money { return m.NewPenalty - m.OldPenalty }

// Impact compares one tenant's penalties under the current schedule and a
// hypothetical one.
type Impact struct {
	TenantID string
	Months   []ImpactMonth
}

func (i *Impact) Totals() (oldTotal, newTotal Money) {
	for _, m := range i.Months {
		oldTotal += m.OldPenalty
		newTotal += m.NewPenalty
	}
	return oldTotal, newTotal
}

// Affected reports whether either schedule charges any penalty.
func (i *Impact) Affected() bool {
	oldTotal, newTotal := i.Totals()
	return oldTotal != 0 || newTotal != 0
}

// PreviewImpact charges penalty on base twice, once per schedule, and
// reports the months where either run charged something.
func PreviewImpact(base *Ledger, current, hypothetical RateSchedule, opts PenaltyOptions) *Impact {
	before := ApplyPenalty(base, current, opts)
	after := ApplyPenalty(base, hypothetical, opts)

	impact := &Impact{TenantID: base.TenantID}
	for i := range before.Months {
		o, n := before.Months[i], after.Months[i]
		if o.PenaltyCharged == 0 && n.PenaltyCharged == 0 {
			continue
		}
		outstanding := o.OutstandingPending
		if outstanding == 0 {
			outstanding = n.OutstandingPending
		}
		impact.Months = append(impact.Months, ImpactMonth{
			RentMonth:   o.RentMonth,
			Outstanding: outstanding,
			OldRate:     o.PenaltyRate,
			NewRate:     n.PenaltyRate,
			OldPenalty:  o.PenaltyCharged,
			NewPenalty:  n.PenaltyCharged,
		})
	}
	return impact
}

// Preview converts the impact to its wire representation.
func (i *Impact) Preview(tenantName string) domain.TenantImpactPreview {
	oldTotal, newTotal := i.Totals()
	out := domain.TenantImpactPreview{
		TenantID:        i.TenantID,
		TenantName:      tenantName,
		Months:          make([]domain.PenaltyImpactMonth, 0, len(i.Months)),
		TotalOldPenalty: oldTotal.Decimal(),
		TotalNewPenalty: newTotal.Decimal(),
		TotalDifference: (newTotal - oldTotal).Decimal(),
	}
	for _, m := range i.Months {
		out.Months = append(out.Months, domain.PenaltyImpactMonth{
			RentMonth:  m.RentMonth,
			OldPenalty: m.OldPenalty.Decimal(),
			NewPenalty: m.NewPenalty.Decimal(),
			Difference: m.Difference().Decimal(),
		})
	}
	return out
}

// LargestChange returns the month whose penalty moves the most, or nil.
func (i *Impact) LargestChange() *ImpactMonth {
	var best *ImpactMonth
	for idx := range i.Months {
		m := &i.Months[idx]
		if best == nil || abs(m.Difference()) > abs(best.Difference()) {
			best = m
		}
	}
	return best
}

// Example converts one month of the impact to the illustrative example.
func (m ImpactMonth) Example(tenantID, tenantName string) *domain.PenaltyImpactExample {
	return &domain.PenaltyImpactExample{
		TenantID:          tenantID,
		TenantName:        tenantName,
		RentMonth:         m.RentMonth,
		OutstandingAmount: m.Outstanding.Decimal(),
		OldRate:           m.OldRate,
		NewRate:           m.NewRate,
		OldPenalty:        m.OldPenalty.Decimal(),
		NewPenalty:        m.NewPenalty.Decimal(),
		Difference:        m.Difference().Decimal(),
	}
}

func abs(m Money) Money {
	if m < 0 {
		return -m
	}
	return m
}
