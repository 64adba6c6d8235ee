package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"

	"github.com/shopspring/decimal"
)

// PenaltyMode selects what unpaid balance bears penalty.
type PenaltyMode string

const (
	// PenaltyCompound charges penalty on unpaid rent and on unpaid penalty of earlier months.
	PenaltyCompound PenaltyMode = "compound"
	// PenaltySimple charges penalty on unpaid rent only.
	PenaltySimple PenaltyMode = "simple"
)

func ParsePenaltyMode(s string) (PenaltyMode, error) {
	switch PenaltyMode(strings.ToLower(strings.TrimSpace(s))) {
	case PenaltyCompound, "":
		return PenaltyCompound, nil
	case PenaltySimple:
		return PenaltySimple, nil
	default:
		return "", fmt.Errorf("unknown penalty mode %q", s)
	}
}

// PenaltyOptions configures penalty accrual.
type PenaltyOptions struct {
	GracePeriodDays int
	Mode            PenaltyMode
}

// TriggerDate is the date after which a month's unpaid rent accrues penalty.
func TriggerDate(month domain.RentMonth, graceDays int) time.Time {
	return month.End().AddDate(0, 0, graceDays)
}

// ApplyPenalty returns a copy of the ledger with penalty charged.
//
// Each month after the first is charged once, on the trigger date of the
// previous calendar month, provided asOf is past it. The charge is the
// balance carried into the month as it stood on that date times the rate
// effective on that date, so a rate change never reprices earlier charges.
func ApplyPenalty(ledger *Ledger, schedule RateSchedule, opts PenaltyOptions) *Ledger {
	if opts.Mode == "" {
		opts.Mode = PenaltyCompound
	}

	l := ledger.clone()
	l.penaltyApplied = true
	l.mode = opts.Mode

	for i := range l.Months {
		m := &l.Months[i]
		m.PenaltyCharged = 0
		m.PenaltyRate = decimal.Zero
		m.PenaltyTriggerDate = TriggerDate(m.RentMonth, opts.GracePeriodDays)
		m.PenaltyShouldApply = l.AsOf.After(m.PenaltyTriggerDate)

		if i == 0 {
			continue
		}

		chargeDate := TriggerDate(m.RentMonth.Prev(), opts.GracePeriodDays)
		if !l.AsOf.After(chargeDate) {
			continue
		}

		base := l.balanceAt(i, chargeDate)
		if base <= 0 {
			continue
		}

		rate := schedule.RateAt(chargeDate)
		m.PenaltyRate = rate
		m.PenaltyCharged = base.Percent(rate)
	}

	l.rollOutstanding()
	return l
}

// balanceAt is the penalty-bearing balance carried into Months[idx],
// counting only payments dated on or before at.
func (l *Ledger) balanceAt(idx int, at time.Time) Money {
	var balance Money
	for _, m := range l.Months[:idx] {
		balance += m.TotalRent -
			l.collectedUntil(m.RentMonth, domain.BucketRent, at) -
			l.collectedUntil(m.RentMonth, domain.BucketOutstanding, at)
		if l.mode == PenaltyCompound {
			balance += m.PenaltyCharged - l.collectedUntil(m.RentMonth, domain.BucketPenalty, at)
		}
	}
	return balance
}

// Compute builds the ledger and charges penalty in one step.
func Compute(tenant domain.Tenant, factors []domain.RentFactors, payments []domain.PaymentEntry, asOf time.Time, schedule RateSchedule, opts PenaltyOptions) (*Ledger, error) {
	base, err := BuildLedger(tenant, factors, payments, asOf)
	if err != nil {
		return nil, err
	}
	return ApplyPenalty(base, schedule, opts), nil
}
