package engine

import (
	"sort"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"
	customError "github.com/segyhp/rent-billing/pkg/errors"

	"github.com/shopspring/decimal"
)

// MonthEntry is the engine-side ledger row for one rent month.
type MonthEntry struct {
	RentMonth            domain.RentMonth
	TotalRent            Money
	RentCollected        Money
	PenaltyPaid          Money
	OutstandingCollected Money
	PenaltyCharged       Money
	PenaltyRate          decimal.Decimal
	OutstandingPending   Money
	PenaltyTriggerDate   time.Time
	PenaltyShouldApply   bool
}

// RentPending is this month's rent not collected as rent.
func (m MonthEntry) RentPending() Money { return m.TotalRent - m.RentCollected }

// PenaltyPending is the penalty charged in this month and not yet paid.
func (m MonthEntry) PenaltyPending() Money { return m.PenaltyCharged - m.PenaltyPaid }

// PrincipalPending is this month's rent still unpaid through any bucket.
func (m MonthEntry) PrincipalPending() Money { return m.RentPending() - m.OutstandingCollected }

func (m MonthEntry) IsPaid() bool {
	return m.PrincipalPending() <= 0 && m.PenaltyPending() <= 0
}

type line struct {
	month  domain.RentMonth
	bucket domain.Bucket
	amount Money
}

type payment struct {
	date  time.Time
	lines []line
}

type factorSnapshot struct {
	from  domain.RentMonth
	total Money
}

// Ledger is the month-by-month obligation view of one tenant.
type Ledger struct {
	TenantID string
	AsOf     time.Time
	Months   []MonthEntry

	start          domain.RentMonth
	penaltyApplied bool
	mode           PenaltyMode
	factors        []factorSnapshot
	payments       []payment
}

// BuildLedger derives the rent ledger of a tenant from its rent factor
// snapshots and payment history as of asOf. It does not charge penalties;
// see ApplyPenalty.
func BuildLedger(tenant domain.Tenant, factors []domain.RentFactors, payments []domain.PaymentEntry, asOf time.Time) (*Ledger, error) {
	if len(factors) == 0 {
		return nil, &customError.ConfigurationError{
			TenantID: tenant.TenantID,
			Reason:   "no rent factors configured",
		}
	}
	asOf = domain.Date(asOf)

	l := &Ledger{
		TenantID: tenant.TenantID,
		AsOf:     asOf,
		factors:  snapshotFactors(factors),
		payments: replayablePayments(payments, asOf),
	}

	first, ok := l.firstMonth(tenant)
	if !ok {
		return l, nil
	}
	last := domain.MonthOf(asOf)
	lineTotals := make(map[domain.RentMonth]map[domain.Bucket]Money)
	for _, p := range l.payments {
		for _, ln := range p.lines {
			if ln.month.Before(first) {
				first = ln.month
			}
			if ln.month.After(last) {
				last = ln.month
			}
			if lineTotals[ln.month] == nil {
				lineTotals[ln.month] = make(map[domain.Bucket]Money)
			}
			lineTotals[ln.month][ln.bucket] += ln.amount
		}
	}

	l.start = first
	for month := first; !month.After(last); month = month.Next() {
		total := l.rentFor(month)
		totals, hasLines := lineTotals[month]
		if total == 0 && !hasLines {
			continue
		}
		l.Months = append(l.Months, MonthEntry{
			RentMonth:            month,
			TotalRent:            total,
			RentCollected:        totals[domain.BucketRent],
			PenaltyPaid:          totals[domain.BucketPenalty],
			OutstandingCollected: totals[domain.BucketOutstanding],
		})
	}

	l.rollOutstanding()
	return l, nil
}

// firstMonth picks the lease start, else the earliest allocation, else the
// earliest rent factor snapshot.
func (l *Ledger) firstMonth(tenant domain.Tenant) (domain.RentMonth, bool) {
	if tenant.LeaseStart != nil && !tenant.LeaseStart.IsZero() {
		return domain.MonthOf(*tenant.LeaseStart), true
	}
	var first domain.RentMonth
	for _, p := range l.payments {
		for _, ln := range p.lines {
			if first.IsZero() || ln.month.Before(first) {
				first = ln.month
			}
		}
	}
	if !first.IsZero() {
		return first, true
	}
	if len(l.factors) > 0 {
		return l.factors[0].from, true
	}
	return domain.RentMonth{}, false
}

// rentFor returns the total rent of month under the latest snapshot
// effective on or before it. Snapshots never apply backwards.
func (l *Ledger) rentFor(month domain.RentMonth) Money {
	var total Money
	for _, f := range l.factors {
		if f.from.After(month) {
			break
		}
		total = f.total
	}
	return total
}

// rollOutstanding sets OutstandingPending of each month to the unpaid
// balance of all earlier months.
func (l *Ledger) rollOutstanding() {
	var carried Money
	for i := range l.Months {
		l.Months[i].OutstandingPending = positive(carried)
		carried += l.Months[i].PrincipalPending()
		if l.penaltyApplied && l.mode == PenaltyCompound {
			carried += l.Months[i].PenaltyPending()
		}
	}
}

// Month returns the entry for month, or nil when the ledger has none.
func (l *Ledger) Month(month domain.RentMonth) *MonthEntry {
	for i := range l.Months {
		if l.Months[i].RentMonth == month {
			return &l.Months[i]
		}
	}
	return nil
}

// Dues is what a tenant owes as of the ledger date.
type Dues struct {
	Penalty     Money
	Outstanding Money
	CurrentRent Money
}

func (d Dues) Total() Money { return d.Penalty + d.Outstanding + d.CurrentRent }

// Dues sums the open items: penalties up to the current month, unpaid
// principal of past months and the current month's rent.
func (l *Ledger) Dues() Dues {
	current := domain.MonthOf(l.AsOf)
	var d Dues
	for _, m := range l.Months {
		if m.RentMonth.After(current) {
			break
		}
		d.Penalty += positive(m.PenaltyPending())
		if m.RentMonth.Before(current) {
			d.Outstanding += positive(m.PrincipalPending())
		} else {
			d.CurrentRent += positive(m.RentPending())
		}
	}
	return d
}

// Entries converts the ledger to its wire representation.
func (l *Ledger) Entries() []domain.MonthLedgerEntry {
	out := make([]domain.MonthLedgerEntry, 0, len(l.Months))
	for _, m := range l.Months {
		out = append(out, domain.MonthLedgerEntry{
			RentMonth:            m.RentMonth,
			TotalRent:            m.TotalRent.Decimal(),
			RentPending:          m.RentPending().Decimal(),
			PenaltyPending:       m.PenaltyPending().Decimal(),
			OutstandingPending:   m.OutstandingPending.Decimal(),
			RentCollected:        m.RentCollected.Decimal(),
			PenaltyPaid:          m.PenaltyPaid.Decimal(),
			OutstandingCollected: m.OutstandingCollected.Decimal(),
			PenaltyCharged:       m.PenaltyCharged.Decimal(),
			PenaltyRate:          m.PenaltyRate,
			IsPaid:               m.IsPaid(),
			PenaltyTriggerDate:   m.PenaltyTriggerDate,
			PenaltyShouldApply:   m.PenaltyShouldApply,
		})
	}
	return out
}

// Response builds the HTTP view of the ledger.
func (l *Ledger) Response() *domain.LedgerResponse {
	dues := l.Dues()
	return &domain.LedgerResponse{
		TenantID:       l.TenantID,
		AsOf:           l.AsOf,
		Entries:        l.Entries(),
		TotalDue:       dues.Total().Decimal(),
		PenaltyDue:     dues.Penalty.Decimal(),
		OutstandingDue: dues.Outstanding.Decimal(),
		CurrentRentDue: dues.CurrentRent.Decimal(),
	}
}

func (l *Ledger) clone() *Ledger {
	c := *l
	c.Months = make([]MonthEntry, len(l.Months))
	copy(c.Months, l.Months)
	return &c
}

// collectedUntil sums the lines for month and bucket of payments dated on
// or before until.
func (l *Ledger) collectedUntil(month domain.RentMonth, bucket domain.Bucket, until time.Time) Money {
	var sum Money
	for _, p := range l.payments {
		if p.date.After(until) {
			break
		}
		for _, ln := range p.lines {
			if ln.month == month && ln.bucket == bucket {
				sum += ln.amount
			}
		}
	}
	return sum
}

func snapshotFactors(factors []domain.RentFactors) []factorSnapshot {
	out := make([]factorSnapshot, 0, len(factors))
	for _, f := range factors {
		out = append(out, factorSnapshot{from: f.EffectiveFrom, total: RoundMoney(f.TotalRent())})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].from.Before(out[j].from) })
	return out
}

// replayablePayments keeps payments dated on or before asOf, oldest first.
func replayablePayments(entries []domain.PaymentEntry, asOf time.Time) []payment {
	out := make([]payment, 0, len(entries))
	for _, e := range entries {
		date := domain.Date(e.PaymentDate)
		if date.After(asOf) {
			continue
		}
		p := payment{date: date}
		for _, ln := range e.Lines {
			p.lines = append(p.lines, line{
				month:  ln.RentMonth,
				bucket: ln.Bucket,
				amount: RoundMoney(ln.Amount),
			})
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].date.Before(out[j].date) })
	return out
}
