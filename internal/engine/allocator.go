package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"
	customError "github.com/segyhp/rent-billing/pkg/errors"

	"github.com/shopspring/decimal"
)

// OverpaymentPolicy decides what happens to money left after every open
// item is settled.
type OverpaymentPolicy string

const (
	OverpaymentReject OverpaymentPolicy = "reject"
	OverpaymentCredit OverpaymentPolicy = "credit"
)

func ParseOverpaymentPolicy(s string) (OverpaymentPolicy, error) {
	switch OverpaymentPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case OverpaymentReject, "":
		return OverpaymentReject, nil
	case OverpaymentCredit:
		return OverpaymentCredit, nil
	default:
		return "", fmt.Errorf("unknown overpayment policy %q", s)
	}
}

// maxCreditMonths bounds how far ahead advance rent is spread.
const maxCreditMonths = 120

// PaymentRequest is an incoming payment to allocate.
type PaymentRequest struct {
	TenantID     string
	Amount       decimal.Decimal
	Date         time.Time
	TargetMonth  *domain.RentMonth
	WaivePenalty bool
}

type allocKey struct {
	month  domain.RentMonth
	bucket domain.Bucket
}

type allocation struct {
	ledger    *Ledger
	remaining Money
	lines     []line
	allocated map[allocKey]Money
	credit    Money
}

// Allocate splits a payment across penalty, outstanding principal and rent.
// The ledger must be computed with penalty as of the payment date.
//
// Order: penalties oldest month first, then unpaid principal of past months
// oldest first, then the current month's rent. A target month is settled
// first in the same order before the rest flows to the general order.
// WaivePenalty skips penalty in the targeted scope. What is left over is
// refused or credited as advance rent depending on policy.
func Allocate(req PaymentRequest, ledger *Ledger, policy OverpaymentPolicy) (*domain.PaymentAllocation, error) {
	if !req.Amount.IsPositive() {
		return nil, customError.WrapInvalidPaymentAmount(req.Amount.String())
	}
	amount, residue := MoneyFromDecimal(req.Amount)
	if amount <= 0 {
		return nil, customError.WrapInvalidPaymentAmount(req.Amount.String())
	}

	a := &allocation{
		ledger:    ledger,
		remaining: amount,
		allocated: make(map[allocKey]Money),
	}
	current := domain.MonthOf(req.Date)

	if t := req.TargetMonth; t != nil {
		if !req.WaivePenalty {
			a.take(*t, domain.BucketPenalty)
		}
		if t.Before(current) {
			a.take(*t, domain.BucketOutstanding)
		} else {
			a.take(*t, domain.BucketRent)
		}
	}

	waiveAll := req.WaivePenalty && req.TargetMonth == nil
	if !waiveAll {
		for _, m := range ledger.Months {
			if m.RentMonth.After(current) {
				break
			}
			if req.WaivePenalty && req.TargetMonth != nil && m.RentMonth == *req.TargetMonth {
				continue
			}
			a.take(m.RentMonth, domain.BucketPenalty)
		}
	}
	for _, m := range ledger.Months {
		if !m.RentMonth.Before(current) {
			break
		}
		a.take(m.RentMonth, domain.BucketOutstanding)
	}
	a.take(current, domain.BucketRent)

	if a.remaining > 0 {
		switch policy {
		case OverpaymentCredit:
			a.creditForward(current)
		default:
			return nil, &customError.OverpaymentError{
				TenantID:    req.TenantID,
				Received:    req.Amount.String(),
				Allocatable: (amount - a.remaining).String(),
			}
		}
	}

	return a.result(req, residue), nil
}

// pending is what is still open for month and bucket after the lines
// already taken by this allocation.
func (a *allocation) pending(month domain.RentMonth, bucket domain.Bucket) Money {
	var open Money
	if m := a.ledger.Month(month); m != nil {
		switch bucket {
		case domain.BucketPenalty:
			open = m.PenaltyPending()
		case domain.BucketOutstanding:
			open = m.PrincipalPending()
		case domain.BucketRent:
			open = m.RentPending()
		}
	} else if bucket == domain.BucketRent && !a.ledger.start.IsZero() && !month.Before(a.ledger.start) {
		open = a.ledger.rentFor(month)
	}
	return positive(open - a.allocated[allocKey{month, bucket}])
}

func (a *allocation) take(month domain.RentMonth, bucket domain.Bucket) {
	if a.remaining <= 0 {
		return
	}
	amount := minMoney(a.remaining, a.pending(month, bucket))
	if amount <= 0 {
		return
	}
	a.add(month, bucket, amount)
}

func (a *allocation) add(month domain.RentMonth, bucket domain.Bucket, amount Money) {
	a.remaining -= amount
	a.allocated[allocKey{month, bucket}] += amount
	a.lines = append(a.lines, line{month: month, bucket: bucket, amount: amount})
}

// creditForward fills the rent of the following months; the last month
// reached takes whatever is left.
func (a *allocation) creditForward(current domain.RentMonth) {
	month := current.Next()
	for i := 0; i < maxCreditMonths && a.remaining > 0; i++ {
		before := a.remaining
		a.take(month, domain.BucketRent)
		a.credit += before - a.remaining
		if a.remaining > 0 {
			month = month.Next()
		}
	}
	if a.remaining > 0 {
		month = current.Next()
		if n := len(a.lines); n > 0 && a.lines[n-1].bucket == domain.BucketRent && a.lines[n-1].month.After(current) {
			month = a.lines[n-1].month
		}
		a.credit += a.remaining
		a.add(month, domain.BucketRent, a.remaining)
	}
}

func (a *allocation) result(req PaymentRequest, residue decimal.Decimal) *domain.PaymentAllocation {
	out := &domain.PaymentAllocation{
		TenantID:             req.TenantID,
		ReceivedAmount:       req.Amount,
		RentAllocated:        decimal.Zero,
		PenaltyAllocated:     decimal.Zero,
		OutstandingAllocated: decimal.Zero,
		Credit:               a.credit.Decimal(),
		Lines:                make([]domain.AllocationLine, 0, len(a.lines)),
	}

	for _, ln := range a.lines {
		out.Lines = append(out.Lines, domain.AllocationLine{
			RentMonth: ln.month,
			Bucket:    ln.bucket,
			Amount:    ln.amount.Decimal(),
		})
	}
	// The sub-minor fraction of the received amount goes to the last bucket
	// filled so the totals add up to the received amount exactly.
	if !residue.IsZero() && len(out.Lines) > 0 {
		last := &out.Lines[len(out.Lines)-1]
		last.Amount = last.Amount.Add(residue)
	}

	for _, ln := range out.Lines {
		switch ln.Bucket {
		case domain.BucketRent:
			out.RentAllocated = out.RentAllocated.Add(ln.Amount)
		case domain.BucketPenalty:
			out.PenaltyAllocated = out.PenaltyAllocated.Add(ln.Amount)
		case domain.BucketOutstanding:
			out.OutstandingAllocated = out.OutstandingAllocated.Add(ln.Amount)
		}
	}
	out.PaymentType = paymentType(out)
	return out
}

func paymentType(a *domain.PaymentAllocation) domain.PaymentType {
	var kinds []domain.PaymentType
	if !a.RentAllocated.IsZero() {
		kinds = append(kinds, domain.PaymentTypeRent)
	}
	if !a.PenaltyAllocated.IsZero() {
		kinds = append(kinds, domain.PaymentTypePenalty)
	}
	if !a.OutstandingAllocated.IsZero() {
		kinds = append(kinds, domain.PaymentTypeOutstanding)
	}
	if len(kinds) == 1 {
		return kinds[0]
	}
	return domain.PaymentTypeMixed
}
