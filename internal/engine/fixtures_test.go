package engine

import (
	"testing"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	jan2025 = domain.NewRentMonth(2025, time.January)
	feb2025 = domain.NewRentMonth(2025, time.February)
	mar2025 = domain.NewRentMonth(2025, time.March)
	apr2025 = domain.NewRentMonth(2025, time.April)
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testTenant(t *testing.T) domain.Tenant {
	start := day(t, "2025-01-01")
	return domain.Tenant{TenantID: "T-100", Name: "Asha Rao", LeaseStart: &start, IsActive: true}
}

// standardFactors totals 1150 per month from January 2025.
func standardFactors() []domain.RentFactors {
	return []domain.RentFactors{{
		TenantID:      "T-100",
		BasicRent:     dec("1000"),
		PropertyTax:   dec("100"),
		RepairCess:    dec("50"),
		Misc:          decimal.Zero,
		EffectiveFrom: jan2025,
	}}
}

func factorsFrom(month domain.RentMonth, total string) domain.RentFactors {
	return domain.RentFactors{TenantID: "T-100", BasicRent: dec(total), EffectiveFrom: month}
}

func twoPercentFromJanuary(t *testing.T) RateSchedule {
	return scheduleOf(t, domain.PenaltyInterestHistory{ID: uuid.New(), InterestRate: dec("2"), EffectiveFrom: day(t, "2025-01-01")})
}

func scheduleOf(t *testing.T, history ...domain.PenaltyInterestHistory) RateSchedule {
	t.Helper()
	s, err := NewRateSchedule(history, nil)
	require.NoError(t, err)
	return s
}

func standardOptions() PenaltyOptions {
	return PenaltyOptions{GracePeriodDays: 10, Mode: PenaltyCompound}
}

func allocLine(month domain.RentMonth, bucket domain.Bucket, amount string) domain.AllocationLine {
	return domain.AllocationLine{RentMonth: month, Bucket: bucket, Amount: dec(amount)}
}

func paidOn(t *testing.T, date string, lines ...domain.AllocationLine) domain.PaymentEntry {
	entry := domain.PaymentEntry{
		ID:            uuid.New(),
		TenantID:      "T-100",
		PaymentDate:   day(t, date),
		PaymentMethod: domain.PaymentMethodCash,
		Lines:         lines,
	}
	for _, ln := range lines {
		entry.ReceivedAmount = entry.ReceivedAmount.Add(ln.Amount)
	}
	return entry
}

// entryFromAllocation turns an allocation into the payment entry the
// persistence layer would store.
func entryFromAllocation(date time.Time, a *domain.PaymentAllocation) domain.PaymentEntry {
	return domain.PaymentEntry{
		ID:                   uuid.New(),
		TenantID:             a.TenantID,
		ReceivedAmount:       a.ReceivedAmount,
		RentAllocated:        a.RentAllocated,
		PenaltyAllocated:     a.PenaltyAllocated,
		OutstandingAllocated: a.OutstandingAllocated,
		PaymentType:          a.PaymentType,
		PaymentMethod:        domain.PaymentMethodCash,
		PaymentDate:          date,
		Lines:                a.Lines,
	}
}

func assertMoney(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	require.True(t, dec(expected).Equal(actual), append([]interface{}{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}
