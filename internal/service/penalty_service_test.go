package service

import (
	"context"
	"testing"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"
	"github.com/segyhp/rent-billing/tests/mocks"
	customError "github.com/segyhp/rent-billing/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPenaltyService(now time.Time) (*PenaltyService, billingMocks) {
	m := billingMocks{
		tenants:  &mocks.MockTenantRepository{},
		payments: &mocks.MockPaymentRepository{},
		rates:    &mocks.MockPenaltyRateRepository{},
	}
	logger := zap.NewNop()
	svc := NewPenaltyService(m.tenants, m.payments, NewRateStore(m.rates, nil, time.Minute, logger), testConfig(), logger)
	svc.now = func() time.Time { return now }
	return svc, m
}

func TestGetImpact(t *testing.T) {
	svc, m := newPenaltyService(feb15)
	m.tenants.On("ListActiveTenants", mock.Anything).Return([]domain.Tenant{*testTenant("T-100")}, nil)
	m.expectTenant("T-100", nil)

	previews, err := svc.GetImpact(context.Background(), decimal.NewFromInt(3), nil)

	require.NoError(t, err)
	require.Len(t, previews, 1)
	p := previews[0]
	assert.Equal(t, "T-100", p.TenantID)
	assert.Equal(t, "Tenant T-100", p.TenantName)
	assert.True(t, p.TotalOldPenalty.Equal(decimal.NewFromInt(23)))
	assert.True(t, p.TotalNewPenalty.Equal(decimal.NewFromFloat(34.5)))
	assert.True(t, p.TotalDifference.Equal(decimal.NewFromFloat(11.5)))
}

func TestGetImpact_SkipsUnaffectedAndUnbillable(t *testing.T) {
	svc, m := newPenaltyService(feb15)
	m.tenants.On("ListActiveTenants", mock.Anything).Return([]domain.Tenant{*testTenant("T-200"), *testTenant("T-300")}, nil)
	m.expectRates(twoPercentHistory(), nil)
	m.tenants.On("GetTenant", mock.Anything, "T-200").Return(testTenant("T-200"), nil)
	m.tenants.On("ListRentFactors", mock.Anything, "T-200").Return([]domain.RentFactors{}, nil)
	m.payments.On("ListPayments", mock.Anything, "T-200").Return([]domain.PaymentEntry{}, nil)
	m.tenants.On("GetTenant", mock.Anything, "T-300").Return(testTenant("T-300"), nil)
	m.tenants.On("ListRentFactors", mock.Anything, "T-300").Return(testFactors("T-300"), nil)
	m.payments.On("ListPayments", mock.Anything, "T-300").Return([]domain.PaymentEntry{{
		TenantID:    "T-300",
		PaymentDate: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		Lines: []domain.AllocationLine{
			{RentMonth: domain.NewRentMonth(2025, time.January), Bucket: domain.BucketRent, Amount: decimal.NewFromInt(1150)},
		},
	}}, nil)

	previews, err := svc.GetImpact(context.Background(), decimal.NewFromInt(3), nil)

	require.NoError(t, err)
	assert.Empty(t, previews)
}

func TestGetImpact_FirstRateEver(t *testing.T) {
	svc, m := newPenaltyService(time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))
	m.tenants.On("ListActiveTenants", mock.Anything).Return([]domain.Tenant{*testTenant("T-100")}, nil)
	m.expectInputs("T-100", nil)
	m.expectRates([]domain.PenaltyInterestHistory{}, nil)
	from := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	previews, err := svc.GetImpact(context.Background(), decimal.NewFromInt(3), &from)

	require.NoError(t, err)
	require.Len(t, previews, 1)
	p := previews[0]
	require.Len(t, p.Months, 1)
	assert.Equal(t, domain.NewRentMonth(2025, time.July), p.Months[0].RentMonth)
	assert.True(t, p.TotalOldPenalty.IsZero())
	assert.True(t, p.TotalNewPenalty.Equal(decimal.NewFromInt(207)))
}

func TestGetImpact_InvalidRate(t *testing.T) {
	svc, m := newPenaltyService(feb15)

	_, err := svc.GetImpact(context.Background(), decimal.NewFromInt(101), nil)

	assert.ErrorIs(t, err, customError.ErrInvalidRate)
	m.tenants.AssertNotCalled(t, "ListActiveTenants", mock.Anything)
}

func TestGetImpactExample(t *testing.T) {
	t.Run("largest change", func(t *testing.T) {
		svc, m := newPenaltyService(feb15)
		m.tenants.On("ListActiveTenants", mock.Anything).Return([]domain.Tenant{*testTenant("T-100")}, nil)
		m.expectTenant("T-100", nil)

		example, err := svc.GetImpactExample(context.Background(), decimal.NewFromInt(3))

		require.NoError(t, err)
		require.NotNil(t, example)
		assert.Equal(t, domain.NewRentMonth(2025, time.February), example.RentMonth)
		assert.True(t, example.OutstandingAmount.Equal(decimal.NewFromInt(1150)))
		assert.True(t, example.OldPenalty.Equal(decimal.NewFromInt(23)))
		assert.True(t, example.NewPenalty.Equal(decimal.NewFromFloat(34.5)))
		assert.True(t, example.Difference.Equal(decimal.NewFromFloat(11.5)))
	})

	t.Run("nobody affected", func(t *testing.T) {
		svc, m := newPenaltyService(feb15)
		m.tenants.On("ListActiveTenants", mock.Anything).Return([]domain.Tenant{}, nil)
		m.expectRates(twoPercentHistory(), nil)

		example, err := svc.GetImpactExample(context.Background(), decimal.NewFromInt(3))

		require.NoError(t, err)
		assert.Nil(t, example)
	})
}

func TestUpdateRate(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("committed", func(t *testing.T) {
		svc, m := newPenaltyService(feb15)
		m.rates.On("CommitRateChange", mock.Anything, mock.MatchedBy(func(r decimal.Decimal) bool {
			return r.Equal(decimal.NewFromInt(3))
		}), from).Return(&domain.PenaltyInterestHistory{ID: uuid.New(), InterestRate: decimal.NewFromInt(3), EffectiveFrom: from}, nil)

		entry, err := svc.UpdateRate(context.Background(), &domain.UpdatePenaltyRateRequest{NewRate: decimal.NewFromInt(3), EffectiveFrom: "2025-06-01"})

		require.NoError(t, err)
		assert.Equal(t, from, entry.EffectiveFrom)
		m.rates.AssertExpectations(t)
	})

	t.Run("rate out of range", func(t *testing.T) {
		svc, m := newPenaltyService(feb15)

		_, err := svc.UpdateRate(context.Background(), &domain.UpdatePenaltyRateRequest{NewRate: decimal.NewFromInt(-1), EffectiveFrom: "2025-06-01"})

		assert.ErrorIs(t, err, customError.ErrInvalidRate)
		m.rates.AssertNotCalled(t, "CommitRateChange", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not after latest change", func(t *testing.T) {
		svc, m := newPenaltyService(feb15)
		m.rates.On("CommitRateChange", mock.Anything, mock.Anything, from).
			Return(nil, customError.WrapInvalidEffectiveDate("effective date must be after the latest rate change"))

		_, err := svc.UpdateRate(context.Background(), &domain.UpdatePenaltyRateRequest{NewRate: decimal.NewFromInt(3), EffectiveFrom: "2025-06-01"})

		assert.ErrorIs(t, err, customError.ErrInvalidEffectiveDate)
	})
}

func TestGetCurrentRate(t *testing.T) {
	januaryLogged := time.Date(2024, 12, 20, 8, 0, 0, 0, time.UTC)
	augustLogged := time.Date(2025, 8, 14, 8, 0, 0, 0, time.UTC)
	history := []domain.PenaltyInterestHistory{
		{ID: uuid.New(), InterestRate: decimal.NewFromInt(2), EffectiveFrom: leaseStart, CreatedAt: januaryLogged},
		{ID: uuid.New(), InterestRate: decimal.NewFromInt(5), EffectiveFrom: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), CreatedAt: augustLogged},
	}
	master := &domain.PenaltyInterestMaster{
		ID:            1,
		InterestRate:  decimal.NewFromInt(5),
		EffectiveFrom: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:     januaryLogged,
		UpdatedAt:     augustLogged,
	}

	tests := []struct {
		name     string
		now      time.Time
		history  []domain.PenaltyInterestHistory
		master   *domain.PenaltyInterestMaster
		expected *decimal.Decimal
		updated  time.Time
	}{
		{name: "future change not yet in force", now: feb15, history: history, master: master, expected: ptr(decimal.NewFromInt(2)), updated: januaryLogged},
		{name: "change in force", now: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), history: history, master: master, expected: ptr(decimal.NewFromInt(5)), updated: augustLogged},
		{name: "no rate configured", now: feb15, history: []domain.PenaltyInterestHistory{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newPenaltyService(tt.now)
			m.expectRates(tt.history, tt.master)

			current, err := svc.GetCurrentRate(context.Background())

			require.NoError(t, err)
			if tt.expected == nil {
				assert.Nil(t, current)
				return
			}
			require.NotNil(t, current)
			assert.True(t, current.InterestRate.Equal(*tt.expected))
			assert.Equal(t, 1, current.ID)
			assert.Equal(t, tt.updated, current.UpdatedAt)
			assert.False(t, current.CreatedAt.IsZero())
		})
	}
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }
