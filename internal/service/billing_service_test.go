package service

import (
	"context"
	"testing"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"
	"github.com/segyhp/rent-billing/internal/engine"
	customError "github.com/segyhp/rent-billing/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetLedger_Success(t *testing.T) {
	svc, m := newBillingService()
	m.expectTenant("T-100", nil)

	ledger, err := svc.GetLedger(context.Background(), "T-100", time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.Len(t, ledger.Entries, 2)
	assert.True(t, ledger.Entries[1].OutstandingPending.Equal(decimal.NewFromInt(1150)))
	assert.True(t, ledger.Entries[1].PenaltyCharged.Equal(decimal.NewFromInt(23)))
	assert.True(t, ledger.TotalDue.Equal(decimal.NewFromInt(2323)))

	m.tenants.AssertExpectations(t)
	m.payments.AssertExpectations(t)
}

func TestGetLedger_Errors(t *testing.T) {
	t.Run("unknown tenant", func(t *testing.T) {
		svc, m := newBillingService()
		m.tenants.On("GetTenant", mock.Anything, "T-404").Return(nil, customError.WrapTenantNotFound("T-404"))

		_, err := svc.GetLedger(context.Background(), "T-404", feb15)

		assert.ErrorIs(t, err, customError.ErrTenantNotFound)
	})

	t.Run("no rent factors", func(t *testing.T) {
		svc, m := newBillingService()
		m.tenants.On("GetTenant", mock.Anything, "T-100").Return(testTenant("T-100"), nil)
		m.tenants.On("ListRentFactors", mock.Anything, "T-100").Return([]domain.RentFactors{}, nil)
		m.payments.On("ListPayments", mock.Anything, "T-100").Return([]domain.PaymentEntry{}, nil)
		m.expectRates(twoPercentHistory(), nil)

		_, err := svc.GetLedger(context.Background(), "T-100", feb15)

		var cfgErr *customError.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("database failure", func(t *testing.T) {
		svc, m := newBillingService()
		m.tenants.On("GetTenant", mock.Anything, "T-100").Return(nil, assert.AnError)

		_, err := svc.GetLedger(context.Background(), "T-100", feb15)

		var be *customError.BusinessError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, customError.ErrCodeDatabaseError, be.Code)
	})
}

func TestRecordPayment_Success(t *testing.T) {
	svc, m := newBillingService()
	m.expectTenant("T-100", []domain.PaymentEntry{febRentPayment("T-100")})
	m.payments.On("InsertPayment", mock.Anything, mock.MatchedBy(func(p *domain.PaymentEntry) bool {
		return p.TenantID == "T-100" &&
			p.PenaltyAllocated.Equal(decimal.NewFromInt(23)) &&
			p.OutstandingAllocated.Equal(decimal.NewFromInt(477)) &&
			p.RentAllocated.IsZero() &&
			len(p.Lines) == 2
	})).Return(nil)

	entry, err := svc.RecordPayment(context.Background(), "T-100", &domain.MakePaymentRequest{
		Amount:        decimal.NewFromInt(500),
		PaymentMethod: domain.PaymentMethodCash,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentTypeMixed, entry.PaymentType)
	assert.Equal(t, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), entry.PaymentDate)
	require.NotNil(t, entry.RentMonth)
	assert.Equal(t, domain.NewRentMonth(2025, time.February), *entry.RentMonth)

	m.payments.AssertExpectations(t)
}

func TestRecordPayment_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		request domain.MakePaymentRequest
		wantErr error
	}{
		{
			name:    "overpayment",
			request: domain.MakePaymentRequest{Amount: decimal.NewFromInt(5000), PaymentMethod: domain.PaymentMethodCash},
			wantErr: customError.ErrOverpayment,
		},
		{
			name:    "zero amount",
			request: domain.MakePaymentRequest{Amount: decimal.Zero, PaymentMethod: domain.PaymentMethodCash},
			wantErr: customError.ErrInvalidPaymentAmount,
		},
		{
			name:    "fraction of a cent",
			request: domain.MakePaymentRequest{Amount: decimal.RequireFromString("77.005"), PaymentMethod: domain.PaymentMethodCash},
			wantErr: customError.ErrInvalidPaymentAmount,
		},
		{
			name:    "future date",
			request: domain.MakePaymentRequest{Amount: decimal.NewFromInt(10), PaymentMethod: domain.PaymentMethodCash, PaymentDate: "2025-03-01"},
			wantErr: customError.ErrInvalidRequest,
		},
		{
			name:    "before last recorded payment",
			request: domain.MakePaymentRequest{Amount: decimal.NewFromInt(10), PaymentMethod: domain.PaymentMethodCash, PaymentDate: "2025-01-20"},
			wantErr: customError.ErrInvalidRequest,
		},
		{
			name:    "bad target month",
			request: domain.MakePaymentRequest{Amount: decimal.NewFromInt(10), PaymentMethod: domain.PaymentMethodCash, TargetMonth: "Feb"},
			wantErr: customError.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newBillingService()
			m.tenants.On("GetTenant", mock.Anything, "T-100").Return(testTenant("T-100"), nil).Maybe()
			m.tenants.On("ListRentFactors", mock.Anything, "T-100").Return(testFactors("T-100"), nil).Maybe()
			m.payments.On("ListPayments", mock.Anything, "T-100").Return([]domain.PaymentEntry{febRentPayment("T-100")}, nil).Maybe()
			m.expectRates(twoPercentHistory(), nil)

			request := tt.request
			_, err := svc.RecordPayment(context.Background(), "T-100", &request)

			assert.ErrorIs(t, err, tt.wantErr)
			m.payments.AssertNotCalled(t, "InsertPayment", mock.Anything, mock.Anything)
		})
	}
}

func TestRecordPayment_LockHeld(t *testing.T) {
	svc, _ := newBillingService()
	unlock, err := svc.Locker.Lock(context.Background(), "T-100")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = svc.RecordPayment(ctx, "T-100", &domain.MakePaymentRequest{
		Amount:        decimal.NewFromInt(100),
		PaymentMethod: domain.PaymentMethodCash,
	})

	assert.ErrorIs(t, err, customError.ErrPaymentLockNotAcquired)
}

func TestPreviewPayment_CreditPolicy(t *testing.T) {
	svc, m := newBillingService()
	svc.policy = engine.OverpaymentCredit
	m.expectTenant("T-100", []domain.PaymentEntry{febRentPayment("T-100")})

	allocation, err := svc.PreviewPayment(context.Background(), "T-100", &domain.MakePaymentRequest{
		Amount:        decimal.NewFromInt(5000),
		PaymentMethod: domain.PaymentMethodOnline,
	})

	require.NoError(t, err)
	assert.True(t, allocation.Credit.Equal(decimal.NewFromInt(3827)), allocation.Credit.String())
	m.payments.AssertNotCalled(t, "InsertPayment", mock.Anything, mock.Anything)
}

func TestCreateTenant(t *testing.T) {
	svc, m := newBillingService()
	m.tenants.On("CreateTenant", mock.Anything,
		mock.MatchedBy(func(tenant *domain.Tenant) bool {
			return tenant.TenantID == "T-200" && tenant.LeaseStart != nil && tenant.IsActive
		}),
		mock.MatchedBy(func(f *domain.RentFactors) bool {
			return f != nil && f.EffectiveFrom == domain.NewRentMonth(2025, time.March)
		}),
	).Return(nil)

	resp, err := svc.CreateTenant(context.Background(), &domain.CreateTenantRequest{
		TenantID:   "T-200",
		Name:       "Ravi Kumar",
		LeaseStart: "2025-03-01",
		RentFactors: &domain.RentFactorsRequest{
			BasicRent:     decimal.NewFromInt(900),
			PropertyTax:   decimal.NewFromInt(80),
			EffectiveFrom: "2025-03",
		},
	})

	require.NoError(t, err)
	require.NotNil(t, resp.TotalRent)
	assert.True(t, resp.TotalRent.Equal(decimal.NewFromInt(980)))
	m.tenants.AssertExpectations(t)
}

func TestCreateTenant_NegativeRent(t *testing.T) {
	svc, m := newBillingService()

	_, err := svc.CreateTenant(context.Background(), &domain.CreateTenantRequest{
		TenantID:    "T-200",
		Name:        "Ravi Kumar",
		RentFactors: &domain.RentFactorsRequest{BasicRent: decimal.NewFromInt(-1), EffectiveFrom: "2025-03"},
	})

	assert.ErrorIs(t, err, customError.ErrInvalidRequest)
	m.tenants.AssertNotCalled(t, "CreateTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetTenant_WithoutRentFactors(t *testing.T) {
	svc, m := newBillingService()
	m.tenants.On("GetTenant", mock.Anything, "T-100").Return(testTenant("T-100"), nil)
	m.tenants.On("GetRentFactors", mock.Anything, "T-100").
		Return(nil, &customError.ConfigurationError{TenantID: "T-100", Reason: "no rent factors configured"})

	resp, err := svc.GetTenant(context.Background(), "T-100")

	require.NoError(t, err)
	assert.Nil(t, resp.RentFactors)
	assert.Nil(t, resp.TotalRent)
}

func TestDeactivateTenant(t *testing.T) {
	svc, m := newBillingService()
	m.tenants.On("Deactivate", mock.Anything, "T-100", feb15.UTC()).Return(nil)

	require.NoError(t, svc.DeactivateTenant(context.Background(), "T-100"))
	m.tenants.AssertExpectations(t)
}

func TestOverdueReport(t *testing.T) {
	svc, m := newBillingService()
	m.tenants.On("ListActiveTenants", mock.Anything).Return([]domain.Tenant{*testTenant("T-100"), *testTenant("T-200"), *testTenant("T-300")}, nil)
	m.expectTenant("T-100", nil)
	m.expectTenant("T-300", []domain.PaymentEntry{{
		TenantID:    "T-300",
		PaymentDate: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		Lines: []domain.AllocationLine{
			{RentMonth: domain.NewRentMonth(2025, time.January), Bucket: domain.BucketRent, Amount: decimal.NewFromInt(1150)},
		},
	}})
	m.tenants.On("GetTenant", mock.Anything, "T-200").Return(testTenant("T-200"), nil)
	m.tenants.On("ListRentFactors", mock.Anything, "T-200").Return([]domain.RentFactors{}, nil)
	m.payments.On("ListPayments", mock.Anything, "T-200").Return([]domain.PaymentEntry{}, nil)

	report, err := svc.OverdueReport(context.Background(), time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, "T-100", report[0].TenantID)
	assert.True(t, report[0].OutstandingDue.Equal(decimal.NewFromInt(1150)))
	assert.True(t, report[0].PenaltyDue.Equal(decimal.NewFromInt(23)))
	assert.True(t, report[0].TotalDue.Equal(decimal.NewFromInt(2323)))
	assert.Equal(t, 5, report[0].DaysOverdue)
}

func TestLedger_ArrearsOlderThanFirstRate(t *testing.T) {
	svc, m := newBillingService()
	svc.now = func() time.Time { return mar15 }
	m.expectInputs("T-100", nil)
	m.expectRates(ratesFromMarch(), nil)
	m.payments.On("InsertPayment", mock.Anything, mock.Anything).Return(nil)

	ledger, err := svc.GetLedger(context.Background(), "T-100", mar15)
	require.NoError(t, err)
	require.Len(t, ledger.Entries, 3)
	assert.True(t, ledger.Entries[1].PenaltyCharged.IsZero(), "february was charged before any rate existed")
	assert.True(t, ledger.Entries[2].PenaltyCharged.Equal(decimal.NewFromInt(46)))

	allocation, err := svc.PreviewPayment(context.Background(), "T-100", &domain.MakePaymentRequest{
		Amount:        decimal.NewFromInt(100),
		PaymentMethod: domain.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.True(t, allocation.PenaltyAllocated.Equal(decimal.NewFromInt(46)))

	entry, err := svc.RecordPayment(context.Background(), "T-100", &domain.MakePaymentRequest{
		Amount:        decimal.NewFromInt(100),
		PaymentMethod: domain.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.True(t, entry.PenaltyAllocated.Equal(decimal.NewFromInt(46)))
	assert.True(t, entry.OutstandingAllocated.Equal(decimal.NewFromInt(54)))
	m.payments.AssertExpectations(t)
}

func TestOverdueReport_SkipsFailingTenant(t *testing.T) {
	svc, m := newBillingService()
	m.tenants.On("ListActiveTenants", mock.Anything).Return([]domain.Tenant{*testTenant("T-100"), *testTenant("T-200")}, nil)
	m.expectRates(ratesFromMarch(), nil)
	m.expectInputs("T-100", nil)
	m.tenants.On("GetTenant", mock.Anything, "T-200").Return(nil, assert.AnError)

	report, err := svc.OverdueReport(context.Background(), mar15)

	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, "T-100", report[0].TenantID)
	assert.True(t, report[0].OutstandingDue.Equal(decimal.NewFromInt(2300)))
	assert.True(t, report[0].PenaltyDue.Equal(decimal.NewFromInt(46)))
}

func TestOverdueReport_InconsistentRateHistory(t *testing.T) {
	svc, m := newBillingService()
	m.tenants.On("ListActiveTenants", mock.Anything).Return([]domain.Tenant{*testTenant("T-100")}, nil)
	m.expectRates(append(ratesFromMarch(), ratesFromMarch()...), nil)

	_, err := svc.OverdueReport(context.Background(), mar15)

	assert.ErrorIs(t, err, customError.ErrRateScheduleGap)
	assert.Equal(t, customError.ErrCodeRateScheduleGap, customError.Code(err))
	m.tenants.AssertNotCalled(t, "GetTenant", mock.Anything, "T-100")
}
