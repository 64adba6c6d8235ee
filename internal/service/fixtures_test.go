package service

import (
	"time"

	"github.com/segyhp/rent-billing/internal/config"
	"github.com/segyhp/rent-billing/internal/domain"
	"github.com/segyhp/rent-billing/tests/mocks"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var (
	leaseStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb15      = time.Date(2025, 2, 15, 9, 30, 0, 0, time.UTC)
	mar1       = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	mar15      = time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)
)

func testConfig() *config.Config {
	return &config.Config{
		Billing: config.BillingConfig{
			GracePeriodDays:   10,
			PenaltyMode:       "compound",
			OverpaymentPolicy: "reject",
		},
	}
}

func testTenant(id string) *domain.Tenant {
	start := leaseStart
	return &domain.Tenant{TenantID: id, Name: "Tenant " + id, LeaseStart: &start, IsActive: true}
}

func testFactors(id string) []domain.RentFactors {
	return []domain.RentFactors{{
		ID:            uuid.New(),
		TenantID:      id,
		BasicRent:     decimal.NewFromInt(1000),
		PropertyTax:   decimal.NewFromInt(100),
		RepairCess:    decimal.NewFromInt(50),
		Misc:          decimal.Zero,
		EffectiveFrom: domain.NewRentMonth(2025, time.January),
	}}
}

func twoPercentHistory() []domain.PenaltyInterestHistory {
	return []domain.PenaltyInterestHistory{{ID: uuid.New(), InterestRate: decimal.NewFromInt(2), EffectiveFrom: leaseStart}}
}

// ratesFromMarch is a history whose first rate starts after the lease.
func ratesFromMarch() []domain.PenaltyInterestHistory {
	return []domain.PenaltyInterestHistory{{ID: uuid.New(), InterestRate: decimal.NewFromInt(2), EffectiveFrom: mar1}}
}

func febRentPayment(id string) domain.PaymentEntry {
	return domain.PaymentEntry{
		ID:             uuid.New(),
		TenantID:       id,
		ReceivedAmount: decimal.NewFromInt(1150),
		PaymentDate:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Lines: []domain.AllocationLine{
			{RentMonth: domain.NewRentMonth(2025, time.February), Bucket: domain.BucketRent, Amount: decimal.NewFromInt(1150)},
		},
	}
}

type billingMocks struct {
	tenants    *mocks.MockTenantRepository
	properties *mocks.MockPropertyRepository
	payments   *mocks.MockPaymentRepository
	rates      *mocks.MockPenaltyRateRepository
}

func newBillingService() (*BillingService, billingMocks) {
	m := billingMocks{
		tenants:    &mocks.MockTenantRepository{},
		properties: &mocks.MockPropertyRepository{},
		payments:   &mocks.MockPaymentRepository{},
		rates:      &mocks.MockPenaltyRateRepository{},
	}
	logger := zap.NewNop()
	svc := NewBillingService(
		m.tenants,
		m.properties,
		m.payments,
		NewRateStore(m.rates, nil, time.Minute, logger),
		NewLocalLocker(),
		testConfig(),
		logger,
	)
	svc.now = func() time.Time { return feb15 }
	return svc, m
}

// expectTenant wires a tenant with the standard 1150 rent and a 2% rate.
func (m billingMocks) expectTenant(id string, payments []domain.PaymentEntry) {
	m.expectInputs(id, payments)
	m.expectRates(twoPercentHistory(), nil)
}

func (m billingMocks) expectInputs(id string, payments []domain.PaymentEntry) {
	m.tenants.On("GetTenant", mock.Anything, id).Return(testTenant(id), nil)
	m.tenants.On("ListRentFactors", mock.Anything, id).Return(testFactors(id), nil)
	m.payments.On("ListPayments", mock.Anything, id).Return(payments, nil)
}

func (m billingMocks) expectRates(history []domain.PenaltyInterestHistory, master *domain.PenaltyInterestMaster) {
	if master == nil {
		m.rates.On("GetCurrentRate", mock.Anything).Return(nil, nil).Maybe()
	} else {
		m.rates.On("GetCurrentRate", mock.Anything).Return(master, nil).Maybe()
	}
	m.rates.On("GetHistory", mock.Anything).Return(history, nil).Maybe()
}
