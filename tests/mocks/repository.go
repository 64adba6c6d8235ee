package mocks

import (
	"context"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetRentFactors(ctx context.Context, tenantID string) (*domain.RentFactors, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentFactors), args.Error(1)
}

func (m *MockTenantRepository) ListRentFactors(ctx context.Context, tenantID string) ([]domain.RentFactors, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentFactors), args.Error(1)
}

func (m *MockTenantRepository) ListActiveTenants(ctx context.Context) ([]domain.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) CreateTenant(ctx context.Context, tenant *domain.Tenant, factors *domain.RentFactors) error {
	args := m.Called(ctx, tenant, factors)
	return args.Error(0)
}

func (m *MockTenantRepository) AddRentFactors(ctx context.Context, factors *domain.RentFactors) error {
	args := m.Called(ctx, factors)
	return args.Error(0)
}

func (m *MockTenantRepository) Deactivate(ctx context.Context, tenantID string, at time.Time) error {
	args := m.Called(ctx, tenantID, at)
	return args.Error(0)
}

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) List(ctx context.Context) ([]domain.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) ListPayments(ctx context.Context, tenantID string) ([]domain.PaymentEntry, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentEntry), args.Error(1)
}

func (m *MockPaymentRepository) InsertPayment(ctx context.Context, payment *domain.PaymentEntry) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

type MockPenaltyRateRepository struct {
	mock.Mock
}

func (m *MockPenaltyRateRepository) GetCurrentRate(ctx context.Context) (*domain.PenaltyInterestMaster, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyInterestMaster), args.Error(1)
}

func (m *MockPenaltyRateRepository) GetHistory(ctx context.Context) ([]domain.PenaltyInterestHistory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PenaltyInterestHistory), args.Error(1)
}

func (m *MockPenaltyRateRepository) CommitRateChange(ctx context.Context, rate decimal.Decimal, effectiveFrom time.Time) (*domain.PenaltyInterestHistory, error) {
	args := m.Called(ctx, rate, effectiveFrom)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyInterestHistory), args.Error(1)
}
