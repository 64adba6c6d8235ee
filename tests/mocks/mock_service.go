package mocks

import (
	"context"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) GetLedger(ctx context.Context, tenantID string, asOf time.Time) (*domain.LedgerResponse, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerResponse), args.Error(1)
}

func (m *MockBillingService) ListPayments(ctx context.Context, tenantID string) ([]domain.PaymentEntry, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentEntry), args.Error(1)
}

func (m *MockBillingService) PreviewPayment(ctx context.Context, tenantID string, request *domain.MakePaymentRequest) (*domain.PaymentAllocation, error) {
	args := m.Called(ctx, tenantID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentAllocation), args.Error(1)
}

func (m *MockBillingService) RecordPayment(ctx context.Context, tenantID string, request *domain.MakePaymentRequest) (*domain.PaymentEntry, error) {
	args := m.Called(ctx, tenantID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentEntry), args.Error(1)
}

func (m *MockBillingService) CreateTenant(ctx context.Context, request *domain.CreateTenantRequest) (*domain.TenantResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantResponse), args.Error(1)
}

func (m *MockBillingService) GetTenant(ctx context.Context, tenantID string) (*domain.TenantResponse, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantResponse), args.Error(1)
}

func (m *MockBillingService) UpdateRentFactors(ctx context.Context, tenantID string, request *domain.RentFactorsRequest) (*domain.RentFactors, error) {
	args := m.Called(ctx, tenantID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentFactors), args.Error(1)
}

func (m *MockBillingService) DeactivateTenant(ctx context.Context, tenantID string) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockBillingService) CreateProperty(ctx context.Context, request *domain.CreatePropertyRequest) (*domain.Property, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockBillingService) GetProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockBillingService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

type MockPenaltyService struct {
	mock.Mock
}

func (m *MockPenaltyService) GetCurrentRate(ctx context.Context) (*domain.PenaltyInterestMaster, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyInterestMaster), args.Error(1)
}

func (m *MockPenaltyService) GetHistory(ctx context.Context) ([]domain.PenaltyInterestHistory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PenaltyInterestHistory), args.Error(1)
}

func (m *MockPenaltyService) UpdateRate(ctx context.Context, request *domain.UpdatePenaltyRateRequest) (*domain.PenaltyInterestHistory, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyInterestHistory), args.Error(1)
}

func (m *MockPenaltyService) GetImpact(ctx context.Context, newRate decimal.Decimal, effectiveFrom *time.Time) ([]domain.TenantImpactPreview, error) {
	args := m.Called(ctx, newRate, effectiveFrom)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TenantImpactPreview), args.Error(1)
}

func (m *MockPenaltyService) GetImpactExample(ctx context.Context, newRate decimal.Decimal) (*domain.PenaltyImpactExample, error) {
	args := m.Called(ctx, newRate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyImpactExample), args.Error(1)
}
