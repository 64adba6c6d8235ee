package service

import (
	"context"
	"errors"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"
	"github.com/segyhp/rent-billing/internal/engine"
	"github.com/segyhp/rent-billing/internal/repository"
	customError "github.com/segyhp/rent-billing/pkg/errors"
)

// tenantInputs is everything the engine needs to rebuild one tenant's ledger.
type tenantInputs struct {
	tenant   *domain.Tenant
	factors  []domain.RentFactors
	payments []domain.PaymentEntry
}

func (in *tenantInputs) baseLedger(asOf time.Time) (*engine.Ledger, error) {
	return engine.BuildLedger(*in.tenant, in.factors, in.payments, asOf)
}

type ledgerSource struct {
	tenants  repository.TenantRepository
	payments repository.PaymentRepository
}

func (s ledgerSource) load(ctx context.Context, tenantID string) (*tenantInputs, error) {
	tenant, err := s.tenants.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, dbError(err)
	}
	factors, err := s.tenants.ListRentFactors(ctx, tenantID)
	if err != nil {
		return nil, dbError(err)
	}
	payments, err := s.payments.ListPayments(ctx, tenantID)
	if err != nil {
		return nil, dbError(err)
	}
	return &tenantInputs{tenant: tenant, factors: factors, payments: payments}, nil
}

// dbError passes domain errors through and wraps everything else from the
// persistence layer as a database error.
func dbError(err error) error {
	var be *customError.BusinessError
	var cfgErr *customError.ConfigurationError
	if errors.As(err, &be) || errors.As(err, &cfgErr) || customError.IsFatal(err) {
		return err
	}
	return customError.WrapDatabaseError(err)
}
