package service

import (
	"context"
	"sort"
	"time"

	"github.com/segyhp/rent-billing/internal/config"
	"github.com/segyhp/rent-billing/internal/domain"
	"github.com/segyhp/rent-billing/internal/engine"
	"github.com/segyhp/rent-billing/internal/repository"
	customError "github.com/segyhp/rent-billing/pkg/errors"
	"github.com/segyhp/rent-billing/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PenaltyService struct {
	TenantRepo  repository.TenantRepository
	PaymentRepo repository.PaymentRepository
	Rates       *RateStore

	penalty engine.PenaltyOptions
	logger  *zap.Logger
	now     func() time.Time
}

func NewPenaltyService(
	tenantRepo repository.TenantRepository,
	paymentRepo repository.PaymentRepository,
	rates *RateStore,
	cfg *config.Config,
	logger *zap.Logger,
) *PenaltyService {
	return &PenaltyService{
		TenantRepo:  tenantRepo,
		PaymentRepo: paymentRepo,
		Rates:       rates,
		penalty:     cfg.GetPenaltyOptions(),
		logger:      logger,
		now:         time.Now,
	}
}

// GetCurrentRate returns the rate in force today, nil when none is.
func (s *PenaltyService) GetCurrentRate(ctx context.Context) (*domain.PenaltyInterestMaster, error) {
	schedule, err := s.Rates.Schedule(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	current := schedule.Current(s.now())
	if current == nil {
		return nil, nil
	}

	master, err := s.Rates.Master(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	if master != nil && domain.Date(master.EffectiveFrom).Equal(current.EffectiveFrom) {
		return master, nil
	}
	// The master row already points at a future change; rebuild the row
	// from the history entry in force.
	out := &domain.PenaltyInterestMaster{
		ID:            1,
		InterestRate:  current.Rate,
		EffectiveFrom: current.EffectiveFrom,
	}
	if master != nil {
		out.ID = master.ID
	}
	history, err := s.Rates.History(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	for _, h := range history {
		if domain.Date(h.EffectiveFrom).Equal(current.EffectiveFrom) {
			out.CreatedAt = h.CreatedAt
			out.UpdatedAt = h.CreatedAt
			break
		}
	}
	return out, nil
}

// GetHistory returns every rate change ordered by effective date
func (s *PenaltyService) GetHistory(ctx context.Context) ([]domain.PenaltyInterestHistory, error) {
	history, err := s.Rates.History(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	if history == nil {
		history = []domain.PenaltyInterestHistory{}
	}
	return history, nil
}

// UpdateRate schedules a new rate from effectiveFrom onward
func (s *PenaltyService) UpdateRate(ctx context.Context, request *domain.UpdatePenaltyRateRequest) (*domain.PenaltyInterestHistory, error) {
	if !utils.ValidRate(request.NewRate) {
		return nil, customError.WrapInvalidRate(request.NewRate.String())
	}
	from, err := domain.ParseDate(request.EffectiveFrom)
	if err != nil {
		return nil, customError.WrapInvalidEffectiveDate(err.Error())
	}

	entry, err := s.Rates.Commit(ctx, request.NewRate, from)
	if err != nil {
		return nil, dbError(err)
	}

	s.logger.Info("penalty rate changed",
		zap.String("op", "service.PenaltyService.UpdateRate"),
		zap.String("rate", entry.InterestRate.String()),
		zap.Time("effective_from", entry.EffectiveFrom))

	return entry, nil
}

// GetImpact previews how every active tenant's penalties would change if
// newRate applied from effectiveFrom, or to the whole timeline when
// effectiveFrom is nil. Tenants whose penalties are zero either way are left out.
func (s *PenaltyService) GetImpact(ctx context.Context, newRate decimal.Decimal, effectiveFrom *time.Time) ([]domain.TenantImpactPreview, error) {
	impacts, err := s.impacts(ctx, newRate, effectiveFrom)
	if err != nil {
		return nil, err
	}

	previews := make([]domain.TenantImpactPreview, 0, len(impacts))
	for _, ti := range impacts {
		previews = append(previews, ti.impact.Preview(ti.tenant.Name))
	}
	return previews, nil
}

// GetImpactExample picks the single month, across all tenants, whose
// penalty moves the most under newRate. Nil when nobody is affected.
func (s *PenaltyService) GetImpactExample(ctx context.Context, newRate decimal.Decimal) (*domain.PenaltyImpactExample, error) {
	impacts, err := s.impacts(ctx, newRate, nil)
	if err != nil {
		return nil, err
	}

	var (
		best       *engine.ImpactMonth
		bestTenant domain.Tenant
	)
	for _, ti := range impacts {
		m := ti.impact.LargestChange()
		if m == nil {
			continue
		}
		if best == nil || absDiff(m) > absDiff(best) {
			best = m
			bestTenant = ti.tenant
		}
	}
	if best == nil {
		return nil, nil
	}
	return best.Example(bestTenant.TenantID, bestTenant.Name), nil
}

type tenantImpact struct {
	tenant domain.Tenant
	impact *engine.Impact
}

func (s *PenaltyService) impacts(ctx context.Context, newRate decimal.Decimal, effectiveFrom *time.Time) ([]tenantImpact, error) {
	if !utils.ValidRate(newRate) {
		return nil, customError.WrapInvalidRate(newRate.String())
	}

	current, err := s.Rates.Schedule(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	hypothetical := current.WithChange(newRate, effectiveFrom)

	tenants, err := s.TenantRepo.ListActiveTenants(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	sort.Slice(tenants, func(i, j int) bool { return tenants[i].TenantID < tenants[j].TenantID })

	asOf := utils.StartOfDay(s.now())
	source := ledgerSource{tenants: s.TenantRepo, payments: s.PaymentRepo}

	var out []tenantImpact
	for _, tenant := range tenants {
		inputs, err := source.load(ctx, tenant.TenantID)
		if err != nil {
			return nil, err
		}
		base, err := inputs.baseLedger(asOf)
		if err != nil {
			if customError.IsClientError(err) {
				s.logger.Warn("skipping tenant in impact preview",
					zap.String("op", "service.PenaltyService.impacts"),
					zap.String("tenant_id", tenant.TenantID),
					zap.Error(err))
				continue
			}
			return nil, err
		}

		impact := engine.PreviewImpact(base, current, hypothetical, s.penalty)
		if impact.Affected() {
			out = append(out, tenantImpact{tenant: *inputs.tenant, impact: impact})
		}
	}
	return out, nil
}

func absDiff(m *engine.ImpactMonth) engine.Money {
	d := m.Difference()
	if d < 0 {
		return -d
	}
	return d
}
