package service

import (
	"context"
	"fmt"
	"time"

	"github.com/segyhp/rent-billing/internal/config"
	"github.com/segyhp/rent-billing/internal/domain"
	"github.com/segyhp/rent-billing/internal/engine"
	"github.com/segyhp/rent-billing/internal/repository"
	customError "github.com/segyhp/rent-billing/pkg/errors"
	"github.com/segyhp/rent-billing/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BillingService struct {
	TenantRepo   repository.TenantRepository
	PropertyRepo repository.PropertyRepository
	PaymentRepo  repository.PaymentRepository
	Rates        *RateStore
	Locker       TenantLocker

	penalty engine.PenaltyOptions
	policy  engine.OverpaymentPolicy
	logger  *zap.Logger
	now     func() time.Time
}

func NewBillingService(
	tenantRepo repository.TenantRepository,
	propertyRepo repository.PropertyRepository,
	paymentRepo repository.PaymentRepository,
	rates *RateStore,
	locker TenantLocker,
	cfg *config.Config,
	logger *zap.Logger,
) *BillingService {
	return &BillingService{
		TenantRepo:   tenantRepo,
		PropertyRepo: propertyRepo,
		PaymentRepo:  paymentRepo,
		Rates:        rates,
		Locker:       locker,
		penalty:      cfg.GetPenaltyOptions(),
		policy:       cfg.GetOverpaymentPolicy(),
		logger:       logger,
		now:          time.Now,
	}
}

func (s *BillingService) source() ledgerSource {
	return ledgerSource{tenants: s.TenantRepo, payments: s.PaymentRepo}
}

func (s *BillingService) today() time.Time {
	return utils.StartOfDay(s.now())
}

// ledger rebuilds the tenant's ledger with penalty charged as of asOf.
func (s *BillingService) ledger(ctx context.Context, tenantID string, asOf time.Time) (*engine.Ledger, error) {
	inputs, err := s.source().load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	schedule, err := s.Rates.Schedule(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	return engine.Compute(*inputs.tenant, inputs.factors, inputs.payments, asOf, schedule, s.penalty)
}

// GetLedger returns the month-by-month ledger of a tenant as of asOf
func (s *BillingService) GetLedger(ctx context.Context, tenantID string, asOf time.Time) (*domain.LedgerResponse, error) {
	ledger, err := s.ledger(ctx, tenantID, asOf)
	if err != nil {
		return nil, err
	}
	return ledger.Response(), nil
}

// ListPayments returns every recorded payment of a tenant
func (s *BillingService) ListPayments(ctx context.Context, tenantID string) ([]domain.PaymentEntry, error) {
	if _, err := s.TenantRepo.GetTenant(ctx, tenantID); err != nil {
		return nil, dbError(err)
	}
	payments, err := s.PaymentRepo.ListPayments(ctx, tenantID)
	if err != nil {
		return nil, dbError(err)
	}
	if payments == nil {
		payments = []domain.PaymentEntry{}
	}
	return payments, nil
}

// PreviewPayment computes how a payment would be allocated without storing it
func (s *BillingService) PreviewPayment(ctx context.Context, tenantID string, request *domain.MakePaymentRequest) (*domain.PaymentAllocation, error) {
	payReq, err := s.paymentRequest(tenantID, request)
	if err != nil {
		return nil, err
	}
	ledger, err := s.ledger(ctx, tenantID, payReq.Date)
	if err != nil {
		return nil, err
	}
	return engine.Allocate(payReq, ledger, s.policy)
}

// RecordPayment allocates a payment against a fresh ledger and stores it.
// Payments of one tenant are recorded one at a time.
func (s *BillingService) RecordPayment(ctx context.Context, tenantID string, request *domain.MakePaymentRequest) (*domain.PaymentEntry, error) {
	payReq, err := s.paymentRequest(tenantID, request)
	if err != nil {
		return nil, err
	}

	unlock, err := s.Locker.Lock(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	inputs, err := s.source().load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, p := range inputs.payments {
		if domain.Date(p.PaymentDate).After(payReq.Date) {
			return nil, customError.WrapValidation(fmt.Errorf(
				"payment date %s is before the last recorded payment on %s",
				payReq.Date.Format(domain.DateLayout), p.PaymentDate.Format(domain.DateLayout)))
		}
	}

	schedule, err := s.Rates.Schedule(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	ledger, err := engine.Compute(*inputs.tenant, inputs.factors, inputs.payments, payReq.Date, schedule, s.penalty)
	if err != nil {
		return nil, err
	}

	allocation, err := engine.Allocate(payReq, ledger, s.policy)
	if err != nil {
		return nil, err
	}

	rentMonth := domain.MonthOf(payReq.Date)
	if payReq.TargetMonth != nil {
		rentMonth = *payReq.TargetMonth
	}
	entry := &domain.PaymentEntry{
		ID:                   uuid.New(),
		TenantID:             tenantID,
		RentMonth:            &rentMonth,
		ReceivedAmount:       allocation.ReceivedAmount,
		RentAllocated:        allocation.RentAllocated,
		PenaltyAllocated:     allocation.PenaltyAllocated,
		OutstandingAllocated: allocation.OutstandingAllocated,
		PaymentType:          allocation.PaymentType,
		PaymentMethod:        request.PaymentMethod,
		PaymentDate:          payReq.Date,
		ChequeNumber:         request.ChequeNumber,
		BankName:             request.BankName,
		TransactionID:        request.TransactionID,
		PenaltyWaived:        request.WaivePenalty,
		Remarks:              request.Remarks,
		CreatedAt:            s.now().UTC(),
		Lines:                allocation.Lines,
	}

	if err := s.PaymentRepo.InsertPayment(ctx, entry); err != nil {
		return nil, dbError(err)
	}

	s.logger.Info("payment recorded",
		zap.String("op", "service.BillingService.RecordPayment"),
		zap.String("tenant_id", tenantID),
		zap.String("payment_id", entry.ID.String()),
		zap.String("amount", entry.ReceivedAmount.String()),
		zap.Stringer("payment_type", entry.PaymentType),
		zap.String("credit", allocation.Credit.String()))

	return entry, nil
}

func (s *BillingService) paymentRequest(tenantID string, request *domain.MakePaymentRequest) (engine.PaymentRequest, error) {
	// amounts are stored as NUMERIC(12,2)
	if !request.Amount.IsPositive() || !request.Amount.Equal(request.Amount.Round(2)) {
		return engine.PaymentRequest{}, customError.WrapInvalidPaymentAmount(request.Amount.String())
	}

	date := s.today()
	if request.PaymentDate != "" {
		parsed, err := domain.ParseDate(request.PaymentDate)
		if err != nil {
			return engine.PaymentRequest{}, customError.WrapValidation(err)
		}
		if parsed.After(date) {
			return engine.PaymentRequest{}, customError.WrapValidation(fmt.Errorf("payment date %s is in the future", request.PaymentDate))
		}
		date = parsed
	}

	payReq := engine.PaymentRequest{
		TenantID:     tenantID,
		Amount:       request.Amount,
		Date:         date,
		WaivePenalty: request.WaivePenalty,
	}
	if request.TargetMonth != "" {
		month, err := domain.ParseRentMonth(request.TargetMonth)
		if err != nil {
			return engine.PaymentRequest{}, customError.WrapValidation(err)
		}
		payReq.TargetMonth = &month
	}
	return payReq, nil
}

// OverdueReport lists active tenants with unpaid past rent or penalty as of asOf.
// A tenant whose ledger cannot be built is logged and skipped.
func (s *BillingService) OverdueReport(ctx context.Context, asOf time.Time) ([]domain.OverdueTenant, error) {
	tenants, err := s.TenantRepo.ListActiveTenants(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	schedule, err := s.Rates.Schedule(ctx)
	if err != nil {
		return nil, dbError(err)
	}

	report := make([]domain.OverdueTenant, 0)
	for _, tenant := range tenants {
		ledger, err := s.overdueLedger(ctx, tenant.TenantID, asOf, schedule)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logf := s.logger.Error
			if customError.IsClientError(err) {
				logf = s.logger.Warn
			}
			logf("skipping tenant in overdue report",
				zap.String("op", "service.BillingService.OverdueReport"),
				zap.String("tenant_id", tenant.TenantID),
				zap.Error(err))
			continue
		}

		dues := ledger.Dues()
		if dues.Outstanding+dues.Penalty <= 0 {
			continue
		}
		report = append(report, domain.OverdueTenant{
			TenantID:       tenant.TenantID,
			TenantName:     tenant.Name,
			OutstandingDue: dues.Outstanding.Decimal(),
			PenaltyDue:     dues.Penalty.Decimal(),
			TotalDue:       dues.Total().Decimal(),
			DaysOverdue:    daysOverdue(ledger),
		})
	}
	return report, nil
}

func (s *BillingService) overdueLedger(ctx context.Context, tenantID string, asOf time.Time, schedule engine.RateSchedule) (*engine.Ledger, error) {
	inputs, err := s.source().load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return engine.Compute(*inputs.tenant, inputs.factors, inputs.payments, asOf, schedule, s.penalty)
}

// daysOverdue counts from the trigger date of the oldest month whose rent is
// still unpaid past its grace period.
func daysOverdue(ledger *engine.Ledger) int {
	for _, m := range ledger.Months {
		if m.PenaltyShouldApply && m.PrincipalPending() > 0 {
			return utils.DaysOverdue(m.PenaltyTriggerDate, ledger.AsOf)
		}
	}
	return 0
}

// CreateTenant registers a tenant and, when given, its first rent factors
func (s *BillingService) CreateTenant(ctx context.Context, request *domain.CreateTenantRequest) (*domain.TenantResponse, error) {
	if request.PropertyID != nil {
		if _, err := s.PropertyRepo.GetByID(ctx, *request.PropertyID); err != nil {
			return nil, dbError(err)
		}
	}

	now := s.now().UTC()
	tenant := &domain.Tenant{
		TenantID:   request.TenantID,
		Name:       request.Name,
		PropertyID: request.PropertyID,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if request.LeaseStart != "" {
		start, err := domain.ParseDate(request.LeaseStart)
		if err != nil {
			return nil, customError.WrapValidation(err)
		}
		tenant.LeaseStart = &start
	}

	var factors *domain.RentFactors
	if request.RentFactors != nil {
		f, err := rentFactors(tenant.TenantID, request.RentFactors, now)
		if err != nil {
			return nil, err
		}
		factors = f
	}

	if err := s.TenantRepo.CreateTenant(ctx, tenant, factors); err != nil {
		return nil, dbError(err)
	}

	s.logger.Info("tenant created",
		zap.String("op", "service.BillingService.CreateTenant"),
		zap.String("tenant_id", tenant.TenantID))

	return tenantResponse(tenant, factors), nil
}

// GetTenant returns a tenant with its latest rent factors
func (s *BillingService) GetTenant(ctx context.Context, tenantID string) (*domain.TenantResponse, error) {
	tenant, err := s.TenantRepo.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, dbError(err)
	}
	factors, err := s.TenantRepo.GetRentFactors(ctx, tenantID)
	if err != nil && !customError.IsClientError(err) {
		return nil, dbError(err)
	}
	return tenantResponse(tenant, factors), nil
}

// UpdateRentFactors adds a rent factor snapshot effective from its month onward
func (s *BillingService) UpdateRentFactors(ctx context.Context, tenantID string, request *domain.RentFactorsRequest) (*domain.RentFactors, error) {
	if _, err := s.TenantRepo.GetTenant(ctx, tenantID); err != nil {
		return nil, dbError(err)
	}
	factors, err := rentFactors(tenantID, request, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.TenantRepo.AddRentFactors(ctx, factors); err != nil {
		return nil, dbError(err)
	}

	s.logger.Info("rent factors updated",
		zap.String("op", "service.BillingService.UpdateRentFactors"),
		zap.String("tenant_id", tenantID),
		zap.Stringer("effective_from", factors.EffectiveFrom),
		zap.String("total_rent", factors.TotalRent().String()))

	return factors, nil
}

// DeactivateTenant stops billing a tenant; history is kept
func (s *BillingService) DeactivateTenant(ctx context.Context, tenantID string) error {
	if err := s.TenantRepo.Deactivate(ctx, tenantID, s.now().UTC()); err != nil {
		return dbError(err)
	}
	s.logger.Info("tenant deactivated",
		zap.String("op", "service.BillingService.DeactivateTenant"),
		zap.String("tenant_id", tenantID))
	return nil
}

func (s *BillingService) CreateProperty(ctx context.Context, request *domain.CreatePropertyRequest) (*domain.Property, error) {
	now := s.now().UTC()
	cycle := request.BillingCycle
	if cycle == "" {
		cycle = domain.BillingCycleMonthly
	}
	property := &domain.Property{
		ID:              uuid.New(),
		BillingName:     request.BillingName,
		LandlordName:    request.LandlordName,
		LandlordContact: request.LandlordContact,
		Address:         request.Address,
		BillingCycle:    cycle,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.PropertyRepo.Create(ctx, property); err != nil {
		return nil, dbError(err)
	}
	return property, nil
}

func (s *BillingService) GetProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	property, err := s.PropertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	return property, nil
}

func (s *BillingService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	properties, err := s.PropertyRepo.List(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	if properties == nil {
		properties = []domain.Property{}
	}
	return properties, nil
}

func rentFactors(tenantID string, request *domain.RentFactorsRequest, now time.Time) (*domain.RentFactors, error) {
	from, err := domain.ParseRentMonth(request.EffectiveFrom)
	if err != nil {
		return nil, customError.WrapValidation(err)
	}
	for name, v := range map[string]decimal.Decimal{
		"BASIC_RENT":   request.BasicRent,
		"PROPERTY_TAX": request.PropertyTax,
		"REPAIR_CESS":  request.RepairCess,
		"MISC":         request.Misc,
	} {
		if v.IsNegative() {
			return nil, customError.WrapValidation(fmt.Errorf("%s must not be negative", name))
		}
	}
	return &domain.RentFactors{
		ID:            uuid.New(),
		TenantID:      tenantID,
		BasicRent:     request.BasicRent,
		PropertyTax:   request.PropertyTax,
		RepairCess:    request.RepairCess,
		Misc:          request.Misc,
		EffectiveFrom: from,
		CreatedAt:     now,
	}, nil
}

func tenantResponse(tenant *domain.Tenant, factors *domain.RentFactors) *domain.TenantResponse {
	resp := &domain.TenantResponse{Tenant: tenant, RentFactors: factors}
	if factors != nil {
		total := factors.TotalRent()
		resp.TotalRent = &total
	}
	return resp
}
