package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"
	customError "github.com/segyhp/rent-billing/pkg/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is the postgres SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

type tenantRepository struct {
	db *sqlx.DB
}

func NewTenantRepository(db *sqlx.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `
		SELECT tenant_id, name, property_id, lease_start, is_active, deactivated_at, created_at, updated_at
		FROM tenants
		WHERE tenant_id = $1
	`

	var tenant domain.Tenant
	err := r.db.GetContext(ctx, &tenant, query, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapTenantNotFound(tenantID)
	}
	if err != nil {
		return nil, err
	}

	return &tenant, nil
}

func (r *tenantRepository) GetRentFactors(ctx context.Context, tenantID string) (*domain.RentFactors, error) {
	query := `
		SELECT id, tenant_id, basic_rent, property_tax, repair_cess, misc, effective_from, created_at
		FROM rent_factors
		WHERE tenant_id = $1
		ORDER BY effective_from DESC
		LIMIT 1
	`

	var factors domain.RentFactors
	err := r.db.GetContext(ctx, &factors, query, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &customError.ConfigurationError{TenantID: tenantID, Reason: "no rent factors configured"}
	}
	if err != nil {
		return nil, err
	}

	return &factors, nil
}

func (r *tenantRepository) ListRentFactors(ctx context.Context, tenantID string) ([]domain.RentFactors, error) {
	query := `
		SELECT id, tenant_id, basic_rent, property_tax, repair_cess, misc, effective_from, created_at
		FROM rent_factors
		WHERE tenant_id = $1
		ORDER BY effective_from
	`

	var factors []domain.RentFactors
	if err := r.db.SelectContext(ctx, &factors, query, tenantID); err != nil {
		return nil, err
	}

	return factors, nil
}

func (r *tenantRepository) ListActiveTenants(ctx context.Context) ([]domain.Tenant, error) {
	query := `
		SELECT tenant_id, name, property_id, lease_start, is_active, deactivated_at, created_at, updated_at
		FROM tenants
		WHERE is_active
		ORDER BY tenant_id
	`

	var tenants []domain.Tenant
	if err := r.db.SelectContext(ctx, &tenants, query); err != nil {
		return nil, err
	}

	return tenants, nil
}

func (r *tenantRepository) CreateTenant(ctx context.Context, tenant *domain.Tenant, factors *domain.RentFactors) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tenants (tenant_id, name, property_id, lease_start, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		tenant.TenantID,
		tenant.Name,
		tenant.PropertyID,
		tenant.LeaseStart,
		tenant.IsActive,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return customError.WrapTenantAlreadyExists(tenant.TenantID)
	}
	if err != nil {
		return err
	}

	if factors != nil {
		if err := insertRentFactors(ctx, tx, factors); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *tenantRepository) AddRentFactors(ctx context.Context, factors *domain.RentFactors) error {
	return insertRentFactors(ctx, r.db, factors)
}

func insertRentFactors(ctx context.Context, db sqlx.ExecerContext, factors *domain.RentFactors) error {
	query := `
		INSERT INTO rent_factors (id, tenant_id, basic_rent, property_tax, repair_cess, misc, effective_from, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tenant_id, effective_from) DO UPDATE
		SET basic_rent = EXCLUDED.basic_rent,
		    property_tax = EXCLUDED.property_tax,
		    repair_cess = EXCLUDED.repair_cess,
		    misc = EXCLUDED.misc
	`

	_, err := db.ExecContext(ctx, query,
		factors.ID,
		factors.TenantID,
		factors.BasicRent,
		factors.PropertyTax,
		factors.RepairCess,
		factors.Misc,
		factors.EffectiveFrom,
		factors.CreatedAt,
	)
	return err
}

func (r *tenantRepository) Deactivate(ctx context.Context, tenantID string, at time.Time) error {
	query := `
		UPDATE tenants
		SET is_active = FALSE, deactivated_at = $2, updated_at = $2
		WHERE tenant_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, tenantID, at)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.WrapTenantNotFound(tenantID)
	}

	return nil
}
