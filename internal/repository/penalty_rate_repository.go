package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"
	customError "github.com/segyhp/rent-billing/pkg/errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// masterRateID is the single row of penalty_interest_master.
const masterRateID = 1

type penaltyRateRepository struct {
	db *sqlx.DB
}

func NewPenaltyRateRepository(db *sqlx.DB) PenaltyRateRepository {
	return &penaltyRateRepository{db: db}
}

func (r *penaltyRateRepository) GetCurrentRate(ctx context.Context) (*domain.PenaltyInterestMaster, error) {
	query := `
		SELECT id, interest_rate, effective_from, created_at, updated_at
		FROM penalty_interest_master
		WHERE id = $1
	`

	var master domain.PenaltyInterestMaster
	err := r.db.GetContext(ctx, &master, query, masterRateID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &master, nil
}

func (r *penaltyRateRepository) GetHistory(ctx context.Context) ([]domain.PenaltyInterestHistory, error) {
	query := `
		SELECT id, interest_rate, effective_from, created_at
		FROM penalty_interest_history
		ORDER BY effective_from, created_at
	`

	var history []domain.PenaltyInterestHistory
	if err := r.db.SelectContext(ctx, &history, query); err != nil {
		return nil, err
	}

	return history, nil
}

func (r *penaltyRateRepository) CommitRateChange(ctx context.Context, rate decimal.Decimal, effectiveFrom time.Time) (*domain.PenaltyInterestHistory, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Concurrent commits must see each other's latest entry.
	if _, err := tx.ExecContext(ctx, `LOCK TABLE penalty_interest_history IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return nil, err
	}

	var latest sql.NullTime
	if err := tx.GetContext(ctx, &latest, `SELECT MAX(effective_from) FROM penalty_interest_history`); err != nil {
		return nil, err
	}
	if latest.Valid && !effectiveFrom.After(latest.Time) {
		return nil, customError.WrapInvalidEffectiveDate(fmt.Sprintf(
			"effective date %s must be after the latest rate change on %s",
			effectiveFrom.Format(domain.DateLayout), latest.Time.Format(domain.DateLayout)))
	}

	now := time.Now().UTC()
	entry := &domain.PenaltyInterestHistory{
		ID:            uuid.New(),
		InterestRate:  rate,
		EffectiveFrom: effectiveFrom,
		CreatedAt:     now,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO penalty_interest_history (id, interest_rate, effective_from, created_at)
		VALUES ($1, $2, $3, $4)
	`, entry.ID, entry.InterestRate, entry.EffectiveFrom, entry.CreatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO penalty_interest_master (id, interest_rate, effective_from, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (id) DO UPDATE
		SET interest_rate = EXCLUDED.interest_rate,
		    effective_from = EXCLUDED.effective_from,
		    updated_at = EXCLUDED.updated_at
	`, masterRateID, rate, effectiveFrom, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return entry, nil
}
