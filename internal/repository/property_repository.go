package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/segyhp/rent-billing/internal/domain"
	customError "github.com/segyhp/rent-billing/pkg/errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type propertyRepository struct {
	db *sqlx.DB
}

func NewPropertyRepository(db *sqlx.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	query := `
		INSERT INTO properties (id, billing_name, landlord_name, landlord_contact, address, billing_cycle, is_active, created_at, updated_at)
		VALUES (:id, :billing_name, :landlord_name, :landlord_contact, :address, :billing_cycle, :is_active, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, property)
	return err
}

func (r *propertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	query := `
		SELECT id, billing_name, landlord_name, landlord_contact, address, billing_cycle, is_active, created_at, updated_at
		FROM properties
		WHERE id = $1
	`

	var property domain.Property
	err := r.db.GetContext(ctx, &property, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapPropertyNotFound(id.String())
	}
	if err != nil {
		return nil, err
	}

	return &property, nil
}

func (r *propertyRepository) List(ctx context.Context) ([]domain.Property, error) {
	query := `
		SELECT id, billing_name, landlord_name, landlord_contact, address, billing_cycle, is_active, created_at, updated_at
		FROM properties
		ORDER BY billing_name
	`

	var properties []domain.Property
	if err := r.db.SelectContext(ctx, &properties, query); err != nil {
		return nil, err
	}

	return properties, nil
}
