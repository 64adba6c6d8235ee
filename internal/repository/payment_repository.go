package repository

import (
	"context"

	"github.com/segyhp/rent-billing/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) ListPayments(ctx context.Context, tenantID string) ([]domain.PaymentEntry, error) {
	query := `
		SELECT id, tenant_id, rent_month, received_amount, rent_allocated, penalty_allocated,
		       outstanding_allocated, payment_type, payment_method, payment_date, cheque_number,
		       bank_name, transaction_id, penalty_waived, remarks, created_at
		FROM payments
		WHERE tenant_id = $1
		ORDER BY payment_date, created_at
	`

	var payments []domain.PaymentEntry
	if err := r.db.SelectContext(ctx, &payments, query, tenantID); err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return payments, nil
	}

	linesQuery := `
		SELECT l.payment_id, l.rent_month, l.bucket, l.amount
		FROM payment_allocations l
		JOIN payments p ON p.id = l.payment_id
		WHERE p.tenant_id = $1
		ORDER BY l.payment_id, l.line_no
	`

	var lines []domain.AllocationLine
	if err := r.db.SelectContext(ctx, &lines, linesQuery, tenantID); err != nil {
		return nil, err
	}

	byPayment := make(map[uuid.UUID][]domain.AllocationLine, len(payments))
	for _, l := range lines {
		byPayment[l.PaymentID] = append(byPayment[l.PaymentID], l)
	}
	for i := range payments {
		payments[i].Lines = byPayment[payments[i].ID]
	}

	return payments, nil
}

func (r *paymentRepository) InsertPayment(ctx context.Context, payment *domain.PaymentEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (id, tenant_id, rent_month, received_amount, rent_allocated, penalty_allocated,
		                      outstanding_allocated, payment_type, payment_method, payment_date, cheque_number,
		                      bank_name, transaction_id, penalty_waived, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		payment.ID,
		payment.TenantID,
		payment.RentMonth,
		payment.ReceivedAmount,
		payment.RentAllocated,
		payment.PenaltyAllocated,
		payment.OutstandingAllocated,
		payment.PaymentType,
		payment.PaymentMethod,
		payment.PaymentDate,
		payment.ChequeNumber,
		payment.BankName,
		payment.TransactionID,
		payment.PenaltyWaived,
		payment.Remarks,
		payment.CreatedAt,
	)
	if err != nil {
		return err
	}

	lineQuery := `
		INSERT INTO payment_allocations (payment_id, line_no, rent_month, bucket, amount)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i, l := range payment.Lines {
		if _, err = tx.ExecContext(ctx, lineQuery, payment.ID, i+1, l.RentMonth, l.Bucket, l.Amount); err != nil {
			return err
		}
	}

	return tx.Commit()
}
