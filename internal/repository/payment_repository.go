package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hmkim/club-ledger/internal/domain"
	"github.com/hmkim/club-ledger/pkg/dates"
)

const paymentColumns = `id, participant_id, date, year, month, amount, type, method, settlement_date, created_at`

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	// Derive the month bucket from the payment date so monthly lookups
	// stay on the (year, month) index.
	payment.Year, payment.Month = payment.Date.YearMonth()
	payment.CreatedAt = time.Now()

	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES (:id, :participant_id, :date, :year, :month, :amount, :type, :method, :settlement_date, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, payment)
	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE id = ?
	`

	var payment domain.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	payment.Year, payment.Month = payment.Date.YearMonth()

	query := `
		UPDATE payments
		SET participant_id = :participant_id, date = :date, year = :year, month = :month,
		    amount = :amount, type = :type, method = :method, settlement_date = :settlement_date
		WHERE id = :id
	`

	_, err := r.db.NamedExecContext(ctx, query, payment)
	return err
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id)
	return err
}

func (r *paymentRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM payments`)
	return err
}

func (r *paymentRepository) List(ctx context.Context) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		ORDER BY date, created_at
	`

	payments := []*domain.Payment{}
	if err := r.db.SelectContext(ctx, &payments, query); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) ListByDate(ctx context.Context, date dates.Date) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE date = ?
		ORDER BY created_at
	`

	payments := []*domain.Payment{}
	if err := r.db.SelectContext(ctx, &payments, query, date); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) ListByMonth(ctx context.Context, year, month int) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE year = ? AND month = ?
		ORDER BY date, created_at
	`

	payments := []*domain.Payment{}
	if err := r.db.SelectContext(ctx, &payments, query, year, month); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) ListByParticipant(ctx context.Context, participantID string) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE participant_id = ?
		ORDER BY date, created_at
	`

	payments := []*domain.Payment{}
	if err := r.db.SelectContext(ctx, &payments, query, participantID); err != nil {
		return nil, err
	}

	return payments, nil
}
