package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hmkim/club-ledger/internal/domain"
	"github.com/hmkim/club-ledger/pkg/dates"
)

const participantColumns = `id, name, gender, member_type, copy_type, status, next_payment_date, memo, student_phone, parent_phone, created_at, updated_at`

type participantRepository struct {
	db *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Create(ctx context.Context, participant *domain.Participant) error {
	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}
	if participant.Status == "" {
		participant.Status = domain.StatusActive
	}
	now := time.Now()
	participant.CreatedAt = now
	participant.UpdatedAt = now

	query := `
		INSERT INTO participants (` + participantColumns + `)
		VALUES (:id, :name, :gender, :member_type, :copy_type, :status, :next_payment_date, :memo, :student_phone, :parent_phone, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, participant)
	return err
}

func (r *participantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants
		WHERE id = ?
	`

	var participant domain.Participant
	if err := r.db.GetContext(ctx, &participant, query, id); err != nil {
		return nil, err
	}

	return &participant, nil
}

func (r *participantRepository) Update(ctx context.Context, participant *domain.Participant) error {
	participant.UpdatedAt = time.Now()

	query := `
		UPDATE participants
		SET name = :name, gender = :gender, member_type = :member_type, copy_type = :copy_type,
		    status = :status, next_payment_date = :next_payment_date, memo = :memo,
		    student_phone = :student_phone, parent_phone = :parent_phone, updated_at = :updated_at
		WHERE id = :id
	`

	_, err := r.db.NamedExecContext(ctx, query, participant)
	return err
}

func (r *participantRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = ?`, id)
	return err
}

func (r *participantRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM participants WHERE id IN (?)`, ids)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	return err
}

func (r *participantRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM participants`)
	return err
}

func (r *participantRepository) List(ctx context.Context) ([]*domain.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants
		ORDER BY name, id
	`

	participants := []*domain.Participant{}
	if err := r.db.SelectContext(ctx, &participants, query); err != nil {
		return nil, err
	}

	return participants, nil
}

func (r *participantRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants
		WHERE status = ?
		ORDER BY name, id
	`

	participants := []*domain.Participant{}
	if err := r.db.SelectContext(ctx, &participants, query, status); err != nil {
		return nil, err
	}

	return participants, nil
}

func (r *participantRepository) ListOverdue(ctx context.Context, asOf dates.Date) ([]*domain.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants
		WHERE next_payment_date IS NOT NULL AND next_payment_date < ?
		ORDER BY name, id
	`

	participants := []*domain.Participant{}
	if err := r.db.SelectContext(ctx, &participants, query, asOf); err != nil {
		return nil, err
	}

	return participants, nil
}
