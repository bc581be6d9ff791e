package repository

import (
	"context"

	"github.com/hmkim/club-ledger/internal/domain"
	"github.com/hmkim/club-ledger/pkg/dates"
)

// ParticipantRepository defines the interface for participant data operations
type ParticipantRepository interface {
	// Create inserts a new participant, assigning an ID if unset
	Create(ctx context.Context, participant *domain.Participant) error

	// GetByID retrieves a participant by its ID
	GetByID(ctx context.Context, id string) (*domain.Participant, error)

	// Update replaces an existing participant, keyed by ID
	Update(ctx context.Context, participant *domain.Participant) error

	// Delete removes a participant. Payments are never cascade-deleted.
	Delete(ctx context.Context, id string) error

	// DeleteMany removes the given participants in one statement
	DeleteMany(ctx context.Context, ids []string) error

	// DeleteAll clears the participant roster
	DeleteAll(ctx context.Context) error

	// List returns every participant
	List(ctx context.Context) ([]*domain.Participant, error)

	// ListByStatus returns participants with the given status
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Participant, error)

	// ListOverdue returns participants whose next payment date is strictly
	// earlier than asOf. Participants with no scheduled payment are excluded.
	ListOverdue(ctx context.Context, asOf dates.Date) ([]*domain.Participant, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Create inserts a new payment record, assigning an ID if unset
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by its ID
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// Update replaces an existing payment, keyed by ID
	Update(ctx context.Context, payment *domain.Payment) error

	// Delete removes a payment record
	Delete(ctx context.Context, id string) error

	// DeleteAll clears all payment records
	DeleteAll(ctx context.Context) error

	// List returns every payment
	List(ctx context.Context) ([]*domain.Payment, error)

	// ListByDate returns payments made on exactly the given date
	ListByDate(ctx context.Context, date dates.Date) ([]*domain.Payment, error)

	// ListByMonth returns payments in the given year/month bucket
	ListByMonth(ctx context.Context, year, month int) ([]*domain.Payment, error)

	// ListByParticipant returns all payments for one participant
	ListByParticipant(ctx context.Context, participantID string) ([]*domain.Payment, error)
}
