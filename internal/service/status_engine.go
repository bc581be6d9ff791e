package service

import (
	"context"
	"log/slog"

	"github.com/hmkim/club-ledger/internal/domain"
	"github.com/hmkim/club-ledger/internal/repository"
	"github.com/hmkim/club-ledger/pkg/dates"
	customError "github.com/hmkim/club-ledger/pkg/errors"
)

// StatusEngine keeps participant status consistent with payment recency.
// There is no live scheduler inside it; callers run the sweep explicitly
// (server startup, the sweeper binary, or the sweep endpoint).
type StatusEngine struct {
	participants repository.ParticipantRepository
}

func NewStatusEngine(participants repository.ParticipantRepository) *StatusEngine {
	return &StatusEngine{participants: participants}
}

// SweepOverdue marks every participant whose next payment date is strictly
// earlier than asOf as lapsed and returns the number of participants
// changed. Participants with no scheduled payment are exempt; participants
// already lapsed are left alone, which makes the sweep idempotent for a
// fixed asOf. Inactive participants are NOT exempt: the sweep only ever
// moves participants into lapsed, never out of anything.
//
// A storage failure aborts the remaining updates; already-written updates
// stay written.
func (e *StatusEngine) SweepOverdue(ctx context.Context, asOf dates.Date) (int, error) {
	overdue, err := e.participants.ListOverdue(ctx, asOf)
	if err != nil {
		return 0, customError.WrapStorageError(err)
	}

	changed := 0
	for _, participant := range overdue {
		if participant.Status == domain.StatusLapsed {
			continue
		}

		participant.Status = domain.StatusLapsed
		if err := e.participants.Update(ctx, participant); err != nil {
			return changed, customError.WrapStorageError(err)
		}
		changed++

		slog.Info("participant lapsed",
			"participant_id", participant.ID,
			"name", participant.Name,
			"next_payment_date", participant.NextPaymentDate,
		)
	}

	return changed, nil
}
