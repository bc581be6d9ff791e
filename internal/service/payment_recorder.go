package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/hmkim/club-ledger/internal/domain"
	"github.com/hmkim/club-ledger/internal/repository"
	"github.com/hmkim/club-ledger/pkg/dates"
	customError "github.com/hmkim/club-ledger/pkg/errors"
)

// PaymentRecorder records a single payment and advances the participant's
// payment schedule.
type PaymentRecorder struct {
	participants repository.ParticipantRepository
	payments     repository.PaymentRepository
	cache        *redis.Client
}

func NewPaymentRecorder(
	participants repository.ParticipantRepository,
	payments repository.PaymentRepository,
	cache *redis.Client,
) *PaymentRecorder {
	return &PaymentRecorder{
		participants: participants,
		payments:     payments,
		cache:        cache,
	}
}

// RecordPayment validates the request, persists a new payment, then rolls
// the participant's next payment date forward by one calendar month and
// reactivates them. The month rollover uses native date normalization, so a
// day-of-month past the end of the target month spills into the month after
// (Jan 31 + 1 month = Mar 2/3). Recording a payment sets status to active
// unconditionally, overriding even a manual inactive.
//
// The participant is looked up before anything is written, so a bad ID can
// never leave a dangling payment. The payment write and the participant
// update are still two separate writes: if the second fails, the payment
// stays recorded and the error surfaces to the caller.
func (r *PaymentRecorder) RecordPayment(ctx context.Context, request *domain.RecordPaymentRequest) (string, error) {
	if !request.Amount.IsInteger() || request.Amount.Sign() <= 0 {
		return "", customError.WrapInvalidAmount(request.Amount.String())
	}

	date, err := dates.Parse(request.Date)
	if err != nil {
		return "", customError.WrapValidation("date must be a calendar date (YYYY-MM-DD)", customError.ErrInvalidDate)
	}

	var settlementDate dates.Date
	if request.SettlementDate != "" {
		settlementDate, err = dates.Parse(request.SettlementDate)
		if err != nil {
			return "", customError.WrapValidation("settlement_date must be a calendar date (YYYY-MM-DD)", customError.ErrInvalidDate)
		}
	}

	paymentType := domain.PaymentType(request.Type)
	if !paymentType.Valid() {
		return "", customError.WrapValidation("unknown payment type "+request.Type, nil)
	}

	method := domain.PaymentMethod(request.Method)
	if !method.Valid() {
		return "", customError.WrapValidation("unknown payment method "+request.Method, nil)
	}

	participant, err := r.participants.GetByID(ctx, request.ParticipantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", customError.WrapParticipantNotFound(request.ParticipantID)
		}
		return "", customError.WrapStorageError(err)
	}

	payment := &domain.Payment{
		ParticipantID:  participant.ID,
		Date:           date,
		Amount:         request.Amount,
		Type:           paymentType,
		Method:         method,
		SettlementDate: settlementDate,
	}

	if err := r.payments.Create(ctx, payment); err != nil {
		return "", customError.WrapStorageError(err)
	}

	participant.NextPaymentDate = date.AddMonths(1)
	participant.Status = domain.StatusActive
	if err := r.participants.Update(ctx, participant); err != nil {
		return "", customError.WrapStorageError(err)
	}

	r.invalidateSummary(ctx, payment.Year, payment.Month)

	return payment.ID, nil
}

// invalidateSummary drops the cached settlement summary for the payment's
// month. Cache trouble never fails the recording.
func (r *PaymentRecorder) invalidateSummary(ctx context.Context, year, month int) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, settlementCacheKey(year, month)).Err(); err != nil {
		slog.Warn("settlement cache invalidation failed", "error", customError.WrapCacheError(err))
	}
}
