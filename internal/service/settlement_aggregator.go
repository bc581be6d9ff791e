package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/hmkim/club-ledger/internal/config"
	"github.com/hmkim/club-ledger/internal/domain"
	"github.com/hmkim/club-ledger/internal/repository"
	"github.com/hmkim/club-ledger/pkg/dates"
	customError "github.com/hmkim/club-ledger/pkg/errors"
)

// SettlementAggregator computes read-only summaries over payments and
// participants. It never writes through the repositories.
type SettlementAggregator struct {
	participants repository.ParticipantRepository
	payments     repository.PaymentRepository
	cache        *redis.Client
	cacheTTL     time.Duration
	monthlyFee   decimal.Decimal
}

func NewSettlementAggregator(
	participants repository.ParticipantRepository,
	payments repository.PaymentRepository,
	cache *redis.Client,
	cfg *config.Config,
) *SettlementAggregator {
	return &SettlementAggregator{
		participants: participants,
		payments:     payments,
		cache:        cache,
		cacheTTL:     cfg.GetCacheTTL(),
		monthlyFee:   decimal.NewFromInt(cfg.Business.MonthlyFee),
	}
}

// PaymentsByDate partitions the roster for one calendar date. A participant
// is paid when they have at least one payment dated exactly date. An unpaid
// participant is listed only when lapsed with a due date at or before date,
// or due exactly on date while not active. Active participants with nothing
// due and nothing paid that day are simply not relevant to the date and
// appear in neither list.
func (a *SettlementAggregator) PaymentsByDate(ctx context.Context, date dates.Date) (*domain.DailyPayments, error) {
	payments, err := a.payments.ListByDate(ctx, date)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	participants, err := a.participants.List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	paidIDs := make(map[string]struct{}, len(payments))
	for _, payment := range payments {
		paidIDs[payment.ParticipantID] = struct{}{}
	}

	result := &domain.DailyPayments{
		Date:   date,
		Paid:   []*domain.Participant{},
		Unpaid: []*domain.Participant{},
	}

	for _, participant := range participants {
		if _, ok := paidIDs[participant.ID]; ok {
			result.Paid = append(result.Paid, participant)
			continue
		}
		if participant.NextPaymentDate.IsZero() {
			continue
		}
		switch {
		case participant.Status == domain.StatusLapsed && !participant.NextPaymentDate.After(date):
			result.Unpaid = append(result.Unpaid, participant)
		case participant.NextPaymentDate == date && participant.Status != domain.StatusActive:
			result.Unpaid = append(result.Unpaid, participant)
		}
	}

	return result, nil
}

// MonthlySummary aggregates one month of payments: actual income, settled
// income, expected revenue (active headcount times the flat monthly fee,
// plus lesson-fee income), and the currently lapsed participants with the
// revenue they represent. Lapsed status is current state, not historical
// state as of the queried month.
//
// Cached summaries are invalidated only when a payment is recorded for the
// month. Status changes from the overdue sweep or a roster edit can be
// served stale from the cache until the TTL lapses.
func (a *SettlementAggregator) MonthlySummary(ctx context.Context, year, month int) (*domain.MonthlySettlement, error) {
	if month < 1 || month > 12 {
		return nil, customError.WrapValidation(fmt.Sprintf("month %d out of range", month), nil)
	}

	if cached := a.fromCache(ctx, year, month); cached != nil {
		return cached, nil
	}

	payments, err := a.payments.ListByMonth(ctx, year, month)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	participants, err := a.participants.List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	summary := &domain.MonthlySettlement{
		Year:               year,
		Month:              month,
		LapsedParticipants: []*domain.Participant{},
	}

	activeCount := int64(0)
	for _, participant := range participants {
		switch participant.Status {
		case domain.StatusActive:
			activeCount++
		case domain.StatusLapsed:
			summary.LapsedParticipants = append(summary.LapsedParticipants, participant)
		}
	}

	// Flat-fee estimate over active headcount; lesson fees are demand-based
	// and come in on top of it.
	summary.TotalExpectedRevenue = a.monthlyFee.Mul(decimal.NewFromInt(activeCount))

	for _, payment := range payments {
		summary.TotalActualPayment = summary.TotalActualPayment.Add(payment.Amount)
		if !payment.SettlementDate.IsZero() {
			summary.TotalSettledAmount = summary.TotalSettledAmount.Add(payment.Amount)
		}
		if payment.Type == domain.PaymentTypeLessonFee {
			summary.TotalExpectedRevenue = summary.TotalExpectedRevenue.Add(payment.Amount)
		}
	}

	summary.TotalLapsedAmount = a.monthlyFee.Mul(decimal.NewFromInt(int64(len(summary.LapsedParticipants))))

	a.toCache(ctx, summary)

	return summary, nil
}

// PaymentsForParticipant returns one participant's full payment history.
func (a *SettlementAggregator) PaymentsForParticipant(ctx context.Context, participantID string) ([]*domain.Payment, error) {
	if _, err := a.participants.GetByID(ctx, participantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapParticipantNotFound(participantID)
		}
		return nil, customError.WrapStorageError(err)
	}

	payments, err := a.payments.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	return payments, nil
}

func settlementCacheKey(year, month int) string {
	return fmt.Sprintf("settlement:%d:%02d", year, month)
}

func (a *SettlementAggregator) fromCache(ctx context.Context, year, month int) *domain.MonthlySettlement {
	if a.cache == nil {
		return nil
	}

	raw, err := a.cache.Get(ctx, settlementCacheKey(year, month)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("settlement cache read failed", "error", customError.WrapCacheError(err))
		}
		return nil
	}

	var summary domain.MonthlySettlement
	if err := json.Unmarshal(raw, &summary); err != nil {
		slog.Warn("settlement cache entry corrupt", "error", err)
		return nil
	}

	return &summary
}

func (a *SettlementAggregator) toCache(ctx context.Context, summary *domain.MonthlySettlement) {
	if a.cache == nil {
		return
	}

	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}

	if err := a.cache.Set(ctx, settlementCacheKey(summary.Year, summary.Month), raw, a.cacheTTL).Err(); err != nil {
		slog.Warn("settlement cache write failed", "error", customError.WrapCacheError(err))
	}
}
