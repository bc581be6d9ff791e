package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hmkim/club-ledger/internal/config"
	"github.com/hmkim/club-ledger/internal/domain"
	customError "github.com/hmkim/club-ledger/pkg/errors"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Business.MonthlyFee = 50000
	cfg.Redis.TTL = "10m"
	return cfg
}

func newTestAggregator(participants *MockParticipantRepository, payments *MockPaymentRepository) *SettlementAggregator {
	return NewSettlementAggregator(participants, payments, nil, testConfig())
}

func TestMonthlySummary_Totals(t *testing.T) {
	// Arrange
	mockParticipantRepo := &MockParticipantRepository{}
	mockPaymentRepo := &MockPaymentRepository{}
	aggregator := newTestAggregator(mockParticipantRepo, mockPaymentRepo)

	payments := []*domain.Payment{
		{ID: "pay1", Amount: decimal.NewFromInt(100000), Type: domain.PaymentTypeMonthlyFee, SettlementDate: "2024-03-02"},
		{ID: "pay2", Amount: decimal.NewFromInt(50000), Type: domain.PaymentTypeLessonFee},
	}
	participants := []*domain.Participant{
		{ID: "p1", Status: domain.StatusActive},
		{ID: "p2", Status: domain.StatusActive},
	}

	mockPaymentRepo.On("ListByMonth", mock.Anything, 2024, 3).Return(payments, nil)
	mockParticipantRepo.On("List", mock.Anything).Return(participants, nil)

	// Act
	summary, err := aggregator.MonthlySummary(context.Background(), 2024, 3)

	// Assert
	assert.NoError(t, err)
	assert.True(t, summary.TotalActualPayment.Equal(decimal.NewFromInt(150000)))
	assert.True(t, summary.TotalSettledAmount.Equal(decimal.NewFromInt(100000)))
	// 2 active * 50000 flat fee + 50000 lesson income
	assert.True(t, summary.TotalExpectedRevenue.Equal(decimal.NewFromInt(150000)))
	assert.Empty(t, summary.LapsedParticipants)
	assert.True(t, summary.TotalLapsedAmount.IsZero())
}

func TestMonthlySummary_LapsedUsesCurrentStatus(t *testing.T) {
	mockParticipantRepo := &MockParticipantRepository{}
	mockPaymentRepo := &MockPaymentRepository{}
	aggregator := newTestAggregator(mockParticipantRepo, mockPaymentRepo)

	participants := []*domain.Participant{
		{ID: "p1", Status: domain.StatusActive},
		{ID: "p2", Status: domain.StatusLapsed},
		{ID: "p3", Status: domain.StatusLapsed},
		{ID: "p4", Status: domain.StatusInactive},
	}

	mockPaymentRepo.On("ListByMonth", mock.Anything, 2024, 1).Return([]*domain.Payment{}, nil)
	mockParticipantRepo.On("List", mock.Anything).Return(participants, nil)

	summary, err := aggregator.MonthlySummary(context.Background(), 2024, 1)

	assert.NoError(t, err)
	assert.Len(t, summary.LapsedParticipants, 2)
	assert.True(t, summary.TotalLapsedAmount.Equal(decimal.NewFromInt(100000)))
	// Inactive participants count neither as active nor as lapsed.
	assert.True(t, summary.TotalExpectedRevenue.Equal(decimal.NewFromInt(50000)))
}

func TestMonthlySummary_MonthOutOfRange(t *testing.T) {
	aggregator := newTestAggregator(&MockParticipantRepository{}, &MockPaymentRepository{})

	_, err := aggregator.MonthlySummary(context.Background(), 2024, 13)

	assert.True(t, customError.IsValidation(err))
}

func TestMonthlySummary_StorageErrorPropagates(t *testing.T) {
	mockParticipantRepo := &MockParticipantRepository{}
	mockPaymentRepo := &MockPaymentRepository{}
	aggregator := newTestAggregator(mockParticipantRepo, mockPaymentRepo)

	mockPaymentRepo.On("ListByMonth", mock.Anything, 2024, 3).Return(nil, errors.New("io error"))

	_, err := aggregator.MonthlySummary(context.Background(), 2024, 3)

	var be *customError.BusinessError
	assert.ErrorAs(t, err, &be)
	assert.Equal(t, customError.ErrCodeStorageError, be.Code)
}

func TestPaymentsByDate_Partition(t *testing.T) {
	mockParticipantRepo := &MockParticipantRepository{}
	mockPaymentRepo := &MockPaymentRepository{}
	aggregator := newTestAggregator(mockParticipantRepo, mockPaymentRepo)

	payments := []*domain.Payment{
		{ID: "pay1", ParticipantID: "paid-today", Date: "2024-03-02"},
	}
	participants := []*domain.Participant{
		// Paid today: always in paid, whatever the status.
		{ID: "paid-today", Status: domain.StatusLapsed, NextPaymentDate: "2024-02-01"},
		// Lapsed with a due date on or before the target date: unpaid.
		{ID: "lapsed-overdue", Status: domain.StatusLapsed, NextPaymentDate: "2024-03-01"},
		// Due exactly today and not active: unpaid.
		{ID: "inactive-due", Status: domain.StatusInactive, NextPaymentDate: "2024-03-02"},
		// Active with no obligation today: in neither list.
		{ID: "active-quiet", Status: domain.StatusActive, NextPaymentDate: "2024-04-01"},
		// Active and due today: not listed either (only non-active are).
		{ID: "active-due", Status: domain.StatusActive, NextPaymentDate: "2024-03-02"},
		// No schedule at all: never unpaid.
		{ID: "no-schedule", Status: domain.StatusLapsed},
	}

	mockPaymentRepo.On("ListByDate", mock.Anything, mock.Anything).Return(payments, nil)
	mockParticipantRepo.On("List", mock.Anything).Return(participants, nil)

	daily, err := aggregator.PaymentsByDate(context.Background(), "2024-03-02")

	assert.NoError(t, err)

	paidIDs := participantIDs(daily.Paid)
	unpaidIDs := participantIDs(daily.Unpaid)

	assert.Equal(t, []string{"paid-today"}, paidIDs)
	assert.Equal(t, []string{"lapsed-overdue", "inactive-due"}, unpaidIDs)
}

func TestPaymentsForParticipant_UnknownParticipant(t *testing.T) {
	mockParticipantRepo := &MockParticipantRepository{}
	mockPaymentRepo := &MockPaymentRepository{}
	aggregator := newTestAggregator(mockParticipantRepo, mockPaymentRepo)

	mockParticipantRepo.On("GetByID", mock.Anything, "ghost").Return(nil, sql.ErrNoRows)

	_, err := aggregator.PaymentsForParticipant(context.Background(), "ghost")

	assert.True(t, customError.IsNotFound(err))
}

func participantIDs(participants []*domain.Participant) []string {
	ids := make([]string, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.ID)
	}
	return ids
}
