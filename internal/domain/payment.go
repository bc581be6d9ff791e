package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hmkim/club-ledger/pkg/dates"
)

// PaymentType classifies what a payment was for.
type PaymentType string

const (
	PaymentTypeMonthlyFee PaymentType = "monthly_fee"
	PaymentTypeLessonFee  PaymentType = "lesson_fee"
	PaymentTypeOther      PaymentType = "other"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeMonthlyFee, PaymentTypeLessonFee, PaymentTypeOther:
		return true
	}
	return false
}

// PaymentMethod is how a payment was made.
type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodOther    PaymentMethod = "other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodCash, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is a manually entered historical payment record. Year and Month
// are derived from Date at insert time so monthly lookups stay indexed.
type Payment struct {
	ID            string          `json:"id" db:"id"`
	ParticipantID string          `json:"participant_id" db:"participant_id"`
	Date          dates.Date      `json:"date" db:"date"`
	Year          int             `json:"year" db:"year"`
	Month         int             `json:"month" db:"month"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Type          PaymentType     `json:"type" db:"type"`
	Method        PaymentMethod   `json:"method" db:"method"`
	// SettlementDate is when a card/transfer payment cleared; zero means
	// not yet settled.
	SettlementDate dates.Date `json:"settlement_date,omitempty" db:"settlement_date"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type RecordPaymentRequest struct {
	ParticipantID  string          `json:"participant_id" validate:"required"`
	Date           string          `json:"date" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	Type           string          `json:"type" validate:"required,oneof=monthly_fee lesson_fee other"`
	Method         string          `json:"method" validate:"required,oneof=card cash transfer other"`
	SettlementDate string          `json:"settlement_date"`
}

type RecordPaymentResponse struct {
	PaymentID string `json:"payment_id"`
}
