package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hmkim/club-ledger/pkg/dates"
)

// DailyPayments partitions participants for one calendar date into those who
// paid that day and those still owing for it. Active participants with no
// obligation on the date appear in neither list.
type DailyPayments struct {
	Date   dates.Date     `json:"date"`
	Paid   []*Participant `json:"paid"`
	Unpaid []*Participant `json:"unpaid"`
}

// MonthlySettlement aggregates one calendar month of payments against the
// current participant roster.
type MonthlySettlement struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	// TotalExpectedRevenue is active-participant headcount times the flat
	// monthly fee, plus actual lesson-fee income for the month.
	TotalExpectedRevenue decimal.Decimal `json:"total_expected_revenue"`
	TotalActualPayment   decimal.Decimal `json:"total_actual_payment"`
	TotalSettledAmount   decimal.Decimal `json:"total_settled_amount"`
	// LapsedParticipants reflects current status, not status as of the
	// queried month.
	LapsedParticipants []*Participant  `json:"lapsed_participants"`
	TotalLapsedAmount  decimal.Decimal `json:"total_lapsed_amount"`
}

// Backup is the versioned snapshot written by export and consumed by import.
type Backup struct {
	Version    int        `json:"version"`
	ExportDate time.Time  `json:"export_date"`
	Data       BackupData `json:"data"`
}

type BackupData struct {
	Participants []*Participant `json:"participants"`
	Payments     []*Payment     `json:"payments"`
}

// BackupVersion is bumped whenever the snapshot shape changes.
const BackupVersion = 1
