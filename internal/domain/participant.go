package domain

import (
	"time"

	"github.com/hmkim/club-ledger/pkg/dates"
)

// Status is a participant's membership lifecycle state.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusLapsed   Status = "lapsed"
)

// Valid reports whether s is one of the closed set of statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusLapsed:
		return true
	}
	return false
}

// Roster copy-type values. Descriptive only, no behavioral rules attach.
const (
	CopyTypeMinor = "소복사"
	CopyTypeMajor = "대복사"
)

// Participant represents a club member.
type Participant struct {
	ID         string `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	Gender     string `json:"gender,omitempty" db:"gender"`
	MemberType string `json:"member_type,omitempty" db:"member_type"`
	CopyType   string `json:"copy_type,omitempty" db:"copy_type"`
	Status     Status `json:"status" db:"status"`
	// NextPaymentDate is the next scheduled due date. Zero means no
	// scheduled payment, which exempts the participant from the overdue
	// sweep.
	NextPaymentDate dates.Date `json:"next_payment_date,omitempty" db:"next_payment_date"`
	Memo            string     `json:"memo,omitempty" db:"memo"`
	StudentPhone    string     `json:"student_phone,omitempty" db:"student_phone"`
	ParentPhone     string     `json:"parent_phone,omitempty" db:"parent_phone"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type RegisterParticipantRequest struct {
	Name            string `json:"name" validate:"required"`
	Gender          string `json:"gender"`
	MemberType      string `json:"member_type"`
	CopyType        string `json:"copy_type"`
	Status          string `json:"status" validate:"omitempty,oneof=active inactive lapsed"`
	NextPaymentDate string `json:"next_payment_date"`
	Memo            string `json:"memo"`
	StudentPhone    string `json:"student_phone"`
	ParentPhone     string `json:"parent_phone"`
}

type UpdateParticipantRequest struct {
	Name            string `json:"name" validate:"required"`
	Gender          string `json:"gender"`
	MemberType      string `json:"member_type"`
	CopyType        string `json:"copy_type"`
	Status          string `json:"status" validate:"required,oneof=active inactive lapsed"`
	NextPaymentDate string `json:"next_payment_date"`
	Memo            string `json:"memo"`
	StudentPhone    string `json:"student_phone"`
	ParentPhone     string `json:"parent_phone"`
}

// ListParticipantsQuery is the explicit filter/pagination state a caller
// passes in, rather than anything cached between calls.
type ListParticipantsQuery struct {
	Status   string `json:"status" validate:"omitempty,oneof=active inactive lapsed"`
	CopyType string `json:"copy_type"`
	Page     int    `json:"page" validate:"omitempty,gte=1"`
	PerPage  int    `json:"per_page" validate:"omitempty,gte=1,lte=200"`
}

type ParticipantPage struct {
	Participants []*Participant `json:"participants"`
	Total        int            `json:"total"`
	Page         int            `json:"page"`
	PerPage      int            `json:"per_page"`
	TotalPages   int            `json:"total_pages"`
}

type SweepResponse struct {
	AsOf         dates.Date `json:"as_of"`
	LapsedMarked int        `json:"lapsed_marked"`
}
