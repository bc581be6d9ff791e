package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/hmkim/club-ledger/internal/config"
	"github.com/hmkim/club-ledger/internal/domain"
	"github.com/hmkim/club-ledger/internal/repository"
	"github.com/hmkim/club-ledger/pkg/dates"
	customError "github.com/hmkim/club-ledger/pkg/errors"
)

const defaultPerPage = 10

// ParticipantRegistry manages the participant roster: registration, edits,
// and deletion, single or bulk.
type ParticipantRegistry struct {
	participants    repository.ParticipantRepository
	defaultCopyType string
}

func NewParticipantRegistry(participants repository.ParticipantRepository, cfg *config.Config) *ParticipantRegistry {
	return &ParticipantRegistry{
		participants:    participants,
		defaultCopyType: cfg.Business.DefaultCopyType,
	}
}

// Register creates a participant. Status defaults to active, copy type to
// the configured default, and phone numbers are normalized by stripping
// dashes.
func (g *ParticipantRegistry) Register(ctx context.Context, request *domain.RegisterParticipantRequest) (*domain.Participant, error) {
	if strings.TrimSpace(request.Name) == "" {
		return nil, customError.WrapValidation("name is required", nil)
	}

	status := domain.Status(request.Status)
	if request.Status == "" {
		status = domain.StatusActive
	}
	if !status.Valid() {
		return nil, customError.WrapValidation("unknown status "+request.Status, nil)
	}

	copyType := request.CopyType
	if copyType != domain.CopyTypeMinor && copyType != domain.CopyTypeMajor {
		copyType = g.defaultCopyType
	}

	var nextPaymentDate dates.Date
	if request.NextPaymentDate != "" {
		var err error
		nextPaymentDate, err = dates.Parse(request.NextPaymentDate)
		if err != nil {
			return nil, customError.WrapValidation("next_payment_date must be a calendar date (YYYY-MM-DD)", customError.ErrInvalidDate)
		}
	}

	participant := &domain.Participant{
		Name:            strings.TrimSpace(request.Name),
		Gender:          request.Gender,
		MemberType:      request.MemberType,
		CopyType:        copyType,
		Status:          status,
		NextPaymentDate: nextPaymentDate,
		Memo:            request.Memo,
		StudentPhone:    normalizePhone(request.StudentPhone),
		ParentPhone:     normalizePhone(request.ParentPhone),
	}

	if err := g.participants.Create(ctx, participant); err != nil {
		return nil, customError.WrapStorageError(err)
	}

	return participant, nil
}

// Get returns a single participant by ID.
func (g *ParticipantRegistry) Get(ctx context.Context, id string) (*domain.Participant, error) {
	participant, err := g.participants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapParticipantNotFound(id)
		}
		return nil, customError.WrapStorageError(err)
	}
	return participant, nil
}

// Update replaces all administrator-editable fields of a participant,
// including a manual status override.
func (g *ParticipantRegistry) Update(ctx context.Context, id string, request *domain.UpdateParticipantRequest) (*domain.Participant, error) {
	participant, err := g.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(request.Name) == "" {
		return nil, customError.WrapValidation("name is required", nil)
	}

	status := domain.Status(request.Status)
	if !status.Valid() {
		return nil, customError.WrapValidation("unknown status "+request.Status, nil)
	}

	var nextPaymentDate dates.Date
	if request.NextPaymentDate != "" {
		nextPaymentDate, err = dates.Parse(request.NextPaymentDate)
		if err != nil {
			return nil, customError.WrapValidation("next_payment_date must be a calendar date (YYYY-MM-DD)", customError.ErrInvalidDate)
		}
	}

	copyType := request.CopyType
	if copyType != domain.CopyTypeMinor && copyType != domain.CopyTypeMajor {
		copyType = g.defaultCopyType
	}

	participant.Name = strings.TrimSpace(request.Name)
	participant.Gender = request.Gender
	participant.MemberType = request.MemberType
	participant.CopyType = copyType
	participant.Status = status
	participant.NextPaymentDate = nextPaymentDate
	participant.Memo = request.Memo
	participant.StudentPhone = normalizePhone(request.StudentPhone)
	participant.ParentPhone = normalizePhone(request.ParentPhone)

	if err := g.participants.Update(ctx, participant); err != nil {
		return nil, customError.WrapStorageError(err)
	}

	return participant, nil
}

// Delete removes one participant. Deletion is immediate and unrecoverable;
// the participant's payments are left in place.
func (g *ParticipantRegistry) Delete(ctx context.Context, id string) error {
	if _, err := g.Get(ctx, id); err != nil {
		return err
	}
	if err := g.participants.Delete(ctx, id); err != nil {
		return customError.WrapStorageError(err)
	}
	return nil
}

// DeleteMany removes the selected participants.
func (g *ParticipantRegistry) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return customError.WrapValidation("no participant IDs given", nil)
	}
	if err := g.participants.DeleteMany(ctx, ids); err != nil {
		return customError.WrapStorageError(err)
	}
	return nil
}

// DeleteAll clears the entire roster.
func (g *ParticipantRegistry) DeleteAll(ctx context.Context) error {
	if err := g.participants.DeleteAll(ctx); err != nil {
		return customError.WrapStorageError(err)
	}
	return nil
}

// List applies the caller's filter and pagination over a full roster scan.
// The roster is small enough that scanning beats maintaining extra indexes.
func (g *ParticipantRegistry) List(ctx context.Context, query *domain.ListParticipantsQuery) (*domain.ParticipantPage, error) {
	participants, err := g.participants.List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	filtered := participants[:0:0]
	for _, participant := range participants {
		if query.Status != "" && participant.Status != domain.Status(query.Status) {
			continue
		}
		if query.CopyType != "" && participant.CopyType != query.CopyType {
			continue
		}
		filtered = append(filtered, participant)
	}

	perPage := query.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	total := len(filtered)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &domain.ParticipantPage{
		Participants: filtered[start:end],
		Total:        total,
		Page:         page,
		PerPage:      perPage,
		TotalPages:   totalPages,
	}, nil
}

func normalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), "-", "")
}
