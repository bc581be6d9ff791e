package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/hmkim/club-ledger/internal/domain"
	"github.com/hmkim/club-ledger/internal/repository"
	customError "github.com/hmkim/club-ledger/pkg/errors"
)

// BackupService exports and restores full snapshots of the ledger. Restore
// is destructive: existing data is cleared before the snapshot is loaded.
type BackupService struct {
	participants repository.ParticipantRepository
	payments     repository.PaymentRepository
}

func NewBackupService(
	participants repository.ParticipantRepository,
	payments repository.PaymentRepository,
) *BackupService {
	return &BackupService{
		participants: participants,
		payments:     payments,
	}
}

// Export snapshots every participant and payment.
func (b *BackupService) Export(ctx context.Context) (*domain.Backup, error) {
	participants, err := b.participants.List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	payments, err := b.payments.List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	return &domain.Backup{
		Version:    domain.BackupVersion,
		ExportDate: time.Now(),
		Data: domain.BackupData{
			Participants: participants,
			Payments:     payments,
		},
	}, nil
}

// Import validates the snapshot envelope, clears all existing data, and
// loads the snapshot's records. A version mismatch is logged and tolerated;
// a malformed envelope is rejected before anything is deleted.
func (b *BackupService) Import(ctx context.Context, backup *domain.Backup) error {
	if backup == nil || backup.Version == 0 {
		return customError.WrapInvalidBackup("missing version")
	}
	if backup.Data.Participants == nil || backup.Data.Payments == nil {
		return customError.WrapInvalidBackup("missing participants or payments array")
	}

	if backup.Version != domain.BackupVersion {
		slog.Warn("importing backup from a different version",
			"expected", domain.BackupVersion,
			"got", backup.Version,
		)
	}

	if err := b.participants.DeleteAll(ctx); err != nil {
		return customError.WrapStorageError(err)
	}
	if err := b.payments.DeleteAll(ctx); err != nil {
		return customError.WrapStorageError(err)
	}

	for _, participant := range backup.Data.Participants {
		if err := b.participants.Create(ctx, participant); err != nil {
			return customError.WrapStorageError(err)
		}
	}
	for _, payment := range backup.Data.Payments {
		if err := b.payments.Create(ctx, payment); err != nil {
			return customError.WrapStorageError(err)
		}
	}

	slog.Info("backup restored",
		"participants", len(backup.Data.Participants),
		"payments", len(backup.Data.Payments),
	)

	return nil
}
