package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hmkim/club-ledger/internal/domain"
	customError "github.com/hmkim/club-ledger/pkg/errors"
)

func TestExport_SnapshotsBothStores(t *testing.T) {
	mockParticipantRepo := &MockParticipantRepository{}
	mockPaymentRepo := &MockPaymentRepository{}
	backupService := NewBackupService(mockParticipantRepo, mockPaymentRepo)

	participants := []*domain.Participant{{ID: "p1", Name: "Kim"}}
	payments := []*domain.Payment{{ID: "pay1", ParticipantID: "p1"}}

	mockParticipantRepo.On("List", mock.Anything).Return(participants, nil)
	mockPaymentRepo.On("List", mock.Anything).Return(payments, nil)

	backup, err := backupService.Export(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, domain.BackupVersion, backup.Version)
	assert.False(t, backup.ExportDate.IsZero())
	assert.Equal(t, participants, backup.Data.Participants)
	assert.Equal(t, payments, backup.Data.Payments)
}

func TestImport_MalformedEnvelopeDeletesNothing(t *testing.T) {
	mockParticipantRepo := &MockParticipantRepository{}
	mockPaymentRepo := &MockPaymentRepository{}
	backupService := NewBackupService(mockParticipantRepo, mockPaymentRepo)

	cases := map[string]*domain.Backup{
		"nil backup":      nil,
		"missing version": {Data: domain.BackupData{Participants: []*domain.Participant{}, Payments: []*domain.Payment{}}},
		"missing participants": {
			Version: domain.BackupVersion,
			Data:    domain.BackupData{Payments: []*domain.Payment{}},
		},
		"missing payments": {
			Version: domain.BackupVersion,
			Data:    domain.BackupData{Participants: []*domain.Participant{}},
		},
	}

	for name, backup := range cases {
		t.Run(name, func(t *testing.T) {
			err := backupService.Import(context.Background(), backup)

			assert.Error(t, err)
			var businessErr *customError.BusinessError
			assert.ErrorAs(t, err, &businessErr)
			assert.Equal(t, customError.ErrCodeInvalidBackup, businessErr.Code)
		})
	}

	mockParticipantRepo.AssertNotCalled(t, "DeleteAll", mock.Anything)
	mockPaymentRepo.AssertNotCalled(t, "DeleteAll", mock.Anything)
}

func TestImport_ReplacesExistingData(t *testing.T) {
	mockParticipantRepo := &MockParticipantRepository{}
	mockPaymentRepo := &MockPaymentRepository{}
	backupService := NewBackupService(mockParticipantRepo, mockPaymentRepo)

	backup := &domain.Backup{
		Version: domain.BackupVersion,
		Data: domain.BackupData{
			Participants: []*domain.Participant{{ID: "p1", Name: "Kim"}, {ID: "p2", Name: "Lee"}},
			Payments:     []*domain.Payment{{ID: "pay1", ParticipantID: "p1"}},
		},
	}

	mockParticipantRepo.On("DeleteAll", mock.Anything).Return(nil)
	mockPaymentRepo.On("DeleteAll", mock.Anything).Return(nil)
	mockParticipantRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Times(2)
	mockPaymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	err := backupService.Import(context.Background(), backup)

	assert.NoError(t, err)
	mockParticipantRepo.AssertExpectations(t)
	mockPaymentRepo.AssertExpectations(t)
}

func TestImport_ToleratesOlderVersion(t *testing.T) {
	mockParticipantRepo := &MockParticipantRepository{}
	mockPaymentRepo := &MockPaymentRepository{}
	backupService := NewBackupService(mockParticipantRepo, mockPaymentRepo)

	backup := &domain.Backup{
		Version: domain.BackupVersion + 1,
		Data: domain.BackupData{
			Participants: []*domain.Participant{},
			Payments:     []*domain.Payment{},
		},
	}

	mockParticipantRepo.On("DeleteAll", mock.Anything).Return(nil)
	mockPaymentRepo.On("DeleteAll", mock.Anything).Return(nil)

	err := backupService.Import(context.Background(), backup)

	assert.NoError(t, err)
}
