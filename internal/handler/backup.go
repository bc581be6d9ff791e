package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hmkim/club-ledger/internal/domain"
	"github.com/hmkim/club-ledger/internal/service"
	"github.com/hmkim/club-ledger/pkg/response"
)

type BackupHandler struct {
	backup *service.BackupService
}

func NewBackupHandler(backup *service.BackupService) *BackupHandler {
	return &BackupHandler{backup: backup}
}

func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	backup, err := h.backup.Export(r.Context())
	if err != nil {
		writeError(w, "failed to export backup", err)
		return
	}

	response.Success(w, backup)
}

func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	var backup domain.Backup
	if err := json.NewDecoder(r.Body).Decode(&backup); err != nil {
		response.BadRequest(w, "invalid backup payload", err)
		return
	}

	if err := h.backup.Import(r.Context(), &backup); err != nil {
		writeError(w, "failed to import backup", err)
		return
	}

	response.Success(w, map[string]int{
		"participants": len(backup.Data.Participants),
		"payments":     len(backup.Data.Payments),
	})
}
