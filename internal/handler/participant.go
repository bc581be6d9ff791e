package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/hmkim/club-ledger/internal/domain"
	"github.com/hmkim/club-ledger/internal/importer"
	"github.com/hmkim/club-ledger/internal/service"
	"github.com/hmkim/club-ledger/pkg/response"
)

// maxImportSize caps roster uploads at 10 MiB.
const maxImportSize = 10 << 20

type ParticipantHandler struct {
	registry  *service.ParticipantRegistry
	importer  *importer.RosterImporter
	validator *validator.Validate
}

func NewParticipantHandler(registry *service.ParticipantRegistry, rosterImporter *importer.RosterImporter) *ParticipantHandler {
	return &ParticipantHandler{
		registry:  registry,
		importer:  rosterImporter,
		validator: validator.New(),
	}
}

func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request domain.RegisterParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid participant", err)
		return
	}

	participant, err := h.registry.Register(r.Context(), &request)
	if err != nil {
		writeError(w, "failed to register participant", err)
		return
	}

	response.Created(w, participant)
}

func (h *ParticipantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["participantId"]

	participant, err := h.registry.Get(r.Context(), id)
	if err != nil {
		writeError(w, "failed to load participant", err)
		return
	}

	response.Success(w, participant)
}

func (h *ParticipantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["participantId"]

	var request domain.UpdateParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid participant", err)
		return
	}

	participant, err := h.registry.Update(r.Context(), id, &request)
	if err != nil {
		writeError(w, "failed to update participant", err)
		return
	}

	response.Success(w, participant)
}

func (h *ParticipantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["participantId"]

	if err := h.registry.Delete(r.Context(), id); err != nil {
		writeError(w, "failed to delete participant", err)
		return
	}

	response.Success(w, nil)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

func (h *ParticipantHandler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	var request bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "no participant IDs given", err)
		return
	}

	if err := h.registry.DeleteMany(r.Context(), request.IDs); err != nil {
		writeError(w, "failed to delete participants", err)
		return
	}

	response.Success(w, map[string]int{"deleted": len(request.IDs)})
}

func (h *ParticipantHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.DeleteAll(r.Context()); err != nil {
		writeError(w, "failed to delete participants", err)
		return
	}

	response.Success(w, nil)
}

func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	query := domain.ListParticipantsQuery{
		Status:   r.URL.Query().Get("status"),
		CopyType: r.URL.Query().Get("copy_type"),
	}
	query.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	query.PerPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))

	if err := h.validator.Struct(&query); err != nil {
		response.BadRequest(w, "invalid list query", err)
		return
	}

	page, err := h.registry.List(r.Context(), &query)
	if err != nil {
		writeError(w, "failed to list participants", err)
		return
	}

	response.Success(w, page)
}

// ImportRoster accepts a multipart upload with the roster under the "file"
// field.
func (h *ParticipantHandler) ImportRoster(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		response.BadRequest(w, "invalid multipart upload", err)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "missing roster file", err)
		return
	}
	defer file.Close()

	result, err := h.importer.ImportXLSX(r.Context(), file)
	if err != nil {
		writeError(w, "failed to import roster", err)
		return
	}

	response.Success(w, result)
}
