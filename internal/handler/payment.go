package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/hmkim/club-ledger/internal/domain"
	"github.com/hmkim/club-ledger/internal/service"
	"github.com/hmkim/club-ledger/pkg/dates"
	"github.com/hmkim/club-ledger/pkg/response"
)

type PaymentHandler struct {
	recorder   *service.PaymentRecorder
	aggregator *service.SettlementAggregator
	engine     *service.StatusEngine
	validator  *validator.Validate
}

func NewPaymentHandler(
	recorder *service.PaymentRecorder,
	aggregator *service.SettlementAggregator,
	engine *service.StatusEngine,
) *PaymentHandler {
	return &PaymentHandler{
		recorder:   recorder,
		aggregator: aggregator,
		engine:     engine,
		validator:  validator.New(),
	}
}

func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var request domain.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid payment", err)
		return
	}

	paymentID, err := h.recorder.RecordPayment(r.Context(), &request)
	if err != nil {
		writeError(w, "failed to record payment", err)
		return
	}

	response.Created(w, domain.RecordPaymentResponse{PaymentID: paymentID})
}

// PaymentsByDate serves the daily paid/unpaid partition. The date query
// parameter defaults to today.
func (h *PaymentHandler) PaymentsByDate(w http.ResponseWriter, r *http.Request) {
	date := dates.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		var err error
		if date, err = dates.Parse(raw); err != nil {
			response.BadRequest(w, "date must be a calendar date (YYYY-MM-DD)", err)
			return
		}
	}

	daily, err := h.aggregator.PaymentsByDate(r.Context(), date)
	if err != nil {
		writeError(w, "failed to compute daily payments", err)
		return
	}

	response.Success(w, daily)
}

func (h *PaymentHandler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		response.BadRequest(w, "year must be a number", err)
		return
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil {
		response.BadRequest(w, "month must be a number", err)
		return
	}

	summary, err := h.aggregator.MonthlySummary(r.Context(), year, month)
	if err != nil {
		writeError(w, "failed to compute settlement summary", err)
		return
	}

	response.Success(w, summary)
}

func (h *PaymentHandler) PaymentsForParticipant(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["participantId"]

	payments, err := h.aggregator.PaymentsForParticipant(r.Context(), id)
	if err != nil {
		writeError(w, "failed to load payments", err)
		return
	}

	response.Success(w, payments)
}

// Sweep runs the overdue sweep. The as_of query parameter defaults to
// today.
func (h *PaymentHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	asOf := dates.Today()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		var err error
		if asOf, err = dates.Parse(raw); err != nil {
			response.BadRequest(w, "as_of must be a calendar date (YYYY-MM-DD)", err)
			return
		}
	}

	changed, err := h.engine.SweepOverdue(r.Context(), asOf)
	if err != nil {
		writeError(w, "overdue sweep failed", err)
		return
	}

	response.Success(w, domain.SweepResponse{AsOf: asOf, LapsedMarked: changed})
}
