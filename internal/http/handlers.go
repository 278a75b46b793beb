package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"budget/internal/core"
	"budget/internal/ledger"
	applog "budget/internal/log"
)

type createTransactionRequest struct {
	ID          string  `json:"id"`
	AccountID   string  `json:"accountId"`
	CategoryID  *string `json:"categoryId"`
	Amount      string  `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

type createTransactionResponse struct {
	ID string `json:"id"`
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		if err := s.deps.Ready(r.Context()); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", "error", err)
			respondError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	respond(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	var req createTransactionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	t, err := req.toTransaction()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.deps.Transactions.Record(ctx, t)
	switch {
	case isValidationError(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, ledger.ErrDuplicate):
		respondError(w, http.StatusConflict, "transaction id already exists")
		return
	case err != nil:
		logger.ErrorContext(ctx, "Failed to record transaction", applog.NewFields().
			WithOperation(applog.OpRecord).
			WithError(err).
			ToSlice()...)
		respondError(w, http.StatusInternalServerError, "failed to record transaction")
		return
	}

	logger.InfoContext(ctx, "Transaction recorded", "transaction_id", id, "month", t.Month())
	respond(w, http.StatusCreated, createTransactionResponse{ID: id})
}

func (req createTransactionRequest) toTransaction() (core.Transaction, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{
		ID:          strings.TrimSpace(req.ID),
		AccountID:   sanitizeInput(req.AccountID),
		Amount:      amount,
		Date:        strings.TrimSpace(req.Date),
		Description: sanitizeInput(req.Description),
	}
	if req.CategoryID != nil {
		t.CategoryID = core.CategoryRef(sanitizeInput(*req.CategoryID))
	}
	return t, nil
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrEmptyID,
		core.ErrEmptyAccount,
		core.ErrEmptyCategoryRef,
		core.ErrInvalidDate,
		core.ErrInvalidAmount,
		core.ErrDescriptionLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r, "month", s.now())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.deps.Lister.ListTransactions(r.Context(), month)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to list transactions", "month", month, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	// Stores may return neighbours; keep only the requested month.
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Month() == month {
			out = append(out, t)
		}
	}
	respond(w, http.StatusOK, out)
}

func (s *Server) handleListMonths(w http.ResponseWriter, r *http.Request) {
	months, err := s.deps.Months.ListMonths(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to list months", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list months")
		return
	}
	respond(w, http.StatusOK, months)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r, "month", s.now())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.deps.Summaries.Summary(r.Context(), month)
	if err != nil {
		s.summaryError(w, r, err)
		return
	}
	respond(w, http.StatusOK, summary)
}

func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		respondError(w, http.StatusBadRequest, "from and to are required")
		return
	}
	from, err := core.ParseMonthKey(q.Get("from"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := core.ParseMonthKey(q.Get("to"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	summaries, err := s.deps.Summaries.Range(r.Context(), from, to)
	if err != nil {
		s.summaryError(w, r, err)
		return
	}
	respond(w, http.StatusOK, summaries)
}

func (s *Server) summaryError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrInvalidMonth) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to compute summary", "error", err)
	respondError(w, http.StatusInternalServerError, "failed to compute summary")
}
