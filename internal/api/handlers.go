package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tabsplit/tabsplit/internal/auth"
	"github.com/tabsplit/tabsplit/internal/calculator"
	"github.com/tabsplit/tabsplit/internal/middleware"
	"github.com/tabsplit/tabsplit/internal/models"
	"github.com/tabsplit/tabsplit/internal/money"
	"github.com/tabsplit/tabsplit/internal/receipt"
	"github.com/tabsplit/tabsplit/internal/service"
	"github.com/tabsplit/tabsplit/internal/storage"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	splits   *service.SplitService
	receipts *service.ReceiptService
	auth     *service.AuthService
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), map[string]string{"error": err.Error()})
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, calculator.ErrInvalidInput),
		errors.Is(err, money.ErrCurrencyMismatch),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailExists),
		errors.Is(err, service.ErrImportClosed),
		errors.Is(err, receipt.ErrNoDecisionPending),
		errors.Is(err, receipt.ErrDecisionPending):
		return http.StatusConflict
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// --- auth ---

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	session, err := h.auth.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// --- splits ---

func (h *Handlers) ComputeSplit(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSplitRequest(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	result, err := h.splits.Compute(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) SaveSplit(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSplitRequest(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	result, record, err := h.splits.ComputeAndSave(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"record": record,
		"result": result,
	})
}

func decodeSplitRequest(r *http.Request) (*models.SplitRequest, error) {
	var req models.SplitRequest
	if err := decode(r, &req); err != nil {
		return nil, errors.New("invalid request body: " + err.Error())
	}
	if req.Rounding == "" {
		req.Rounding = models.RoundNone
	}
	return &req, nil
}

func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.splits.History(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []*models.SplitRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.splits.Stats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) GetSplit(w http.ResponseWriter, r *http.Request) {
	record, err := h.splits.Record(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// --- reconcile ---

type reconcileRequest struct {
	Declared  money.Money `json:"declared"`
	Computed  money.Money `json:"computed"`
	Tolerance money.Money `json:"tolerance,omitzero"`
}

// Reconcile compares two totals directly, without running a split.
func (h *Handlers) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	tolerance := req.Tolerance
	if tolerance.Currency() == "" {
		tolerance = calculator.DefaultTolerance(req.Declared.Currency())
	}
	verdict, err := calculator.Evaluate(req.Declared, req.Computed, tolerance)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

// --- receipts ---

type importReceiptRequest struct {
	Currency      string                  `json:"currency"`
	DeclaredTotal money.Money             `json:"declared_total"`
	Items         []receipt.ExtractedItem `json:"items"`
}

func (h *Handlers) ImportReceipt(w http.ResponseWriter, r *http.Request) {
	var req importReceiptRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.Currency == "" {
		badRequest(w, "currency is required")
		return
	}
	imp, err := h.receipts.Import(r.Context(), middleware.GetUserID(r.Context()), req.Currency, req.DeclaredTotal, req.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, imp)
}

func (h *Handlers) GetReceipt(w http.ResponseWriter, r *http.Request) {
	imp, state, err := h.receipts.Get(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"import": imp,
		"review": state,
	})
}

// reviewAction adapts one review operation into a handler.
func (h *Handlers) reviewAction(run func(r *http.Request, userID, id string) (*service.ReviewState, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := run(r, middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

func (h *Handlers) FinalizeReceipt(w http.ResponseWriter, r *http.Request) {
	h.reviewAction(func(r *http.Request, userID, id string) (*service.ReviewState, error) {
		return h.receipts.Finalize(r.Context(), userID, id)
	})(w, r)
}

func (h *Handlers) AcceptReceipt(w http.ResponseWriter, r *http.Request) {
	h.reviewAction(func(r *http.Request, userID, id string) (*service.ReviewState, error) {
		return h.receipts.AcceptAnyway(r.Context(), userID, id)
	})(w, r)
}

func (h *Handlers) CorrectReceipt(w http.ResponseWriter, r *http.Request) {
	h.reviewAction(func(r *http.Request, userID, id string) (*service.ReviewState, error) {
		return h.receipts.Correct(r.Context(), userID, id)
	})(w, r)
}

type updateItemsRequest struct {
	Items []receipt.ExtractedItem `json:"items"`
}

func (h *Handlers) UpdateReceiptItems(w http.ResponseWriter, r *http.Request) {
	var req updateItemsRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	state, err := h.receipts.UpdateItems(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), req.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) RejectReceipt(w http.ResponseWriter, r *http.Request) {
	h.reviewAction(func(r *http.Request, userID, id string) (*service.ReviewState, error) {
		return h.receipts.Reject(r.Context(), userID, id)
	})(w, r)
}
