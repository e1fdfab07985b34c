package calculator

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"go-chi-calculator/internal/calc"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"
)

// Handler exposes a Service over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !h.decode(w, r, "create_session", &req, true) {
		return
	}

	id, view, err := h.svc.CreateSession(r.Context(), req.Mode, req.AngleMode)
	if err != nil {
		h.fail(w, r, "create_session", err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, SessionResponse{ID: id, View: view})
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	view, err := h.svc.Session(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get_session", err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, SessionResponse{ID: id, View: view})
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete_session", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PressKeys handles POST /calculator/sessions/{id}/keys
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req KeysRequest
	if !h.decode(w, r, "press_keys", &req, false) {
		return
	}

	view, results, err := h.svc.PressKeys(r.Context(), id, req.Keys)
	if err != nil {
		h.fail(w, r, "press_keys", err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, KeysResponse{ID: id, View: view, Keys: results})
}

// SetMode handles PUT /calculator/sessions/{id}/mode
func (h *Handler) SetMode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ModeRequest
	if !h.decode(w, r, "set_mode", &req, false) {
		return
	}

	view, err := h.svc.SetMode(r.Context(), id, req.Mode)
	if err != nil {
		h.fail(w, r, "set_mode", err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, SessionResponse{ID: id, View: view})
}

// ToggleAngle handles POST /calculator/sessions/{id}/angle
func (h *Handler) ToggleAngle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	view, err := h.svc.ToggleAngle(r.Context(), id)
	if err != nil {
		h.fail(w, r, "toggle_angle", err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, SessionResponse{ID: id, View: view})
}

// Evaluate handles POST /calculator/evaluate: the keys run on a throwaway
// engine and the display after every key is returned.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if !h.decode(w, r, "evaluate", &req, false) {
		return
	}

	view, results, err := h.svc.Evaluate(r.Context(), req.Mode, req.AngleMode, req.Keys)
	if err != nil {
		h.fail(w, r, "evaluate", err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, KeysResponse{View: view, Keys: results})
}

// Layout handles GET /calculator/layouts/{mode}
func (h *Handler) Layout(w http.ResponseWriter, r *http.Request) {
	mode, err := calc.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		h.fail(w, r, "layout", err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, LayoutResponse{Mode: mode, Rows: calc.Layout(mode)})
}

// decode reads a JSON body into dst. An empty body is accepted only when
// optional is set.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, opName string, dst any, optional bool) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}

	ctx := r.Context()
	observability.RecordError(ctx, trace.SpanFromContext(ctx), observability.LoggerWithTrace(ctx),
		errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
	return false
}

// fail maps service errors onto HTTP statuses.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, session.ErrNotFound):
		status, msg = http.StatusNotFound, "session not found"
	case IsInputError(err):
		status, msg = http.StatusBadRequest, err.Error()
	}

	ctx := r.Context()
	observability.RecordError(ctx, trace.SpanFromContext(ctx), observability.LoggerWithTrace(ctx),
		errorCounter, opName, msg, err, status, w)
}
