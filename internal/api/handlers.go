package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"coffee-bff/internal/guard"
	"coffee-bff/internal/models"
	"coffee-bff/internal/telemetry"

	"github.com/gorilla/mux"
)

const maxFormBytes = 64 << 10

type RateLimiter interface {
	IsRateLimited(ctx context.Context, ip string) bool
}

type Handler struct {
	guards  *guard.Dispatcher
	limiter RateLimiter
}

// NewHandler wires the dispatcher to HTTP. limiter may be nil.
func NewHandler(guards *guard.Dispatcher, limiter RateLimiter) *Handler {
	return &Handler{
		guards:  guards,
		limiter: limiter,
	}
}

// RunAction resolves the guard bound to the clicked button and answers with
// the Outcome the browser should follow.
func (h *Handler) RunAction(w http.ResponseWriter, r *http.Request) {
	if h.rateLimited(w, r) {
		return
	}

	button := mux.Vars(r)["button"]
	start := time.Now()

	outcome, err := h.guards.Dispatch(r.Context(), button)
	if errors.Is(err, guard.ErrUnknownAction) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	h.finish(w, r, outcome, start)
}

func (h *Handler) SubmitRecipe(w http.ResponseWriter, r *http.Request) {
	if h.rateLimited(w, r) {
		return
	}

	var form models.RecipeForm
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes)).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid recipe payload")
		return
	}

	start := time.Now()
	outcome := h.guards.SubmitRecipe(r.Context(), form)
	h.finish(w, r, outcome, start)
}

func (h *Handler) ListActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"buttons": guard.Buttons()})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) finish(w http.ResponseWriter, r *http.Request, outcome guard.Outcome, start time.Time) {
	result := "navigate"
	if outcome.Blocked() {
		result = string(outcome.Notice.Kind)
	}
	telemetry.RecordOutcome(string(outcome.Action), result)

	slog.Info("Guard resolved",
		"request_id", RequestIDFromContext(r.Context()),
		"action", outcome.Action,
		"outcome", result,
		"navigate", outcome.Navigate,
		"duration", time.Since(start),
	)
	writeJSON(w, http.StatusOK, outcome)
}

func (h *Handler) rateLimited(w http.ResponseWriter, r *http.Request) bool {
	if h.limiter == nil {
		return false
	}

	ip := clientIP(r)
	if h.limiter.IsRateLimited(r.Context(), ip) {
		slog.Warn("Rate limit exceeded", "ip", ip)
		writeError(w, http.StatusTooManyRequests, "Too many requests")
		return true
	}
	return false
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("JSON encode error", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorBody{Message: message})
}
