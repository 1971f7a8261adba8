// Package handler exposes the declaration operations over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"wastetrack/internal/declaration"
	httpapi "wastetrack/internal/http"
	dErrors "wastetrack/pkg/domain-errors"
)

// Service defines the declaration operations the HTTP layer needs.
type Service interface {
	DeclareFirstReceivals(ctx context.Context, period declaration.Period) (*declaration.Session, error)
	DeclareMonthlyReceivals(ctx context.Context, period declaration.Period) (*declaration.Session, error)
	Aggregate(ctx context.Context, period declaration.Period) ([]declaration.ReceivalDeclaration, error)
	GetSession(ctx context.Context, sessionID string) (*declaration.Session, error)
}

// Handler handles declaration endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register registers the declaration routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/declarations/first-receivals", h.run(h.service.DeclareFirstReceivals))
	r.Post("/declarations/monthly", h.run(h.service.DeclareMonthlyReceivals))
	r.Get("/declarations", h.handlePreview)
	r.Get("/declarations/sessions/{id}", h.handleGetSession)
}

type runRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// run triggers a declaration run for an explicit period. A whole-batch
// registry rejection still produced a persisted session, so it answers with
// the session and a failure marker rather than a bare error.
func (h *Handler) run(declare func(context.Context, declaration.Period) (*declaration.Session, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req runRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpapi.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
		period := declaration.Period{Year: req.Year, Month: time.Month(req.Month)}

		session, err := declare(ctx, period)
		if err != nil {
			var failed *declaration.SessionFailedError
			if errors.As(err, &failed) {
				httpapi.WriteJSON(w, http.StatusBadGateway, map[string]any{
					"session": session,
					"error":   failed.Error(),
				})
				return
			}
			h.logger.ErrorContext(ctx, "declaration run failed",
				slog.String("period", period.String()), slog.String("error", err.Error()))
			httpapi.WriteError(w, err)
			return
		}
		if session == nil {
			httpapi.WriteJSON(w, http.StatusOK, map[string]any{"session": nil, "message": "no declarations due"})
			return
		}
		httpapi.WriteJSON(w, http.StatusAccepted, map[string]any{"session": session})
	}
}

// handlePreview computes the period's aggregates without submitting anything.
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	period, err := parsePeriod(r)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	decls, err := h.service.Aggregate(ctx, period)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"declarations": decls})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, session)
}

func parsePeriod(r *http.Request) (declaration.Period, error) {
	var period declaration.Period
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		return period, dErrors.New(dErrors.CodeBadRequest, "year query parameter is required")
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		return period, dErrors.New(dErrors.CodeBadRequest, "month query parameter is required")
	}
	period.Year = year
	period.Month = time.Month(month)
	return period, nil
}
