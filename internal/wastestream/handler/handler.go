// Package handler exposes the waste stream use cases over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	httpapi "wastetrack/internal/http"
	"wastetrack/internal/wastestream/models"
	dErrors "wastetrack/pkg/domain-errors"
)

// Service defines the waste stream operations the HTTP layer needs.
type Service interface {
	CreateAndActivate(ctx context.Context, cmd models.Command) (*models.ValidationResult, error)
	UpdateAndActivate(ctx context.Context, number models.WasteStreamNumber, cmd models.Command) (*models.ValidationResult, error)
	Validate(ctx context.Context, number models.WasteStreamNumber) (*models.ValidationResult, error)
	Get(ctx context.Context, number models.WasteStreamNumber) (*models.WasteStream, models.Status, error)
	ListByProcessor(ctx context.Context, processorNumber string) ([]*models.WasteStream, error)
}

// Handler handles waste stream endpoints.
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

// Register registers the waste stream routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/waste-streams", h.handleCreate)
	r.Get("/waste-streams", h.handleList)
	r.Get("/waste-streams/{number}", h.handleGet)
	r.Put("/waste-streams/{number}", h.handleUpdate)
	r.Post("/waste-streams/{number}/validate", h.handleValidate)
}

// streamResponse pairs the stored aggregate with its effective status, which
// may have decayed past what the stored column says.
type streamResponse struct {
	Stream          *models.WasteStream `json:"stream"`
	EffectiveStatus models.Status       `json:"effective_status"`
}

// handleCreate creates a draft and immediately runs the validate-then-activate
// flow. A registry rejection is a successful request: the draft exists and the
// body says why it did not activate.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cmd models.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		httpapi.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.service.CreateAndActivate(ctx, cmd)
	if err != nil {
		h.logger.ErrorContext(ctx, "create waste stream failed", slog.String("error", err.Error()))
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number, ok := h.number(w, r)
	if !ok {
		return
	}

	var cmd models.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		httpapi.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.service.UpdateAndActivate(ctx, number, cmd)
	if err != nil {
		h.logger.ErrorContext(ctx, "update waste stream failed",
			slog.String("number", number.String()), slog.String("error", err.Error()))
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, result)
}

// handleValidate submits the stream to the registry without touching its
// status; the verdict body is the response either way.
func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number, ok := h.number(w, r)
	if !ok {
		return
	}

	result, err := h.service.Validate(ctx, number)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number, ok := h.number(w, r)
	if !ok {
		return
	}

	ws, effective, err := h.service.Get(ctx, number)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, streamResponse{Stream: ws, EffectiveStatus: effective})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	processor := r.URL.Query().Get("processor")
	if processor == "" {
		httpapi.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "processor query parameter is required"))
		return
	}

	streams, err := h.service.ListByProcessor(ctx, processor)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"streams": streams})
}

func (h *Handler) number(w http.ResponseWriter, r *http.Request) (models.WasteStreamNumber, bool) {
	number, err := models.ParseWasteStreamNumber(chi.URLParam(r, "number"))
	if err != nil {
		httpapi.WriteError(w, err)
		return "", false
	}
	return number, true
}
