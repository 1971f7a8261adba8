// Package handler exposes the transport operations over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"wastetrack/internal/declaration"
	httpapi "wastetrack/internal/http"
	"wastetrack/internal/wastetransport"
	id "wastetrack/pkg/domain"
	dErrors "wastetrack/pkg/domain-errors"
)

// Service defines the transport operations the HTTP layer needs.
type Service interface {
	Create(ctx context.Context, cmd wastetransport.Command) (*wastetransport.WasteTransport, error)
	Update(ctx context.Context, transportID id.TransportID, cmd wastetransport.Command) (*wastetransport.WasteTransport, error)
	Get(ctx context.Context, transportID id.TransportID) (*wastetransport.WasteTransport, error)
	RecordWeightTicket(ctx context.Context, transportID id.TransportID, number string, weightKg float64, occurredAt time.Time) (*declaration.ActivityLine, error)
}

// Handler handles transport endpoints.
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

// Register registers the transport routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/transports", h.handleCreate)
	r.Get("/transports/{id}", h.handleGet)
	r.Put("/transports/{id}", h.handleUpdate)
	r.Post("/transports/{id}/weight-tickets", h.handleWeightTicket)
}

type commandRequest struct {
	TransportDate    time.Time                  `json:"transport_date"`
	TransporterCocID string                     `json:"transporter_coc_id"`
	Goods            []wastetransport.GoodsItem `json:"goods"`
}

func (req commandRequest) command() wastetransport.Command {
	return wastetransport.Command{
		TransportDate:    req.TransportDate,
		TransporterCocID: req.TransporterCocID,
		Goods:            req.Goods,
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	transport, err := h.service.Create(ctx, req.command())
	if err != nil {
		h.writeTransportError(ctx, w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, transport)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	transportID, ok := h.transportID(w, r)
	if !ok {
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	transport, err := h.service.Update(ctx, transportID, req.command())
	if err != nil {
		h.writeTransportError(ctx, w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, transport)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	transportID, ok := h.transportID(w, r)
	if !ok {
		return
	}
	transport, err := h.service.Get(r.Context(), transportID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, transport)
}

type weightTicketRequest struct {
	Number     string    `json:"number"`
	WeightKg   float64   `json:"weight_kg"`
	OccurredAt time.Time `json:"occurred_at,omitzero"`
}

func (h *Handler) handleWeightTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	transportID, ok := h.transportID(w, r)
	if !ok {
		return
	}

	var req weightTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	line, err := h.service.RecordWeightTicket(ctx, transportID, req.Number, req.WeightKg, req.OccurredAt)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, line)
}

// writeTransportError gives the compatibility gate its own envelope so the
// caller can show which streams clashed and why.
func (h *Handler) writeTransportError(ctx context.Context, w http.ResponseWriter, err error) {
	var incompatible *wastetransport.IncompatibleWasteStreamsError
	if errors.As(err, &incompatible) {
		httpapi.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   "incompatible_waste_streams",
			"reason":  incompatible.Reason,
			"numbers": incompatible.Numbers,
		})
		return
	}
	h.logger.ErrorContext(ctx, "transport request failed", slog.String("error", err.Error()))
	httpapi.WriteError(w, err)
}

func (h *Handler) transportID(w http.ResponseWriter, r *http.Request) (id.TransportID, bool) {
	transportID, err := id.ParseTransportID(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.WriteError(w, err)
		return id.TransportID{}, false
	}
	return transportID, true
}
