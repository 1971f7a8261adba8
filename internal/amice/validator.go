package amice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"wastetrack/internal/wastestream/models"
)

// Validator submits waste streams to the registry and folds every failure
// mode into a displayable verdict. An unconfigured client or a transport
// fault never surfaces as an error: operators see an invalid result with a
// local error entry instead, and the stream simply stays a draft.
type Validator struct {
	client *Client
	log    *slog.Logger
}

func NewValidator(client *Client, log *slog.Logger) *Validator {
	if log == nil {
		log = slog.Default()
	}
	return &Validator{client: client, log: log}
}

func (v *Validator) Validate(ctx context.Context, ws *models.WasteStream) (*models.ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !v.client.Configured() {
		v.log.WarnContext(ctx, "waste stream validation skipped, registry not configured",
			slog.String("number", ws.Number.String()))
		return models.Invalid(ws.Number, models.ValidationCodeConfig,
			"registry connection is not configured"), nil
	}

	req := MapStream(ws)
	resp, err := v.client.ValidateStream(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		v.log.ErrorContext(ctx, "registry validation call failed",
			slog.String("number", ws.Number.String()),
			slog.String("error_type", fmt.Sprintf("%T", err)),
			slog.String("error", err.Error()))
		return models.Invalid(ws.Number, models.ValidationCodeSOAP,
			fmt.Sprintf("registry call failed (%T): %v", err, err)), nil
	}

	result := &models.ValidationResult{
		Number: ws.Number,
		Valid:  resp.Valide(),
	}
	for _, f := range resp.Fouten {
		result.Errors = append(result.Errors, models.ValidationError{
			Code:        f.FoutCode,
			Description: f.Foutomschrijving,
		})
	}
	if echo := resp.AanvraagGegevens; echo != nil {
		result.RequestData, _ = json.Marshal(echo)
	} else {
		result.RequestData, _ = json.Marshal(req)
	}
	return result, nil
}
