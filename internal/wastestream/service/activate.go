package service

import (
	"context"

	"wastetrack/internal/events"
	"wastetrack/internal/wastestream/models"
	dErrors "wastetrack/pkg/domain-errors"
	"wastetrack/pkg/requestcontext"
)

// CreateAndActivate runs the full draft lifecycle in three explicit steps:
//
//  1. create and persist the draft (committed before anything external runs)
//  2. submit the draft to the registry, a blocking network call that must
//     never execute inside an open database transaction
//  3. on a positive verdict, reload, activate and persist again
//
// A negative verdict is a normal outcome, not a failure: the stream simply
// stays DRAFT and the result tells the caller why. Errors from step 1 abort
// before any registry traffic.
func (s *Service) CreateAndActivate(ctx context.Context, cmd models.Command) (*models.ValidationResult, error) {
	ws, err := s.CreateDraft(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return s.validateAndActivate(ctx, ws)
}

// UpdateAndActivate mirrors CreateAndActivate for edits to an existing draft.
func (s *Service) UpdateAndActivate(ctx context.Context, number models.WasteStreamNumber, cmd models.Command) (*models.ValidationResult, error) {
	ws, err := s.UpdateExisting(ctx, number, cmd)
	if err != nil {
		return nil, err
	}
	return s.validateAndActivate(ctx, ws)
}

func (s *Service) validateAndActivate(ctx context.Context, ws *models.WasteStream) (*models.ValidationResult, error) {
	result, err := s.validator.Validate(ctx, ws)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordValidation(result.Valid)

	if !result.Valid {
		s.logger.Info("registry rejected waste stream, staying in draft",
			"number", ws.Number.String(),
			"errors", len(result.Errors),
		)
		return result, nil
	}

	// Reload: the aggregate may have been touched while the registry call
	// was in flight, and activation must apply to the persisted state.
	current, err := s.streams.FindByNumber(ctx, ws.Number)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "reload waste stream for activation")
	}
	if err := current.CanActivate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	current.ApplyActivation(now)
	if err := s.streams.Update(ctx, current); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist waste stream activation")
	}
	s.metrics.RecordActivation()

	if err := s.events.Publish(ctx, events.Event{
		Type:       events.TypeStreamActivated,
		Key:        current.Number.String(),
		OccurredAt: now,
		Attributes: map[string]string{
			"processor": current.Processor.RegistryNumber,
			"eural":     current.WasteType.EuralCode,
		},
	}); err != nil {
		s.logger.Warn("failed to publish activation event",
			"number", current.Number.String(),
			"error", err,
		)
	}
	return result, nil
}
