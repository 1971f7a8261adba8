package amice

import (
	"context"

	"wastetrack/internal/declaration"
	dErrors "wastetrack/pkg/domain-errors"
)

// Declarator carries declaration sessions over the registry's batch protocol.
// Unlike validation, a missing configuration here is an error: declarations
// are a legal obligation and silently skipping them is not an option.
type Declarator struct {
	client *Client
}

func NewDeclarator(client *Client) *Declarator {
	return &Declarator{client: client}
}

func (d *Declarator) Submit(ctx context.Context, _ declaration.Kind, items []declaration.Item) (declaration.Submission, error) {
	if !d.client.Configured() {
		return declaration.Submission{}, dErrors.New(dErrors.CodeUnavailable, "registry connection is not configured")
	}

	meldingen := make([]Melding, 0, len(items))
	for _, item := range items {
		meldingen = append(meldingen, MapDeclaration(item.Stream, item.Declaration))
	}

	resp, err := d.client.SubmitDeclarations(ctx, meldingen)
	if err != nil {
		return declaration.Submission{}, err
	}
	return declaration.Submission{SessionID: resp.SessieNummer, Accepted: resp.Succes}, nil
}

func (d *Declarator) Retrieve(ctx context.Context, sessionID string) (declaration.Outcome, error) {
	resp, err := d.client.RetrieveSession(ctx, sessionID)
	if err != nil {
		return declaration.Outcome{}, err
	}

	outcome := declaration.Outcome{
		Resolved: resp.Status != SessieStatusPending,
		Accepted: resp.Status == SessieStatusAccepted,
	}
	for _, f := range resp.Fouten {
		outcome.Errors = append(outcome.Errors, declaration.ErrorDetail{
			Code:        f.FoutCode,
			Description: f.Foutomschrijving,
		})
	}
	return outcome, nil
}
