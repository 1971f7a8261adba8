package amice

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"wastetrack/internal/platform/config"
	dErrors "wastetrack/pkg/domain-errors"
)

const (
	soapActionValidate = "ValideerAfvalstroomgegevens"
	soapActionDeclare  = "MeldingenAanleveren"
	soapActionRetrieve = "SessieResultaatOpvragen"
)

// Client is the SOAP transport to the registry. A client built from an empty
// endpoint is unconfigured: callers must check Configured before dispatching,
// since validation and declaration degrade differently when the registry is
// unreachable by construction.
type Client struct {
	endpoint string
	username string
	password string
	httpc    *http.Client
	breaker  *gobreaker.CircuitBreaker
}

func NewClient(cfg config.AmiceConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		username: cfg.Username,
		password: cfg.Password,
		httpc:    &http.Client{Timeout: cfg.RequestTimeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "amice",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// Configured reports whether an endpoint is set.
func (c *Client) Configured() bool {
	return c.endpoint != ""
}

// ValidateStream submits a validation request and returns the registry's
// verdict. The error return covers transport and protocol faults only; a
// rejection is a verdict, not a fault.
func (c *Client) ValidateStream(ctx context.Context, req AfvalstroomAanvraag) (*ValidatieAntwoord, error) {
	var resp ValidatieAntwoord
	if err := c.call(ctx, soapActionValidate, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitDeclarations delivers a batch of receival declarations in one
// session. The registry accepts or rejects the batch as a whole.
func (c *Client) SubmitDeclarations(ctx context.Context, meldingen []Melding) (*SessieAntwoord, error) {
	batch := struct {
		XMLName   xml.Name  `xml:"meldingenAanvraag"`
		Meldingen []Melding `xml:"melding"`
	}{Meldingen: meldingen}

	var resp SessieAntwoord
	if err := c.call(ctx, soapActionDeclare, batch, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RetrieveSession fetches the asynchronous processing outcome of a session.
func (c *Client) RetrieveSession(ctx context.Context, sessionID string) (*SessieResultaat, error) {
	req := struct {
		XMLName      xml.Name `xml:"sessieAanvraag"`
		SessieNummer string   `xml:"sessieNummer"`
	}{SessieNummer: sessionID}

	var resp SessieResultaat
	if err := c.call(ctx, soapActionRetrieve, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type soapEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	XMLNS   string   `xml:"xmlns:soap,attr"`
	Body    soapBody `xml:"soap:Body"`
}

type soapBody struct {
	Payload any `xml:",omitempty"`
}

type soapResponseEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Fault *soapFault `xml:"Fault"`
		Inner []byte     `xml:",innerxml"`
	} `xml:"Body"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	Reason string `xml:"faultstring"`
}

func (f *soapFault) Error() string {
	return fmt.Sprintf("soap fault %s: %s", f.Code, f.Reason)
}

func (c *Client) call(ctx context.Context, action string, payload, out any) error {
	if !c.Configured() {
		return dErrors.New(dErrors.CodeUnavailable, "amice endpoint not configured")
	}

	body, err := xml.Marshal(soapEnvelope{
		XMLNS: "http://schemas.xmlsoap.org/soap/envelope/",
		Body:  soapBody{Payload: payload},
	})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", action, err)
	}

	_, err = c.breaker.Execute(func() (any, error) {
		return nil, c.dispatch(ctx, action, body, out)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "amice circuit open")
	}
	return err
}

func (c *Client) dispatch(ctx context.Context, action string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		bytes.NewReader(append([]byte(xml.Header), body...)))
	if err != nil {
		return fmt.Errorf("build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", action)
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return dErrors.Wrapf(err, dErrors.CodeUnavailable, "amice %s", action)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", action, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusInternalServerError {
		// 500 still carries a SOAP fault body; anything else is transport.
		return dErrors.Newf(dErrors.CodeUnavailable, "amice %s returned status %d", action, resp.StatusCode)
	}

	var envelope soapResponseEnvelope
	if err := xml.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode %s envelope: %w", action, err)
	}
	if envelope.Body.Fault != nil {
		return envelope.Body.Fault
	}
	if err := xml.Unmarshal(envelope.Body.Inner, out); err != nil {
		return fmt.Errorf("decode %s body: %w", action, err)
	}
	return nil
}
