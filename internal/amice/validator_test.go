package amice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wastetrack/internal/platform/config"
	"wastetrack/internal/wastestream/models"
)

func soapServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "lma-user", user)
		assert.Equal(t, "geheim", pass)
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func clientFor(srv *httptest.Server) *Client {
	return NewClient(config.AmiceConfig{
		Endpoint:       srv.URL,
		Username:       "lma-user",
		Password:       "geheim",
		RequestTimeout: 5 * time.Second,
	})
}

const validResponse = `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <validatieAntwoord>
      <afvalstroomGegevensValide>Ja</afvalstroomGegevensValide>
    </validatieAntwoord>
  </soap:Body>
</soap:Envelope>`

const rejectedResponse = `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <validatieAntwoord>
      <afvalstroomGegevensValide>Nee</afvalstroomGegevensValide>
      <fout>
        <foutCode>AF023</foutCode>
        <foutomschrijving>ontdoener onbekend bij handelsregister</foutomschrijving>
      </fout>
    </validatieAntwoord>
  </soap:Body>
</soap:Envelope>`

const faultResponse = `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <soap:Fault>
      <faultcode>soap:Server</faultcode>
      <faultstring>interne fout</faultstring>
    </soap:Fault>
  </soap:Body>
</soap:Envelope>`

func TestValidator_Unconfigured(t *testing.T) {
	v := NewValidator(NewClient(config.AmiceConfig{}), nil)

	result, err := v.Validate(context.Background(), testStream())

	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ValidationCodeConfig, result.Errors[0].Code)
}

func TestValidator_Accepted(t *testing.T) {
	srv := soapServer(t, http.StatusOK, validResponse)
	v := NewValidator(clientFor(srv), nil)

	result, err := v.Validate(context.Background(), testStream())

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.RequestData, "request snapshot kept for audit display")
}

func TestValidator_Rejected(t *testing.T) {
	srv := soapServer(t, http.StatusOK, rejectedResponse)
	v := NewValidator(clientFor(srv), nil)

	result, err := v.Validate(context.Background(), testStream())

	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "AF023", result.Errors[0].Code)
	assert.Equal(t, "ontdoener onbekend bij handelsregister", result.Errors[0].Description)
}

func TestValidator_SoapFaultBecomesInvalidResult(t *testing.T) {
	srv := soapServer(t, http.StatusInternalServerError, faultResponse)
	v := NewValidator(clientFor(srv), nil)

	result, err := v.Validate(context.Background(), testStream())

	require.NoError(t, err, "a fault is folded into the verdict, not returned")
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ValidationCodeSOAP, result.Errors[0].Code)
	assert.Contains(t, result.Errors[0].Description, "interne fout")
}

func TestValidator_TransportErrorBecomesInvalidResult(t *testing.T) {
	srv := soapServer(t, http.StatusOK, validResponse)
	client := clientFor(srv)
	srv.Close()
	v := NewValidator(client, nil)

	result, err := v.Validate(context.Background(), testStream())

	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ValidationCodeSOAP, result.Errors[0].Code)
	assert.Regexp(t, `registry call failed \(\*?[\w./]+\):`, result.Errors[0].Description,
		"the entry names the underlying error type alongside its message")
}

func TestClient_SubmitDeclarations(t *testing.T) {
	const sessionResponse = `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <sessieAntwoord>
      <succes>true</succes>
      <sessieNummer>S-2026-000042</sessieNummer>
    </sessieAntwoord>
  </soap:Body>
</soap:Envelope>`
	srv := soapServer(t, http.StatusOK, sessionResponse)

	resp, err := clientFor(srv).SubmitDeclarations(context.Background(), []Melding{MapDeclaration(testStream(), testDeclaration())})

	require.NoError(t, err)
	assert.True(t, resp.Succes)
	assert.Equal(t, "S-2026-000042", resp.SessieNummer)
}

func TestClient_RetrieveSession(t *testing.T) {
	const resultResponse = `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <sessieResultaat>
      <status>Afgekeurd</status>
      <fout>
        <foutCode>ME104</foutCode>
        <foutomschrijving>periode reeds afgesloten</foutomschrijving>
      </fout>
    </sessieResultaat>
  </soap:Body>
</soap:Envelope>`
	srv := soapServer(t, http.StatusOK, resultResponse)

	resp, err := clientFor(srv).RetrieveSession(context.Background(), "S-2026-000042")

	require.NoError(t, err)
	assert.Equal(t, SessieStatusRejected, resp.Status)
	require.Len(t, resp.Fouten, 1)
	assert.Equal(t, "ME104", resp.Fouten[0].FoutCode)
}
