package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "wastetrack/pkg/domain-errors"
)

func TestParseCompanyID(t *testing.T) {
	raw := uuid.New()

	id, err := ParseCompanyID(raw.String())

	require.NoError(t, err)
	assert.Equal(t, raw.String(), id.String())
	assert.False(t, id.IsZero())
}

func TestParseCompanyID_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "not a uuid", input: "087654000001"},
		{name: "nil uuid", input: uuid.Nil.String()},
		{name: "truncated", input: "123e4567-e89b-12d3-a456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCompanyID(tt.input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

func TestParseTransportID(t *testing.T) {
	raw := uuid.New()

	id, err := ParseTransportID(raw.String())

	require.NoError(t, err)
	assert.Equal(t, raw.String(), id.String())
}

func TestParseProjectLocationID(t *testing.T) {
	raw := uuid.New()

	id, err := ParseProjectLocationID(raw.String())

	require.NoError(t, err)
	assert.Equal(t, raw.String(), id.String())

	_, err = ParseProjectLocationID("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestIDZeroValues(t *testing.T) {
	assert.True(t, CompanyID{}.IsZero())
	assert.True(t, ProjectLocationID{}.IsZero())
	assert.False(t, CompanyID(uuid.New()).IsZero())
}

func TestIDsTravelAsUUIDStringsInJSON(t *testing.T) {
	raw := uuid.New()
	doc := struct {
		Company   CompanyID         `json:"company"`
		Project   ProjectLocationID `json:"project"`
		Transport TransportID       `json:"transport"`
		Ticket    WeightTicketID    `json:"ticket"`
	}{CompanyID(raw), ProjectLocationID(raw), TransportID(raw), WeightTicketID(raw)}

	payload, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"company":"`+raw.String()+`"`,
		"ids must render as canonical UUID strings, not byte arrays")

	var decoded struct {
		Company   CompanyID         `json:"company"`
		Project   ProjectLocationID `json:"project"`
		Transport TransportID       `json:"transport"`
		Ticket    WeightTicketID    `json:"ticket"`
	}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, doc.Company, decoded.Company)
	assert.Equal(t, doc.Transport, decoded.Transport)

	assert.Error(t, json.Unmarshal([]byte(`{"company":"not-a-uuid"}`), &decoded))
}

func TestIDTypesAreDistinct(t *testing.T) {
	// The same underlying UUID renders identically through each typed ID; the
	// point of the distinct types is compile-time separation, not formatting.
	raw := uuid.New()
	assert.Equal(t, CompanyID(raw).String(), TransportID(raw).String())
	assert.Equal(t, raw.String(), WeightTicketID(raw).String())
}
