package domain

import (
	"testing"

	"github.com/google/uuid"
)

func FuzzParseTransportID(f *testing.F) {
	f.Add(uuid.New().String())
	f.Add("")
	f.Add("not-a-uuid")
	f.Add(uuid.Nil.String())
	f.Add("123e4567-e89b-12d3-a456-426614174000")

	f.Fuzz(func(t *testing.T, s string) {
		id, err := ParseTransportID(s)
		if err != nil {
			return
		}
		// Accepted input must round-trip through the canonical form.
		again, err := ParseTransportID(id.String())
		if err != nil {
			t.Fatalf("canonical form %q rejected: %v", id.String(), err)
		}
		if again != id {
			t.Fatalf("round trip changed id: %v != %v", again, id)
		}
	})
}
