package encoding

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestFitAssignsSortedCodes(t *testing.T) {
	// Codes must come from sorted lexicographic order, not input order.
	enc := Fit("team", []string{"TX", "ATL", "MIN", "ATL"})

	want := map[string]int{"ATL": 0, "MIN": 1, "TX": 2}
	for name, code := range want {
		got, err := enc.Encode(name)
		if err != nil {
			t.Fatalf("Encode(%q) error: %v", name, err)
		}
		if got != code {
			t.Errorf("Encode(%q) = %d, want %d", name, got, code)
		}
	}

	if enc.Size() != 3 {
		t.Errorf("Size() = %d after duplicate collapse, want 3", enc.Size())
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	vocab := []string{"Hardpoint", "Control", "SND"}
	enc := Fit("mode", vocab)

	for _, name := range vocab {
		code, err := enc.Encode(name)
		if err != nil {
			t.Fatalf("Encode(%q) error: %v", name, err)
		}
		back, err := enc.Decode(code)
		if err != nil {
			t.Fatalf("Decode(%d) error: %v", code, err)
		}
		if back != name {
			t.Errorf("Decode(Encode(%q)) = %q", name, back)
		}
	}
}

func TestEncodeStability(t *testing.T) {
	a := Fit("map", []string{"Rio", "Karachi", "6 Star"})
	b := Fit("map", []string{"6 Star", "Rio", "Karachi"})

	for _, name := range []string{"6 Star", "Karachi", "Rio"} {
		ca, _ := a.Encode(name)
		cb, _ := b.Encode(name)
		if ca != cb {
			t.Errorf("code for %q differs across fits: %d vs %d", name, ca, cb)
		}
	}
}

func TestEncodeUnknown(t *testing.T) {
	enc := Fit("team", []string{"TX", "ATL"})

	_, err := enc.Encode("OpTic")
	var unknownErr *UnknownCategoryError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Encode unknown = %v, want *UnknownCategoryError", err)
	}
	if unknownErr.Name != "OpTic" || unknownErr.Kind != "team" {
		t.Errorf("error fields = %+v", unknownErr)
	}
}

func TestDecodeOutOfRange(t *testing.T) {
	enc := Fit("mode", []string{"Hardpoint", "Control", "SND"})

	for _, code := range []int{-1, 3, 99} {
		_, err := enc.Decode(code)
		var invalidErr *InvalidCodeError
		if !errors.As(err, &invalidErr) {
			t.Errorf("Decode(%d) = %v, want *InvalidCodeError", code, err)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	// A persisted encoder must reproduce identical codes after reload.
	enc := Fit("team", []string{"TX", "ATL", "MIN", "NY"})

	blob, err := json.Marshal(enc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var loaded LabelEncoder
	if err := json.Unmarshal(blob, &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, name := range []string{"TX", "ATL", "MIN", "NY"} {
		orig, _ := enc.Encode(name)
		got, err := loaded.Encode(name)
		if err != nil {
			t.Fatalf("loaded Encode(%q) error: %v", name, err)
		}
		if got != orig {
			t.Errorf("loaded code for %q = %d, want %d", name, got, orig)
		}
	}
}
