package util

import "testing"

func TestHashKey(t *testing.T) {
	id := "river-station/7"
	got := HashKey(id)
	if got != HashKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestSanitizeKeySegment(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "a1.json", want: "a1.json"},
		{in: " a/b\\c ", want: "a_b_c"},
		{in: "../x", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeKeySegment(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("SanitizeKeySegment(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("SanitizeKeySegment(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
