package normalization

import (
	"strings"
	"testing"
)

func TestNormalizeCollapsesCaseAndWhitespace(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Run a Marathon", "run a marathon"},
		{"  Run   a\tMarathon  ", "run a marathon"},
		{"RUN A MARATHON", "run a marathon"},
		{"", ""},
		{"   \t\n  ", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestContentHashStableAcrossEquivalentInputs(t *testing.T) {
	a := ContentHash("Run a Marathon")
	b := ContentHash("  run   A   marathon ")
	if a != b {
		t.Fatalf("equivalent inputs hashed differently: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if strings.ToLower(a) != a {
		t.Fatalf("hash should be lowercase hex: %s", a)
	}
}

func TestContentHashDistinguishesContent(t *testing.T) {
	if ContentHash("run a marathon") == ContentHash("run a half marathon") {
		t.Fatal("different content produced the same hash")
	}
}
