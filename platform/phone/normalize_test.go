package phone

import "testing"

func TestE164FormatsNationalNumber(t *testing.T) {
	n := NewNormalizer("US")
	if got := n.E164("(650) 253-0000"); got != "+16502530000" {
		t.Fatalf("expected +16502530000, got %q", got)
	}
}

func TestE164KeepsUnparseableInput(t *testing.T) {
	n := NewNormalizer("")
	if got := n.E164("  555  "); got != "555" {
		t.Fatalf("expected trimmed input, got %q", got)
	}
	if got := n.E164(""); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestE164SameNumberDifferentFormatting(t *testing.T) {
	n := NewNormalizer("NL")
	a := n.E164("020 794 2600")
	b := n.E164("+31 20 794 2600")
	if a != b {
		t.Fatalf("expected identical E.164 output, got %q and %q", a, b)
	}
}
