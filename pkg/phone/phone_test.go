package phone

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{" 91-98765 43210", "+919876543210"},
		{"+0919876543210", "+919876543210"},
		{"919876543210", "+919876543210"},
		{"+49 170 1234567", "+491701234567"},
		{"0044 20 7946 0958", "+442079460958"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIsStable(t *testing.T) {
	once := Normalize("91-98765 43210")
	twice := Normalize(once)
	if once != twice {
		t.Fatalf("normalization not idempotent: %q -> %q", once, twice)
	}
}

func TestShaped(t *testing.T) {
	shaped := []string{"+919876543210", "919876543210", "+31 6 1234-5678", "0012345"}
	for _, s := range shaped {
		if !Shaped(s) {
			t.Errorf("Shaped(%q) = false, want true", s)
		}
	}
	notShaped := []string{"", "Maria", "Maria +31", "+", "agent42", " John Doe "}
	for _, s := range notShaped {
		if Shaped(s) {
			t.Errorf("Shaped(%q) = true, want false", s)
		}
	}
}
