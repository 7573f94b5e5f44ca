package phone

import "strings"

// Normalize canonicalizes a raw phone number into the storage format:
// a single leading '+' followed by the significant digits. WhatsApp sends
// numbers in international format without the '+', sometimes with spaces
// or hyphens; dashboards paste them in every shape imaginable.
//
// Empty input yields an empty string; callers must treat that as invalid.
// Garbage input yields a garbage-but-stable result, validation is the
// caller's job.
func Normalize(raw string) string {
	p := strings.TrimSpace(raw)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, " ", "")
	p = strings.ReplaceAll(p, "-", "")
	p = strings.TrimPrefix(p, "+")
	p = strings.TrimLeft(p, "0")
	return "+" + p
}

// Shaped reports whether s looks like a phone number rather than a human
// name: a '+' or digit followed only by digits, spaces and hyphens. Used to
// decide whether a stored display name may be overwritten by a profile name.
func Shaped(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if s[0] != '+' && (s[0] < '0' || s[0] > '9') {
		return false
	}
	if s[0] == '+' && len(s) < 2 {
		return false
	}
	for _, r := range s[1:] {
		if (r < '0' || r > '9') && r != ' ' && r != '-' {
			return false
		}
	}
	return true
}
