package types

import "strings"

// Label identifies one class of sensitive data.
type Label string

// Builtin labels. The order the registry applies them in is defined by the
// patterns package; the label set itself is fixed at build time.
const (
	LabelIP     Label = "ip"
	LabelEmail  Label = "email"
	LabelUUID   Label = "uuid"
	LabelSHA256 Label = "sha256"
	LabelSHA1   Label = "sha1"
	LabelMD5    Label = "md5"
	LabelJWT    Label = "jwt"

	// LabelSecret is emitted by the entropy detector, not by a builtin regex.
	LabelSecret Label = "secret"
)

// MarkerPrefix starts every redaction marker. The marker alphabet (uppercase
// letters, brackets, underscore) never re-matches a builtin pattern, so
// sanitizing already-sanitized text is safe.
const MarkerPrefix = "[REDACTED_"

// Marker returns the replacement text written in place of a match,
// e.g. "[REDACTED_IP]".
func (l Label) Marker() string {
	return MarkerPrefix + strings.ToUpper(string(l)) + "]"
}

// Redaction describes one substitution performed on one line of input.
// Original holds a masked form of the matched value, never the raw value.
type Redaction struct {
	Source   string `json:"source,omitempty"`
	Line     int    `json:"line,omitempty"`
	Label    Label  `json:"label"`
	Original string `json:"original"`
	Replaced string `json:"replaced"`
}

// Mask shortens a sensitive value to its first and last four characters.
func Mask(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "…" + s[len(s)-4:]
}
