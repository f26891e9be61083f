package domain

import (
	"strings"

	"github.com/goccy/go-json"
)

// Text is an optional text leaf of a test case.
// A JSON null or a missing key decodes to an absent Text, which is not the
// same thing as a present empty string.
type Text struct {
	value string
	set   bool
}

// Some returns a present Text holding s
func Some(s string) Text {
	return Text{value: s, set: true}
}

// None returns an absent Text
func None() Text {
	return Text{}
}

// Get returns the value and whether it is present
func (t Text) Get() (string, bool) {
	return t.value, t.set
}

// String returns the value, or "" when absent
func (t Text) String() string {
	return t.value
}

// IsSet reports whether the value is present (possibly empty)
func (t Text) IsSet() bool {
	return t.set
}

// IsEmpty reports whether the value is absent or the empty string
func (t Text) IsEmpty() bool {
	return !t.set || t.value == ""
}

// IsBlank reports whether the value is absent or only whitespace
func (t Text) IsBlank() bool {
	return strings.TrimSpace(t.value) == ""
}

// MarshalJSON encodes an absent Text as null
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.set {
		return []byte("null"), nil
	}
	return json.Marshal(t.value)
}

// UnmarshalJSON decodes any string as present. null and non-string values
// (numbers, lists) decode as absent; they carry no text to repair.
func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil || string(data) == "null" {
		*t = Text{}
		return nil
	}
	*t = Some(s)
	return nil
}
