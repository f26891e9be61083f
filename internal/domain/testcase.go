package domain

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// TestCase is a single Qase test case as returned by the case listing endpoint
type TestCase struct {
	ID             int64              `json:"id"`
	Code           string             `json:"code,omitempty"`
	Title          string             `json:"title"`
	Description    Text               `json:"description"`
	Preconditions  Text               `json:"preconditions"`
	Postconditions Text               `json:"postconditions"`
	Steps          []Step             `json:"steps,omitempty"`
	CustomFields   []CustomFieldValue `json:"custom_fields,omitempty"`

	// raw holds every top-level key so system fields can be read by slug
	raw map[string]json.RawMessage
}

// Step is one step of a test case. Steps nest to any depth.
type Step struct {
	Position       *int    `json:"position,omitempty"`
	Hash           *string `json:"hash,omitempty"`
	Action         Text    `json:"action"`
	ExpectedResult Text    `json:"expected_result"`
	Data           Text    `json:"data"`
	Steps          []Step  `json:"steps,omitempty"`
}

// CustomFieldValue is the value of one custom field on a test case
type CustomFieldValue struct {
	ID    *int64 `json:"id,omitempty"`
	Value Text   `json:"value"`
}

type testCaseAlias TestCase

// UnmarshalJSON decodes the typed fields and keeps the raw top-level keys
func (tc *TestCase) UnmarshalJSON(data []byte) error {
	var alias testCaseAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*tc = TestCase(alias)
	tc.raw = raw
	return nil
}

// DisplayCode returns the case code, falling back to C<id>
func (tc *TestCase) DisplayCode() string {
	if tc.Code != "" {
		return tc.Code
	}
	return fmt.Sprintf("C%d", tc.ID)
}

// DisplayTitle returns the title or "Untitled"
func (tc *TestCase) DisplayTitle() string {
	if tc.Title == "" {
		return "Untitled"
	}
	return tc.Title
}

// SystemField returns the text value of a top-level field by its slug.
// Non-string values are reported as absent.
func (tc *TestCase) SystemField(slug string) Text {
	switch slug {
	case "description":
		return tc.Description
	case "preconditions":
		return tc.Preconditions
	case "postconditions":
		return tc.Postconditions
	}
	msg, ok := tc.raw[slug]
	if !ok {
		return None()
	}
	var t Text
	if err := json.Unmarshal(msg, &t); err != nil {
		return None()
	}
	return t
}

// SetSystemField stores a raw string value for a top-level field.
// It is used to build fixtures and keeps SystemField consistent.
func (tc *TestCase) SetSystemField(slug, value string) {
	switch slug {
	case "description":
		tc.Description = Some(value)
		return
	case "preconditions":
		tc.Preconditions = Some(value)
		return
	case "postconditions":
		tc.Postconditions = Some(value)
		return
	}
	if tc.raw == nil {
		tc.raw = make(map[string]json.RawMessage)
	}
	encoded, _ := json.Marshal(value)
	tc.raw[slug] = encoded
}

// References returns the system references of a case. The API reports them
// either as a single string or as a list of strings under "refs" or
// "references".
func (tc *TestCase) References() []string {
	for _, key := range []string{"refs", "references"} {
		msg, ok := tc.raw[key]
		if !ok {
			continue
		}
		var list []string
		if err := json.Unmarshal(msg, &list); err == nil && len(list) > 0 {
			return list
		}
		var single string
		if err := json.Unmarshal(msg, &single); err == nil && strings.TrimSpace(single) != "" {
			return []string{single}
		}
	}
	return nil
}

// CustomField returns the value of the custom field with the given id
func (tc *TestCase) CustomField(id int64) (Text, bool) {
	for _, cf := range tc.CustomFields {
		if cf.ID != nil && *cf.ID == id {
			return cf.Value, true
		}
	}
	return None(), false
}
