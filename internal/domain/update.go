package domain

import (
	"sort"

	"github.com/goccy/go-json"
)

// StepUpdate is one step in a PATCH body. Absent leaves are omitted.
type StepUpdate struct {
	Position       *int         `json:"position,omitempty"`
	Hash           *string      `json:"hash,omitempty"`
	Action         *string      `json:"action,omitempty"`
	ExpectedResult *string      `json:"expected_result,omitempty"`
	Data           *string      `json:"data,omitempty"`
	Steps          []StepUpdate `json:"steps,omitempty"`
}

// UpdatePayload is the partial update sent for one test case.
// Fields holds top-level text fields by name, Steps the full step list when
// any step changed, and CustomField the changed custom values keyed by the
// stringified field id.
type UpdatePayload struct {
	Fields      map[string]string
	Steps       []StepUpdate
	CustomField map[string]string
}

// IsEmpty reports whether the payload carries no update at all
func (p UpdatePayload) IsEmpty() bool {
	return len(p.Fields) == 0 && len(p.Steps) == 0 && len(p.CustomField) == 0
}

// Keys returns the top-level keys the payload will send, sorted
func (p UpdatePayload) Keys() []string {
	keys := make([]string, 0, len(p.Fields)+2)
	for k := range p.Fields {
		keys = append(keys, k)
	}
	if len(p.Steps) > 0 {
		keys = append(keys, "steps")
	}
	if len(p.CustomField) > 0 {
		keys = append(keys, "custom_field")
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON flattens the payload into the body the case endpoint expects
func (p UpdatePayload) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, len(p.Fields)+2)
	for k, v := range p.Fields {
		body[k] = v
	}
	if len(p.Steps) > 0 {
		body["steps"] = p.Steps
	}
	if len(p.CustomField) > 0 {
		body["custom_field"] = p.CustomField
	}
	return json.Marshal(body)
}

// UnmarshalJSON reads a flattened body back, used when loading reports
func (p *UpdatePayload) UnmarshalJSON(data []byte) error {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	*p = UpdatePayload{}
	for k, v := range body {
		switch k {
		case "steps":
			if err := json.Unmarshal(v, &p.Steps); err != nil {
				return err
			}
		case "custom_field":
			if err := json.Unmarshal(v, &p.CustomField); err != nil {
				return err
			}
		default:
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return err
			}
			if p.Fields == nil {
				p.Fields = make(map[string]string)
			}
			p.Fields[k] = s
		}
	}
	return nil
}

// StrPtr returns a pointer to s
func StrPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to i
func IntPtr(i int) *int {
	return &i
}

// Int64Ptr returns a pointer to i
func Int64Ptr(i int64) *int64 {
	return &i
}
