package qase

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// ActionRequiredMarker is the validation message returned when a step is
// sent without an action
const ActionRequiredMarker = "Action field is required"

// APIError is a non-successful API response
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       string
	// Errors holds validation messages keyed by field path
	Errors map[string][]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	s := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
	if len(e.Errors) > 0 {
		keys := make([]string, 0, len(e.Errors))
		for k := range e.Errors {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+strings.Join(e.Errors[k], "; "))
		}
		s += " (" + strings.Join(parts, ", ") + ")"
	}
	return s
}

// Retryable reports whether repeating the same request may succeed
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// RequiresStepAction reports whether the server rejected the update because
// a step was sent with an empty action
func (e *APIError) RequiresStepAction() bool {
	if e.StatusCode < 400 || e.StatusCode >= 500 {
		return false
	}
	for _, msgs := range e.Errors {
		for _, m := range msgs {
			if strings.Contains(m, ActionRequiredMarker) {
				return true
			}
		}
	}
	return strings.Contains(e.Body, ActionRequiredMarker)
}

// parseAPIError builds an APIError from a response body. Both the
// {"errors": {field: [msg]}} and the {"errorFields": [{field, error}]}
// shapes are understood.
func parseAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       string(body),
	}

	var envelope struct {
		ErrorMessage string                     `json:"errorMessage"`
		Message      string                     `json:"message"`
		Errors       map[string]json.RawMessage `json:"errors"`
		ErrorFields  []struct {
			Field string `json:"field"`
			Error string `json:"error"`
		} `json:"errorFields"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}

	apiErr.Message = envelope.ErrorMessage
	if apiErr.Message == "" {
		apiErr.Message = envelope.Message
	}

	add := func(field, msg string) {
		if apiErr.Errors == nil {
			apiErr.Errors = make(map[string][]string)
		}
		apiErr.Errors[field] = append(apiErr.Errors[field], msg)
	}
	for field, raw := range envelope.Errors {
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			for _, m := range list {
				add(field, m)
			}
			continue
		}
		var single string
		if err := json.Unmarshal(raw, &single); err == nil {
			add(field, single)
		}
	}
	for _, ef := range envelope.ErrorFields {
		add(ef.Field, ef.Error)
	}
	return apiErr
}
