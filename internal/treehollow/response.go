package treehollow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"sylva/internal/services"
)

// Response is the unclassified result of one API call.
type Response struct {
	Operation  string
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

// Success reports whether the status is one the API uses for success.
func (r *Response) Success() bool {
	return r != nil && (r.StatusCode == http.StatusOK || r.StatusCode == http.StatusNoContent)
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if r == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return fmt.Errorf("decode %s response: empty body", r.operation())
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode %s response: %w", r.operation(), err)
	}
	return nil
}

// Value returns the body decoded as generic JSON, or the trimmed text when the
// body is not JSON. Empty bodies yield nil.
func (r *Response) Value() any {
	if r == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(r.Body)
	if len(trimmed) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return string(trimmed)
	}
	return v
}

// HasErrorCode reports whether the body is a JSON object carrying a "code"
// field, which the API uses to signal failures on read endpoints.
func (r *Response) HasErrorCode() bool {
	obj, ok := r.Value().(map[string]any)
	if !ok {
		return false
	}
	_, ok = obj["code"]
	return ok
}

// Unexpected converts the response into a services.UnexpectedResponseError.
func (r *Response) Unexpected() error {
	return &services.UnexpectedResponseError{
		Operation: r.operation(),
		Status:    r.StatusCode,
		Body:      r.Value(),
	}
}

func (r *Response) operation() string {
	if r == nil || r.Operation == "" {
		return "api"
	}
	return r.Operation
}
