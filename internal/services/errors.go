package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrUnknownCommand         = errors.New("unknown command")
	ErrMalformedCommand       = errors.New("malformed command")
	ErrUnexpectedResponse     = errors.New("unexpected response")
	ErrDataIntegrity          = errors.New("data integrity error")
	ErrTransport              = errors.New("transport error")
	ErrConfiguration          = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker. The marker should be one of the exported
// sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Malformed reports a command that matched a known name but not its shape.
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedCommand, fmt.Sprintf(format, args...))
}

// AuthRequiredError is returned by scope-gated operations invoked before the
// scope's credential was established.
type AuthRequiredError struct {
	Scope string
}

func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf("%s: not logged in to %s", ErrAuthenticationRequired, e.Scope)
}

func (e *AuthRequiredError) Unwrap() error { return ErrAuthenticationRequired }

// UnknownCommandError carries the raw tokens of an input line that matched no
// command.
type UnknownCommandError struct {
	Tokens []string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownCommand, e.Tokens)
}

func (e *UnknownCommandError) Unwrap() error { return ErrUnknownCommand }

// UnexpectedResponseError reports a call whose status code (or body) was not
// one of the accepted success shapes. Body holds the decoded JSON payload, or
// the raw text when the payload was not JSON.
type UnexpectedResponseError struct {
	Operation string
	Status    int
	Body      any
}

const bodySummaryLimit = 160

func (e *UnexpectedResponseError) Error() string {
	summary := e.BodyJSON()
	if len(summary) > bodySummaryLimit {
		summary = summary[:bodySummaryLimit] + "..."
	}
	op := strings.TrimSpace(e.Operation)
	if op == "" {
		op = "request"
	}
	if summary == "" {
		return fmt.Sprintf("%s: %s returned %d", ErrUnexpectedResponse, op, e.Status)
	}
	return fmt.Sprintf("%s: %s returned %d: %s", ErrUnexpectedResponse, op, e.Status, summary)
}

func (e *UnexpectedResponseError) Unwrap() error { return ErrUnexpectedResponse }

// BodyJSON renders the full decoded body for diagnostics.
func (e *UnexpectedResponseError) BodyJSON() string {
	switch body := e.Body.(type) {
	case nil:
		return ""
	case string:
		return body
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Sprint(body)
		}
		return string(data)
	}
}

// MissingCitationError is raised when a reply cites a cid that is absent from
// the reply list it was fetched with.
type MissingCitationError struct {
	CID    int64
	Target int64
}

func (e *MissingCitationError) Error() string {
	return fmt.Sprintf("%s: reply %d cites missing reply %d", ErrDataIntegrity, e.CID, e.Target)
}

func (e *MissingCitationError) Unwrap() error { return ErrDataIntegrity }

// Kind maps an error to a short stable label used in logs and history.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuthenticationRequired):
		return "authentication_required"
	case errors.Is(err, ErrUnknownCommand):
		return "unknown_command"
	case errors.Is(err, ErrMalformedCommand):
		return "malformed_command"
	case errors.Is(err, ErrUnexpectedResponse):
		return "unexpected_response"
	case errors.Is(err, ErrDataIntegrity):
		return "data_integrity"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "error"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
