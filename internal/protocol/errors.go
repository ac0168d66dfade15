package protocol

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingHeader indicates a response with no lines at all.
	ErrMissingHeader = errors.New("response is missing its meta line")

	// ErrWrappedCustomFieldName indicates a custom-field view access using a
	// name that is already in CF.{name} form.
	ErrWrappedCustomFieldName = errors.New("custom field view expects a bare name")

	// ErrFieldNotFound indicates a lookup of an absent field.
	ErrFieldNotFound = errors.New("field not found")
)

// MalformedHeaderError reports a meta line or header separator that does
// not follow the envelope grammar.
type MalformedHeaderError struct {
	Content string
	Detail  string
}

func (e *MalformedHeaderError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("malformed response header: %s: %q", e.Detail, firstLine(e.Content))
	}
	return fmt.Sprintf("malformed response header: %q", firstLine(e.Content))
}

// GrammarError reports a body line that is neither a key line, a
// continuation line, a comment nor blank.
type GrammarError struct {
	Line    int
	Content string
	Reason  string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Content)
}

// ConversionError reports a raw value that could not be coerced to the type
// declared for its field.
type ConversionError struct {
	Field   string
	Value   string
	Type    FieldType
	Formats []string
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("could not convert %q to %s", e.Value, e.Type)
	if e.Field != "" {
		msg = fmt.Sprintf("field %s: %s", e.Field, msg)
	}
	if len(e.Formats) > 0 {
		msg += " (tried " + strings.Join(e.Formats, ", ") + ")"
	}
	return msg
}

// AuthenticationError signals rejected credentials or an expired session.
// It is the only failure the dispatcher retries.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Message
}

func NewAuthenticationError(format string, args ...any) error {
	return &AuthenticationError{Message: fmt.Sprintf(format, args...)}
}

func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// UnexpectedStatusError reports an HTTP status outside the acceptable set.
type UnexpectedStatusError struct {
	StatusCode int
	Content    string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.StatusCode)
}

// OperationError reports a remote operation that did not produce the
// confirmation it expected.
type OperationError struct {
	Operation string
	Content   string
	Detail    string
}

func (e *OperationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s failed: %s", e.Operation, e.Detail)
	}
	return e.Operation + " failed"
}

// TicketNotFoundError reports a ticket id the server does not know.
type TicketNotFoundError struct {
	TicketID string
}

func (e *TicketNotFoundError) Error() string {
	return fmt.Sprintf("ticket %s does not exist", e.TicketID)
}

func firstLine(content string) string {
	line, _, _ := strings.Cut(content, "\n")
	return line
}
