package cardapi

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind classifies a failed API interaction.
type Kind int

const (
	// KindUnknown is reported for errors that did not come from this package.
	KindUnknown Kind = iota
	// KindValidation marks input rejected locally before any request was sent.
	KindValidation
	// KindNetwork marks a request that produced no response.
	KindNetwork
	// KindTimeout marks a request that exceeded the client deadline.
	KindTimeout
	// KindNotFound marks a 404 response.
	KindNotFound
	// KindClient marks any other 4xx response.
	KindClient
	// KindServer marks a 5xx response.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindNotFound:
		return "not_found"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// ErrInvalidIdentifier is wrapped by validation errors for malformed OIBs.
var ErrInvalidIdentifier = errors.New("identifier must be exactly 11 characters")

// Error is returned by every Client operation.
type Error struct {
	Kind   Kind
	Status int
	Method string
	URL    string
	// Message is the server-supplied message, when the response carried one.
	Message string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("cardapi: ")
	b.WriteString(e.Kind.String())
	if e.Method != "" {
		fmt.Fprintf(&b, " %s %s", e.Method, e.URL)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// MessageOf returns the server message carried by err, if any.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// ValidateIdentifier fails with a KindValidation error unless id is exactly
// IdentifierLength characters.
func ValidateIdentifier(id string) error {
	if utf8.RuneCountInString(id) != IdentifierLength {
		return &Error{Kind: KindValidation, Cause: ErrInvalidIdentifier}
	}
	return nil
}

func classifyStatus(status int) Kind {
	switch {
	case status == 404:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindClient
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}
