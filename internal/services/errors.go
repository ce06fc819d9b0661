package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransport marks failures to send a request or receive any response.
	ErrTransport = errors.New("transport failure")
	// ErrDecode marks a response whose body could not be decoded as JSON.
	ErrDecode        = errors.New("decode failure")
	ErrConfiguration = errors.New("configuration error")
	ErrJournal       = errors.New("journal error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
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

// Outcome classifies an operation result for journaling and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrDecode):
		return "decode_error"
	case errors.Is(err, ErrTransport):
		return "transport_error"
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	default:
		return "error"
	}
}

// ExitCode maps an error to a process exit status. Every failure is reported
// as 1; the taxonomy is surfaced through the message, not the code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
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
