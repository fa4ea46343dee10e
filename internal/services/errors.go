package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrParse          = errors.New("parse failure")
	ErrRemoteCall     = errors.New("remote call failure")
	ErrMalformedInput = errors.New("malformed input")
	ErrConfiguration  = errors.New("configuration error")
)

// Status values recorded for a single unit of batch work.
const (
	StatusMatched  = "matched"
	StatusMissing  = "not_found"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
	StatusDeleted  = "deleted"
	StatusDryRun   = "dry_run"
	StatusQueued   = "queued"
	StatusNoChange = "no_change"
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrRemoteCall
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a per-item error to the status recorded for that item.
// Parse and malformed-input failures mean the item was skipped; everything
// else is a failure of the unit of work.
func FailureStatus(err error) string {
	switch {
	case errors.Is(err, ErrParse), errors.Is(err, ErrMalformedInput):
		return StatusSkipped
	default:
		return StatusFailed
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
