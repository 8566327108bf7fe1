package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLen        = 255
	MaxTitleLen       = 255
	MaxDescriptionLen = 1000
)

// ValidationError reports a bad field value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Message)
}

func validateRequiredString(field, value string, maxLen int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &ValidationError{Field: field, Message: "must not be empty"}
	}
	if utf8.RuneCountInString(value) > maxLen {
		return "", &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must not exceed %d characters", maxLen),
		}
	}
	return value, nil
}

func validateOptionalString(field, value string, maxLen int) (string, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > maxLen {
		return "", &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must not exceed %d characters", maxLen),
		}
	}
	return value, nil
}
