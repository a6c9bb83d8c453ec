package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents an invalid configuration value
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error: '%s' %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// fromValidatorError converts the first struct-tag failure into a ValidationError.
func fromValidatorError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := verrs[0]
	field := toSnakeCase(strings.TrimPrefix(fe.Namespace(), "Config."))
	switch fe.Tag() {
	case "gte":
		if fe.Param() == "0" {
			return &ValidationError{Field: field, Message: "must be non-negative"}
		}
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be at least %s", fe.Param())}
	case "lte":
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be at most %s", fe.Param())}
	default:
		return &ValidationError{Field: field, Message: fmt.Sprintf("failed '%s' check", fe.Tag())}
	}
}

// toSnakeCase turns a Go field path like Sections.Works.Budget into sections.works.budget
// and MaxChars into max_chars.
func toSnakeCase(path string) string {
	var sb strings.Builder
	for i, r := range path {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && path[i-1] != '.' {
				sb.WriteByte('_')
			}
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
