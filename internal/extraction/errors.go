// Package extraction selects bullet and sentence items from free-text job
// posting fields.
package extraction

import "fmt"

// PatternError represents a keyword or header pattern that failed to compile
type PatternError struct {
	List    string
	Pattern string
	Cause   error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q in %s: %v", e.Pattern, e.List, e.Cause)
}

func (e *PatternError) Unwrap() error {
	return e.Cause
}
