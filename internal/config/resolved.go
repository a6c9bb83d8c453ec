package config

import "fmt"

// ValidateResolved checks a merged configuration before a summarizer is built
// from it. Budgets must be positive once defaults are applied. Store settings
// are not checked.
func (c *Config) ValidateResolved() error {
	if err := validate.Struct(c); err != nil {
		return fromValidatorError(err)
	}

	budgets := []struct {
		field string
		value int
	}{
		{"max_chars", c.MaxChars},
		{"sections.works.budget", c.Sections.Works.Budget},
		{"sections.must.budget", c.Sections.Must.Budget},
		{"sections.want.budget", c.Sections.Want.Budget},
		{"sections.company.budget", c.Sections.Company.Budget},
	}
	for _, b := range budgets {
		if err := validate.Var(b.value, "gte=1"); err != nil {
			return &ValidationError{Field: b.field, Message: fmt.Sprintf("must be at least 1, got %d", b.value)}
		}
	}

	return nil
}
