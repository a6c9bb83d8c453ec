package summary

import (
	"strings"

	"github.com/jonathan/job-summarizer/internal/config"
	"github.com/jonathan/job-summarizer/internal/extraction"
	"github.com/jonathan/job-summarizer/internal/textproc"
	"github.com/jonathan/job-summarizer/internal/types"
)

const (
	titleOpen  = "『"
	titleClose = "』"
)

// Parts holds the rendered pieces of one summary before the final join.
// Empty fields are omitted from the summary.
type Parts struct {
	Title   string `json:"title,omitempty"`
	Works   string `json:"works,omitempty"`
	Must    string `json:"must,omitempty"`
	Want    string `json:"want,omitempty"`
	Company string `json:"company,omitempty"`
}

// Composer builds record summaries. It is immutable after construction and
// safe for concurrent use.
type Composer struct {
	extractor *extraction.Extractor

	sections      config.Sections
	labels        config.Labels
	separator     string
	titleMaxChars int

	maxChars       int
	includeCompany bool
}

// NewComposer validates a merged configuration and compiles its pattern
// lists. Configuration mistakes are reported here, never per record.
func NewComposer(cfg config.Config) (*Composer, error) {
	if err := cfg.ValidateResolved(); err != nil {
		return nil, err
	}

	ext, err := extraction.NewExtractor(cfg.Patterns, cfg.Sections.Must.Extract, cfg.Sections.Want.Extract)
	if err != nil {
		return nil, err
	}

	return &Composer{
		extractor:      ext,
		sections:       cfg.Sections,
		labels:         cfg.Labels,
		separator:      cfg.Separator,
		titleMaxChars:  cfg.TitleMaxChars,
		maxChars:       cfg.MaxChars,
		includeCompany: !cfg.ExcludeCompany,
	}, nil
}

// MaxChars returns the configured global budget.
func (c *Composer) MaxChars() int {
	return c.maxChars
}

// IncludeCompany reports whether the company section is on by default.
func (c *Composer) IncludeCompany() bool {
	return c.includeCompany
}

// Summarize composes rec with the configured budget and company setting.
func (c *Composer) Summarize(rec *types.JobRecord) string {
	return c.Compose(rec, c.maxChars, c.includeCompany)
}

// Compose renders the summary of rec, truncated to maxChars characters.
// Missing fields only drop their section.
func (c *Composer) Compose(rec *types.JobRecord, maxChars int, includeCompany bool) string {
	if rec == nil || maxChars < 1 {
		return ""
	}
	return textproc.Truncate(c.Render(c.Parts(rec, includeCompany)), maxChars)
}

// Parts extracts and joins every section of rec without the final truncation.
func (c *Composer) Parts(rec *types.JobRecord, includeCompany bool) Parts {
	var p Parts
	if rec == nil {
		return p
	}

	works := c.extractor.ExtractBullets(rec.Description, c.sections.Works.Extract)
	p.Works = JoinCompact(head(works, c.sections.Works.Items), c.separator, c.sections.Works.Budget)

	must, want := c.extractor.ExtractRequirements(rec.Requirements)
	p.Must = JoinCompact(head(must, c.sections.Must.Items), c.separator, c.sections.Must.Budget)
	p.Want = JoinCompact(head(want, c.sections.Want.Items), c.separator, c.sections.Want.Budget)

	if includeCompany {
		p.Company = summarizeCompany(rec.CompanyFeatures, rec.Description, c.sections.Company.Items, c.sections.Company.Budget)
	}

	if title := textproc.Normalize(rec.Title); title != "" && textproc.RuneLen(title) <= c.titleMaxChars {
		p.Title = title
	}

	return p
}

// Render joins the title hint and labeled sections with single spaces in the
// order works, must, want, company.
func (c *Composer) Render(p Parts) string {
	pieces := make([]string, 0, 5)
	if p.Title != "" {
		pieces = append(pieces, titleOpen+p.Title+titleClose)
	}

	sections := []struct {
		label   string
		content string
	}{
		{c.labels.Works, p.Works},
		{c.labels.Must, p.Must},
		{c.labels.Want, p.Want},
		{c.labels.Company, p.Company},
	}
	for _, s := range sections {
		if s.content != "" {
			pieces = append(pieces, s.label+":"+s.content)
		}
	}

	return strings.Join(pieces, " ")
}

func head(items []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
