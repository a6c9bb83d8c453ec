package summary

import (
	"strings"

	"github.com/jonathan/job-summarizer/internal/textproc"
)

// companySentences is the number of leading sentences kept in a company blurb.
const companySentences = 2

// SummarizeCompany reduces the company features (or, when blank, the job
// description) to its first two sentences, truncated to maxChars.
func SummarizeCompany(features, description string, maxChars int) string {
	return summarizeCompany(features, description, companySentences, maxChars)
}

func summarizeCompany(features, description string, sentences, maxChars int) string {
	source := textproc.Normalize(features)
	if source == "" {
		source = textproc.Normalize(description)
	}
	if source == "" {
		return ""
	}

	units := textproc.Segment(source)
	if len(units) > sentences {
		units = units[:sentences]
	}

	return textproc.Truncate(strings.Join(units, textproc.SentenceTerminator), maxChars)
}
