package extraction

import (
	"regexp"

	"github.com/jonathan/job-summarizer/internal/config"
	"github.com/jonathan/job-summarizer/internal/textproc"
)

// Extractor holds the compiled keyword and header lists. It is immutable
// after construction and safe for concurrent use.
type Extractor struct {
	tasks  Chain
	skills Chain

	mustHeaders []*regexp.Regexp
	wantHeaders []*regexp.Regexp

	mustCap int
	wantCap int
}

// NewExtractor compiles the pattern lists. mustCap and wantCap bound the
// number of requirement items per category.
func NewExtractor(p config.Patterns, mustCap, wantCap int) (*Extractor, error) {
	tasks, err := compileKeywords("task_keywords", p.TaskKeywords)
	if err != nil {
		return nil, err
	}
	skills, err := compileKeywords("skill_keywords", p.SkillKeywords)
	if err != nil {
		return nil, err
	}
	mustHeaders, err := compileHeaders("must_headers", p.MustHeaders)
	if err != nil {
		return nil, err
	}
	wantHeaders, err := compileHeaders("want_headers", p.WantHeaders)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		tasks: Chain{
			RawBulletStrategy{},
			KeywordSentenceStrategy{Keywords: tasks, MinChars: p.MinSentenceChars},
		},
		skills: Chain{
			RawBulletStrategy{},
			KeywordSentenceStrategy{Keywords: skills, MinChars: p.MinSentenceChars},
		},
		mustHeaders: mustHeaders,
		wantHeaders: wantHeaders,
		mustCap:     mustCap,
		wantCap:     wantCap,
	}, nil
}

// ExtractBullets returns up to maxItems salient lines of text: explicit
// bullets when there are any, otherwise sentences mentioning a task keyword.
func (e *Extractor) ExtractBullets(text string, maxItems int) []string {
	return e.tasks.Extract(text, maxItems)
}

// ExtractRequirements splits a requirements block into mandatory and
// preferred items.
func (e *Extractor) ExtractRequirements(text string) (must, want []string) {
	text = textproc.Normalize(text)
	if text == "" {
		return []string{}, []string{}
	}

	mustText, wantText := e.splitSections(text)
	return e.skills.Extract(mustText, e.mustCap), e.skills.Extract(wantText, e.wantCap)
}

// splitSections cuts text at the must and want headers. Without any header
// the whole text counts as mandatory.
func (e *Extractor) splitSections(text string) (mustText, wantText string) {
	mMust := findHeader(e.mustHeaders, text)
	mWant := findHeader(e.wantHeaders, text)

	switch {
	case mMust != nil && mWant != nil:
		if mMust[0] < mWant[0] {
			return between(text, mMust[1], mWant[0]), between(text, mWant[1], len(text))
		}
		return between(text, mMust[1], len(text)), between(text, mWant[1], mMust[0])
	case mMust != nil:
		return between(text, mMust[1], len(text)), ""
	case mWant != nil:
		return "", between(text, mWant[1], len(text))
	default:
		return text, ""
	}
}

// findHeader returns the location of the first pattern in list order that
// matches anywhere in text.
func findHeader(headers []*regexp.Regexp, text string) []int {
	for _, re := range headers {
		if loc := re.FindStringIndex(text); loc != nil {
			return loc
		}
	}
	return nil
}

func between(text string, start, end int) string {
	if start >= end {
		return ""
	}
	return text[start:end]
}
