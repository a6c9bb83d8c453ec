package extraction

import (
	"regexp"
	"strings"

	"github.com/jonathan/job-summarizer/internal/textproc"
)

var (
	// lineBreakRe splits text the way a line reader would, including lone CRs.
	lineBreakRe = regexp.MustCompile("\r\n|[\n\r\v\f\x1c\x1d\x1e\u0085\u2028\u2029]")

	// Bullet lines are matched before normalization, so indentation may be a
	// full-width space or NBSP as well as ASCII whitespace.
	bulletLineRe = regexp.MustCompile(`^[\s\p{Zs}]*[・\-–—]`)
	bulletHeadRe = regexp.MustCompile(`^[\s\p{Zs}]*[・\-–—][\s\p{Zs}]*`)

	// inlineBulletRe separates bullets sharing one line. The glyph must follow
	// whitespace so that words joined with a middle dot stay intact.
	inlineBulletRe = regexp.MustCompile(`[\s\p{Zs}]+・[\s\p{Zs}]*`)
)

// Strategy produces candidate items from a block of text.
type Strategy interface {
	Extract(text string) []string
}

// Chain runs strategies in order and keeps the output of the first one that
// yields anything.
type Chain []Strategy

// Extract returns the deduplicated items of the first productive strategy,
// capped at maxItems.
func (c Chain) Extract(text string, maxItems int) []string {
	if text == "" || maxItems <= 0 {
		return []string{}
	}

	for _, s := range c {
		items := s.Extract(text)
		if len(items) > 0 {
			return limit(dedupe(items), maxItems)
		}
	}

	return []string{}
}

// RawBulletStrategy takes lines that start with a bullet glyph.
type RawBulletStrategy struct{}

// Extract scans the unsegmented lines of text for bullet markers.
func (RawBulletStrategy) Extract(text string) []string {
	var items []string
	for _, line := range lineBreakRe.Split(text, -1) {
		if !bulletLineRe.MatchString(line) {
			continue
		}

		body := bulletHeadRe.ReplaceAllString(line, "")
		for _, part := range inlineBulletRe.Split(body, -1) {
			if item := textproc.Normalize(part); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

// KeywordSentenceStrategy keeps segmented units that mention a keyword.
type KeywordSentenceStrategy struct {
	Keywords *regexp.Regexp // nil disables the strategy
	MinChars int
}

// Extract segments text and filters units by length and keyword.
func (s KeywordSentenceStrategy) Extract(text string) []string {
	if s.Keywords == nil {
		return nil
	}

	var items []string
	for _, unit := range textproc.Segment(text) {
		if textproc.RuneLen(unit) < s.MinChars {
			continue
		}
		if s.Keywords.MatchString(unit) {
			items = append(items, unit)
		}
	}
	return items
}

// dedupe removes exact duplicates, keeping the first occurrence.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	uniq := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		uniq = append(uniq, it)
	}
	return uniq
}

func limit(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// compileKeywords joins a keyword list into one alternation.
// An empty list yields a nil matcher.
func compileKeywords(list string, patterns []string) (*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	parts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			return nil, &PatternError{List: list, Pattern: p, Cause: err}
		}
		parts = append(parts, "(?:"+p+")")
	}
	return regexp.MustCompile(strings.Join(parts, "|")), nil
}

// compileHeaders compiles an ordered header list.
func compileHeaders(list string, patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, &PatternError{List: list, Pattern: p, Cause: err}
		}
		res = append(res, re)
	}
	return res, nil
}
