// Package textproc provides whitespace normalization and sentence/bullet
// segmentation for free-text job posting fields.
package textproc

import (
	"regexp"
	"strings"
)

const ideographicSpace = "\u3000"

var (
	controlSpaceRe = regexp.MustCompile(`[\t\r\f]+`)
	spaceRunRe     = regexp.MustCompile(` +`)
	blankLineRunRe = regexp.MustCompile(`\n{2,}`)
)

// Normalize canonicalizes whitespace: full-width spaces become regular spaces,
// tab/CR/FF runs and space runs collapse to one space, blank-line runs collapse
// to a single newline, and the result is trimmed.
//
// Normalize is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, ideographicSpace, " ")
	text = controlSpaceRe.ReplaceAllString(text, " ")
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = blankLineRunRe.ReplaceAllString(text, "\n")

	return strings.TrimSpace(text)
}
