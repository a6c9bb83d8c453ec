package textproc

import (
	"regexp"
	"strings"
)

const (
	// BulletMarker is the canonical line-leading bullet glyph.
	BulletMarker = "・"
	// SentenceTerminator ends a sentence in the target corpus.
	SentenceTerminator = "。"
)

var (
	// inlineBulletRe matches bullet glyphs together with the whitespace around them.
	inlineBulletRe = regexp.MustCompile(`\s*[・\-•]\s*`)

	blockMarkers = strings.NewReplacer(
		"▼", "\n"+BulletMarker,
		"■", "\n"+BulletMarker,
		"◆", "\n"+BulletMarker,
	)
)

// Segment splits text into sentence and bullet units.
//
// Bullet glyphs are rewritten into line-leading markers so that several
// bullets on one line become separate units. Bullet lines are emitted whole,
// other lines are split on the sentence terminator. Units are trimmed and
// never empty.
func Segment(text string) []string {
	text = Normalize(text)
	if text == "" {
		return []string{}
	}

	text = inlineBulletRe.ReplaceAllString(text, "\n"+BulletMarker)
	text = blockMarkers.Replace(text)

	units := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, BulletMarker) || strings.HasPrefix(line, "-") {
			if unit := strings.TrimSpace(strings.TrimLeft(line, BulletMarker+"- ")); unit != "" {
				units = append(units, unit)
			}
			continue
		}

		for _, seg := range strings.Split(line, SentenceTerminator) {
			if seg = strings.TrimSpace(seg); seg != "" {
				units = append(units, seg)
			}
		}
	}

	return units
}
