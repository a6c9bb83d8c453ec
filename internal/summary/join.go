// Package summary composes the labeled, budget-limited summary of a job record.
package summary

import (
	"strings"

	"github.com/jonathan/job-summarizer/internal/textproc"
)

// JoinCompact joins items with sep while the total stays within
// maxTotalChars. Blank items are skipped. The first non-blank item is always
// kept, even when it alone exceeds the budget; an item that would overflow
// the budget ends the join.
func JoinCompact(items []string, sep string, maxTotalChars int) string {
	out := make([]string, 0, len(items))
	total := 0
	sepLen := textproc.RuneLen(sep)

	for _, it := range items {
		it = textproc.Normalize(it)
		if it == "" {
			continue
		}

		add := textproc.RuneLen(it)
		if len(out) > 0 {
			add += sepLen
		}
		if total+add > maxTotalChars && len(out) > 0 {
			break
		}

		out = append(out, it)
		total += add
	}

	return strings.Join(out, sep)
}
