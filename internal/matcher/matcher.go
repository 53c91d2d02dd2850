// Package matcher implements keyword-based category auto-matching.
//
// The matcher is a pure function: it has no storage access, no side
// effects, and no shared mutable state, so it is safe to call from any
// number of goroutines. The service layer fetches the caller's categories
// and hands them in; the matcher only decides which one fits.
//
// MATCHING RULES (deliberately simple):
//   - The search text is title + " " + description.
//   - Candidates are scanned in the order the caller provides them, and
//     each candidate's keywords in list order.
//   - The first keyword that occurs as a case-insensitive substring of
//     the search text wins — no scoring, no multi-keyword weighting.
//   - Candidates with no keywords never match.
//
// KNOWN LIMITATION:
// Substring matching is cheap and language-agnostic (it works equally
// well for Japanese keywords, which have no word boundaries), but it can
// false-positive: a two-character keyword will match inside any longer
// word that contains it. That tradeoff is intentional — callers control
// precision through their keyword lists.
package matcher

import (
	"strings"

	"github.com/sakif/video-catalog/internal/model"
)

// Match returns the id of the first candidate category (in input order)
// with any keyword occurring case-insensitively in title or description.
// Returns "" when nothing matches — absence, not an error.
func Match(title, description string, candidates []model.Category) string {
	// strings.ToLower once up front; per-keyword lowering happens in the
	// loop because keywords are short and candidate lists are small.
	text := strings.ToLower(title + " " + description)

	for _, c := range candidates {
		if len(c.Keywords) == 0 {
			continue
		}
		for _, kw := range c.Keywords {
			if kw == "" {
				// An empty keyword is a substring of everything —
				// skip it rather than match every video.
				continue
			}
			if strings.Contains(text, strings.ToLower(kw)) {
				return c.ID
			}
		}
	}

	return ""
}
