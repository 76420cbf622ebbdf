// Package extract parses generated free text into candidate actions.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/service/textnorm"
)

// DefaultCategory is the category cursor before any label line.
const DefaultCategory = "uncategorized"

// MaxSubtasks caps the number of sub-tasks returned for one decomposition.
const MaxSubtasks = 7

// MinSubtasks is the number of sub-tasks a decomposition prompt asks for at
// least. Fewer are still accepted.
const MinSubtasks = 3

const minFallbackRunes = 3

var (
	// labelLine matches "[Label]" (or "【Label】") alone on a line. Lines are
	// width-folded before matching so full-width brackets behave the same.
	labelLine = regexp.MustCompile(`^(?:\[([^\[\]]+)\]|【([^【】]+)】)$`)
	// levelLine matches an explicit third-level line ("L3: ...").
	levelLine = regexp.MustCompile(`^(?i:l3)\s*:\s*(.+)$`)
)

// Candidate is an action proposed by generated text, filed under a category.
type Candidate struct {
	Category string `json:"category"`
	Action   string `json:"action"`
}

// Candidates walks text line by line and returns every bullet or L3 line as a
// candidate under the most recent label. Interrogative lines never become
// candidates.
func Candidates(text string, c textnorm.Canonicalizer) []Candidate {
	if c == nil {
		c = textnorm.Passthrough
	}

	category := DefaultCategory
	var out []Candidate

	for _, raw := range splitLines(text) {
		folded := strings.TrimSpace(width.Fold.String(raw))
		if folded == "" {
			continue
		}
		if label, ok := parseLabel(folded); ok {
			category = label
			continue
		}
		if textnorm.IsInterrogative(folded) {
			continue
		}

		body, ok := actionBody(raw)
		if !ok {
			continue
		}
		action := c.Canonicalize(body)
		if action == "" {
			continue
		}
		out = append(out, Candidate{Category: category, Action: action})
	}

	return out
}

// Subtasks extracts a flat list of sub-task texts for decomposing one item.
// Bullet and L3 lines are preferred; when none exist every non-trivial line is
// used instead. Results are deduplicated case-insensitively, keep their order
// and are capped at MaxSubtasks.
func Subtasks(text string, c textnorm.Canonicalizer) []string {
	if c == nil {
		c = textnorm.Passthrough
	}

	var marked, loose []string
	for _, raw := range splitLines(text) {
		folded := strings.TrimSpace(width.Fold.String(raw))
		if folded == "" || textnorm.IsInterrogative(folded) {
			continue
		}
		if _, ok := parseLabel(folded); ok {
			continue
		}
		if body, ok := actionBody(raw); ok {
			marked = append(marked, c.Canonicalize(body))
			continue
		}
		if isHeading(folded) {
			continue
		}
		if utf8.RuneCountInString(textnorm.Normalize(raw)) >= minFallbackRunes {
			loose = append(loose, c.Canonicalize(raw))
		}
	}

	picked := marked
	if len(picked) == 0 {
		picked = loose
	}
	return dedupe(picked, MaxSubtasks)
}

func actionBody(raw string) (string, bool) {
	stripped := textnorm.Normalize(raw)
	if m := levelLine.FindStringSubmatch(width.Fold.String(stripped)); m != nil {
		// Cut the unfolded text so the body keeps its original script.
		if i := strings.IndexAny(stripped, ":："); i >= 0 {
			_, size := utf8.DecodeRuneInString(stripped[i:])
			return strings.TrimSpace(stripped[i+size:]), true
		}
		return m[1], true
	}
	if textnorm.HasListMarker(raw) {
		return stripped, true
	}
	return "", false
}

func parseLabel(folded string) (string, bool) {
	m := labelLine.FindStringSubmatch(folded)
	if m == nil {
		return "", false
	}
	label := m[1]
	if label == "" {
		label = m[2]
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return "", false
	}
	return label, true
}

func isHeading(folded string) bool {
	return strings.HasPrefix(folded, "#") || strings.HasPrefix(folded, "```")
}

func dedupe(items []string, limit int) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == "" {
			continue
		}
		k := textnorm.Key(it)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
