package categorize

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/statementkit/tvareport/internal/domain/rules"
)

// Suggestion pairs a keyword with the category it would select, offered as
// a hint for labels that fell through to the default category.
type Suggestion struct {
	Keyword  string
	Category string
}

// maxSuggestions caps how many near-miss keywords a single label reports.
const maxSuggestions = 3

// Suggest returns keywords that almost match the label, ranked best first.
// It exists for diagnostics only; classification itself never uses fuzzy
// matching.
func Suggest(rs *rules.RuleSet, label string) []Suggestion {
	folded := strings.ToLower(label)

	type ranked struct {
		Suggestion
		rank int
	}
	var candidates []ranked
	for _, rule := range rs.Rules() {
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" || strings.Contains(folded, kw) {
				continue
			}
			rank := fuzzy.RankMatch(kw, folded)
			if rank < 0 {
				continue
			}
			candidates = append(candidates, ranked{
				Suggestion: Suggestion{Keyword: kw, Category: rule.Category},
				rank:       rank,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].rank < candidates[j].rank
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}

	out := make([]Suggestion, len(candidates))
	for i, c := range candidates {
		out[i] = c.Suggestion
	}
	return out
}
