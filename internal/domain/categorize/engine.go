// Package categorize assigns tax categories to transactions by matching
// rule keywords against transaction labels.
//
// Matching is substring-based and case-insensitive. When several keywords
// hit the same label, the winner is decided by configuration order alone:
// the earliest rule wins, and within a rule the earliest keyword wins. The
// result never depends on match position inside the label or on keyword
// length, so reclassifying the same statement always yields the same answer.
package categorize

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/statementkit/tvareport/internal/domain/rules"
)

// Match is the outcome of classifying one label.
type Match struct {
	Category    string
	RatePercent float64
	// Keyword is the winning keyword, empty when the label fell through to
	// the default category.
	Keyword string
}

// pattern records where a deduplicated keyword sits in the configuration,
// so matcher hits can be ranked back into rule order.
type pattern struct {
	ruleIdx     int
	keywordIdx  int
	keyword     string
	category    string
	ratePercent float64
}

// Engine classifies labels against a fixed rule set. Construction compiles
// all keywords into a single Aho-Corasick automaton; one pass over the label
// finds every keyword occurrence regardless of rule count.
type Engine struct {
	matcher  *ahocorasick.Matcher
	patterns []pattern
	fallback Match
}

// NewEngine compiles the rule set's keywords into a matcher.
func NewEngine(rs *rules.RuleSet) *Engine {
	var patterns []pattern
	seen := make(map[string]struct{})
	for ri, rule := range rs.Rules() {
		for ki, kw := range rule.Keywords {
			folded := strings.ToLower(strings.TrimSpace(kw))
			if folded == "" {
				continue
			}
			// A keyword repeated under a later rule can never win, so
			// only the first occurrence goes into the automaton.
			if _, dup := seen[folded]; dup {
				continue
			}
			seen[folded] = struct{}{}
			patterns = append(patterns, pattern{
				ruleIdx:     ri,
				keywordIdx:  ki,
				keyword:     folded,
				category:    rule.Category,
				ratePercent: rule.RatePercent,
			})
		}
	}

	e := &Engine{patterns: patterns, fallback: fallbackMatch(rs)}
	if len(patterns) > 0 {
		dict := make([][]byte, len(patterns))
		for i, p := range patterns {
			dict[i] = []byte(p.keyword)
		}
		e.matcher = ahocorasick.NewMatcher(dict)
	}
	return e
}

func fallbackMatch(rs *rules.RuleSet) Match {
	rate, ok := rs.Rate(rules.DefaultCategory)
	if !ok {
		rate = rules.FallbackRatePercent
	}
	return Match{Category: rules.DefaultCategory, RatePercent: rate}
}

// Classify resolves the tax category for a transaction label. Labels no
// keyword matches fall through to the default category.
func (e *Engine) Classify(label string) Match {
	if e.matcher == nil {
		return e.fallback
	}
	folded := strings.ToLower(label)
	hits := e.matcher.Match([]byte(folded))
	if len(hits) == 0 {
		return e.fallback
	}

	best := -1
	for _, idx := range hits {
		if best == -1 || lessRank(e.patterns[idx], e.patterns[best]) {
			best = idx
		}
	}
	p := e.patterns[best]
	return Match{Category: p.category, RatePercent: p.ratePercent, Keyword: p.keyword}
}

func lessRank(a, b pattern) bool {
	if a.ruleIdx != b.ruleIdx {
		return a.ruleIdx < b.ruleIdx
	}
	return a.keywordIdx < b.keywordIdx
}

// RemapForDirection applies the direction policy to a reporting category:
// an expense-only category on a credit, or an income-only category on a
// debit, is replaced by the neutral bucket. The tax rate is untouched, the
// remap is purely a reporting concern.
func RemapForDirection(category string, isCredit bool) string {
	if isCredit && rules.IsExpenseCategory(category) {
		return rules.OtherCategory
	}
	if !isCredit && rules.IsIncomeCategory(category) {
		return rules.OtherCategory
	}
	return category
}
