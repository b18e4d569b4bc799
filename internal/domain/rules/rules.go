// Package rules models the keyword-to-category-to-rate configuration driving
// transaction classification. The rule set is an explicit ordered list: rule
// order is a first-class part of the data, because classification resolves
// keyword conflicts purely by order.
package rules

import (
	"fmt"
)

// DefaultCategory receives every transaction no keyword claims.
const DefaultCategory = "standard"

// FallbackRatePercent applies when DefaultCategory itself is not configured.
const FallbackRatePercent = 20.0

// TaxRule binds a category to its VAT rate and the keywords that select it.
// Keyword order matters within a rule the same way rule order matters within
// the set.
type TaxRule struct {
	Category    string
	RatePercent float64
	Keywords    []string
}

// InvalidRuleSetError reports a category referenced by keywords without a
// defined rate. Configuration must be fixed before retrying.
type InvalidRuleSetError struct {
	Category string
}

func (e *InvalidRuleSetError) Error() string {
	return fmt.Sprintf("tax category %q referenced without a defined rate", e.Category)
}

// RuleSet is an immutable, ordered collection of tax rules. The pipeline only
// reads it; creation and edits belong to the configuration layer.
type RuleSet struct {
	rules []TaxRule
	index map[string]int
}

// New builds a rule set, rejecting duplicate category names.
func New(ruleList []TaxRule) (*RuleSet, error) {
	index := make(map[string]int, len(ruleList))
	rules := make([]TaxRule, len(ruleList))
	for i, r := range ruleList {
		if _, dup := index[r.Category]; dup {
			return nil, fmt.Errorf("duplicate tax category %q", r.Category)
		}
		index[r.Category] = i
		rules[i] = TaxRule{
			Category:    r.Category,
			RatePercent: r.RatePercent,
			Keywords:    append([]string(nil), r.Keywords...),
		}
	}
	return &RuleSet{rules: rules, index: index}, nil
}

// Rules returns the rules in configured order.
func (rs *RuleSet) Rules() []TaxRule {
	out := make([]TaxRule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Rate returns the rate bound to a category.
func (rs *RuleSet) Rate(category string) (float64, bool) {
	i, ok := rs.index[category]
	if !ok {
		return 0, false
	}
	return rs.rules[i].RatePercent, true
}

// Has reports whether the category is configured.
func (rs *RuleSet) Has(category string) bool {
	_, ok := rs.index[category]
	return ok
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Default returns the built-in French VAT rule set used when no rules file is
// configured or present.
func Default() *RuleSet {
	rs, err := New([]TaxRule{
		{Category: "standard", RatePercent: 20.0, Keywords: []string{"ovh", "amazon"}},
		{Category: "intermédiaire", RatePercent: 10.0, Keywords: []string{"restaurant", "resto"}},
		{Category: "réduit", RatePercent: 5.5, Keywords: []string{"alimentation"}},
		{Category: "particulier", RatePercent: 7.0, Keywords: []string{"rénovation"}},
		{Category: "exonéré", RatePercent: 0.0, Keywords: []string{"formation", "impôt"}},
	})
	if err != nil {
		panic(err) // static data
	}
	return rs
}
