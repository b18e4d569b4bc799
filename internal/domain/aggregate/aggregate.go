// Package aggregate folds classified transactions into the figures the
// report sheets display: per-direction entries with their VAT split,
// per-category summaries, a per-rate summary, and the global balance.
//
// All sums run in integer cents. Every entry's net and tax are derived
// from its gross with base plus tax equal to gross exactly, so every
// summary reconciles: line totals equal entry totals, and the category
// and rate summaries agree on the grand total.
package aggregate

import (
	"sort"

	"github.com/statementkit/tvareport/internal/domain/rules"
	"github.com/statementkit/tvareport/internal/domain/statement"
	"github.com/statementkit/tvareport/pkg/money"
)

// Entry is one transaction with its tax-inclusive amount split out.
// Gross is the absolute amount regardless of direction.
type Entry struct {
	Tx    statement.Transaction
	Gross *money.Money
	Net   *money.Money
	Tax   *money.Money
}

// Totals accumulates gross, net and tax over a group of entries.
type Totals struct {
	Count int
	Gross *money.Money
	Net   *money.Money
	Tax   *money.Money
}

func zeroTotals() Totals {
	return Totals{Gross: money.Zero(), Net: money.Zero(), Tax: money.Zero()}
}

func (t *Totals) add(e Entry) {
	t.Count++
	t.Gross = t.Gross.Add(e.Gross)
	t.Net = t.Net.Add(e.Net)
	t.Tax = t.Tax.Add(e.Tax)
}

// CategoryLine is one row of a per-direction category summary.
type CategoryLine struct {
	Category string
	Totals
}

// Summary is a per-direction category breakdown. Lines are ordered by
// gross amount descending; categories with equal gross keep their first
// appearance order.
type Summary struct {
	Lines []CategoryLine
	Total Totals
}

// RateLine is one row of the VAT rate summary. Rows follow rule
// configuration order and cover every configured category, including
// those no transaction hit. Tax splits by direction: collected on
// credits, deductible on debits, net is their difference.
type RateLine struct {
	Category    string
	RatePercent float64
	Totals
	TaxCollected  *money.Money
	TaxDeductible *money.Money
	TaxNet        *money.Money
}

// Global is the whole-statement balance.
type Global struct {
	Income  Totals
	Expense Totals
	// Balance is income minus expense, per component.
	BalanceGross *money.Money
	BalanceNet   *money.Money
	BalanceTax   *money.Money
	// TaxableIncomeGross is the gross income carrying a non-zero VAT rate.
	TaxableIncomeGross *money.Money
}

// Result carries everything the report needs.
type Result struct {
	Credits []Entry
	Debits  []Entry

	CreditSummary Summary
	DebitSummary  Summary

	Rates     []RateLine
	RateTotal Totals

	Global Global
}

// Aggregate splits classified transactions by direction and computes all
// summaries against the rule set that classified them.
func Aggregate(txs []statement.Transaction, rs *rules.RuleSet) *Result {
	res := &Result{
		CreditSummary: Summary{Total: zeroTotals()},
		DebitSummary:  Summary{Total: zeroTotals()},
		RateTotal:     zeroTotals(),
		Global: Global{
			Income:             zeroTotals(),
			Expense:            zeroTotals(),
			TaxableIncomeGross: money.Zero(),
		},
	}

	for _, tx := range txs {
		gross := tx.Amount.Abs()
		net, tax := gross.SplitTaxInclusive(tx.TaxRate)
		e := Entry{Tx: tx, Gross: gross, Net: net, Tax: tax}

		if tx.Amount.IsNegative() {
			res.Debits = append(res.Debits, e)
			res.Global.Expense.add(e)
		} else {
			res.Credits = append(res.Credits, e)
			res.Global.Income.add(e)
			if tx.TaxRate > 0 {
				res.Global.TaxableIncomeGross = res.Global.TaxableIncomeGross.Add(gross)
			}
		}
		res.RateTotal.add(e)
	}

	res.CreditSummary = summarize(res.Credits)
	res.DebitSummary = summarize(res.Debits)
	res.Rates = rateLines(append(append([]Entry(nil), res.Credits...), res.Debits...), rs)

	res.Global.BalanceGross = res.Global.Income.Gross.Subtract(res.Global.Expense.Gross)
	res.Global.BalanceNet = res.Global.Income.Net.Subtract(res.Global.Expense.Net)
	res.Global.BalanceTax = res.Global.Income.Tax.Subtract(res.Global.Expense.Tax)
	return res
}

func summarize(entries []Entry) Summary {
	s := Summary{Total: zeroTotals()}
	index := make(map[string]int)
	for _, e := range entries {
		cat := e.Tx.Category
		i, ok := index[cat]
		if !ok {
			i = len(s.Lines)
			index[cat] = i
			s.Lines = append(s.Lines, CategoryLine{Category: cat, Totals: zeroTotals()})
		}
		s.Lines[i].add(e)
		s.Total.add(e)
	}
	sort.SliceStable(s.Lines, func(i, j int) bool {
		return s.Lines[i].Gross.Compare(s.Lines[j].Gross) > 0
	})
	return s
}

// rateLines groups by tax category, which unlike the reporting category is
// always a configured rule category (or the default fallback).
func rateLines(entries []Entry, rs *rules.RuleSet) []RateLine {
	newLine := func(category string, rate float64) RateLine {
		return RateLine{
			Category:      category,
			RatePercent:   rate,
			Totals:        zeroTotals(),
			TaxCollected:  money.Zero(),
			TaxDeductible: money.Zero(),
		}
	}

	lines := make([]RateLine, 0, rs.Len())
	index := make(map[string]int, rs.Len())
	for _, r := range rs.Rules() {
		index[r.Category] = len(lines)
		lines = append(lines, newLine(r.Category, r.RatePercent))
	}

	for _, e := range entries {
		i, ok := index[e.Tx.TaxCategory]
		if !ok {
			// Fallback classification when no default rule is configured.
			i = len(lines)
			index[e.Tx.TaxCategory] = i
			lines = append(lines, newLine(e.Tx.TaxCategory, e.Tx.TaxRate))
		}
		lines[i].add(e)
		if e.Tx.Amount.IsNegative() {
			lines[i].TaxDeductible = lines[i].TaxDeductible.Add(e.Tax)
		} else {
			lines[i].TaxCollected = lines[i].TaxCollected.Add(e.Tax)
		}
	}

	for i := range lines {
		lines[i].TaxNet = lines[i].TaxCollected.Subtract(lines[i].TaxDeductible)
	}
	return lines
}
