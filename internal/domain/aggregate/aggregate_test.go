package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statementkit/tvareport/internal/domain/rules"
	"github.com/statementkit/tvareport/internal/domain/statement"
	"github.com/statementkit/tvareport/pkg/money"
)

func tx(t *testing.T, label string, cents int64, category string, rate float64) statement.Transaction {
	t.Helper()
	return statement.Transaction{
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Label:       label,
		Amount:      money.New(cents),
		Category:    category,
		TaxCategory: category,
		TaxRate:     rate,
	}
}

func TestAggregate_SplitsByDirection(t *testing.T) {
	rs := rules.Default()
	res := Aggregate([]statement.Transaction{
		tx(t, "VIR CLIENT A", 120000, "standard", 20),
		tx(t, "CARTE RESTAURANT", -5500, "intermédiaire", 10),
		tx(t, "PRLV OVH", -1200, "standard", 20),
	}, rs)

	require.Len(t, res.Credits, 1)
	require.Len(t, res.Debits, 2)
	assert.Equal(t, "VIR CLIENT A", res.Credits[0].Tx.Label)

	// Gross is absolute on both sides.
	assert.Equal(t, int64(5500), res.Debits[0].Gross.Amount())
	assert.Equal(t, int64(120000), res.Credits[0].Gross.Amount())
}

func TestAggregate_EntriesReconcile(t *testing.T) {
	rs := rules.Default()
	res := Aggregate([]statement.Transaction{
		tx(t, "VIR CLIENT", 4990, "standard", 20),
		tx(t, "CARTE RESTO", -1999, "intermédiaire", 10),
		tx(t, "CARTE EPICERIE", -1234, "réduit", 5.5),
		tx(t, "VIR FORMATION", 33333, "exonéré", 0),
	}, rs)

	for _, e := range append(append([]Entry(nil), res.Credits...), res.Debits...) {
		assert.Equal(t, e.Gross.Amount(), e.Net.Add(e.Tax).Amount(), "entry %q", e.Tx.Label)
	}

	// 49,90 at 20%: net 41,58 tax 8,32.
	assert.Equal(t, int64(4158), res.Credits[0].Net.Amount())
	assert.Equal(t, int64(832), res.Credits[0].Tax.Amount())

	// Zero-rate entries carry all of the gross as net.
	assert.Equal(t, int64(33333), res.Credits[1].Net.Amount())
	assert.True(t, res.Credits[1].Tax.IsZero())
}

func TestAggregate_CategorySummaryOrdering(t *testing.T) {
	rs := rules.Default()
	res := Aggregate([]statement.Transaction{
		tx(t, "A", -1000, "réduit", 5.5),
		tx(t, "B", -5000, "standard", 20),
		tx(t, "C", -2000, "réduit", 5.5),
		tx(t, "D", -3000, "intermédiaire", 10),
	}, rs)

	lines := res.DebitSummary.Lines
	require.Len(t, lines, 3)
	// Ordered by gross descending: standard 50, réduit 30, intermédiaire 30?
	// réduit sums to 30,00 and ties with intermédiaire; réduit appeared
	// first so it stays first.
	assert.Equal(t, "standard", lines[0].Category)
	assert.Equal(t, "réduit", lines[1].Category)
	assert.Equal(t, "intermédiaire", lines[2].Category)

	assert.Equal(t, int64(5000), lines[0].Gross.Amount())
	assert.Equal(t, 2, lines[1].Count)
	assert.Equal(t, int64(11000), res.DebitSummary.Total.Gross.Amount())
	assert.Equal(t, 4, res.DebitSummary.Total.Count)
}

func TestAggregate_RateSummary(t *testing.T) {
	rs := rules.Default()
	res := Aggregate([]statement.Transaction{
		tx(t, "VIR CLIENT", 12000, "standard", 20),
		tx(t, "CARTE RESTO", -2200, "intermédiaire", 10),
	}, rs)

	// One line per configured rule, in configuration order, zero counts
	// included.
	require.Len(t, res.Rates, rs.Len())
	assert.Equal(t, "standard", res.Rates[0].Category)
	assert.Equal(t, 20.0, res.Rates[0].RatePercent)
	assert.Equal(t, 1, res.Rates[0].Count)
	assert.Equal(t, "réduit", res.Rates[2].Category)
	assert.Equal(t, 0, res.Rates[2].Count)

	assert.Equal(t, int64(14200), res.RateTotal.Gross.Amount())
	assert.Equal(t, 2, res.RateTotal.Count)
}

func TestAggregate_RateSummaryDirectionSplit(t *testing.T) {
	rs := rules.Default()
	res := Aggregate([]statement.Transaction{
		tx(t, "VIR CLIENT", 12000, "standard", 20),
		tx(t, "PRLV OVH", -6000, "standard", 20),
	}, rs)

	std := res.Rates[0]
	require.Equal(t, "standard", std.Category)

	// 120,00 gross at 20%: tax 20,00. 60,00 gross at 20%: tax 10,00.
	assert.Equal(t, int64(2000), std.TaxCollected.Amount())
	assert.Equal(t, int64(1000), std.TaxDeductible.Amount())
	assert.Equal(t, int64(1000), std.TaxNet.Amount())
	assert.Equal(t, std.TaxCollected.Add(std.TaxDeductible).Amount(), std.Tax.Amount())

	// Untouched rules split to zero everywhere.
	assert.True(t, res.Rates[2].TaxNet.IsZero())
}

func TestAggregate_RateSummaryFallbackCategory(t *testing.T) {
	// A rule set without the default category still aggregates fallback
	// classifications; they land on an extra trailing line.
	rs, err := rules.New([]rules.TaxRule{
		{Category: "réduit", RatePercent: 5.5, Keywords: []string{"alimentation"}},
	})
	require.NoError(t, err)

	res := Aggregate([]statement.Transaction{
		tx(t, "VIR SANS MOT CLE", 10000, rules.DefaultCategory, rules.FallbackRatePercent),
	}, rs)

	require.Len(t, res.Rates, 2)
	assert.Equal(t, rules.DefaultCategory, res.Rates[1].Category)
	assert.Equal(t, 1, res.Rates[1].Count)
}

func TestAggregate_RemappedCategoryKeepsRateBucket(t *testing.T) {
	rs := rules.Default()
	remapped := tx(t, "VIR REMBOURSEMENT", -4000, "standard", 20)
	remapped.Category = rules.OtherCategory

	res := Aggregate([]statement.Transaction{remapped}, rs)

	// The reporting summary shows Autre, the rate summary still counts
	// the entry under its tax category, and both agree on the total.
	require.Len(t, res.DebitSummary.Lines, 1)
	assert.Equal(t, rules.OtherCategory, res.DebitSummary.Lines[0].Category)
	assert.Equal(t, 1, res.Rates[0].Count)
	assert.Equal(t, res.DebitSummary.Total.Gross.Amount(), res.RateTotal.Gross.Amount())
}

func TestAggregate_Global(t *testing.T) {
	rs := rules.Default()
	res := Aggregate([]statement.Transaction{
		tx(t, "VIR CLIENT", 100000, "standard", 20),
		tx(t, "VIR FORMATION", 20000, "exonéré", 0),
		tx(t, "CARTE RESTO", -3000, "intermédiaire", 10),
	}, rs)

	g := res.Global
	assert.Equal(t, int64(120000), g.Income.Gross.Amount())
	assert.Equal(t, int64(3000), g.Expense.Gross.Amount())
	assert.Equal(t, int64(117000), g.BalanceGross.Amount())
	assert.Equal(t, g.Income.Net.Subtract(g.Expense.Net).Amount(), g.BalanceNet.Amount())
	assert.Equal(t, g.Income.Tax.Subtract(g.Expense.Tax).Amount(), g.BalanceTax.Amount())

	// Only the 20% income counts as VAT-liable.
	assert.Equal(t, int64(100000), g.TaxableIncomeGross.Amount())
}

func TestAggregate_Empty(t *testing.T) {
	rs := rules.Default()
	res := Aggregate(nil, rs)

	assert.Empty(t, res.Credits)
	assert.Empty(t, res.Debits)
	assert.Empty(t, res.CreditSummary.Lines)
	assert.True(t, res.RateTotal.Gross.IsZero())
	assert.True(t, res.Global.BalanceGross.IsZero())
	require.Len(t, res.Rates, rs.Len())
}
