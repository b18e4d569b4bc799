package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/statementkit/tvareport/internal/domain/aggregate"
	"github.com/statementkit/tvareport/internal/domain/rules"
	"github.com/statementkit/tvareport/internal/domain/statement"
	"github.com/statementkit/tvareport/pkg/money"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()
	rs := rules.Default()
	txs := []statement.Transaction{
		{
			Date:        time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			Label:       "VIR SEPA CLIENT DUPONT",
			Amount:      money.New(120000),
			Category:    "standard",
			TaxCategory: "standard",
			TaxRate:     20,
		},
		{
			Date:        time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
			Label:       "CARTE RESTAURANT LE ZINC",
			Amount:      money.New(-5500),
			Category:    "intermédiaire",
			TaxCategory: "intermédiaire",
			TaxRate:     10,
		},
	}
	res := aggregate.Aggregate(txs, rs)
	return Build(res, rs, time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC))
}

func TestBuild(t *testing.T) {
	r := sampleReport(t)
	assert.False(t, r.Empty())
	assert.Len(t, r.Rules, rules.Default().Len())
	assert.Equal(t, 2024, r.GeneratedAt.Year())
}

func TestBuild_Empty(t *testing.T) {
	rs := rules.Default()
	r := Build(aggregate.Aggregate(nil, rs), rs, time.Now())
	assert.True(t, r.Empty())
}

func TestRender(t *testing.T) {
	r := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, WriteTo(r, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	t.Run("all sheets present in order", func(t *testing.T) {
		assert.Equal(t, []string{
			SheetCredits, SheetDebits,
			SheetCreditSummary, SheetDebitSummary,
			SheetRates, SheetOverview, SheetRules,
		}, f.GetSheetList())
	})

	t.Run("detail rows", func(t *testing.T) {
		v, err := f.GetCellValue(SheetCredits, "B2")
		require.NoError(t, err)
		assert.Equal(t, "VIR SEPA CLIENT DUPONT", v)

		v, err = f.GetCellValue(SheetCredits, "A2")
		require.NoError(t, err)
		assert.Equal(t, "05/03/2024", v)

		v, err = f.GetCellValue(SheetDebits, "C2")
		require.NoError(t, err)
		assert.Equal(t, "intermédiaire", v)

		v, err = f.GetCellValue(SheetDebits, "G2")
		require.NoError(t, err)
		assert.Equal(t, "10 %", v)
	})

	t.Run("summary totals", func(t *testing.T) {
		rows, err := f.GetRows(SheetCreditSummary)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "standard", rows[1][0])
		assert.Equal(t, "TOTAL RECETTES", rows[2][0])
		assert.Equal(t, "1", rows[2][1])
	})

	t.Run("rate sheet carries global block", func(t *testing.T) {
		rows, err := f.GetRows(SheetRates)
		require.NoError(t, err)

		var found bool
		for _, row := range rows {
			if len(row) > 0 && row[0] == "SYNTHÈSE GLOBALE" {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("rules snapshot", func(t *testing.T) {
		rows, err := f.GetRows(SheetRules)
		require.NoError(t, err)
		require.Len(t, rows, rules.Default().Len()+1)
		assert.Equal(t, "standard", rows[1][0])
		assert.Contains(t, rows[1][2], "ovh")
	})
}

func TestRender_EmptyReport(t *testing.T) {
	rs := rules.Default()
	r := Build(aggregate.Aggregate(nil, rs), rs, time.Now())

	var buf bytes.Buffer
	require.NoError(t, WriteTo(r, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetCredits)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Date", rows[0][0])
}
