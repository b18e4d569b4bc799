package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/statementkit/tvareport/internal/domain/aggregate"
)

const (
	euroFormat = `#,##0.00\ "€"`
	dateLayout = "02/01/2006"

	headerFill    = "DDEBF7"
	highlightFill = "FFF2CC"
)

// renderer carries the workbook and the style ids shared across sheets.
type renderer struct {
	f         *excelize.File
	header    int
	euro      int
	euroBold  int
	boldLabel int
	highlight int
}

// Render produces the XLSX workbook for a report. All cells hold computed
// values; the workbook carries no formulas.
func Render(r *Report) (*excelize.File, error) {
	f := excelize.NewFile()
	rd := &renderer{f: f}
	if err := rd.buildStyles(); err != nil {
		return nil, fmt.Errorf("build styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetCredits); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetDebits, SheetCreditSummary, SheetDebitSummary, SheetRates, SheetOverview, SheetRules} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	rd.renderEntries(SheetCredits, r.Result.Credits)
	rd.renderEntries(SheetDebits, r.Result.Debits)
	rd.renderSummary(SheetCreditSummary, "TOTAL RECETTES", r.Result.CreditSummary)
	rd.renderSummary(SheetDebitSummary, "TOTAL DÉPENSES", r.Result.DebitSummary)
	rd.renderRates(r)
	rd.renderOverview(r)
	rd.renderRules(r)

	f.SetActiveSheet(0)
	return f, nil
}

// WriteTo renders the report and writes the workbook to w.
func WriteTo(r *Report, w io.Writer) error {
	f, err := Render(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save renders the report and writes the workbook to path.
func Save(r *Report, path string) error {
	f, err := Render(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (rd *renderer) buildStyles() error {
	var err error
	euro := euroFormat

	rd.header, err = rd.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	rd.euro, err = rd.f.NewStyle(&excelize.Style{CustomNumFmt: &euro})
	if err != nil {
		return err
	}
	rd.euroBold, err = rd.f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &euro,
	})
	if err != nil {
		return err
	}
	rd.boldLabel, err = rd.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	rd.highlight, err = rd.f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Fill:         excelize.Fill{Type: "pattern", Color: []string{highlightFill}, Pattern: 1},
		CustomNumFmt: &euro,
	})
	return err
}

// renderEntries writes one detail sheet, one row per transaction.
func (rd *renderer) renderEntries(sheet string, entries []aggregate.Entry) {
	rd.setRow(sheet, 1, "Date", "Libellé", "Catégorie", "Montant TTC", "Montant HT", "TVA", "Taux TVA")
	rd.styleRange(sheet, 1, 7, 1, rd.header)

	for i, e := range entries {
		row := i + 2
		rd.setRow(sheet, row,
			e.Tx.Date.Format(dateLayout),
			e.Tx.Label,
			e.Tx.Category,
			e.Gross.ToFloat64(),
			e.Net.ToFloat64(),
			e.Tax.ToFloat64(),
			formatRate(e.Tx.TaxRate),
		)
		rd.styleRange(sheet, 4, 6, row, rd.euro)
	}

	rd.f.SetColWidth(sheet, "A", "A", 12)
	rd.f.SetColWidth(sheet, "B", "B", 48)
	rd.f.SetColWidth(sheet, "C", "C", 22)
	rd.f.SetColWidth(sheet, "D", "G", 14)
}

// renderSummary writes a per-category summary sheet with a total row.
func (rd *renderer) renderSummary(sheet, totalLabel string, s aggregate.Summary) {
	rd.setRow(sheet, 1, "Catégorie", "Opérations", "Montant TTC", "Montant HT", "TVA")
	rd.styleRange(sheet, 1, 5, 1, rd.header)

	row := 2
	for _, line := range s.Lines {
		rd.setRow(sheet, row, line.Category, line.Count,
			line.Gross.ToFloat64(), line.Net.ToFloat64(), line.Tax.ToFloat64())
		rd.styleRange(sheet, 3, 5, row, rd.euro)
		row++
	}

	rd.setRow(sheet, row, totalLabel, s.Total.Count,
		s.Total.Gross.ToFloat64(), s.Total.Net.ToFloat64(), s.Total.Tax.ToFloat64())
	rd.f.SetCellStyle(sheet, cell(1, row), cell(2, row), rd.boldLabel)
	rd.styleRange(sheet, 3, 5, row, rd.highlight)

	rd.f.SetColWidth(sheet, "A", "A", 26)
	rd.f.SetColWidth(sheet, "B", "E", 14)
}

// renderRates writes the VAT rate breakdown and the global synthesis block.
func (rd *renderer) renderRates(r *Report) {
	sheet := SheetRates
	res := r.Result

	rd.setRow(sheet, 1, "Catégorie TVA", "Taux", "Opérations", "Montant TTC",
		"TVA collectée", "TVA déductible", "TVA nette")
	rd.styleRange(sheet, 1, 7, 1, rd.header)

	row := 2
	for _, line := range res.Rates {
		rd.setRow(sheet, row, line.Category, formatRate(line.RatePercent), line.Count,
			line.Gross.ToFloat64(),
			line.TaxCollected.ToFloat64(), line.TaxDeductible.ToFloat64(), line.TaxNet.ToFloat64())
		rd.styleRange(sheet, 4, 7, row, rd.euro)
		row++
	}

	g := res.Global
	rd.setRow(sheet, row, "TOTAL", "", res.RateTotal.Count,
		res.RateTotal.Gross.ToFloat64(),
		g.Income.Tax.ToFloat64(), g.Expense.Tax.ToFloat64(), g.BalanceTax.ToFloat64())
	rd.f.SetCellStyle(sheet, cell(1, row), cell(3, row), rd.boldLabel)
	rd.styleRange(sheet, 4, 7, row, rd.highlight)
	row += 2

	rd.f.SetCellValue(sheet, cell(1, row), "SYNTHÈSE GLOBALE")
	rd.f.SetCellStyle(sheet, cell(1, row), cell(1, row), rd.boldLabel)
	row++
	for _, block := range []struct {
		label string
		t     aggregate.Totals
	}{
		{"Recettes", g.Income},
		{"Dépenses", g.Expense},
	} {
		rd.setRow(sheet, row, block.label, "", block.t.Count,
			block.t.Gross.ToFloat64(), block.t.Net.ToFloat64(), block.t.Tax.ToFloat64())
		rd.styleRange(sheet, 4, 6, row, rd.euro)
		row++
	}
	rd.setRow(sheet, row, "Solde", "", "",
		g.BalanceGross.ToFloat64(), g.BalanceNet.ToFloat64(), g.BalanceTax.ToFloat64())
	rd.styleRange(sheet, 4, 6, row, rd.euroBold)
	row++
	rd.setRow(sheet, row, "CA assujetti à TVA", "", "", g.TaxableIncomeGross.ToFloat64())
	rd.styleRange(sheet, 4, 4, row, rd.euroBold)

	rd.f.SetColWidth(sheet, "A", "A", 24)
	rd.f.SetColWidth(sheet, "B", "G", 14)
}

// renderOverview writes the human summary sheet.
func (rd *renderer) renderOverview(r *Report) {
	sheet := SheetOverview
	res := r.Result
	g := res.Global

	rows := []struct {
		label string
		value any
		euro  bool
	}{
		{"Rapport généré le", r.GeneratedAt.Format("02/01/2006 15:04"), false},
		{"Opérations", g.Income.Count + g.Expense.Count, false},
		{"Recettes", g.Income.Count, false},
		{"Dépenses", g.Expense.Count, false},
		{"Total recettes TTC", g.Income.Gross.ToFloat64(), true},
		{"Total dépenses TTC", g.Expense.Gross.ToFloat64(), true},
		{"Solde TTC", g.BalanceGross.ToFloat64(), true},
		{"TVA collectée", g.Income.Tax.ToFloat64(), true},
		{"TVA déductible", g.Expense.Tax.ToFloat64(), true},
		{"TVA nette", g.BalanceTax.ToFloat64(), true},
	}
	for i, rw := range rows {
		row := i + 1
		rd.setRow(sheet, row, rw.label, rw.value)
		rd.f.SetCellStyle(sheet, cell(1, row), cell(1, row), rd.boldLabel)
		if rw.euro {
			rd.styleRange(sheet, 2, 2, row, rd.euro)
		}
	}

	rd.f.SetColWidth(sheet, "A", "A", 24)
	rd.f.SetColWidth(sheet, "B", "B", 20)
}

// renderRules snapshots the configuration that produced the report.
func (rd *renderer) renderRules(r *Report) {
	sheet := SheetRules
	rd.setRow(sheet, 1, "Catégorie", "Taux", "Mots-clés")
	rd.styleRange(sheet, 1, 3, 1, rd.header)

	for i, rule := range r.Rules {
		rd.setRow(sheet, i+2, rule.Category, formatRate(rule.RatePercent), strings.Join(rule.Keywords, ", "))
	}

	rd.f.SetColWidth(sheet, "A", "B", 16)
	rd.f.SetColWidth(sheet, "C", "C", 60)
}

func formatRate(percent float64) string {
	return strconv.FormatFloat(percent, 'f', -1, 64) + " %"
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (rd *renderer) setRow(sheet string, row int, values ...any) {
	for i, v := range values {
		rd.f.SetCellValue(sheet, cell(i+1, row), v)
	}
}

func (rd *renderer) styleRange(sheet string, fromCol, toCol, row, style int) {
	rd.f.SetCellStyle(sheet, cell(fromCol, row), cell(toCol, row), style)
}
