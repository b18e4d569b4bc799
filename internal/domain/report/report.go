// Package report turns aggregation results into the final workbook. The
// model is built first as plain data, then rendered to XLSX; nothing in the
// model depends on excelize, which keeps the figures testable without
// opening a spreadsheet.
package report

import (
	"time"

	"github.com/statementkit/tvareport/internal/domain/aggregate"
	"github.com/statementkit/tvareport/internal/domain/rules"
)

// Sheet names, in workbook order.
const (
	SheetCredits       = "Recettes"
	SheetDebits        = "Dépenses"
	SheetCreditSummary = "Résumé Recettes"
	SheetDebitSummary  = "Résumé Dépenses"
	SheetRates         = "Synthèse TVA"
	SheetOverview      = "Résumé"
	SheetRules         = "Règles TVA"
)

// Report is the fully computed workbook content. All monetary values are
// final figures; the renderer writes them as values, never as formulas, so
// the file shows the same numbers the pipeline logged.
type Report struct {
	GeneratedAt time.Time
	Result      *aggregate.Result
	// Rules is a snapshot of the configuration that produced the figures,
	// written to its own sheet so a report is auditable on its own.
	Rules []rules.TaxRule
}

// Build assembles the report model.
func Build(res *aggregate.Result, rs *rules.RuleSet, now time.Time) *Report {
	return &Report{
		GeneratedAt: now,
		Result:      res,
		Rules:       rs.Rules(),
	}
}

// Empty reports whether the statement produced no transactions at all.
func (r *Report) Empty() bool {
	return len(r.Result.Credits) == 0 && len(r.Result.Debits) == 0
}
