// Package pipeline runs the full statement processing flow: locate the
// header, resolve columns, normalize rows, classify, aggregate and build
// the report. It owns the run lifecycle and the operational logging; the
// domain packages underneath stay free of both.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/statementkit/tvareport/internal/domain/aggregate"
	"github.com/statementkit/tvareport/internal/domain/categorize"
	"github.com/statementkit/tvareport/internal/domain/report"
	"github.com/statementkit/tvareport/internal/domain/rules"
	"github.com/statementkit/tvareport/internal/domain/statement"
)

// Outcome is the result of one pipeline run.
type Outcome struct {
	RunID        uuid.UUID
	Report       *report.Report
	Transactions int
	// Empty marks a statement that yielded no usable transactions. The
	// report still exists, with headers and zero totals.
	Empty    bool
	Warnings []string
}

// Service executes pipeline runs. Safe for concurrent use; each run keeps
// its state on the stack.
type Service struct {
	log       *slog.Logger
	scanDepth int
	now       func() time.Time
}

// NewService builds a pipeline service. A non-positive scanDepth falls
// back to the default header scan depth.
func NewService(log *slog.Logger, scanDepth int) *Service {
	if scanDepth <= 0 {
		scanDepth = statement.DefaultScanDepth
	}
	return &Service{log: log, scanDepth: scanDepth, now: time.Now}
}

// Run processes one statement grid against a rule set.
//
// A statement whose columns cannot be resolved is a fatal error; an empty
// statement is not, it produces an Outcome with Empty set.
func (s *Service) Run(ctx context.Context, grid statement.RawGrid, rs *rules.RuleSet) (*Outcome, error) {
	runID := uuid.New()
	log := s.log.With(slog.String("run_id", runID.String()))
	started := s.now()

	out := &Outcome{RunID: runID}

	headerRow, degraded := statement.LocateHeader(grid, s.scanDepth)
	if degraded {
		out.Warnings = append(out.Warnings, "header row not found, assuming first row")
		log.Warn("header row not found, assuming first row")
	}

	hm, err := statement.ResolveColumns(grid.Row(headerRow))
	if err != nil {
		log.Error("column resolution failed", slog.Any("error", err))
		return nil, fmt.Errorf("resolve columns: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txs := statement.Normalize(grid, headerRow, hm)
	log.Info("statement normalized",
		slog.Int("rows", len(grid)),
		slog.Int("header_row", headerRow),
		slog.Int("transactions", len(txs)))

	engine := categorize.NewEngine(rs)
	defaulted := 0
	for i := range txs {
		m := engine.Classify(txs[i].Label)
		txs[i].TaxCategory = m.Category
		txs[i].TaxRate = m.RatePercent
		txs[i].Category = categorize.RemapForDirection(m.Category, !txs[i].Amount.IsNegative())

		if m.Keyword == "" {
			defaulted++
			if suggestions := categorize.Suggest(rs, txs[i].Label); len(suggestions) > 0 {
				log.Debug("no keyword matched",
					slog.String("label", txs[i].Label),
					slog.String("near_keyword", suggestions[0].Keyword),
					slog.String("near_category", suggestions[0].Category))
			}
		}
	}
	if defaulted > 0 {
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("%d transaction(s) fell back to the default category", defaulted))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := aggregate.Aggregate(txs, rs)
	out.Report = report.Build(res, rs, s.now())
	out.Transactions = len(txs)
	out.Empty = len(txs) == 0

	if out.Empty {
		log.Warn("statement produced no transactions")
	}
	log.Info("run complete",
		slog.Int("transactions", out.Transactions),
		slog.Int("credits", len(res.Credits)),
		slog.Int("debits", len(res.Debits)),
		slog.Duration("elapsed", s.now().Sub(started)))
	return out, nil
}
