package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/statementkit/tvareport/internal/domain/ingest"
	"github.com/statementkit/tvareport/internal/domain/pipeline"
	"github.com/statementkit/tvareport/internal/domain/report"
	"github.com/statementkit/tvareport/internal/domain/rules"
	"github.com/statementkit/tvareport/internal/domain/statement"
	"github.com/statementkit/tvareport/pkg/config"
)

func newProcessCommand() *cobra.Command {
	var (
		rulesPath string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "process <relevé.xlsx|relevé.csv|dossier> [autres...]",
		Short: "Traite un ou plusieurs relevés et génère les rapports TVA",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if rulesPath != "" {
				cfg.Rules.Path = rulesPath
			}
			if outputDir != "" {
				cfg.Report.OutputDir = outputDir
			}

			log := newLogger(cfg.Logging)
			return runProcess(cmd.Context(), log, cfg, args)
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "fichier de règles TVA (.json ou .csv)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "répertoire de sortie des rapports")
	return cmd
}

func runProcess(ctx context.Context, log *slog.Logger, cfg *config.Config, args []string) error {
	rs, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	log.Info("rules loaded",
		slog.String("path", cfg.Rules.Path),
		slog.Int("categories", rs.Len()))

	inputs, err := expandInputs(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no statement files found in %s", strings.Join(args, ", "))
	}

	svc := pipeline.NewService(log, cfg.Ingest.HeaderScanDepth)

	var failed int
	for _, input := range inputs {
		if err := processOne(ctx, log, svc, cfg, rs, input); err != nil {
			log.Error("statement failed",
				slog.String("input", input),
				slog.Any("error", err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d statement(s) failed", failed, len(inputs))
	}
	return nil
}

func processOne(ctx context.Context, log *slog.Logger, svc *pipeline.Service, cfg *config.Config, rs *rules.RuleSet, input string) error {
	grid, err := readGrid(input)
	if err != nil {
		return err
	}

	out, err := svc.Run(ctx, grid, rs)
	if err != nil {
		return err
	}
	for _, w := range out.Warnings {
		log.Warn(w, slog.String("input", input))
	}
	if out.Empty {
		log.Warn("no transactions found, writing empty report", slog.String("input", input))
	}

	dest := outputPath(cfg.Report, input, out.Report.GeneratedAt)
	if err := report.Save(out.Report, dest); err != nil {
		return err
	}
	log.Info("report written",
		slog.String("input", input),
		slog.String("output", dest),
		slog.Int("transactions", out.Transactions))
	return nil
}

func readGrid(path string) (statement.RawGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open statement: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ingest.ReadCSV(f)
	}
	return ingest.ReadXLSX(f)
}

// expandInputs flattens directory arguments into the statement files they
// contain. Directories are not descended recursively.
func expandInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat input: %w", err)
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read input dir: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".xlsx", ".csv":
				inputs = append(inputs, filepath.Join(arg, e.Name()))
			}
		}
	}
	return inputs, nil
}

// outputPath names the workbook after the input file and the run date, e.g.
// rapport_tva_mars_20240401.xlsx for an input mars.xlsx.
func outputPath(cfg config.ReportConfig, input string, generatedAt time.Time) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name := fmt.Sprintf("%s_%s_%s.xlsx", cfg.FilePrefix, stem, generatedAt.Format("20060102"))
	return filepath.Join(cfg.OutputDir, name)
}
