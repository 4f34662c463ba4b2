package main

import (
	"context"
	"fmt"
	"os"

	"regpulse/adapters/export"
	"regpulse/adapters/postgres"
	"regpulse/adapters/tabular"
	"regpulse/api"
	"regpulse/app"
	"regpulse/domain/policy"
	"regpulse/domain/report"
	"regpulse/internal"
	"regpulse/internal/config"
	"regpulse/internal/testkit"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func main() {
	// Load .env file if present (ignore errors, env vars take precedence)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "regpulse",
		Short: "Registration analytics over enrollment, demographic and biometric data",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newServeCmd(),
		newSeedCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var dataDir string
	var outputDir string
	var mode string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the analytics pipeline and write report artifacts",
		Long: `Load every data source, run the full analysis, and write artifacts
to the output directory.

Modes:
  analyze  write the JSON report and indicator CSV
  export   write per-state and per-day aggregate CSVs only
  all      both of the above plus workbook and HTML summary`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch mode {
			case "analyze", "export", "all":
			default:
				return fmt.Errorf("unknown mode %q (use analyze, export or all)", mode)
			}
			return runAnalyze(cmd.Context(), dataDir, outputDir, mode)
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Data directory (defaults to DATA_DIR)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (defaults to OUTPUT_DIR)")
	cmd.Flags().StringVar(&mode, "mode", "all", "Pipeline mode: analyze, export or all")

	return cmd
}

func runAnalyze(ctx context.Context, dataDir, outputDir, mode string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dataDir == "" {
		dataDir = cfg.Paths.DataDir
	}
	if outputDir == "" {
		outputDir = cfg.Paths.OutputDir
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	logger := internal.NewDefaultLogger()
	source := tabular.NewDirectorySource(dataDir, logger)
	service := app.NewReportService(source, policy.DefaultConfig(), logger)
	sink := export.NewFileSink(logger)

	tables, err := source.LoadAll(ctx)
	if err != nil {
		return err
	}

	if mode == "export" || mode == "all" {
		pcfg := policy.DefaultConfig()
		for _, t := range tables {
			if t.IsEmpty() {
				continue
			}
			if _, err := sink.WriteStateAggregates(ctx, t, pcfg, outputDir); err != nil {
				logger.Warn("State aggregate export failed for %s: %v", t.Source, err)
			}
			if _, err := sink.WriteDailyAggregates(ctx, t, outputDir); err != nil {
				logger.Warn("Daily aggregate export failed for %s: %v", t.Source, err)
			}
		}
		if mode == "export" {
			logger.Info("Aggregate export complete: %s", outputDir)
			return nil
		}
	}

	rpt, err := service.Analyze(ctx, tables)
	if err != nil {
		return err
	}
	records := service.IndicatorRecords(rpt)

	reportPath, err := sink.WriteReport(ctx, rpt, outputDir)
	if err != nil {
		return err
	}
	logger.Info("Report written: %s", reportPath)

	if _, err := sink.WriteIndicators(ctx, records, outputDir); err != nil {
		return err
	}

	if mode == "all" {
		if _, err := sink.WriteWorkbook(ctx, rpt, records, outputDir); err != nil {
			logger.Warn("Workbook export failed: %v", err)
		}
		if _, err := sink.WriteSummary(ctx, rpt, records, outputDir); err != nil {
			logger.Warn("Summary export failed: %v", err)
		}
	}

	if cfg.ArchiveEnabled() {
		if err := archiveReport(ctx, cfg, rpt, logger); err != nil {
			logger.Warn("Report archive failed: %v", err)
		}
	}

	logger.Info("Analysis complete: run %s, %d records", rpt.RunID, rpt.Summary.TotalRecords)
	return nil
}

func archiveReport(ctx context.Context, cfg *config.Config, rpt *report.Report, logger *internal.Logger) error {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	archive, err := postgres.NewReportRepository(db)
	if err != nil {
		return err
	}
	if err := archive.Save(ctx, rpt); err != nil {
		return err
	}
	logger.Debug("Report %s archived", rpt.RunID)
	return nil
}

func newServeCmd() *cobra.Command {
	var dataDir string
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis once and serve results over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), dataDir, port)
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Data directory (defaults to DATA_DIR)")
	cmd.Flags().StringVar(&port, "port", "", "HTTP port (defaults to PORT)")

	return cmd
}

func runServe(ctx context.Context, dataDir, port string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dataDir == "" {
		dataDir = cfg.Paths.DataDir
	}
	if port == "" {
		port = cfg.Server.Port
	}

	logger := internal.NewDefaultLogger()
	source := tabular.NewDirectorySource(dataDir, logger)
	service := app.NewReportService(source, policy.DefaultConfig(), logger)

	rpt, err := service.GenerateReport(ctx)
	if err != nil {
		return err
	}

	server := api.NewServer(logger)
	server.SetReport(rpt, service.IndicatorRecords(rpt))

	addr := ":" + port
	logger.Info("Serving analytics on %s", addr)
	return server.ListenAndServe(addr)
}

func newSeedCmd() *cobra.Command {
	var dataDir string
	var seed int64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate synthetic registration data for local runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dataDir == "" {
				dataDir = cfg.Paths.DataDir
			}

			genCfg := testkit.DefaultGeneratorConfig()
			genCfg.Seed = seed
			tables := testkit.NewGenerator(genCfg).GenerateAll()
			if err := testkit.WriteCSVs(dataDir, tables); err != nil {
				return err
			}
			fmt.Printf("Seeded synthetic data under %s\n", dataDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Data directory (defaults to DATA_DIR)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic generation")

	return cmd
}
