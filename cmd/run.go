package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate the tables and validate them in one pass",
	Long: `
Generates every table, writes them, and validates the in-memory tables
without reading them back.

Examples:
  procgen run
  procgen run --seed 7 --report-format yaml`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{
			"out":           config.KeyOutputDir,
			"format":        config.KeyOutputFormat,
			"seed":          config.KeySeed,
			"report-dir":    config.KeyReportDir,
			"report-format": config.KeyReportFormat,
		})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.EnsureDirectories(); err != nil {
			return err
		}

		ds, err := generate(cmd, cfg)
		if err != nil {
			return err
		}
		if err := writeTables(cmd, ds, cfg); err != nil {
			return err
		}

		report, err := engine(cmd, cfg).Run(ds.Tables())
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		report.Metadata.DataDir = cfg.OutputDir
		return saveReport(cmd, report, cfg)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("out", "o", "", "Output directory (default ./output)")
	runCmd.Flags().StringP("format", "f", "", "Table format: csv, parquet, json")
	runCmd.Flags().Int64("seed", 0, "Random seed")
	addReportFlags(runCmd)
}
