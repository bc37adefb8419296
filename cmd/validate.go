package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/quality"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the data quality checks over generated tables",
	Long: `
Loads every table from the data directory, runs the schema, referential,
business, statistical and completeness checks, and writes a findings report.

Examples:
  procgen validate
  procgen validate --data output --format parquet
  procgen validate --report-format yaml --xlsx`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{
			"data":          config.KeyOutputDir,
			"format":        config.KeyOutputFormat,
			"report-dir":    config.KeyReportDir,
			"report-format": config.KeyReportFormat,
		})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		report, err := engine(cmd, cfg).Validate(cfg.OutputDir, cfg.OutputFormat)
		if err != nil {
			return err
		}
		return saveReport(cmd, report, cfg)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("data", "d", "", "Directory holding the generated tables")
	validateCmd.Flags().StringP("format", "f", "", "Table format: csv, parquet, json, sqlite")
	addReportFlags(validateCmd)
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("report-dir", "", "Report output directory")
	cmd.Flags().String("report-format", "", "Report format: json, yaml")
	cmd.Flags().Bool("xlsx", false, "Also write the findings as an Excel workbook")
}

func engine(cmd *cobra.Command, cfg *config.Config) *quality.Engine {
	e := quality.NewEngine(cfg)
	if quiet(cmd) {
		e.Quiet()
	}
	return e
}

func saveReport(cmd *cobra.Command, report *quality.Report, cfg *config.Config) error {
	withXLSX, _ := cmd.Flags().GetBool("xlsx")
	paths, err := report.Save(cfg.ReportDir, cfg.ReportFormat, withXLSX)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	if !quiet(cmd) {
		for _, p := range paths {
			color.Green("📄 Report saved: %s", p)
		}
		for _, r := range report.Recommendations {
			color.Yellow("  • %s", r)
		}
	}
	return nil
}
