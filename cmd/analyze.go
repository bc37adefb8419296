package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/procgen/internal/analytics"
	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/export"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarize spend, vendor performance and savings opportunities",
	Long: `
Prepares the procurement dashboard figures from generated tables: vendor
spend and delivery performance, monthly and category spend, contract
compliance and estimated savings.

Examples:
  procgen analyze
  procgen analyze --json reports/analytics.json`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{
			"data":   config.KeyOutputDir,
			"format": config.KeyOutputFormat,
		})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := cfg.Check(sourceRequirements...); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		res, err := export.Load(cfg.OutputDir, cfg.OutputFormat)
		if err != nil {
			return err
		}
		summary, err := analytics.Analyze(res.Tables)
		if err != nil {
			return err
		}

		if path, _ := cmd.Flags().GetString("json"); path != "" {
			if err := summary.WriteJSON(path); err != nil {
				return fmt.Errorf("failed to write analytics: %w", err)
			}
			color.Green("📄 Analytics saved: %s", path)
			return nil
		}
		return summary.Render(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("data", "d", "", "Directory holding the generated tables")
	analyzeCmd.Flags().StringP("format", "f", "", "Table format: csv, parquet, json, sqlite")
	analyzeCmd.Flags().String("json", "", "Write the summary as JSON to this path instead of printing")
}
