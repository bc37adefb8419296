package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Convert generated tables to another format",
	Long: `
Reads every table from the data directory and writes it again in the target
format. Supported targets: csv, parquet, json, sqlite, xlsx

Examples:
  procgen export --to sqlite
  procgen export --data output --format csv --to xlsx --dest exports`,
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

		to, _ := cmd.Flags().GetString("to")
		to = strings.ToLower(to)
		if !contains(export.Formats, to) {
			return fmt.Errorf("%w: %s (expected one of %s)", export.ErrUnsupportedFormat, to, strings.Join(export.Formats, ", "))
		}
		dest, _ := cmd.Flags().GetString("dest")
		if dest == "" {
			dest = cfg.OutputDir
		}

		res, err := export.Load(cfg.OutputDir, cfg.OutputFormat)
		if err != nil {
			return err
		}
		if len(res.Missing) > 0 {
			color.Yellow("⚠️  Skipping tables that could not be loaded: %s", strings.Join(res.Missing, ", "))
		}
		if len(res.Tables) == 0 {
			return fmt.Errorf("no tables found in %s", cfg.OutputDir)
		}

		paths, err := export.Write(res.Tables, dest, to)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Printf("✅ Export completed: %s\n", p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("data", "d", "", "Directory holding the generated tables")
	exportCmd.Flags().StringP("format", "f", "", "Format of the tables in --data")
	exportCmd.Flags().String("to", export.FormatSQLite, "Target format")
	exportCmd.Flags().String("dest", "", "Destination directory (default: --data)")
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
