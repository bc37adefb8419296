package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/export"
	"github.com/Lumos-Labs-HQ/procgen/internal/seeder"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the procurement tables",
	Long: `
Runs the generation pipeline in foreign-key order and writes one file per table.

Examples:
  procgen generate
  procgen generate --out data --format parquet
  procgen generate --seed 7`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{
			"out":    config.KeyOutputDir,
			"format": config.KeyOutputFormat,
			"seed":   config.KeySeed,
		})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ds, err := generate(cmd, cfg)
		if err != nil {
			return err
		}
		return writeTables(cmd, ds, cfg)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("out", "o", "", "Output directory (default ./output)")
	generateCmd.Flags().StringP("format", "f", "", "Table format: csv, parquet, json")
	generateCmd.Flags().Int64("seed", 0, "Random seed")
}

func generate(cmd *cobra.Command, cfg *config.Config) (*seeder.Dataset, error) {
	s := seeder.NewSeeder(cfg)
	if quiet(cmd) {
		s.Quiet()
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return s.Run()
}

func writeTables(cmd *cobra.Command, ds *seeder.Dataset, cfg *config.Config) error {
	paths, err := export.Write(ds.Tables(), cfg.OutputDir, cfg.OutputFormat)
	if err != nil {
		return err
	}
	if !quiet(cmd) {
		color.Green("✅ Wrote %d files to %s", len(paths), cfg.OutputDir)
	}
	return nil
}
