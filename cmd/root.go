package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/logger"
)

var (
	cfgFile string
	Version = "1.1.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════════════════╗",
		"║    ██████╗ ██████╗  ██████╗  ██████╗ ██████╗ ███████╗███╗   ██╗ ║",
		"║    ██╔══██╗██╔══██╗██╔═══██╗██╔════╝██╔════╝ ██╔════╝████╗  ██║ ║",
		"║    ██████╔╝██████╔╝██║   ██║██║     ██║  ███╗█████╗  ██╔██╗ ██║ ║",
		"║    ██╔═══╝ ██╔══██╗██║   ██║██║     ██║   ██║██╔══╝  ██║╚██╗██║ ║",
		"║    ██║     ██║  ██║╚██████╔╝╚██████╗╚██████╔╝███████╗██║ ╚████║ ║",
		"║    ╚═╝     ╚═╝  ╚═╝ ╚═════╝  ╚═════╝ ╚═════╝ ╚══════╝╚═╝  ╚═══╝ ║",
		"║                                                              ║",
		"║      📦 Synthetic Procurement Data & Quality Checks 📦       ║",
		"║                                                              ║",
		"║      LFA1 • MARA • CONTRACTS • EKKO • EKPO • EKBE            ║",
		"╚══════════════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                        ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "procgen",
	Short: "Generate synthetic SAP procurement data and score its quality",
	Long: `
procgen builds a consistent set of SAP-style procurement tables and runs a
rule-based data quality engine over them.

Tables:
- LFA1 (vendors), MARA (materials), VENDOR_CONTRACTS
- EKKO (PO headers), EKPO (PO line items), EKBE (PO history)

Output formats:
- csv (default), parquet, json
- sqlite and xlsx through the export command`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("procgen version %s\n", Version)
			os.Exit(0)
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./procgen.config.json)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress output")

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("procgen.config")
	}

	viper.SetEnvPrefix("PROCGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			color.Red("❌ Failed to read config %s: %v", cfgFile, err)
			os.Exit(1)
		}
	}
}

// bindFlags maps command flags onto configuration keys. It runs from
// PreRunE so only the executing command's flags are bound.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	keys["log-level"] = config.KeyLogLevel
	for name, key := range keys {
		if err := viper.BindPFlag(key, lookupFlag(cmd, name)); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.InheritedFlags().Lookup(name)
}

// loadConfig reads the configuration and installs the structured logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	slog.Debug("configuration loaded", "file", viper.ConfigFileUsed(), "seed", cfg.Seed)
	return cfg, nil
}

// sourceRequirements are the keys that locate previously generated tables.
var sourceRequirements = []config.Requirement{
	config.String(config.KeyOutputDir),
	config.String(config.KeyOutputFormat),
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Flags().GetBool("quiet")
	return q
}
