package main

import (
	"context"
	"fmt"
	"gradegen/internal/config"
	"gradegen/internal/logging"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	envFile     string
	format      string
	maxAttempts int

	// Effective configuration, resolved before every command runs
	cfg = config.DefaultConfig()

	// Logger
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gradegen",
	Short: "Grade Generator Calculator",
	Long: `gradegen collects assignments interactively and reports weighted totals,
a GPA on a 5.0 scale and a pass/fail status.

Each assignment has a name, a category (FA formative or SA summative),
a weight and a grade, both between 0 and 100. Enter 'done' as the name
to finish.

Run without arguments to start the line-based session on stdin/stdout.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runSession,
}

// tuiCmd runs the same session behind a terminal form
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Collect assignments with an interactive terminal form",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

// configCmd groups configuration helpers
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the gradegen configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Long: `Writes the default configuration as YAML.

The path defaults to the value of --config (` + config.DefaultPath + `).
An existing file is left alone unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration (file, environment and flags merged)",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before the config")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", config.FormatText, "Output format: text, json, table, markdown")
	rootCmd.PersistentFlags().IntVar(&maxAttempts, "max-attempts", 0, "Consecutive invalid entries allowed per field (0 = unlimited)")

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	// SIGINT/SIGTERM cancel the session instead of killing the process.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadSettings resolves configuration (env file, config file, environment,
// flags in increasing precedence) and initializes logging.
func loadSettings(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		loaded.Output.Format = format
	}
	if flags.Changed("max-attempts") {
		loaded.Session.MaxAttempts = maxAttempts
	}
	if verbose {
		loaded.Logging.DebugMode = true
		loaded.Logging.Level = "debug"
	}

	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logging.Initialize(loaded.Logging); err != nil {
		return err
	}

	cfg = loaded
	logger = logging.Get(logging.CategoryBoot)
	logger.Debug("configuration resolved",
		zap.String("path", configPath),
		zap.String("format", cfg.Output.Format),
		zap.Int("max_attempts", cfg.Session.MaxAttempts),
	)
	return nil
}
