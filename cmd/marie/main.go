package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose     bool
	projectFlag string

	// Logger for the one-shot commands; the chat TUI has its own output.
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "marie",
	Short: "Marie - analytical chat assistant for UX benchmark data",
	Long: `Marie answers natural-language questions about UX benchmark results.

For each question it writes a small Go analysis program, runs it in an
embedded sandbox against the project's two datasets (heuristics catalog and
results by edition), and turns the program's output into a readable answer.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive chat renders its own UI; keep stdout clean.
		if cmd.Name() == "marie" || cmd.Name() == "chat" {
			return nil
		}
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", "", "project slug (see 'marie projects')")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
