package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lettersmith/internal/config"
	"lettersmith/internal/logging"
	"lettersmith/internal/tui"
	"lettersmith/internal/writeup"
)

var rootCmd = &cobra.Command{
	Use:   "lettersmith",
	Short: "Agent-driven cover letter generator",
	Long: `Lettersmith writes tailored cover letters from a resume PDF, a job
posting, and a short personal writeup.

A crew of three agents does the work: a job analyst extracts the posting's
requirements, a profiler distills the resume and writeup into a candidate
profile, and a writer turns both into the letter. Generation runs against
the Anthropic API when a key is configured, or a local Ollama model
otherwise.

With no arguments, launches the interactive form.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runForm()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// runForm launches the interactive TUI.
func runForm() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store := writeup.NewStore(cfg.ResolveDataDir())

	// Log to a file so stdout stays clean for the TUI. A nil logger is fine.
	log, _ := logging.New(cfg.ResolveDataDir())
	defer log.Close()

	// The generation callback needs the app's event sink, so wire the
	// closure before handing it to the program.
	var app *tui.App
	app = tui.NewApp(func(ctx context.Context, req tui.GenerateRequest) (string, error) {
		return runGeneration(ctx, cfg, req, app.EventSink(), log)
	}, store)

	if _, err := tui.NewProgram(app).Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
