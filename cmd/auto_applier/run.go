package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/auto-applier/internal/observability"
	"github.com/jonathan/auto-applier/internal/runner"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full application pipeline end-to-end",
	Long: `Builds or reuses the profile, plans search queries, discovers job postings,
and applies to every accepted match until the list or the daily limit is
exhausted. Login walls, CAPTCHAs, and personal questions pause on the
terminal for a human answer.`,
	RunE: runPipelineCmd,
}

var (
	runSettingsPath string
	runCVRoot       string
	runAPIKey       string
	runRole         string
	runBackend      string
	runHeadless     bool
	runMaxJobs      int
	runDailyLimit   int
)

func init() {
	runCommand.Flags().StringVar(&runSettingsPath, "settings", defaultSettingsPath, "Path to settings.json")
	runCommand.Flags().StringVar(&runCVRoot, "cv-root", "", "Folder with CV PDFs (overrides settings)")
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	runCommand.Flags().StringVar(&runRole, "role", "", "Target role (overrides settings)")
	runCommand.Flags().StringVar(&runBackend, "backend", "", "Discovery backend: linkedin or websearch (overrides settings)")
	runCommand.Flags().BoolVar(&runHeadless, "headless", false, "Run the browser headless (hand-offs need a visible browser)")
	runCommand.Flags().IntVar(&runMaxJobs, "max-jobs", 0, "Maximum jobs to discover (overrides settings)")
	runCommand.Flags().IntVar(&runDailyLimit, "daily-limit", 0, "Maximum applications to submit (overrides settings)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settings, err := loadSettings(runSettingsPath, runCVRoot)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("role") {
		settings.SelectedRole = runRole
	}
	if cmd.Flags().Changed("backend") {
		settings.SearchBackend = runBackend
	}
	if cmd.Flags().Changed("headless") {
		settings.Headless = runHeadless
	}
	if cmd.Flags().Changed("max-jobs") {
		settings.MaxJobs = runMaxJobs
	}
	if cmd.Flags().Changed("daily-limit") {
		settings.DailyLimit = runDailyLimit
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	client, err := newLLMClient(ctx, runAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	logger := observability.NewLogger(os.Stdout, nil)
	defer logger.Close()

	worker := runner.New(settings, client, logger, terminalBroker(), nil)

	// Ctrl-C requests a cooperative stop at the next job boundary; a second
	// one cancels outright.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		<-sigs
		fmt.Fprintln(os.Stderr, "Stop requested; finishing the current job...")
		worker.RequestStop()
		<-sigs
		cancel()
	}()

	if err := worker.Run(ctx); err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}
