package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/auto-applier/internal/browser"
	"github.com/jonathan/auto-applier/internal/discovery"
	"github.com/jonathan/auto-applier/internal/observability"
	"github.com/jonathan/auto-applier/internal/runner"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover job posting URLs without applying",
	Long:  "Plans search queries, runs the configured discovery backend in a live browser, and prints the de-duplicated job URLs.",
	RunE:  runDiscover,
}

var (
	discoverSettingsPath string
	discoverCVRoot       string
	discoverAPIKey       string
	discoverBackend      string
	discoverMaxJobs      int
)

func init() {
	discoverCmd.Flags().StringVar(&discoverSettingsPath, "settings", defaultSettingsPath, "Path to settings.json")
	discoverCmd.Flags().StringVar(&discoverCVRoot, "cv-root", "", "Folder with CV PDFs (overrides settings)")
	discoverCmd.Flags().StringVar(&discoverAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	discoverCmd.Flags().StringVar(&discoverBackend, "backend", "", "Discovery backend: linkedin or websearch (overrides settings)")
	discoverCmd.Flags().IntVar(&discoverMaxJobs, "max-jobs", 0, "Maximum jobs to discover (overrides settings)")

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	settings, err := loadSettings(discoverSettingsPath, discoverCVRoot)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("backend") {
		settings.SearchBackend = discoverBackend
	}
	if cmd.Flags().Changed("max-jobs") {
		settings.MaxJobs = discoverMaxJobs
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	client, err := newLLMClient(ctx, discoverAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	logger := observability.NewLogger(os.Stdout, nil)
	defer logger.Close()

	worker := runner.New(settings, client, logger, nil, nil)
	queries, err := worker.PlanQueries(ctx)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return fmt.Errorf("no usable search queries; build the profile first or set a target role")
	}

	session, err := browser.NewSession(ctx, browser.Options{
		Headless:    settings.Headless,
		ExecPath:    settings.BrowserExecPath,
		UserDataDir: settings.UserDataDir,
	})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer session.Close()

	backend, err := discovery.New(settings.SearchBackend, terminalBroker(), logger.Func())
	if err != nil {
		return err
	}
	jobs, err := backend.Collect(ctx, session, queries, discovery.Options{
		MaxPages:           settings.MaxSearchPages,
		MaxJobs:            settings.MaxJobs,
		SiteFilter:         settings.SiteFilter,
		LinkedInLocation:   settings.LinkedInLocation,
		LinkedInRemoteOnly: settings.LinkedInRemoteOnly,
	})
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	for _, url := range jobs {
		fmt.Fprintln(os.Stdout, url)
	}
	fmt.Fprintf(os.Stdout, "\n%d job URLs found\n", len(jobs))
	return nil
}
