package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/auto-applier/internal/observability"
	"github.com/jonathan/auto-applier/internal/runner"
)

var planQueriesCmd = &cobra.Command{
	Use:   "plan-queries",
	Short: "Plan and print the job search queries",
	Long:  "Derives search queries from the target role or the stored profile, cleans them, and persists the refreshed cache.",
	RunE:  runPlanQueries,
}

var (
	planQueriesSettingsPath string
	planQueriesCVRoot       string
	planQueriesAPIKey       string
	planQueriesRole         string
)

func init() {
	planQueriesCmd.Flags().StringVar(&planQueriesSettingsPath, "settings", defaultSettingsPath, "Path to settings.json")
	planQueriesCmd.Flags().StringVar(&planQueriesCVRoot, "cv-root", "", "Folder with CV PDFs (overrides settings)")
	planQueriesCmd.Flags().StringVar(&planQueriesAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	planQueriesCmd.Flags().StringVar(&planQueriesRole, "role", "", "Target role (overrides settings)")

	rootCmd.AddCommand(planQueriesCmd)
}

func runPlanQueries(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	settings, err := loadSettings(planQueriesSettingsPath, planQueriesCVRoot)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("role") {
		settings.SelectedRole = planQueriesRole
	}
	client, err := newLLMClient(ctx, planQueriesAPIKey)
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
		return fmt.Errorf("no usable search queries; build the profile first or set --role")
	}

	observability.NewPrinter(os.Stdout).PrintQueries(queries)
	return nil
}
