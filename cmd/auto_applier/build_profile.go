package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/auto-applier/internal/observability"
	"github.com/jonathan/auto-applier/internal/runner"
)

var buildProfileCmd = &cobra.Command{
	Use:   "build-profile",
	Short: "Build or refresh the profile from the CV folder",
	Long:  "Extracts the candidate profile from the CV PDFs and persists it. Without --force the rebuild is skipped while the document set is unchanged.",
	RunE:  runBuildProfile,
}

var (
	buildProfileSettingsPath string
	buildProfileCVRoot       string
	buildProfileAPIKey       string
	buildProfileForce        bool
)

func init() {
	buildProfileCmd.Flags().StringVar(&buildProfileSettingsPath, "settings", defaultSettingsPath, "Path to settings.json")
	buildProfileCmd.Flags().StringVar(&buildProfileCVRoot, "cv-root", "", "Folder with CV PDFs (overrides settings)")
	buildProfileCmd.Flags().StringVar(&buildProfileAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	buildProfileCmd.Flags().BoolVarP(&buildProfileForce, "force", "f", false, "Rebuild even when the document set is unchanged")

	rootCmd.AddCommand(buildProfileCmd)
}

func runBuildProfile(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	settings, err := loadSettings(buildProfileSettingsPath, buildProfileCVRoot)
	if err != nil {
		return err
	}
	client, err := newLLMClient(ctx, buildProfileAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	logger := observability.NewLogger(os.Stdout, nil)
	defer logger.Close()

	worker := runner.New(settings, client, logger, nil, nil)
	prof, err := worker.BuildProfile(ctx, buildProfileForce)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintProfile(prof)
	return nil
}
