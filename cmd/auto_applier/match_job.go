package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/auto-applier/internal/match"
	"github.com/jonathan/auto-applier/internal/observability"
	"github.com/jonathan/auto-applier/internal/storage"
)

var matchJobCmd = &cobra.Command{
	Use:   "match-job",
	Short: "Score a job description against the stored profile",
	Long:  "Analyzes a job description from a text file, applies the accept policy, and prints the analysis and decision.",
	RunE:  runMatchJob,
}

var (
	matchJobSettingsPath string
	matchJobCVRoot       string
	matchJobAPIKey       string
	matchJobTextFile     string
	matchJobRole         string
)

func init() {
	matchJobCmd.Flags().StringVar(&matchJobSettingsPath, "settings", defaultSettingsPath, "Path to settings.json")
	matchJobCmd.Flags().StringVar(&matchJobCVRoot, "cv-root", "", "Folder with CV PDFs (overrides settings)")
	matchJobCmd.Flags().StringVar(&matchJobAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	matchJobCmd.Flags().StringVarP(&matchJobTextFile, "text-file", "t", "", "Path to a file with the job description")
	matchJobCmd.Flags().StringVar(&matchJobRole, "role", "", "Target role (overrides settings)")

	matchJobCmd.MarkFlagRequired("text-file")

	rootCmd.AddCommand(matchJobCmd)
}

func runMatchJob(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	settings, err := loadSettings(matchJobSettingsPath, matchJobCVRoot)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("role") {
		settings.SelectedRole = matchJobRole
	}

	jobText, err := os.ReadFile(matchJobTextFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}
	prof, err := storage.LoadProfile(settings.ProfilePath())
	if err != nil {
		return err
	}

	client, err := newLLMClient(ctx, matchJobAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	analyzer := match.NewAnalyzer(client, nil)
	analysis := analyzer.Analyze(ctx, string(jobText), prof.Summary, settings.SelectedRole)

	policy := match.Policy{
		TargetRole:      settings.SelectedRole,
		Threshold:       settings.MinScoreThreshold,
		MismatchPenalty: settings.RoleMismatchPenalty,
		AllowRemote:     settings.AllowRemote,
		AllowHybrid:     settings.AllowHybrid,
		MaxDistanceKM:   settings.MaxDistanceKM,
	}
	decision := policy.Decide(analysis)

	observability.NewPrinter(os.Stdout).PrintAnalysis(analysis)
	if decision.Accept {
		fmt.Fprintf(os.Stdout, "Decision: APPLY (adjusted score %d)\n", decision.AdjustedScore)
	} else {
		fmt.Fprintf(os.Stdout, "Decision: DISCARD (%s)\n", decision.Reason)
	}
	return nil
}
