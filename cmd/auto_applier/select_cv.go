package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/auto-applier/internal/cvselect"
	"github.com/jonathan/auto-applier/internal/ingestion"
)

var selectCVCmd = &cobra.Command{
	Use:   "select-cv",
	Short: "Pick the best-matching CV for a job description",
	Long:  "Indexes the CV PDFs by token overlap and prints the document that best matches the job description in a text file.",
	RunE:  runSelectCV,
}

var (
	selectCVSettingsPath string
	selectCVRoot         string
	selectCVTextFile     string
)

func init() {
	selectCVCmd.Flags().StringVar(&selectCVSettingsPath, "settings", defaultSettingsPath, "Path to settings.json")
	selectCVCmd.Flags().StringVar(&selectCVRoot, "cv-root", "", "Folder with CV PDFs (overrides settings)")
	selectCVCmd.Flags().StringVarP(&selectCVTextFile, "text-file", "t", "", "Path to a file with the job description")

	selectCVCmd.MarkFlagRequired("text-file")

	rootCmd.AddCommand(selectCVCmd)
}

func runSelectCV(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	settings, err := loadSettings(selectCVSettingsPath, selectCVRoot)
	if err != nil {
		return err
	}
	jobText, err := os.ReadFile(selectCVTextFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	selector, err := cvselect.Index(ctx, settings.CVRoot, ingestion.NewPDFToText())
	if err != nil {
		return fmt.Errorf("failed to index CVs: %w", err)
	}
	if selector.Len() == 0 {
		return fmt.Errorf("no CV PDFs found under %s", settings.CVRoot)
	}

	path, score, ok := selector.SelectBest(string(jobText))
	if !ok {
		return fmt.Errorf("no CV matched the job description")
	}
	fmt.Fprintf(os.Stdout, "Best CV: %s (overlap %.2f)\n", path, score)
	return nil
}
