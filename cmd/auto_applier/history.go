package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/auto-applier/internal/tracker"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded application outcomes",
	Long:  "Prints the most recent rows of the append-only application log, newest first.",
	RunE:  runHistory,
}

var (
	historySettingsPath string
	historyLimit        int
)

func init() {
	historyCmd.Flags().StringVar(&historySettingsPath, "settings", defaultSettingsPath, "Path to settings.json")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "Maximum rows to print")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// The history command must not require a CV root, so the settings
	// document is loaded without validation.
	settings, err := loadSettingsUnvalidated(historySettingsPath)
	if err != nil {
		return err
	}

	track, err := tracker.Open(ctx, settings.TrackerPath())
	if err != nil {
		return err
	}
	defer track.Close()

	records, err := track.List(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "No applications recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSTATUS\tSCORE\tCOMPANY\tTITLE\tURL")
	for _, rec := range records {
		score := "-"
		if rec.Score != nil {
			score = fmt.Sprintf("%d", *rec.Score)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.Timestamp.Format(time.DateTime), rec.Status, score,
			rec.Company, rec.JobTitle, rec.JobURL)
	}
	return w.Flush()
}
