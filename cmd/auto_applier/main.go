// Package main provides the entry point for the auto-applier CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "auto_applier",
	Short: "Automated job application pipeline",
	Long:  "auto_applier builds a candidate profile from CV PDFs, discovers matching job postings, scores them, and fills multi-step application forms, handing off to a human only for personal or sensitive answers.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
