// Package main provides the entry point for the cover letter generator: the
// form server and one-shot commands for generating, exporting and
// extracting.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:          "cover_letter",
	Short:        "AI cover letter generator",
	Long:         "Cover Letter drafts a one-page cover letter from a CV and a job description with Gemini, and exports it as PDF, DOCX or plain text.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (yaml, json, toml or env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed progress")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
