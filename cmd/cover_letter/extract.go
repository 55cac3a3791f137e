package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cover-letter/internal/pipeline"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the text extracted from a CV",
	Long:  "Extract the plain text of a .pdf or .docx CV, exactly as it would be sent to the model.",
	RunE:  runExtract,
}

var extractCV string

func init() {
	extractCmd.Flags().StringVar(&extractCV, "cv", "", "CV file, .pdf or .docx (required)")
	extractCmd.MarkFlagRequired("cv") //nolint:errcheck
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	text, err := pipeline.LoadCV(cmd.Context(), extractCV)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
