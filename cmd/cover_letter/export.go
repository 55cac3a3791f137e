package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cover-letter/internal/export"
	"github.com/jonathan/cover-letter/internal/observability"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an edited letter as PDF, DOCX or text",
	RunE:  runExport,
}

var (
	exportIn      string
	exportFormat  string
	exportCompany string
	exportName    string
	exportOut     string
)

func init() {
	exportCmd.Flags().StringVarP(&exportIn, "in", "i", "", "Letter text file (required)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(export.FormatPDF), "Output format: txt, pdf or docx")
	exportCmd.Flags().StringVar(&exportCompany, "company", "", "Company name used in the file name")
	exportCmd.Flags().StringVar(&exportName, "name", "", "Candidate name used in the file name when --company is empty")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file or directory (defaults to the current directory)")

	exportCmd.MarkFlagRequired("in") //nolint:errcheck

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	text, err := os.ReadFile(exportIn)
	if err != nil {
		return fmt.Errorf("failed to read letter: %w", err)
	}

	doc, err := export.Letter(format, string(text), exportCompany, exportName)
	if err != nil {
		return err
	}
	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintDocument(doc)
	}

	path, err := writeDocument(exportOut, doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", path)
	return nil
}
