package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/cover-letter/internal/config"
	"github.com/jonathan/cover-letter/internal/export"
	"github.com/jonathan/cover-letter/internal/observability"
	"github.com/jonathan/cover-letter/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a cover letter and export it",
	Long: `Generate a cover letter for one job. The job description (file or URL)
and the CV are read concurrently, the letter is drafted by the model and
written in the chosen format.`,
	RunE: runGenerate,
}

var (
	genName       string
	genCompany    string
	genAddress    string
	genManager    string
	genJobPath    string
	genJobURL     string
	genCVPath     string
	genFormat     string
	genOut        string
	genUseBrowser bool
	genRules      string
	genModel      string
)

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genName, "name", "", "Candidate name (defaults to the bundled CV's owner when --cv is not set)")
	f.StringVar(&genCompany, "company", "", "Company name (required)")
	f.StringVar(&genAddress, "address", "", "Company address")
	f.StringVar(&genManager, "manager", "", "Hiring manager name")
	f.StringVarP(&genJobPath, "job", "j", "", "Path to a text file with the job description")
	f.StringVarP(&genJobURL, "job-url", "u", "", "URL of the job posting")
	f.StringVar(&genCVPath, "cv", "", "CV file (.pdf or .docx); defaults to the bundled CV")
	f.StringVarP(&genFormat, "format", "f", string(export.FormatPDF), "Output format: txt, pdf or docx")
	f.StringVarP(&genOut, "out", "o", "", "Output file or directory (defaults to the current directory)")
	f.BoolVar(&genUseBrowser, "use-browser", false, "Render script-heavy job pages with headless Chrome")
	f.StringVar(&genRules, "rules", "", "Override rules file (defaults to the bundled rules)")
	f.StringVar(&genModel, "model", config.DefaultModel, "Gemini model")

	generateCmd.MarkFlagRequired("company") //nolint:errcheck
	generateCmd.MarkFlagsMutuallyExclusive("job", "job-url")
	generateCmd.MarkFlagsOneRequired("job", "job-url")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(genFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, map[string]string{
		"use-browser": config.KeyUseBrowser,
		"model":       config.KeyModel,
	})
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg, genRules)
	if err != nil {
		return err
	}

	opts := pipeline.RunOptions{
		CandidateName:  genName,
		CompanyName:    genCompany,
		CompanyAddress: genAddress,
		HiringManager:  genManager,
		JobPath:        genJobPath,
		JobURL:         genJobURL,
		CVPath:         genCVPath,
		Format:         format,
		UseBrowser:     cfg.UseBrowser,
		Verbose:        cfg.Verbose,
		Printer:        observability.NewPrinter(cmd.ErrOrStderr()),
	}
	if cfg.Verbose {
		opts.OnProgress = func(e pipeline.ProgressEvent) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", e.Step, e.Message)
		}
	}

	result, err := pipeline.RunPipeline(cmd.Context(), gen, opts)
	if err != nil {
		return err
	}

	path, err := writeDocument(genOut, result.Document)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cover letter written to %s\n", path)
	return nil
}

// writeDocument writes doc to out. An empty out or an existing directory
// receives the document under its own name.
func writeDocument(out string, doc *export.Document) (string, error) {
	path := out
	if path == "" {
		path = doc.Name
	} else if info, err := os.Stat(out); err == nil && info.IsDir() {
		path = filepath.Join(out, doc.Name)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
