// Package pipeline runs one cover letter end to end: it gathers the job
// description and the CV, drafts the letter and exports it.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cover-letter/internal/document"
	"github.com/jonathan/cover-letter/internal/export"
	"github.com/jonathan/cover-letter/internal/extraction"
	"github.com/jonathan/cover-letter/internal/form"
	"github.com/jonathan/cover-letter/internal/ingestion"
	"github.com/jonathan/cover-letter/internal/observability"
	"github.com/jonathan/cover-letter/internal/types"
)

// Pipeline steps reported through OnProgress.
const (
	StepJob      = "job"
	StepCV       = "cv"
	StepGenerate = "generate"
	StepExport   = "export"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs. It may be
// called from more than one goroutine.
type ProgressCallback func(event ProgressEvent)

// Generator drafts a letter from a request.
type Generator interface {
	Generate(ctx context.Context, req types.GenerationRequest) (string, error)
}

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	CandidateName  string
	CompanyName    string
	CompanyAddress string
	HiringManager  string

	// Exactly one of JobPath and JobURL is set.
	JobPath string
	JobURL  string
	// CVPath is a .pdf or .docx file; empty selects the bundled CV.
	CVPath string

	Format     export.Format
	UseBrowser bool
	Verbose    bool
	// Printer receives verbose output; defaults to stderr.
	Printer    *observability.Printer
	OnProgress ProgressCallback
}

// Result is everything one run produced.
type Result struct {
	Request     types.GenerationRequest
	JobMetadata *ingestion.Metadata
	Letter      string
	Document    *export.Document
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}

// RunPipeline reads the job description and the CV concurrently, then
// generates and exports the letter. Nothing is generated when either
// input fails.
func RunPipeline(ctx context.Context, gen Generator, opts RunOptions) (*Result, error) {
	if opts.Format == "" {
		opts.Format = export.FormatPDF
	}
	if _, err := export.ParseFormat(string(opts.Format)); err != nil {
		return nil, err
	}
	printer := opts.Printer
	if printer == nil {
		printer = observability.NewPrinter(os.Stderr)
	}

	var (
		jobText string
		jobMeta *ingestion.Metadata
		cvText  string
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobText, jobMeta, err = LoadJob(gCtx, opts)
		if err != nil {
			return err
		}
		emitProgress(&opts, StepJob, fmt.Sprintf("Loaded job description from %s", ingestion.FormatSource(jobMeta)), jobMeta)
		return nil
	})
	g.Go(func() error {
		var err error
		cvText, err = LoadCV(gCtx, opts.CVPath)
		if err != nil {
			return err
		}
		emitProgress(&opts, StepCV, fmt.Sprintf("Loaded CV (%d chars)", len(cvText)), nil)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	name := opts.CandidateName
	if name == "" && opts.CVPath == "" {
		name = form.DefaultCandidateName
	}
	req := types.GenerationRequest{
		CandidateName:  name,
		CompanyName:    opts.CompanyName,
		CompanyAddress: opts.CompanyAddress,
		HiringManager:  opts.HiringManager,
		JobDescription: jobText,
		CVText:         cvText,
	}
	if opts.Verbose {
		printer.PrintJobSource(jobMeta, jobText)
		printer.PrintRequest(req)
	}

	letter, err := gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	emitProgress(&opts, StepGenerate, fmt.Sprintf("Generated letter (%d chars)", len(letter)), nil)

	doc, err := export.Letter(opts.Format, letter, req.CompanyName, req.CandidateName)
	if err != nil {
		return nil, err
	}
	emitProgress(&opts, StepExport, fmt.Sprintf("Exported %s", doc.Name), nil)
	if opts.Verbose {
		printer.PrintBlocks(document.DefaultClassifier().Blocks(letter))
		printer.PrintDocument(doc)
	}

	return &Result{Request: req, JobMetadata: jobMeta, Letter: letter, Document: doc}, nil
}

// LoadJob returns the cleaned job description from a file or a URL.
func LoadJob(ctx context.Context, opts RunOptions) (string, *ingestion.Metadata, error) {
	switch {
	case opts.JobPath != "" && opts.JobURL != "":
		return "", nil, fmt.Errorf("job file and job URL are mutually exclusive; provide only one")
	case opts.JobPath != "":
		text, meta, err := ingestion.FromFile(opts.JobPath)
		if err != nil {
			return "", nil, fmt.Errorf("job ingestion from file failed: %w", err)
		}
		return text, meta, nil
	case opts.JobURL != "":
		return ingestion.FromURL(ctx, opts.JobURL, ingestion.Options{UseBrowser: opts.UseBrowser, Verbose: opts.Verbose})
	default:
		return "", nil, fmt.Errorf("either a job file or a job URL must be provided")
	}
}

// LoadCV returns the text of the CV at path, or the bundled CV.
func LoadCV(ctx context.Context, path string) (string, error) {
	if path == "" {
		return form.DefaultCV(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read CV: %w", err)
	}
	return extraction.Extract(ctx, filepath.Base(path), data)
}
