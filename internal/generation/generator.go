package generation

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jonathan/cover-letter/internal/llm"
	"github.com/jonathan/cover-letter/internal/overrides"
	"github.com/jonathan/cover-letter/internal/types"
)

// Policy bounds a generation task. The zero value makes a single attempt
// with no deadline beyond the caller's context.
type Policy struct {
	Timeout     time.Duration
	MaxAttempts int
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Options configures a Generator.
type Options struct {
	APIKey    string
	LLMConfig *llm.Config
	Tier      llm.ModelTier
	Rules     overrides.Table
	Policy    Policy
	// NewClient defaults to llm.NewClient.
	NewClient llm.Factory
	// Now defaults to time.Now; the date in the prompt comes from it.
	Now func() time.Time
}

// Generator drafts cover letters.
type Generator struct {
	opts Options
}

// New returns a Generator with defaults filled in.
func New(opts Options) *Generator {
	if opts.LLMConfig == nil {
		opts.LLMConfig = llm.DefaultConfig()
	}
	if opts.Tier == "" {
		opts.Tier = llm.TierStandard
	}
	if opts.NewClient == nil {
		opts.NewClient = llm.NewClient
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Generator{opts: opts}
}

// Generate validates req and returns the drafted letter text. Validation
// failures return *types.ValidationError without contacting the model;
// every other failure is a *GenerationError.
func (g *Generator) Generate(ctx context.Context, req types.GenerationRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	prompt := BuildPrompt(req, g.opts.Now(), g.opts.Rules)

	var lastErr error
	for attempt := 1; attempt <= g.opts.Policy.attempts(); attempt++ {
		if err := ctx.Err(); err != nil {
			return "", newGenerationError("generation cancelled", err)
		}

		text, err := g.attempt(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		log.Printf("[generate] attempt %d/%d failed: %v", attempt, g.opts.Policy.attempts(), err)
	}
	return "", lastErr
}

// attempt runs one request on a client created for this call only.
func (g *Generator) attempt(ctx context.Context, prompt string) (string, error) {
	if g.opts.Policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Policy.Timeout)
		defer cancel()
	}

	client, err := g.opts.NewClient(ctx, g.opts.LLMConfig, g.opts.APIKey)
	if err != nil {
		return "", newGenerationError("failed to create LLM client", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			log.Printf("[generate] closing client: %v", cerr)
		}
	}()

	raw, err := client.GenerateContent(ctx, prompt, g.opts.Tier)
	if err != nil {
		return "", newGenerationError("failed to generate cover letter", err)
	}

	text := llm.CleanTextBlock(raw)
	if text == "" {
		return "", newGenerationError("unusable model response", llm.ErrEmptyResponse)
	}
	return text, nil
}

// IsGenerationError reports whether err is a *GenerationError.
func IsGenerationError(err error) bool {
	var gerr *GenerationError
	return errors.As(err, &gerr)
}
