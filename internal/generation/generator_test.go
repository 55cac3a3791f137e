package generation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/cover-letter/internal/llm"
	"github.com/jonathan/cover-letter/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu      sync.Mutex
	prompts []string
	tiers   []llm.ModelTier
	replies []reply
	closed  int
}

type reply struct {
	text string
	err  error
}

func (c *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	c.tiers = append(c.tiers, tier)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r := c.replies[0]
	if len(c.replies) > 1 {
		c.replies = c.replies[1:]
	}
	return r.text, r.err
}

func (c *fakeClient) Close() error {
	c.mu.Lock()
	c.closed++
	c.mu.Unlock()
	return nil
}

type factory struct {
	client  *fakeClient
	created int
	apiKeys []string
	err     error
}

func (f *factory) newClient(_ context.Context, _ *llm.Config, apiKey string) (llm.Client, error) {
	f.created++
	f.apiKeys = append(f.apiKeys, apiKey)
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

func newTestGenerator(f *factory, policy Policy) *Generator {
	return New(Options{
		APIKey:    "test-key",
		NewClient: f.newClient,
		Policy:    policy,
		Now:       func() time.Time { return fixedDate },
	})
}

func TestGenerate_Success(t *testing.T) {
	f := &factory{client: &fakeClient{replies: []reply{{text: "```\nDear Hiring Manager,\n\nHello.\n```"}}}}
	g := newTestGenerator(f, Policy{})

	text, err := g.Generate(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "Dear Hiring Manager,\n\nHello.", text)

	assert.Equal(t, 1, f.created)
	assert.Equal(t, []string{"test-key"}, f.apiKeys)
	assert.Equal(t, 1, f.client.closed)
	require.Len(t, f.client.prompts, 1)
	assert.Equal(t, BuildPrompt(sampleRequest(), fixedDate, g.opts.Rules), f.client.prompts[0])
	assert.Equal(t, []llm.ModelTier{llm.TierStandard}, f.client.tiers)
}

func TestGenerate_FreshClientPerCall(t *testing.T) {
	f := &factory{client: &fakeClient{replies: []reply{{text: "letter"}}}}
	g := newTestGenerator(f, Policy{})

	for i := 0; i < 3; i++ {
		_, err := g.Generate(context.Background(), sampleRequest())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, f.created)
	assert.Equal(t, 3, f.client.closed)
}

func TestGenerate_ValidationBlocksCall(t *testing.T) {
	f := &factory{client: &fakeClient{replies: []reply{{text: "letter"}}}}
	g := newTestGenerator(f, Policy{})

	for _, mutate := range []func(*types.GenerationRequest){
		func(r *types.GenerationRequest) { r.CandidateName = " " },
		func(r *types.GenerationRequest) { r.CompanyName = "" },
		func(r *types.GenerationRequest) { r.JobDescription = "\n" },
		func(r *types.GenerationRequest) { r.CVText = "" },
	} {
		req := sampleRequest()
		mutate(&req)

		_, err := g.Generate(context.Background(), req)
		var verr *types.ValidationError
		require.True(t, errors.As(err, &verr), "got %v", err)
		assert.False(t, IsGenerationError(err))
	}
	assert.Equal(t, 0, f.created)
	assert.Empty(t, f.client.prompts)
}

func TestGenerate_ClientCreationFailure(t *testing.T) {
	f := &factory{err: errors.New("API key is required")}
	g := newTestGenerator(f, Policy{})

	_, err := g.Generate(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))
	assert.Contains(t, err.Error(), "API key is required")
}

func TestGenerate_CallFailureSurfacesMessage(t *testing.T) {
	quota := errors.New("quota exceeded")
	f := &factory{client: &fakeClient{replies: []reply{{err: quota}}}}
	g := newTestGenerator(f, Policy{})

	_, err := g.Generate(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, quota)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Len(t, f.client.prompts, 1, "no retry by default")
	assert.Equal(t, 1, f.client.closed)
}

func TestGenerate_EmptyResponseIsUnusable(t *testing.T) {
	f := &factory{client: &fakeClient{replies: []reply{{text: "  \n "}}}}
	g := newTestGenerator(f, Policy{})

	_, err := g.Generate(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}

func TestGenerate_RetryPolicy(t *testing.T) {
	f := &factory{client: &fakeClient{replies: []reply{
		{err: errors.New("unavailable")},
		{text: "second time lucky"},
	}}}
	g := newTestGenerator(f, Policy{MaxAttempts: 3})

	text, err := g.Generate(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "second time lucky", text)
	assert.Equal(t, 2, f.created)
}

func TestGenerate_Cancelled(t *testing.T) {
	f := &factory{client: &fakeClient{replies: []reply{{text: "letter"}}}}
	g := newTestGenerator(f, Policy{MaxAttempts: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, sampleRequest())
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.created)
}

func TestGenerationError_Fallback(t *testing.T) {
	err := newGenerationError("stage", nil)
	assert.Equal(t, FallbackMessage, err.Error())

	err = newGenerationError("stage", errors.New(""))
	assert.Equal(t, FallbackMessage, err.Error())

	err = newGenerationError("stage", errors.New("boom"))
	assert.Equal(t, "stage: boom", err.Error())
}
