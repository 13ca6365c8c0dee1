package llm

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prepcoach/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: `{"a":1}`, Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Text: "plain words"},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, resp1.Text)
	assert.Equal(t, 10, resp1.Usage.InputTokens)
	assert.Equal(t, "end", resp1.StopReason)

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	require.NoError(t, err)
	assert.Equal(t, "plain words", resp2.Text)
}

func TestMockProvider_EmptyQueueReturnsNetworkError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "{}"})

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	assert.Equal(t, 1, mock.CallCount())
	assert.Equal(t, "sys", mock.Calls[0].System)
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ServiceError{Kind: KindRateLimit}})

	_, err := mock.Generate(context.Background(), Request{})
	var se *ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindRateLimit, se.Kind)
}

func TestMockProvider_ModelID(t *testing.T) {
	assert.Equal(t, "mock", NewMockProvider().ModelID())
}

func TestOfflineProvider_AlwaysFails(t *testing.T) {
	_, err := OfflineProvider{}.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, KindOther, KindOf(err))
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(nil))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	wrapped := errors.Join(errors.New("ctx"), &ServiceError{Kind: KindAuth})
	assert.Equal(t, KindAuth, KindOf(wrapped))
}

func TestKindForStatus(t *testing.T) {
	assert.Equal(t, KindAuth, kindForStatus(401))
	assert.Equal(t, KindAuth, kindForStatus(403))
	assert.Equal(t, KindRateLimit, kindForStatus(429))
	assert.Equal(t, KindNetwork, kindForStatus(503))
	assert.Equal(t, KindOther, kindForStatus(400))
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))

	ctx = WithPurpose(ctx, "evaluation")
	assert.Equal(t, "evaluation", PurposeFrom(ctx))
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFrom(ctx))

	ctx, id := WithRequestID(ctx)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, RequestIDFrom(ctx))
}

type slowProvider struct{ delay time.Duration }

func (s slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	select {
	case <-time.After(s.delay):
		return &Response{Text: "late"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s slowProvider) ModelID() string { return "slow" }

func TestTimeoutProvider_Expires(t *testing.T) {
	p := WithTimeout(slowProvider{delay: time.Second}, 20*time.Millisecond)

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTimeoutProvider_PassesThrough(t *testing.T) {
	p := WithTimeout(NewMockProvider(MockResponse{Text: "ok"}), time.Second)

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, "mock", p.ModelID())
}

func TestTimeoutProvider_DisabledForNonPositive(t *testing.T) {
	p := WithTimeout(NewMockProvider(MockResponse{Text: "ok"}), 0)
	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
}

type recordingEventRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
}

func (r *recordingEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return nil
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	repo := &recordingEventRepo{}
	mock := NewMockProvider(
		MockResponse{Text: `{"x":1}`, Usage: Usage{InputTokens: 3, OutputTokens: 4}},
		MockResponse{Err: &ServiceError{Kind: KindAuth}},
	)
	p := WithLogging(mock, repo, zerolog.Nop())

	ctx, id := WithRequestID(WithPurpose(context.Background(), "evaluation"))
	_, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.NoError(t, err)
	_, err = p.Generate(ctx, Request{})
	require.Error(t, err)

	require.Len(t, repo.events, 2)
	ok := repo.events[0]
	assert.True(t, ok.Success)
	assert.Equal(t, id, ok.RequestID)
	assert.Equal(t, "evaluation", ok.Purpose)
	assert.Equal(t, `{"x":1}`, ok.ResponseBody)
	assert.Equal(t, 3, ok.InputTokens)
	assert.Contains(t, ok.RequestBody, "[system]\nsys")

	failed := repo.events[1]
	assert.False(t, failed.Success)
	assert.Equal(t, "auth", failed.ErrorKind)
}

func TestLoggingProvider_RecordsTimedOutCalls(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	repo := st.EventRepo()

	p := WithTimeout(WithLogging(slowProvider{delay: time.Second}, repo, zerolog.Nop()), 50*time.Millisecond)
	ctx := WithPurpose(context.Background(), "evaluation")
	_, err = p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))

	var events []store.LLMRequestRecord
	require.Eventually(t, func() bool {
		events, err = repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
		return err == nil && len(events) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, events[0].Success)
	assert.Equal(t, "evaluation", events[0].Purpose)
	assert.NotEmpty(t, events[0].ErrorMessage)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}}, false},
		{"groq without key", Config{Provider: "groq"}, true},
		{"groq with key", Config{Provider: "groq", Groq: GroqConfig{APIKey: "gsk-test"}}, false},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"offline needs no key", Config{Provider: "offline"}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "Validate() error = %v", err)
		})
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GROQ_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "groq", cfg.Provider)
	assert.Equal(t, "gsk-test", cfg.Groq.APIKey)
}

func TestNewProvider_Offline(t *testing.T) {
	p, err := NewProvider(context.Background(), DefaultConfig(), nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "offline", p.ModelID())
}

func TestNewProvider_WrapsGroq(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "groq"
	cfg.Groq.APIKey = "gsk-test"

	p, err := NewProvider(context.Background(), cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	_, isTimeout := p.(*TimeoutProvider)
	assert.True(t, isTimeout)
	assert.Equal(t, "llama-3.3-70b-versatile", p.ModelID())
}

func TestModelCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.15+0.6, c.Cost(1_000_000, 1_000_000), 1e-9)
	assert.Nil(t, LookupCost("no-such-model"))
}
