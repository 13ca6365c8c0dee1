// Package coach runs the generation pipeline: build a prompt, call the
// provider once, extract the payload and normalize it. Every operation
// returns a usable result; any failure along the way substitutes the
// offline synthesizer.
package coach

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/abhisek/prepcoach/internal/consistency"
	"github.com/abhisek/prepcoach/internal/extract"
	"github.com/abhisek/prepcoach/internal/fallback"
	"github.com/abhisek/prepcoach/internal/llm"
	"github.com/abhisek/prepcoach/internal/prompt"
)

// errUnshaped is reported when the response held no payload of the
// expected root type.
var errUnshaped = errors.New("no structured payload in response")

var errNoTips = errors.New("decode tips: no usable tips")

// Coach is the pipeline. It is safe for concurrent use when the provider is.
type Coach struct {
	provider llm.Provider
	fallback *fallback.Synthesizer
	enforcer *consistency.Enforcer
	log      zerolog.Logger
}

// New creates a Coach. A nil provider behaves as llm.OfflineProvider and a
// nil synthesizer uses the embedded question bank.
func New(provider llm.Provider, fb *fallback.Synthesizer, log zerolog.Logger) *Coach {
	if provider == nil {
		provider = llm.OfflineProvider{}
	}
	if fb == nil {
		fb = fallback.New()
	}
	return &Coach{
		provider: provider,
		fallback: fb,
		enforcer: consistency.NewEnforcer(fb),
		log:      log,
	}
}

// RulesVersion returns the version of the consistency rules applied to
// evaluations.
func (c *Coach) RulesVersion() string { return c.enforcer.Version() }

// call sends one request and extracts a shaped payload from the reply.
func (c *Coach) call(ctx context.Context, p prompt.Prompt) (*extract.Result, zerolog.Logger, error) {
	ctx = llm.WithPurpose(ctx, string(p.Kind))
	ctx, reqID := llm.WithRequestID(ctx)
	log := c.log.With().Str("purpose", string(p.Kind)).Str("request_id", reqID).Logger()

	resp, err := c.provider.Generate(ctx, p.Request())
	if err != nil {
		return nil, log, err
	}
	res, err := extract.Extract(resp.Text, p.Shape)
	if err != nil {
		return nil, log, err
	}
	if !res.Shaped {
		return nil, log, errUnshaped
	}
	if res.Issues != nil {
		log.Debug().Err(res.Issues).Msg("payload does not match schema")
	}
	return res, log, nil
}

// fellBack logs the substitution of offline output.
func fellBack(log zerolog.Logger, err error) {
	log.Warn().Err(err).
		Str("source", "fallback").
		Str("reason", reason(err)).
		Msg("using offline result")
}

func reason(err error) string {
	var se *llm.ServiceError
	var ee *extract.ExtractionError
	switch {
	case errors.As(err, &se):
		return "service_" + string(se.Kind)
	case errors.As(err, &ee):
		return "extraction"
	case errors.Is(err, errUnshaped):
		return "unshaped"
	default:
		return "decode"
	}
}
