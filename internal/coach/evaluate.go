package coach

import (
	"context"

	"github.com/abhisek/prepcoach/internal/consistency"
	"github.com/abhisek/prepcoach/internal/interview"
	"github.com/abhisek/prepcoach/internal/prompt"
)

// Evaluate scores an answer. Service output passes through the consistency
// rules; on any failure the offline evaluation is returned instead.
func (c *Coach) Evaluate(ctx context.Context, p prompt.EvaluationParams) interview.Evaluation {
	in := consistency.EvalInput{Question: p.Question, Answer: p.Answer, Role: p.Role}

	res, log, err := c.call(ctx, prompt.Evaluation(p))
	var raw consistency.Raw
	if err == nil {
		var issues []string
		raw, issues, err = consistency.Decode(res.Data)
		if len(issues) > 0 {
			log.Debug().Strs("issues", issues).Msg("evaluation fields defaulted")
		}
	}
	if err != nil {
		fellBack(log, err)
		return c.fallback.Evaluate(in)
	}

	ev, rep := c.enforcer.Enforce(raw, in)
	log.Debug().
		Str("source", string(ev.Source)).
		Bool("nonsense", rep.Nonsense).
		Strs("floored", rep.Floored).
		Strs("backfilled", rep.Backfilled).
		Float64("overall", ev.OverallScore).
		Msg("evaluated answer")
	return ev
}
