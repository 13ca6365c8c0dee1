package coach

import (
	"context"
	"strings"

	"github.com/abhisek/prepcoach/internal/interview"
	"github.com/abhisek/prepcoach/internal/prompt"
)

type tipsOutput struct {
	Tips                []string `json:"tips"`
	FocusAreas          []string `json:"focus_areas"`
	MotivationalMessage string   `json:"motivational_message"`
}

// Tips returns personalized advice for the user's stats. Missing focus
// areas or message are taken from the offline tips; a reply with no tips
// falls back entirely.
func (c *Coach) Tips(ctx context.Context, p prompt.TipsParams) interview.Tips {
	offline := c.fallback.UserTips(p.Stats)

	res, log, err := c.call(ctx, prompt.Tips(p))
	var out tipsOutput
	if err == nil {
		err = res.Decode(&out)
	}
	if err == nil {
		out.Tips = nonBlank(out.Tips)
		if len(out.Tips) == 0 {
			err = errNoTips
		}
	}
	if err != nil {
		fellBack(log, err)
		return offline
	}

	t := interview.Tips{
		Tips:                out.Tips,
		FocusAreas:          nonBlank(out.FocusAreas),
		MotivationalMessage: strings.TrimSpace(out.MotivationalMessage),
		Source:              interview.SourceService,
	}
	if len(t.FocusAreas) == 0 {
		t.FocusAreas = offline.FocusAreas
	}
	if t.MotivationalMessage == "" {
		t.MotivationalMessage = offline.MotivationalMessage
	}
	return t
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
