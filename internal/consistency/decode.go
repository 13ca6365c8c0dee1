package consistency

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Raw is a tolerantly decoded evaluation before rules are applied. Nil
// scores were missing or unreadable.
type Raw struct {
	// ScaleGiven is set when a score carried its own scale, as in "8/10"
	// or "85%". Such scores are already on 0-100.
	ScaleGiven bool

	Clarity          *float64
	Confidence       *float64
	Content          *float64
	Overall          *float64
	Strengths        []string
	Weaknesses       []string
	ImprovedAnswer   string
	Tips             []string
	DetailedFeedback string
	SoftSkills       []string
}

// Aliases accepted for each field, canonical name first.
var (
	clarityKeys    = []string{"clarity_score", "clarity"}
	confidenceKeys = []string{"confidence_score", "confidence"}
	contentKeys    = []string{"content_score", "content", "relevance_score"}
	overallKeys    = []string{"overall_score", "overall", "score"}
	strengthKeys   = []string{"strengths", "positives"}
	weaknessKeys   = []string{"weaknesses", "improvements", "areas_for_improvement"}
	improvedKeys   = []string{"improved_answer", "suggested_answer", "model_answer", "sample_answer"}
	tipKeys        = []string{"tips", "suggestions"}
	feedbackKeys   = []string{"detailed_feedback", "critique", "feedback"}
	softSkillKeys  = []string{"soft_skills", "skills"}
)

// Decode reads a shaped evaluation payload. It never fails on content:
// unreadable or missing fields are left empty and reported in issues.
// Only a payload that is not a JSON object yields an error.
func Decode(data json.RawMessage) (Raw, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return Raw{}, nil, fmt.Errorf("decode evaluation: %w", err)
	}
	if obj == nil {
		return Raw{}, nil, fmt.Errorf("decode evaluation: not an object")
	}

	nested, _ := obj["scores"].(map[string]any)

	var (
		raw    Raw
		issues []string
	)
	score := func(keys []string) *float64 {
		for _, src := range []map[string]any{obj, nested} {
			if src == nil {
				continue
			}
			if v, scaled, ok := lookupNumber(src, keys); ok {
				raw.ScaleGiven = raw.ScaleGiven || scaled
				return &v
			}
		}
		issues = append(issues, "missing "+keys[0])
		return nil
	}
	list := func(keys []string) []string {
		v, ok := lookup(obj, keys)
		if !ok {
			issues = append(issues, "missing "+keys[0])
			return nil
		}
		return toList(v)
	}
	text := func(keys []string) string {
		v, ok := lookup(obj, keys)
		if !ok {
			issues = append(issues, "missing "+keys[0])
			return ""
		}
		return toText(v)
	}

	raw.Clarity = score(clarityKeys)
	raw.Confidence = score(confidenceKeys)
	raw.Content = score(contentKeys)
	raw.Overall = score(overallKeys)
	raw.Strengths = list(strengthKeys)
	raw.Weaknesses = list(weaknessKeys)
	raw.ImprovedAnswer = text(improvedKeys)
	raw.Tips = list(tipKeys)
	raw.DetailedFeedback = text(feedbackKeys)
	if v, ok := lookup(obj, softSkillKeys); ok {
		raw.SoftSkills = toList(v)
	}

	return raw, issues, nil
}

func lookup(obj map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func lookupNumber(obj map[string]any, keys []string) (v float64, scaled, ok bool) {
	for _, k := range keys {
		if x, found := obj[k]; found {
			if v, scaled, ok = toNumber(x); ok {
				return v, scaled, true
			}
		}
	}
	return 0, false, false
}

// toNumber coerces JSON numbers and numeric strings such as "85",
// "85/100", "8/10" and "85%". scaled reports that the value carried its
// own scale and was converted to 0-100.
func toNumber(v any) (f float64, scaled, ok bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, false, err == nil
	case float64:
		return x, false, true
	case string:
		return parseNumericString(x)
	}
	return 0, false, false
}

func parseNumericString(s string) (float64, bool, bool) {
	s = strings.TrimSpace(s)
	pct := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || d <= 0 {
			return 0, false, false
		}
		return n / d * 100, true, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, pct, err == nil
}

// toList accepts a list of strings, a list of mixed values or a single
// string. Blank entries are dropped.
func toList(v any) []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch x := v.(type) {
	case []any:
		for _, item := range x {
			add(toText(item))
		}
	default:
		add(toText(x))
	}
	return out
}

func toText(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case nil:
		return ""
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
