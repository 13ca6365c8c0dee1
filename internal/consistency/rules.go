// Package consistency applies the domain rules that make an evaluation
// bounded and monotonic regardless of what the grader produced.
package consistency

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/mod/semver"

	"github.com/abhisek/prepcoach/internal/interview"
)

// RulesVersion identifies the rule set. It is persisted with every response
// so historical rows can be told apart when the rules change.
const RulesVersion = "v1.0.0"

const (
	// FloorScore is the minimum for every score of a substantive answer.
	FloorScore = 70
	// FloorMinWords is the word count at which the floor applies.
	FloorMinWords = 10

	minNonsenseWords = 2
	minNonsenseChars = 10
)

// NotApplicableStrength is the single strength reported for nonsense answers.
const NotApplicableStrength = "Not applicable: the answer did not contain enough content to assess."

var placeholders = map[string]bool{
	"test":         true,
	"testing":      true,
	"idk":          true,
	"i don't know": true,
	"i dont know":  true,
	"dont know":    true,
	"don't know":   true,
	"n/a":          true,
	"na":           true,
	"none":         true,
	"nothing":      true,
	"no idea":      true,
	"asdf":         true,
	"qwerty":       true,
	"lorem ipsum":  true,
	"blah":         true,
	"skip":         true,
	"pass":         true,
	"?":            true,
	"...":          true,
	"-":            true,
}

// WordCount returns the number of whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// IsNonsense reports whether an answer is too short or templated to carry
// content.
func IsNonsense(answer string) bool {
	t := strings.TrimSpace(answer)
	if WordCount(t) <= minNonsenseWords || utf8.RuneCountInString(t) < minNonsenseChars {
		return true
	}
	lower := strings.ToLower(t)
	if placeholders[lower] {
		return true
	}
	return placeholders[strings.TrimRight(lower, ".!?,;: ")]
}

// FloorApplies reports whether the score floor applies to the answer.
func FloorApplies(answer string) bool {
	return !IsNonsense(answer) && WordCount(answer) >= FloorMinWords
}

// Clamp bounds a score to [0,100]. NaN maps to 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// ApplyBounds clamps every score and raises them to FloorScore when the
// answer is substantive. It returns the names of floored dimensions.
func ApplyBounds(e *interview.Evaluation, answer string) []string {
	fields := []struct {
		name string
		v    *float64
	}{
		{"clarity_score", &e.ClarityScore},
		{"confidence_score", &e.ConfidenceScore},
		{"content_score", &e.ContentScore},
		{"overall_score", &e.OverallScore},
	}

	floor := FloorApplies(answer)
	var floored []string
	for _, f := range fields {
		*f.v = Clamp(*f.v)
		if floor && *f.v < FloorScore {
			*f.v = FloorScore
			floored = append(floored, f.name)
		}
	}
	return floored
}

// IsCurrentRules reports whether a persisted rules version has the same
// major.minor as the running rule set.
func IsCurrentRules(v string) bool {
	if !semver.IsValid(v) {
		return false
	}
	return semver.MajorMinor(v) == semver.MajorMinor(RulesVersion)
}
