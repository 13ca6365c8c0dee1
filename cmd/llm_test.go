package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prepcoach/internal/store"
)

func llmRecord(id int64, success bool) store.LLMRequestRecord {
	r := store.LLMRequestRecord{
		ID:        id,
		Timestamp: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		LLMRequestEventData: store.LLMRequestEventData{
			RequestID:    "req-1",
			Provider:     "gpt-4.1",
			Model:        "gpt-4.1",
			Purpose:      "evaluation",
			InputTokens:  120,
			OutputTokens: 48,
			LatencyMs:    900,
			Success:      success,
			RequestBody:  "[user]\nEvaluate this answer.",
			ResponseBody: `{"overall_score": 82}`,
		},
	}
	if !success {
		r.ErrorKind = "rate_limit"
		r.ErrorMessage = "generation service rate_limit error"
		r.ResponseBody = ""
	}
	return r
}

func TestTableCutsCellsToWidth(t *testing.T) {
	var out bytes.Buffer
	tb := newTable(column{"Role", 6}, column{"Score", 5})
	tb.header(&out)
	tb.row(&out, "Software Engineer", "82")

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Role    Score", lines[0])
	assert.Equal(t, strings.Repeat(rule, 13), lines[1])
	assert.Equal(t, "Softwa  82", lines[2])
}

func TestRenderEvents(t *testing.T) {
	var out bytes.Buffer
	renderEvents(&out, nil)
	assert.Contains(t, out.String(), "No generation calls recorded.")

	out.Reset()
	renderEvents(&out, []store.LLMRequestRecord{llmRecord(2, false), llmRecord(1, true)})
	text := out.String()
	assert.Contains(t, text, "120/48")
	assert.Contains(t, text, "rate_limit")
	assert.Contains(t, text, "ok")
	assert.Contains(t, text, "evaluation")
}

func TestRenderEvent(t *testing.T) {
	var out bytes.Buffer
	e := llmRecord(7, false)
	renderEvent(&out, &e)
	text := out.String()
	assert.Contains(t, text, "Call 7")
	assert.Contains(t, text, "120 in, 48 out")
	assert.Contains(t, text, "generation service rate_limit error")
	assert.Contains(t, text, "Evaluate this answer.")
	assert.Contains(t, text, "(not captured)")
}

func TestRenderUsage(t *testing.T) {
	var out bytes.Buffer
	renderUsage(&out,
		[]store.LLMUsageStats{
			{Purpose: "evaluation", Calls: 3, Failures: 1, InputTokens: 1_000_000, OutputTokens: 0, AvgLatencyMs: 800},
			{Purpose: "questions", Calls: 1, InputTokens: 10, OutputTokens: 20, AvgLatencyMs: 400},
		},
		[]store.LLMModelUsage{
			{Model: "gpt-4.1", Calls: 3, InputTokens: 1_000_000},
			{Model: "house-model", Calls: 1, InputTokens: 10, OutputTokens: 20},
		})

	text := out.String()
	assert.Contains(t, text, "Usage by purpose")
	assert.Contains(t, text, "25% of calls fell back to offline results")
	assert.Contains(t, text, "$2.00")
	assert.Contains(t, text, "total (partial)")
	assert.Contains(t, text, "No pricing for house-model")
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0042", formatCost(0.0042))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
