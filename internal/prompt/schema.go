package prompt

import "github.com/abhisek/prepcoach/internal/llm"

// QuestionsSchema declares the question-generation response: an array of
// question objects.
var QuestionsSchema = &llm.Schema{
	Name:        "interview-questions",
	Description: "A list of mock interview questions",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{
					"type":        "string",
					"description": "The question as asked to the candidate",
				},
				"category": map[string]any{
					"type": "string",
					"enum": []any{"behavioral", "technical", "situational", "general"},
				},
				"difficulty": map[string]any{
					"type": "string",
					"enum": []any{"easy", "medium", "hard"},
				},
			},
			"required": []any{"question"},
		},
		"minItems": 1,
	},
}

func scoreProperty(description string) map[string]any {
	return map[string]any{
		"type":        "number",
		"minimum":     0,
		"maximum":     100,
		"description": description,
	}
}

func stringList(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

// EvaluationSchema declares the answer-evaluation response.
var EvaluationSchema = &llm.Schema{
	Name:        "answer-evaluation",
	Description: "Scores and feedback for one interview answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"clarity_score":    scoreProperty("How clearly the answer is structured and expressed"),
			"confidence_score": scoreProperty("How assured and direct the answer sounds"),
			"content_score":    scoreProperty("How relevant and substantive the answer is"),
			"overall_score":    scoreProperty("Overall quality of the answer"),
			"strengths":        stringList("What the answer does well"),
			"weaknesses":       stringList("What the answer is missing or does poorly"),
			"improved_answer": map[string]any{
				"type":        "string",
				"description": "A complete first-person model answer",
			},
			"tips":        stringList("Short actionable tips"),
			"soft_skills": stringList("Soft skills the answer demonstrates"),
			"detailed_feedback": map[string]any{
				"type":        "string",
				"description": "A paragraph of overall feedback",
			},
		},
		"required": []any{
			"clarity_score", "confidence_score", "content_score", "overall_score",
			"strengths", "weaknesses", "improved_answer", "tips",
		},
	},
}

// TipsSchema declares the personalized tips response.
var TipsSchema = &llm.Schema{
	Name:        "practice-tips",
	Description: "Personalized interview improvement tips",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tips":        stringList("Specific, actionable tips"),
			"focus_areas": stringList("Areas to focus practice on"),
			"motivational_message": map[string]any{
				"type":        "string",
				"description": "A short encouraging message",
			},
		},
		"required": []any{"tips"},
	},
}
