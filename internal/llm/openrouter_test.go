package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey: "sk-or-test",
			Model:  "google/gemini-2.0-flash-exp",
		})
		require.NoError(t, err)
		assert.Equal(t, "google/gemini-2.0-flash-exp", p.ModelID())
		assert.False(t, p.strictSchema)
	})

	t.Run("empty API key", func(t *testing.T) {
		_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"})
		require.Error(t, err)
	})
}

func TestNewGroqProvider(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		p, err := NewGroqProvider(GroqConfig{APIKey: "gsk-test", Model: "llama-3.3-70b-versatile"})
		require.NoError(t, err)
		assert.Equal(t, "llama-3.3-70b-versatile", p.ModelID())
	})

	t.Run("empty API key", func(t *testing.T) {
		_, err := NewGroqProvider(GroqConfig{Model: "llama-3.3-70b-versatile"})
		require.Error(t, err)
	})
}
