package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain JSON", `{"a": 1}`, `{"a": 1}`},
		{"JSON fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"Generic fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"Fence with language id", "```javascript\n{\"a\": 1}\n```", `{"a": 1}`},
		{"Surrounding whitespace", "  {\"a\": 1}\n", `{"a": 1}`},
		{"Empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractObject(t *testing.T) {
	type payload struct {
		Score  int    `json:"score"`
		Reason string `json:"reason"`
	}

	t.Run("whole string parses", func(t *testing.T) {
		var p payload
		err := ExtractObject(`{"score": 70, "reason": "good"}`, &p)
		require.NoError(t, err)
		assert.Equal(t, 70, p.Score)
		assert.Equal(t, "good", p.Reason)
	})

	t.Run("falls back to brace substring", func(t *testing.T) {
		var p payload
		err := ExtractObject("Here is the result:\n{\"score\": 55, \"reason\": \"ok\"}\nThanks!", &p)
		require.NoError(t, err)
		assert.Equal(t, 55, p.Score)
	})

	t.Run("fenced output", func(t *testing.T) {
		var p payload
		err := ExtractObject("```json\n{\"score\": 40, \"reason\": \"meh\"}\n```", &p)
		require.NoError(t, err)
		assert.Equal(t, 40, p.Score)
	})

	t.Run("no object at all", func(t *testing.T) {
		var p payload
		err := ExtractObject("I cannot answer that.", &p)
		require.Error(t, err)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("malformed object", func(t *testing.T) {
		var p payload
		err := ExtractObject(`{"score": }`, &p)
		require.Error(t, err)
	})
}
