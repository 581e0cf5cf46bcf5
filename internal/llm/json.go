package llm

import (
	"encoding/json"
	"strings"
)

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line, if any.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// ExtractObject parses a JSON object out of raw model output into dst.
// It first attempts to parse the whole (fence-cleaned) string, then falls
// back to the substring between the first '{' and the last '}'. A nil return
// means dst is populated; callers treat any error as "no usable structured
// result" and fall back to component-local defaults, never a fatal error.
func ExtractObject(text string, dst any) error {
	cleaned := CleanJSONBlock(text)

	if err := json.Unmarshal([]byte(cleaned), dst); err == nil {
		return nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return &ParseError{Message: "no JSON object in model output"}
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), dst); err != nil {
		return &ParseError{Message: "model output is not valid JSON", Cause: err}
	}
	return nil
}
