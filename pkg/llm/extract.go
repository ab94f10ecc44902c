package llm

import (
	"errors"
	"strings"
)

var ErrNoJSON = errors.New("llm: no JSON object in model output")

// ExtractJSON returns the JSON object in a model answer, dropping markdown
// code fences and any prose before the first '{' or after the last '}'.
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx != -1 {
			text = text[idx+1:]
		}
		if idx := strings.LastIndex(text, "```"); idx != -1 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSON
	}
	return text[start : end+1], nil
}
