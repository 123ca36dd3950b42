package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON is returned when a response holds no JSON object.
var ErrNoJSON = errors.New("no JSON object in response")

// stripFences removes a surrounding markdown code block, if any.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	endIdx := len(lines)
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			endIdx = i
			break
		}
	}
	return strings.Join(lines[1:endIdx], "\n")
}

// DecodeJSON unmarshals the JSON object in an LLM response into v. Code
// fences are stripped and, when the text still does not parse, the
// outermost {...} span is tried.
func DecodeJSON(text string, v any) error {
	text = stripFences(text)
	if text == "" {
		return ErrNoJSON
	}

	err := json.Unmarshal([]byte(text), v)
	if err == nil {
		return nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ErrNoJSON
	}
	if start == 0 && end == len(text)-1 {
		return err
	}
	return json.Unmarshal([]byte(text[start:end+1]), v)
}
