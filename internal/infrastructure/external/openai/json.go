package openai

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoJSON is returned when a response holds no JSON object
var ErrNoJSON = errors.New("no JSON object in response")

// decodeJSON unmarshals content into out. Models sometimes wrap the object
// in prose or a markdown fence, so the first balanced object is tried when
// the whole content does not parse.
func decodeJSON(content string, out interface{}) error {
	err := json.Unmarshal([]byte(content), out)
	if err == nil {
		return nil
	}

	embedded := extractJSON(content)
	if embedded == "" {
		return fmt.Errorf("failed to parse response: %w", ErrNoJSON)
	}
	if err := json.Unmarshal([]byte(embedded), out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// extractJSON returns the first balanced {...} object in content
func extractJSON(content string) string {
	start := findJSONStart(content)
	if start < 0 {
		return ""
	}
	end := findJSONEnd(content, start)
	if end <= start {
		return ""
	}
	return content[start:end]
}

func findJSONStart(content string) int {
	for i := 0; i < len(content); i++ {
		if content[i] == '{' {
			return i
		}
	}
	return -1
}

// findJSONEnd returns the index just past the brace closing the object
// opened at start, skipping braces inside string literals
func findJSONEnd(content string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(content); i++ {
		ch := content[i]

		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}
