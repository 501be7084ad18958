package extraction

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls the first balanced JSON object out of model output
// and unmarshals it into out. Vision responses sometimes wrap the
// object in prose or code fences, so plain unmarshalling of the whole
// text is tried first and a brace-balanced scan second.
func ExtractJSON(text string, out interface{}) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	if json.Unmarshal([]byte(text), out) == nil {
		return true
	}

	start := strings.IndexByte(text, '{')
	for start != -1 {
		end := balancedObjectEnd(text, start)
		if end == -1 {
			return false
		}
		if json.Unmarshal([]byte(text[start:end+1]), out) == nil {
			return true
		}
		// Malformed candidate; try the next object.
		next := strings.IndexByte(text[end+1:], '{')
		if next == -1 {
			return false
		}
		start = end + 1 + next
	}
	return false
}

// balancedObjectEnd returns the index of the brace closing the object
// opened at start, honoring JSON string and escape rules, or -1 when
// the object never closes.
func balancedObjectEnd(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
