package openai

import (
	"encoding/json"
	"strings"

	"github.com/openclass/tutorbot/core"
)

// ParseStructuredAnswer parses the extraction model's output into a
// StructuredAnswer. Parsing is tolerant:
//
//  1. strict parse of the whole output (after stripping markdown fences
//     and repairing common JSON defects),
//  2. on failure, parse the substring between the first '{' and last '}',
//  3. on total failure, treat the entire original answer as the answer.
//
// The boolean reports whether a parse succeeded. The returned record always
// carries a non-empty Answer, and carries the citation fields only when all
// four were extracted.
func ParseStructuredAnswer(output, original string) (*core.StructuredAnswer, bool) {
	cleaned := stripFences(output)
	cleaned = repairJSON(cleaned)

	if answer, ok := decodeAnswer(cleaned, original); ok {
		return answer, true
	}

	// Second attempt: first '{' to last '}'
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if answer, ok := decodeAnswer(cleaned[start:end+1], original); ok {
			return answer, true
		}
	}

	return &core.StructuredAnswer{Answer: original}, false
}

// decodeAnswer attempts a single strict JSON decode and normalizes the result.
func decodeAnswer(text, original string) (*core.StructuredAnswer, bool) {
	var answer core.StructuredAnswer
	if err := json.Unmarshal([]byte(text), &answer); err != nil {
		return nil, false
	}

	if answer.Answer == "" {
		answer.Answer = original
	}

	// All four citation fields or none.
	if !answer.Cited() {
		answer = core.StructuredAnswer{Answer: answer.Answer}
	}

	return &answer, true
}

// stripFences removes markdown code fences that chat models wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
