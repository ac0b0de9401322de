package openai

import "strings"

// normalizeInput collapses runs of whitespace and trims the result.
func normalizeInput(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripCodeFences removes markdown code fences wrapped around a model response.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
