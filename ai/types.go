package ai

import (
	"strings"
	"unicode"
)

// PIIClasses are the kinds of personally identifying content a Redactor removes.
var PIIClasses = []string{
	"email",
	"phone",
	"street_address",
	"full_name",
	"government_id",
	"financial_account",
	"date_of_birth",
	"social_handle",
	"url",
}

// LimitSentences returns text truncated to at most n sentences.
// A sentence ends at '.', '!' or '?' followed by whitespace or end of text.
func LimitSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	count := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Collapse runs like "?!" or "..." into one terminator
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		count++
		if count == n {
			return strings.TrimSpace(string(runes[:i+1]))
		}
	}
	return text
}

// CountSentences returns the number of sentences in text as LimitSentences sees them.
func CountSentences(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	runes := []rune(text)
	count := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		count++
	}
	last := runes[len(runes)-1]
	if last != '.' && last != '!' && last != '?' {
		count++ // trailing fragment without a terminator
	}
	return count
}
