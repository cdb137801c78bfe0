package quiz

import "strings"

// Normalize lower-cases text and drops every rune that is not an ASCII letter
// or digit.
func Normalize(text string) string {
	lowered := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Matches reports whether answer equals any of the semicolon separated
// alternatives in accepted after normalization. An answer that normalizes to
// the empty string never matches.
func Matches(answer, accepted string) bool {
	normalized := Normalize(answer)
	if normalized == "" {
		return false
	}

	for _, alt := range strings.Split(accepted, ";") {
		if Normalize(strings.TrimSpace(alt)) == normalized {
			return true
		}
	}
	return false
}

// ReadingMatches compares a kana answer with the expected reading exactly.
// IME input is expected, so no folding of any kind is applied.
func ReadingMatches(answer, kana string) bool {
	return answer == kana
}
