package audio

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateJapaneseText checks that text contains at least one kana or kanji.
func ValidateJapaneseText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	for _, r := range text {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana) {
			return nil
		}
	}
	return fmt.Errorf("text must contain Japanese characters")
}
