package reading

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"golang.org/x/text/width"
)

// ErrUnknownReading is returned when a part of the text has no known reading.
var ErrUnknownReading = errors.New("reading unknown")

// readingFeature is the index of the katakana reading in IPA dictionary
// features.
const readingFeature = 7

// Suggester proposes kana readings.
type Suggester struct {
	t *tokenizer.Tokenizer
}

// NewSuggester loads the IPA dictionary. Loading takes a moment, so create
// one Suggester and reuse it.
func NewSuggester() (*Suggester, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}
	return &Suggester{t: t}, nil
}

// Suggest returns the hiragana reading of text.
func (s *Suggester) Suggest(text string) (string, error) {
	text = width.Fold.String(strings.TrimSpace(text))
	if text == "" {
		return "", fmt.Errorf("%w: empty text", ErrUnknownReading)
	}

	var b strings.Builder
	for _, token := range s.t.Tokenize(text) {
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		features := token.Features()
		switch {
		case token.Class != tokenizer.UNKNOWN && len(features) > readingFeature && features[readingFeature] != "*":
			b.WriteString(features[readingFeature])
		case IsKana(token.Surface):
			b.WriteString(token.Surface)
		default:
			return "", fmt.Errorf("%w: %s", ErrUnknownReading, token.Surface)
		}
	}
	return ToHiragana(b.String()), nil
}

// ToHiragana converts full-width katakana to hiragana. Other runes,
// including the prolonged sound mark, are kept.
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ァ' && r <= 'ヶ' {
			return r - 0x60
		}
		return r
	}, s)
}

// IsKana reports whether s consists only of hiragana, katakana and the
// prolonged sound mark.
func IsKana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.In(r, unicode.Hiragana, unicode.Katakana) && r != 'ー' {
			return false
		}
	}
	return true
}
