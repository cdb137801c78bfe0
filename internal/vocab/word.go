package vocab

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultTag is assigned to words saved without a tag.
const DefaultTag = "none"

var (
	// ErrWordNotFound is returned when a word ID has no matching entry.
	ErrWordNotFound = errors.New("word not found")
	// ErrInvalidWord is matched by every *ValidationError.
	ErrInvalidWord = errors.New("invalid word")
)

// Word is a single vocabulary entry.
type Word struct {
	ID               int64
	KanjiWord        string
	KanaWord         string
	EnglishWord      string
	JapaneseSentence string
	EnglishSentence  string
	Tag              string
}

// ValidationError lists the fields that were empty after trimming.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid word: required fields empty: %s", strings.Join(e.Fields, ", "))
}

// Is makes errors.Is(err, ErrInvalidWord) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidWord
}

// Normalize trims every text field and applies the default tag.
func (w *Word) Normalize() {
	w.KanjiWord = strings.TrimSpace(w.KanjiWord)
	w.KanaWord = strings.TrimSpace(w.KanaWord)
	w.EnglishWord = strings.TrimSpace(w.EnglishWord)
	w.JapaneseSentence = strings.TrimSpace(w.JapaneseSentence)
	w.EnglishSentence = strings.TrimSpace(w.EnglishSentence)
	w.Tag = strings.TrimSpace(w.Tag)
	if w.Tag == "" {
		w.Tag = DefaultTag
	}
}

// Validate reports every required field that is empty. It does not modify w,
// so callers normally run Normalize first.
func (w *Word) Validate() error {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("kanji_word", w.KanjiWord)
	check("kana_word", w.KanaWord)
	check("english_word", w.EnglishWord)
	check("japanese_sentence", w.JapaneseSentence)
	check("english_sentence", w.EnglishSentence)
	check("tag", w.Tag)

	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Summary is the one-line recap shown after grading.
func (w *Word) Summary() string {
	return fmt.Sprintf("%s = %s / %s", w.KanjiWord, w.KanaWord, w.EnglishWord)
}

// LastResult is the most recent grading of a word.
type LastResult struct {
	WordID      int64
	LastSeen    time.Time
	LastCorrect bool
}

// Samples returns the entries a fresh database starts with.
func Samples() []Word {
	return []Word{
		{KanjiWord: "学校", KanaWord: "がっこう", EnglishWord: "school",
			JapaneseSentence: "私は毎日学校に行きます。", EnglishSentence: "I go to school every day.", Tag: DefaultTag},
		{KanjiWord: "猫", KanaWord: "ねこ", EnglishWord: "cat",
			JapaneseSentence: "猫がベッドで寝ています。", EnglishSentence: "The cat is sleeping on the bed.", Tag: DefaultTag},
		{KanjiWord: "食べる", KanaWord: "たべる", EnglishWord: "eat",
			JapaneseSentence: "朝ご飯を食べる。", EnglishSentence: "I eat breakfast.", Tag: DefaultTag},
		{KanjiWord: "勉強", KanaWord: "べんきょう", EnglishWord: "study",
			JapaneseSentence: "日本語を勉強しています。", EnglishSentence: "I am studying Japanese.", Tag: DefaultTag},
	}
}
