package quiz

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/vocabtester/internal/vocab"
)

// Result is the grading of one question.
type Result struct {
	ReadingCorrect bool
	MeaningCorrect bool
}

// Correct reports whether both answers were right.
func (r Result) Correct() bool {
	return r.ReadingCorrect && r.MeaningCorrect
}

func grade(w *vocab.Word, reading, meaning string) Result {
	return Result{
		ReadingCorrect: ReadingMatches(reading, w.KanaWord),
		MeaningCorrect: Matches(meaning, w.EnglishWord),
	}
}

// Feedback renders the verdict line, naming the expected value of every
// field that was wrong.
func (r Result) Feedback(w *vocab.Word) string {
	if r.Correct() {
		return "Correct!"
	}

	var parts []string
	if !r.ReadingCorrect {
		parts = append(parts, "Reading: "+w.KanaWord)
	}
	if !r.MeaningCorrect {
		parts = append(parts, "Meaning: "+w.EnglishWord)
	}
	return "Incorrect. " + strings.Join(parts, ", ")
}

// Details renders the English sentence and the full entry shown after
// grading.
func Details(w *vocab.Word) string {
	return fmt.Sprintf("Sentence: %s\n(%s)", w.EnglishSentence, w.Summary())
}

// Prompt returns the question for the current step.
func Prompt(step Step, w *vocab.Word) string {
	if w == nil {
		return "No words available. Add a word or change the filter."
	}
	switch step {
	case StepReading:
		return fmt.Sprintf("Reading of %s (kana):", w.KanjiWord)
	case StepMeaning:
		return fmt.Sprintf("Meaning of %s (English):", w.KanjiWord)
	default:
		return ""
	}
}
