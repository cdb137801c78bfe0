package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"codeberg.org/snonux/vocabtester/internal/vocab"
)

// Card represents a single Anki flashcard
type Card struct {
	Kanji           string
	Kana            string
	English         string
	Sentence        string // Japanese example sentence
	SentenceEnglish string
	Tag             string
	AudioFile       string // Optional path to the spoken sentence
}

// CardFromWord converts a stored word.
func CardFromWord(w *vocab.Word) Card {
	return Card{
		Kanji:           w.KanjiWord,
		Kana:            w.KanaWord,
		English:         w.EnglishWord,
		Sentence:        w.JapaneseSentence,
		SentenceEnglish: w.EnglishSentence,
		Tag:             w.Tag,
	}
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		IncludeHeaders: true,
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// AddWords adds a card for every word.
func (g *Generator) AddWords(words []*vocab.Word) {
	for _, w := range words {
		g.AddCard(CardFromWord(w))
	}
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if g.options.IncludeHeaders {
		headers := []string{"Kanji", "Kana", "English", "Sentence", "Sentence (English)", "Audio", "Tags"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.Kanji,
			card.Kana,
			card.English,
			card.Sentence,
			card.SentenceEnglish,
			formatAudioField(card.AudioFile),
			card.Tag,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatAudioField formats the audio file reference for Anki
func formatAudioField(audioFile string) string {
	if audioFile == "" {
		return ""
	}
	// Anki audio format: [sound:filename.mp3]
	return fmt.Sprintf("[sound:%s]", filepath.Base(audioFile))
}

// GenerateAPKG creates a proper .apkg file for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkgGen := NewAPKGGenerator(deckName)
	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}
	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withAudio int) {
	totalCards = len(g.cards)
	for _, card := range g.cards {
		if card.AudioFile != "" {
			withAudio++
		}
	}
	return
}
