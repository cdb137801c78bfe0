package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/vocabtester/internal"
	"codeberg.org/snonux/vocabtester/internal/anki"
	"codeberg.org/snonux/vocabtester/internal/audio"
	"codeberg.org/snonux/vocabtester/internal/batch"
	"codeberg.org/snonux/vocabtester/internal/cli"
	"codeberg.org/snonux/vocabtester/internal/console"
	"codeberg.org/snonux/vocabtester/internal/gui"
	"codeberg.org/snonux/vocabtester/internal/platform"
	"codeberg.org/snonux/vocabtester/internal/quiz"
	"codeberg.org/snonux/vocabtester/internal/reading"
	"codeberg.org/snonux/vocabtester/internal/store"
	"codeberg.org/snonux/vocabtester/internal/vocab"
	"codeberg.org/snonux/vocabtester/internal/wordgen"
)

// audioWorkers bounds concurrent speech requests during Anki export
const audioWorkers = 4

// Processor runs the command-line modes against one database
type Processor struct {
	flags     *cli.Flags
	store     *store.Store
	out       io.Writer
	outputDir string // where Anki exports are written

	// Built on first use, so modes that need no API key work without one
	gen     wordgen.Generator
	speaker *audio.Speaker
}

// NewProcessor opens the database named by flags, seeding a new one with
// sample words
func NewProcessor(ctx context.Context, flags *cli.Flags) (*Processor, error) {
	path := flags.DBPath
	if path == "" {
		path = filepath.Join(cli.StateDir(), "vocab.db")
	}

	st, err := store.Open(ctx, path, store.WithSeed(vocab.Samples()), store.WithLogger(slog.Default()))
	if err != nil {
		return nil, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return newProcessor(flags, st, os.Stdout, home), nil
}

func newProcessor(flags *cli.Flags, st *store.Store, out io.Writer, outputDir string) *Processor {
	return &Processor{
		flags:     flags,
		store:     st,
		out:       out,
		outputDir: outputDir,
	}
}

// Close closes the database
func (p *Processor) Close() error {
	return p.store.Close()
}

func (p *Processor) generator(ctx context.Context) (wordgen.Generator, error) {
	if p.gen != nil {
		return p.gen, nil
	}
	gen, err := wordgen.New(ctx, &wordgen.Config{
		Provider:    p.flags.AIProvider,
		GeminiKey:   cli.GetGeminiKey(),
		GeminiModel: p.flags.GeminiModel,
		OpenAIKey:   cli.GetOpenAIKey(),
		OpenAIModel: p.flags.OpenAIModel,
	})
	if err != nil {
		return nil, fmt.Errorf("word generation unavailable: %w", err)
	}
	p.gen = gen
	return gen, nil
}

func (p *Processor) audioSpeaker() (*audio.Speaker, error) {
	if p.speaker != nil {
		return p.speaker, nil
	}

	config := audio.DefaultProviderConfig()
	config.Provider = p.flags.AudioProvider
	config.CacheDir = cli.GetAudioCacheDir()
	config.OpenAIKey = cli.GetOpenAIKey()
	if p.flags.OpenAIVoice != "" {
		config.OpenAIVoice = p.flags.OpenAIVoice
	}

	provider, err := audio.NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("speech unavailable: %w", err)
	}
	p.speaker = audio.NewSpeaker(provider, audio.NewPlayer(), filepath.Join(config.CacheDir, "sentences"))
	return p.speaker, nil
}

// AddWord generates an entry for kanji and stores it with the --tag tag
func (p *Processor) AddWord(ctx context.Context, kanji string) error {
	kanji = strings.TrimSpace(kanji)
	if kanji == "" {
		return errors.New("no word given")
	}

	gen, err := p.generator(ctx)
	if err != nil {
		return err
	}

	importer := batch.NewImporter(p.store, gen, p.flags.Tag, 0)
	results, err := importer.Import(ctx, []batch.WordEntry{{Kanji: kanji}})
	if err != nil {
		return err
	}

	r := results[0]
	switch r.Status {
	case batch.Added:
		fmt.Fprintf(p.out, "Added %s (tag: %s)\n", r.Word.Summary(), r.Word.Tag)
		fmt.Fprintf(p.out, "  %s\n  %s\n", r.Word.JapaneseSentence, r.Word.EnglishSentence)
	case batch.Skipped:
		fmt.Fprintf(p.out, "Already stored: %s\n", r.Word.Summary())
	default:
		return fmt.Errorf("failed to add %s: %w", kanji, r.Err)
	}
	return nil
}

// ProcessBatch imports every word of the --batch file
func (p *Processor) ProcessBatch(ctx context.Context) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(p.out, "No words found in %s\n", p.flags.BatchFile)
		return nil
	}

	gen, err := p.generator(ctx)
	if err != nil {
		return err
	}

	importer := batch.NewImporter(p.store, gen, p.flags.Tag, p.flags.BatchRate)
	importer.OnResult = func(i, total int, r batch.Result) {
		switch r.Status {
		case batch.Added:
			fmt.Fprintf(p.out, "%d/%d  ✓ %s\n", i, total, r.Word.Summary())
		case batch.Skipped:
			fmt.Fprintf(p.out, "%d/%d  - %s already stored\n", i, total, r.Entry.Kanji)
		case batch.Failed:
			fmt.Fprintf(p.out, "%d/%d  ✗ %s: %v\n", i, total, r.Entry.Kanji, r.Err)
		}
	}

	results, err := importer.Import(ctx, entries)
	added, skipped, failed := batch.Summary(results)

	fmt.Fprintf(p.out, "\n=== Batch Import Summary ===\n")
	fmt.Fprintf(p.out, "Total words: %d\n", len(entries))
	fmt.Fprintf(p.out, "Added: %d\n", added)
	fmt.Fprintf(p.out, "Skipped (already stored): %d\n", skipped)
	if failed > 0 {
		fmt.Fprintf(p.out, "Failed: %d\n", failed)
	}
	return err
}

// GenerateAnkiFile exports the words of the --tag tag, or all words, and
// returns the path of the written file
func (p *Processor) GenerateAnkiFile(ctx context.Context) (string, error) {
	words, err := p.store.ListWords(ctx, p.flags.Tag)
	if err != nil {
		return "", err
	}
	if len(words) == 0 {
		return "", errors.New("no words to export")
	}

	csvPath := filepath.Join(p.outputDir, "anki_import.csv")
	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     csvPath,
		IncludeHeaders: true,
	})
	gen.AddWords(words)

	if p.flags.AnkiAudio {
		p.addAudio(ctx, gen.GetCards())
	}

	var outputPath string
	if p.flags.AnkiCSV {
		outputPath = csvPath
		if err := gen.GenerateCSV(); err != nil {
			return "", fmt.Errorf("failed to generate CSV: %w", err)
		}
	} else {
		name := internal.SanitizeFilename(p.flags.DeckName)
		if name == "" {
			name = "vocabtester"
		}
		outputPath = filepath.Join(p.outputDir, name+".apkg")
		if err := gen.GenerateAPKG(outputPath, p.flags.DeckName); err != nil {
			return "", fmt.Errorf("failed to generate APKG: %w", err)
		}
	}

	total, withAudio := gen.Stats()
	fmt.Fprintf(p.out, "Exported %d cards (%d with audio)\n", total, withAudio)
	return outputPath, nil
}

// addAudio synthesizes the sentence of every card, a few at a time. A card
// whose speech fails is exported without audio.
func (p *Processor) addAudio(ctx context.Context, cards []anki.Card) {
	speaker, err := p.audioSpeaker()
	if err != nil {
		fmt.Fprintf(p.out, "Warning: exporting without audio: %v\n", err)
		return
	}

	// Cards sharing a sentence share one file, so each sentence is
	// synthesized once.
	files := make(map[string]string)
	var sentences []string
	for _, card := range cards {
		if _, ok := files[card.Sentence]; !ok {
			files[card.Sentence] = ""
			sentences = append(sentences, card.Sentence)
		}
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(audioWorkers)
	for _, sentence := range sentences {
		g.Go(func() error {
			file, err := speaker.Synthesize(ctx, sentence)
			if err != nil {
				slog.Warn("failed to synthesize sentence", "sentence", sentence, "error", err)
				return nil
			}
			mu.Lock()
			files[sentence] = file
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for i := range cards {
		cards[i].AudioFile = files[cards[i].Sentence]
	}
}

// ListTags prints the tags, most recently used first
func (p *Processor) ListTags(ctx context.Context) error {
	tags, err := p.store.ListTags(ctx)
	if err != nil {
		return err
	}
	for _, tag := range tags {
		fmt.Fprintln(p.out, tag)
	}
	return nil
}

// PrintStats prints word and result counts
func (p *Processor) PrintStats(ctx context.Context) error {
	st, err := p.store.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Database: %s\n", p.store.Path())
	fmt.Fprintf(p.out, "Words: %d\n", st.Words)
	fmt.Fprintf(p.out, "Tags: %d\n", st.Tags)
	fmt.Fprintf(p.out, "Tested: %d\n", st.Tested)
	fmt.Fprintf(p.out, "Last answered incorrectly: %d\n", st.Incorrect)
	return nil
}

func (p *Processor) newSession() *quiz.Session {
	return quiz.NewSession(p.store, quiz.WithLogger(slog.Default()), quiz.WithTag(p.flags.Tag))
}

// RunTextMode runs the quiz on in and the processor's output
func (p *Processor) RunTextMode(ctx context.Context, in io.Reader) error {
	var speaker console.Speaker
	if sp, err := p.audioSpeaker(); err == nil {
		speaker = sp
	} else {
		slog.Debug("running without speech", "error", err)
	}

	q := console.New(p.newSession(), p.store, speaker, in, p.out)
	return q.Run(ctx)
}

// RunGUIMode opens the quiz window and blocks until it is closed
func (p *Processor) RunGUIMode(ctx context.Context) error {
	config := &gui.Config{
		Store:     p.store,
		Session:   p.newSession(),
		Clipboard: platform.NewClipboard(),
		IME:       platform.NewIME(),
	}

	if gen, err := p.generator(ctx); err == nil {
		config.Generator = gen
	} else {
		slog.Warn("AI generation disabled", "error", err)
	}
	if sp, err := p.audioSpeaker(); err == nil {
		config.Speaker = sp
	} else {
		slog.Warn("speech disabled", "error", err)
	}
	if sg, err := reading.NewSuggester(); err == nil {
		config.Suggester = sg
	} else {
		slog.Warn("reading suggestions disabled", "error", err)
	}

	app, err := gui.New(config)
	if err != nil {
		return err
	}
	app.Run()
	return nil
}
