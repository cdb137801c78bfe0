package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"codeberg.org/snonux/vocabtester/internal/vocab"
	"codeberg.org/snonux/vocabtester/internal/wordgen"
)

// WordEntry is one line of a batch file.
type WordEntry struct {
	Kanji string
	// English overrides the generated meaning when set.
	English string
}

// ReadBatchFile reads words from a file. Supported line formats:
//   - kanji only: "勉強" (everything else is generated)
//   - with meaning: "勉強 = study" (the meaning is kept as given)
//
// Blank lines and lines starting with # are skipped.
func ReadBatchFile(filename string) ([]WordEntry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()
	return ParseBatch(f)
}

// ParseBatch parses batch lines from r.
func ParseBatch(r io.Reader) ([]WordEntry, error) {
	var entries []WordEntry
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		kanji, english, _ := strings.Cut(line, "=")
		kanji = strings.TrimSpace(kanji)
		if kanji == "" {
			// A meaning alone cannot name a word.
			continue
		}
		entries = append(entries, WordEntry{Kanji: kanji, English: strings.TrimSpace(english)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return entries, nil
}

// WordStore is the part of the store an import needs.
type WordStore interface {
	FindByKanji(ctx context.Context, kanji string) (*vocab.Word, error)
	AddWord(ctx context.Context, w *vocab.Word) error
}

// Status is the outcome for one entry.
type Status int

const (
	Added Status = iota
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case Added:
		return "added"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result reports what happened to one entry.
type Result struct {
	Entry WordEntry
	Word  *vocab.Word
	Status
	Err error
}

// Importer generates and stores batch entries. Requests to the generator
// are rate limited.
type Importer struct {
	store   WordStore
	gen     wordgen.Generator
	limiter *rate.Limiter
	tag     string

	// OnResult, when set, is called after each entry.
	OnResult func(i, total int, r Result)
}

// NewImporter imports with tag, generating at most perMinute words per
// minute. perMinute <= 0 disables the limit.
func NewImporter(store WordStore, gen wordgen.Generator, tag string, perMinute float64) *Importer {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Duration(float64(time.Minute) / perMinute))
	}
	return &Importer{
		store:   store,
		gen:     gen,
		limiter: rate.NewLimiter(limit, 1),
		tag:     tag,
	}
}

// Import processes entries in order. Entries whose kanji is already stored
// are skipped. Failing entries do not stop the import; only a cancelled
// context does.
func (im *Importer) Import(ctx context.Context, entries []WordEntry) ([]Result, error) {
	results := make([]Result, 0, len(entries))
	for i, e := range entries {
		r := im.importOne(ctx, e)
		results = append(results, r)
		if im.OnResult != nil {
			im.OnResult(i+1, len(entries), r)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return results, ctxErr
		}
	}
	return results, nil
}

func (im *Importer) importOne(ctx context.Context, e WordEntry) Result {
	r := Result{Entry: e}

	existing, err := im.store.FindByKanji(ctx, e.Kanji)
	switch {
	case err == nil:
		r.Status, r.Word = Skipped, existing
		return r
	case !errors.Is(err, vocab.ErrWordNotFound):
		r.Status, r.Err = Failed, err
		return r
	}

	if err := im.limiter.Wait(ctx); err != nil {
		r.Status, r.Err = Failed, err
		return r
	}

	w, err := im.gen.Generate(ctx, e.Kanji)
	if err != nil {
		slog.Warn("generation failed", "kanji", e.Kanji, "error", err)
		r.Status, r.Err = Failed, err
		return r
	}
	if e.English != "" {
		w.EnglishWord = e.English
	}
	w.Tag = im.tag

	if err := im.store.AddWord(ctx, w); err != nil {
		r.Status, r.Err = Failed, err
		return r
	}
	r.Status, r.Word = Added, w
	return r
}

// Summary counts results by status.
func Summary(results []Result) (added, skipped, failed int) {
	for _, r := range results {
		switch r.Status {
		case Added:
			added++
		case Skipped:
			skipped++
		default:
			failed++
		}
	}
	return added, skipped, failed
}
