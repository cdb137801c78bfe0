package testutil

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"codeberg.org/snonux/vocabtester/internal/vocab"
)

// MockWordStore is an in-memory word store. "Random" selection returns IDs
// in insertion order so tests stay deterministic.
type MockWordStore struct {
	mu      sync.Mutex
	words   map[int64]*vocab.Word
	order   []int64
	results map[int64]mockResult
	seq     int64
	nextID  int64

	// Err, when set, is returned by every method.
	Err error
	// GetWordErr, when set, is returned by GetWord only.
	GetWordErr error
	// Recorded lists every RecordResult call as "id=correct".
	Recorded []string
	Calls    []string
}

type mockResult struct {
	correct bool
	seen    int64
}

// NewMockWordStore returns a store holding the given words. Words without
// an ID get sequential IDs starting at 1.
func NewMockWordStore(words ...vocab.Word) *MockWordStore {
	m := &MockWordStore{
		words:   make(map[int64]*vocab.Word),
		results: make(map[int64]mockResult),
	}
	for _, w := range words {
		w := w
		if err := m.AddWord(context.Background(), &w); err != nil {
			panic(err)
		}
	}
	return m
}

// AddWord stores a copy of w and assigns its ID.
func (m *MockWordStore) AddWord(ctx context.Context, w *vocab.Word) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "AddWord "+w.KanjiWord)
	if m.Err != nil {
		return m.Err
	}
	w.Normalize()
	if err := w.Validate(); err != nil {
		return err
	}
	if w.ID == 0 {
		m.nextID++
		w.ID = m.nextID
	} else if w.ID > m.nextID {
		m.nextID = w.ID
	}
	stored := *w
	m.words[w.ID] = &stored
	m.order = append(m.order, w.ID)
	return nil
}

// UpdateWord replaces an existing word.
func (m *MockWordStore) UpdateWord(ctx context.Context, w *vocab.Word) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, fmt.Sprintf("UpdateWord %d", w.ID))
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.words[w.ID]; !ok {
		return vocab.ErrWordNotFound
	}
	w.Normalize()
	if err := w.Validate(); err != nil {
		return err
	}
	stored := *w
	m.words[w.ID] = &stored
	return nil
}

// Delete removes a word as if it was deleted out of band.
func (m *MockWordStore) Delete(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.words, id)
	delete(m.results, id)
	m.order = slices.DeleteFunc(m.order, func(v int64) bool { return v == id })
}

// GetWord returns a copy of the word.
func (m *MockWordStore) GetWord(ctx context.Context, id int64) (*vocab.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, fmt.Sprintf("GetWord %d", id))
	if m.Err != nil {
		return nil, m.Err
	}
	if m.GetWordErr != nil {
		return nil, m.GetWordErr
	}
	w, ok := m.words[id]
	if !ok {
		return nil, vocab.ErrWordNotFound
	}
	c := *w
	return &c, nil
}

// FindByKanji returns the first word with the given kanji.
func (m *MockWordStore) FindByKanji(ctx context.Context, kanji string) (*vocab.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, id := range m.order {
		if w := m.words[id]; w.KanjiWord == strings.TrimSpace(kanji) {
			c := *w
			return &c, nil
		}
	}
	return nil, vocab.ErrWordNotFound
}

// IncorrectWordIDs returns missed words, longest unseen first.
func (m *MockWordStore) IncorrectWordIDs(ctx context.Context, limit int, tag string, exclude []int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, fmt.Sprintf("IncorrectWordIDs %d %q", limit, tag))
	if m.Err != nil {
		return nil, m.Err
	}

	var ids []int64
	for _, id := range m.order {
		r, ok := m.results[id]
		if ok && !r.correct && m.eligible(id, tag, exclude) {
			ids = append(ids, id)
		}
	}
	slices.SortStableFunc(ids, func(a, b int64) int {
		return int(m.results[a].seen - m.results[b].seen)
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// RandomWordIDs returns eligible words in insertion order.
func (m *MockWordStore) RandomWordIDs(ctx context.Context, limit int, tag string, exclude []int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, fmt.Sprintf("RandomWordIDs %d %q", limit, tag))
	if m.Err != nil {
		return nil, m.Err
	}

	var ids []int64
	for _, id := range m.order {
		if len(ids) == limit {
			break
		}
		if m.eligible(id, tag, exclude) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MockWordStore) eligible(id int64, tag string, exclude []int64) bool {
	if slices.Contains(exclude, id) {
		return false
	}
	return tag == "" || m.words[id].Tag == tag
}

// RecordResult stores the latest outcome for a word.
func (m *MockWordStore) RecordResult(ctx context.Context, wordID int64, correct bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.seq++
	m.results[wordID] = mockResult{correct: correct, seen: m.seq}
	m.Recorded = append(m.Recorded, fmt.Sprintf("%d=%t", wordID, correct))
	return nil
}

// LastCorrect reports the recorded outcome and whether one exists.
func (m *MockWordStore) LastCorrect(wordID int64) (correct, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[wordID]
	return r.correct, ok
}

// ListTags returns tags by most recently added word first.
func (m *MockWordStore) ListTags(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var tags []string
	for i := len(m.order) - 1; i >= 0; i-- {
		tag := m.words[m.order[i]].Tag
		if !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// MockGenerator fills entries from a fixed table.
type MockGenerator struct {
	Entries map[string]vocab.Word
	Errors  map[string]error
	Calls   []string
}

// Generate returns the canned entry for kanji.
func (m *MockGenerator) Generate(ctx context.Context, kanji string) (*vocab.Word, error) {
	m.Calls = append(m.Calls, kanji)
	if err, ok := m.Errors[kanji]; ok {
		return nil, err
	}
	if w, ok := m.Entries[kanji]; ok {
		w.KanjiWord = kanji
		return &w, nil
	}
	return nil, fmt.Errorf("no mock entry for %s", kanji)
}

// Name identifies the mock.
func (m *MockGenerator) Name() string {
	return "mock"
}

// MockRunner records external commands instead of running them.
type MockRunner struct {
	mu     sync.Mutex
	Calls  []string
	Stdin  []string
	Output map[string][]byte
	Errors map[string]error
}

// Run records name and args and returns the configured output for name.
func (m *MockRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	m.Stdin = append(m.Stdin, string(stdin))
	if err, ok := m.Errors[name]; ok {
		return m.Output[name], err
	}
	return m.Output[name], nil
}

// NumberedWords returns n valid words with distinct kanji, all tagged tag.
func NumberedWords(n int, tag string) []vocab.Word {
	words := make([]vocab.Word, n)
	for i := range words {
		words[i] = vocab.Word{
			KanjiWord:        fmt.Sprintf("語%d", i+1),
			KanaWord:         fmt.Sprintf("ご%d", i+1),
			EnglishWord:      fmt.Sprintf("word%d", i+1),
			JapaneseSentence: fmt.Sprintf("文%d。", i+1),
			EnglishSentence:  fmt.Sprintf("Sentence %d.", i+1),
			Tag:              tag,
		}
	}
	return words
}
