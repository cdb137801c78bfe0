package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"codeberg.org/snonux/vocabtester/internal/vocab"
)

// QueueTarget is the number of word IDs the refill tries to keep queued.
const QueueTarget = 10

// maxPendingCopies caps how many requeued copies of a missed word may wait
// in the queue.
const maxPendingCopies = 2

// requeuePositions are the queue indices a missed word is reinserted at, in
// order. Each index is clamped to the queue length at insertion time.
var requeuePositions = []int{2, 5}

var (
	// ErrNoWordsAvailable is returned when no word matches the active filter.
	ErrNoWordsAvailable = errors.New("no words available")
	// ErrWrongStep is returned when an answer is submitted out of order.
	ErrWrongStep = errors.New("answer submitted in wrong step")
)

// WordStore is the persistence the session needs.
type WordStore interface {
	GetWord(ctx context.Context, id int64) (*vocab.Word, error)
	IncorrectWordIDs(ctx context.Context, limit int, tag string, exclude []int64) ([]int64, error)
	RandomWordIDs(ctx context.Context, limit int, tag string, exclude []int64) ([]int64, error)
	RecordResult(ctx context.Context, wordID int64, correct bool) error
}

// Step is the position within the answer sequence for the current word.
type Step int

const (
	StepReading Step = iota
	StepMeaning
	StepResult
	// StepEmpty means the store had no eligible word; input is disabled.
	StepEmpty
)

func (s Step) String() string {
	switch s {
	case StepReading:
		return "reading"
	case StepMeaning:
		return "meaning"
	case StepResult:
		return "result"
	case StepEmpty:
		return "empty"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Score counts graded questions within a session.
type Score struct {
	Answered int
	Correct  int
}

// State is a snapshot of the session for presentation.
type State struct {
	Word    *vocab.Word
	Step    Step
	Reading string
	Meaning string
	Result  *Result
	Tag     string
	Queued  int
	Score   Score
}

// Session drives one quiz. It is not safe for concurrent use.
type Session struct {
	store  WordStore
	logger *slog.Logger
	id     string

	queue   []int64
	current *vocab.Word
	step    Step
	reading string
	meaning string
	result  *Result
	tag     string
	score   Score

	listeners []func(State)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for session events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithTag starts the session with a tag filter.
func WithTag(tag string) Option {
	return func(s *Session) {
		s.tag = strings.TrimSpace(tag)
	}
}

// NewSession creates a session. Call Advance to load the first question.
func NewSession(store WordStore, opts ...Option) *Session {
	s := &Session{
		store:  store,
		logger: slog.Default(),
		id:     uuid.NewString(),
		step:   StepReading,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.id)
	return s
}

// ID returns the session identifier used in log records.
func (s *Session) ID() string {
	return s.id
}

// OnChange registers fn to be called with a fresh snapshot after every
// transition.
func (s *Session) OnChange(fn func(State)) {
	s.listeners = append(s.listeners, fn)
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	st := State{
		Step:    s.step,
		Reading: s.reading,
		Meaning: s.meaning,
		Tag:     s.tag,
		Queued:  len(s.queue),
		Score:   s.score,
	}
	if s.current != nil {
		w := *s.current
		st.Word = &w
	}
	if s.result != nil {
		r := *s.result
		st.Result = &r
	}
	return st
}

// Queue returns a copy of the pending word IDs, head first.
func (s *Session) Queue() []int64 {
	return append([]int64(nil), s.queue...)
}

// Tag returns the active tag filter, empty when unfiltered.
func (s *Session) Tag() string {
	return s.tag
}

func (s *Session) notify() {
	if len(s.listeners) == 0 {
		return
	}
	st := s.State()
	for _, fn := range s.listeners {
		fn(st)
	}
}

// fillQueue tops the queue up to QueueTarget, missed words first.
func (s *Session) fillQueue(ctx context.Context) error {
	for len(s.queue) < QueueTarget {
		need := QueueTarget - len(s.queue)
		ids, err := s.store.IncorrectWordIDs(ctx, need, s.tag, s.queue)
		if err != nil {
			return fmt.Errorf("failed to fetch incorrect words: %w", err)
		}
		s.queue = append(s.queue, ids...)
		if len(s.queue) >= QueueTarget {
			break
		}

		need = QueueTarget - len(s.queue)
		ids, err = s.store.RandomWordIDs(ctx, need, s.tag, s.queue)
		if err != nil {
			return fmt.Errorf("failed to fetch random words: %w", err)
		}
		s.queue = append(s.queue, ids...)
		if len(ids) < need {
			break
		}
	}
	return nil
}

// Advance refills the queue and moves to the next word. IDs that no longer
// exist in the store are skipped. Any other load error leaves the queue
// and the current question untouched. ErrNoWordsAvailable is returned, and the
// session switches to StepEmpty, when nothing is left to ask.
func (s *Session) Advance(ctx context.Context) error {
	if err := s.fillQueue(ctx); err != nil {
		return err
	}

	for len(s.queue) > 0 {
		id := s.queue[0]
		s.queue = s.queue[1:]

		word, err := s.store.GetWord(ctx, id)
		if errors.Is(err, vocab.ErrWordNotFound) {
			s.logger.Debug("skipping missing word", "word_id", id)
			continue
		}
		if err != nil {
			// Keep the word for the next attempt; the current question stands.
			s.queue = append([]int64{id}, s.queue...)
			return fmt.Errorf("failed to load word %d: %w", id, err)
		}

		s.current = word
		s.step = StepReading
		s.reading = ""
		s.meaning = ""
		s.result = nil
		s.logger.Debug("next question", "word_id", id, "queued", len(s.queue))
		s.notify()
		return nil
	}

	s.current = nil
	s.step = StepEmpty
	s.reading = ""
	s.meaning = ""
	s.result = nil
	s.logger.Info("no words available", "tag", s.tag)
	s.notify()
	return ErrNoWordsAvailable
}

// SubmitReading records the kana answer and moves on to the meaning step.
func (s *Session) SubmitReading(text string) error {
	if s.step != StepReading || s.current == nil {
		return ErrWrongStep
	}
	s.reading = strings.TrimSpace(text)
	s.step = StepMeaning
	s.notify()
	return nil
}

// SubmitMeaning records the English answer, grades the question and stores
// the outcome. If the store rejects the outcome the session is left in the
// meaning step.
func (s *Session) SubmitMeaning(ctx context.Context, text string) (Result, error) {
	if s.step != StepMeaning || s.current == nil {
		return Result{}, ErrWrongStep
	}

	meaning := strings.TrimSpace(text)
	result := grade(s.current, s.reading, meaning)

	if err := s.store.RecordResult(ctx, s.current.ID, result.Correct()); err != nil {
		return Result{}, fmt.Errorf("failed to record result: %w", err)
	}

	s.meaning = meaning
	s.result = &result
	s.step = StepResult
	s.score.Answered++
	if result.Correct() {
		s.score.Correct++
	} else {
		s.requeue(s.current.ID)
	}

	s.logger.Info("graded", "word_id", s.current.ID,
		"reading_correct", result.ReadingCorrect, "meaning_correct", result.MeaningCorrect)
	s.notify()
	return result, nil
}

// requeue reinserts a missed word for near-term repetition unless enough
// copies are already waiting behind the head of the queue.
func (s *Session) requeue(id int64) {
	var rest []int64
	if len(s.queue) > 1 {
		rest = s.queue[1:]
	}
	if lo.Count(rest, id) >= maxPendingCopies {
		return
	}

	for _, pos := range requeuePositions {
		pos = min(pos, len(s.queue))
		s.queue = slices.Insert(s.queue, pos, id)
	}
}

// SetFilter switches the tag filter. Pending words, including requeued
// copies, are discarded and the next question is drawn under the new filter.
// An empty tag removes the filter.
func (s *Session) SetFilter(ctx context.Context, tag string) error {
	s.tag = strings.TrimSpace(tag)
	s.queue = nil
	s.current = nil
	s.step = StepReading
	s.reading = ""
	s.meaning = ""
	s.result = nil
	s.logger.Info("filter changed", "tag", s.tag)
	return s.Advance(ctx)
}

// Reload re-reads the current word after it was edited. On the result step
// the grading is recomputed against the edited word without recording it
// again. If the word vanished the session advances.
func (s *Session) Reload(ctx context.Context) error {
	if s.current == nil {
		return nil
	}

	word, err := s.store.GetWord(ctx, s.current.ID)
	if errors.Is(err, vocab.ErrWordNotFound) {
		return s.Advance(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to reload word %d: %w", s.current.ID, err)
	}

	s.current = word
	if s.step == StepResult {
		result := grade(word, s.reading, s.meaning)
		s.result = &result
	}
	s.notify()
	return nil
}
