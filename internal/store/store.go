package store

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"codeberg.org/snonux/vocabtester/internal/vocab"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store is the sqlite backed word store.
type Store struct {
	db     *sql.DB
	path   string
	now    func() time.Time
	logger *slog.Logger
	seed   []vocab.Word
}

// Option configures a Store.
type Option func(*Store)

// WithSeed inserts words when the database is created from scratch.
func WithSeed(words []vocab.Word) Option {
	return func(s *Store) {
		s.seed = words
	}
}

// WithClock overrides the time source used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open opens or creates the database at path and brings its schema up to
// date.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(err, "failed to create database directory")
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}
	// One connection keeps writes serialized and makes :memory: usable.
	db.SetMaxOpenConns(1)

	s, err := newStore(ctx, db, path, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func newStore(ctx context.Context, db *sql.DB, path string, opts ...Option) (*Store, error) {
	s := &Store{
		db:     db,
		path:   path,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	fresh, err := s.isFresh(ctx)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		return nil, err
	}
	if fresh && len(s.seed) > 0 {
		for i := range s.seed {
			w := s.seed[i]
			if err := s.AddWord(ctx, &w); err != nil {
				return nil, errors.Wrap(err, "failed to seed database")
			}
		}
		s.logger.Info("seeded new database", "path", path, "words", len(s.seed))
	}
	return s, nil
}

func (s *Store) isFresh(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'words'`).Scan(&n)
	if err != nil {
		return false, errors.Wrap(err, "failed to inspect database")
	}
	return n == 0, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

const wordColumns = `id, kanji_word, kana_word, english_word, japanese_sentence, english_sentence, tag`

type scanner interface {
	Scan(dest ...any) error
}

func scanWord(row scanner) (*vocab.Word, error) {
	var w vocab.Word
	if err := row.Scan(&w.ID, &w.KanjiWord, &w.KanaWord, &w.EnglishWord,
		&w.JapaneseSentence, &w.EnglishSentence, &w.Tag); err != nil {
		return nil, err
	}
	return &w, nil
}

// AddWord validates w, inserts it and sets its ID.
func (s *Store) AddWord(ctx context.Context, w *vocab.Word) error {
	w.Normalize()
	if err := w.Validate(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO words (kanji_word, japanese_sentence, kana_word, english_word, english_sentence, tag)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		w.KanjiWord, w.JapaneseSentence, w.KanaWord, w.EnglishWord, w.EnglishSentence, w.Tag)
	if err != nil {
		return errors.Wrapf(err, "failed to insert word %s", w.KanjiWord)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed to read word id")
	}
	w.ID = id
	s.logger.Debug("added word", "word_id", id, "tag", w.Tag)
	return nil
}

// UpdateWord validates w and overwrites the stored entry with the same ID.
func (s *Store) UpdateWord(ctx context.Context, w *vocab.Word) error {
	if w.ID == 0 {
		return errors.New("cannot update word without id")
	}
	w.Normalize()
	if err := w.Validate(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE words SET kanji_word = ?, japanese_sentence = ?, kana_word = ?,
		 english_word = ?, english_sentence = ?, tag = ? WHERE id = ?`,
		w.KanjiWord, w.JapaneseSentence, w.KanaWord, w.EnglishWord, w.EnglishSentence, w.Tag, w.ID)
	if err != nil {
		return errors.Wrapf(err, "failed to update word %d", w.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return vocab.ErrWordNotFound
	}
	return nil
}

// GetWord loads a word by ID.
func (s *Store) GetWord(ctx context.Context, id int64) (*vocab.Word, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+wordColumns+` FROM words WHERE id = ?`, id)
	w, err := scanWord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, vocab.ErrWordNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load word %d", id)
	}
	return w, nil
}

// FindByKanji returns the oldest word with the given kanji.
func (s *Store) FindByKanji(ctx context.Context, kanji string) (*vocab.Word, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+wordColumns+` FROM words WHERE kanji_word = ? ORDER BY id LIMIT 1`, strings.TrimSpace(kanji))
	w, err := scanWord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, vocab.ErrWordNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to look up %s", kanji)
	}
	return w, nil
}

// ListWords returns all words, or those carrying tag, oldest first.
func (s *Store) ListWords(ctx context.Context, tag string) ([]*vocab.Word, error) {
	where, args := filter("words", tag, nil)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+wordColumns+` FROM words WHERE `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list words")
	}
	defer rows.Close()

	var words []*vocab.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan word")
		}
		words = append(words, w)
	}
	return words, errors.Wrap(rows.Err(), "failed to list words")
}

// filter builds the WHERE clause shared by the candidate queries.
func filter(table, tag string, exclude []int64) (string, []any) {
	where, args := []string{"1 = 1"}, []any{}
	if tag = strings.TrimSpace(tag); tag != "" {
		where, args = append(where, table+".tag = ?"), append(args, tag)
	}
	if ids := lo.Uniq(exclude); len(ids) > 0 {
		where = append(where, table+".id NOT IN ("+placeholders(len(ids))+")")
		args = append(args, lo.ToAnySlice(ids)...)
	}
	return strings.Join(where, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// IncorrectWordIDs returns up to limit words whose latest grading failed,
// least recently seen first.
func (s *Store) IncorrectWordIDs(ctx context.Context, limit int, tag string, exclude []int64) ([]int64, error) {
	if limit <= 0 {
		return nil, nil
	}
	where, args := filter("words", tag, exclude)
	ids, err := s.queryIDs(ctx,
		`SELECT words.id FROM words
		 JOIN last_tested ON last_tested.word_id = words.id
		 WHERE last_tested.last_correct = 0 AND `+where+`
		 ORDER BY last_tested.last_seen ASC, words.id ASC
		 LIMIT ?`, append(args, limit)...)
	return ids, errors.Wrap(err, "failed to select incorrect words")
}

// RandomWordIDs returns up to limit words in random order.
func (s *Store) RandomWordIDs(ctx context.Context, limit int, tag string, exclude []int64) ([]int64, error) {
	if limit <= 0 {
		return nil, nil
	}
	where, args := filter("words", tag, exclude)
	ids, err := s.queryIDs(ctx,
		`SELECT words.id FROM words WHERE `+where+` ORDER BY RANDOM() LIMIT ?`, append(args, limit)...)
	return ids, errors.Wrap(err, "failed to select random words")
}

// RecordResult stores the latest outcome for a word, replacing any earlier
// one.
func (s *Store) RecordResult(ctx context.Context, wordID int64, correct bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO last_tested (word_id, last_seen, last_correct) VALUES (?, ?, ?)
		 ON CONFLICT(word_id) DO UPDATE SET
		   last_seen = excluded.last_seen,
		   last_correct = excluded.last_correct`,
		wordID, s.now().Unix(), correct)
	return errors.Wrapf(err, "failed to record result for word %d", wordID)
}

// LastResult returns the latest outcome for a word, or nil if the word was
// never graded.
func (s *Store) LastResult(ctx context.Context, wordID int64) (*vocab.LastResult, error) {
	var (
		seen    int64
		correct bool
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT last_seen, last_correct FROM last_tested WHERE word_id = ?`, wordID).Scan(&seen, &correct)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load result for word %d", wordID)
	}
	return &vocab.LastResult{WordID: wordID, LastSeen: time.Unix(seen, 0), LastCorrect: correct}, nil
}

// ListTags returns the distinct tags, the tag of the most recently added
// word first.
func (s *Store) ListTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag FROM words GROUP BY tag ORDER BY MAX(id) DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tags")
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, errors.Wrap(err, "failed to scan tag")
		}
		tags = append(tags, tag)
	}
	return tags, errors.Wrap(rows.Err(), "failed to list tags")
}

// Stats summarizes the database.
type Stats struct {
	Words     int
	Tested    int
	Incorrect int
	Tags      int
}

// Stats counts words and graded results.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM words),
		   (SELECT COUNT(*) FROM last_tested),
		   (SELECT COUNT(*) FROM last_tested WHERE last_correct = 0),
		   (SELECT COUNT(DISTINCT tag) FROM words)`).Scan(&st.Words, &st.Tested, &st.Incorrect, &st.Tags)
	return st, errors.Wrap(err, "failed to compute stats")
}
