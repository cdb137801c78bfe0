package wordgen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"google.golang.org/genai"

	"codeberg.org/snonux/vocabtester/internal/testutil"
	"codeberg.org/snonux/vocabtester/internal/vocab"
)

const schoolJSON = `{"kana_word":"がっこう","english_word":"school","japanese_sentence":"私は毎日学校に行きます。","english_sentence":"I go to school every day."}`

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"plain", schoolJSON, false},
		{"fenced", "```json\n" + schoolJSON + "\n```", false},
		{"missing field", `{"kana_word":"がっこう","english_word":"school"}`, true},
		{"not json", "がっこう", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := parseEntry("学校", tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrGenerationFailed) {
					t.Fatalf("parseEntry() error = %v, want ErrGenerationFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseEntry() error = %v", err)
			}
			if w.KanjiWord != "学校" || w.KanaWord != "がっこう" || w.EnglishWord != "school" {
				t.Errorf("unexpected word: %+v", w)
			}
			if w.Tag != "" {
				t.Errorf("Tag = %q, want empty", w.Tag)
			}
		})
	}
}

func TestPromptMentionsKanji(t *testing.T) {
	p := prompt("勉強")
	for _, want := range []string{"勉強", "kana_word", "english_sentence"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestOpenAIGenerator(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: schoolJSON},
			}},
		})
	}))
	defer srv.Close()

	cc := openai.DefaultConfig("test-key")
	cc.BaseURL = srv.URL + "/v1"
	g := newOpenAIGenerator("test-key", "", cc)

	w, err := g.Generate(context.Background(), "学校")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if w.EnglishSentence != "I go to school every day." {
		t.Errorf("EnglishSentence = %q", w.EnglishSentence)
	}
	if gotReq.Model != DefaultOpenAIModel {
		t.Errorf("model = %q, want %q", gotReq.Model, DefaultOpenAIModel)
	}
	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Errorf("expected JSON response format, got %+v", gotReq.ResponseFormat)
	}
}

func TestOpenAIGeneratorErrors(t *testing.T) {
	g := NewOpenAIGenerator("", "")
	if _, err := g.Generate(context.Background(), "学校"); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Generate() without key error = %v, want ErrNoAPIKey", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	cc := openai.DefaultConfig("test-key")
	cc.BaseURL = srv.URL + "/v1"
	g = newOpenAIGenerator("test-key", "gpt-4o", cc)
	if _, err := g.Generate(context.Background(), "学校"); !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("Generate() error = %v, want ErrGenerationFailed", err)
	}
}

func TestGeminiGenerator(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": schoolJSON}},
				},
			}},
		})
	}))
	defer srv.Close()

	ctx := context.Background()
	g, err := newGeminiGenerator(ctx, &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL + "/"},
	}, "")
	if err != nil {
		t.Fatalf("newGeminiGenerator() error = %v", err)
	}

	w, err := g.Generate(ctx, "学校")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if w.KanaWord != "がっこう" {
		t.Errorf("KanaWord = %q", w.KanaWord)
	}
	if !strings.Contains(gotPath, DefaultGeminiModel) {
		t.Errorf("request path %q does not name model %s", gotPath, DefaultGeminiModel)
	}
}

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGeminiGenerator(context.Background(), "", ""); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("NewGeminiGenerator() error = %v, want ErrNoAPIKey", err)
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	failing := &testutil.MockGenerator{Errors: map[string]error{"学校": errors.New("quota exceeded")}}
	b := newBreakerGenerator(failing, gobreaker.Settings{Name: "mock", Timeout: time.Hour})

	for i := 0; i < 3; i++ {
		if _, err := b.Generate(context.Background(), "学校"); err == nil {
			t.Fatal("expected error")
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	_, err := b.Generate(context.Background(), "学校")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if len(failing.Calls) != 3 {
		t.Errorf("backend called %d times, want 3", len(failing.Calls))
	}
}

func TestBreakerPassesResults(t *testing.T) {
	ok := &testutil.MockGenerator{Entries: map[string]vocab.Word{"猫": {KanaWord: "ねこ"}}}
	b := NewBreakerGenerator(ok)
	w, err := b.Generate(context.Background(), "猫")
	if err != nil || w.KanaWord != "ねこ" {
		t.Fatalf("Generate() = %+v, %v", w, err)
	}
	if b.Name() != "mock" {
		t.Errorf("Name() = %q", b.Name())
	}
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("cancelled request reached the server")
	}))
	defer srv.Close()

	cc := openai.DefaultConfig("test-key")
	cc.BaseURL = srv.URL + "/v1"
	b := NewBreakerGenerator(newOpenAIGenerator("test-key", "", cc))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		_, err := b.Generate(ctx, "学校")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Generate() error = %v, want context.Canceled", err)
		}
		if !errors.Is(err, ErrGenerationFailed) {
			t.Errorf("Generate() error = %v, want ErrGenerationFailed", err)
		}
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestBreakerIgnoresCancellationWithoutErrorChain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The backend flattens the context error into its message.
	flattened := &testutil.MockGenerator{Errors: map[string]error{"学校": errors.New("request aborted: context canceled")}}
	b := newBreakerGenerator(flattened, gobreaker.Settings{Name: "mock", Timeout: time.Hour})

	for i := 0; i < 3; i++ {
		if _, err := b.Generate(ctx, "学校"); !errors.Is(err, context.Canceled) {
			t.Fatalf("Generate() error = %v, want context.Canceled", err)
		}
	}
	if b.State() != gobreaker.StateClosed {
		t.Fatalf("state = %v, want closed", b.State())
	}

	// Real failures still trip it.
	for i := 0; i < 3; i++ {
		b.Generate(context.Background(), "学校")
	}
	if b.State() != gobreaker.StateOpen {
		t.Errorf("state = %v, want open", b.State())
	}
}

func TestFallbackGenerator(t *testing.T) {
	primary := &testutil.MockGenerator{Errors: map[string]error{"猫": errors.New("down")}}
	secondary := &testutil.MockGenerator{Entries: map[string]vocab.Word{"猫": {KanaWord: "ねこ"}}}
	f := NewFallbackGenerator(primary, secondary)

	w, err := f.Generate(context.Background(), "猫")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if w.KanaWord != "ねこ" {
		t.Errorf("KanaWord = %q", w.KanaWord)
	}
	if len(primary.Calls) != 1 || len(secondary.Calls) != 1 {
		t.Errorf("calls primary=%v secondary=%v", primary.Calls, secondary.Calls)
	}

	both := NewFallbackGenerator(primary, &testutil.MockGenerator{})
	if _, err := both.Generate(context.Background(), "猫"); err == nil {
		t.Error("expected error when both fail")
	}
}

func TestCachingGenerator(t *testing.T) {
	inner := &testutil.MockGenerator{Entries: map[string]vocab.Word{"猫": {KanaWord: "ねこ"}}}
	c := NewCachingGenerator(inner)

	for i := 0; i < 3; i++ {
		w, err := c.Generate(context.Background(), " 猫 ")
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		w.KanaWord = "mutated"
	}
	if len(inner.Calls) != 1 {
		t.Errorf("backend called %d times, want 1", len(inner.Calls))
	}

	w, _ := c.Generate(context.Background(), "猫")
	if w.KanaWord != "ねこ" {
		t.Errorf("cached entry was mutated: %q", w.KanaWord)
	}

	c.Forget("猫")
	c.Generate(context.Background(), "猫")
	if len(inner.Calls) != 2 {
		t.Errorf("backend called %d times after Forget, want 2", len(inner.Calls))
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	if _, err := New(ctx, &Config{Provider: "gemini"}); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("New() without keys error = %v, want ErrNoAPIKey", err)
	}
	if _, err := New(ctx, &Config{Provider: "bogus", OpenAIKey: "k"}); err == nil {
		t.Error("New() with unknown provider should fail")
	}

	g, err := New(ctx, &Config{Provider: "openai", OpenAIKey: "k"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if g.Name() != "openai" {
		t.Errorf("Name() = %q, want openai", g.Name())
	}

	g, err = New(ctx, &Config{Provider: "openai", OpenAIKey: "k", GeminiKey: "g"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if g.Name() != "openai (fallback: gemini)" {
		t.Errorf("Name() = %q", g.Name())
	}
}
