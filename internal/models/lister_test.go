package models

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

func TestListAvailableModels_NoAPIKey(t *testing.T) {
	lister, err := NewLister(context.Background(), &bytes.Buffer{}, "", "")
	if err != nil {
		t.Fatal(err)
	}

	err = lister.ListAvailableModels(context.Background())
	if err == nil || !strings.Contains(err.Error(), "no API key found") {
		t.Errorf("Expected missing key error, got: %v", err)
	}
}

func TestListOpenAIModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[
			{"id":"tts-1","object":"model"},
			{"id":"gpt-4o-mini","object":"model"},
			{"id":"gpt-4o-mini-tts","object":"model"},
			{"id":"gpt-4o-realtime-preview","object":"model"},
			{"id":"dall-e-3","object":"model"},
			{"id":"gpt-4.1","object":"model"}]}`))
	}))
	defer srv.Close()

	cc := openai.DefaultConfig("test-key")
	cc.BaseURL = srv.URL + "/v1"

	var out bytes.Buffer
	lister, err := newLister(context.Background(), &out, openai.NewClientWithConfig(cc), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := lister.ListAvailableModels(context.Background()); err != nil {
		t.Fatalf("ListAvailableModels() error = %v", err)
	}

	want := `OpenAI Chat Models (word generation):
  gpt-4.1
  gpt-4o-mini

OpenAI Text-to-Speech Models:
  gpt-4o-mini-tts
  tts-1
`
	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out.String(), want)
	}
}

func TestListGeminiModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[
			{"name":"models/gemini-2.5-flash-lite","displayName":"Gemini 2.5 Flash-Lite"},
			{"name":"models/embedding-001","displayName":"Embedding"},
			{"name":"models/gemini-2.5-flash","displayName":"Gemini 2.5 Flash"}]}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	lister, err := newLister(context.Background(), &out, nil, &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL + "/"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := lister.ListAvailableModels(context.Background()); err != nil {
		t.Fatalf("ListAvailableModels() error = %v", err)
	}

	want := `Gemini Models (word generation):
  gemini-2.5-flash
  gemini-2.5-flash-lite
`
	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out.String(), want)
	}
}
