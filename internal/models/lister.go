package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// Lister prints available models grouped by what vocabtester uses them for.
type Lister struct {
	out    io.Writer
	openai *openai.Client
	gemini *genai.Client
}

// NewLister creates a lister for whichever keys are set.
func NewLister(ctx context.Context, out io.Writer, openAIKey, geminiKey string) (*Lister, error) {
	var oc *openai.Client
	if openAIKey != "" {
		oc = openai.NewClient(openAIKey)
	}
	var gc *genai.ClientConfig
	if geminiKey != "" {
		gc = &genai.ClientConfig{APIKey: geminiKey, Backend: genai.BackendGeminiAPI}
	}
	return newLister(ctx, out, oc, gc)
}

func newLister(ctx context.Context, out io.Writer, oc *openai.Client, gc *genai.ClientConfig) (*Lister, error) {
	l := &Lister{out: out, openai: oc}
	if gc != nil {
		client, err := genai.NewClient(ctx, gc)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		l.gemini = client
	}
	return l, nil
}

// ListAvailableModels prints the models of every configured provider.
func (l *Lister) ListAvailableModels(ctx context.Context) error {
	if l.openai == nil && l.gemini == nil {
		return fmt.Errorf("no API key found. Set GEMINI_API_KEY or OPENAI_API_KEY, or configure them in .vocabtester.yaml")
	}

	if l.gemini != nil {
		if err := l.listGemini(ctx); err != nil {
			return err
		}
	}
	if l.openai != nil {
		if err := l.listOpenAI(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lister) listGemini(ctx context.Context) error {
	var names []string
	for m, err := range l.gemini.Models.All(ctx) {
		if err != nil {
			return fmt.Errorf("failed to list Gemini models: %w", err)
		}
		name := strings.TrimPrefix(m.Name, "models/")
		if strings.HasPrefix(name, "gemini") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	fmt.Fprintln(l.out, "Gemini Models (word generation):")
	printList(l.out, names, "No Gemini models found")
	return nil
}

func (l *Lister) listOpenAI(ctx context.Context) error {
	models, err := l.openai.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	var ttsModels, chatModels []string
	for _, model := range models.Models {
		id := model.ID
		switch {
		case strings.Contains(id, "tts"):
			ttsModels = append(ttsModels, id)
		case strings.HasPrefix(id, "gpt-") && !strings.Contains(id, "audio") &&
			!strings.Contains(id, "realtime") && !strings.Contains(id, "transcribe"):
			chatModels = append(chatModels, id)
		}
	}
	sort.Strings(ttsModels)
	sort.Strings(chatModels)

	fmt.Fprintln(l.out, "OpenAI Chat Models (word generation):")
	printList(l.out, chatModels, "No chat models found")
	fmt.Fprintln(l.out, "\nOpenAI Text-to-Speech Models:")
	printList(l.out, ttsModels, "No TTS models found")
	return nil
}

func printList(out io.Writer, items []string, empty string) {
	if len(items) == 0 {
		fmt.Fprintf(out, "  %s\n", empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(out, "  %s\n", item)
	}
}
