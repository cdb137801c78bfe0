package audio

import (
	"context"
	"errors"
	"os"
	"testing"
)

type writingProvider struct {
	mockProvider
}

func (w *writingProvider) GenerateAudio(ctx context.Context, text, outputFile string) error {
	if err := w.mockProvider.GenerateAudio(ctx, text, outputFile); err != nil {
		return err
	}
	return os.WriteFile(outputFile, []byte("audio"), 0644)
}

type recordingPlayer struct {
	files []string
	err   error
}

func (r *recordingPlayer) Play(ctx context.Context, file string) error {
	r.files = append(r.files, file)
	return r.err
}

func TestSpeakerSpeak(t *testing.T) {
	provider := &writingProvider{mockProvider{name: "mock"}}
	player := &recordingPlayer{}
	s := &Speaker{provider: provider, player: player, dir: t.TempDir()}

	ctx := context.Background()
	if err := s.Speak(ctx, "学校"); err != nil {
		t.Fatalf("Speak() error: %v", err)
	}
	if err := s.Speak(ctx, "学校"); err != nil {
		t.Fatalf("Speak() error: %v", err)
	}

	if provider.generateCalls != 1 {
		t.Errorf("expected one synthesis, got %d", provider.generateCalls)
	}
	if len(player.files) != 2 || player.files[0] != s.File("学校") {
		t.Errorf("unexpected playback %v", player.files)
	}
}

func TestSpeakerSynthesizeFailure(t *testing.T) {
	provider := &writingProvider{mockProvider{name: "mock", generateErr: errors.New("boom")}}
	player := &recordingPlayer{}
	s := &Speaker{provider: provider, player: player, dir: t.TempDir()}

	if err := s.Speak(context.Background(), "学校"); err == nil {
		t.Fatal("expected error")
	}
	if len(player.files) != 0 {
		t.Errorf("nothing should play, got %v", player.files)
	}
	if _, err := os.Stat(s.File("学校")); !os.IsNotExist(err) {
		t.Errorf("partial file left behind: %v", err)
	}
}

func TestSpeakerRejectsEnglish(t *testing.T) {
	provider := &writingProvider{mockProvider{name: "mock"}}
	s := &Speaker{provider: provider, player: &recordingPlayer{}, dir: t.TempDir()}

	if _, err := s.Synthesize(context.Background(), "school"); err == nil {
		t.Fatal("expected validation error")
	}
	if provider.generateCalls != 0 {
		t.Errorf("provider should not be called")
	}
}

func TestSpeakerFileDependsOnProvider(t *testing.T) {
	a := NewSpeaker(&mockProvider{name: "a"}, nil, "/x")
	b := NewSpeaker(&mockProvider{name: "b"}, nil, "/x")
	if a.File("学校") == b.File("学校") {
		t.Error("files for different providers should differ")
	}
	if a.File("学校") == a.File("学生") {
		t.Error("files for different text should differ")
	}
}
