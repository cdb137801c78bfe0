package gui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// Speaker reads Japanese text aloud.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// AudioPlayer is a custom widget that speaks the current sentence
type AudioPlayer struct {
	widget.BaseWidget

	container   *fyne.Container
	playButton  *ttwidget.Button
	stopButton  *ttwidget.Button
	statusLabel *widget.Label

	speaker Speaker
	text    string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewAudioPlayer creates a new audio player widget. speaker may be nil, in
// which case the controls stay disabled.
func NewAudioPlayer(speaker Speaker) *AudioPlayer {
	p := &AudioPlayer{speaker: speaker}

	p.playButton = ttwidget.NewButton("", p.onPlay)
	p.playButton.Icon = theme.MediaPlayIcon()

	p.stopButton = ttwidget.NewButton("", p.onStop)
	p.stopButton.Icon = theme.MediaStopIcon()

	p.statusLabel = widget.NewLabel("")
	if speaker == nil {
		p.statusLabel.SetText("Speech not configured")
	}

	p.playButton.Disable()
	p.stopButton.Disable()

	p.container = container.NewHBox(
		p.playButton,
		p.stopButton,
		layout.NewSpacer(),
		p.statusLabel,
	)

	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *AudioPlayer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.container)
}

// SetToolTips sets the button tooltips; call after the tooltip layer exists
func (p *AudioPlayer) SetToolTips() {
	p.playButton.SetToolTip("Play sentence (p)")
	p.stopButton.SetToolTip("Stop audio")
}

// SetText sets the sentence to speak
func (p *AudioPlayer) SetText(text string) {
	p.onStop()
	p.text = text

	switch {
	case p.speaker == nil:
		p.statusLabel.SetText("Speech not configured")
	case text == "":
		p.playButton.Disable()
		p.statusLabel.SetText("")
	default:
		p.playButton.Enable()
		p.statusLabel.SetText("")
	}
}

// Play triggers audio playback
func (p *AudioPlayer) Play() {
	if !p.playButton.Disabled() {
		p.onPlay()
	}
}

func (p *AudioPlayer) onPlay() {
	if p.speaker == nil || p.text == "" {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.cancel = cancel
	p.mu.Unlock()

	p.playButton.Disable()
	p.stopButton.Enable()
	p.statusLabel.SetText("Playing...")

	text := p.text
	go func() {
		defer cancel()
		err := p.speaker.Speak(ctx, text)

		fyne.Do(func() {
			if text != p.text {
				return
			}
			p.playButton.Enable()
			p.stopButton.Disable()
			switch {
			case errors.Is(err, context.Canceled):
				p.statusLabel.SetText("Stopped")
			case err != nil:
				slog.Warn("speech failed", "error", err)
				p.statusLabel.SetText(fmt.Sprintf("Error: %v", err))
			default:
				p.statusLabel.SetText("")
			}
		})
	}()
}

func (p *AudioPlayer) onStop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()
	p.stopButton.Disable()
}
