package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/vocabtester/internal/vocab"
)

// SentenceDisplay shows the example sentence with the quizzed word
// highlighted.
type SentenceDisplay struct {
	widget.BaseWidget

	container *fyne.Container
	sentence  *widget.RichText
}

// NewSentenceDisplay creates a new sentence display widget
func NewSentenceDisplay() *SentenceDisplay {
	d := &SentenceDisplay{}

	d.sentence = widget.NewRichText()
	d.sentence.Wrapping = fyne.TextWrapWord

	d.container = container.NewPadded(d.sentence)

	d.ExtendBaseWidget(d)
	d.Clear()
	return d
}

// CreateRenderer implements fyne.Widget
func (d *SentenceDisplay) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(d.container)
}

// SetWord displays the sentence of w
func (d *SentenceDisplay) SetWord(w *vocab.Word) {
	if w == nil {
		d.Clear()
		return
	}
	d.sentence.Segments = sentenceSegments(w)
	d.sentence.Refresh()
}

// Clear clears the display
func (d *SentenceDisplay) Clear() {
	d.sentence.Segments = []widget.RichTextSegment{
		&widget.TextSegment{Text: "No word", Style: plainStyle()},
	}
	d.sentence.Refresh()
}

func plainStyle() widget.RichTextStyle {
	return widget.RichTextStyle{
		Inline:   true,
		SizeName: theme.SizeNameSubHeadingText,
	}
}

func highlightStyle() widget.RichTextStyle {
	return widget.RichTextStyle{
		Inline:    true,
		ColorName: theme.ColorNamePrimary,
		SizeName:  theme.SizeNameSubHeadingText,
		TextStyle: fyne.TextStyle{Bold: true},
	}
}

// sentenceSegments splits the sentence around the first occurrence of the
// kanji word. A sentence without the word is shown plain.
func sentenceSegments(w *vocab.Word) []widget.RichTextSegment {
	before, after, found := strings.Cut(w.JapaneseSentence, w.KanjiWord)
	if !found {
		return []widget.RichTextSegment{
			&widget.TextSegment{Text: w.JapaneseSentence, Style: plainStyle()},
		}
	}

	var segments []widget.RichTextSegment
	if before != "" {
		segments = append(segments, &widget.TextSegment{Text: before, Style: plainStyle()})
	}
	segments = append(segments, &widget.TextSegment{Text: w.KanjiWord, Style: highlightStyle()})
	if after != "" {
		segments = append(segments, &widget.TextSegment{Text: after, Style: plainStyle()})
	}
	return segments
}
