package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// AnswerEntry is the quiz input. Escape and focus changes are reported so
// the application can unfocus the field and switch the IME.
type AnswerEntry struct {
	widget.Entry
	onEscape func()
	onFocus  func()
}

// NewAnswerEntry creates a single-line answer entry
func NewAnswerEntry() *AnswerEntry {
	entry := &AnswerEntry{}
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *AnswerEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// FocusGained implements fyne.Focusable
func (e *AnswerEntry) FocusGained() {
	e.Entry.FocusGained()
	if e.onFocus != nil {
		e.onFocus()
	}
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *AnswerEntry) SetOnEscape(f func()) {
	e.onEscape = f
}

// SetOnFocus sets the callback for when the entry gains focus
func (e *AnswerEntry) SetOnFocus(f func()) {
	e.onFocus = f
}

// SentenceEntry is a multi-line entry for example sentences that gives up
// focus on Escape.
type SentenceEntry struct {
	widget.Entry
	onEscape func()
}

// NewSentenceEntry creates a new multi-line sentence entry
func NewSentenceEntry() *SentenceEntry {
	entry := &SentenceEntry{}
	entry.MultiLine = true
	entry.Wrapping = fyne.TextWrapWord
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *SentenceEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *SentenceEntry) SetOnEscape(f func()) {
	e.onEscape = f
}
