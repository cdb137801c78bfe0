package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/vocabtester/internal/vocab"
)

// WordForm edits the fields of one vocabulary entry.
type WordForm struct {
	id int64

	kanji           *widget.Entry
	kana            *widget.Entry
	english         *widget.Entry
	sentence        *SentenceEntry
	sentenceEnglish *SentenceEntry
	tag             *widget.SelectEntry

	generateButton *widget.Button
	suggestButton  *widget.Button
	statusLabel    *widget.Label

	content fyne.CanvasObject

	// OnGenerate is called with the kanji when Generate is pressed.
	OnGenerate func(kanji string)
	// OnSuggest is called with the kanji when Suggest reading is pressed.
	OnSuggest func(kanji string)
}

// NewWordForm creates an empty form offering tags in its tag selector.
func NewWordForm(tags []string) *WordForm {
	f := &WordForm{}

	f.kanji = widget.NewEntry()
	f.kanji.SetPlaceHolder("漢字")
	f.kana = widget.NewEntry()
	f.kana.SetPlaceHolder("かな")
	f.english = widget.NewEntry()
	f.english.SetPlaceHolder("English meaning")
	f.sentence = NewSentenceEntry()
	f.sentence.SetPlaceHolder("Japanese example sentence")
	f.sentenceEnglish = NewSentenceEntry()
	f.sentenceEnglish.SetPlaceHolder("English translation of the sentence")
	f.tag = widget.NewSelectEntry(tags)
	f.tag.SetPlaceHolder(vocab.DefaultTag)

	f.generateButton = widget.NewButtonWithIcon("Generate", theme.ComputerIcon(), func() {
		if f.OnGenerate != nil {
			f.OnGenerate(f.Kanji())
		}
	})
	f.suggestButton = widget.NewButtonWithIcon("Suggest reading", theme.SearchIcon(), func() {
		if f.OnSuggest != nil {
			f.OnSuggest(f.Kanji())
		}
	})

	f.statusLabel = widget.NewLabel("")
	f.statusLabel.TextStyle = fyne.TextStyle{Italic: true}

	form := widget.NewForm(
		widget.NewFormItem("Kanji", f.kanji),
		widget.NewFormItem("Kana", f.kana),
		widget.NewFormItem("English", f.english),
		widget.NewFormItem("Sentence", f.sentence),
		widget.NewFormItem("Sentence (English)", f.sentenceEnglish),
		widget.NewFormItem("Tag", f.tag),
	)

	f.content = container.NewBorder(
		nil,
		container.NewVBox(
			container.NewHBox(f.generateButton, f.suggestButton),
			f.statusLabel,
		),
		nil, nil,
		form,
	)
	return f
}

// Content returns the form layout for embedding in a dialog.
func (f *WordForm) Content() fyne.CanvasObject {
	return f.content
}

// Kanji returns the trimmed kanji field.
func (f *WordForm) Kanji() string {
	return strings.TrimSpace(f.kanji.Text)
}

// SetWord replaces every field, including the ID used on save.
func (f *WordForm) SetWord(w *vocab.Word) {
	f.id = w.ID
	f.kanji.SetText(w.KanjiWord)
	f.kana.SetText(w.KanaWord)
	f.english.SetText(w.EnglishWord)
	f.sentence.SetText(w.JapaneseSentence)
	f.sentenceEnglish.SetText(w.EnglishSentence)
	f.tag.SetText(w.Tag)
}

// Fill copies a generated entry into the form. The ID, kanji and a tag the
// user already chose are kept.
func (f *WordForm) Fill(w *vocab.Word) {
	f.kana.SetText(w.KanaWord)
	f.english.SetText(w.EnglishWord)
	f.sentence.SetText(w.JapaneseSentence)
	f.sentenceEnglish.SetText(w.EnglishSentence)
	if strings.TrimSpace(f.tag.Text) == "" && w.Tag != "" {
		f.tag.SetText(w.Tag)
	}
}

// SetReading sets the kana field.
func (f *WordForm) SetReading(kana string) {
	f.kana.SetText(kana)
}

// Word returns the entry described by the form, normalized.
func (f *WordForm) Word() *vocab.Word {
	w := &vocab.Word{
		ID:               f.id,
		KanjiWord:        f.kanji.Text,
		KanaWord:         f.kana.Text,
		EnglishWord:      f.english.Text,
		JapaneseSentence: f.sentence.Text,
		EnglishSentence:  f.sentenceEnglish.Text,
		Tag:              f.tag.Text,
	}
	w.Normalize()
	return w
}

// SetBusy disables the helper buttons while a generation runs.
func (f *WordForm) SetBusy(busy bool) {
	if busy {
		f.generateButton.Disable()
		f.suggestButton.Disable()
		return
	}
	f.generateButton.Enable()
	f.suggestButton.Enable()
}

// SetStatus shows a one-line message under the buttons.
func (f *WordForm) SetStatus(message string) {
	f.statusLabel.SetText(message)
}

// SetOnEscape unfocuses the sentence fields on Escape.
func (f *WordForm) SetOnEscape(fn func()) {
	f.sentence.SetOnEscape(fn)
	f.sentenceEnglish.SetOnEscape(fn)
}
