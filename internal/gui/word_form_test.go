package gui

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"codeberg.org/snonux/vocabtester/internal/vocab"
)

func TestWordFormRoundTrip(t *testing.T) {
	test.NewTempApp(t)

	f := NewWordForm([]string{"jlpt5"})
	f.SetWord(&vocab.Word{
		ID:               7,
		KanjiWord:        " 学校 ",
		KanaWord:         "がっこう",
		EnglishWord:      "school",
		JapaneseSentence: "私は毎日学校に行きます。",
		EnglishSentence:  "I go to school every day.",
		Tag:              "jlpt5",
	})

	w := f.Word()
	if w.ID != 7 {
		t.Errorf("ID = %d, want 7", w.ID)
	}
	if w.KanjiWord != "学校" {
		t.Errorf("KanjiWord = %q, want trimmed 学校", w.KanjiWord)
	}
	if f.Kanji() != "学校" {
		t.Errorf("Kanji() = %q, want 学校", f.Kanji())
	}
	if err := w.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestWordFormDefaultTag(t *testing.T) {
	test.NewTempApp(t)

	f := NewWordForm(nil)
	if got := f.Word().Tag; got != vocab.DefaultTag {
		t.Errorf("Tag = %q, want %q", got, vocab.DefaultTag)
	}
}

func TestWordFormFillKeepsKanjiAndTag(t *testing.T) {
	test.NewTempApp(t)

	f := NewWordForm([]string{"animals"})
	f.SetWord(&vocab.Word{ID: 3, KanjiWord: "猫", Tag: "animals"})
	f.Fill(&vocab.Word{
		KanjiWord:        "ねこ",
		KanaWord:         "ねこ",
		EnglishWord:      "cat",
		JapaneseSentence: "猫がいます。",
		EnglishSentence:  "There is a cat.",
		Tag:              "generated",
	})

	w := f.Word()
	if w.ID != 3 || w.KanjiWord != "猫" {
		t.Errorf("ID/Kanji = %d/%q, want 3/猫", w.ID, w.KanjiWord)
	}
	if w.Tag != "animals" {
		t.Errorf("Tag = %q, want animals", w.Tag)
	}
	if w.EnglishWord != "cat" || w.KanaWord != "ねこ" {
		t.Errorf("generated fields not copied: %+v", w)
	}
}

func TestWordFormFillSetsEmptyTag(t *testing.T) {
	test.NewTempApp(t)

	f := NewWordForm(nil)
	f.Fill(&vocab.Word{KanaWord: "いぬ", Tag: "animals"})
	if got := f.Word().Tag; got != "animals" {
		t.Errorf("Tag = %q, want animals", got)
	}
}

func TestWordFormGenerateCallback(t *testing.T) {
	test.NewTempApp(t)

	f := NewWordForm(nil)
	f.kanji.SetText("勉強")

	var got string
	f.OnGenerate = func(kanji string) { got = kanji }
	test.Tap(f.generateButton)

	if got != "勉強" {
		t.Errorf("OnGenerate got %q, want 勉強", got)
	}
}
