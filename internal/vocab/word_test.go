package vocab

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	w := Word{
		KanjiWord:        " 学校 ",
		KanaWord:         "がっこう\n",
		EnglishWord:      "\tschool",
		JapaneseSentence: "私は毎日学校に行きます。 ",
		EnglishSentence:  " I go to school every day.",
		Tag:              "   ",
	}
	w.Normalize()

	if w.KanjiWord != "学校" || w.KanaWord != "がっこう" || w.EnglishWord != "school" {
		t.Errorf("fields not trimmed: %+v", w)
	}
	if w.Tag != DefaultTag {
		t.Errorf("Tag = %q, want %q", w.Tag, DefaultTag)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		word    Word
		missing []string
	}{
		{
			name: "complete",
			word: Word{KanjiWord: "猫", KanaWord: "ねこ", EnglishWord: "cat",
				JapaneseSentence: "猫がいます。", EnglishSentence: "There is a cat.", Tag: "animals"},
		},
		{
			name: "missing kana and tag",
			word: Word{KanjiWord: "猫", EnglishWord: "cat",
				JapaneseSentence: "猫がいます。", EnglishSentence: "There is a cat.", Tag: " "},
			missing: []string{"kana_word", "tag"},
		},
		{
			name:    "empty",
			word:    Word{},
			missing: []string{"kanji_word", "kana_word", "english_word", "japanese_sentence", "english_sentence", "tag"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.word.Validate()
			if tt.missing == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidWord) {
				t.Fatalf("Validate() = %v, want ErrInvalidWord", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error is %T, want *ValidationError", err)
			}
			if !reflect.DeepEqual(verr.Fields, tt.missing) {
				t.Errorf("Fields = %v, want %v", verr.Fields, tt.missing)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	w := Word{KanjiWord: "学校", KanaWord: "がっこう", EnglishWord: "school"}
	if got := w.Summary(); got != "学校 = がっこう / school" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestSamplesAreValid(t *testing.T) {
	samples := Samples()
	if len(samples) != 4 {
		t.Fatalf("len(Samples()) = %d, want 4", len(samples))
	}
	for _, w := range samples {
		if err := w.Validate(); err != nil {
			t.Errorf("sample %s invalid: %v", w.KanjiWord, err)
		}
	}
}
