package reading

import (
	"errors"
	"testing"
)

func TestToHiragana(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ガッコウ", "がっこう"},
		{"コーヒー", "こーひー"},
		{"ねこ", "ねこ"},
		{"ヴ", "ゔ"},
		{"abc", "abc"},
	}

	for _, tt := range tests {
		if got := ToHiragana(tt.input); got != tt.expected {
			t.Errorf("ToHiragana(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestIsKana(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"がっこう", true},
		{"コーヒー", true},
		{"学校", false},
		{"gakkou", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsKana(tt.input); got != tt.expected {
			t.Errorf("IsKana(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestSuggest(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping dictionary load in short mode")
	}

	s, err := NewSuggester()
	if err != nil {
		t.Fatalf("NewSuggester() error = %v", err)
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"学校", "がっこう"},
		{"猫", "ねこ"},
		{"勉強", "べんきょう"},
		{"ｶﾀｶﾅ", "かたかな"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := s.Suggest(tt.input)
			if err != nil {
				t.Fatalf("Suggest(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("Suggest(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}

	if _, err := s.Suggest("  "); !errors.Is(err, ErrUnknownReading) {
		t.Errorf("Suggest(blank) error = %v, want ErrUnknownReading", err)
	}
}
