package internal

import (
	"regexp"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"Japanese Vocabulary": "Japanese_Vocabulary",
		"日本語 N5":              "日本語_N5",
		"a/b\\c":              "a_b_c",
		"  jlpt-n4_set ":      "jlpt-n4_set",
	}
	for input, want := range tests {
		if got := SanitizeFilename(input); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestGenerateCardID(t *testing.T) {
	id := GenerateCardID("学校")
	if !regexp.MustCompile(`^\d+_[0-9a-f]{8}$`).MatchString(id) {
		t.Errorf("GenerateCardID() = %q, unexpected format", id)
	}
	if GenerateCardID("学校")[len(id)-8:] != id[len(id)-8:] {
		t.Error("hash part should be stable for the same word")
	}
}
