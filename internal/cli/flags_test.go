package cli

import (
	"reflect"
	"testing"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"LogLevel", flags.LogLevel, "info"},
		{"DeckName", flags.DeckName, "Japanese Vocabulary"},
		{"AIProvider", flags.AIProvider, "gemini"},
		{"GeminiModel", flags.GeminiModel, "gemini-2.5-flash-lite"},
		{"OpenAIModel", flags.OpenAIModel, "gpt-4o-mini"},
		{"BatchRate", flags.BatchRate, 20.0},
		{"AudioProvider", flags.AudioProvider, "openai"},
		{"OpenAIVoice", flags.OpenAIVoice, "nova"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	boolTests := []struct {
		name  string
		value bool
	}{
		{"TextMode", flags.TextMode},
		{"ListTags", flags.ListTags},
		{"Archive", flags.Archive},
		{"ListModels", flags.ListModels},
		{"Stats", flags.Stats},
		{"GenerateAnki", flags.GenerateAnki},
		{"AnkiCSV", flags.AnkiCSV},
		{"AnkiAudio", flags.AnkiAudio},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	stringTests := []struct {
		name  string
		value string
	}{
		{"CfgFile", flags.CfgFile},
		{"DBPath", flags.DBPath},
		{"Tag", flags.Tag},
		{"AddWord", flags.AddWord},
		{"BatchFile", flags.BatchFile},
	}

	for _, tt := range stringTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Errorf("%s = %v, want empty string", tt.name, tt.value)
			}
		})
	}
}
