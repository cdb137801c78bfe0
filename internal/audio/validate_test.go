package audio

import (
	"strings"
	"testing"
)

func TestValidateJapaneseText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "kanji word",
			text:    "学校",
			wantErr: false,
		},
		{
			name:    "sentence",
			text:    "私は毎日学校に行きます。",
			wantErr: false,
		},
		{
			name:    "katakana",
			text:    "コーヒー",
			wantErr: false,
		},
		{
			name:    "empty text",
			text:    "",
			wantErr: true,
			errMsg:  "text cannot be empty",
		},
		{
			name:    "whitespace only",
			text:    "   \t\n",
			wantErr: true,
			errMsg:  "text cannot be empty",
		},
		{
			name:    "English text",
			text:    "I go to school every day.",
			wantErr: true,
			errMsg:  "text must contain Japanese characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJapaneseText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateJapaneseText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("ValidateJapaneseText() error = %v, want error containing %v", err, tt.errMsg)
			}
		})
	}
}
