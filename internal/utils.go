package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// GenerateCardID creates a unique ID for an exported card.
// Format: epochMillis_md5(kanji)[:8]
func GenerateCardID(kanji string) string {
	epochMillis := time.Now().UnixMilli()
	hash := md5.Sum([]byte(kanji))
	return fmt.Sprintf("%d_%s", epochMillis, hex.EncodeToString(hash[:])[:8])
}

// SanitizeFilename creates a safe filename from a string. Letters of any
// script are kept so Japanese deck names stay readable.
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
