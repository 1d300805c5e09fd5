package telegram

import (
	"unicode/utf8"

	"github.com/Vovarama1992/telegram-gpt-relay/internal/config"
)

// FormatReply appends suffix to text, cutting text so the whole message
// stays within maxLen runes. A cut is marked with config.TruncatedMarker.
func FormatReply(text, suffix string, maxLen int) string {
	suffixLen := utf8.RuneCountInString(suffix)
	if utf8.RuneCountInString(text)+suffixLen <= maxLen {
		return text + suffix
	}

	keep := maxLen - suffixLen - utf8.RuneCountInString(config.TruncatedMarker)
	if keep < 0 {
		keep = 0
	}
	return string([]rune(text)[:keep]) + config.TruncatedMarker + suffix
}
