package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/telegram-gpt-relay/internal/config"
)

const testSuffix = "\n\n—\nbot"

func TestFormatReply_ShortTextKeepsSuffix(t *testing.T) {
	require.Equal(t, "hi there\n\n—\nbot", FormatReply("hi there", testSuffix, 4000))
}

func TestFormatReply_ExactlyAtLimitIsNotCut(t *testing.T) {
	suffixLen := utf8.RuneCountInString(testSuffix)
	text := strings.Repeat("a", 100-suffixLen)

	got := FormatReply(text, testSuffix, 100)
	require.Equal(t, text+testSuffix, got)
	require.NotContains(t, got, config.TruncatedMarker)
}

func TestFormatReply_Truncates(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
	}{
		{name: "ascii", text: strings.Repeat("a", 5000), maxLen: 4000},
		{name: "one over", text: strings.Repeat("b", 4000), maxLen: 4000},
		{name: "multibyte", text: strings.Repeat("ж", 5000), maxLen: 4000},
		{name: "emoji", text: strings.Repeat("🙂", 300), maxLen: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatReply(tt.text, testSuffix, tt.maxLen)

			require.True(t, utf8.ValidString(got))
			require.LessOrEqual(t, utf8.RuneCountInString(got), tt.maxLen)
			require.True(t, strings.HasSuffix(got, config.TruncatedMarker+testSuffix))

			body := strings.TrimSuffix(got, config.TruncatedMarker+testSuffix)
			require.True(t, strings.HasPrefix(tt.text, body))
			require.LessOrEqual(t,
				utf8.RuneCountInString(body)+utf8.RuneCountInString(config.TruncatedMarker),
				tt.maxLen-utf8.RuneCountInString(testSuffix))
		})
	}
}

func TestFormatReply_NoSuffix(t *testing.T) {
	got := FormatReply(strings.Repeat("x", 50), "", 20)
	require.Equal(t, 20, utf8.RuneCountInString(got))
	require.True(t, strings.HasSuffix(got, config.TruncatedMarker))
}
