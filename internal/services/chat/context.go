// File: internal/services/chat/context.go
package chat

import (
	"strings"
	"unicode/utf8"
)

// TruncateText cuts input to at most maxLen runes without splitting a character.
func TruncateText(input string, maxLen int) string {
	if input == "" || maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(input) <= maxLen {
		return input
	}

	var b strings.Builder
	count := 0
	for _, r := range input {
		if count >= maxLen {
			break
		}
		b.WriteRune(r)
		count++
	}
	return b.String()
}

// TitleFromMessage derives a chat title from the first user message: the first
// maxLen characters, with "..." appended when anything was cut.
func TitleFromMessage(message string, maxLen int) string {
	message = strings.TrimSpace(message)
	title := TruncateText(message, maxLen)
	if utf8.RuneCountInString(message) > maxLen {
		title += "..."
	}
	return title
}
