// Package format escapes user-visible text for Telegram parse modes.
package format

import (
	"regexp"
	"strings"
)

var mdV1Re = regexp.MustCompile("([_*`\\[])")

// EscapeMarkdown escapes text for the legacy Markdown parse mode.
func EscapeMarkdown(text string) string {
	if !strings.ContainsAny(text, "_*`[") {
		return text
	}
	return mdV1Re.ReplaceAllString(text, `\$1`)
}
