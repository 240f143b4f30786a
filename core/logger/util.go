package logger

import (
	"regexp"
	"strings"
	"time"
)

// Status maps err to the status field value.
func Status(err error) string {
	if err != nil {
		return "fail"
	}
	return "ok"
}

// Took returns the rounded duration since start.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS rounds d to the nearest millisecond.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// SummarizeStrings joins up to limit elements and reports whether truncation happened.
func SummarizeStrings(values []string, limit int) (string, bool) {
	if limit <= 0 {
		return "", len(values) > 0
	}
	if len(values) <= limit {
		return strings.Join(values, ", "), false
	}
	return strings.Join(values[:limit], ", "), true
}

var botTokenRe = regexp.MustCompile(`[0-9]{5,}:[A-Za-z0-9_-]{20,}`)

// RedactTokens masks Telegram bot tokens. API errors may carry the request
// URL, which embeds the token.
func RedactTokens(s string) string {
	if s == "" {
		return s
	}
	return botTokenRe.ReplaceAllString(s, "<redacted>")
}

// ErrText returns err's message with bot tokens masked, or "" for nil.
func ErrText(err error) string {
	if err == nil {
		return ""
	}
	return RedactTokens(err.Error())
}
