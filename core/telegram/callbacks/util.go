// Package callbacks reads callback query data. Buttons built by this module
// carry a raw token as callback_data; buttons built through telebot's
// markup.Data carry "\f<unique>|<payload>".
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// MaxDataLen is the Bot API limit for callback_data in bytes.
const MaxDataLen = 64

// Parse splits callback data into the telebot unique key and payload. Raw
// data without the "\f" marker is returned whole as the key.
func Parse(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	if len(raw) == len(cb.Data) {
		return strings.TrimSpace(raw), ""
	}
	key, payload, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(key), payload
}

// Data returns the callback data of c, or "" when c carries no callback.
func Data(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		if cb.Data == "" {
			return cb.Unique
		}
		return cb.Unique + "|" + cb.Data
	}
	return strings.TrimSpace(cb.Data)
}

// Valid reports whether data fits into a callback button.
func Valid(data string) bool {
	return data != "" && len(data) <= MaxDataLen
}
