// Package keyboard builds inline keyboards.
package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn describes one inline button. With Unique empty, Data is sent
// verbatim as callback_data.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

func (b InlineBtn) inline() tele.InlineButton {
	return tele.InlineButton{Text: b.Text, Unique: b.Unique, Data: b.Data}
}

// InlineButtonsRows builds an inline keyboard from rows of InlineBtn.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = btn.inline()
		}
		inline = append(inline, r)
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}

// FindData returns the callback data of the first inline button of markup
// for which match reports true.
func FindData(markup *tele.ReplyMarkup, match func(string) bool) (string, bool) {
	if markup == nil || match == nil {
		return "", false
	}
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.Data != "" && match(btn.Data) {
				return btn.Data, true
			}
		}
	}
	return "", false
}
