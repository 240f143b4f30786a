// Package helpers sends and edits messages through the shared sender so
// every outbound call is logged the same way.
package helpers

import (
	"io"

	"go.uber.org/atomic"

	"github.com/m3rciful/jeepyq/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalSender atomic.Pointer[sender.Sender]

func init() {
	globalSender.Store(sender.New())
}

// SetSender replaces the sender used by helper functions. nil restores a
// fresh default sender.
func SetSender(s *sender.Sender) {
	if s == nil {
		s = sender.New()
	}
	globalSender.Store(s)
}

// CurrentSender returns the sender used by helper functions.
func CurrentSender() *sender.Sender {
	return globalSender.Load()
}

func deliver(c tele.Context, action, endpoint string, run func() error) error {
	return CurrentSender().Deliver(BuildContext(c), action, endpoint, run)
}

func markdown(markup []*tele.ReplyMarkup) *tele.SendOptions {
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown}
	if len(markup) > 0 {
		opts.ReplyMarkup = markup[0]
	}
	return opts
}

// SendText sends raw text (no parse mode) to the current chat.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	return deliver(c, "send.text", "sendMessage", func() error {
		if len(opts) > 0 && opts[0] != nil {
			return c.Send(text, opts[0])
		}
		return c.Send(text)
	})
}

// SendMD sends a Markdown message with optional reply markup.
func SendMD(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	return SendText(c, text, markdown(markup))
}

// EditMD replaces the text and keyboard of the message the callback came from.
func EditMD(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	return deliver(c, "edit.text", "editMessageText", func() error {
		return c.Edit(text, markdown(markup))
	})
}

// SendPhotoURL asks Telegram to fetch url and post it with a Markdown caption.
func SendPhotoURL(c tele.Context, url, caption string, markup ...*tele.ReplyMarkup) error {
	photo := &tele.Photo{File: tele.FromURL(url), Caption: caption}
	return deliver(c, "send.photo", "sendPhoto", func() error {
		return c.Send(photo, markdown(markup))
	})
}

// SendDocument uploads r as a file named name.
func SendDocument(c tele.Context, r io.Reader, name, caption string) error {
	doc := &tele.Document{File: tele.FromReader(r), FileName: name, Caption: caption}
	return deliver(c, "send.document", "sendDocument", func() error {
		return c.Send(doc)
	})
}

// Ack answers the callback query so the client stops its progress spinner.
func Ack(c tele.Context) error {
	if c.Callback() == nil {
		return nil
	}
	return deliver(c, "callback.ack", "answerCallbackQuery", func() error {
		return c.Respond()
	})
}
