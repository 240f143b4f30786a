package handlers

import (
	"errors"
	"strings"

	tele "gopkg.in/telebot.v4"
)

type call struct {
	what any
	opts []any
}

// fakeContext records outbound calls. Methods it does not override panic
// through the nil embedded interface.
type fakeContext struct {
	tele.Context

	update   tele.Update
	store    map[string]any
	sent     []call
	edits    []call
	responds int
	// photoErr fails every photo send when set.
	photoErr error
	// editErr fails every edit when set.
	editErr error
}

func newFake(u tele.Update) *fakeContext {
	return &fakeContext{update: u, store: map[string]any{}}
}

func textUpdate(text string) *fakeContext {
	return newFake(tele.Update{ID: 10, Message: &tele.Message{
		ID:     3,
		Text:   text,
		Chat:   &tele.Chat{ID: 77, Type: tele.ChatPrivate},
		Sender: &tele.User{ID: 77},
	}})
}

func callbackUpdate(data string) *fakeContext {
	return newFake(tele.Update{ID: 11, Callback: &tele.Callback{
		ID:     "cb",
		Data:   data,
		Sender: &tele.User{ID: 77},
		Message: &tele.Message{
			ID:   4,
			Chat: &tele.Chat{ID: 77, Type: tele.ChatPrivate},
		},
	}})
}

var errPhoto = errors.New("telegram: Bad Request: wrong file identifier/HTTP URL specified (400)")

func (f *fakeContext) Update() tele.Update { return f.update }

func (f *fakeContext) Message() *tele.Message {
	switch {
	case f.update.Message != nil:
		return f.update.Message
	case f.update.Callback != nil:
		return f.update.Callback.Message
	}
	return nil
}

func (f *fakeContext) Callback() *tele.Callback { return f.update.Callback }

func (f *fakeContext) Sender() *tele.User {
	if f.update.Callback != nil {
		return f.update.Callback.Sender
	}
	if m := f.Message(); m != nil {
		return m.Sender
	}
	return nil
}

func (f *fakeContext) Chat() *tele.Chat {
	if m := f.Message(); m != nil {
		return m.Chat
	}
	return nil
}

func (f *fakeContext) Text() string {
	if m := f.Message(); m != nil {
		return m.Text
	}
	return ""
}

func (f *fakeContext) Args() []string {
	fields := strings.Fields(f.Text())
	if len(fields) < 2 {
		return nil
	}
	return fields[1:]
}

func (f *fakeContext) Get(key string) any { return f.store[key] }

func (f *fakeContext) Set(key string, val any) { f.store[key] = val }

func (f *fakeContext) Send(what any, opts ...any) error {
	f.sent = append(f.sent, call{what: what, opts: opts})
	if _, ok := what.(*tele.Photo); ok && f.photoErr != nil {
		return f.photoErr
	}
	return nil
}

func (f *fakeContext) Edit(what any, opts ...any) error {
	f.edits = append(f.edits, call{what: what, opts: opts})
	return f.editErr
}

func (f *fakeContext) Respond(...*tele.CallbackResponse) error {
	f.responds++
	return nil
}

func (f *fakeContext) outbound() int {
	return len(f.sent) + len(f.edits) + f.responds
}

// keyboardOf returns the inline callback data of the call, row by row.
func keyboardOf(c call) [][]string {
	for _, o := range c.opts {
		opts, ok := o.(*tele.SendOptions)
		if !ok || opts.ReplyMarkup == nil {
			continue
		}
		var rows [][]string
		for _, row := range opts.ReplyMarkup.InlineKeyboard {
			var r []string
			for _, b := range row {
				r = append(r, b.Data)
			}
			rows = append(rows, r)
		}
		return rows
	}
	return nil
}
