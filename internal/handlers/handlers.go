// Package handlers turns Telegram updates into screens and question images.
// Every handler is stateless: navigation travels in callback tokens and the
// configuration is fixed at start-up.
package handlers

import (
	"context"
	"log/slog"

	"github.com/m3rciful/jeepyq/core/logger"
	tg "github.com/m3rciful/jeepyq/core/telegram"
	"github.com/m3rciful/jeepyq/core/telegram/callbacks"
	"github.com/m3rciful/jeepyq/core/telegram/commands"
	"github.com/m3rciful/jeepyq/core/telegram/keyboard"
	"github.com/m3rciful/jeepyq/internal/exam"
	"github.com/m3rciful/jeepyq/internal/menu"
	"github.com/m3rciful/jeepyq/internal/stats"

	tele "gopkg.in/telebot.v4"
)

// Deps are the immutable inputs of the handlers.
type Deps struct {
	Catalog exam.Catalog
	Archive exam.Archive
	// Random defaults to the process wide generator.
	Random exam.Source
	// Stats defaults to stats.Nop.
	Stats stats.Recorder
}

// Handlers serves the bot commands and callbacks.
type Handlers struct {
	catalog exam.Catalog
	archive exam.Archive
	picker  *exam.Picker
	stats   stats.Recorder
}

// New builds the handlers.
func New(d Deps) *Handlers {
	rec := d.Stats
	if rec == nil {
		rec = stats.Nop{}
	}
	return &Handlers{
		catalog: d.Catalog,
		archive: d.Archive,
		picker:  exam.NewPicker(d.Catalog, d.Random),
		stats:   rec,
	}
}

// callbackForms are the token forms routed to a callback handler.
var callbackForms = []exam.Form{
	exam.FormHome,
	exam.FormExam,
	exam.FormYear,
	exam.FormRandom,
	exam.FormRandomInYear,
}

// CallbackKey routes a callback by the form of its token. Tokens outside the
// grammar map to a key without a handler.
func CallbackKey(cb *tele.Callback) string {
	if cb == nil {
		return exam.FormUnrecognized.String()
	}
	return exam.Decode(cb.Data).Form.String()
}

// Register adds the commands, callbacks and the reply fallback to reg.
func (h *Handlers) Register(reg *tg.Registry) error {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.OnStart,
		Description: "Open the exam menu",
	})
	reg.RegisterCommand("/q", commands.Command{
		Handler:     h.OnQuestion,
		Description: "Get a question: /q <main|adv> <year> <number>",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     h.OnStats,
		Description: "Delivery statistics",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/export", commands.Command{
		Handler:     h.OnExport,
		Description: "Export delivery statistics as xlsx",
		AdminOnly:   true,
	})
	for _, f := range callbackForms {
		if err := reg.RegisterCallback(f.String(), h.OnCallback); err != nil {
			return err
		}
	}
	reg.SetTextFallback(h.OnReply)
	return nil
}

// markup converts a screen keyboard into inline buttons carrying raw tokens.
// Buttons whose token does not fit into callback_data are dropped.
func markup(s menu.Screen) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(s.Keyboard))
	for _, row := range s.Keyboard {
		r := make([]keyboard.InlineBtn, 0, len(row))
		for _, b := range row {
			if !callbacks.Valid(b.Token) {
				continue
			}
			r = append(r, keyboard.InlineBtn{Text: b.Label, Data: b.Token})
		}
		rows = append(rows, r)
	}
	return keyboard.InlineButtonsRows(rows...)
}

func (h *Handlers) record(ctx context.Context, d stats.Delivery) {
	if err := h.stats.Record(ctx, d); err != nil {
		logger.LogEvent(ctx, logger.Stats, slog.LevelWarn, "record",
			slog.String("status", "fail"),
			slog.String("exam", d.Kind.Short()),
			slog.Int("year", d.Year),
			slog.Int("question", d.Question),
			slog.String("err", logger.ErrText(err)),
		)
	}
}
