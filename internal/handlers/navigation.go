package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/m3rciful/jeepyq/core/logger"
	tghelpers "github.com/m3rciful/jeepyq/core/telegram/helpers"
	"github.com/m3rciful/jeepyq/internal/exam"
	"github.com/m3rciful/jeepyq/internal/menu"
	"github.com/m3rciful/jeepyq/internal/stats"

	tele "gopkg.in/telebot.v4"
)

// OnStart sends the root menu.
func (h *Handlers) OnStart(c tele.Context) error {
	root := menu.Root()
	if err := tghelpers.SendMD(c, root.Text, markup(root)); err != nil {
		return h.menuFailed(c, "start", err)
	}
	return nil
}

// OnCallback decodes the token of a callback query and emits its response.
// The callback has been acknowledged by the router at this point.
func (h *Handlers) OnCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	state := exam.Decode(cb.Data)
	ctx := tghelpers.BuildContext(c)
	logger.LogEvent(ctx, logger.TG, slog.LevelDebug, "callback.decoded",
		slog.String("form", state.Form.String()),
		slog.String("exam", state.Kind.Short()),
		slog.Int("year", state.Year),
	)

	resp := h.Resolve(state)
	switch resp.Action {
	case ActionEdit:
		err := tghelpers.EditMD(c, resp.Screen.Text, markup(resp.Screen))
		if err != nil && !errors.Is(err, tele.ErrSameMessageContent) {
			return h.menuFailed(c, state.Form.String(), err)
		}
	case ActionImage:
		return h.sendQuestion(c, resp.Kind, resp.Year, resp.Question)
	}
	return nil
}

// sendQuestion posts the question image. A failed send is answered with one
// plain notice and never reported to the caller.
func (h *Handlers) sendQuestion(c tele.Context, k exam.Kind, year, n int) error {
	url := h.archive.BuildImageLocation(k, year, n)
	q := menu.Question(k, year, n)
	err := tghelpers.SendPhotoURL(c, url, q.Text, markup(q))

	ctx := tghelpers.BuildContext(c)
	h.record(ctx, stats.Delivery{Kind: k, Year: year, Question: n, OK: err == nil, At: time.Now()})
	if err == nil {
		return nil
	}
	logger.LogEvent(ctx, logger.TG, slog.LevelWarn, "question.fetch_failed",
		slog.String("exam", k.Short()),
		slog.Int("year", year),
		slog.Int("question", n),
		slog.String("url", url),
	)
	// The notice is best effort; the sender logs its failure.
	_ = tghelpers.SendText(c, menu.FetchFailed(year, n, url))
	return nil
}

// menuFailed answers a failed menu send or edit with one plain notice.
func (h *Handlers) menuFailed(c tele.Context, screen string, err error) error {
	logger.LogEvent(tghelpers.BuildContext(c), logger.TG, slog.LevelWarn, "menu.delivery_failed",
		slog.String("screen", screen),
		slog.String("err", logger.ErrText(err)),
	)
	// The notice is best effort; the sender logs its failure.
	_ = tghelpers.SendText(c, menu.DeliveryFailed)
	return nil
}
