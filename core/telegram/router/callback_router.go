package router

import (
	"log/slog"
	"time"

	"github.com/m3rciful/jeepyq/core/logger"
	tg "github.com/m3rciful/jeepyq/core/telegram"
	"github.com/m3rciful/jeepyq/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/jeepyq/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises callback routing.
type CallbackOptions struct {
	// Key maps a callback to the registry key of its handler. The default is
	// the telebot unique key, or the whole data for raw callback_data.
	Key func(cb *tele.Callback) string
	// Ack answers the callback query before a matched handler runs.
	// Callbacks without a route are never answered.
	Ack bool
}

// CallbackRoute returns the tele.OnCallback route dispatching through reg.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	keyOf := opts.Key
	if keyOf == nil {
		keyOf = func(cb *tele.Callback) string {
			key, _ := callbacks.Parse(cb)
			return key
		}
	}

	handler := func(c tele.Context) error {
		start := time.Now()
		cb := c.Callback()
		if cb == nil {
			return nil
		}
		key := keyOf(cb)
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("token", logger.SanitizeLimit(callbacks.Data(c), 64))}

		h, ok := reg.GetCallback(key)
		if !ok || h == nil {
			fallback := reg.CallbackNotFound()
			if fallback == nil {
				logHandlerSummary(c, "callback.unrecognized", start, "skip", "ignored", nil, extras...)
				return nil
			}
			return handleWithSummary(c, "callback.not_found", start, func() error {
				return fallback(c)
			}, extras...)
		}

		if opts.Ack {
			// Failures are logged by the sender; the handler still runs.
			_ = tghelpers.Ack(c)
		}
		return handleWithSummary(c, name, start, func() error {
			return h(c)
		}, extras...)
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: handler}
}
