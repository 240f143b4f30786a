package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/m3rciful/jeepyq/core/logger"

	tele "gopkg.in/telebot.v4"
)

// maxUpdateBytes caps the request body; Telegram updates are far smaller.
const maxUpdateBytes = 1 << 20

const (
	bodyOK    = "OK"
	bodyError = "Error"
)

// UpdateHandler serves Telegram webhook deliveries one update per request.
// The bot must be synchronous: the response is written only after the
// update has been processed. Every delivery is answered with 200 so
// Telegram never redelivers; the body is "OK", or "Error" when the payload
// could not be decoded or processing panicked.
type UpdateHandler struct {
	bot *tele.Bot
}

// NewUpdateHandler returns an http.Handler feeding requests into bot.
func NewUpdateHandler(bot *tele.Bot) *UpdateHandler {
	return &UpdateHandler{bot: bot}
}

func (h *UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	body := bodyOK
	defer func() {
		if rec := recover(); rec != nil {
			logger.LogEvent(r.Context(), logger.TG, slog.LevelError, "webhook.panic",
				slog.String("err", logger.RedactTokens(fmt.Sprint(rec))),
			)
			body = bodyError
		}
		// Serverless hosts may freeze the process right after the response.
		_ = logger.Flush()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, body)
	}()

	upd, ok, err := decodeUpdate(r)
	if err != nil {
		logger.LogEvent(r.Context(), logger.TG, slog.LevelWarn, "webhook.decode",
			slog.String("status", "fail"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		body = bodyError
		return
	}
	if !ok {
		return
	}

	h.bot.ProcessUpdate(upd)
	logWebhookDone(r.Context(), upd.ID, start)
}

// decodeUpdate reads the update from r. An empty body is not an error and
// yields ok == false.
func decodeUpdate(r *http.Request) (tele.Update, bool, error) {
	var upd tele.Update
	if r.Body == nil {
		return upd, false, nil
	}
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, maxUpdateBytes))
	if err != nil {
		return upd, false, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return upd, false, nil
	}
	if err := json.Unmarshal(data, &upd); err != nil {
		return upd, false, fmt.Errorf("decode update: %w", err)
	}
	return upd, true, nil
}

func logWebhookDone(ctx context.Context, updateID int, start time.Time) {
	if !logger.ShouldSampleDebug() {
		return
	}
	logger.LogEvent(ctx, logger.TG, slog.LevelDebug, "webhook.done",
		slog.String("status", "ok"),
		slog.Int("update_id", updateID),
		slog.Duration("duration", logger.Took(start)),
	)
}
