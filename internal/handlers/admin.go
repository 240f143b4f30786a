package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/jeepyq/core/buildinfo"
	"github.com/m3rciful/jeepyq/core/logger"
	"github.com/m3rciful/jeepyq/core/telegram/format"
	tghelpers "github.com/m3rciful/jeepyq/core/telegram/helpers"
	"github.com/m3rciful/jeepyq/internal/stats"

	tele "gopkg.in/telebot.v4"
)

const statsUnavailable = "Statistics are unavailable right now."

// OnStats replies with the delivery counters. Admin only.
func (h *Handlers) OnStats(c tele.Context) error {
	sum, err := h.stats.Summary(tghelpers.BuildContext(c))
	if err != nil {
		h.logStatsFailure(c, "stats.summary", err)
		return tghelpers.SendText(c, statsUnavailable)
	}
	text := StatsText(sum)
	if snd := tghelpers.CurrentSender(); snd != nil {
		text += fmt.Sprintf("\nTelegram calls: %d ok, %d failed", snd.Sent(), snd.ErrorCount())
	}
	return tghelpers.SendMD(c, text)
}

// StatsText renders a summary as a Markdown message.
func StatsText(sum stats.Summary) string {
	var b strings.Builder
	b.WriteString("📊 *Delivery stats*\n\n")
	fmt.Fprintf(&b, "Served: %d, failed: %d\n", sum.Total-sum.Failed, sum.Failed)
	if len(sum.Buckets) == 0 {
		b.WriteString("No questions served yet.\n")
	}
	for _, bk := range sum.Buckets {
		fmt.Fprintf(&b, "%s %d: %d ok, %d failed\n", bk.Kind.DisplayName(), bk.Year, bk.Delivered, bk.Failed)
	}
	fmt.Fprintf(&b, "\nBuild: %s", format.EscapeMarkdown(buildinfo.String()))
	return b.String()
}

// OnExport sends the counters as an xlsx document. Admin only.
func (h *Handlers) OnExport(c tele.Context) error {
	sum, err := h.stats.Summary(tghelpers.BuildContext(c))
	if err != nil {
		h.logStatsFailure(c, "stats.summary", err)
		return tghelpers.SendText(c, statsUnavailable)
	}
	data, err := stats.Export(sum)
	if err != nil {
		h.logStatsFailure(c, "stats.export", err)
		return tghelpers.SendText(c, statsUnavailable)
	}
	return tghelpers.SendDocument(c, bytes.NewReader(data), stats.ExportName, "Delivery report")
}

func (h *Handlers) logStatsFailure(c tele.Context, op string, err error) {
	logger.LogEvent(tghelpers.BuildContext(c), logger.Stats, slog.LevelError, op,
		slog.String("status", "fail"),
		slog.String("err", logger.ErrText(err)),
	)
}
