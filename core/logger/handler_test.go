package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestHandler(t *testing.T, format logFormat) (*slog.Logger, func() string) {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	h := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	read := func() string {
		if err := aw.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
		return strings.TrimSpace(buf.String())
	}
	return slog.New(h), read
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	log, read := newTestHandler(t, formatKV)
	ctx := WithRID(context.Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	LogEvent(ctx, log.With("component", "tg"), slog.LevelInfo, "callback.resolved",
		slog.String("token", "year_exam_main_2019"),
		slog.String("status", "ok"),
		slog.String("form", "year"),
	)

	tokens := strings.Split(read(), " ")
	expected := []string{"ts=", "level=INFO", "component=tg", "event=callback.resolved", "status=ok", "rid=rid-123", "update_id=42", "user_id=7", "chat_id=9", "token=year_exam_main_2019", "form=year"}
	if len(tokens) < len(expected) {
		t.Fatalf("unexpected token count: %d (%v)", len(tokens), tokens)
	}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
}

func TestStructuredHandlerJSON(t *testing.T) {
	log, read := newTestHandler(t, formatJSON)
	ctx := WithRID(context.Background(), "12:34:56")

	LogEvent(ctx, log.With("component", "handlers"), slog.LevelError, "photo.failed",
		slog.Any("err", errors.New("boom")),
		slog.String("status", "error"),
		slog.Duration("duration", 1500*time.Microsecond),
		slog.String("outcome", "bogus"),
	)

	line := read()
	var got map[string]any
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("invalid json %q: %v", line, err)
	}
	if got["level"] != "ERROR" || got["event"] != "photo.failed" || got["err"] != "boom" {
		t.Fatalf("unexpected fields: %v", got)
	}
	if got["status"] != "fail" {
		t.Fatalf("status = %v, want fail", got["status"])
	}
	if got["duration_ms"] != float64(2) {
		t.Fatalf("duration_ms = %v", got["duration_ms"])
	}
	if _, ok := got["outcome"]; ok {
		t.Fatal("unknown outcome must be dropped")
	}
	if got["rid"] != CompactRID("12:34:56") || got["rid_full"] != "12:34:56" {
		t.Fatalf("rid fields: %v / %v", got["rid"], got["rid_full"])
	}
	if _, ok := got["ts_unix_nano"]; !ok {
		t.Fatal("ts_unix_nano missing")
	}
	if !strings.HasPrefix(line, `{"ts":`) {
		t.Fatalf("ts must lead the line: %s", line)
	}
}

func TestStructuredHandlerCompactRIDKV(t *testing.T) {
	log, read := newTestHandler(t, formatKV)
	ctx := WithRID(context.Background(), "123:456:789")
	LogEvent(ctx, log, slog.LevelInfo, "rid.test")

	line := read()
	if !strings.Contains(line, "rid="+CompactRID("123:456:789")) {
		t.Fatalf("expected compact rid, got %s", line)
	}
	if strings.Contains(line, "rid_full=") {
		t.Fatalf("rid_full should be omitted in KV output, got %s", line)
	}
	if !strings.Contains(line, "component=app") {
		t.Fatalf("component should default to app: %s", line)
	}
}

func TestStructuredHandlerGroupsAndLevel(t *testing.T) {
	log, read := newTestHandler(t, formatKV)
	log.Debug("hidden")
	log.WithGroup("stats").Info("stats.summary", slog.Int("total", 3))

	line := read()
	if strings.Contains(line, "hidden") {
		t.Fatalf("debug line leaked: %s", line)
	}
	if !strings.Contains(line, "stats.total=3") || !strings.Contains(line, "event=stats.summary") {
		t.Fatalf("unexpected line: %s", line)
	}
}

func TestFlushWaitsForQueuedLines(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 16)
	for i := 0; i < 10; i++ {
		if err := aw.Write([]byte("line\n")); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := strings.Count(buf.String(), "line\n"); got != 10 {
		t.Fatalf("flushed %d lines, want 10", got)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestCompactRID(t *testing.T) {
	if got := CompactRID("35:36:0"); got != "z.10.0" {
		t.Fatalf("CompactRID = %q", got)
	}
	if got := CompactRID("not-a-rid"); got != "not-a-rid" {
		t.Fatalf("CompactRID = %q", got)
	}
	if got := BuildRID(1, 2, 3); got != "1:2:3" {
		t.Fatalf("BuildRID = %q", got)
	}
}

func TestSanitizeLimit(t *testing.T) {
	if got := SanitizeLimit("a\x00b\u200bc\nd", 10); got != "abc\nd" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
	if got := SanitizeLimit("héllo", 2); got != "hé" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
}

func TestRedactTokens(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw/sendPhoto": timeout`)
	got := ErrText(err)
	if strings.Contains(got, "AAHdqTcv") || !strings.Contains(got, "bot<redacted>/sendPhoto") {
		t.Fatalf("ErrText = %q", got)
	}
	if got := ErrText(nil); got != "" {
		t.Fatalf("ErrText(nil) = %q", got)
	}
	if got := RedactTokens("year_exam_main_2019"); got != "year_exam_main_2019" {
		t.Fatalf("RedactTokens changed plain text: %q", got)
	}
}

func TestDefaultLoggersDiscard(t *testing.T) {
	// Package loggers must be usable before InitLogger.
	TG.Info("noop")
	Stats.Info("noop")
	Debug(context.Background(), "x", "noop")
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext returned nil")
	}
}
