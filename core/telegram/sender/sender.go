// Package sender executes outbound Telegram calls inline and logs their
// outcome with a coarse failure class.
package sender

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/atomic"

	"github.com/m3rciful/jeepyq/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Sender runs outbound calls synchronously. Failures are logged, counted and
// returned to the caller; nothing is retried.
type Sender struct {
	sent atomic.Uint64
	errs atomic.Uint64
}

// New returns a ready Sender.
func New() *Sender {
	return &Sender{}
}

// Deliver runs fn on the calling goroutine. action names the operation for
// logs ("send.photo"), endpoint the Bot API method ("sendPhoto").
func (s *Sender) Deliver(ctx context.Context, action, endpoint string, fn func() error) error {
	if fn == nil {
		return errors.New("telegram sender: nil run function")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	attrs := []slog.Attr{
		slog.String("action", action),
		slog.String("endpoint", endpoint),
		slog.Duration("elapsed", elapsed),
	}
	if err != nil {
		s.errs.Inc()
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(logger.ErrText(err), 256)),
			slog.String("err_code", Classify(err)),
		)
		logger.Error(ctx, "tg.sender", "send.fail", attrs...)
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	s.sent.Inc()
	if logger.ShouldSampleDebug() {
		logger.Debug(ctx, "tg.sender", "send.success", attrs...)
	}
	return nil
}

// Sent returns the number of successful calls.
func (s *Sender) Sent() uint64 { return s.sent.Load() }

// ErrorCount returns the number of failed calls.
func (s *Sender) ErrorCount() uint64 { return s.errs.Load() }

// Classify maps err to a failure class used in logs: timeout, dns, dial,
// tls, http_4xx, http_5xx or unknown.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return "timeout"
		}
		return "dns"
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return "timeout"
		}
		if opErr.Op == "dial" {
			return "dial"
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "timeout"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}

	var alertErr tls.AlertError
	if errors.As(err, &alertErr) {
		return "tls"
	}

	status := httpStatus(err)
	switch {
	case status >= 500:
		return "http_5xx"
	case status >= 400:
		return "http_4xx"
	}
	return "unknown"
}

func httpStatus(err error) int {
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var floodErr tele.FloodError
	if errors.As(err, &floodErr) {
		return http.StatusTooManyRequests
	}
	var groupErr tele.GroupError
	if errors.As(err, &groupErr) {
		return http.StatusBadRequest
	}

	// Unknown API errors render as "telegram: <description> (<code>)".
	msg := err.Error()
	open, end := strings.LastIndex(msg, "("), strings.LastIndex(msg, ")")
	if open >= 0 && end > open+1 {
		if code, convErr := strconv.Atoi(strings.TrimSpace(msg[open+1 : end])); convErr == nil {
			return code
		}
	}
	return 0
}
