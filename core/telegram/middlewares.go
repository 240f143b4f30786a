package telegram

import (
	"github.com/m3rciful/jeepyq/core/telegram/middleware"
)

// DefaultMiddlewares builds the shared middleware chain: panic recovery,
// request ids with receipt logging, then per-update send counters.
func DefaultMiddlewares() []Middleware {
	return []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	}
}
