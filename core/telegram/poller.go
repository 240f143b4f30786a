package telegram

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/jeepyq/core/config"

	tele "gopkg.in/telebot.v4"
)

// WebhookOptions declares webhook listener settings.
type WebhookOptions struct {
	Listen string
	Port   int
	URL    string
}

// PollerOptions configures BuildPoller.
type PollerOptions struct {
	RunMode                string
	LongPollTimeoutSeconds int
	Webhook                WebhookOptions
}

// BuildPoller returns the telebot poller for the run mode. Serverless mode
// has no poller: updates arrive through UpdateHandler.
func BuildPoller(opts PollerOptions) tele.Poller {
	switch strings.ToLower(strings.TrimSpace(opts.RunMode)) {
	case coreconfig.RunModeServerless:
		return nil
	case coreconfig.RunModeWebhook:
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", opts.Webhook.Listen, opts.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: opts.Webhook.URL},
		}
	}
	return &tele.LongPoller{Timeout: pollTimeout(opts.LongPollTimeoutSeconds)}
}

func pollTimeout(seconds int) time.Duration {
	if seconds <= 0 {
		seconds = 10
	}
	return time.Duration(seconds) * time.Second
}
