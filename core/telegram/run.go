package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	coreconfig "github.com/m3rciful/jeepyq/core/config"
	"github.com/m3rciful/jeepyq/core/logger"
	tghelpers "github.com/m3rciful/jeepyq/core/telegram/helpers"
	tgsender "github.com/m3rciful/jeepyq/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// Middleware describes a global bot middleware registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route declares a single bot handler bound to an endpoint accepted by
// tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions controls the behaviour of RunTelegram.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry
	Sender   *tgsender.Sender

	Middlewares []Middleware
	Routes      []Route

	DisableWebhookCleanup bool
	// Offline skips the getMe call on start-up. Used by tests.
	Offline bool

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime exposes runtime components to lifecycle hooks.
type Runtime struct {
	Bot      *tele.Bot
	Sender   *tgsender.Sender
	Registry *Registry
}

// NewBot builds the bot for the configured run mode and wires middlewares,
// routes and the command menu. Serverless bots process updates
// synchronously, so ProcessUpdate returns only after the handler is done.
func NewBot(opts RunOptions) (*tele.Bot, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("telegram: nil config provided")
	}
	cfg := opts.Config
	serverless := cfg.Telegram.RunMode == coreconfig.RunModeServerless

	poller := BuildPoller(PollerOptions{
		RunMode:                cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		Webhook: WebhookOptions{
			Listen: cfg.Webhook.Listen,
			Port:   cfg.Webhook.Port,
			URL:    cfg.Webhook.URL,
		},
	})
	var clientPoll time.Duration
	if _, ok := poller.(*tele.LongPoller); ok {
		clientPoll = pollTimeout(cfg.Telegram.LongPollTimeoutSeconds)
	}

	bot, err := tele.NewBot(tele.Settings{
		URL:         cfg.Telegram.APIURL,
		Token:       cfg.Telegram.Token,
		Poller:      poller,
		Client:      BuildHTTPClient(clientPoll),
		Synchronous: serverless,
		Offline:     opts.Offline,
		OnError:     logHandlerError,
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: bot initialization failed: %s", logger.ErrText(err))
	}

	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			bot.Use(mw.Use)
		}
	}
	for _, route := range opts.Routes {
		if route.Endpoint != nil && route.Handler != nil {
			bot.Handle(route.Endpoint, route.Handler)
		}
	}
	if !opts.Offline {
		SetupCommands(bot, opts.Registry)
	}
	return bot, nil
}

func logHandlerError(err error, c tele.Context) {
	ctx := context.Background()
	if c != nil {
		ctx = tghelpers.BuildContext(c)
	}
	logger.LogEvent(ctx, logger.TG, slog.LevelError, "handler.error",
		slog.String("err", logger.SanitizeLimit(logger.ErrText(err), 256)),
	)
}

// RunTelegram composes and runs a Telegram bot until ctx is done.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return fmt.Errorf("telegram: nil config provided")
	}
	cfg := opts.Config
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	snd := opts.Sender
	if snd == nil {
		snd = tgsender.New()
	}
	tghelpers.SetSender(snd)
	defer tghelpers.SetSender(nil)

	buildStart := time.Now()
	bot, err := NewBot(opts)
	if err != nil {
		return err
	}
	rt := Runtime{Bot: bot, Sender: snd, Registry: opts.Registry}
	logMode(ctx, cfg, bot, logger.Took(buildStart))

	if cfg.Telegram.RunMode == coreconfig.RunModeLongpoll && !opts.DisableWebhookCleanup {
		if err := bot.RemoveWebhook(false); err != nil {
			logger.TG.Warn("failed to delete webhook",
				slog.String("event", "delete_webhook"),
				slog.String("mode", cfg.Telegram.RunMode),
				slog.String("err", logger.ErrText(err)),
			)
		}
	}

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			return err
		}
	}

	var runErr error
	if cfg.Telegram.RunMode == coreconfig.RunModeServerless {
		runErr = serve(ctx, cfg, bot)
	} else {
		runErr = start(ctx, bot)
	}

	var stopErr error
	if opts.OnStop != nil {
		stopErr = opts.OnStop(context.WithoutCancel(ctx), rt)
	}
	if stopErr != nil {
		return stopErr
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func logMode(ctx context.Context, cfg *coreconfig.Config, bot *tele.Bot, took time.Duration) {
	attrs := []slog.Attr{
		slog.String("event", "mode"),
		slog.String("mode", cfg.Telegram.RunMode),
		slog.Duration("duration", took),
	}
	if cfg.Telegram.RunMode == coreconfig.RunModeServerless {
		attrs = append(attrs,
			slog.String("listen", serverlessAddr(cfg)),
			slog.String("path", cfg.Webhook.Path),
		)
	} else {
		switch p := bot.Poller.(type) {
		case *tele.Webhook:
			attrs = append(attrs,
				slog.String("listen", p.Listen),
				slog.String("public_url", p.Endpoint.PublicURL),
			)
		case *tele.LongPoller:
			attrs = append(attrs, slog.Int("timeout_seconds", int(p.Timeout/time.Second)))
		}
	}
	logger.TG.LogAttrs(ctx, slog.LevelInfo, "", attrs...)
}

func start(ctx context.Context, bot *tele.Bot) error {
	done := make(chan struct{})
	go func() {
		bot.Start()
		close(done)
	}()
	select {
	case <-ctx.Done():
		bot.Stop()
		<-done
		return ctx.Err()
	case <-done:
		return nil
	}
}

func serverlessAddr(cfg *coreconfig.Config) string {
	return net.JoinHostPort(cfg.Webhook.Listen, strconv.Itoa(cfg.Webhook.Port))
}

// serve exposes UpdateHandler on the configured path until ctx is done.
func serve(ctx context.Context, cfg *coreconfig.Config, bot *tele.Bot) error {
	mux := http.NewServeMux()
	mux.Handle(cfg.Webhook.Path, NewUpdateHandler(bot))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	srv := &http.Server{
		Addr:              serverlessAddr(cfg),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("telegram: serverless listener: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("telegram: serverless shutdown: %w", err)
		}
		return ctx.Err()
	}
}
