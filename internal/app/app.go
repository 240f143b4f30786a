// Package app wires configuration, infrastructure, statistics and handlers
// into the Telegram runtime.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/jeepyq/core/bootstrap"
	"github.com/m3rciful/jeepyq/core/cmd"
	"github.com/m3rciful/jeepyq/core/logger"
	tg "github.com/m3rciful/jeepyq/core/telegram"
	"github.com/m3rciful/jeepyq/internal/config"
	"github.com/m3rciful/jeepyq/internal/handlers"
	"github.com/m3rciful/jeepyq/internal/stats"
	"github.com/m3rciful/jeepyq/migrations"
)

// App owns the long-lived components of the bot.
type App struct {
	cfg       *config.Config
	infra     *bootstrap.Result
	stats     stats.Recorder
	retention *stats.Retention
}

// Options override bootstrap hooks; the zero value selects the defaults.
type Options struct {
	Bootstrap bootstrap.Options
}

// New initializes logging and the optional database, then selects the
// statistics backend.
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	bopts := opts.Bootstrap
	bopts.Config = cfg.CoreConfig()
	bopts.Database = cfg.Database
	if bopts.Migrations == nil {
		bopts.Migrations = migrations.FS
	}
	infra, err := bootstrap.Run(bopts)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, infra: infra}
	switch cfg.Stats.Backend {
	case config.StatsSQL:
		if infra.DB == nil {
			_ = infra.Close()
			return nil, fmt.Errorf("app: stats backend %q needs a database", cfg.Stats.Backend)
		}
		a.stats = stats.NewSQL(infra.DB)
		if cfg.Stats.RetentionDays > 0 {
			a.retention = stats.NewRetention(a.stats, cfg.Stats.RetentionDays, cfg.Stats.PruneAt)
		}
	case config.StatsMemory:
		a.stats = stats.NewMemory()
	default:
		a.stats = stats.Nop{}
	}
	logger.Stats.Info("stats backend",
		slog.String("event", "stats.backend"),
		slog.String("mode", cfg.Stats.Backend),
		slog.Bool("retention", a.retention != nil),
	)
	return a, nil
}

// Bootstrap adapts New to the command runner.
func Bootstrap(c cmd.ConfigCarrier) (cmd.TelegramApp, error) {
	cfg, ok := c.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", c)
	}
	return New(cfg, Options{})
}

// Stats exposes the selected recorder.
func (a *App) Stats() stats.Recorder { return a.stats }

// TelegramRunOptions registers the handlers and returns the runtime options.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	h := handlers.New(handlers.Deps{
		Catalog: a.cfg.Catalog(),
		Archive: a.cfg.ImageArchive(),
		Stats:   a.stats,
	})
	if err := h.Register(reg); err != nil {
		return tg.RunOptions{}, fmt.Errorf("app: register handlers: %w", err)
	}
	return tg.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(),
		Routes:      handlers.Routes(reg, a.cfg.Telegram.AdminID),
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(context.Context, tg.Runtime) error {
	if a.retention == nil {
		return nil
	}
	return a.retention.Start()
}

func (a *App) onStop(context.Context, tg.Runtime) error {
	if a.retention != nil {
		a.retention.Stop()
	}
	if err := a.infra.Close(); err != nil {
		return fmt.Errorf("app: close database: %w", err)
	}
	return nil
}
