package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/fvalenzuela1/botarb/internal/bot"
	"github.com/fvalenzuela1/botarb/internal/bot/keyboard"
	"github.com/fvalenzuela1/botarb/internal/bridge"
	apperrors "github.com/fvalenzuela1/botarb/internal/errors"
	"github.com/fvalenzuela1/botarb/internal/idempotency"
	"github.com/fvalenzuela1/botarb/internal/lifecycle"
	"github.com/fvalenzuela1/botarb/internal/session"
	"github.com/fvalenzuela1/botarb/internal/telegram"
	"github.com/fvalenzuela1/botarb/internal/webhook"
	"github.com/fvalenzuela1/botarb/pkg/config"
	"github.com/fvalenzuela1/botarb/pkg/graceful"
	"github.com/fvalenzuela1/botarb/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	slog.SetDefault(log)
	config.Watch(v, log)

	log.Info("starting arbitrage calculator bot",
		slog.String("env", cfg.AppEnv),
		slog.String("port", cfg.Server.Port),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			log.Error("failed to initialize sentry", slog.Any("error", err))
			os.Exit(1)
		}
	}

	tg, err := telegram.NewClient(cfg.Bot.Token, log)
	if err != nil {
		log.Error("failed to initialize telegram client", slog.Any("error", err))
		os.Exit(1)
	}

	store := session.NewMemoryStore(log)
	kb := keyboard.NewBuilder(log)
	errHandler := apperrors.NewHandler(log, cfg.Sentry.Enabled)
	router := bot.NewRouter(store, log)

	startup := bot.Startup(router, bot.Deps{
		Store:      store,
		Sender:     tg,
		Keyboard:   kb,
		ErrHandler: errHandler,
		Commands:   tg,
		Log:        log,
	})

	br := bridge.New(router, startup, cfg.Bridge.Workers, cfg.Bridge.QueueSize, log)

	guard := idempotency.NewGuard(config.IdempotencyTTL, log)
	go guard.StartCleaner(ctx, time.Minute)

	srv := webhook.NewServer(br, tg, guard, cfg.Bot.WebhookURL, log)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := lifecycle.NewShutdown(log)
	shutdown.Register("bridge", br.Shutdown)
	if cfg.Sentry.Enabled {
		shutdown.Register("sentry", func(context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		})
	}

	g := graceful.NewServer(log, httpServer, cfg.Server.ShutdownTimeout)
	if err := g.ListenAndServe(ctx); err != nil {
		log.Error("http server failed", slog.Any("error", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := shutdown.Execute(shutdownCtx); err != nil {
		log.Error("shutdown finished with errors", slog.Any("error", err))
	}

	log.Info("arbitrage calculator bot stopped")
}
