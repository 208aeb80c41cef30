package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	cli "github.com/urfave/cli/v2"

	"github.com/warden-bot/warden/automod/actions"
	"github.com/warden-bot/warden/automod/archive"
	"github.com/warden-bot/warden/automod/config"
	"github.com/warden-bot/warden/automod/consumer"
	"github.com/warden-bot/warden/automod/directory"
	"github.com/warden-bot/warden/automod/engine"
	"github.com/warden-bot/warden/automod/levelstore"
	"github.com/warden-bot/warden/automod/template"
)

func configLogger(cctx *cli.Context) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cctx.String("log-level")) {
	case "error":
		level = slog.LevelError
	case "warn":
		level = slog.LevelWarn
	case "debug":
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

func runServer(cctx *cli.Context) error {
	logger := configLogger(cctx)

	resolver := config.NewStaticResolver()
	if err := resolver.LoadDir(cctx.String("rules-dir")); err != nil {
		return fmt.Errorf("loading rule configuration: %w", err)
	}

	var levels engine.AntiraidLevelStore
	if u := cctx.String("redis-url"); u != "" {
		rls, err := levelstore.NewRedisLevelStore(u)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		levels = rls
	} else {
		levels = levelstore.NewMemLevelStore()
	}

	renderer, err := template.NewRenderer()
	if err != nil {
		return err
	}

	deps := engine.Deps{
		Resolver: resolver,
		Executor: actions.NewHTTPExecutor(cctx.String("api-host")),
		Renderer: renderer,
		Invites:  directory.NewHTTPResolver(cctx.String("api-host"), logger),
		Levels:   levels,
		Notifier: &engine.SlackNotifier{SlackWebhookURL: cctx.String("slack-webhook-url")},
	}
	if host := cctx.String("archive-host"); host != "" {
		deps.Archive = archive.NewHTTPStore(host)
	}

	eng := engine.NewEngine(logger, deps)

	gc := &consumer.GatewayConsumer{
		Logger: logger,
		Engine: eng,
		Host:   cctx.String("gateway-host"),
	}

	// metrics and health endpoints
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/_health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	metricsSrv := &http.Server{
		Addr:    cctx.String("metrics-listen"),
		Handler: mux,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics listener failed", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- gc.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested, draining")
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			logger.Error("gateway consumer failed", "err", err)
		}
	}

	eng.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	return nil
}
