package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"ReturnsAgent/bot/channel/telegram"
	"ReturnsAgent/impl/core"
	"ReturnsAgent/internal/config"
	"ReturnsAgent/internal/http-server/api"
	"ReturnsAgent/internal/lib/logger"
	"ReturnsAgent/internal/lib/sl"
	"ReturnsAgent/internal/ws"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the webchat push and the optional Telegram bot",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("conf")
	logPath, _ := cmd.Flags().GetString("log")

	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logPath == "" {
		logPath = conf.LogPath
	}
	lg := logger.SetupLogger(conf.Env, logPath)

	lg.Info("starting returns agent", slog.String("config", configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, conf, prometheus.DefaultRegisterer, lg)
	if err != nil {
		return err
	}

	hub := ws.NewHub(lg)

	handler := core.New(lg)
	handler.SetAuthKey(conf.Listen.ApiKey)
	handler.SetRouter(a.router)
	handler.SetPublisher(hub)
	if a.mongo != nil {
		handler.SetKeyStore(a.mongo)
		if conf.Transcript.Enabled {
			handler.SetTranscriptStore(a.mongo, conf.Transcript.Limit)
		}
	}

	server := api.New(conf, lg, handler, hub)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return server.Serve(gctx)
	})

	if conf.Telegram.Enabled {
		tg, err := telegram.New(conf.Telegram.ApiKey, a.router, conf.Listen.RequestTimeout, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")
			g.Go(func() error {
				return tg.Run(gctx)
			})
		}
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("service stopped", sl.Err(err))
		return err
	}
	lg.Info("service stopped")
	return nil
}
