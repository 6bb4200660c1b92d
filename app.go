package main

import (
	"context"
	"log/slog"

	"ReturnsAgent/bot/router"
	"ReturnsAgent/impl/core"
	"ReturnsAgent/internal/config"
	repository "ReturnsAgent/internal/database"
	"ReturnsAgent/internal/metrics"
	"ReturnsAgent/internal/state"

	"github.com/prometheus/client_golang/prometheus"
)

type app struct {
	router *router.Router
	mongo  *repository.MongoDB
}

// buildApp assembles the turn router from configuration. The Mongo client is
// created when state or transcripts live there; it also issues API keys.
func buildApp(ctx context.Context, conf *config.Config, reg prometheus.Registerer, lg *slog.Logger) (*app, error) {
	a := &app{}

	if conf.State.Backend == core.BackendMongo || conf.Transcript.Enabled {
		db, err := repository.NewMongoClient(conf, lg)
		if err != nil {
			return nil, err
		}
		a.mongo = db
		lg.With(
			slog.String("host", conf.State.Mongo.Host),
			slog.String("port", conf.State.Mongo.Port),
			slog.String("database", conf.State.Mongo.Database),
		).Info("mongo client initialized")
	}

	backend, err := core.NewStateBackend(ctx, conf, a.mongo, lg)
	if err != nil {
		return nil, err
	}
	lg.Info("state backend initialized", slog.String("backend", conf.State.Backend))

	classifier, err := core.NewClassifier(ctx, conf, lg)
	if err != nil {
		return nil, err
	}
	lg.Info("classifier initialized",
		slog.String("provider", conf.NLU.Provider),
		slog.String("sentiment", conf.NLU.Sentiment),
	)

	tenants, err := core.NewTenantMatcher(conf)
	if err != nil {
		return nil, err
	}

	botMetrics := metrics.NewBotMetrics(reg)
	gateway := core.NewGateway(conf, botMetrics, lg)
	lg.Info("oms gateway initialized", slog.String("url", conf.OMS.BaseURL))

	engine, err := core.NewDialogEngine(conf, classifier, gateway, tenants, botMetrics, lg)
	if err != nil {
		return nil, err
	}

	a.router = router.New(state.NewStore(backend, lg), state.NewLocker(), engine, botMetrics, lg)
	return a, nil
}
