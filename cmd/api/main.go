package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kinstone/starbar/internal/engine"
	"github.com/kinstone/starbar/internal/http/handlers"
	httpapi "github.com/kinstone/starbar/internal/http/httpapi"
	"github.com/kinstone/starbar/internal/infra"
	"github.com/kinstone/starbar/internal/scheduler"
	"github.com/kinstone/starbar/internal/tiltify"
	"github.com/kinstone/starbar/internal/webhook"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := handlers.NewEventHub()
	ledger := engine.NewLedger(logger, events)
	mirrors := engine.NewMirrors(logger, events)

	var gate *webhook.Gate
	if !cfg.CampaignConfigured() {
		// Nothing to reconcile without a campaign; serve the API surface
		// anyway so the overlay keeps working against empty state.
		logger.Info().Msg("set TILTIFY_CAMPAIGN, TILTIFY_CLIENT_ID and TILTIFY_CLIENT_SECRET to enable donation tracking")
	} else {
		client, err := tiltify.NewClient(tiltify.Options{
			BaseURL:      cfg.APIBaseURL,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Campaign:     cfg.Campaign,
			HTTPClient:   &http.Client{Timeout: 30 * time.Second},
			Logger:       &logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure campaign client")
		}
		syncer := scheduler.NewSyncer(client, ledger, mirrors, logger)
		ledger.OnMatchRefresh(mirrors.MatchActive, func() {
			if err := syncer.RefreshMatches(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("match refresh failed")
			}
		})

		mode := scheduler.PullOnly
		if cfg.PushEnabled() {
			mode = scheduler.PushAssisted
			gate = webhook.NewGate(cfg.WebhookSecret, cfg.Campaign, ledger, mirrors, logger)
		} else {
			logger.Info().Msg("webhook credentials not set, falling back to pull-only mode")
		}

		// Rehydrate before the webhook endpoint starts trusting push events.
		go func() {
			if err := syncer.Bootstrap(ctx); err != nil {
				logger.Warn().Err(err).Msg("bootstrap failed, next history cycle will retry")
			}
			sched := scheduler.New(mode, syncer, scheduler.Intervals{
				Metadata: cfg.MetadataInterval,
				History:  cfg.HistoryInterval,
				Recent:   cfg.RecentInterval,
			}, logger)
			sched.Run(ctx)
		}()
	}

	app := handlers.NewApp(logger, ledger, mirrors, gate, events, cfg.Currency)
	router := httpapi.NewRouter(app, logger, cfg.AllowedOrigins)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
