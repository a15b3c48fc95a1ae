package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/absrisk/internal/api/fred"
	"github.com/Alias1177/absrisk/internal/config"
	"github.com/Alias1177/absrisk/internal/dashboard"
	"github.com/Alias1177/absrisk/internal/logger"
	"github.com/Alias1177/absrisk/internal/monitor"
	"github.com/Alias1177/absrisk/internal/series"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	log.Info().
		Str("profile", cfg.Profile).
		Float64("delinquency_threshold", cfg.Thresholds.Delinquency).
		Float64("decline_threshold", cfg.Thresholds.Decline).
		Str("delinquency_series", cfg.DelinquencySeriesID).
		Str("vehicle_series", cfg.VehicleSeriesID).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	client := fred.NewClient(fred.ClientOptions{
		APIKey:         cfg.FREDAPIKey,
		BaseURL:        cfg.FREDBaseURL,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.RequestsPerSec,
		MaxRetries:     cfg.MaxRetries,
	})

	reloader := config.NewThresholdReloader(cfg.Thresholds)
	svc := monitor.NewService(series.NewFetcher(client), monitor.Options{
		DelinquencySeriesID: cfg.DelinquencySeriesID,
		VehicleSeriesID:     cfg.VehicleSeriesID,
		Thresholds:          reloader.Thresholds,
	})

	renderer := dashboard.NewRenderer(dashboard.Options{
		ChartPoints: cfg.ChartPoints,
		Color:       isatty.IsTerminal(os.Stdout.Fd()),
	})
	render := func(report monitor.Report) {
		if err := renderer.Render(os.Stdout, report); err != nil {
			log.Error().Err(err).Msg("Failed to render dashboard")
		}
	}

	if cfg.RefreshInterval <= 0 {
		report, err := svc.RunOnce(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Evaluation failed")
		}
		render(report)
		return
	}

	interval := time.Duration(cfg.RefreshInterval) * time.Second
	log.Info().Dur("interval", interval).Msg("Watching indicators")
	if err := svc.Watch(ctx, interval, render); err != nil {
		log.Fatal().Err(err).Msg("Evaluation failed")
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("Serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Metrics server stopped")
	}
}
