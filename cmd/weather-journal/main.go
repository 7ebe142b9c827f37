package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/weather-journal/internal/api/http"
	"github.com/i474232898/weather-journal/internal/cache"
	"github.com/i474232898/weather-journal/internal/config"
	"github.com/i474232898/weather-journal/internal/logger"
	"github.com/i474232898/weather-journal/internal/metrics"
	"github.com/i474232898/weather-journal/internal/records"
	"github.com/i474232898/weather-journal/internal/scheduler"
	"github.com/i474232898/weather-journal/internal/store"
	"github.com/i474232898/weather-journal/internal/weather"
	"github.com/i474232898/weather-journal/internal/weather/providers"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "weather-journal").Fatal("failed to load config", zap.Error(err))
	}

	log := logger.New(cfg.LogLevel, "weather-journal")
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Info("no .env file loaded", zap.Error(envErr))
	}
	if cfg.OpenWeatherAPIKey == "" {
		log.Warn("OPENWEATHER_API_KEY is not set; current weather lookups will fail")
	}

	db, err := store.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("failed to open database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	repo, err := store.New(db)
	if err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	m := metrics.New()

	httpClient := providers.NewHTTPClient()
	policy := providers.Policy{
		Timeout:            cfg.HTTPTimeout,
		BreakerMaxFailures: cfg.BreakerMaxFailures,
		BreakerOpenTimeout: cfg.BreakerOpenTimeout,
	}

	var searcher weather.PlaceSearcher = providers.NewOpenMeteoGeocoder(httpClient, policy, m)
	if cfg.GeocodeCacheTTL > 0 {
		searcher = cache.NewPlaceCache(searcher, cfg.GeocodeCacheTTL)
	}
	geocoder := weather.NewGeocoder(searcher)
	archive := providers.NewOpenMeteoArchive(httpClient, policy, m)
	forecast := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, policy, m)

	weatherSvc := weather.NewService(geocoder, forecast, log.Named("weather"))
	recordSvc := records.NewService(geocoder, archive, repo, providers.SourceOpenMeteo, m, log.Named("records"))

	sched := scheduler.New(repo, cfg.MaintenanceInterval, log.Named("scheduler"))
	if err := sched.Start(); err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := httpapi.NewApp(httpapi.Deps{
		Weather: weatherSvc,
		Records: recordSvc,
		DB:      repo,
		Metrics: m.Handler(),
		Log:     log.Named("http"),
	}, cfg.CORSOrigins)

	go func() {
		log.Info("listening", zap.String("port", cfg.Port), zap.String("db_driver", cfg.DBDriver))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
