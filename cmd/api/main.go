package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/foylaou/ExpoPass-sub000/internal/app"
	"github.com/foylaou/ExpoPass-sub000/internal/cache"
	"github.com/foylaou/ExpoPass-sub000/internal/clock"
	"github.com/foylaou/ExpoPass-sub000/internal/config"
	"github.com/foylaou/ExpoPass-sub000/internal/metrics"
	"github.com/foylaou/ExpoPass-sub000/internal/storage"
	transporthttp "github.com/foylaou/ExpoPass-sub000/internal/transport/http"
)

func main() {
	logger := log.StandardLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)
	logger.SetFormatter(cfg.Formatter())

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg, true, logger)
	if err != nil {
		logger.Fatalf("open storage: %v", err)
	}
	defer backend.Close()

	rdb, err := newRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatalf("connect to redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
		logger.WithField("ttl", cfg.StatsCacheTTL).Info("stats cache enabled")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	cached := cache.NewAnalytics(backend.Analytics, rdb, cfg.StatsCacheTTL)
	clk := clock.NewSystem()

	tokenSvc := app.NewTokenService(backend.Tokens, app.WithVerifyObserver(m))
	scanSvc := app.NewScanService(tokenSvc, cached.Scans(backend.Scans), clk,
		app.WithLogger(logger.WithField("component", "scans")),
		app.WithScanObserver(m),
	)
	analyticsSvc := app.NewAnalyticsService(cached, backend.Lookup, app.WithLocation(cfg.ReportLocation))
	registrySvc := app.NewRegistryService(backend.Registry, tokenSvc, clk)

	services := transporthttp.Services{
		Tokens:    tokenSvc,
		Scans:     scanSvc,
		Analytics: analyticsSvc,
		Registry:  registrySvc,
		Metrics:   promhttp.Handler(),
	}
	if backend.Pinger != nil {
		services.Health = backend.Pinger
	}
	mux := transporthttp.NewRouter(services)

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)
	handler = transporthttp.Instrument(handler, m)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	logger.WithFields(log.Fields{
		"port":     cfg.Port,
		"storage":  backend.Driver,
		"location": cfg.ReportLocation.String(),
	}).Info("api listening")

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server error: %v", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("server shutdown error: %v", err)
	}
	logger.Info("server stopped")
}

// newRedis returns nil when url is empty.
func newRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
