// cmd/gateway/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"crm-ai-gateway/internal/common/config"
	"crm-ai-gateway/internal/common/database"
	"crm-ai-gateway/internal/common/logger"
	"crm-ai-gateway/internal/common/observability"
	"crm-ai-gateway/internal/gateway"
	"crm-ai-gateway/internal/gateway/llm"
	"crm-ai-gateway/internal/gateway/server"
	"crm-ai-gateway/internal/skills"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	zapLog.Info("Starting AI gateway...", zap.String("environment", cfg.App.Environment))

	var obsOpts []observability.Option
	if cfg.Tracing.Enabled {
		obsOpts = append(obsOpts, observability.WithJaeger(cfg.Tracing.JaegerEndpoint))
	}
	obs := observability.New(cfg.Tracing.ServiceName, obsOpts...)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Optional Redis: fallback overrides and readiness ---
	var (
		redis     *database.RedisClient
		overrides map[string]json.RawMessage
		ready     func(context.Context) error
	)
	if cfg.Redis.Enabled {
		redis = database.NewRedis(cfg.Redis)
		err = retryWithBackoff(func() error {
			return redis.Ping(ctx)
		}, 5, time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")

		overrides, err = gateway.LoadFallbackOverrides(ctx, redis, cfg.Redis.FallbackKey, log)
		if err != nil {
			zapLog.Warn("fallback overrides unavailable, using built-in fallbacks", zap.Error(err))
		}
		ready = redis.Ping
	}

	// --- Model backend ---
	model := llm.New(ctx, cfg.GenAI, log)

	rt := &gateway.Runtime{
		Model:             model,
		Logger:            log,
		Obs:               obs,
		DefaultTimeout:    config.GetDuration(cfg.GenAI.Timeout),
		Skills:            cfg.Skills,
		FallbackOverrides: overrides,
	}

	endpoints, err := skills.Endpoints(rt)
	if err != nil {
		zapLog.Fatal("skill registration failed", zap.Error(err))
	}
	zapLog.Info("Skills registered", zap.Int("count", len(endpoints)))

	srv := server.New(server.Options{
		Config:    cfg.Server,
		Version:   cfg.App.Version,
		Provider:  model.Provider(),
		Live:      model.Configured(),
		Endpoints: endpoints,
		Logger:    log,
		Ready:     ready,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received, draining requests...")
	case err := <-errCh:
		if err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during HTTP shutdown", zap.Error(err))
	}

	zapLog.Info("AI gateway stopped gracefully")
}
