package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/exmerge-go/internal/config"
	"github.com/ukaji3/exmerge-go/internal/logger"
	"github.com/ukaji3/exmerge-go/internal/metrics"
	"github.com/ukaji3/exmerge-go/internal/server"
	"github.com/ukaji3/exmerge-go/pkg/exmerge"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/store"
)

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP merge service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config.yaml (default: ./configs or .)")
	return cmd
}

func serve(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("logger init failed: %w", err)
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg.Store, zapLog)
	if err != nil {
		return err
	}
	defer closeStore()

	svc, err := exmerge.NewService(exmerge.ServiceOptions{
		Store:   st,
		Options: exmerge.Options{TargetSheet: cfg.Merge.TargetSheet},
		Logger:  log,
	})
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	if loaded, err := svc.HasTemplate(ctx); err == nil {
		m.SetTemplateLoaded(loaded)
	}

	srv, err := server.New(server.Options{
		Service:        svc,
		Logger:         log,
		Metrics:        m,
		Gatherer:       reg,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("backend", cfg.Store.Backend),
			zap.String("targetSheet", svc.TargetSheet()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zapLog.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	zapLog.Info("HTTP server stopped")
	return nil
}

// openStore builds the configured template store and its release function.
func openStore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (store.Store, func(), error) {
	if cfg.Backend != config.BackendRedis {
		return store.NewMemory(), func() {}, nil
	}

	var rs *store.Redis
	err := retryWithBackoff(ctx, func() error {
		var err error
		rs, err = store.OpenRedis(ctx, store.RedisOptions{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Redis.Key,
			TTL:      cfg.Redis.TTL,
		})
		return err
	}, 5, time.Second, log, "Redis connection")
	if err != nil {
		return nil, nil, err
	}
	log.Info("Redis connected", zap.String("address", cfg.Redis.Address))
	return rs, func() { _ = rs.Close() }, nil
}

// retryWithBackoff runs operation until it succeeds, doubling the delay between
// attempts. It gives up early when ctx is done.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
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
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%s cancelled: %w", operationName, ctx.Err())
			case <-timer.C:
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
