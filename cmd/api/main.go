package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/soccerates/prediction-league/internal/app"
	"github.com/soccerates/prediction-league/internal/config"
	"github.com/soccerates/prediction-league/internal/observability"
	"github.com/soccerates/prediction-league/internal/platform/logging"
	"github.com/soccerates/prediction-league/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		os.Exit(1)
	}

	srv, services, err := app.NewHTTPServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	var background conc.WaitGroup
	if cfg.AuditEnabled {
		background.Go(func() {
			runAuditLoop(ctx, services.Audit, cfg.AuditInterval, logger)
		})
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	background.Wait()

	if pprofSrv != nil {
		if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
			logger.Error("stop pprof server", "error", err)
		}
	}
	if stopPyroscope != nil {
		if err := stopPyroscope(); err != nil {
			logger.Error("stop pyroscope", "error", err)
		}
	}
	if shutdownUptrace != nil {
		if err := shutdownUptrace(shutdownCtx); err != nil {
			logger.Error("shutdown uptrace", "error", err)
		}
	}

	logger.Info("http server stopped")
}

// runAuditLoop re-checks ledger and counter consistency on a fixed interval
// until the process shuts down.
func runAuditLoop(ctx context.Context, audit *usecase.AuditService, interval time.Duration, logger *logging.Logger) {
	if audit == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			discrepancies, err := audit.Run(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "periodic audit failed", "error", err)
				continue
			}
			if len(discrepancies) > 0 {
				logger.WarnContext(ctx, "periodic audit found discrepancies", "count", len(discrepancies))
				continue
			}
			logger.DebugContext(ctx, "periodic audit clean")
		}
	}
}
