package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/riskibarqy/fantasy-matchup/internal/app"
	"github.com/riskibarqy/fantasy-matchup/internal/config"
	"github.com/riskibarqy/fantasy-matchup/internal/observability"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)
	slog.SetDefault(logger.Slog())
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		return 1
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Warn("stop pyroscope", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close app resources", "error", err)
		}
	}()

	pprofSrv := observability.NewPprofServer(cfg, logger.Slog())

	var failed atomic.Bool
	var wg conc.WaitGroup

	wg.Go(func() {
		if err := serve(a.Server, "http", logger); err != nil {
			failed.Store(true)
			stop()
		}
	})
	if pprofSrv != nil {
		wg.Go(func() {
			// A broken debug listener never takes the API down.
			_ = serve(pprofSrv, "pprof", logger)
		})
	}
	wg.Go(func() {
		a.Sessions.RunSweeper(ctx, a.SweepInterval)
	})

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		failed.Store(true)
	}
	if pprofSrv != nil {
		if err := pprofSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("pprof shutdown failed", "error", err)
		}
	}

	wg.Wait()
	logger.Info("http server stopped")

	if failed.Load() {
		return 1
	}
	return 0
}

func serve(srv *http.Server, name string, logger *logging.Logger) error {
	logger.Info(name+" server starting", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(name+" server failed", "error", err)
		return err
	}
	return nil
}
