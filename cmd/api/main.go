// Command api serves the stored run history over HTTP.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/perfprobe/internal/config"
	"github.com/hamed0406/perfprobe/internal/httpapi"
	"github.com/hamed0406/perfprobe/internal/logging"
	"github.com/hamed0406/perfprobe/internal/repo"
)

func main() {
	cfg, err := config.ForService(os.Getenv("PERFPROBE_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(cfg.LogDir, os.Stdout, cfg.Verbose)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repo.Open(ctx, cfg.HistoryDSN, logger)
	if err != nil {
		logger.Fatal("history_open_failed", zap.Error(err))
	}
	defer store.Close()
	if cfg.HistoryDSN == "" {
		logger.Warn("history_in_memory", zap.String("hint", "set HISTORY_DSN to serve stored runs"))
	}

	api := httpapi.NewServer(logger, store)
	srv := &http.Server{
		Addr: cfg.APIAddr,
		Handler: api.Router(httpapi.Options{
			APIKeys:    cfg.APIKeys,
			RatePerMin: cfg.APIRateLimit,
			RateBurst:  cfg.APIRateBurst,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("api_listen", zap.String("addr", cfg.APIAddr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("api_listen_failed", zap.Error(err))
	}
	logger.Info("api_stopped")
}
