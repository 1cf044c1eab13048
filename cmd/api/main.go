package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/parley/cmd/mainconfig"
	"github.com/wolfman30/parley/internal/api/router"
	"github.com/wolfman30/parley/internal/app/bootstrap"
	appconfig "github.com/wolfman30/parley/internal/config"
	httpmiddleware "github.com/wolfman30/parley/internal/http/middleware"
	"github.com/wolfman30/parley/internal/webchat"
	"github.com/wolfman30/parley/pkg/logging"
)

func main() {
	cfg, logger := mainconfig.Setup("", nil)
	logger.Info("starting parley API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"persona", cfg.Persona,
		"llm_provider", cfg.LLMProvider,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	llm, closeLLM, err := bootstrap.BuildLLMClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to configure llm provider", "error", err)
		os.Exit(1)
	}
	defer closeLLM()

	rt, err := bootstrap.BuildRuntime(ctx, cfg, llm, logger)
	if err != nil {
		logger.Error("failed to build runtime", "error", err)
		os.Exit(1)
	}
	defer rt.Close()

	srv, limiter := newServer(cfg, rt, logger)

	go rt.Sessions.Run(ctx)
	if limiter != nil {
		go limiter.Run(ctx)
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// newServer assembles the HTTP surface over rt. The returned limiter is nil
// when rate limiting is disabled.
func newServer(cfg *appconfig.Config, rt *bootstrap.Runtime, logger *logging.Logger) (*http.Server, *httpmiddleware.RateLimiter) {
	var limiter *httpmiddleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	handler := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        webchat.NewHandler(rt.Sessions, logger),
		MetricsHandler:     promhttp.HandlerFor(rt.Registry, promhttp.HandlerOpts{Registry: rt.Registry}),
		RateLimiter:        limiter,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ActiveSessions:     rt.Sessions.Len,
	})

	// WriteTimeout stays zero so websocket connections are not cut off.
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}, limiter
}
