package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"intake/internal/platform/config"
	"intake/internal/platform/logger"
	phttp "intake/internal/platform/net/http"
	"intake/internal/platform/net/middleware"

	"intake/internal/services/intake/module"
)

func main() {
	cfg := config.New().Prefix("INTAKE_")
	l := logger.Get()

	opts := module.FromConfig(cfg)
	mod, err := module.New(opts)
	if err != nil {
		l.Panic().Err(err).Msg("module wiring failed")
	}

	// server reads INTAKE_PORT
	srv := phttp.NewServer(cfg)

	r := srv.Router()
	r.Use(
		middleware.RealIP(),
		middleware.RequestID(),
		middleware.RecoverJSON,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: time.Second}),
	)
	mod.MountRoutes(r)
	phttp.MountProfiler(r, "/debug", cfg.MayBool("PROFILER", false))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error().Err(err).Msg("shutdown failed")
		}
		<-done
	case err := <-done:
		if err != nil {
			l.Panic().Err(err).Msg("http server stopped")
		}
	}
}
