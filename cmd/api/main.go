package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"chat-session/api/router"
	"chat-session/cmd/internal/bootstrap"
	"chat-session/config"
	"chat-session/logger"
)

// @title           Chat Session API
// @version         1.0
// @description     Chat sessions with model-backed replies
// @BasePath        /api/v1
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.InitFromLevel(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Log.Errorf("failed to start chat service: %v", err)
		os.Exit(1)
	}
	defer app.Close(context.Background())

	r := router.New(router.Options{
		Chat:           app.Chat,
		Store:          app.Store,
		Health:         app.Health,
		QuotaRemaining: app.Quota.Remaining,
	})

	// 웹 UI 에서 직접 호출할 수 있도록 CORS 허용
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id", "X-Span-Id"},
		ExposedHeaders: []string{"X-Request-Id", "X-Span-Id"},
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("starting chat-session api on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("http server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down chat-session api...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("graceful shutdown failed: %v", err)
	}
}
