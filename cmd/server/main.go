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

	"github.com/segyhp/rent-billing/internal/app"
	"github.com/segyhp/rent-billing/internal/config"
	"github.com/segyhp/rent-billing/internal/handler"
	"github.com/segyhp/rent-billing/internal/logger"
	"github.com/segyhp/rent-billing/pkg/response"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)

	a, err := app.New(context.Background(), cfg, zlog)
	if err != nil {
		zlog.Fatal("startup failed", zap.String("op", "main"), zap.Error(err))
	}
	defer a.Close()

	if a.Redis == nil && cfg.IsProduction() {
		zlog.Warn("redis not configured in production, payment locks only cover this process")
	}

	router := setupRoutes(a)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	go func() {
		zlog.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Server.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
		return
	}

	zlog.Info("server exited")
}

func setupRoutes(a *app.App) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(a.Logger), response.CORSMiddleware)

	handler.RegisterRoutes(router,
		handler.NewBillingHandler(a.Billing),
		handler.NewPenaltyHandler(a.Penalty),
		handler.NewHealthHandler(a.DB, a.Redis, a.Config.GetHealthTimeout()),
	)
	return router
}
