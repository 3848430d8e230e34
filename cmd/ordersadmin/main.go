// Package main запускает HTTP-сервер сервиса администрирования заказов.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/orders-admin/internal/config"
	"github.com/mmeshcher/orders-admin/internal/handler"
	"github.com/mmeshcher/orders-admin/internal/orderapi"
	"github.com/mmeshcher/orders-admin/internal/service"
	"github.com/mmeshcher/orders-admin/internal/session"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	apiClient := orderapi.NewClient(cfg.OrderAPIAddress)
	svc := service.NewService(apiClient, logger)
	sessions := session.NewManager(cfg.SessionSecret)

	h, err := handler.NewHandler(svc, logger, sessions)
	if err != nil {
		sugar.Fatalw("handler initialization error", "error", err.Error())
	}

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting orders admin server", "addr", cfg.RunAddress, "api", cfg.OrderAPIAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
