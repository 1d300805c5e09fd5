package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/Vovarama1992/telegram-gpt-relay/internal/ai"
	"github.com/Vovarama1992/telegram-gpt-relay/internal/config"
	"github.com/Vovarama1992/telegram-gpt-relay/internal/logging"
	"github.com/Vovarama1992/telegram-gpt-relay/internal/telegram"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	envFiles := []string{".env", ".env.local"}
	cfg, loaded, err := config.Load(envFiles...)
	if err != nil {
		logrus.WithError(err).Fatal("config load failed")
	}

	logger := logging.New(cfg.LogrusLevel())
	if loaded == 0 {
		logger.WithField("tried", strings.Join(envFiles, ", ")).Info("no .env files found")
	}

	// --- Telegram ---
	platform, err := telegram.NewTelegramOutbound(cfg.Telegram, logger)
	if err != nil {
		logger.WithError(err).Fatal("telegram init failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	me, err := telegram.Setup(ctx, platform, cfg, logger)
	cancel()
	if err != nil {
		logger.WithError(err).Fatal("webhook setup failed")
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(logging.Requests(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", logging.RequestIDHeader},
	}))

	// --- Relay wiring ---
	aiClient := ai.NewOpenAIClient(cfg.OpenAI, logger)
	relayService := telegram.NewService(cfg, aiClient, platform, logger)
	broadcaster := telegram.NewBroadcaster(platform, cfg.AdminPassword, cfg.Telegram.ChannelID, logger)
	handler := telegram.NewHandler(
		relayService,
		broadcaster,
		platform,
		telegram.BuildInfo{Version: version, BotName: me.UserName},
		cfg.Telegram.MaxBodyBytes,
		logger,
	)

	telegram.RegisterRoutes(r, handler)

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown failed")
	}
	logger.Info("stopped")
}
