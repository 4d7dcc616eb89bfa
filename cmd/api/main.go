// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/gemini-chat/internal/auth"
	"github.com/capitalize-ai/gemini-chat/internal/config"
	"github.com/capitalize-ai/gemini-chat/internal/handler"
	"github.com/capitalize-ai/gemini-chat/internal/preferences"
	"github.com/capitalize-ai/gemini-chat/internal/responder"
	"github.com/capitalize-ai/gemini-chat/internal/service"
	"github.com/capitalize-ai/gemini-chat/internal/storage"
	"github.com/capitalize-ai/gemini-chat/internal/store"
	"github.com/capitalize-ai/gemini-chat/pkg/logger"
	"github.com/capitalize-ai/gemini-chat/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var log *logger.Logger
	var err error
	if cfg.IsDevelopment() {
		log, err = logger.NewDevelopment(cfg.LogLevel)
	} else {
		log, err = logger.New(cfg.LogLevel)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server", zap.String("environment", cfg.Environment))

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "gemini-chat", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	target, err := responder.ParseTargetPolicy(cfg.ReplyTarget)
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	// Open storage
	gateway := storage.OpenGateway(ctx, cfg.Storage(), log)
	defer gateway.Close()
	log.Info("storage ready",
		zap.String("backend", gateway.Backend()),
		zap.Bool("durable", gateway.Durable()),
	)

	// Initialize services
	chatStore := store.New(ctx, gateway, log)
	scheduler := responder.NewScheduler(chatStore, responder.New(nil), responder.Config{
		MinDelay: cfg.ReplyMinDelay,
		MaxDelay: cfg.ReplyMaxDelay,
		Target:   target,
	}, log)
	chatSvc := service.NewChatService(chatStore, scheduler, log)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiration, cfg.JWTIssuer)
	authSvc := auth.NewService(ctx, gateway, chatStore, tokens, log)
	prefs := preferences.New(ctx, gateway, cfg.DefaultDarkMode)

	// Create router
	router := handler.NewRouter(handler.RouterConfig{
		Health:            handler.NewHealthHandler(gateway),
		Auth:              handler.NewAuthHandler(authSvc),
		Chatrooms:         handler.NewChatroomHandler(chatSvc, log),
		Messages:          handler.NewMessageHandler(chatSvc, log),
		Stream:            handler.NewStreamHandler(chatStore, cfg.HeartbeatInterval, log),
		Preferences:       handler.NewPreferencesHandler(prefs),
		Tokens:            tokens,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		Logger:            log,
	})

	// Request contexts are cancelled on shutdown so open streams end.
	baseCtx, cancelBase := context.WithCancel(ctx)
	defer cancelBase()

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancelBase)

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)

	log.Info("server stopped")
}
