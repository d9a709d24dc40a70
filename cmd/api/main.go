// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mindfulchat/mindfulchat/internal/config"
	"github.com/mindfulchat/mindfulchat/internal/generate"
	"github.com/mindfulchat/mindfulchat/internal/handler"
	"github.com/mindfulchat/mindfulchat/internal/llm"
	"github.com/mindfulchat/mindfulchat/internal/middleware"
	natsclient "github.com/mindfulchat/mindfulchat/internal/nats"
	"github.com/mindfulchat/mindfulchat/internal/sentiment"
	"github.com/mindfulchat/mindfulchat/internal/service"
	"github.com/mindfulchat/mindfulchat/internal/store"
	"github.com/mindfulchat/mindfulchat/pkg/logger"
	"github.com/mindfulchat/mindfulchat/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "mindfulchat", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Persistence: JetStream KV when NATS is configured, in-memory otherwise.
	var (
		conversationStore store.Store
		events            service.EventPublisher
		nc                *natsclient.Client
	)
	if cfg.NATSURL != "" {
		nc, err = natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		defer nc.Close()

		kvStore, err := store.NewKV(ctx, nc.JetStream())
		if err != nil {
			log.Error("failed to open conversation store", zap.Error(err))
			os.Exit(1)
		}
		conversationStore = kvStore

		publisher := natsclient.NewEventPublisher(nc)
		if err := publisher.EnsureStream(ctx); err != nil {
			log.Error("failed to ensure events stream", zap.Error(err))
			os.Exit(1)
		}
		events = publisher
	} else {
		log.Warn("NATS_URL not set, using in-memory store; conversations will not survive restarts")
		conversationStore = store.NewMemory()
	}

	// Generation client: Anthropic preferred, OpenAI-compatible otherwise.
	var llmClient llm.Client
	if cfg.AnthropicAPIKey != "" {
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.LLMModel)
		if err != nil {
			log.Warn("failed to create Anthropic client, replies will use the fallback bank", zap.Error(err))
		}
	} else if cfg.OpenAIAPIKey != "" {
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMModel)
		if err != nil {
			log.Warn("failed to create OpenAI client, replies will use the fallback bank", zap.Error(err))
		}
	} else {
		log.Warn("no generation API key configured, replies will use the fallback bank")
	}

	// Initialize services
	classifier := sentiment.NewClient(cfg.SentimentServiceURL, cfg.SentimentTimeout, log)
	generator := generate.New(llmClient, generate.Options{
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
		MaxRetries:  cfg.LLMMaxRetries,
		BackoffBase: cfg.LLMBackoffBase,
	}, log)
	conversationSvc := service.NewConversationService(conversationStore, classifier, generator, events, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(nc)
	chatHandler := handler.NewChatHandler(conversationSvc, log)
	adminHandler := handler.NewAdminHandler(conversationSvc, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Route("/conversations", func(r chi.Router) {
			r.Post("/start", chatHandler.Start)
			r.Post("/message", chatHandler.Message)
			r.Get("/", chatHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", chatHandler.Get)
				r.Delete("/", chatHandler.Delete)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/stats", adminHandler.Stats)
			r.Delete("/users/{id}/conversations", adminHandler.DeleteUserConversations)
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
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

	log.Info("server stopped")
}
