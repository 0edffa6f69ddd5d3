package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/adapter"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/api"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/models"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/nodes"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/observability"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/promptgen"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/tokenizer"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/config"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting prompt node server...",
		zap.String("env", cfg.Env),
		zap.String("hub_cache", cfg.HFHubCache),
		zap.Bool("completion", cfg.CompletionEnabled()),
	)

	shutdownTracing := observability.InitOTel(context.Background(), log, observability.ConfigFromEnv(cfg.Env))

	// Initialize dependencies
	loader := tokenizer.NewLoader(cfg.HFHubCache)
	registry, err := buildRegistry(cfg, loader)
	if err != nil {
		log.Fatal("Failed to build node registry", zap.Error(err))
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.RouterConfig{
		Registry:     registry,
		Completer:    newCompleter(cfg),
		Logger:       log,
		AllowOrigins: cfg.CORSAllowOrigins,
	})

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Warn("Tracer shutdown failed", zap.Error(err))
	}

	log.Info("Server exited")
}

// buildRegistry loads the model handles and registers both nodes.
func buildRegistry(cfg *config.Config, source tokenizer.Source) (*nodes.Registry, error) {
	file, err := models.LoadFile(cfg.ModelsFile)
	if err != nil {
		return nil, err
	}
	handles := models.NewRegistry(file.Models, source)
	counter := tokenizer.NewCounter(source, cfg.PrimaryTokenizer, cfg.SecondaryTokenizer)

	registry := nodes.NewRegistry()
	if err := registry.Register(nodes.NewPromptSchemaNode(promptgen.NewGenerator())); err != nil {
		return nil, err
	}
	if err := registry.Register(nodes.NewTokenCountNode(counter, handles)); err != nil {
		return nil, err
	}
	return registry, nil
}

// newCompleter returns nil when no LLM endpoint is configured.
func newCompleter(cfg *config.Config) api.Completer {
	if !cfg.CompletionEnabled() {
		return nil
	}
	return adapter.NewLLMAdapter(cfg.LiteLLMURL, cfg.OpenRouterAPIKey, cfg.ModelID)
}
