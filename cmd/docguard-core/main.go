package main

// @title           DocGuard Core API
// @version         1.0
// @description     Document ingestion service. Uploads are text-extracted, scanned for sensitive data and stored in ClickHouse.

// @contact.name   Veridian Labs OSS
// @contact.url    https://github.com/veridian-labs/docguard-core/issues

// @host      localhost:8001
// @BasePath  /api/v1
// @schemes   http https

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/veridian-labs/docguard-core/internal/adapters/driven/clickhouse"
	"github.com/veridian-labs/docguard-core/internal/adapters/driven/extractor"
	"github.com/veridian-labs/docguard-core/internal/adapters/driven/memory"
	redisadapter "github.com/veridian-labs/docguard-core/internal/adapters/driven/redis"
	"github.com/veridian-labs/docguard-core/internal/adapters/driving/http"
	"github.com/veridian-labs/docguard-core/internal/core/ports/driven"
	"github.com/veridian-labs/docguard-core/internal/core/services"
	"github.com/veridian-labs/docguard-core/internal/scanners"
	"github.com/veridian-labs/docguard-core/internal/worker"
)

var version = "dev"

func main() {
	// Load .env if present; environment variables win
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(getEnv("LOG_LEVEL", "info")),
	}))
	slog.SetDefault(logger)

	log.Printf("docguard-core %s starting", version)

	// Configuration from environment
	port := getEnvInt("PORT", 8001)
	redisURL := getEnv("REDIS_URL", "")
	asyncStorage := getEnvBool("ASYNC_STORAGE", true)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== Initialize ClickHouse =====
	log.Println("Connecting to ClickHouse...")
	chConfig := clickhouse.DefaultConfig(getEnv("CLICKHOUSE_HOST", "localhost"))
	chConfig.Port = getEnvInt("CLICKHOUSE_PORT", chConfig.Port)
	chConfig.Database = getEnv("CLICKHOUSE_DATABASE", chConfig.Database)
	chConfig.Username = getEnv("CLICKHOUSE_USER", chConfig.Username)
	chConfig.Password = getEnv("CLICKHOUSE_PASSWORD", "")
	chConfig.Secure = getEnvBool("CLICKHOUSE_SECURE", chConfig.Secure)
	chConfig.PoolSize = getEnvInt("CLICKHOUSE_POOL_SIZE", chConfig.PoolSize)

	pool, err := clickhouse.NewPool(ctx, chConfig.PoolSize, chConfig.AcquireTimeout, clickhouse.Dialer(chConfig), logger)
	if err != nil {
		log.Fatalf("Failed to connect to ClickHouse: %v", err)
	}
	defer pool.Close()

	documentStore := clickhouse.NewDocumentStore(pool, logger)
	if err := documentStore.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("ClickHouse connected and schema initialized")

	// ===== Text Cache (Redis if available, otherwise in-memory) =====
	var textCache driven.TextCache
	if redisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		textCache = redisadapter.NewTextCache(redisClient, redisadapter.DefaultTextTTL)
		log.Println("Using Redis text cache")
	} else {
		textCache = memory.NewTextCache()
		log.Println("Using in-memory text cache")
	}

	// ===== Driven adapters =====
	textExtractor := extractor.New()
	pipeline := scanners.DefaultPipeline(logger)

	// ===== Storage worker =====
	storageWorker := worker.New(worker.Config{
		Store:       documentStore,
		Logger:      logger,
		Concurrency: getEnvInt("WORKER_CONCURRENCY", 2),
		QueueSize:   getEnvInt("WORKER_QUEUE_SIZE", 100),
	})
	if asyncStorage {
		storageWorker.Start(ctx)
		log.Println("Storage worker started")
	}

	// ===== Services (core business logic) =====
	ingestService := services.NewIngestService(services.IngestConfig{
		Extractor: textExtractor,
		Pipeline:  pipeline,
		Cache:     textCache,
		Store:     documentStore,
		Queue:     storageWorker,
		Logger:    logger,
		Async:     asyncStorage,
	})
	documentService := services.NewDocumentService(documentStore, textCache)

	// ===== HTTP server =====
	serverConfig := http.DefaultConfig()
	serverConfig.Port = port
	serverConfig.Version = version
	serverConfig.MaxUploadBytes = int64(getEnvInt("MAX_UPLOAD_MB", 32)) << 20

	server := http.NewServer(serverConfig, ingestService, documentService, documentStore)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("API server starting on :%d", port)
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case <-ctx.Done():
	}

	// Graceful shutdown: stop accepting requests, then drain the worker so
	// acknowledged uploads reach storage.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if asyncStorage {
		log.Println("Stopping storage worker...")
		storageWorker.Stop()
	}
	log.Println("Stopped")
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
