package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"docsite/internal/auth"
	"docsite/internal/config"
	"docsite/internal/content"
	"docsite/internal/domain/repositories"
	"docsite/internal/handler"
	"docsite/internal/handler/sse"
	"docsite/internal/middleware"
	"docsite/internal/render"
	"docsite/internal/repository/memory"
	"docsite/internal/repository/postgres"
	"docsite/internal/service/chat"
	"docsite/internal/service/generation"
	"docsite/internal/service/library"
	serviceLLM "docsite/internal/service/llm"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logWriter, closeLog, err := config.LogWriter(cfg, "server")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	logger := config.NewLogger(cfg, logWriter)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"provider", cfg.LLMProvider,
		"generation_model", cfg.GenerationModel,
		"chat_model", cfg.ChatModel,
	)

	ctx := context.Background()

	// Storage: Postgres when configured, in-memory otherwise
	var (
		docRepo   repositories.GeneratedDocRepository
		txManager repositories.TransactionManager
		pinger    handler.Pinger
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, tables); err != nil {
				log.Fatalf("Failed to migrate schema: %v", err)
			}
			logger.Info("schema migrated", "table_prefix", cfg.TablePrefix)
		}

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		docRepo = postgres.NewGeneratedDocRepository(repoConfig)
		txManager = postgres.NewTransactionManager(pool, logger)
		pinger = pool
		logger.Info("database connected", "table_prefix", cfg.TablePrefix)
	} else {
		store := memory.NewStore()
		docRepo, txManager = store, store
		logger.Warn("DATABASE_URL not set, saved documentation is kept in memory only")
	}

	provider, err := serviceLLM.SetupProvider(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup LLM provider: %v", err)
	}

	catalog, err := content.Load()
	if err != nil {
		log.Fatalf("Failed to load documentation catalog: %v", err)
	}
	renderer := render.NewRenderer(cfg.CodeStyle)

	generationService := generation.NewService(provider, docRepo, txManager, generation.Config{
		Model:   cfg.GenerationModel,
		Timeout: cfg.GenerationTimeout,
	}, logger)
	chatService := chat.NewService(provider, chat.Config{
		Model:         cfg.ChatModel,
		Timeout:       cfg.ChatTimeout,
		HistoryWindow: cfg.ChatHistoryWindow,
	}, logger)
	libraryService := library.NewService(docRepo, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	limiter := middleware.NewRateLimiter(cfg.GenerateRatePerMinute)
	handler.RegisterRoutes(mux, handler.Handlers{
		Generate: handler.NewGenerateHandler(generationService, logger),
		Chat:     handler.NewChatHandler(chatService, sse.DefaultConfig(), logger),
		Library:  handler.NewLibraryHandler(libraryService, logger),
		Search:   handler.NewSearchHandler(catalog),
		Pages:    handler.NewPageHandler(catalog, libraryService, generationService, renderer, logger),
		Health:   handler.NewHealthHandler(pinger),
	}, limiter.Limit)

	verifier, err := setupVerifier(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create bearer verifier: %v", err)
	}
	if verifier != nil {
		defer verifier.Close()
	}

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	var h http.Handler = mux
	h = middleware.Auth(verifier, middleware.APIRoutes, logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "apikey", "x-client-info"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// setupVerifier builds the bearer check from whichever credentials are
// configured. It returns nil when none are, which leaves the API open.
func setupVerifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (auth.Verifier, error) {
	var chain auth.Chain
	if cfg.APIKey != "" {
		chain = append(chain, auth.NewAPIKeyVerifier(cfg.APIKey))
	}
	if cfg.JWTSecret != "" {
		chain = append(chain, auth.NewHMACVerifier(cfg.JWTSecret, logger))
	}
	if cfg.JWKSURL != "" {
		jwks, err := auth.NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
		if err != nil {
			return nil, err
		}
		chain = append(chain, jwks)
	}

	if len(chain) == 0 {
		logger.Warn("no API_KEY, JWT_SECRET or JWKS_URL configured, API endpoints are unauthenticated")
		return nil, nil
	}
	return chain, nil
}
