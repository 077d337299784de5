package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/config"
	dbRedis "github.com/kailas-cloud/recommender/internal/db/redis"
	"github.com/kailas-cloud/recommender/internal/domain"
	"github.com/kailas-cloud/recommender/internal/domain/index"
	"github.com/kailas-cloud/recommender/internal/domain/search/request"
	"github.com/kailas-cloud/recommender/internal/encoder/hashing"
	logpkg "github.com/kailas-cloud/recommender/internal/logger"
	"github.com/kailas-cloud/recommender/internal/metrics"
	catalogrepo "github.com/kailas-cloud/recommender/internal/repository/catalog"
	chiTransport "github.com/kailas-cloud/recommender/internal/transport/chi"
	openaiEnc "github.com/kailas-cloud/recommender/internal/transport/openai"
	cataloguc "github.com/kailas-cloud/recommender/internal/usecase/catalog"
	encodinguc "github.com/kailas-cloud/recommender/internal/usecase/encoding"
	healthuc "github.com/kailas-cloud/recommender/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/recommender/internal/usecase/recommend"
	"github.com/kailas-cloud/recommender/internal/version"
)

func main() {
	// A missing .env is fine: real deployments set the environment directly.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting recommender API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.String("encoder_provider", cfg.Encoder.Provider),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterEncoderMetrics()
	metrics.RegisterRetrievalMetrics()

	ctx := context.Background()

	// Encoder chain: base -> instrumented -> serialized -> instruction
	base := buildBaseEncoder(cfg.Encoder, logger)
	docEncoder := withInstruction(base, cfg.Encoder.DocumentInstruction)
	queryEncoder := withInstruction(base, cfg.Encoder.QueryInstruction)
	logger.Info("Encoders created",
		zap.String("provider", cfg.Encoder.Provider),
		zap.Int("dimensions", cfg.Encoder.Dimensions),
		zap.Bool("serialized", cfg.Encoder.Serialize),
	)

	loader, sourcePinger, closeSource := buildLoader(ctx, cfg, logger)
	defer closeSource()

	// Catalog index, published through an atomic holder
	holder := index.NewHolder(nil)
	catalogSvc := cataloguc.New(docEncoder, loader, holder, logger).
		WithConcurrency(cfg.Retrieval.BuildConcurrency)

	report, err := catalogSvc.Reload(ctx)
	if err != nil {
		logger.Fatal("Failed to build catalog index", zap.Error(err))
	}
	if report.Skipped > 0 {
		logger.Warn("Catalog items skipped at startup",
			zap.Int("skipped", report.Skipped),
			zap.Int64s("skipped_ids", report.SkippedIDs),
		)
	}

	recommendSvc := recommenduc.New(holder, queryEncoder, logger)

	healthSvc := healthuc.New(holder, sourcePinger, newEncoderHealthChecker(base))

	server := chiTransport.NewServer(recommendSvc, catalogSvc, healthSvc, logger).
		WithLimits(request.Limits{
			DefaultTopK: cfg.Retrieval.DefaultTopK,
			MaxTopK:     cfg.Retrieval.MaxTopK,
		})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildBaseEncoder creates the provider encoder wrapped with logging and metrics.
// The OpenAI transport records its own request metrics, so only the local
// encoder gets them from the instrumented layer.
func buildBaseEncoder(cfg config.EncoderConfig, logger *zap.Logger) domain.Encoder {
	var instrumented *encodinguc.InstrumentedEncoder
	switch cfg.Provider {
	case config.ProviderOpenAI:
		base := openaiEnc.NewEncoder(&openaiEnc.Config{
			APIKey:     cfg.OpenAI.APIKey,
			BaseURL:    cfg.OpenAI.BaseURL,
			Model:      cfg.OpenAI.Model,
			Dimensions: cfg.Dimensions,
			Provider:   cfg.Provider,
			Logger:     logger,
		})
		instrumented = encodinguc.NewInstrumentedEncoder(base, cfg.Provider, cfg.OpenAI.Model, logger)
	default:
		base := hashing.New(cfg.Dimensions)
		model := fmt.Sprintf("fnv-bow-%d", base.Dimensions())
		instrumented = encodinguc.NewInstrumentedEncoder(base, cfg.Provider, model, logger).WithMetrics()
	}

	var enc domain.Encoder = instrumented
	if cfg.Serialize {
		enc = encodinguc.NewSerializedEncoder(enc)
	}
	return enc
}

// withInstruction adds the instruction prefix (outermost) when configured.
func withInstruction(base domain.Encoder, instruction string) domain.Encoder {
	if instruction != "" {
		return domain.NewInstructionEncoder(base, instruction)
	}
	return base
}

// buildLoader creates the configured catalog source. The returned pinger is a
// nil interface (not a typed nil pointer) for the file source.
func buildLoader(
	ctx context.Context,
	cfg config.Config,
	logger *zap.Logger,
) (cataloguc.Loader, healthuc.SourcePinger, func()) {
	switch cfg.Catalog.Source {
	case config.SourceRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create redis store", zap.Error(err))
		}
		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Redis not ready", zap.Error(err))
		}
		logger.Info("Connected to redis", zap.Strings("addrs", cfg.Database.Addrs))

		src := catalogrepo.NewRedisSource(store, cfg.Catalog.RedisKey)
		if cfg.Catalog.SeedPath != "" {
			seedRedis(ctx, src, cfg.Catalog.SeedPath, logger)
		}
		return src, store, store.Close

	case config.SourceSQLite:
		conn, err := catalogrepo.OpenSQLite(cfg.Catalog.SQLiteDSN)
		if err != nil {
			logger.Fatal("Failed to open sqlite catalog", zap.Error(err))
		}
		src, err := catalogrepo.NewSQLiteSource(conn, cfg.Catalog.SQLiteTable)
		if err != nil {
			_ = conn.Close()
			logger.Fatal("Invalid sqlite catalog", zap.Error(err))
		}
		return src, src, closeDB(conn, logger)

	default:
		return catalogrepo.NewFileSource(cfg.Catalog.Path), nil, func() {}
	}
}

// seedRedis writes the catalog file into redis before the first build.
func seedRedis(ctx context.Context, dst *catalogrepo.RedisSource, path string, logger *zap.Logger) {
	items, err := catalogrepo.NewFileSource(path).Load(ctx)
	if err != nil {
		logger.Fatal("Failed to read catalog seed", zap.String("path", path), zap.Error(err))
	}
	if err := dst.Save(ctx, items); err != nil {
		logger.Fatal("Failed to seed redis catalog", zap.Error(err))
	}
	logger.Info("Seeded redis catalog", zap.String("path", path), zap.Int("items", len(items)))
}

func closeDB(conn *sql.DB, logger *zap.Logger) func() {
	return func() {
		if err := conn.Close(); err != nil {
			logger.Warn("Failed to close sqlite catalog", zap.Error(err))
		}
	}
}

// encoderHealthChecker wraps domain.Encoder to implement health.EncoderChecker.
type encoderHealthChecker struct {
	encoder domain.Encoder
}

func newEncoderHealthChecker(encoder domain.Encoder) *encoderHealthChecker {
	return &encoderHealthChecker{encoder: encoder}
}

func (h *encoderHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.encoder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("encoder health check: %w", err)
		}
	}
	return nil
}
