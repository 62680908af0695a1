package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/guru-api/internal/config"
	"github.com/kitbuilder587/guru-api/internal/httpapi"
	"github.com/kitbuilder587/guru-api/internal/llm/groq"
	"github.com/kitbuilder587/guru-api/internal/metrics"
	"github.com/kitbuilder587/guru-api/internal/prompt"
	"github.com/kitbuilder587/guru-api/internal/ratelimit"
	"github.com/kitbuilder587/guru-api/internal/repository/postgres"
	"github.com/kitbuilder587/guru-api/internal/service"
)

const (
	shutdownTimeout = 10 * time.Second
	cleanupInterval = time.Minute
)

func main() {
	os.Exit(start())
}

// start returns the process exit code so deferred cleanup, including the
// logger flush, runs before os.Exit.
func start() int {
	// a missing .env is fine, real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 1
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return 1
	}
	logger.Info("server stopped")
	return 0
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	systemPrompt, err := prompt.Load(cfg.LLM.SystemPromptFile)
	if err != nil {
		return err
	}

	client := groq.New(groq.Config{
		APIKey:       cfg.LLM.APIKey,
		BaseURL:      cfg.LLM.BaseURL,
		Model:        cfg.LLM.Model,
		SystemPrompt: systemPrompt,
	}, logger)

	g, gctx := errgroup.WithContext(ctx)

	var rdb *redis.Client
	if cfg.UsesRedis() {
		rdb, err = connectRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
	}

	var store ratelimit.Store
	switch cfg.RateLimit.Store {
	case config.StoreRedis:
		store = ratelimit.NewRedisStore(rdb)
	case config.StorePostgres:
		db, err := postgres.New(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			return err
		}
		repo := postgres.NewRateWindowRepo(db)
		g.Go(func() error {
			pruneWindows(gctx, repo, logger)
			return nil
		})
		store = repo
	default:
		mem := ratelimit.NewMemoryStore()
		mem.StartJanitor(gctx, cleanupInterval)
		store = mem
	}

	var stats ratelimit.StatsRecorder
	if cfg.RateLimit.StatsEnabled {
		stats = ratelimit.NewRedisStats(rdb)
	}

	asker := service.NewAskService(service.AskServiceDeps{
		LLM:        client,
		Logger:     logger,
		Metrics:    m,
		Model:      client.Model(),
		Validation: cfg.AnswerValidation,
	})

	handler := httpapi.New(httpapi.Deps{
		Asker: asker,
		Limiter: ratelimit.New(store, ratelimit.Config{
			Limit:  cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		Stats:      stats,
		Logger:     logger,
		Metrics:    m,
		TrustProxy: cfg.Server.TrustProxy,
	})

	srv := newServer(":"+cfg.Server.Port, handler.Routes())
	serve(gctx, g, srv, logger)

	if cfg.Metrics.Enabled() {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", m.Handler())
		serve(gctx, g, newServer(":"+cfg.Metrics.Port, mux), logger)
	}

	logger.Info("server is running",
		zap.String("port", cfg.Server.Port),
		zap.String("model", client.Model()),
		zap.String("rate_limit_store", cfg.RateLimit.Store),
		zap.Int("rate_limit_max", cfg.RateLimit.Max),
		zap.Duration("rate_limit_window", cfg.RateLimit.Window),
	)

	return g.Wait()
}

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, g *errgroup.Group, srv *http.Server, logger *zap.Logger) {
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down", zap.String("addr", srv.Addr))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func pruneWindows(ctx context.Context, repo *postgres.RateWindowRepo, logger *zap.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("failed to prune rate limit windows", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Debug("pruned rate limit windows", zap.Int64("count", n))
			}
		}
	}
}
