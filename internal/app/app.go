// Package app assembles the recommendation engine from configuration. It is
// shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/homesense/internal/config"
	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/Harshitk-cp/homesense/internal/llm"
	"github.com/Harshitk-cp/homesense/internal/metrics"
	"github.com/Harshitk-cp/homesense/internal/rules"
	"github.com/Harshitk-cp/homesense/internal/service"
	"github.com/Harshitk-cp/homesense/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Components are the wired collaborators plus the resources to release.
type Components struct {
	Tables      *rules.Tables
	Recommender *service.Recommender
	Sessions    *service.SessionManager
	Profiles    domain.ProfileStore
	Metrics     *metrics.Metrics

	closers []func()
}

// Close releases database and cache connections.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build reads configuration and wires rule tables, the LLM client, the
// profile and session stores and the session manager.
func Build(ctx context.Context, logger *zap.Logger) (*Components, error) {
	c := &Components{Metrics: metrics.New("homesense")}

	tables := rules.Default()
	if path := config.RulesPath(); path != "" {
		t, err := rules.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		tables = t
		logger.Info("loaded rule tables", zap.String("path", path))
	}
	c.Tables = tables

	llmCfg := config.LLMConfig()
	var llmClient domain.LLMClient
	client, err := llm.NewClient(llmCfg)
	if err != nil {
		// The engine still serves keyword matches; fallback turns fail with
		// service.ErrFallbackUnavailable.
		logger.Warn("LLM client initialization failed", zap.String("provider", llmCfg.Provider), zap.Error(err))
	} else {
		llmClient = client
		logger.Info("LLM client initialized", zap.String("provider", llmCfg.Provider))
	}

	profiles, err := c.profileStore(ctx, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Profiles = profiles

	sessions, err := c.sessionStore(logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Recommender = service.NewRecommender(tables, llmClient, logger,
		service.WithLocation(config.Location()),
		service.WithMetrics(c.Metrics))
	c.Sessions = service.NewSessionManager(sessions, profiles, c.Recommender, config.HistorySize(), c.Metrics, logger)
	return c, nil
}

func (c *Components) profileStore(ctx context.Context, logger *zap.Logger) (domain.ProfileStore, error) {
	switch kind := config.ProfileStore(); kind {
	case "file":
		logger.Info("using file profile store", zap.String("dir", config.ProfileDir()))
		return store.NewFileProfileStore(config.ProfileDir()), nil

	case "postgres":
		dbURL := config.DatabaseURL()
		if dbURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for postgres profile store")
		}
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		c.closers = append(c.closers, pool.Close)
		logger.Info("connected to database")
		return store.NewPostgresProfileStore(pool), nil

	default:
		return nil, fmt.Errorf("unknown PROFILE_STORE: %s (valid options: file, postgres)", kind)
	}
}

func (c *Components) sessionStore(logger *zap.Logger) (domain.SessionStore, error) {
	switch kind := config.SessionStore(); kind {
	case "memory":
		return store.NewMemorySessionStore(config.SessionTTL()), nil

	case "redis":
		redisURL := config.RedisURL()
		if redisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required for redis session store")
		}
		s, err := store.NewRedisSessionStoreFromURL(redisURL, config.SessionTTL())
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() { _ = s.Close() })
		logger.Info("connected to redis", zap.Duration("session_ttl", config.SessionTTL()))
		return s, nil

	default:
		return nil, fmt.Errorf("unknown SESSION_STORE: %s (valid options: memory, redis)", kind)
	}
}
