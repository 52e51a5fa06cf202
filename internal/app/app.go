// Package app is the composition root: it wires configuration,
// infrastructure, repositories, and services for embedding callers
// (ingestion jobs, admin tooling, API surfaces maintained elsewhere).
package app

import (
	"context"

	advisorsrepo "leadcrm_backend/internal/advisors/repository"
	advisorssvc "leadcrm_backend/internal/advisors/service"
	"leadcrm_backend/internal/config"
	leadsrepo "leadcrm_backend/internal/leads/repository"
	leadssvc "leadcrm_backend/internal/leads/service"
	"leadcrm_backend/internal/taxonomy/cache"
	taxonomyrepo "leadcrm_backend/internal/taxonomy/repository"
	taxonomysvc "leadcrm_backend/internal/taxonomy/service"
	"leadcrm_backend/platform/db"
	"leadcrm_backend/platform/events"
	"leadcrm_backend/platform/logger"
	"leadcrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App bundles the wired services.
type App struct {
	Config   *config.Config
	Log      *logger.Logger
	Bus      events.Bus
	Taxonomy *taxonomysvc.Service
	Leads    *leadssvc.Service
	Advisors *advisorssvc.Service

	pool  *pgxpool.Pool
	redis *redis.Client
}

// New wires the application. The Redis-backed taxonomy cache is optional:
// without REDIS_ADDR each instance keeps only its in-process snapshot.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	var snapshotCache taxonomysvc.SnapshotCache
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		snapshotCache = cache.New(redisClient, cfg.TaxonomyCacheTTL)
	}

	bus := events.NewInMemoryBus(log)
	val := validator.New()

	taxoSvc := taxonomysvc.New(taxonomyrepo.New(pool), snapshotCache, log, cfg.TaxonomyCacheTTL)
	advisorsSvc := advisorssvc.New(advisorsrepo.New(pool))
	leadsSvc := leadssvc.New(leadsrepo.New(pool), taxoSvc, advisorsSvc, bus, val, log, cfg.MaxListPageSize)

	return &App{
		Config:   cfg,
		Log:      log,
		Bus:      bus,
		Taxonomy: taxoSvc,
		Leads:    leadsSvc,
		Advisors: advisorsSvc,
		pool:     pool,
		redis:    redisClient,
	}, nil
}

// Close releases infrastructure resources.
func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	a.pool.Close()
}
