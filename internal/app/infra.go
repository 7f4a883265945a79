package app

import (
	"context"
	"time"

	"user-service/internal/config"
	"user-service/internal/db"
	"user-service/internal/redis"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Infra holds the optional external collaborators. Nil fields mean the
// corresponding in-memory implementation is used instead.
type Infra struct {
	DB    *sqlx.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) (*Infra, error) {
	infra := &Infra{}

	if cfg.DatabaseDSN != "" {
		sqlDB, err := sqlx.Open("postgres", cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			return nil, err
		}

		if err := db.EnsureSchema(ctx, sqlDB); err != nil {
			return nil, err
		}

		infra.DB = sqlDB
		log.Infow("database ready")
	}

	if cfg.RedisAddr != "" {
		redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}

		infra.Redis = redisClient
		log.Infow("redis ready")
	}

	return infra, nil
}
