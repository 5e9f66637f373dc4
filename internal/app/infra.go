package app

import (
	"context"

	"events-backend/internal/config"
	"events-backend/internal/db"
	"events-backend/internal/logger"
	"events-backend/internal/redis"

	_ "github.com/lib/pq"
)

type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := db.RunMigration(ctx, database); err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}

	logger.Info("redis ready", nil)

	return &Infra{
		DB:    database,
		Redis: redisClient,
	}, nil
}

func (i *Infra) Close() error {
	if err := i.Redis.Close(); err != nil {
		return err
	}
	return i.DB.Close()
}
