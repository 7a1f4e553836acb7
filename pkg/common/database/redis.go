package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cardiocare/platform/pkg/common/config"
	"github.com/cardiocare/platform/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

func RedisAddr(cfg *config.Config) string {
	return fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort)
}

func OpenRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Log.WithError(err).Error("Failed to connect to Redis")
		_ = client.Close()
		return nil, err
	}

	logger.Log.WithField("addr", addr).Info("Connected to Redis")
	return client, nil
}
