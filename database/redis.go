package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mine969/authsessionapi/config"
	"github.com/mine969/authsessionapi/shared/zaplogger"
)

// ConnectRedis connects to the Redis session store and verifies it is reachable
func ConnectRedis(cfg *config.Config) (*redis.Client, error) {
	zaplogger.Info(config.SingleLine)
	zaplogger.Info("Connecting to Redis")

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	redisClient := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	zaplogger.Info("  * connected")

	return redisClient, nil
}
