package app

import (
	"context"
	"net"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/dkotelnikov/go-todolist/internal/config"
)

var globalRedisClient *redis.Client

// MustConnectRedis is a no-op unless redis is enabled; the statistics
// cache degrades to a permanent miss without it.
func MustConnectRedis() {
	cfg := config.Global().Redis
	if !cfg.Enabled {
		globalLogger.Info().Msg("redis disabled, statistics cache off")
		return
	}

	globalRedisClient = redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	err := globalRedisClient.Ping(context.Background()).Err()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping redis")
		panic(err)
	}
	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to redis")
}

func DisconnectRedis() {
	if globalRedisClient == nil {
		return
	}
	if err := globalRedisClient.Close(); err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to close redis client")
		return
	}
	globalLogger.Info().Msg("disconnected from redis")
}
