package events

import (
	"log/slog"
	"os"

	"coach-booking-api/internal/config"
)

// Open prefers NATS, then a Redis stream, and falls back to Noop when
// neither is configured or reachable.
func Open(cfg config.Config) Publisher {
	if cfg.NatsURL != "" {
		p, err := NewNatsPublisher(cfg.NatsURL)
		if err == nil {
			slog.Info("connected to nats", slog.String("url", cfg.NatsURL))
			return p
		}
		slog.Warn("nats unavailable, events disabled", slog.Any("err", err))
		return Noop{}
	}
	if cfg.RedisAddr != "" {
		p, err := NewRedisStreamPublisher(cfg.RedisAddr, os.Getenv("REDIS_PASSWORD"), cfg.RedisStream)
		if err == nil {
			slog.Info("connected to redis", slog.String("addr", cfg.RedisAddr), slog.String("stream", cfg.RedisStream))
			return p
		}
		slog.Warn("redis unavailable, events disabled", slog.Any("err", err))
	}
	return Noop{}
}
