package storage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	natsclient "github.com/capitalize-ai/gemini-chat/internal/nats"
	"github.com/capitalize-ai/gemini-chat/pkg/logger"
)

// Config selects and configures a Backend.
type Config struct {
	// Backend is one of memory, none, file, sqlite, postgres, redis, nats.
	Backend string

	FilePath    string
	SQLitePath  string
	PostgresURL string
	Redis       RedisConfig
	NATS        natsclient.Config
	NATSBucket  string
}

// Open constructs the configured backend. Callers that want to keep running
// without durability should fall back to NewUnavailable on error.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (Backend, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "file":
		return NewFile(cfg.FilePath)
	case "memory":
		return NewMemory(), nil
	case "none":
		return NewUnavailable(), nil
	case "sqlite":
		return NewSQLite(cfg.SQLitePath)
	case "postgres":
		return NewPostgres(ctx, cfg.PostgresURL)
	case "redis":
		return NewRedis(ctx, cfg.Redis)
	case "nats":
		client, err := natsclient.Connect(ctx, cfg.NATS, log)
		if err != nil {
			return nil, err
		}
		b, err := NewNATS(ctx, client, cfg.NATSBucket)
		if err != nil {
			client.Close()
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

// OpenGateway opens the configured backend behind a Gateway. If the backend
// cannot be opened the gateway runs without durable storage.
func OpenGateway(ctx context.Context, cfg Config, log *logger.Logger) *Gateway {
	log = logger.OrNop(log)

	backend, err := Open(ctx, cfg, log)
	if err != nil {
		log.Warn("storage unavailable, running without persistence",
			zap.String("backend", cfg.Backend),
			zap.Error(err),
		)
		backend = NewUnavailable()
	}
	return NewGateway(backend, log)
}
