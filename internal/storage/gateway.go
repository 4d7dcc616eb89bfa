// Package storage provides the durable key-value store behind the chat state.
package storage

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/capitalize-ai/gemini-chat/pkg/logger"
	"github.com/capitalize-ai/gemini-chat/pkg/metrics"
)

// Keys used by the application.
const (
	KeyChatrooms = "chatrooms"
	KeyDarkMode  = "darkMode"
	KeyUser      = "user"
)

var (
	// ErrNotFound is returned by a Backend when the key was never written.
	ErrNotFound = errors.New("storage: key not found")

	// ErrUnavailable is returned when no durable medium is present.
	ErrUnavailable = errors.New("storage: durable medium unavailable")
)

// Backend is a string keyed, string valued durable map.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Pinger is implemented by backends that hold a connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Gateway is the best-effort front of a Backend. Failures are logged and
// counted and never reach the caller.
type Gateway struct {
	backend Backend
	logger  *logger.Logger
}

// NewGateway wraps backend. A nil backend behaves as Unavailable.
func NewGateway(backend Backend, log *logger.Logger) *Gateway {
	if backend == nil {
		backend = NewUnavailable()
	}
	return &Gateway{
		backend: backend,
		logger:  logger.OrNop(log).Named("storage").With(zap.String("backend", backend.Name())),
	}
}

// Backend returns the backend name.
func (g *Gateway) Backend() string {
	return g.backend.Name()
}

// Durable reports whether writes can outlive the process.
func (g *Gateway) Durable() bool {
	switch g.backend.(type) {
	case *Unavailable, *Memory:
		return false
	}
	return true
}

// Load returns the stored value for key, or false if it was never written
// or the backend could not be read.
func (g *Gateway) Load(ctx context.Context, key string) (string, bool) {
	value, err := g.Read(ctx, key)
	return value, err == nil
}

// Read is Load for callers that must tell a key that was never written
// (ErrNotFound, ErrUnavailable) from a backend that failed to answer.
func (g *Gateway) Read(ctx context.Context, key string) (string, error) {
	value, err := g.backend.Get(ctx, key)
	switch {
	case err == nil:
		metrics.RecordStorageOp(g.backend.Name(), "load", "hit")
		return value, nil
	case errors.Is(err, ErrNotFound):
		metrics.RecordStorageOp(g.backend.Name(), "load", "miss")
	case errors.Is(err, ErrUnavailable):
		metrics.RecordStorageOp(g.backend.Name(), "load", "unavailable")
	default:
		metrics.RecordStorageOp(g.backend.Name(), "load", "error")
		g.logger.Warn("load failed", zap.String("key", key), zap.Error(err))
	}
	return "", err
}

// Save stores value under key.
func (g *Gateway) Save(ctx context.Context, key, value string) {
	err := g.backend.Put(ctx, key, value)
	switch {
	case err == nil:
		metrics.RecordStorageOp(g.backend.Name(), "save", "ok")
		metrics.StorageWriteBytes.WithLabelValues(g.backend.Name(), key).Observe(float64(len(value)))
	case errors.Is(err, ErrUnavailable):
		metrics.RecordStorageOp(g.backend.Name(), "save", "unavailable")
	default:
		metrics.RecordStorageOp(g.backend.Name(), "save", "error")
		g.logger.Warn("save failed", zap.String("key", key), zap.Int("bytes", len(value)), zap.Error(err))
	}
}

// Remove deletes key.
func (g *Gateway) Remove(ctx context.Context, key string) {
	err := g.backend.Delete(ctx, key)
	switch {
	case err == nil:
		metrics.RecordStorageOp(g.backend.Name(), "remove", "ok")
	case errors.Is(err, ErrUnavailable):
		metrics.RecordStorageOp(g.backend.Name(), "remove", "unavailable")
	default:
		metrics.RecordStorageOp(g.backend.Name(), "remove", "error")
		g.logger.Warn("remove failed", zap.String("key", key), zap.Error(err))
	}
}

// Ping checks the backend's connection when it has one.
func (g *Gateway) Ping(ctx context.Context) error {
	if p, ok := g.backend.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close closes the backend.
func (g *Gateway) Close() error {
	return g.backend.Close()
}
