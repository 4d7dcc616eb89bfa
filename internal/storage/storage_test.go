package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	natsclient "github.com/capitalize-ai/gemini-chat/internal/nats"
)

// exerciseBackend runs the contract every durable backend must satisfy.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	if _, err := b.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := b.Put(ctx, KeyChatrooms, `{"version":2,"chatrooms":[]}`); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := b.Put(ctx, KeyChatrooms, `{"version":2,"chatrooms":[{"id":"a"}]}`); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err := b.Get(ctx, KeyChatrooms)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != `{"version":2,"chatrooms":[{"id":"a"}]}` {
		t.Errorf("Get = %q", got)
	}

	if err := b.Delete(ctx, KeyChatrooms); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := b.Get(ctx, KeyChatrooms); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete error = %v", err)
	}
	if err := b.Delete(ctx, KeyChatrooms); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemory())
}

func TestUnavailableBackend(t *testing.T) {
	ctx := context.Background()
	b := NewUnavailable()

	if _, err := b.Get(ctx, KeyUser); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Get error = %v", err)
	}
	if err := b.Put(ctx, KeyUser, "x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Put error = %v", err)
	}
	if err := b.Delete(ctx, KeyUser); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Delete error = %v", err)
	}
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	b, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	exerciseBackend(t, b)
}

func TestFileBackendSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	first, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := first.Put(ctx, KeyDarkMode, "true"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	second, err := NewFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := second.Get(ctx, KeyDarkMode)
	if err != nil || got != "true" {
		t.Errorf("Get after reopen = %q, %v", got, err)
	}
}

func TestFileBackendRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFile(path); err == nil {
		t.Error("expected an error for a corrupt file")
	}
}

func TestFileBackendRequiresPath(t *testing.T) {
	if _, err := NewFile(""); err == nil {
		t.Error("expected an error for an empty path")
	}
}

func TestSQLiteBackend(t *testing.T) {
	b, err := NewSQLite(filepath.Join(t.TempDir(), "chat.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer b.Close()

	exerciseBackend(t, b)
	if err := b.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestPostgresBackend(t *testing.T) {
	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		t.Skip("POSTGRES_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	b, err := NewPostgres(ctx, url)
	if err != nil {
		t.Fatalf("NewPostgres: %v", err)
	}
	defer b.Close()
	exerciseBackend(t, b)
}

func TestRedisBackend(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	b, err := NewRedis(ctx, RedisConfig{Address: addr, Prefix: "gemini-chat-test:"})
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer b.Close()
	exerciseBackend(t, b)
}

func TestNATSBackend(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := natsclient.Connect(ctx, natsclient.Config{URL: url}, nil)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	b, err := NewNATS(ctx, client, "GEMINI_CHAT_TEST")
	if err != nil {
		client.Close()
		t.Fatalf("NewNATS: %v", err)
	}
	defer b.Close()
	exerciseBackend(t, b)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{name: "memory", cfg: Config{Backend: "memory"}, want: "memory"},
		{name: "none", cfg: Config{Backend: "none"}, want: "none"},
		{name: "default is file", cfg: Config{FilePath: filepath.Join(dir, "a.json")}, want: "file"},
		{name: "case insensitive", cfg: Config{Backend: "SQLite", SQLitePath: filepath.Join(dir, "a.db")}, want: "sqlite"},
		{name: "unknown", cfg: Config{Backend: "etcd"}, wantErr: true},
		{name: "file without path", cfg: Config{Backend: "file"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Open(context.Background(), tt.cfg, nil)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got backend %s", b.Name())
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer b.Close()
			if b.Name() != tt.want {
				t.Errorf("Name() = %s, want %s", b.Name(), tt.want)
			}
		})
	}
}

func TestOpenGatewayFallsBack(t *testing.T) {
	g := OpenGateway(context.Background(), Config{Backend: "etcd"}, nil)
	if g.Backend() != "none" {
		t.Errorf("Backend() = %s, want none", g.Backend())
	}
	if g.Durable() {
		t.Error("fallback gateway should not be durable")
	}
}

type failingBackend struct {
	err error
}

func (f failingBackend) Name() string { return "failing" }
func (f failingBackend) Get(context.Context, string) (string, error) { return "", f.err }
func (f failingBackend) Put(context.Context, string, string) error { return f.err }
func (f failingBackend) Delete(context.Context, string) error { return f.err }
func (f failingBackend) Close() error { return nil }
func (f failingBackend) Ping(context.Context) error { return f.err }

func TestGatewaySwallowsFailures(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(failingBackend{err: errors.New("disk on fire")}, nil)

	if _, ok := g.Load(ctx, KeyChatrooms); ok {
		t.Error("Load should report false on a failing backend")
	}
	g.Save(ctx, KeyChatrooms, "{}")
	g.Remove(ctx, KeyChatrooms)

	if !g.Durable() {
		t.Error("an unknown backend counts as durable")
	}
	if err := g.Ping(ctx); err == nil {
		t.Error("Ping should surface the backend error")
	}
}

func TestGateway(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(NewMemory(), nil)

	if _, ok := g.Load(ctx, KeyUser); ok {
		t.Error("Load of unwritten key should miss")
	}
	g.Save(ctx, KeyUser, `{"phoneNumber":"5551234567"}`)
	got, ok := g.Load(ctx, KeyUser)
	if !ok || got != `{"phoneNumber":"5551234567"}` {
		t.Errorf("Load = %q, %v", got, ok)
	}
	g.Remove(ctx, KeyUser)
	if _, ok := g.Load(ctx, KeyUser); ok {
		t.Error("Load after Remove should miss")
	}
	if err := g.Ping(ctx); err != nil {
		t.Errorf("memory Ping: %v", err)
	}
	if g.Durable() {
		t.Error("memory backend is not durable")
	}
}

func TestNilBackendIsUnavailable(t *testing.T) {
	g := NewGateway(nil, nil)
	if g.Backend() != "none" {
		t.Errorf("Backend() = %s", g.Backend())
	}
	g.Save(context.Background(), KeyDarkMode, "true")
	if _, ok := g.Load(context.Background(), KeyDarkMode); ok {
		t.Error("unavailable gateway should never load")
	}
}

func TestGatewayReadSeparatesMissFromFailure(t *testing.T) {
	ctx := context.Background()
	reset := errors.New("connection reset")

	tests := []struct {
		name    string
		backend Backend
		wantErr error
	}{
		{name: "never written", backend: NewMemory(), wantErr: ErrNotFound},
		{name: "no medium", backend: NewUnavailable(), wantErr: ErrUnavailable},
		{name: "backend failure", backend: failingBackend{err: reset}, wantErr: reset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGateway(tt.backend, nil).Read(ctx, KeyChatrooms)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Read error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	g := NewGateway(NewMemory(), nil)
	g.Save(ctx, KeyChatrooms, "[]")
	if got, err := g.Read(ctx, KeyChatrooms); err != nil || got != "[]" {
		t.Errorf("Read = %q, %v", got, err)
	}
}
