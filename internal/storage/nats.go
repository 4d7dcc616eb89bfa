package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	natsclient "github.com/capitalize-ai/gemini-chat/internal/nats"
)

// NATS stores keys in a JetStream key-value bucket.
type NATS struct {
	client *natsclient.Client
	kv     jetstream.KeyValue
}

// NewNATS binds to (creating if needed) the bucket on client. The backend
// owns client and closes it on Close.
func NewNATS(ctx context.Context, client *natsclient.Client, bucket string) (*NATS, error) {
	kv, err := client.EnsureBucket(ctx, bucket)
	if err != nil {
		return nil, err
	}
	return &NATS{client: client, kv: kv}, nil
}

func (n *NATS) Name() string { return "nats" }

func (n *NATS) Get(ctx context.Context, key string) (string, error) {
	entry, err := n.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("kv get %q: %w", key, err)
	}
	return string(entry.Value()), nil
}

func (n *NATS) Put(ctx context.Context, key, value string) error {
	if _, err := n.kv.Put(ctx, key, []byte(value)); err != nil {
		return fmt.Errorf("kv put %q: %w", key, err)
	}
	return nil
}

func (n *NATS) Delete(ctx context.Context, key string) error {
	err := n.kv.Delete(ctx, key)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

func (n *NATS) Close() error {
	n.client.Close()
	return nil
}

// Ping reports whether the NATS connection is up.
func (n *NATS) Ping(context.Context) error {
	if !n.client.IsConnected() {
		return errors.New("nats not connected")
	}
	return nil
}
