// Package natsbus shares focusguard state over NATS: settings and stats in a
// JetStream key-value bucket, broadcasts on a plain subject.
package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/logfields"
	"github.com/xvierd/focusguard/internal/ports"
)

// Config selects the server, bucket and subject.
type Config struct {
	URL     string
	Bucket  string
	Subject string
}

// Client implements ports.KeyValueStore, ports.ChangeWatcher and
// ports.Broadcaster on one NATS connection.
type Client struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	kv      jetstream.KeyValue
	subject string
}

var (
	_ ports.KeyValueStore = (*Client)(nil)
	_ ports.ChangeWatcher = (*Client)(nil)
	_ ports.Broadcaster   = (*Client)(nil)
)

// Connect dials the server and opens (or creates) the bucket.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name("focusguard"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	c := &Client{conn: conn, js: js, subject: cfg.Subject}
	if err := c.initBucket(ctx, cfg.Bucket); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize KV bucket: %w", err)
	}

	slog.Info("NATS store ready",
		logfields.URL(cfg.URL),
		slog.String("bucket", cfg.Bucket),
		slog.String("subject", cfg.Subject))
	return c, nil
}

func (c *Client) initBucket(ctx context.Context, bucket string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	kv, err := c.js.KeyValue(ctx, bucket)
	if err == nil {
		c.kv = kv
		return nil
	}

	kv, err = c.js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "focusguard settings and statistics",
		History:     1,
	})
	if err != nil {
		return fmt.Errorf("failed to create KV bucket: %w", err)
	}
	c.kv = kv
	return nil
}

// Get decodes the value stored under key into dst.
func (c *Client) Get(ctx context.Context, key string, dst any) error {
	entry, err := c.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal(entry.Value(), dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// Set stores value under key.
func (c *Client) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if _, err := c.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

// Watch reports every key updated in the bucket until ctx is cancelled.
func (c *Client) Watch(ctx context.Context, onChange func(key string)) error {
	w, err := c.kv.WatchAll(ctx, jetstream.UpdatesOnly())
	if err != nil {
		return fmt.Errorf("failed to watch bucket: %w", err)
	}
	defer func() { _ = w.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case entry, ok := <-w.Updates():
			if !ok {
				return nil
			}
			if entry == nil {
				continue
			}
			onChange(entry.Key())
		}
	}
}

// Broadcast publishes ev as JSON on the configured subject.
func (c *Client) Broadcast(ctx context.Context, ev domain.Event) error {
	if c.subject == "" {
		return nil
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := c.conn.Publish(c.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close drains the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Drain()
}
