package natsbus

import (
	"context"
	"testing"
	"time"
)

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := Connect(ctx, Config{URL: "nats://127.0.0.1:1", Bucket: "focusguard", Subject: "focusguard.events"})
	if err == nil {
		t.Fatal("Connect() to a closed port succeeded")
	}
}

func TestClose_NilConnection(t *testing.T) {
	var c Client
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
