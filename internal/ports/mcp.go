package ports

import (
	"context"

	"github.com/xvierd/focusguard/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MessageHandler answers protocol messages. Failures are reported in the
// response, never as errors.
// This is a driving port (implemented by the router and the daemon client).
type MessageHandler interface {
	Handle(ctx context.Context, msg domain.Message) domain.Response
}
