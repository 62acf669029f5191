// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/ports"
)

// SiteManager edits the blocklist.
type SiteManager interface {
	Load(ctx context.Context) (domain.Settings, error)
	AddSite(ctx context.Context, raw string) (string, error)
	RemoveSite(ctx context.Context, site string) error
}

// StatsReader reads the usage counters.
type StatsReader interface {
	Load(ctx context.Context) (domain.Stats, error)
}

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server   *server.MCPServer
	messages ports.MessageHandler
	sites    SiteManager
	stats    StatsReader
	ctx      context.Context
	cancel   context.CancelFunc
}

// Option configures a Server.
type Option func(*Server)

// WithSites exposes the blocklist tools.
func WithSites(sites SiteManager) Option {
	return func(s *Server) { s.sites = sites }
}

// WithStats exposes the get_stats tool.
func WithStats(stats StatsReader) Option {
	return func(s *Server) { s.stats = stats }
}

// NewServer creates a new MCP server instance that forwards timer actions
// to messages.
func NewServer(messages ports.MessageHandler, opts ...Option) *Server {
	s := &Server{messages: messages}
	for _, opt := range opts {
		opt(s)
	}

	s.server = server.NewMCPServer(
		"focusguard",
		"1.0.0",
		server.WithLogging(),
	)
	s.registerTools()
	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_timer_state",
			mcp.WithDescription("Get the focus timer state: running, on break, seconds remaining and configured durations"),
		),
		s.handleGetTimerState,
	)

	s.server.AddTool(
		mcp.NewTool(
			"start_timer",
			mcp.WithDescription("Start a focus session. Distracting sites are blocked until the break"),
		),
		s.action(domain.ActionStartTimer),
	)

	s.server.AddTool(
		mcp.NewTool(
			"stop_timer",
			mcp.WithDescription("Pause the timer, keeping the remaining time"),
		),
		s.action(domain.ActionStopTimer),
	)

	s.server.AddTool(
		mcp.NewTool(
			"reset_timer",
			mcp.WithDescription("Stop the timer and reset it to a full focus session"),
		),
		s.action(domain.ActionResetTimer),
	)

	s.server.AddTool(
		mcp.NewTool(
			"update_settings",
			mcp.WithDescription("Reload focus and break durations after they were changed"),
		),
		s.action(domain.ActionUpdateSettings),
	)

	greyscaleTool := mcp.NewTool(
		"toggle_greyscale",
		mcp.WithDescription("Turn the greyscale filter on or off for every open page"),
		mcp.WithBoolean(
			"enabled",
			mcp.Required(),
			mcp.Description("true to make pages grey, false to restore colour"),
		),
	)
	s.server.AddTool(greyscaleTool, s.handleToggleGreyscale)

	if s.sites != nil {
		s.server.AddTool(
			mcp.NewTool(
				"list_blocked_sites",
				mcp.WithDescription("List the sites blocked during focus sessions"),
			),
			s.handleListSites,
		)

		addSiteTool := mcp.NewTool(
			"add_blocked_site",
			mcp.WithDescription("Block a site during focus sessions"),
			mcp.WithString(
				"site",
				mcp.Required(),
				mcp.Description("Domain or URL, e.g. reddit.com"),
			),
		)
		s.server.AddTool(addSiteTool, s.handleAddSite)

		removeSiteTool := mcp.NewTool(
			"remove_blocked_site",
			mcp.WithDescription("Stop blocking a site"),
			mcp.WithString(
				"site",
				mcp.Required(),
				mcp.Description("The blocklist entry to remove"),
			),
		)
		s.server.AddTool(removeSiteTool, s.handleRemoveSite)
	}

	if s.stats != nil {
		s.server.AddTool(
			mcp.NewTool(
				"get_stats",
				mcp.WithDescription("Get focus minutes, completed pomodoros, blocked attempts and the daily streak"),
			),
			s.handleGetStats,
		)
	}
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	// Start the stdio server
	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func (s *Server) handleGetTimerState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp := s.messages.Handle(ctx, domain.Message{Action: domain.ActionGetTimerState})
	if resp.State == nil {
		return mcp.NewToolResultError("timer state unavailable; is the daemon running?"), nil
	}

	state := resp.State
	result := map[string]interface{}{
		"phase":           state.Phase().Label(),
		"is_running":      state.IsRunning,
		"is_break":        state.IsBreak,
		"time_remaining":  state.TimeRemaining,
		"focus_duration":  state.FocusDuration,
		"break_duration":  state.BreakDuration,
		"blocking_active": state.BlockingActive(),
	}
	return jsonResult(result)
}

// action returns a handler that sends a parameterless message.
func (s *Server) action(action domain.Action) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.respond(action, s.messages.Handle(ctx, domain.Message{Action: action}))
	}
}

func (s *Server) handleToggleGreyscale(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	enabled, err := request.RequireBool("enabled")
	if err != nil {
		return mcp.NewToolResultError("enabled is required: " + err.Error()), nil
	}
	msg := domain.Message{Action: domain.ActionToggleGreyscale, Enabled: enabled}
	return s.respond(msg.Action, s.messages.Handle(ctx, msg))
}

func (s *Server) respond(action domain.Action, resp domain.Response) (*mcp.CallToolResult, error) {
	if !resp.Success {
		return mcp.NewToolResultError(fmt.Sprintf("%s was rejected", action)), nil
	}
	result := map[string]interface{}{
		"action":  string(action),
		"success": true,
	}
	if resp.TimeRemaining != nil {
		result["time_remaining"] = *resp.TimeRemaining
	}
	return jsonResult(result)
}

func (s *Server) handleListSites(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	settings, err := s.sites.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load settings: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{"blocked_sites": settings.BlockedSites})
}

func (s *Server) handleAddSite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("site")
	if err != nil {
		return mcp.NewToolResultError("site is required: " + err.Error()), nil
	}

	site, err := s.sites.AddSite(ctx, raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add %q: %v", raw, err)), nil
	}
	return jsonResult(map[string]interface{}{"added": site})
}

func (s *Server) handleRemoveSite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	site, err := request.RequireString("site")
	if err != nil {
		return mcp.NewToolResultError("site is required: " + err.Error()), nil
	}

	if err := s.sites.RemoveSite(ctx, site); err != nil {
		if errors.Is(err, domain.ErrSiteNotFound) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to remove %q: %v", site, err)), nil
	}
	return jsonResult(map[string]interface{}{"removed": site})
}

func (s *Server) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.stats.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load stats: %v", err)), nil
	}
	return jsonResult(stats)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
