// Package mcptools exposes calculator sessions as MCP tools so that agents
// can drive the keypad the same way the HTTP API does.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/session"
)

const (
	ToolNewSession = "calculator_new_session"
	ToolPress      = "calculator_press"
	ToolState      = "calculator_state"
	ToolSetMode    = "calculator_set_mode"
)

// Tools binds the calculator service to MCP tool handlers.
type Tools struct {
	svc *calculator.Service
}

func New(svc *calculator.Service) *Tools {
	return &Tools{svc: svc}
}

// Register adds every calculator tool to s.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool(ToolNewSession,
		mcp.WithDescription("Start a calculator session and return its id and display"),
		mcp.WithString("mode", mcp.Description("Keypad mode: basic or scientific (default scientific)")),
		mcp.WithString("angle_mode", mcp.Description("Angle mode: degrees or radians (default degrees)")),
	), t.NewSession)

	s.AddTool(mcp.NewTool(ToolPress,
		mcp.WithDescription("Press keypad keys on a session, e.g. \"1 + 2 =\". Keys: digits, ., =, C, backspace, deg, + - × ÷ * /, sin cos tan x² √"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from calculator_new_session")),
		mcp.WithString("keys", mcp.Required(), mcp.Description("Space-separated keypad labels")),
	), t.Press)

	s.AddTool(mcp.NewTool(ToolState,
		mcp.WithDescription("Read the display and state of a session"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
	), t.State)

	s.AddTool(mcp.NewTool(ToolSetMode,
		mcp.WithDescription("Switch a session between basic and scientific keypads"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithString("mode", mcp.Required(), mcp.Description("basic or scientific")),
	), t.SetMode)
}

// NewSession handles calculator_new_session.
func (t *Tools) NewSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, view, err := t.svc.CreateSession(ctx,
		mcp.ParseString(req, "mode", ""),
		mcp.ParseString(req, "angle_mode", ""),
	)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(calculator.SessionResponse{ID: id, View: view})
}

// Press handles calculator_press.
func (t *Tools) Press(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(req, "session_id", "")
	if id == "" {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}

	keys := strings.Fields(mcp.ParseString(req, "keys", ""))
	if len(keys) == 0 {
		return mcp.NewToolResultError("keys parameter is required"), nil
	}

	view, results, err := t.svc.PressKeys(ctx, id, keys)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(calculator.KeysResponse{ID: id, View: view, Keys: results})
}

// State handles calculator_state.
func (t *Tools) State(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(req, "session_id", "")
	if id == "" {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}

	view, err := t.svc.Session(ctx, id)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(calculator.SessionResponse{ID: id, View: view})
}

// SetMode handles calculator_set_mode.
func (t *Tools) SetMode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(req, "session_id", "")
	if id == "" {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}

	view, err := t.svc.SetMode(ctx, id, mcp.ParseString(req, "mode", ""))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(calculator.SessionResponse{ID: id, View: view})
}

func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return mcp.NewToolResultError("session not found")
	case calculator.IsInputError(err):
		return mcp.NewToolResultError(err.Error())
	default:
		return mcp.NewToolResultError(fmt.Sprintf("calculator failure: %v", err))
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
