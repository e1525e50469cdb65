package kit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestContext_Transport_Default(t *testing.T) {
	ctx := context.Background()
	if v := GetTransport(ctx); v != "http" {
		t.Fatalf("default transport: got %q, want 'http'", v)
	}
}

func TestContext_Transport_Set(t *testing.T) {
	ctx := WithTransport(context.Background(), "mcp")
	if v := GetTransport(ctx); v != "mcp" {
		t.Fatalf("transport: got %q", v)
	}
}

func TestContext_RequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req_abc")
	if v := GetRequestID(ctx); v != "req_abc" {
		t.Fatalf("request_id: got %q", v)
	}
}

func TestContext_EmptyDefaults(t *testing.T) {
	ctx := context.Background()
	if v := GetRequestID(ctx); v != "" {
		t.Fatalf("request_id default: got %q", v)
	}
}

func TestNewRequestID(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	if len(a) != 8 {
		t.Errorf("id length = %d, want 8", len(a))
	}
	if a == b {
		t.Error("expected unique ids")
	}
}

// mcpToolSession registers tools on a fresh server and returns a connected
// in-memory client session.
func mcpToolSession(t *testing.T, register func(*mcp.Server)) *mcp.ClientSession {
	t.Helper()
	impl := &mcp.Implementation{Name: "kit-test", Version: "0.0.1"}
	srv := mcp.NewServer(impl, nil)
	register(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	session, err := mcp.NewClient(impl, nil).Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func emptySchema() map[string]any {
	return map[string]any{"type": "object"}
}

func TestRegisterMCPTool_InjectsRequestContext(t *testing.T) {
	// WHAT: the endpoint sees a transport marker and a fresh request id.
	// WHY: MCP calls carry the same per-request identity as HTTP requests.
	session := mcpToolSession(t, func(srv *mcp.Server) {
		tool := &mcp.Tool{Name: "echo_context", Description: "context echo", InputSchema: emptySchema()}
		endpoint := func(ctx context.Context, _ any) (any, error) {
			return map[string]string{
				"transport":  GetTransport(ctx),
				"request_id": GetRequestID(ctx),
			}, nil
		}
		decode := func(_ *mcp.CallToolRequest) (*MCPDecodeResult, error) {
			return &MCPDecodeResult{}, nil
		}
		RegisterMCPTool(srv, tool, endpoint, decode)
	})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "echo_context",
		Arguments: map[string]any{},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if err := result.GetError(); err != nil {
		t.Fatalf("tool error: %v", err)
	}

	var resp map[string]string
	text := result.Content[0].(*mcp.TextContent).Text
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["transport"] != "mcp" {
		t.Errorf("transport = %q, want mcp", resp["transport"])
	}
	if len(resp["request_id"]) != 8 {
		t.Errorf("request_id = %q, want an 8 char id", resp["request_id"])
	}
}

func TestRegisterMCPTool_EndpointErrorBecomesToolError(t *testing.T) {
	session := mcpToolSession(t, func(srv *mcp.Server) {
		tool := &mcp.Tool{Name: "always_fails", Description: "fails", InputSchema: emptySchema()}
		endpoint := func(_ context.Context, _ any) (any, error) {
			return nil, errors.New("boom")
		}
		decode := func(_ *mcp.CallToolRequest) (*MCPDecodeResult, error) {
			return &MCPDecodeResult{}, nil
		}
		RegisterMCPTool(srv, tool, endpoint, decode)
	})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "always_fails",
		Arguments: map[string]any{},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Error("expected a tool error, not a protocol error")
	}
}
