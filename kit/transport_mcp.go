package kit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPDecodeResult holds the decoded request and an optional context enrichment.
type MCPDecodeResult struct {
	Request   any
	EnrichCtx func(context.Context) context.Context
}

// RegisterMCPTool registers an Endpoint as an MCP tool on the given server.
// The decode function extracts the typed request from the MCP arguments
// (req.Params.Arguments, a json.RawMessage). Endpoint errors become tool
// errors, never protocol errors.
//
// Each call gets a request id and the "mcp" transport marker in its context,
// and is logged with its outcome and duration, mirroring what the HTTP
// middleware stack does for HTTP requests.
func RegisterMCPTool(srv *mcp.Server, tool *mcp.Tool, endpoint Endpoint, decode func(*mcp.CallToolRequest) (*MCPDecodeResult, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		requestID := NewRequestID()
		ctx = WithRequestID(ctx, requestID)
		ctx = WithTransport(ctx, "mcp")
		logger := slog.Default().With(
			"request_id", requestID,
			"transport", "mcp",
			"tool", tool.Name,
		)

		decoded, err := decode(req)
		if err != nil {
			logger.Warn("invalid tool arguments", "error", err)
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("invalid arguments: %w", err))
			return &res, nil
		}
		if decoded.EnrichCtx != nil {
			ctx = decoded.EnrichCtx(ctx)
		}

		start := time.Now()
		resp, err := endpoint(ctx, decoded.Request)
		if err != nil {
			logger.Warn("tool call failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
			var res mcp.CallToolResult
			res.SetError(errors.New(err.Error()))
			return &res, nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			logger.Warn("tool response marshal failed", "error", err)
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}

		logger.Info("tool call", "duration_ms", time.Since(start).Milliseconds())
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}
