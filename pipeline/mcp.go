package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/refmill/refmill/citation"
	"github.com/refmill/refmill/kit"
)

// RegisterMCP registers the citation pipeline tools on an MCP server.
func (p *Processor) RegisterMCP(srv *mcp.Server) {
	p.registerFormatTool(srv)
	p.registerStylesTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// --- format ---

type formatReq struct {
	Path       string `json:"path"`
	Style      string `json:"style"`
	OutputPath string `json:"output_path"`
}

type formatResp struct {
	OutputPath        string     `json:"output_path"`
	EndnotesProcessed int        `json:"endnotes_processed"`
	Log               []LogEntry `json:"log"`
}

func (p *Processor) registerFormatTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "citations_format",
		Description: "Rewrite the endnotes of a .docx file as formatted citations (chicago, mla, apa, bluebook).",
		InputSchema: inputSchema(map[string]any{
			"path":        map[string]any{"type": "string", "description": "Path of the .docx file to process"},
			"style":       map[string]any{"type": "string", "description": "Citation style (default: chicago)"},
			"output_path": map[string]any{"type": "string", "description": "Where to write the result (default: <path>_formatted.docx)"},
		}, []string{"path"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*formatReq)

		input, err := os.ReadFile(r.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", r.Path, err)
		}

		result, err := p.Process(ctx, input, citation.ParseStyle(r.Style))
		if err != nil {
			return nil, err
		}

		out := r.OutputPath
		if out == "" {
			out = strings.TrimSuffix(r.Path, ".docx") + "_formatted.docx"
		}
		if err := os.WriteFile(out, result.Output, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", out, err)
		}

		return &formatResp{
			OutputPath:        out,
			EndnotesProcessed: result.EndnotesProcessed,
			Log:               result.Log,
		}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r formatReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- styles ---

func (p *Processor) registerStylesTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "citations_styles",
		Description: "List the supported citation styles.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		return map[string]any{"styles": citation.Styles()}, nil
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
