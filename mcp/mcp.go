// Package mcp exposes the persona tool registry over the Model Context
// Protocol so assistants outside the website can call the same canned tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/hupe1980/folio/core"
	"github.com/hupe1980/folio/flow"
	"github.com/hupe1980/folio/logging"
	"github.com/hupe1980/folio/tool"
)

// Options configures the MCP server.
type Options struct {
	Name    string
	Version string
	// Executor runs tool calls (defaults to a panic-safe parallel executor).
	Executor flow.Executor
	Logger   logging.Logger
}

// NewServer registers every tool of reg on a new MCP server.
func NewServer(reg *tool.Registry, optFns ...func(o *Options)) (*mcpserver.MCPServer, error) {
	opts := Options{Name: "folio", Version: "dev"}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	if opts.Executor == nil {
		opts.Executor = flow.NewParallelExecutor(flow.ExecutorConfig{MaxParallel: 1, Logger: opts.Logger})
	}

	s := mcpserver.NewMCPServer(opts.Name, opts.Version, mcpserver.WithToolCapabilities(false))

	for _, name := range reg.Names() {
		t, _ := reg.Get(name)
		schema, err := json.Marshal(t.Parameters())
		if err != nil {
			return nil, fmt.Errorf("mcp: encode schema of %s: %w", name, err)
		}
		s.AddTool(
			mcpgo.NewToolWithRawSchema(t.Name(), t.Description(), schema),
			handler(reg, t.Name(), opts),
		)
	}
	return s, nil
}

func handler(reg *tool.Registry, name string, opts Options) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		call := core.FunctionCall{ID: core.NewCallID(), Name: name, Arguments: "{}"}
		res := opts.Executor.Execute(ctx, reg, []core.FunctionCall{call})[0]

		if res.Error != "" {
			opts.Logger.Warn("mcp.tool.failed", "tool", name, "error", res.Error)
			return mcpgo.NewToolResultError(res.Error), nil
		}

		text, err := resultText(res.Response)
		if err != nil {
			return nil, err
		}
		opts.Logger.Debug("mcp.tool.success", "tool", name)
		return mcpgo.NewToolResultText(text), nil
	}
}

func resultText(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("mcp: encode tool result: %w", err)
	}
	return string(b), nil
}

// NewHTTPHandler serves s over the streamable HTTP transport.
func NewHTTPHandler(s *mcpserver.MCPServer) http.Handler {
	return mcpserver.NewStreamableHTTPServer(s)
}

// ServeStdio serves s over stdin and stdout until the input closes.
func ServeStdio(s *mcpserver.MCPServer) error {
	return mcpserver.ServeStdio(s)
}
