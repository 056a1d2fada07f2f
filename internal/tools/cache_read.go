package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// CacheGetHandler returns the MCP tool handler for the "cache-get" tool.
func CacheGetHandler(c Cache) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		key, err := req.RequireString("key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		v, ok := c.Value(key)
		if !ok {
			return mcp.NewToolResultError("cache: not found: " + key), nil
		}
		return mcp.NewToolResultText(v), nil
	}
}

// CacheKeysHandler returns the MCP tool handler for the "cache-keys" tool.
func CacheKeysHandler(c Cache) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(formatKeys(c.Keys())), nil
	}
}

// formatKeys renders one key per line.
func formatKeys(keys []string) string {
	if len(keys) == 0 {
		return "No keys."
	}
	return strings.Join(keys, "\n")
}
