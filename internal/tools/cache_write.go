package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// CacheSetHandler returns the MCP tool handler for the "cache-set" tool.
// Omitting "value" removes the key.
func CacheSetHandler(c Cache) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		key, err := req.RequireString("key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		var value *string
		if raw, present := req.GetArguments()["value"]; present && raw != nil {
			s, ok := raw.(string)
			if !ok {
				return mcp.NewToolResultError(`argument "value" must be a string`), nil
			}
			value = &s
		}
		c.SetValue(key, value)
		if value == nil {
			return mcp.NewToolResultText(fmt.Sprintf("Removed %s.", key)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Stored %s for %s.", key, c.ExpirationInterval())), nil
	}
}

// CacheRemoveHandler returns the MCP tool handler for the "cache-remove" tool.
func CacheRemoveHandler(c Cache) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := req.RequireString("key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		c.RemoveValue(key)
		return mcp.NewToolResultText(fmt.Sprintf("Removed %s.", key)), nil
	}
}

// CacheClearHandler returns the MCP tool handler for the "cache-clear" tool.
func CacheClearHandler(c Cache) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		n := c.Len()
		c.RemoveAllValues()
		return mcp.NewToolResultText(fmt.Sprintf("Cleared %d keys.", n)), nil
	}
}
