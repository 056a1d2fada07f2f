package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/cachekit/internal/logger"
)

// CacheSaveHandler returns the MCP tool handler for the "cache-save" tool.
func CacheSaveHandler(c Snapshotter) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		if err := c.SaveToDisk(); err != nil {
			logger.Errorf("save %s: %v", c.Path(), err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Saved %d keys to %s.", c.Len(), c.Path())), nil
	}
}

// CacheLoadHandler returns the MCP tool handler for the "cache-load" tool.
func CacheLoadHandler(c Snapshotter) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		if err := c.LoadFromDisk(); err != nil {
			logger.Errorf("load %s: %v", c.Path(), err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Loaded %s; %d keys tracked.", c.Path(), c.Len())), nil
	}
}
