package main

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/leonardcser/cachekit/internal/cache"
	"github.com/leonardcser/cachekit/internal/logger"
	tools "github.com/leonardcser/cachekit/internal/tools"
)

const (
	defaultName = "cachekit"
	defaultTTL  = 15 * time.Minute
)

func main() {
	if err := logger.InitFromEnv(); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Infof("Starting cachekit MCP server")

	name := defaultString(os.Getenv("CACHEKIT_NAME"), defaultName)
	dir := defaultString(os.Getenv("CACHEKIT_DIR"), cache.DefaultDir())
	ttl, err := envDuration("CACHEKIT_TTL", defaultTTL)
	if err != nil {
		logger.Errorf("invalid CACHEKIT_TTL: %v", err)
		panic(err)
	}
	capacity, err := envInt("CACHEKIT_CAPACITY", 0)
	if err != nil {
		logger.Errorf("invalid CACHEKIT_CAPACITY: %v", err)
		panic(err)
	}

	backend, err := openBackend(defaultString(os.Getenv("CACHEKIT_BACKEND"), backendSnapshot), name, dir, ttl, capacity)
	if err != nil {
		logger.Errorf("Failed to open cache: %v", err)
		panic(err)
	}
	defer func() {
		if err := backend.close(); err != nil {
			logger.Errorf("Failed to close cache: %v", err)
		}
	}()
	c := backend.cache
	logger.Infof("Cache %q: backend=%s ttl=%s capacity=%d path=%s", name, backend.kind, ttl, capacity, backend.path)

	if snap := backend.snapshot; snap != nil {
		switch err := snap.LoadFromDisk(); {
		case err == nil:
			logger.Infof("Loaded snapshot with %d keys", snap.Len())
		case errors.Is(err, fs.ErrNotExist):
			logger.Infof("No snapshot at %s, starting empty", snap.Path())
		default:
			logger.Warnf("Failed to load snapshot, starting empty: %v", err)
		}
	} else {
		logger.Infof("Opened bolt database with %d keys", c.Len())
	}

	s := server.NewMCPServer(
		"cachekit",
		"0.1.0",
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)

	keyArg := mcp.WithString("key", mcp.Required(), mcp.Description("The cache key"))

	s.AddTool(mcp.NewTool("cache-set",
		mcp.WithDescription(multiline(
			"Stores a string value under a key",
			"\nUsage notes:",
			"- The entry expires "+ttl.String()+" after it is written",
			"- Writing an existing key replaces its value and expiry",
			"- Omitting value removes the key",
		)),
		keyArg,
		mcp.WithString("value", mcp.Description("The value to store; omit to remove the key")),
	), tools.CacheSetHandler(c))

	s.AddTool(mcp.NewTool("cache-get",
		mcp.WithDescription("Returns the value stored under a key, or an error if it is absent or expired"),
		keyArg,
	), tools.CacheGetHandler(c))

	s.AddTool(mcp.NewTool("cache-remove",
		mcp.WithDescription("Removes a key. Removing an absent key is not an error"),
		keyArg,
	), tools.CacheRemoveHandler(c))

	s.AddTool(mcp.NewTool("cache-clear",
		mcp.WithDescription("Removes every key"),
	), tools.CacheClearHandler(c))

	s.AddTool(mcp.NewTool("cache-keys",
		mcp.WithDescription("Lists tracked keys, including expired keys that have not been read since they expired"),
	), tools.CacheKeysHandler(c))

	// The bolt backend writes through on every call; only snapshots need save/load.
	if snap := backend.snapshot; snap != nil {
		s.AddTool(mcp.NewTool("cache-save",
			mcp.WithDescription("Writes all entries to the snapshot file, replacing it"),
		), tools.CacheSaveHandler(snap))

		s.AddTool(mcp.NewTool("cache-load",
			mcp.WithDescription("Inserts all entries from the snapshot file, keeping their saved expiry"),
		), tools.CacheLoadHandler(snap))
	}
	logger.Infof("Registered cache tools")

	logger.Infof("Starting MCP server on stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Errorf("server error: %v", err)
	}

	if snap := backend.snapshot; snap != nil {
		if err := snap.SaveToDisk(); err != nil {
			logger.Errorf("Failed to save snapshot: %v", err)
			return
		}
		logger.Infof("Saved snapshot with %d keys to %s", snap.Len(), snap.Path())
	}
}

// multiline joins lines with newlines for tool descriptions.
func multiline(lines ...string) string { return strings.Join(lines, "\n") }

func defaultString(v, d string) string {
	if v == "" {
		return d
	}
	return v
}

func envDuration(name string, d time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return d, nil
	}
	return time.ParseDuration(v)
}

func envInt(name string, d int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return d, nil
	}
	return strconv.Atoi(v)
}
