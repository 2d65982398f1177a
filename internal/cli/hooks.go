package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gvlayout/pkg/observability"
)

// logHooks reports layout, cache and server events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (c *CLI) registerHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetLayoutHooks(h)
	observability.SetCacheHooks(h)
	observability.SetServerHooks(h)
}

func (h logHooks) OnLayoutStart(_ context.Context, passID string, nodes, edges int) {
	h.logger.Debug("pass started", "pass", passID, "nodes", nodes, "edges", edges)
}

func (h logHooks) OnEngineComplete(_ context.Context, passID, engine string, exitCode int, d time.Duration, err error) {
	h.logger.Debug("engine finished", "pass", passID, "engine", engine, "exit", exitCode, "duration", d, "err", err)
}

func (h logHooks) OnLayoutComplete(_ context.Context, passID string, updated int, d time.Duration, err error) {
	h.logger.Debug("pass finished", "pass", passID, "updated", updated, "duration", d, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ observability.LayoutHooks = logHooks{}
	_ observability.CacheHooks  = logHooks{}
	_ observability.ServerHooks = logHooks{}
)
