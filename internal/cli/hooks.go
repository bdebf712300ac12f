package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pacview/pkg/observability"
)

// loggingHooks reports load and cache events at debug level.
type loggingHooks struct {
	logger *log.Logger
}

func (h *loggingHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("loading packages", "source", source)
}

func (h *loggingHooks) OnLoadComplete(_ context.Context, source string, packages int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "source", source, "err", err, "took", d.Round(time.Millisecond))
		return
	}
	h.logger.Debug("load complete", "source", source, "packages", packages, "took", d.Round(time.Millisecond))
}

func (h *loggingHooks) OnBuildComplete(_ context.Context, packages, edges int, d time.Duration) {
	h.logger.Debug("graph built", "packages", packages, "edges", edges, "took", d.Round(time.Millisecond))
}

func (h *loggingHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *loggingHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *loggingHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ observability.LoadHooks  = (*loggingHooks)(nil)
	_ observability.CacheHooks = (*loggingHooks)(nil)
)
