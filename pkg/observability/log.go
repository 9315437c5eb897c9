package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Errors and
// conflicts are logged as warnings.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger. A nil logger uses
// log.Default().
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnPlaceStart(_ context.Context, docID string, blockCount int) {
	h.logger.Debug("place start", "doc", docID, "blocks", blockCount)
}

func (h *LogHooks) OnPlaceComplete(_ context.Context, docID string, slotCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("place failed", "doc", docID, "error", err)
		return
	}
	h.logger.Debug("place done", "doc", docID, "slots", slotCount, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "error", err)
		return
	}
	h.logger.Debug("render done", "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnMutation(_ context.Context, docID, op string, revision int64, err error) {
	if err != nil {
		h.logger.Warn("edit rejected", "doc", docID, "op", op, "error", err)
		return
	}
	h.logger.Debug("edit applied", "doc", docID, "op", op, "revision", revision)
}

func (h *LogHooks) OnConflict(_ context.Context, docID string, expected, actual int64) {
	h.logger.Warn("stale revision", "doc", docID, "expected", expected, "actual", actual)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ EditHooks     = (*LogHooks)(nil)
)
