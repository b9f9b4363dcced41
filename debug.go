package greenmoon

import (
	"time"
)

// frameStats holds per-frame timing and object counts.
// Only populated when the manager's debug mode is on.
type frameStats struct {
	initTime   time.Duration
	updateTime time.Duration
	drainTime  time.Duration
	updated    int
	deferred   int
}

// debugLog logs timing and pass stats at debug level.
func (om *ObjectManager) debugLog(stats frameStats) {
	if !om.debug {
		return
	}
	logger.Debug("update pass",
		"frame", om.frame.Frame,
		"init", stats.initTime,
		"update", stats.updateTime,
		"drain", stats.drainTime,
		"total", stats.initTime+stats.updateTime+stats.drainTime,
		"updated", stats.updated,
		"deferred", stats.deferred,
		"objects", om.objects.Len())
}

// debugMaxObjects is the object count above which a warning is logged.
const debugMaxObjects = 10000

func debugCheckObjectCount(om *ObjectManager) {
	if n := om.objects.Len(); n > debugMaxObjects {
		logger.Warn("object count exceeds threshold", "count", n, "threshold", debugMaxObjects)
	}
}

// debugMaxPending is the deferred queue length above which a warning is
// logged. A queue this long usually means an object re-posts the same
// command every frame.
const debugMaxPending = 1000

func debugCheckPending(om *ObjectManager) {
	if n := len(om.pending); n > debugMaxPending {
		logger.Warn("deferred command queue exceeds threshold", "pending", n, "threshold", debugMaxPending)
	}
}
