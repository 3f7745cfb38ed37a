package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps coarse request counters for the /metrics endpoint.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	totalDurationMs uint64
	sweepsRun       uint64
	sweepItems      uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordSweep counts one background sweep run and how many items it touched.
func (c *Collector) RecordSweep(items int) {
	atomic.AddUint64(&c.sweepsRun, 1)
	if items > 0 {
		atomic.AddUint64(&c.sweepItems, uint64(items))
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":   total,
		"errorsTotal":     atomic.LoadUint64(&c.errorRequests),
		"avgDurationMs":   avg,
		"totalDurationMs": totalMs,
		"sweepsRun":       atomic.LoadUint64(&c.sweepsRun),
		"sweepItemsTotal": atomic.LoadUint64(&c.sweepItems),
	}
}
