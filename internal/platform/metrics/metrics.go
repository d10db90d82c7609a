package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests    uint64
	errorRequests    uint64
	rateLimited      uint64
	totalDurationMs  uint64
	openConnections  int64
	messagesRelayed  uint64
	messagesDropped  uint64
	framesDelivered  uint64
	slowClientsEvict uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) ConnectionOpened() { atomic.AddInt64(&c.openConnections, 1) }
func (c *Collector) ConnectionClosed() { atomic.AddInt64(&c.openConnections, -1) }

// MessageRelayed counts one persisted message delivered to n clients.
func (c *Collector) MessageRelayed(n int) {
	atomic.AddUint64(&c.messagesRelayed, 1)
	atomic.AddUint64(&c.framesDelivered, uint64(n))
}

func (c *Collector) MessageDropped()    { atomic.AddUint64(&c.messagesDropped, 1) }
func (c *Collector) SlowClientEvicted() { atomic.AddUint64(&c.slowClientsEvict, 1) }

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":      total,
		"errorsTotal":        errs,
		"rateLimitedTotal":   limited,
		"avgDurationMs":      avg,
		"totalDurationMs":    totalMs,
		"relayConnections":   atomic.LoadInt64(&c.openConnections),
		"messagesRelayed":    atomic.LoadUint64(&c.messagesRelayed),
		"messagesDropped":    atomic.LoadUint64(&c.messagesDropped),
		"framesDelivered":    atomic.LoadUint64(&c.framesDelivered),
		"slowClientsEvicted": atomic.LoadUint64(&c.slowClientsEvict),
	}
}
