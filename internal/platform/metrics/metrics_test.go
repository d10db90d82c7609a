package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(500, 30*time.Millisecond)
	c.Record(429, 2*time.Millisecond)

	c.ConnectionOpened()
	c.ConnectionOpened()
	c.ConnectionClosed()
	c.MessageRelayed(3)
	c.MessageRelayed(2)
	c.MessageDropped()
	c.SlowClientEvicted()

	snap := c.Snapshot()
	assert.Equal(t, uint64(3), snap["requestsTotal"])
	assert.Equal(t, uint64(1), snap["errorsTotal"])
	assert.Equal(t, uint64(1), snap["rateLimitedTotal"])
	assert.Equal(t, uint64(42), snap["totalDurationMs"])
	assert.InDelta(t, 14.0, snap["avgDurationMs"], 0.001)
	assert.Equal(t, int64(1), snap["relayConnections"])
	assert.Equal(t, uint64(2), snap["messagesRelayed"])
	assert.Equal(t, uint64(5), snap["framesDelivered"])
	assert.Equal(t, uint64(1), snap["messagesDropped"])
	assert.Equal(t, uint64(1), snap["slowClientsEvicted"])
}
