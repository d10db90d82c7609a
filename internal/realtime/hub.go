package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"workdesk/internal/domain/messages"
)

const (
	sendBufferSize = 64
	persistTimeout = 5 * time.Second
)

// Recorder persists an inbound chat message.
type Recorder interface {
	Record(ctx context.Context, draft messages.Draft) (messages.Message, error)
}

type Stats interface {
	ConnectionOpened()
	ConnectionClosed()
	MessageRelayed(n int)
	MessageDropped()
	SlowClientEvicted()
}

type noopStats struct{}

func (noopStats) ConnectionOpened()  {}
func (noopStats) ConnectionClosed()  {}
func (noopStats) MessageRelayed(int) {}
func (noopStats) MessageDropped()    {}
func (noopStats) SlowClientEvicted() {}

type delivery struct {
	msg    messages.Message
	sender *Client
}

// Hub owns the set of connected clients. Only the Run goroutine touches the
// set; everything else talks to it over channels.
type Hub struct {
	recorder Recorder
	policy   DeliveryPolicy
	log      zerolog.Logger
	stats    Stats

	register   chan *Client
	unregister chan *Client
	deliveries chan delivery
	clients    map[*Client]struct{}

	// mu orders Stop against Publish so no insert starts once Wait may run.
	mu      sync.Mutex
	stopped bool
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewHub(recorder Recorder, policy DeliveryPolicy, log zerolog.Logger, stats Stats) *Hub {
	if policy == nil {
		policy = BroadcastAll{}
	}
	if stats == nil {
		stats = noopStats{}
	}
	return &Hub{
		recorder:   recorder,
		policy:     policy,
		log:        log.With().Str("component", "relay").Logger(),
		stats:      stats,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliveries: make(chan delivery, 256),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Policy() DeliveryPolicy { return h.policy }

// Run processes registrations and deliveries until ctx is cancelled or Stop is
// called. On exit every client queue is closed, which makes the writers send a
// close frame and hang up.
func (h *Hub) Run(ctx context.Context) {
	h.log.Info().Str("policy", h.policy.Name()).Msg("relay started")
	defer func() {
		for c := range h.clients {
			h.drop(c)
		}
		h.log.Info().Msg("relay stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			h.Stop()
			return
		case <-h.done:
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.stats.ConnectionOpened()
			h.log.Info().Str("clientId", c.id).Str("email", c.email).Int("clients", len(h.clients)).Msg("client connected")
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.log.Info().Str("clientId", c.id).Int("clients", len(h.clients)).Msg("client disconnected")
			}
		case d := <-h.deliveries:
			h.deliver(d)
		}
	}
}

func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.stopped {
		h.stopped = true
		close(h.done)
	}
}

// begin registers an in-flight insert unless the hub has stopped.
func (h *Hub) begin() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	h.wg.Add(1)
	return true
}

// Wait blocks until in-flight persistence calls have finished. Call it after
// Stop; no new insert starts once the hub is stopped.
func (h *Hub) Wait() {
	h.wg.Wait()
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.stats.ConnectionClosed()
}

func (h *Hub) deliver(d delivery) {
	frame, err := encodeReceive(d.msg)
	if err != nil {
		h.log.Error().Err(err).Int64("messageId", d.msg.ID).Msg("encode message failed")
		return
	}

	var sender Recipient
	if d.sender != nil {
		sender = d.sender
	}

	delivered := 0
	for c := range h.clients {
		if !h.policy.ShouldDeliver(d.msg, sender, c) {
			continue
		}
		select {
		case c.send <- frame:
			delivered++
		default:
			h.drop(c)
			h.stats.SlowClientEvicted()
			h.log.Warn().Str("clientId", c.id).Msg("client send queue full, disconnecting")
		}
	}
	h.stats.MessageRelayed(delivered)
}

// Publish persists draft and, once stored, queues it for delivery. A failed
// insert is logged and nothing is delivered; the sender gets no signal.
// The insert runs on a context detached from the connection and completes even
// if the sender has already gone.
func (h *Hub) Publish(ctx context.Context, sender *Client, draft messages.Draft) {
	if !h.begin() {
		h.stats.MessageDropped()
		return
	}
	defer h.wg.Done()

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	msg, err := h.recorder.Record(persistCtx, draft)
	if err != nil {
		h.stats.MessageDropped()
		h.log.Error().Err(err).Str("username", draft.Username).Msg("message could not be saved")
		return
	}

	select {
	case h.deliveries <- delivery{msg: msg, sender: sender}:
	case <-h.done:
	}
}

func (h *Hub) attach(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
