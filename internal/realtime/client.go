package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"workdesk/internal/domain/messages"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is one websocket connection. The email is whatever the client
// declared when connecting; it is not verified.
type Client struct {
	id    string
	email string
	conn  *websocket.Conn
	send  chan []byte
	hub   *Hub
	log   zerolog.Logger
}

func (c *Client) ID() string    { return c.id }
func (c *Client) Email() string { return c.email }

// Serve registers conn with the hub and pumps frames until either side hangs
// up. It blocks for the lifetime of the connection.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, email string, readLimit int64) {
	c := &Client{
		id:    uuid.NewString(),
		email: strings.ToLower(strings.TrimSpace(email)),
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		hub:   h,
	}
	c.log = h.log.With().Str("clientId", c.id).Logger()

	if !h.attach(c) {
		_ = conn.Close()
		return
	}

	go c.writePump()
	c.readPump(ctx, readLimit)
}

func (c *Client) readPump(ctx context.Context, readLimit int64) {
	defer func() {
		c.hub.detach(c)
		_ = c.conn.Close()
	}()

	if readLimit > 0 {
		c.conn.SetReadLimit(readLimit)
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.log.Debug().Err(err).Msg("read failed")
			}
			return
		}
		c.handleFrame(ctx, data)
	}
}

func (c *Client) handleFrame(ctx context.Context, data []byte) {
	draft, err := decodeSend(data)
	if err != nil {
		c.log.Warn().Err(err).Msg("ignoring frame")
		return
	}
	c.log.Debug().Str("username", draft.Username).Str("department", draft.Department).Bool("private", draft.IsPrivate).Msg("message received")
	c.hub.Publish(ctx, c, draft)
}

var errUnknownEvent = errors.New("unknown event")

func decodeSend(data []byte) (messages.Draft, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return messages.Draft{}, err
	}
	if env.Event != EventSendMessage {
		return messages.Draft{}, errUnknownEvent
	}
	var draft messages.Draft
	if err := json.Unmarshal(env.Data, &draft); err != nil {
		return messages.Draft{}, err
	}
	return draft, nil
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
