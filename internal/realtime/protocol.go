package realtime

import (
	"encoding/json"
	"time"

	"workdesk/internal/domain/messages"
)

const (
	EventSendMessage    = "sendMessage"
	EventReceiveMessage = "receiveMessage"
)

// Envelope is the JSON frame exchanged over the socket in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Outbound is the payload of a receiveMessage frame.
type Outbound struct {
	Username       string    `json:"username"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	Department     string    `json:"department"`
	RecipientEmail *string   `json:"recipient_email"`
	IsPrivate      bool      `json:"is_private"`
}

func encodeReceive(msg messages.Message) ([]byte, error) {
	data, err := json.Marshal(Outbound{
		Username:       msg.Username,
		Content:        msg.Content,
		Timestamp:      msg.Timestamp,
		Department:     msg.Department,
		RecipientEmail: msg.RecipientEmail,
		IsPrivate:      msg.IsPrivate,
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: EventReceiveMessage, Data: data})
}
