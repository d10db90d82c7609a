package messages

import "time"

// Message is a persisted chat message. Rows are never updated or deleted.
type Message struct {
	ID             int64     `json:"message_id"`
	Username       string    `json:"username"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	Department     string    `json:"department"`
	RecipientEmail *string   `json:"recipient_email"`
	IsPrivate      bool      `json:"is_private"`
}

// Draft is a message as received from a chat client. Every field is
// client-supplied and untrusted.
type Draft struct {
	Username       string  `json:"username"`
	Content        string  `json:"content"`
	Department     string  `json:"department"`
	RecipientEmail *string `json:"recipient_email"`
	IsPrivate      bool    `json:"is_private"`
}
