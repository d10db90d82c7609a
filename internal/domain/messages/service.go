package messages

import (
	"context"
	"strings"
	"time"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Record stamps the receipt time and persists the draft. A blank recipient
// email is stored as NULL.
func (s *Service) Record(ctx context.Context, draft Draft) (Message, error) {
	recipient := draft.RecipientEmail
	if recipient != nil && strings.TrimSpace(*recipient) == "" {
		recipient = nil
	}
	return s.store.Insert(ctx, Message{
		Username:       draft.Username,
		Content:        draft.Content,
		Timestamp:      s.now(),
		Department:     draft.Department,
		RecipientEmail: recipient,
		IsPrivate:      draft.IsPrivate,
	})
}

func (s *Service) History(ctx context.Context) ([]Message, error) {
	return s.store.ListAll(ctx)
}
