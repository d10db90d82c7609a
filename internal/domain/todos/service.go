package todos

import (
	"context"
	"strings"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, userID int64) ([]Todo, error) {
	return s.store.ListByUser(ctx, userID)
}

// Create does not check that the owner exists.
func (s *Service) Create(ctx context.Context, in NewTodo) (Todo, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.UserID <= 0 || in.Title == "" {
		return Todo{}, ErrInvalidTodo
	}
	return s.store.Create(ctx, in)
}

func (s *Service) SetCompleted(ctx context.Context, id int64, completed bool) (Todo, error) {
	return s.store.SetCompleted(ctx, id, completed)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
