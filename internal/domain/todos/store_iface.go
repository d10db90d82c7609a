package todos

import "context"

type StoreAPI interface {
	ListByUser(ctx context.Context, userID int64) ([]Todo, error)
	Create(ctx context.Context, in NewTodo) (Todo, error)
	SetCompleted(ctx context.Context, id int64, completed bool) (Todo, error)
	Delete(ctx context.Context, id int64) error
}
