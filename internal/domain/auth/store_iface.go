package auth

import "context"

type StoreAPI interface {
	FindByEmail(ctx context.Context, email string) (Credentials, error)
}
