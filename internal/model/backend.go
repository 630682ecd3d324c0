package model

import "context"

// Backend is the CRUD surface both the remote API client and the local
// JSON store implement.
type Backend interface {
	List(ctx context.Context, skip, limit int) (Page, error)
	Create(ctx context.Context, req CreateRequest) (Item, error)
	Update(ctx context.Context, id int, req UpdateRequest) (Item, error)
	Delete(ctx context.Context, id int) error
}
