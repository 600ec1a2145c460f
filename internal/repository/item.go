package repository

import (
	"context"

	"starterapi/internal/model"
)

// ItemRepository defines data access for items.
// No business logic here, strictly storage operations.
type ItemRepository interface {
	// Create stores a new item. The caller provides ID and CreatedAt.
	Create(ctx context.Context, item *model.Item) (*model.Item, error)

	// FindByID returns an item by its ID or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Item, error)

	// List returns a page of items ordered by creation time and the total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Item], error)

	// Update replaces a stored item. It returns ErrNotFound if the ID is unknown.
	Update(ctx context.Context, item *model.Item) (*model.Item, error)

	// Delete removes an item by ID. It returns ErrNotFound if the ID is unknown.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
