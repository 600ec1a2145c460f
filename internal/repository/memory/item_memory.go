// Package memory provides in-process repository implementations.
// Data lives for the lifetime of the process only.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"starterapi/internal/model"
	"starterapi/internal/repository"
)

// ItemMemory is a bounded, concurrency-safe ItemRepository.
// Once capacity is reached the least recently written item is evicted.
type ItemMemory struct {
	mu    sync.RWMutex
	items *simplelru.LRU[string, model.Item]
}

// NewItemMemory constructs a store holding at most capacity items.
func NewItemMemory(capacity int) (*ItemMemory, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("item store capacity must be positive, got %d", capacity)
	}
	items, err := simplelru.NewLRU[string, model.Item](capacity, nil)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &ItemMemory{items: items}, nil
}

func (r *ItemMemory) Create(ctx context.Context, item *model.Item) (*model.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.items.Contains(item.ID) {
		return nil, fmt.Errorf("item %s: %w", item.ID, repository.ErrConflict)
	}
	stored := clone(*item)
	r.items.Add(stored.ID, stored)
	out := clone(stored)
	return &out, nil
}

func (r *ItemMemory) FindByID(ctx context.Context, id string) (*model.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items.Peek(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := clone(item)
	return &out, nil
}

func (r *ItemMemory) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Item], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	all := make([]model.Item, 0, r.items.Len())
	for _, k := range r.items.Keys() {
		if item, ok := r.items.Peek(k); ok {
			all = append(all, clone(item))
		}
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	total := len(all)
	start := min(max(pq.Offset, 0), total)
	end := total
	if pq.Limit > 0 {
		end = min(start+pq.Limit, total)
	}

	return &repository.PageResult[model.Item]{
		Items: all[start:end],
		Total: total,
	}, nil
}

func (r *ItemMemory) Update(ctx context.Context, item *model.Item) (*model.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.items.Contains(item.ID) {
		return nil, repository.ErrNotFound
	}
	stored := clone(*item)
	r.items.Add(stored.ID, stored)
	out := clone(stored)
	return &out, nil
}

func (r *ItemMemory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.items.Remove(id) {
		return repository.ErrNotFound
	}
	return nil
}

// Len reports how many items are currently held.
func (r *ItemMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items.Len()
}

// Ping reports readiness. The store is always available while the process runs.
func (r *ItemMemory) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.items == nil {
		return fmt.Errorf("item store not initialized")
	}
	return nil
}

// clone detaches the UpdatedAt pointer so callers cannot mutate stored state.
func clone(item model.Item) model.Item {
	if item.UpdatedAt != nil {
		t := *item.UpdatedAt
		item.UpdatedAt = &t
	}
	return item
}
