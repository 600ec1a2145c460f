package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"starterapi/internal/model"
	"starterapi/internal/repository"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("item not found")
)

// ItemListResult is the service-level DTO for paginated items.
type ItemListResult struct {
	Items   []model.Item `json:"data"`
	Total   int          `json:"total"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
	HasNext bool         `json:"has_next"`
	HasPrev bool         `json:"has_prev"`
}

// ItemService defines the use cases for the example item resource.
type ItemService interface {
	// Create validates and stores a new item. Title and content are trimmed first.
	Create(ctx context.Context, in model.ItemCreate) (*model.Item, error)

	// List returns items using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*ItemListResult, error)

	// Get returns a single item by its ID.
	Get(ctx context.Context, id string) (*model.Item, error)

	// Update applies the non-nil fields of in and stamps UpdatedAt.
	Update(ctx context.Context, id string, in model.ItemUpdate) (*model.Item, error)

	// Delete removes an item by ID.
	Delete(ctx context.Context, id string) error
}

type itemService struct {
	repo     repository.ItemRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewItemService constructs a new ItemService.
func NewItemService(repo repository.ItemRepository) ItemService {
	return &itemService{
		repo:     repo,
		validate: newValidator(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *itemService) Create(ctx context.Context, in model.ItemCreate) (*model.Item, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return nil, toValidationError(err)
	}

	item := &model.Item{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: s.now(),
	}
	stored, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return stored, nil
}

// List returns paginated items without exposing repository types.
func (s *itemService) List(ctx context.Context, limit, offset int) (*ItemListResult, error) {
	if limit < 1 || limit > MaxListLimit {
		return nil, newFieldError("limit", fmt.Sprintf("must be between 1 and %d", MaxListLimit))
	}
	if offset < 0 {
		return nil, newFieldError("offset", "must not be negative")
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	items := res.Items
	if items == nil {
		items = []model.Item{}
	}
	return &ItemListResult{
		Items:   items,
		Total:   res.Total,
		Limit:   limit,
		Offset:  offset,
		HasNext: offset+len(items) < res.Total,
		HasPrev: offset > 0,
	}, nil
}

// Get returns an item by ID.
func (s *itemService) Get(ctx context.Context, id string) (*model.Item, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *itemService) Update(ctx context.Context, id string, in model.ItemUpdate) (*model.Item, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if in.Title == nil && in.Content == nil {
		return nil, &ValidationError{Fields: map[string]string{
			"title":   "at least one of title or content is required",
			"content": "at least one of title or content is required",
		}}
	}

	verr := &ValidationError{Fields: map[string]string{}}
	var title, content string
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
		if err := s.validate.VarCtx(ctx, title, "required,max=200"); err != nil {
			verr.Fields["title"] = fieldMessage(err)
		}
	}
	if in.Content != nil {
		content = strings.TrimSpace(*in.Content)
		if err := s.validate.VarCtx(ctx, content, "required"); err != nil {
			verr.Fields["content"] = fieldMessage(err)
		}
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		item.Title = title
	}
	if in.Content != nil {
		item.Content = content
	}
	ts := s.now()
	item.UpdatedAt = &ts

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return updated, nil
}

// Delete removes an item by ID.
func (s *itemService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// fieldMessage describes the first failing rule of a Var validation.
func fieldMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return describe(verrs[0].Tag(), verrs[0].Param())
	}
	return "is invalid"
}
