package services

import (
	"context"
	"strings"

	"cashflow/internal/core"
	"cashflow/internal/log"

	"github.com/google/uuid"
)

// CategoryService implements category CRUD with per-user name uniqueness.
type CategoryService struct {
	access *Access
	logger *log.Logger
}

func NewCategoryService(access *Access, logger *log.Logger) *CategoryService {
	return &CategoryService{
		access: access,
		logger: logger.WithComponent(log.ComponentStorage),
	}
}

// CreateCategoryInput carries the writable category fields.
type CreateCategoryInput struct {
	Name      string
	Type      core.FlowType
	Color     string
	Protected bool
}

// UpdateCategoryInput uses pointers so absent fields stay untouched.
type UpdateCategoryInput struct {
	Name      *string
	Type      *core.FlowType
	Color     *string
	Protected *bool
}

func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, in CreateCategoryInput) (core.Category, error) {
	c := core.Category{
		Name:      normalizeCategoryName(in.Name),
		Type:      in.Type,
		Color:     in.Color,
		Protected: in.Protected,
	}
	if c.Color == "" {
		c.Color = core.DefaultColor
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	created, err := s.access.ForUser(userID).CreateCategory(ctx, c)
	if err != nil {
		return core.Category{}, err
	}
	s.logger.InfoContext(ctx, "category created",
		log.FieldUserID, userID,
		log.FieldCategoryID, created.ID,
		log.FieldCategory, created.Name)
	return created, nil
}

func (s *CategoryService) Get(ctx context.Context, userID, id uuid.UUID) (core.Category, error) {
	return s.access.ForUser(userID).Category(ctx, id)
}

func (s *CategoryService) List(ctx context.Context, userID uuid.UUID) ([]core.Category, error) {
	return s.access.ForUser(userID).Categories(ctx)
}

func (s *CategoryService) Update(ctx context.Context, userID, id uuid.UUID, in UpdateCategoryInput) (core.Category, error) {
	scope := s.access.ForUser(userID)
	c, err := scope.Category(ctx, id)
	if err != nil {
		return core.Category{}, err
	}

	if in.Name != nil {
		c.Name = normalizeCategoryName(*in.Name)
	}
	if in.Type != nil {
		c.Type = *in.Type
	}
	if in.Color != nil {
		c.Color = *in.Color
	}
	if in.Protected != nil {
		c.Protected = *in.Protected
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	updated, err := scope.UpdateCategory(ctx, c)
	if err != nil {
		return core.Category{}, err
	}
	s.logger.InfoContext(ctx, "category updated",
		log.FieldUserID, userID,
		log.FieldCategoryID, updated.ID,
		log.FieldCategory, updated.Name)
	return updated, nil
}

// Delete removes a category unless it is protected. Transactions pointing at
// it are kept and become invisible in listings.
func (s *CategoryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	scope := s.access.ForUser(userID)
	c, err := scope.Category(ctx, id)
	if err != nil {
		return err
	}
	if c.Protected {
		return &core.ProtectedCategoryError{Name: c.Name}
	}
	if err := scope.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "category deleted",
		log.FieldUserID, userID,
		log.FieldCategoryID, id,
		log.FieldCategory, c.Name)
	return nil
}

func normalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
