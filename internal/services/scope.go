// Package services holds the business logic between the HTTP layer and the
// store: user-scoped access, validation, aggregation and the recurring
// template machinery.
package services

import (
	"context"

	"cashflow/internal/core"
	"cashflow/internal/storage"

	"github.com/google/uuid"
)

// Access hands out per-user views of the store.
type Access struct {
	store storage.Store
}

func NewAccess(store storage.Store) *Access {
	return &Access{store: store}
}

// ForUser binds a user id to every store call. Records owned by other users
// are invisible through the returned scope; reads and writes against them
// come back as NotFound.
func (a *Access) ForUser(userID uuid.UUID) *ScopedStore {
	return &ScopedStore{store: a.store, userID: userID}
}

type ScopedStore struct {
	store  storage.Store
	userID uuid.UUID
}

func (s *ScopedStore) UserID() uuid.UUID { return s.userID }

func (s *ScopedStore) User(ctx context.Context) (core.User, error) {
	return s.store.UserByID(ctx, s.userID)
}

func (s *ScopedStore) UpdateUser(ctx context.Context, u core.User) (core.User, error) {
	u.ID = s.userID
	return s.store.UpdateUser(ctx, u)
}

func (s *ScopedStore) DeleteUserData(ctx context.Context) error {
	return s.store.DeleteUserData(ctx, s.userID)
}

func (s *ScopedStore) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	c.UserID = s.userID
	return s.store.CreateCategory(ctx, c)
}

func (s *ScopedStore) Category(ctx context.Context, id uuid.UUID) (core.Category, error) {
	return s.store.CategoryByID(ctx, s.userID, id)
}

func (s *ScopedStore) Categories(ctx context.Context) ([]core.Category, error) {
	return s.store.CategoriesByUser(ctx, s.userID)
}

func (s *ScopedStore) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	c.UserID = s.userID
	return s.store.UpdateCategory(ctx, c)
}

func (s *ScopedStore) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteCategory(ctx, s.userID, id)
}

func (s *ScopedStore) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.UserID = s.userID
	return s.store.CreateTransaction(ctx, t)
}

func (s *ScopedStore) Transaction(ctx context.Context, id uuid.UUID) (core.Transaction, error) {
	return s.store.TransactionByID(ctx, s.userID, id)
}

func (s *ScopedStore) Transactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, core.Pagination, error) {
	return s.store.TransactionsByUser(ctx, s.userID, f)
}

func (s *ScopedStore) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.UserID = s.userID
	return s.store.UpdateTransaction(ctx, t)
}

func (s *ScopedStore) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteTransaction(ctx, s.userID, id)
}

func (s *ScopedStore) CreateTemplate(ctx context.Context, t core.RecurringTemplate) (core.RecurringTemplate, error) {
	t.UserID = s.userID
	return s.store.CreateTemplate(ctx, t)
}

func (s *ScopedStore) Template(ctx context.Context, id uuid.UUID) (core.RecurringTemplate, error) {
	return s.store.TemplateByID(ctx, s.userID, id)
}

func (s *ScopedStore) Templates(ctx context.Context) ([]core.RecurringTemplate, error) {
	return s.store.TemplatesByUser(ctx, s.userID)
}

func (s *ScopedStore) UpdateTemplate(ctx context.Context, t core.RecurringTemplate) (core.RecurringTemplate, error) {
	t.UserID = s.userID
	return s.store.UpdateTemplate(ctx, t)
}

func (s *ScopedStore) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteTemplate(ctx, s.userID, id)
}
