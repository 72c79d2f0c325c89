package services

import (
	"context"
	"strings"

	"cashflow/internal/core"
	"cashflow/internal/log"
	"cashflow/internal/storage"

	"github.com/google/uuid"
)

// UserService manages profile records. Authentication lives outside this
// module; Provision maps an externally verified identity onto a user row.
type UserService struct {
	store  storage.Store
	access *Access
	logger *log.Logger
}

func NewUserService(store storage.Store, logger *log.Logger) *UserService {
	return &UserService{
		store:  store,
		access: NewAccess(store),
		logger: logger.WithComponent(log.ComponentStorage),
	}
}

// UpdateUserInput uses pointers so absent fields stay untouched.
type UpdateUserInput struct {
	Name  *string
	Email *string
}

// Provision returns the user for a verified identity, creating the record on
// first sight of a new email.
func (s *UserService) Provision(ctx context.Context, name, email string) (core.User, error) {
	email = core.NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" {
		// Identities without a display name fall back to the mailbox.
		name, _, _ = strings.Cut(email, "@")
	}
	u := core.User{Name: name, Email: email}
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}

	existing, err := s.store.UserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !core.IsNotFound(err) {
		return core.User{}, err
	}

	created, err := s.store.CreateUser(ctx, u)
	if core.IsDuplicate(err) {
		// Lost a provisioning race; the row exists now.
		return s.store.UserByEmail(ctx, email)
	}
	if err != nil {
		return core.User{}, err
	}
	s.logger.InfoContext(ctx, "user provisioned",
		log.FieldUserID, created.ID)
	return created, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (core.User, error) {
	return s.access.ForUser(id).User(ctx)
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (core.User, error) {
	scope := s.access.ForUser(id)
	u, err := scope.User(ctx)
	if err != nil {
		return core.User{}, err
	}

	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		u.Email = core.NormalizeEmail(*in.Email)
	}
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}

	updated, err := scope.UpdateUser(ctx, u)
	if err != nil {
		return core.User{}, err
	}
	s.logger.InfoContext(ctx, "user updated", log.FieldUserID, id)
	return updated, nil
}

// Delete removes the user and every owned category, transaction and
// recurring template.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.access.ForUser(id).DeleteUserData(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user deleted", log.FieldUserID, id)
	return nil
}
