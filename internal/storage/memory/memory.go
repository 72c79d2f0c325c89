// Package memory holds an in-process Store used by tests and the
// memory data backend. State is lost on restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cashflow/internal/core"
	"cashflow/internal/storage"

	"github.com/google/uuid"
)

type Store struct {
	mu        sync.Mutex
	users     map[uuid.UUID]core.User
	cats      map[uuid.UUID]core.Category
	txns      map[uuid.UUID]core.Transaction
	templates map[uuid.UUID]core.RecurringTemplate
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:     make(map[uuid.UUID]core.User),
		cats:      make(map[uuid.UUID]core.Category),
		txns:      make(map[uuid.UUID]core.Transaction),
		templates: make(map[uuid.UUID]core.RecurringTemplate),
	}
}

func (s *Store) Close() error { return nil }

// Users

func (s *Store) CreateUser(_ context.Context, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return core.User{}, &core.DuplicateError{Resource: "user", Key: u.Email}
		}
	}
	now := time.Now().UTC()
	u.ID = uuid.New()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) UserByID(_ context.Context, id uuid.UUID) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.User{}, &core.NotFoundError{Resource: "user"}
	}
	return u, nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, &core.NotFoundError{Resource: "user"}
}

func (s *Store) UpdateUser(_ context.Context, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok {
		return core.User{}, &core.NotFoundError{Resource: "user"}
	}
	for id, other := range s.users {
		if id != u.ID && other.Email == u.Email {
			return core.User{}, &core.DuplicateError{Resource: "user", Key: u.Email}
		}
	}
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) DeleteUserData(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return &core.NotFoundError{Resource: "user"}
	}
	delete(s.users, id)
	for cid, c := range s.cats {
		if c.UserID == id {
			delete(s.cats, cid)
		}
	}
	for tid, t := range s.txns {
		if t.UserID == id {
			delete(s.txns, tid)
		}
	}
	for tid, t := range s.templates {
		if t.UserID == id {
			delete(s.templates, tid)
		}
	}
	return nil
}

// Categories

func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.cats {
		if existing.UserID == c.UserID && existing.Name == c.Name {
			return core.Category{}, &core.DuplicateError{Resource: "category", Key: c.Name}
		}
	}
	now := time.Now().UTC()
	c.ID = uuid.New()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.cats[c.ID] = c
	return c, nil
}

func (s *Store) CategoryByID(_ context.Context, userID, id uuid.UUID) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cats[id]
	if !ok || c.UserID != userID {
		return core.Category{}, &core.NotFoundError{Resource: "category"}
	}
	return c, nil
}

func (s *Store) CategoriesByUser(_ context.Context, userID uuid.UUID) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0)
	for _, c := range s.cats {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].Name, out[j].Name) < 0
	})
	return out, nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.cats[c.ID]
	if !ok || existing.UserID != c.UserID {
		return core.Category{}, &core.NotFoundError{Resource: "category"}
	}
	for id, other := range s.cats {
		if id != c.ID && other.UserID == c.UserID && other.Name == c.Name {
			return core.Category{}, &core.DuplicateError{Resource: "category", Key: c.Name}
		}
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	s.cats[c.ID] = c
	return c, nil
}

func (s *Store) DeleteCategory(_ context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cats[id]
	if !ok || c.UserID != userID {
		return &core.NotFoundError{Resource: "category"}
	}
	delete(s.cats, id)
	return nil
}

// Transactions

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	s.txns[t.ID] = t
	return t, nil
}

func (s *Store) TransactionByID(_ context.Context, userID, id uuid.UUID) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txns[id]
	if !ok || t.UserID != userID {
		return core.Transaction{}, &core.NotFoundError{Resource: "transaction"}
	}
	return t, nil
}

func (s *Store) TransactionsByUser(_ context.Context, userID uuid.UUID, f core.TransactionFilter) ([]core.Transaction, core.Pagination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]core.Transaction, 0)
	for _, t := range s.txns {
		if t.UserID != userID {
			continue
		}
		if !f.Start.IsZero() && t.Date.Before(f.Start) {
			continue
		}
		if !f.End.IsZero() && t.Date.After(f.End) {
			continue
		}
		if f.CategoryID != uuid.Nil && t.CategoryID != f.CategoryID {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if !f.IncludeUnresolved {
		resolved := matched[:0]
		for _, t := range matched {
			if c, ok := s.cats[t.CategoryID]; ok && c.UserID == userID {
				resolved = append(resolved, t)
			}
		}
		matched = resolved
	}

	page := core.Pagination{Total: total, Page: 1, Pages: 1}
	switch {
	case f.Limit > 0:
		if len(matched) > f.Limit {
			matched = matched[:f.Limit]
		}
	case f.PageSize > 0:
		if f.Page > 0 {
			page.Page = f.Page
		}
		page.Pages = (total + f.PageSize - 1) / f.PageSize
		start := (page.Page - 1) * f.PageSize
		if start >= len(matched) {
			matched = matched[:0]
		} else {
			end := start + f.PageSize
			if end > len(matched) {
				end = len(matched)
			}
			matched = matched[start:end]
		}
	}
	return matched, page, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.txns[t.ID]
	if !ok || existing.UserID != t.UserID {
		return core.Transaction{}, &core.NotFoundError{Resource: "transaction"}
	}
	t.CreatedAt = existing.CreatedAt
	s.txns[t.ID] = t
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txns[id]
	if !ok || t.UserID != userID {
		return &core.NotFoundError{Resource: "transaction"}
	}
	delete(s.txns, id)
	return nil
}

// Recurring templates

func (s *Store) CreateTemplate(_ context.Context, t core.RecurringTemplate) (core.RecurringTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	s.templates[t.ID] = t
	return t, nil
}

func (s *Store) TemplateByID(_ context.Context, userID, id uuid.UUID) (core.RecurringTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok || t.UserID != userID {
		return core.RecurringTemplate{}, &core.NotFoundError{Resource: "recurring template"}
	}
	return t, nil
}

func (s *Store) TemplatesByUser(_ context.Context, userID uuid.UUID) ([]core.RecurringTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RecurringTemplate, 0)
	for _, t := range s.templates {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateTemplate(_ context.Context, t core.RecurringTemplate) (core.RecurringTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.templates[t.ID]
	if !ok || existing.UserID != t.UserID {
		return core.RecurringTemplate{}, &core.NotFoundError{Resource: "recurring template"}
	}
	t.CreatedAt = existing.CreatedAt
	t.LastRun = existing.LastRun
	s.templates[t.ID] = t
	return t, nil
}

func (s *Store) DeleteTemplate(_ context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok || t.UserID != userID {
		return &core.NotFoundError{Resource: "recurring template"}
	}
	delete(s.templates, id)
	return nil
}

func (s *Store) DueTemplates(_ context.Context, now time.Time) ([]core.RecurringTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RecurringTemplate, 0)
	for _, t := range s.templates {
		if t.Active(now) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) MarkTemplateRun(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok {
		return &core.NotFoundError{Resource: "recurring template"}
	}
	t.LastRun = at.UTC()
	s.templates[id] = t
	return nil
}
