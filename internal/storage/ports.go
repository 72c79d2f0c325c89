// Package storage provides the persistence layer: the Store interface, its
// SQLite implementation and the embedded schema migrations.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cashflow/internal/core"
)

// All reads and writes are keyed by the owning user; a lookup that matches a
// record owned by someone else reports core.NotFoundError exactly like a
// missing record.
type (
	UserStore interface {
		CreateUser(ctx context.Context, u core.User) (core.User, error)
		UserByID(ctx context.Context, id uuid.UUID) (core.User, error)
		UserByEmail(ctx context.Context, email string) (core.User, error)
		UpdateUser(ctx context.Context, u core.User) (core.User, error)
		// DeleteUserData removes the user and everything they own.
		DeleteUserData(ctx context.Context, id uuid.UUID) error
	}

	CategoryStore interface {
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
		CategoryByID(ctx context.Context, userID, id uuid.UUID) (core.Category, error)
		CategoriesByUser(ctx context.Context, userID uuid.UUID) ([]core.Category, error)
		UpdateCategory(ctx context.Context, c core.Category) (core.Category, error)
		DeleteCategory(ctx context.Context, userID, id uuid.UUID) error
	}

	TransactionStore interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		TransactionByID(ctx context.Context, userID, id uuid.UUID) (core.Transaction, error)
		// TransactionsByUser returns transactions sorted by date descending.
		// Pagination.Total counts every match before unresolved-category
		// filtering, mirroring the listing contract.
		TransactionsByUser(ctx context.Context, userID uuid.UUID, f core.TransactionFilter) ([]core.Transaction, core.Pagination, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error
	}

	TemplateStore interface {
		CreateTemplate(ctx context.Context, t core.RecurringTemplate) (core.RecurringTemplate, error)
		TemplateByID(ctx context.Context, userID, id uuid.UUID) (core.RecurringTemplate, error)
		TemplatesByUser(ctx context.Context, userID uuid.UUID) ([]core.RecurringTemplate, error)
		UpdateTemplate(ctx context.Context, t core.RecurringTemplate) (core.RecurringTemplate, error)
		DeleteTemplate(ctx context.Context, userID, id uuid.UUID) error
		// DueTemplates returns active templates across all users whose window
		// contains now; the recurring worker decides per-frequency dueness.
		DueTemplates(ctx context.Context, now time.Time) ([]core.RecurringTemplate, error)
		MarkTemplateRun(ctx context.Context, id uuid.UUID, at time.Time) error
	}

	// Store is the full persistence surface the services consume.
	Store interface {
		UserStore
		CategoryStore
		TransactionStore
		TemplateStore
		Close() error
	}
)
