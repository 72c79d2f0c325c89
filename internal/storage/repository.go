package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cashflow/internal/core"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRepository implements Store on a single SQLite database file.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite gains nothing from concurrent writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Ping reports whether the database is reachable. Backs the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Users

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	now := time.Now().UTC()
	u.ID = uuid.New()
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID.String(), u.Name, u.Email, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return core.User{}, &core.DuplicateError{Resource: "user", Key: u.Email}
	}
	if err != nil {
		return core.User{}, &core.StoreError{Op: "create user", Err: err}
	}
	return u, nil
}

func (r *SQLiteRepository) UserByID(ctx context.Context, id uuid.UUID) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at, updated_at FROM users WHERE id = ?`, id.String())
	return scanUser(row)
}

func (r *SQLiteRepository) UserByEmail(ctx context.Context, email string) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at, updated_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (core.User, error) {
	var (
		u       core.User
		rawID   string
	)
	err := row.Scan(&rawID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, &core.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return core.User{}, &core.StoreError{Op: "read user", Err: err}
	}
	u.ID, err = uuid.Parse(rawID)
	if err != nil {
		return core.User{}, &core.StoreError{Op: "read user", Err: err}
	}
	return u, nil
}

func (r *SQLiteRepository) UpdateUser(ctx context.Context, u core.User) (core.User, error) {
	u.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?`,
		u.Name, u.Email, u.UpdatedAt, u.ID.String())
	if isUniqueViolation(err) {
		return core.User{}, &core.DuplicateError{Resource: "user", Key: u.Email}
	}
	if err != nil {
		return core.User{}, &core.StoreError{Op: "update user", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.User{}, &core.NotFoundError{Resource: "user"}
	}
	return r.UserByID(ctx, u.ID)
}

// DeleteUserData removes the user and all owned records in one transaction.
func (r *SQLiteRepository) DeleteUserData(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &core.StoreError{Op: "delete user", Err: err}
	}
	defer tx.Rollback()

	uid := id.String()
	for _, stmt := range []string{
		`DELETE FROM transactions WHERE user_id = ?`,
		`DELETE FROM recurring_templates WHERE user_id = ?`,
		`DELETE FROM categories WHERE user_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, uid); err != nil {
			return &core.StoreError{Op: "delete user", Err: err}
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, uid)
	if err != nil {
		return &core.StoreError{Op: "delete user", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Resource: "user"}
	}

	if err := tx.Commit(); err != nil {
		return &core.StoreError{Op: "delete user", Err: err}
	}
	return nil
}

// Categories

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	now := time.Now().UTC()
	c.ID = uuid.New()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, type, color, protected, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.UserID.String(), c.Name, string(c.Type), c.Color, c.Protected, c.CreatedAt, c.UpdatedAt)
	if isUniqueViolation(err) {
		return core.Category{}, &core.DuplicateError{Resource: "category", Key: c.Name}
	}
	if err != nil {
		return core.Category{}, &core.StoreError{Op: "create category", Err: err}
	}
	return c, nil
}

const categoryColumns = `id, user_id, name, type, color, protected, created_at, updated_at`

func (r *SQLiteRepository) CategoryByID(ctx context.Context, userID, id uuid.UUID) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND user_id = ?`,
		id.String(), userID.String())
	c, err := scanCategory(row)
	if err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (r *SQLiteRepository) CategoriesByUser(ctx context.Context, userID uuid.UUID) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = ? ORDER BY name ASC`,
		userID.String())
	if err != nil {
		return nil, &core.StoreError{Op: "list categories", Err: err}
	}
	defer rows.Close()

	cats := make([]core.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.StoreError{Op: "list categories", Err: err}
	}
	return cats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (core.Category, error) {
	var (
		c              core.Category
		rawID, rawUser string
		flowType       string
	)
	err := row.Scan(&rawID, &rawUser, &c.Name, &flowType, &c.Color, &c.Protected, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, &core.NotFoundError{Resource: "category"}
	}
	if err != nil {
		return core.Category{}, &core.StoreError{Op: "read category", Err: err}
	}
	if c.ID, err = uuid.Parse(rawID); err != nil {
		return core.Category{}, &core.StoreError{Op: "read category", Err: err}
	}
	if c.UserID, err = uuid.Parse(rawUser); err != nil {
		return core.Category{}, &core.StoreError{Op: "read category", Err: err}
	}
	c.Type = core.FlowType(flowType)
	return c, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	c.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, type = ?, color = ?, protected = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		c.Name, string(c.Type), c.Color, c.Protected, c.UpdatedAt, c.ID.String(), c.UserID.String())
	if isUniqueViolation(err) {
		return core.Category{}, &core.DuplicateError{Resource: "category", Key: c.Name}
	}
	if err != nil {
		return core.Category{}, &core.StoreError{Op: "update category", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Category{}, &core.NotFoundError{Resource: "category"}
	}
	return r.CategoryByID(ctx, c.UserID, c.ID)
}

// DeleteCategory removes the category without touching transactions that
// reference it; those become orphans and are filtered at read time.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id.String(), userID.String())
	if err != nil {
		return &core.StoreError{Op: "delete category", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Resource: "category"}
	}
	return nil
}

// Transactions

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, category_id, type, amount_cents, description, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.UserID.String(), t.CategoryID.String(), string(t.Type),
		t.Amount.Cents, t.Description, t.Date.UTC(), t.CreatedAt)
	if err != nil {
		return core.Transaction{}, &core.StoreError{Op: "create transaction", Err: err}
	}
	return t, nil
}

const transactionColumns = `id, user_id, category_id, type, amount_cents, description, date, created_at`

func (r *SQLiteRepository) TransactionByID(ctx context.Context, userID, id uuid.UUID) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`,
		id.String(), userID.String())
	return scanTransaction(row)
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                      core.Transaction
		rawID, rawUser, rawCat string
		flowType               string
	)
	err := row.Scan(&rawID, &rawUser, &rawCat, &flowType, &t.Amount.Cents, &t.Description, &t.Date, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, &core.NotFoundError{Resource: "transaction"}
	}
	if err != nil {
		return core.Transaction{}, &core.StoreError{Op: "read transaction", Err: err}
	}
	if t.ID, err = uuid.Parse(rawID); err != nil {
		return core.Transaction{}, &core.StoreError{Op: "read transaction", Err: err}
	}
	if t.UserID, err = uuid.Parse(rawUser); err != nil {
		return core.Transaction{}, &core.StoreError{Op: "read transaction", Err: err}
	}
	if t.CategoryID, err = uuid.Parse(rawCat); err != nil {
		return core.Transaction{}, &core.StoreError{Op: "read transaction", Err: err}
	}
	t.Type = core.FlowType(flowType)
	return t, nil
}

func (r *SQLiteRepository) TransactionsByUser(ctx context.Context, userID uuid.UUID, f core.TransactionFilter) ([]core.Transaction, core.Pagination, error) {
	where := []string{"t.user_id = ?"}
	args := []any{userID.String()}

	if !f.Start.IsZero() {
		where = append(where, "t.date >= ?")
		args = append(args, f.Start.UTC())
	}
	if !f.End.IsZero() {
		where = append(where, "t.date <= ?")
		args = append(args, f.End.UTC())
	}
	if f.CategoryID != uuid.Nil {
		where = append(where, "t.category_id = ?")
		args = append(args, f.CategoryID.String())
	}
	if f.Type != "" {
		where = append(where, "t.type = ?")
		args = append(args, string(f.Type))
	}
	cond := strings.Join(where, " AND ")

	// Total counts every owned match; unresolved-category filtering applies
	// only to the returned page.
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions t WHERE `+cond, args...).Scan(&total)
	if err != nil {
		return nil, core.Pagination{}, &core.StoreError{Op: "count transactions", Err: err}
	}

	query := `SELECT t.id, t.user_id, t.category_id, t.type, t.amount_cents, t.description, t.date, t.created_at
		 FROM transactions t`
	if !f.IncludeUnresolved {
		query += ` JOIN categories c ON c.id = t.category_id AND c.user_id = t.user_id`
	}
	query += ` WHERE ` + cond + ` ORDER BY t.date DESC, t.created_at DESC`

	page := core.Pagination{Total: total, Page: 1, Pages: 1}
	switch {
	case f.Limit > 0:
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	case f.PageSize > 0:
		if f.Page > 0 {
			page.Page = f.Page
		}
		page.Pages = (total + f.PageSize - 1) / f.PageSize
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.PageSize, (page.Page-1)*f.PageSize)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, core.Pagination{}, &core.StoreError{Op: "list transactions", Err: err}
	}
	defer rows.Close()

	txns := make([]core.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, core.Pagination{}, err
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Pagination{}, &core.StoreError{Op: "list transactions", Err: err}
	}
	return txns, page, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET category_id = ?, type = ?, amount_cents = ?, description = ?, date = ?
		 WHERE id = ? AND user_id = ?`,
		t.CategoryID.String(), string(t.Type), t.Amount.Cents, t.Description, t.Date.UTC(),
		t.ID.String(), t.UserID.String())
	if err != nil {
		return core.Transaction{}, &core.StoreError{Op: "update transaction", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Transaction{}, &core.NotFoundError{Resource: "transaction"}
	}
	return r.TransactionByID(ctx, t.UserID, t.ID)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id.String(), userID.String())
	if err != nil {
		return &core.StoreError{Op: "delete transaction", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Resource: "transaction"}
	}
	return nil
}

// Recurring templates

func (r *SQLiteRepository) CreateTemplate(ctx context.Context, t core.RecurringTemplate) (core.RecurringTemplate, error) {
	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_templates (id, user_id, category_id, type, amount_cents, description, frequency, start_date, end_date, last_run, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.UserID.String(), t.CategoryID.String(), string(t.Type),
		t.Amount.Cents, t.Description, string(t.Frequency),
		t.StartDate.UTC(), nullableTime(t.EndDate), nullableTime(t.LastRun), t.CreatedAt)
	if err != nil {
		return core.RecurringTemplate{}, &core.StoreError{Op: "create template", Err: err}
	}
	return t, nil
}

const templateColumns = `id, user_id, category_id, type, amount_cents, description, frequency, start_date, end_date, last_run, created_at`

func (r *SQLiteRepository) TemplateByID(ctx context.Context, userID, id uuid.UUID) (core.RecurringTemplate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM recurring_templates WHERE id = ? AND user_id = ?`,
		id.String(), userID.String())
	return scanTemplate(row)
}

func (r *SQLiteRepository) TemplatesByUser(ctx context.Context, userID uuid.UUID) ([]core.RecurringTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM recurring_templates WHERE user_id = ? ORDER BY created_at ASC`,
		userID.String())
	if err != nil {
		return nil, &core.StoreError{Op: "list templates", Err: err}
	}
	defer rows.Close()

	tpls := make([]core.RecurringTemplate, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		tpls = append(tpls, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.StoreError{Op: "list templates", Err: err}
	}
	return tpls, nil
}

func scanTemplate(row rowScanner) (core.RecurringTemplate, error) {
	var (
		t                      core.RecurringTemplate
		rawID, rawUser, rawCat string
		flowType, freq         string
		endDate, lastRun       sql.NullTime
	)
	err := row.Scan(&rawID, &rawUser, &rawCat, &flowType, &t.Amount.Cents, &t.Description,
		&freq, &t.StartDate, &endDate, &lastRun, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringTemplate{}, &core.NotFoundError{Resource: "recurring template"}
	}
	if err != nil {
		return core.RecurringTemplate{}, &core.StoreError{Op: "read template", Err: err}
	}
	if t.ID, err = uuid.Parse(rawID); err != nil {
		return core.RecurringTemplate{}, &core.StoreError{Op: "read template", Err: err}
	}
	if t.UserID, err = uuid.Parse(rawUser); err != nil {
		return core.RecurringTemplate{}, &core.StoreError{Op: "read template", Err: err}
	}
	if t.CategoryID, err = uuid.Parse(rawCat); err != nil {
		return core.RecurringTemplate{}, &core.StoreError{Op: "read template", Err: err}
	}
	t.Type = core.FlowType(flowType)
	t.Frequency = core.Frequency(freq)
	if endDate.Valid {
		t.EndDate = endDate.Time
	}
	if lastRun.Valid {
		t.LastRun = lastRun.Time
	}
	return t, nil
}

func (r *SQLiteRepository) UpdateTemplate(ctx context.Context, t core.RecurringTemplate) (core.RecurringTemplate, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_templates SET category_id = ?, type = ?, amount_cents = ?, description = ?, frequency = ?, start_date = ?, end_date = ?
		 WHERE id = ? AND user_id = ?`,
		t.CategoryID.String(), string(t.Type), t.Amount.Cents, t.Description, string(t.Frequency),
		t.StartDate.UTC(), nullableTime(t.EndDate), t.ID.String(), t.UserID.String())
	if err != nil {
		return core.RecurringTemplate{}, &core.StoreError{Op: "update template", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.RecurringTemplate{}, &core.NotFoundError{Resource: "recurring template"}
	}
	return r.TemplateByID(ctx, t.UserID, t.ID)
}

func (r *SQLiteRepository) DeleteTemplate(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM recurring_templates WHERE id = ? AND user_id = ?`, id.String(), userID.String())
	if err != nil {
		return &core.StoreError{Op: "delete template", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Resource: "recurring template"}
	}
	return nil
}

func (r *SQLiteRepository) DueTemplates(ctx context.Context, now time.Time) ([]core.RecurringTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM recurring_templates
		 WHERE start_date <= ? AND (end_date IS NULL OR end_date >= ?)
		 ORDER BY created_at ASC`,
		now.UTC(), now.UTC())
	if err != nil {
		return nil, &core.StoreError{Op: "list due templates", Err: err}
	}
	defer rows.Close()

	tpls := make([]core.RecurringTemplate, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		tpls = append(tpls, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.StoreError{Op: "list due templates", Err: err}
	}
	return tpls, nil
}

func (r *SQLiteRepository) MarkTemplateRun(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_templates SET last_run = ? WHERE id = ?`, at.UTC(), id.String())
	if err != nil {
		return &core.StoreError{Op: "mark template run", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Resource: "recurring template"}
	}
	return nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
