package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cashflow/internal/core"

	"github.com/google/uuid"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "cashflow_test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *SQLiteRepository, name, email string) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), core.User{Name: name, Email: email})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return u
}

func seedCategory(t *testing.T, repo *SQLiteRepository, userID uuid.UUID, name string, ft core.FlowType) core.Category {
	t.Helper()
	c, err := repo.CreateCategory(context.Background(), core.Category{
		UserID: userID,
		Name:   name,
		Type:   ft,
		Color:  core.DefaultColor,
	})
	if err != nil {
		t.Fatalf("CreateCategory(%s): %v", name, err)
	}
	return c
}

func seedTransaction(t *testing.T, repo *SQLiteRepository, userID, catID uuid.UUID, ft core.FlowType, cents int64, date time.Time) core.Transaction {
	t.Helper()
	txn, err := repo.CreateTransaction(context.Background(), core.Transaction{
		UserID:     userID,
		CategoryID: catID,
		Type:       ft,
		Amount:     core.Money{Cents: cents},
		Date:       date,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	return txn
}

func TestUserRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, repo, "Ada", "ada@example.com")
	if u.ID == uuid.Nil {
		t.Fatal("expected generated user ID")
	}

	got, err := repo.UserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("UserByEmail: %v", err)
	}
	if got.ID != u.ID || got.Name != "Ada" {
		t.Errorf("got %+v, want id %s name Ada", got, u.ID)
	}

	if _, err := repo.CreateUser(ctx, core.User{Name: "Other", Email: "ada@example.com"}); !core.IsDuplicate(err) {
		t.Errorf("duplicate email: got %v, want DuplicateError", err)
	}

	if _, err := repo.UserByID(ctx, uuid.New()); !core.IsNotFound(err) {
		t.Errorf("unknown user: got %v, want NotFoundError", err)
	}
}

func TestCategoryUniquePerUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ada := seedUser(t, repo, "Ada", "ada@example.com")
	bob := seedUser(t, repo, "Bob", "bob@example.com")

	seedCategory(t, repo, ada.ID, "groceries", core.FlowExpense)

	if _, err := repo.CreateCategory(ctx, core.Category{
		UserID: ada.ID, Name: "groceries", Type: core.FlowExpense, Color: core.DefaultColor,
	}); !core.IsDuplicate(err) {
		t.Errorf("same user same name: got %v, want DuplicateError", err)
	}

	// Same name under a different account is legal.
	if _, err := repo.CreateCategory(ctx, core.Category{
		UserID: bob.ID, Name: "groceries", Type: core.FlowExpense, Color: core.DefaultColor,
	}); err != nil {
		t.Errorf("other user same name: %v", err)
	}
}

func TestCategoryScoping(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ada := seedUser(t, repo, "Ada", "ada@example.com")
	bob := seedUser(t, repo, "Bob", "bob@example.com")
	cat := seedCategory(t, repo, ada.ID, "salary", core.FlowIncome)

	if _, err := repo.CategoryByID(ctx, bob.ID, cat.ID); !core.IsNotFound(err) {
		t.Errorf("cross-user read: got %v, want NotFoundError", err)
	}
	if err := repo.DeleteCategory(ctx, bob.ID, cat.ID); !core.IsNotFound(err) {
		t.Errorf("cross-user delete: got %v, want NotFoundError", err)
	}

	// The record is still there for its owner.
	if _, err := repo.CategoryByID(ctx, ada.ID, cat.ID); err != nil {
		t.Errorf("owner read after failed delete: %v", err)
	}
}

func TestTransactionFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ada := seedUser(t, repo, "Ada", "ada@example.com")
	salary := seedCategory(t, repo, ada.ID, "salary", core.FlowIncome)
	rent := seedCategory(t, repo, ada.ID, "rent", core.FlowExpense)

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	seedTransaction(t, repo, ada.ID, salary.ID, core.FlowIncome, 300000, jan)
	seedTransaction(t, repo, ada.ID, rent.ID, core.FlowExpense, 120000, feb)
	seedTransaction(t, repo, ada.ID, rent.ID, core.FlowExpense, 120000, mar)

	tests := []struct {
		name      string
		filter    core.TransactionFilter
		wantCount int
		wantTotal int
	}{
		{"all", core.TransactionFilter{}, 3, 3},
		{"by type", core.TransactionFilter{Type: core.FlowExpense}, 2, 2},
		{"by category", core.TransactionFilter{CategoryID: salary.ID}, 1, 1},
		{"date window", core.TransactionFilter{Start: feb, End: mar}, 2, 2},
		{"paged", core.TransactionFilter{Page: 2, PageSize: 2}, 1, 3},
		{"limited", core.TransactionFilter{Limit: 2}, 2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns, page, err := repo.TransactionsByUser(ctx, ada.ID, tt.filter)
			if err != nil {
				t.Fatalf("TransactionsByUser: %v", err)
			}
			if len(txns) != tt.wantCount {
				t.Errorf("rows: got %d, want %d", len(txns), tt.wantCount)
			}
			if page.Total != tt.wantTotal {
				t.Errorf("total: got %d, want %d", page.Total, tt.wantTotal)
			}
		})
	}

	t.Run("newest first", func(t *testing.T) {
		txns, _, err := repo.TransactionsByUser(ctx, ada.ID, core.TransactionFilter{})
		if err != nil {
			t.Fatalf("TransactionsByUser: %v", err)
		}
		for i := 1; i < len(txns); i++ {
			if txns[i].Date.After(txns[i-1].Date) {
				t.Errorf("out of order at %d: %v after %v", i, txns[i].Date, txns[i-1].Date)
			}
		}
	})
}

func TestOrphanedTransactionsHiddenFromListing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ada := seedUser(t, repo, "Ada", "ada@example.com")
	cat := seedCategory(t, repo, ada.ID, "snacks", core.FlowExpense)
	seedTransaction(t, repo, ada.ID, cat.ID, core.FlowExpense, 500, time.Now().UTC())

	if err := repo.DeleteCategory(ctx, ada.ID, cat.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	txns, page, err := repo.TransactionsByUser(ctx, ada.ID, core.TransactionFilter{})
	if err != nil {
		t.Fatalf("TransactionsByUser: %v", err)
	}
	if len(txns) != 0 {
		t.Errorf("listing after category delete: got %d rows, want 0", len(txns))
	}
	if page.Total != 1 {
		t.Errorf("total still counts the orphan: got %d, want 1", page.Total)
	}

	unresolved, _, err := repo.TransactionsByUser(ctx, ada.ID, core.TransactionFilter{IncludeUnresolved: true})
	if err != nil {
		t.Fatalf("TransactionsByUser unresolved: %v", err)
	}
	if len(unresolved) != 1 {
		t.Errorf("unresolved listing: got %d rows, want 1", len(unresolved))
	}
}

func TestDeleteUserDataCascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ada := seedUser(t, repo, "Ada", "ada@example.com")
	bob := seedUser(t, repo, "Bob", "bob@example.com")

	adaCat := seedCategory(t, repo, ada.ID, "rent", core.FlowExpense)
	bobCat := seedCategory(t, repo, bob.ID, "rent", core.FlowExpense)
	seedTransaction(t, repo, ada.ID, adaCat.ID, core.FlowExpense, 100, time.Now().UTC())
	seedTransaction(t, repo, bob.ID, bobCat.ID, core.FlowExpense, 100, time.Now().UTC())

	if _, err := repo.CreateTemplate(ctx, core.RecurringTemplate{
		UserID: ada.ID, CategoryID: adaCat.ID, Type: core.FlowExpense,
		Amount: core.Money{Cents: 100}, Frequency: core.FrequencyMonthly,
		StartDate: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	if err := repo.DeleteUserData(ctx, ada.ID); err != nil {
		t.Fatalf("DeleteUserData: %v", err)
	}

	if _, err := repo.UserByID(ctx, ada.ID); !core.IsNotFound(err) {
		t.Errorf("user after delete: got %v, want NotFoundError", err)
	}
	cats, err := repo.CategoriesByUser(ctx, ada.ID)
	if err != nil || len(cats) != 0 {
		t.Errorf("categories after delete: %v, %d rows", err, len(cats))
	}
	tpls, err := repo.TemplatesByUser(ctx, ada.ID)
	if err != nil || len(tpls) != 0 {
		t.Errorf("templates after delete: %v, %d rows", err, len(tpls))
	}

	// Other accounts are untouched.
	if _, err := repo.UserByID(ctx, bob.ID); err != nil {
		t.Errorf("unrelated user: %v", err)
	}
	bobTxns, _, err := repo.TransactionsByUser(ctx, bob.ID, core.TransactionFilter{})
	if err != nil || len(bobTxns) != 1 {
		t.Errorf("unrelated transactions: %v, %d rows", err, len(bobTxns))
	}
}

func TestDueTemplates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ada := seedUser(t, repo, "Ada", "ada@example.com")
	cat := seedCategory(t, repo, ada.ID, "rent", core.FlowExpense)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	mk := func(start, end time.Time) core.RecurringTemplate {
		tpl, err := repo.CreateTemplate(ctx, core.RecurringTemplate{
			UserID: ada.ID, CategoryID: cat.ID, Type: core.FlowExpense,
			Amount: core.Money{Cents: 100}, Frequency: core.FrequencyMonthly,
			StartDate: start, EndDate: end,
		})
		if err != nil {
			t.Fatalf("CreateTemplate: %v", err)
		}
		return tpl
	}

	active := mk(now.AddDate(0, -1, 0), time.Time{})
	mk(now.AddDate(0, 1, 0), time.Time{})               // not started yet
	mk(now.AddDate(0, -6, 0), now.AddDate(0, -1, 0))    // expired
	stillOpen := mk(now.AddDate(0, -2, 0), now.AddDate(0, 2, 0))

	due, err := repo.DueTemplates(ctx, now)
	if err != nil {
		t.Fatalf("DueTemplates: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("due templates: got %d, want 2", len(due))
	}
	got := map[uuid.UUID]bool{due[0].ID: true, due[1].ID: true}
	if !got[active.ID] || !got[stillOpen.ID] {
		t.Errorf("wrong templates due: %v", due)
	}

	if err := repo.MarkTemplateRun(ctx, active.ID, now); err != nil {
		t.Fatalf("MarkTemplateRun: %v", err)
	}
	tpl, err := repo.TemplateByID(ctx, ada.ID, active.ID)
	if err != nil {
		t.Fatalf("TemplateByID: %v", err)
	}
	if !tpl.LastRun.Equal(now) {
		t.Errorf("last run: got %v, want %v", tpl.LastRun, now)
	}
}
