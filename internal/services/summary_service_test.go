package services

import (
	"context"
	"testing"
	"time"

	"cashflow/internal/core"
)

func TestSummaryEmptyUser(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSummaryService(env.access, env.logger, 30)
	ada := env.user(t, "ada@example.com")

	s, err := svc.Summarize(context.Background(), ada.ID, SummaryRequest{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.TotalIncome.Cents != 0 || s.TotalExpense.Cents != 0 || s.Balance.Cents != 0 {
		t.Errorf("totals: %+v", s)
	}
	if len(s.Transactions) != 0 {
		t.Errorf("transactions: got %d, want 0", len(s.Transactions))
	}
	if len(s.Distribution.Income) != 0 || len(s.Distribution.Expense) != 0 {
		t.Errorf("distribution should be empty: %+v", s.Distribution)
	}
}

func TestSummaryTotalsAndBalance(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSummaryService(env.access, env.logger, 30)
	ada := env.user(t, "ada@example.com")
	salary := env.category(t, ada.ID, "salary", core.FlowIncome)
	rent := env.category(t, ada.ID, "rent", core.FlowExpense)
	food := env.category(t, ada.ID, "food", core.FlowExpense)

	day := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	env.transaction(t, ada.ID, salary.ID, core.FlowIncome, 300000, day)
	env.transaction(t, ada.ID, rent.ID, core.FlowExpense, 120000, day.AddDate(0, 0, 1))
	env.transaction(t, ada.ID, food.ID, core.FlowExpense, 30000, day.AddDate(0, 0, 2))

	s, err := svc.Summarize(context.Background(), ada.ID, SummaryRequest{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.TotalIncome.Cents != 300000 {
		t.Errorf("income: got %d, want 300000", s.TotalIncome.Cents)
	}
	if s.TotalExpense.Cents != 150000 {
		t.Errorf("expense: got %d, want 150000", s.TotalExpense.Cents)
	}
	if s.Balance.Cents != 150000 {
		t.Errorf("balance: got %d, want 150000", s.Balance.Cents)
	}
	if len(s.Transactions) != 3 {
		t.Errorf("transactions: got %d, want 3", len(s.Transactions))
	}
	// Newest first, mirroring the listing order.
	if s.Transactions[0].Category != "food" {
		t.Errorf("first entry: got %q, want food", s.Transactions[0].Category)
	}
}

func TestSummaryReconciliation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSummaryService(env.access, env.logger, 30)
	ada := env.user(t, "ada@example.com")
	salary := env.category(t, ada.ID, "salary", core.FlowIncome)
	gifts := env.category(t, ada.ID, "gifts", core.FlowIncome)
	rent := env.category(t, ada.ID, "rent", core.FlowExpense)
	food := env.category(t, ada.ID, "food", core.FlowExpense)

	day := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	env.transaction(t, ada.ID, salary.ID, core.FlowIncome, 250000, day)
	env.transaction(t, ada.ID, gifts.ID, core.FlowIncome, 50000, day)
	env.transaction(t, ada.ID, rent.ID, core.FlowExpense, 120000, day)
	env.transaction(t, ada.ID, food.ID, core.FlowExpense, 40000, day)
	env.transaction(t, ada.ID, food.ID, core.FlowExpense, 20000, day)

	s, err := svc.Summarize(context.Background(), ada.ID, SummaryRequest{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	check := func(t *testing.T, shares []core.CategoryShare, wantTotal int64) {
		t.Helper()
		var sumAmount, sumPercent int64
		for _, share := range shares {
			sumAmount += share.Amount.Cents
			sumPercent += share.Percentage
		}
		if sumAmount != wantTotal {
			t.Errorf("share amounts sum to %d, want %d", sumAmount, wantTotal)
		}
		if sumPercent < 99 || sumPercent > 101 {
			t.Errorf("percentages sum to %d, want 100 within rounding", sumPercent)
		}
	}
	check(t, s.Distribution.Income, s.TotalIncome.Cents)
	check(t, s.Distribution.Expense, s.TotalExpense.Cents)
}

func TestSummaryIncludesZeroCategories(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSummaryService(env.access, env.logger, 30)
	ada := env.user(t, "ada@example.com")
	rent := env.category(t, ada.ID, "rent", core.FlowExpense)
	env.category(t, ada.ID, "travel", core.FlowExpense) // never used

	env.transaction(t, ada.ID, rent.ID, core.FlowExpense, 100000, time.Now().UTC())

	s, err := svc.Summarize(context.Background(), ada.ID, SummaryRequest{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(s.Distribution.Expense) != 2 {
		t.Fatalf("expense shares: got %d, want 2", len(s.Distribution.Expense))
	}
	byName := map[string]core.CategoryShare{}
	for _, share := range s.Distribution.Expense {
		byName[share.Name] = share
	}
	if byName["travel"].Amount.Cents != 0 || byName["travel"].Percentage != 0 {
		t.Errorf("unused category: %+v", byName["travel"])
	}
	if byName["rent"].Percentage != 100 {
		t.Errorf("rent share: %+v", byName["rent"])
	}
}

func TestSummaryOrphansGoToUncategorized(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSummaryService(env.access, env.logger, 30)
	ada := env.user(t, "ada@example.com")
	ctx := context.Background()

	snacks := env.category(t, ada.ID, "snacks", core.FlowExpense)
	rent := env.category(t, ada.ID, "rent", core.FlowExpense)
	env.transaction(t, ada.ID, snacks.ID, core.FlowExpense, 500, time.Now().UTC())
	env.transaction(t, ada.ID, rent.ID, core.FlowExpense, 1500, time.Now().UTC())

	if err := env.store.DeleteCategory(ctx, ada.ID, snacks.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	s, err := svc.Summarize(ctx, ada.ID, SummaryRequest{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	// Orphaned spend still counts toward the totals.
	if s.TotalExpense.Cents != 2000 {
		t.Errorf("expense: got %d, want 2000", s.TotalExpense.Cents)
	}
	var uncategorized *core.CategoryShare
	for i := range s.Distribution.Expense {
		if s.Distribution.Expense[i].Name == core.UncategorizedBucket {
			uncategorized = &s.Distribution.Expense[i]
		}
	}
	if uncategorized == nil {
		t.Fatalf("no %s bucket: %+v", core.UncategorizedBucket, s.Distribution.Expense)
	}
	if uncategorized.Amount.Cents != 500 || uncategorized.Percentage != 25 {
		t.Errorf("orphan bucket: %+v", uncategorized)
	}
}

func TestSummaryRecentLimit(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSummaryService(env.access, env.logger, 3)
	ada := env.user(t, "ada@example.com")
	rent := env.category(t, ada.ID, "rent", core.FlowExpense)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		env.transaction(t, ada.ID, rent.ID, core.FlowExpense, 100, base.AddDate(0, 0, i))
	}

	s, err := svc.Summarize(context.Background(), ada.ID, SummaryRequest{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	// Only the newest 3 feed the figures, so totals reconcile with the list.
	if len(s.Transactions) != 3 {
		t.Errorf("entries: got %d, want 3", len(s.Transactions))
	}
	if s.TotalExpense.Cents != 300 {
		t.Errorf("expense: got %d, want 300", s.TotalExpense.Cents)
	}
}

func TestSummaryDateRangeIgnoresLimit(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSummaryService(env.access, env.logger, 3)
	ada := env.user(t, "ada@example.com")
	rent := env.category(t, ada.ID, "rent", core.FlowExpense)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		env.transaction(t, ada.ID, rent.ID, core.FlowExpense, 100, base.AddDate(0, 0, i))
	}

	s, err := svc.Summarize(context.Background(), ada.ID, SummaryRequest{
		Start: base,
		End:   base.AddDate(0, 0, 10),
	})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(s.Transactions) != 5 {
		t.Errorf("entries: got %d, want 5", len(s.Transactions))
	}
	if s.TotalExpense.Cents != 500 {
		t.Errorf("expense: got %d, want 500", s.TotalExpense.Cents)
	}
}

func TestSummaryCrossUserIsolation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSummaryService(env.access, env.logger, 30)
	ada := env.user(t, "ada@example.com")
	bob := env.user(t, "bob@example.com")
	bobCat := env.category(t, bob.ID, "rent", core.FlowExpense)
	env.transaction(t, bob.ID, bobCat.ID, core.FlowExpense, 99999, time.Now().UTC())

	s, err := svc.Summarize(context.Background(), ada.ID, SummaryRequest{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.TotalExpense.Cents != 0 || len(s.Transactions) != 0 {
		t.Errorf("leaked another user's data: %+v", s)
	}
}
