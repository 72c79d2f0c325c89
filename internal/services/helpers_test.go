package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"cashflow/internal/amqp"
	"cashflow/internal/core"
	"cashflow/internal/log"
	"cashflow/internal/storage/memory"

	"github.com/google/uuid"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

type testEnv struct {
	store  *memory.Store
	access *Access
	logger *log.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.New()
	return &testEnv{
		store:  store,
		access: NewAccess(store),
		logger: testLogger(),
	}
}

func (e *testEnv) user(t *testing.T, email string) core.User {
	t.Helper()
	u, err := e.store.CreateUser(context.Background(), core.User{Name: "Test User", Email: email})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return u
}

func (e *testEnv) category(t *testing.T, userID uuid.UUID, name string, ft core.FlowType) core.Category {
	t.Helper()
	c, err := e.store.CreateCategory(context.Background(), core.Category{
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

func (e *testEnv) transaction(t *testing.T, userID, catID uuid.UUID, ft core.FlowType, cents int64, date time.Time) core.Transaction {
	t.Helper()
	txn, err := e.store.CreateTransaction(context.Background(), core.Transaction{
		UserID:      userID,
		CategoryID:  catID,
		Type:        ft,
		Amount:      core.Money{Cents: cents},
		Description: "seeded",
		Date:        date,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	return txn
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []*amqp.TransactionEvent
}

func (p *capturePublisher) PublishTransactionEvent(_ context.Context, event *amqp.TransactionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) all() []*amqp.TransactionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*amqp.TransactionEvent(nil), p.events...)
}
