package worker

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"cashflow/internal/amqp"
	"cashflow/internal/log"

	"github.com/google/uuid"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func readArchive(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	return rows
}

func TestArchiveWorkerAppendsRows(t *testing.T) {
	w, err := NewArchiveWorker(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("NewArchiveWorker: %v", err)
	}

	userID := uuid.New()
	event := &amqp.TransactionEvent{
		ID:          uuid.New(),
		UserID:      userID,
		Action:      amqp.ActionCreated,
		Type:        "expense",
		AmountCents: 1250,
		Description: "weekly groceries",
		Category:    "groceries",
		Date:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Timestamp:   time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
	}

	if err := w.HandleEvent(event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	deleted := *event
	deleted.Action = amqp.ActionDeleted
	if err := w.HandleEvent(&deleted); err != nil {
		t.Fatalf("HandleEvent delete: %v", err)
	}

	rows := readArchive(t, w.ArchivePath(userID.String()))
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want header plus 2", len(rows))
	}
	if rows[0][0] != "timestamp" {
		t.Errorf("header: %v", rows[0])
	}
	if rows[1][1] != amqp.ActionCreated || rows[2][1] != amqp.ActionDeleted {
		t.Errorf("actions: %v / %v", rows[1], rows[2])
	}
	if rows[1][4] != "12.50" {
		t.Errorf("amount: got %q, want 12.50", rows[1][4])
	}
	if rows[1][7] != "2026-03-01" {
		t.Errorf("date: got %q, want 2026-03-01", rows[1][7])
	}
}

func TestArchiveWorkerSeparatesUsers(t *testing.T) {
	w, err := NewArchiveWorker(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("NewArchiveWorker: %v", err)
	}

	ada := uuid.New()
	bob := uuid.New()
	for _, userID := range []uuid.UUID{ada, bob} {
		if err := w.HandleEvent(&amqp.TransactionEvent{
			ID:        uuid.New(),
			UserID:    userID,
			Action:    amqp.ActionCreated,
			Type:      "income",
			Timestamp: time.Now().UTC(),
			Date:      time.Now().UTC(),
		}); err != nil {
			t.Fatalf("HandleEvent: %v", err)
		}
	}

	if rows := readArchive(t, w.ArchivePath(ada.String())); len(rows) != 2 {
		t.Errorf("ada rows: got %d, want 2", len(rows))
	}
	if rows := readArchive(t, w.ArchivePath(bob.String())); len(rows) != 2 {
		t.Errorf("bob rows: got %d, want 2", len(rows))
	}
}
