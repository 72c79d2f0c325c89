// Package worker consumes transaction events and maintains the per-user CSV
// archive written by cmd/cashflow-worker.
package worker

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cashflow/internal/amqp"
	"cashflow/internal/log"
)

var archiveHeader = []string{
	"timestamp", "action", "transaction_id", "type", "amount", "description", "category", "date",
}

// ArchiveWorker appends one CSV row per transaction event to
// <dir>/<user_id>.csv. Rows are append-only: an update or delete event adds
// a row rather than rewriting history, so the file doubles as an audit log.
type ArchiveWorker struct {
	mu     sync.Mutex
	dir    string
	logger *log.Logger
}

func NewArchiveWorker(dir string, logger *log.Logger) (*ArchiveWorker, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &ArchiveWorker{
		dir:    dir,
		logger: logger.WithComponent(log.ComponentWorker),
	}, nil
}

// HandleEvent appends the event to the owning user's archive file. The
// signature matches amqp.Client.ConsumeTransactionEvents.
func (w *ArchiveWorker) HandleEvent(event *amqp.TransactionEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := filepath.Join(w.dir, event.UserID.String()+".csv")
	fresh := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fresh = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open archive file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if fresh {
		if err := cw.Write(archiveHeader); err != nil {
			return fmt.Errorf("write archive header: %w", err)
		}
	}
	if err := cw.Write(eventRow(event)); err != nil {
		return fmt.Errorf("write archive row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}

	w.logger.Debug("archived transaction event",
		log.FieldUserID, event.UserID,
		log.FieldTxnID, event.ID,
		log.FieldAction, event.Action)
	return nil
}

func eventRow(event *amqp.TransactionEvent) []string {
	// Amounts are archived as decimal strings, cents as the fraction.
	amount := fmt.Sprintf("%d.%02d", event.AmountCents/100, event.AmountCents%100)
	return []string{
		event.Timestamp.UTC().Format(time.RFC3339),
		event.Action,
		event.ID.String(),
		event.Type,
		amount,
		event.Description,
		event.Category,
		event.Date.UTC().Format("2006-01-02"),
	}
}

// ArchivePath returns the archive file for a user id string.
func (w *ArchiveWorker) ArchivePath(userID string) string {
	return filepath.Join(w.dir, userID+".csv")
}
