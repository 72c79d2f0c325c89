package services

import (
	"context"
	"fmt"
	"time"

	"cashflow/internal/log"
	"cashflow/internal/storage"
)

// RecurringProcessor turns due recurring templates into concrete
// transactions. One failed template never stops the sweep.
type RecurringProcessor struct {
	store        storage.Store
	transactions *TransactionService
	logger       *log.Logger
}

func NewRecurringProcessor(store storage.Store, transactions *TransactionService, logger *log.Logger) *RecurringProcessor {
	return &RecurringProcessor{
		store:        store,
		transactions: transactions,
		logger:       logger.WithComponent(log.ComponentRecurring),
	}
}

// ProcessDue materializes every active template whose frequency says it is
// due and records the run time. Returns the number created.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil || p.transactions == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	templates, err := p.store.DueTemplates(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due templates: %w", err)
	}

	p.logger.InfoContext(ctx, "processing recurring templates",
		"active", len(templates),
		"date", now.Format("2006-01-02"))

	processed := 0
	for _, tpl := range templates {
		checker, err := GetDuenessChecker(tpl.Frequency)
		if err != nil {
			p.logger.ErrorContext(ctx, "resolve dueness checker",
				log.FieldTemplateID, tpl.ID,
				log.FieldError, err)
			continue
		}
		if !checker.IsDue(tpl.LastRun, now, tpl.StartDate) {
			continue
		}

		_, err = p.transactions.Create(ctx, tpl.UserID, CreateTransactionInput{
			CategoryID:  tpl.CategoryID,
			Type:        tpl.Type,
			Amount:      tpl.Amount,
			Description: tpl.Description,
			Date:        now,
		})
		if err != nil {
			p.logger.ErrorContext(ctx, "materialize recurring template",
				log.FieldTemplateID, tpl.ID,
				log.FieldUserID, tpl.UserID,
				log.FieldError, err)
			continue
		}

		if err := p.store.MarkTemplateRun(ctx, tpl.ID, now); err != nil {
			// The transaction exists; the template may fire again next sweep.
			p.logger.ErrorContext(ctx, "record template run",
				log.FieldTemplateID, tpl.ID,
				log.FieldError, err)
		}

		processed++
		p.logger.InfoContext(ctx, "created transaction from template",
			log.FieldTemplateID, tpl.ID,
			log.FieldUserID, tpl.UserID,
			log.FieldAmountCents, tpl.Amount.Cents,
			"frequency", tpl.Frequency)
	}

	p.logger.InfoContext(ctx, "recurring sweep complete",
		"processed", processed,
		"checked", len(templates))
	return processed, nil
}
