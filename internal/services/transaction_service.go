package services

import (
	"context"
	"time"

	"cashflow/internal/amqp"
	"cashflow/internal/core"
	"cashflow/internal/log"

	"github.com/google/uuid"
)

// EventPublisher is satisfied by amqp.Client. A nil publisher disables the
// event feed without changing service behavior.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error
}

// TransactionService orchestrates cashflow writes: validate, persist, then
// publish the event. Publish failures are logged and swallowed so the API
// response never depends on the broker.
type TransactionService struct {
	access          *Access
	publisher       EventPublisher
	logger          *log.Logger
	defaultPageSize int
	maxPageSize     int
}

func NewTransactionService(access *Access, publisher EventPublisher, logger *log.Logger, defaultPageSize, maxPageSize int) *TransactionService {
	return &TransactionService{
		access:          access,
		publisher:       publisher,
		logger:          logger.WithComponent(log.ComponentStorage),
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// CreateTransactionInput carries the writable transaction fields.
type CreateTransactionInput struct {
	CategoryID  uuid.UUID
	Type        core.FlowType
	Amount      core.Money
	Description string
	Date        time.Time
}

// UpdateTransactionInput uses pointers so absent fields stay untouched.
type UpdateTransactionInput struct {
	CategoryID  *uuid.UUID
	Type        *core.FlowType
	Amount      *core.Money
	Description *string
	Date        *time.Time
}

func (s *TransactionService) Create(ctx context.Context, userID uuid.UUID, in CreateTransactionInput) (core.Transaction, error) {
	scope := s.access.ForUser(userID)

	t := core.Transaction{
		CategoryID:  in.CategoryID,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        in.Date,
	}
	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	cat, err := scope.Category(ctx, t.CategoryID)
	if err != nil {
		return core.Transaction{}, err
	}

	created, err := scope.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "transaction created",
		log.FieldUserID, userID,
		log.FieldTxnID, created.ID,
		log.FieldFlowType, created.Type,
		log.FieldAmountCents, created.Amount.Cents)
	s.publish(ctx, amqp.ActionCreated, created, cat.Name)
	return created, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id uuid.UUID) (core.Transaction, error) {
	return s.access.ForUser(userID).Transaction(ctx, id)
}

// List returns filtered transactions newest first. Page and page size are
// clamped to the configured bounds.
func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, f core.TransactionFilter) ([]core.Transaction, core.Pagination, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = s.defaultPageSize
	}
	if f.PageSize > s.maxPageSize {
		f.PageSize = s.maxPageSize
	}
	f.Limit = 0
	f.IncludeUnresolved = false
	return s.access.ForUser(userID).Transactions(ctx, f)
}

func (s *TransactionService) Update(ctx context.Context, userID, id uuid.UUID, in UpdateTransactionInput) (core.Transaction, error) {
	scope := s.access.ForUser(userID)
	t, err := scope.Transaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}

	if in.CategoryID != nil {
		t.CategoryID = *in.CategoryID
	}
	if in.Type != nil {
		t.Type = *in.Type
	}
	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Date != nil {
		t.Date = *in.Date
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	cat, err := scope.Category(ctx, t.CategoryID)
	if err != nil {
		return core.Transaction{}, err
	}

	updated, err := scope.UpdateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "transaction updated",
		log.FieldUserID, userID,
		log.FieldTxnID, updated.ID)
	s.publish(ctx, amqp.ActionUpdated, updated, cat.Name)
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	scope := s.access.ForUser(userID)
	t, err := scope.Transaction(ctx, id)
	if err != nil {
		return err
	}
	if err := scope.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	categoryName := core.UncategorizedBucket
	if cat, err := scope.Category(ctx, t.CategoryID); err == nil {
		categoryName = cat.Name
	}

	s.logger.InfoContext(ctx, "transaction deleted",
		log.FieldUserID, userID,
		log.FieldTxnID, id)
	s.publish(ctx, amqp.ActionDeleted, t, categoryName)
	return nil
}

func (s *TransactionService) publish(ctx context.Context, action string, t core.Transaction, category string) {
	if s.publisher == nil {
		return
	}
	event := &amqp.TransactionEvent{
		ID:          t.ID,
		UserID:      t.UserID,
		Action:      action,
		Type:        string(t.Type),
		AmountCents: t.Amount.Cents,
		Description: t.Description,
		Category:    category,
		Date:        t.Date,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.publisher.PublishTransactionEvent(ctx, event); err != nil {
		// The write already succeeded; the archive catches up later.
		s.logger.ErrorContext(ctx, "publish transaction event",
			log.FieldTxnID, t.ID,
			log.FieldAction, action,
			log.FieldError, err)
	}
}
