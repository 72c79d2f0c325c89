package services

import (
	"context"
	"time"

	"cashflow/internal/core"
	"cashflow/internal/log"

	"github.com/google/uuid"
)

// RecurringService manages recurring transaction templates.
type RecurringService struct {
	access *Access
	logger *log.Logger
}

func NewRecurringService(access *Access, logger *log.Logger) *RecurringService {
	return &RecurringService{
		access: access,
		logger: logger.WithComponent(log.ComponentRecurring),
	}
}

// CreateTemplateInput carries the writable template fields. A zero EndDate
// keeps the template open-ended.
type CreateTemplateInput struct {
	CategoryID  uuid.UUID
	Type        core.FlowType
	Amount      core.Money
	Description string
	Frequency   core.Frequency
	StartDate   time.Time
	EndDate     time.Time
}

// UpdateTemplateInput uses pointers so absent fields stay untouched. A
// non-nil EndDate pointing at the zero time clears the end date.
type UpdateTemplateInput struct {
	CategoryID  *uuid.UUID
	Type        *core.FlowType
	Amount      *core.Money
	Description *string
	Frequency   *core.Frequency
	StartDate   *time.Time
	EndDate     *time.Time
}

func (s *RecurringService) Create(ctx context.Context, userID uuid.UUID, in CreateTemplateInput) (core.RecurringTemplate, error) {
	scope := s.access.ForUser(userID)

	t := core.RecurringTemplate{
		CategoryID:  in.CategoryID,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		Frequency:   in.Frequency,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	if t.StartDate.IsZero() {
		t.StartDate = time.Now().UTC()
	}
	if err := t.Validate(); err != nil {
		return core.RecurringTemplate{}, err
	}
	if _, err := scope.Category(ctx, t.CategoryID); err != nil {
		return core.RecurringTemplate{}, err
	}

	created, err := scope.CreateTemplate(ctx, t)
	if err != nil {
		return core.RecurringTemplate{}, err
	}
	s.logger.InfoContext(ctx, "recurring template created",
		log.FieldUserID, userID,
		log.FieldTemplateID, created.ID,
		"frequency", created.Frequency)
	return created, nil
}

func (s *RecurringService) Get(ctx context.Context, userID, id uuid.UUID) (core.RecurringTemplate, error) {
	return s.access.ForUser(userID).Template(ctx, id)
}

func (s *RecurringService) List(ctx context.Context, userID uuid.UUID) ([]core.RecurringTemplate, error) {
	return s.access.ForUser(userID).Templates(ctx)
}

func (s *RecurringService) Update(ctx context.Context, userID, id uuid.UUID, in UpdateTemplateInput) (core.RecurringTemplate, error) {
	scope := s.access.ForUser(userID)
	t, err := scope.Template(ctx, id)
	if err != nil {
		return core.RecurringTemplate{}, err
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
	if in.Frequency != nil {
		t.Frequency = *in.Frequency
	}
	if in.StartDate != nil {
		t.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		t.EndDate = *in.EndDate
	}
	if err := t.Validate(); err != nil {
		return core.RecurringTemplate{}, err
	}
	if _, err := scope.Category(ctx, t.CategoryID); err != nil {
		return core.RecurringTemplate{}, err
	}

	updated, err := scope.UpdateTemplate(ctx, t)
	if err != nil {
		return core.RecurringTemplate{}, err
	}
	s.logger.InfoContext(ctx, "recurring template updated",
		log.FieldUserID, userID,
		log.FieldTemplateID, updated.ID)
	return updated, nil
}

func (s *RecurringService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.access.ForUser(userID).DeleteTemplate(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "recurring template deleted",
		log.FieldUserID, userID,
		log.FieldTemplateID, id)
	return nil
}
