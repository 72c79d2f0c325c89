package http

import (
	"time"

	"cashflow/internal/core"

	"github.com/google/uuid"
)

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u core.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type categoryResponse struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Type      core.FlowType `json:"type"`
	Color     string        `json:"color"`
	Protected bool          `json:"protected"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type,
		Color:     c.Color,
		Protected: c.Protected,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type transactionResponse struct {
	ID          uuid.UUID     `json:"id"`
	Category    uuid.UUID     `json:"category"`
	Type        core.FlowType `json:"type"`
	Amount      core.Money    `json:"amount"`
	Description string        `json:"description"`
	Date        time.Time     `json:"date"`
	CreatedAt   time.Time     `json:"createdAt"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Category:    t.CategoryID,
		Type:        t.Type,
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
	}
}

type transactionListResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
	Page         int                   `json:"page"`
	Pages        int                   `json:"pages"`
}

func toTransactionListResponse(txns []core.Transaction, page core.Pagination) transactionListResponse {
	out := transactionListResponse{
		Transactions: make([]transactionResponse, 0, len(txns)),
		Total:        page.Total,
		Page:         page.Page,
		Pages:        page.Pages,
	}
	for _, t := range txns {
		out.Transactions = append(out.Transactions, toTransactionResponse(t))
	}
	return out
}

type templateResponse struct {
	ID          uuid.UUID      `json:"id"`
	Category    uuid.UUID      `json:"category"`
	Type        core.FlowType  `json:"type"`
	Amount      core.Money     `json:"amount"`
	Description string         `json:"description"`
	Frequency   core.Frequency `json:"frequency"`
	StartDate   time.Time      `json:"startDate"`
	EndDate     *time.Time     `json:"endDate,omitempty"`
	LastRun     *time.Time     `json:"lastRun,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func toTemplateResponse(t core.RecurringTemplate) templateResponse {
	out := templateResponse{
		ID:          t.ID,
		Category:    t.CategoryID,
		Type:        t.Type,
		Amount:      t.Amount,
		Description: t.Description,
		Frequency:   t.Frequency,
		StartDate:   t.StartDate,
		CreatedAt:   t.CreatedAt,
	}
	if !t.EndDate.IsZero() {
		end := t.EndDate
		out.EndDate = &end
	}
	if !t.LastRun.IsZero() {
		last := t.LastRun
		out.LastRun = &last
	}
	return out
}
