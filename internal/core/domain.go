package core

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	FlowIncome  FlowType = "income"
	FlowExpense FlowType = "expense"
)

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// DefaultColor is assigned to categories created without an explicit color.
const DefaultColor = "#000000"

// MaxDescriptionLen bounds transaction and template descriptions.
const MaxDescriptionLen = 200

type (
	// FlowType classifies money movement as income or expense.
	FlowType string

	// Frequency is the repetition cadence of a recurring template.
	Frequency string

	// User is an account owner. Credential verification happens outside this
	// module; only profile data lives here.
	User struct {
		ID        uuid.UUID
		Name      string
		Email     string
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// Category is a user-owned label for transactions. Names are stored
	// lowercased and are unique per user. Protected categories cannot be
	// deleted.
	Category struct {
		ID        uuid.UUID
		UserID    uuid.UUID
		Name      string
		Type      FlowType
		Color     string
		Protected bool
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// Transaction is a single income or expense record. Amount is always
	// non-negative; the sign of its contribution to totals comes from Type.
	Transaction struct {
		ID          uuid.UUID
		UserID      uuid.UUID
		CategoryID  uuid.UUID
		Type        FlowType
		Amount      Money
		Description string
		Date        time.Time
		CreatedAt   time.Time
	}

	// RecurringTemplate describes a transaction that is materialized on a
	// schedule by the recurring worker.
	RecurringTemplate struct {
		ID          uuid.UUID
		UserID      uuid.UUID
		CategoryID  uuid.UUID
		Type        FlowType
		Amount      Money
		Description string
		Frequency   Frequency
		StartDate   time.Time
		EndDate     time.Time // zero means open-ended
		LastRun     time.Time // zero means never materialized
		CreatedAt   time.Time
	}
)

var (
	colorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
)

// Valid reports whether t is a known flow type.
func (t FlowType) Valid() bool {
	return t == FlowIncome || t == FlowExpense
}

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// ValidColor reports whether s is a #RGB or #RRGGBB hex color.
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if !emailPattern.MatchString(u.Email) {
		return &ValidationError{Field: "email", Message: "invalid email address"}
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if !c.Type.Valid() {
		return &ValidationError{Field: "type", Message: "type must be income or expense"}
	}
	if !ValidColor(c.Color) {
		return &ValidationError{Field: "color", Message: "color must be a hex value like #1a2b3c"}
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return &ValidationError{Field: "type", Message: "type must be income or expense"}
	}
	if t.Amount.Cents < 0 {
		return &ValidationError{Field: "amount", Message: "amount cannot be negative"}
	}
	if strings.TrimSpace(t.Description) == "" {
		return &ValidationError{Field: "description", Message: "description is required"}
	}
	if len(t.Description) > MaxDescriptionLen {
		return &ValidationError{Field: "description", Message: "description too long"}
	}
	if t.CategoryID == uuid.Nil {
		return &ValidationError{Field: "category", Message: "category is required"}
	}
	if t.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "date is required"}
	}
	return nil
}

func (r RecurringTemplate) Validate() error {
	if !r.Type.Valid() {
		return &ValidationError{Field: "type", Message: "type must be income or expense"}
	}
	if r.Amount.Cents < 0 {
		return &ValidationError{Field: "amount", Message: "amount cannot be negative"}
	}
	if strings.TrimSpace(r.Description) == "" {
		return &ValidationError{Field: "description", Message: "description is required"}
	}
	if len(r.Description) > MaxDescriptionLen {
		return &ValidationError{Field: "description", Message: "description too long"}
	}
	if r.CategoryID == uuid.Nil {
		return &ValidationError{Field: "category", Message: "category is required"}
	}
	if !r.Frequency.Valid() {
		return &ValidationError{Field: "frequency", Message: "frequency must be daily, weekly, monthly or yearly"}
	}
	if r.StartDate.IsZero() {
		return &ValidationError{Field: "startDate", Message: "start date is required"}
	}
	if !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate) {
		return &ValidationError{Field: "endDate", Message: "end date must not precede start date"}
	}
	return nil
}

// Active reports whether the template should still produce transactions at now.
func (r RecurringTemplate) Active(now time.Time) bool {
	if now.Before(r.StartDate) {
		return false
	}
	if !r.EndDate.IsZero() && now.After(r.EndDate) {
		return false
	}
	return true
}
