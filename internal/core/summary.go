package core

import (
	"time"

	"github.com/google/uuid"
)

// UncategorizedBucket is the synthetic distribution bucket that collects
// transactions whose category no longer resolves for the owning user.
const UncategorizedBucket = "Uncategorized"

type (
	// CategoryShare is one category's slice of a distribution: its accumulated
	// amount and its integer share of the subset total.
	CategoryShare struct {
		Name       string `json:"name"`
		Amount     Money  `json:"amount"`
		Percentage int64  `json:"percentage"`
	}

	// Distribution breaks income and expense totals down by category.
	Distribution struct {
		Income  []CategoryShare `json:"income"`
		Expense []CategoryShare `json:"expense"`
	}

	// SummaryEntry is one transaction as rendered in the summary payload.
	SummaryEntry struct {
		Date     time.Time `json:"date"`
		Amount   Money     `json:"amount"`
		Type     FlowType  `json:"type"`
		Category string    `json:"category"`
	}

	// Summary is the derived dashboard figure set. It is recomputed on every
	// query and never persisted.
	Summary struct {
		TotalIncome  Money          `json:"totalIncome"`
		TotalExpense Money          `json:"totalExpense"`
		Balance      Money          `json:"balance"`
		Transactions []SummaryEntry `json:"transactions"`
		Distribution Distribution   `json:"categoryDistribution"`
	}

	// TransactionFilter narrows a scoped transaction query. Start and End are
	// inclusive. Limit caps the result set after sorting by date descending;
	// Page/PageSize paginate it. IncludeUnresolved keeps transactions whose
	// category does not resolve (the aggregation engine needs them for the
	// Uncategorized bucket; listings drop them).
	TransactionFilter struct {
		Start             time.Time
		End               time.Time
		CategoryID        uuid.UUID
		Type              FlowType
		Page              int
		PageSize          int
		Limit             int
		IncludeUnresolved bool
	}

	// Pagination is the page metadata returned alongside a transaction listing.
	Pagination struct {
		Total int `json:"total"`
		Page  int `json:"page"`
		Pages int `json:"pages"`
	}
)

// SharePercent computes round(amount/total*100) in integer arithmetic,
// defined as 0 when total is zero.
func SharePercent(amount, total int64) int64 {
	if total <= 0 || amount <= 0 {
		return 0
	}
	return (amount*100 + total/2) / total
}
