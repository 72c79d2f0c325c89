package services

import (
	"context"
	"sort"
	"time"

	"cashflow/internal/core"
	"cashflow/internal/log"

	"github.com/google/uuid"
)

// SummaryService computes totals, balance and per-category distribution.
// Every figure comes from the same filtered transaction set, so the reported
// transactions always reconcile with the totals and the distribution.
type SummaryService struct {
	access      *Access
	logger      *log.Logger
	recentLimit int
}

func NewSummaryService(access *Access, logger *log.Logger, recentLimit int) *SummaryService {
	return &SummaryService{
		access:      access,
		logger:      logger.WithComponent(log.ComponentSummary),
		recentLimit: recentLimit,
	}
}

// SummaryRequest selects the transaction window. With both bounds zero the
// summary covers the most recent transactions up to the configured limit.
type SummaryRequest struct {
	Start time.Time
	End   time.Time
}

func (s *SummaryService) Summarize(ctx context.Context, userID uuid.UUID, req SummaryRequest) (core.Summary, error) {
	scope := s.access.ForUser(userID)

	filter := core.TransactionFilter{
		Start:             req.Start,
		End:               req.End,
		IncludeUnresolved: true,
	}
	if req.Start.IsZero() && req.End.IsZero() {
		filter.Limit = s.recentLimit
	}

	txns, _, err := scope.Transactions(ctx, filter)
	if err != nil {
		return core.Summary{}, err
	}
	cats, err := scope.Categories(ctx)
	if err != nil {
		return core.Summary{}, err
	}

	names := make(map[uuid.UUID]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	summary := core.Summary{
		Transactions: make([]core.SummaryEntry, 0, len(txns)),
	}
	var totalIncome, totalExpense int64
	incomeByName := make(map[string]int64)
	expenseByName := make(map[string]int64)

	for _, t := range txns {
		name, ok := names[t.CategoryID]
		if !ok {
			name = core.UncategorizedBucket
		}
		switch t.Type {
		case core.FlowIncome:
			totalIncome += t.Amount.Cents
			incomeByName[name] += t.Amount.Cents
		case core.FlowExpense:
			totalExpense += t.Amount.Cents
			expenseByName[name] += t.Amount.Cents
		}
		summary.Transactions = append(summary.Transactions, core.SummaryEntry{
			Date:     t.Date,
			Amount:   t.Amount,
			Type:     t.Type,
			Category: name,
		})
	}
	summary.TotalIncome = core.Money{Cents: totalIncome}
	summary.TotalExpense = core.Money{Cents: totalExpense}
	summary.Balance = core.Money{Cents: totalIncome - totalExpense}

	summary.Distribution = core.Distribution{
		Income:  buildShares(cats, core.FlowIncome, incomeByName, totalIncome),
		Expense: buildShares(cats, core.FlowExpense, expenseByName, totalExpense),
	}

	s.logger.DebugContext(ctx, "summary computed",
		log.FieldUserID, userID,
		"transactions", len(summary.Transactions))
	return summary, nil
}

// buildShares lists every category of the flow type, zero amounts included,
// in name order from cats. Buckets that only exist in the accumulated
// amounts, such as Uncategorized or a category of the other flow type that
// received a transaction of this type, are appended when nonzero so the
// distribution always sums to the subtotal.
func buildShares(cats []core.Category, ft core.FlowType, amounts map[string]int64, total int64) []core.CategoryShare {
	shares := make([]core.CategoryShare, 0, len(cats)+1)
	listed := make(map[string]bool, len(cats))
	for _, c := range cats {
		if c.Type != ft {
			continue
		}
		amount := amounts[c.Name]
		listed[c.Name] = true
		shares = append(shares, core.CategoryShare{
			Name:       c.Name,
			Amount:     core.Money{Cents: amount},
			Percentage: core.SharePercent(amount, total),
		})
	}
	extras := make([]string, 0)
	for name, amount := range amounts {
		if !listed[name] && amount > 0 && name != core.UncategorizedBucket {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		shares = append(shares, core.CategoryShare{
			Name:       name,
			Amount:     core.Money{Cents: amounts[name]},
			Percentage: core.SharePercent(amounts[name], total),
		})
	}
	if orphaned := amounts[core.UncategorizedBucket]; orphaned > 0 {
		shares = append(shares, core.CategoryShare{
			Name:       core.UncategorizedBucket,
			Amount:     core.Money{Cents: orphaned},
			Percentage: core.SharePercent(orphaned, total),
		})
	}
	return shares
}
