package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"insynchub/dto"
	"insynchub/model"
	"insynchub/repository"

	"github.com/google/uuid"
)

// TransactionService keeps the cash-flow ledger. Only admin and finance may
// use it.
type TransactionService struct {
	transactions repository.TransactionRepository
	loc          *time.Location
	now          func() time.Time
}

func NewTransactionService(transactions repository.TransactionRepository, loc *time.Location) *TransactionService {
	return &TransactionService{transactions: transactions, loc: loc, now: time.Now}
}

func canSeeFinance(sess model.Session) bool {
	return model.HasRole(sess.Role, model.RoleAdmin, model.RoleFinance)
}

func (s *TransactionService) validate(req dto.TransactionRequest) (time.Time, error) {
	if !model.IsTransactionType(req.Type) {
		return time.Time{}, invalid("unknown transaction type %q", req.Type)
	}
	if !model.IsTransactionCategory(req.Category) {
		return time.Time{}, invalid("unknown transaction category %q", req.Category)
	}
	if req.Amount <= 0 {
		return time.Time{}, invalid("amount must be positive")
	}
	date, err := parseDate(req.Date, s.loc)
	if err != nil {
		return time.Time{}, err
	}
	if date == nil {
		return s.now(), nil
	}
	return *date, nil
}

func (s *TransactionService) CreateTransaction(ctx context.Context, sess model.Session, req dto.TransactionRequest) (*model.Transaction, error) {
	if !canSeeFinance(sess) {
		return nil, ErrForbidden
	}
	date, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	t := &model.Transaction{
		ID:          uuid.New().String(),
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: strings.TrimSpace(req.Description),
		WorkspaceID: sess.WorkspaceID,
		Date:        date,
		CreatedBy:   sess.UserID,
		CreatedAt:   s.now(),
	}
	if err := s.transactions.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return t, nil
}

// ListTransactions filters by type, category and month (YYYY-MM); empty
// filters match everything. Newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, sess model.Session, q dto.TransactionQuery) ([]model.Transaction, error) {
	if !canSeeFinance(sess) {
		return nil, ErrForbidden
	}
	from, to, err := s.monthRange(q.Month)
	if err != nil {
		return nil, err
	}
	all, err := s.transactions.List(ctx, sess.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := []model.Transaction{}
	for _, t := range all {
		if q.Type != "" && t.Type != q.Type {
			continue
		}
		if q.Category != "" && t.Category != q.Category {
			continue
		}
		if !from.IsZero() && (t.Date.Before(from) || !t.Date.Before(to)) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *TransactionService) monthRange(month string) (time.Time, time.Time, error) {
	if month == "" {
		return time.Time{}, time.Time{}, nil
	}
	from, err := time.ParseInLocation("2006-01", month, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("month %q is not YYYY-MM", month)
	}
	return from, from.AddDate(0, 1, 0), nil
}

func (s *TransactionService) get(ctx context.Context, sess model.Session, id string) (*model.Transaction, error) {
	t, err := s.transactions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", id, err)
	}
	if !model.InWorkspace(t.WorkspaceID, sess.WorkspaceID) {
		return nil, ErrWorkspaceMismatch
	}
	return t, nil
}

func (s *TransactionService) UpdateTransaction(ctx context.Context, sess model.Session, id string, req dto.TransactionRequest) (*model.Transaction, error) {
	if !canSeeFinance(sess) {
		return nil, ErrForbidden
	}
	date, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	t, err := s.get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	t.Type = req.Type
	t.Amount = req.Amount
	t.Category = req.Category
	t.Description = strings.TrimSpace(req.Description)
	if req.Date != "" {
		t.Date = date
	}
	if err := s.transactions.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update transaction %s: %w", id, err)
	}
	return t, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, sess model.Session, id string) error {
	if !canSeeFinance(sess) {
		return ErrForbidden
	}
	if _, err := s.get(ctx, sess, id); err != nil {
		return err
	}
	if err := s.transactions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

type CashFlowSummary struct {
	Income     float64            `json:"income"`
	Expense    float64            `json:"expense"`
	Balance    float64            `json:"balance"`
	ByCategory map[string]float64 `json:"byCategory"`
	Count      int                `json:"count"`
}

// Summary totals the transactions of month, or of all time when month is
// empty. Expenses count negatively in ByCategory.
func (s *TransactionService) Summary(ctx context.Context, sess model.Session, month string) (CashFlowSummary, error) {
	txs, err := s.ListTransactions(ctx, sess, dto.TransactionQuery{Month: month})
	if err != nil {
		return CashFlowSummary{}, err
	}
	return Summarize(txs), nil
}

func Summarize(txs []model.Transaction) CashFlowSummary {
	sum := CashFlowSummary{ByCategory: map[string]float64{}, Count: len(txs)}
	for _, t := range txs {
		switch t.Type {
		case model.TransactionIncome:
			sum.Income += t.Amount
			sum.ByCategory[t.Category] += t.Amount
		case model.TransactionExpense:
			sum.Expense += t.Amount
			sum.ByCategory[t.Category] -= t.Amount
		}
	}
	sum.Balance = sum.Income - sum.Expense
	return sum
}
