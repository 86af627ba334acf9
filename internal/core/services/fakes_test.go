package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_engine/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// today is the fixed clock used by every calculator test.
var today = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return today.Add(9 * time.Hour) }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

// --- in-memory exchange rate storage ---

type fakeRateRepo struct {
	mu      sync.Mutex
	rates   []domain.ExchangeRate
	lookups int
	err     error
}

func (f *fakeRateRepo) add(base, target string, date time.Time, rate string) {
	f.rates = append(f.rates, domain.ExchangeRate{
		BaseCurrency:   base,
		TargetCurrency: target,
		RateDate:       date,
		Rate:           dec(rate),
		Source:         "test",
	})
}

func (f *fakeRateRepo) FindExchangeRate(ctx context.Context, base, target string, date time.Time) (*domain.ExchangeRate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.rates {
		if r.BaseCurrency == base && r.TargetCurrency == target && r.RateDate.Equal(date) {
			found := r
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeRateRepo) FindLatestExchangeRate(ctx context.Context, base, target string, date time.Time) (*domain.ExchangeRate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	var best *domain.ExchangeRate
	for i, r := range f.rates {
		if r.BaseCurrency != base || r.TargetCurrency != target || r.RateDate.After(date) {
			continue
		}
		if best == nil || r.RateDate.After(best.RateDate) {
			best = &f.rates[i]
		}
	}
	if best == nil {
		return nil, apperrors.ErrNotFound
	}
	found := *best
	return &found, nil
}

// --- in-memory ledger ---

type fakeLedger struct {
	txns []domain.Transaction
	err  error
}

type txnOpt func(*domain.Transaction)

func inCategory(categoryID string) txnOpt {
	return func(t *domain.Transaction) { t.CategoryID = strPtr(categoryID) }
}

func inSubcategory(categoryID, subcategoryID string) txnOpt {
	return func(t *domain.Transaction) {
		t.CategoryID = strPtr(categoryID)
		t.SubcategoryID = strPtr(subcategoryID)
	}
}

func byUser(userID string) txnOpt {
	return func(t *domain.Transaction) { t.CreatedBy = userID }
}

func deleted() txnOpt {
	return func(t *domain.Transaction) {
		at := today
		t.DeletedAt = &at
	}
}

func (f *fakeLedger) add(accountID string, txnType domain.TransactionType, amount, currency string, date time.Time, opts ...txnOpt) {
	txn := domain.Transaction{
		TransactionID: accountID + "-" + date.Format("20060102") + "-" + amount,
		AccountID:     accountID,
		Type:          txnType,
		Amount:        domain.NewMoney(dec(amount), currency),
		Date:          date,
	}
	for _, opt := range opts {
		opt(&txn)
	}
	f.txns = append(f.txns, txn)
}

func (f *fakeLedger) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Transaction
	for _, t := range f.txns {
		if t.AccountID != filter.AccountID || t.IsDeleted() || !filter.Window.Contains(t.Date) {
			continue
		}
		if len(filter.Types) > 0 && !containsType(filter.Types, t.Type) {
			continue
		}
		if filter.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.SubcategoryID != nil && (t.SubcategoryID == nil || *t.SubcategoryID != *filter.SubcategoryID) {
			continue
		}
		if filter.UserID != nil && t.CreatedBy != *filter.UserID {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func containsType(types []domain.TransactionType, t domain.TransactionType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// --- in-memory budgets and goals ---

type fakePlanningRepo struct {
	budgets []domain.Budget
	goals   []domain.SavingsGoal
}

func (f *fakePlanningRepo) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	for _, b := range f.budgets {
		if b.BudgetID == budgetID {
			found := b
			return &found, nil
		}
	}
	return nil, apperrors.NewNotFoundError("budget " + budgetID)
}

func (f *fakePlanningRepo) ListBudgets(ctx context.Context, accountID string, p domain.BudgetPeriod) ([]domain.Budget, error) {
	var out []domain.Budget
	for _, b := range f.budgets {
		if b.AccountID == accountID && b.Period == p {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakePlanningRepo) FindSavingsGoalByID(ctx context.Context, goalID string) (*domain.SavingsGoal, error) {
	for _, g := range f.goals {
		if g.GoalID == goalID {
			found := g
			return &found, nil
		}
	}
	return nil, apperrors.NewNotFoundError("savings goal " + goalID)
}

func (f *fakePlanningRepo) ListSavingsGoals(ctx context.Context, accountID string) ([]domain.SavingsGoal, error) {
	var out []domain.SavingsGoal
	for _, g := range f.goals {
		if g.AccountID == accountID {
			out = append(out, g)
		}
	}
	return out, nil
}

// --- unit of work that only keeps writes when the callback succeeds ---

type fakeUnitOfWork struct {
	txns       map[string]domain.Transaction
	history    []domain.TransactionHistory
	failAppend error
	commits    int
	rollbacks  int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{txns: make(map[string]domain.Transaction)}
}

type stagedWriter struct {
	uow     *fakeUnitOfWork
	txns    map[string]domain.Transaction
	history []domain.TransactionHistory
}

func (u *fakeUnitOfWork) WithinTransaction(ctx context.Context, fn func(ctx context.Context, w portsrepo.LedgerTxWriter) error) error {
	staged := &stagedWriter{uow: u, txns: make(map[string]domain.Transaction)}
	if err := fn(ctx, staged); err != nil {
		u.rollbacks++
		return err
	}
	for id, t := range staged.txns {
		u.txns[id] = t
	}
	u.history = append(u.history, staged.history...)
	u.commits++
	return nil
}

func (w *stagedWriter) current(id string) (domain.Transaction, bool) {
	if t, ok := w.txns[id]; ok {
		return t, true
	}
	t, ok := w.uow.txns[id]
	return t, ok
}

func (w *stagedWriter) FindTransactionForUpdate(ctx context.Context, id string) (*domain.Transaction, error) {
	t, ok := w.current(id)
	if !ok || t.IsDeleted() {
		return nil, apperrors.NewNotFoundError("transaction " + id)
	}
	return &t, nil
}

func (w *stagedWriter) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	if _, ok := w.current(txn.TransactionID); ok {
		return apperrors.ErrDuplicate
	}
	w.txns[txn.TransactionID] = txn
	return nil
}

func (w *stagedWriter) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	if _, ok := w.current(txn.TransactionID); !ok {
		return apperrors.ErrNotFound
	}
	w.txns[txn.TransactionID] = txn
	return nil
}

func (w *stagedWriter) SoftDeleteTransaction(ctx context.Context, txn domain.Transaction) error {
	if txn.DeletedAt == nil {
		return errors.New("soft delete without deleted_at")
	}
	return w.UpdateTransaction(ctx, txn)
}

func (w *stagedWriter) AppendHistory(ctx context.Context, entry domain.TransactionHistory) error {
	if w.uow.failAppend != nil {
		return w.uow.failAppend
	}
	w.history = append(w.history, entry)
	return nil
}
