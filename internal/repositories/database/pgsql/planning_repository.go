package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_engine/internal/core/ports/repositories"
	"github.com/SscSPs/family_finance_engine/internal/models"
	"github.com/SscSPs/family_finance_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const budgetColumns = `
	budget_id, account_id, category_id, subcategory_id, user_id, name, amount, currency_code,
	period, start_date, end_date, created_at, created_by, last_updated_at, last_updated_by`

const savingsGoalColumns = `
	goal_id, account_id, user_id, category_id, subcategory_id, name, target_amount, initial_amount,
	currency_code, tracking_mode, start_date, target_date,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxPlanningRepository reads budgets and savings goals. Soft-deleted rows are never returned.
type PgxPlanningRepository struct {
	BaseRepository
}

func newPgxPlanningRepository(pool *pgxpool.Pool) *PgxPlanningRepository {
	return &PgxPlanningRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.BudgetReader      = (*PgxPlanningRepository)(nil)
	_ portsrepo.SavingsGoalReader = (*PgxPlanningRepository)(nil)
)

func scanBudget(row rowScanner) (models.Budget, error) {
	var m models.Budget
	err := row.Scan(
		&m.BudgetID, &m.AccountID, &m.CategoryID, &m.SubcategoryID, &m.UserID, &m.Name, &m.Amount, &m.CurrencyCode,
		&m.Period, &m.StartDate, &m.EndDate, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func scanSavingsGoal(row rowScanner) (models.SavingsGoal, error) {
	var m models.SavingsGoal
	err := row.Scan(
		&m.GoalID, &m.AccountID, &m.UserID, &m.CategoryID, &m.SubcategoryID, &m.Name, &m.TargetAmount, &m.InitialAmount,
		&m.CurrencyCode, &m.TrackingMode, &m.StartDate, &m.TargetDate,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// FindBudgetByID retrieves a live budget by its ID.
func (r *PgxPlanningRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := `SELECT` + budgetColumns + `
		FROM budgets
		WHERE budget_id = $1 AND deleted_at IS NULL;`

	m, err := scanBudget(r.Pool.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("budget " + budgetID)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find budget", err)
	}
	budget := mapping.ToDomainBudget(m)
	return &budget, nil
}

// ListBudgets retrieves the live budgets of an account with the given period, oldest first.
func (r *PgxPlanningRepository) ListBudgets(ctx context.Context, accountID string, period domain.BudgetPeriod) ([]domain.Budget, error) {
	query := `SELECT` + budgetColumns + `
		FROM budgets
		WHERE account_id = $1 AND period = $2 AND deleted_at IS NULL
		ORDER BY start_date, budget_id;`

	rows, err := r.Pool.Query(ctx, query, accountID, string(period))
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list budgets", err)
	}
	defer rows.Close()

	var budgets []domain.Budget
	for rows.Next() {
		m, err := scanBudget(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan budget", err)
		}
		budgets = append(budgets, mapping.ToDomainBudget(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating budgets", err)
	}
	return budgets, nil
}

// FindSavingsGoalByID retrieves a live savings goal by its ID.
func (r *PgxPlanningRepository) FindSavingsGoalByID(ctx context.Context, goalID string) (*domain.SavingsGoal, error) {
	query := `SELECT` + savingsGoalColumns + `
		FROM savings_goals
		WHERE goal_id = $1 AND deleted_at IS NULL;`

	m, err := scanSavingsGoal(r.Pool.QueryRow(ctx, query, goalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("savings goal " + goalID)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find savings goal", err)
	}
	goal := mapping.ToDomainSavingsGoal(m)
	return &goal, nil
}

// ListSavingsGoals retrieves the live savings goals of an account ordered by target date.
func (r *PgxPlanningRepository) ListSavingsGoals(ctx context.Context, accountID string) ([]domain.SavingsGoal, error) {
	query := `SELECT` + savingsGoalColumns + `
		FROM savings_goals
		WHERE account_id = $1 AND deleted_at IS NULL
		ORDER BY target_date, goal_id;`

	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list savings goals", err)
	}
	defer rows.Close()

	var goals []domain.SavingsGoal
	for rows.Next() {
		m, err := scanSavingsGoal(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan savings goal", err)
		}
		goals = append(goals, mapping.ToDomainSavingsGoal(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating savings goals", err)
	}
	return goals, nil
}
