package mapping

import (
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	"github.com/SscSPs/family_finance_engine/internal/models"
	"github.com/SscSPs/family_finance_engine/internal/utils/period"
)

// ToDomainBudget converts a model Budget to a domain Budget
func ToDomainBudget(m models.Budget) domain.Budget {
	b := domain.Budget{
		BudgetID:      m.BudgetID,
		AccountID:     m.AccountID,
		CategoryID:    m.CategoryID,
		SubcategoryID: m.SubcategoryID,
		UserID:        m.UserID,
		Name:          m.Name,
		Amount:        m.Amount,
		Currency:      m.CurrencyCode,
		Period:        domain.BudgetPeriod(m.Period),
		StartDate:     period.Day(m.StartDate),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if m.EndDate != nil {
		end := period.Day(*m.EndDate)
		b.EndDate = &end
	}
	return b
}

// ToDomainSavingsGoal converts a model SavingsGoal to a domain SavingsGoal
func ToDomainSavingsGoal(m models.SavingsGoal) domain.SavingsGoal {
	return domain.SavingsGoal{
		GoalID:        m.GoalID,
		AccountID:     m.AccountID,
		UserID:        m.UserID,
		CategoryID:    m.CategoryID,
		SubcategoryID: m.SubcategoryID,
		Name:          m.Name,
		TargetAmount:  m.TargetAmount,
		InitialAmount: m.InitialAmount,
		Currency:      m.CurrencyCode,
		TrackingMode:  domain.TrackingMode(m.TrackingMode),
		StartDate:     period.Day(m.StartDate),
		TargetDate:    period.Day(m.TargetDate),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
