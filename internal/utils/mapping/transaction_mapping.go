package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	"github.com/SscSPs/family_finance_engine/internal/models"
	"github.com/SscSPs/family_finance_engine/internal/utils/period"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		AccountID:       d.AccountID,
		TransactionType: string(d.Type),
		Amount:          d.Amount.Amount,
		CurrencyCode:    d.Amount.Currency,
		TransactionDate: period.Day(d.Date),
		CategoryID:      d.CategoryID,
		SubcategoryID:   d.SubcategoryID,
		Description:     d.Description,
		DeletedAt:       d.DeletedAt,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		Type:          domain.TransactionType(m.TransactionType),
		Amount:        domain.NewMoney(m.Amount, m.CurrencyCode),
		Date:          period.Day(m.TransactionDate),
		CategoryID:    m.CategoryID,
		SubcategoryID: m.SubcategoryID,
		Description:   m.Description,
		DeletedAt:     m.DeletedAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTransactionHistory snapshots the before and after states as JSON.
func ToModelTransactionHistory(d domain.TransactionHistory) (models.TransactionHistory, error) {
	before, err := snapshot(d.Before)
	if err != nil {
		return models.TransactionHistory{}, fmt.Errorf("failed to encode before state: %w", err)
	}
	after, err := snapshot(d.After)
	if err != nil {
		return models.TransactionHistory{}, fmt.Errorf("failed to encode after state: %w", err)
	}
	return models.TransactionHistory{
		HistoryID:     d.HistoryID,
		TransactionID: d.TransactionID,
		Action:        string(d.Action),
		Before:        before,
		After:         after,
		ChangedBy:     d.ChangedBy,
		ChangedAt:     d.ChangedAt,
	}, nil
}

// ToDomainTransactionHistory decodes the JSON snapshots of a history row.
func ToDomainTransactionHistory(m models.TransactionHistory) (domain.TransactionHistory, error) {
	before, err := restore(m.Before)
	if err != nil {
		return domain.TransactionHistory{}, fmt.Errorf("failed to decode before state: %w", err)
	}
	after, err := restore(m.After)
	if err != nil {
		return domain.TransactionHistory{}, fmt.Errorf("failed to decode after state: %w", err)
	}
	return domain.TransactionHistory{
		HistoryID:     m.HistoryID,
		TransactionID: m.TransactionID,
		Action:        domain.HistoryAction(m.Action),
		Before:        before,
		After:         after,
		ChangedBy:     m.ChangedBy,
		ChangedAt:     m.ChangedAt,
	}, nil
}

func snapshot(t *domain.Transaction) ([]byte, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

func restore(raw []byte) (*domain.Transaction, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var t domain.Transaction
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
