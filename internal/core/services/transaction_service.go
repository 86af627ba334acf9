package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_finance_engine/internal/core/ports/services"
	"github.com/SscSPs/family_finance_engine/internal/dto"
	"github.com/SscSPs/family_finance_engine/internal/utils/period"
	"github.com/google/uuid"
)

// transactionService implements the TransactionSvc interface
type transactionService struct {
	BaseService
	uow portsrepo.LedgerUnitOfWork
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithTransactionClock overrides the clock used for audit timestamps.
func WithTransactionClock(now func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.now = now
	}
}

// NewTransactionService creates a new transaction service with the provided options
func NewTransactionService(uow portsrepo.LedgerUnitOfWork, options ...TransactionServiceOption) portssvc.TransactionSvc {
	svc := &transactionService{uow: uow}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.TransactionSvc = (*transactionService)(nil)

func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	now := s.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     req.AccountID,
		Type:          domain.TransactionType(req.Type),
		Amount:        domain.NewMoney(req.Amount, req.Currency),
		Date:          period.Day(req.Date),
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		Description:   strings.TrimSpace(req.Description),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	err := s.uow.WithinTransaction(ctx, func(ctx context.Context, w portsrepo.LedgerTxWriter) error {
		if err := w.InsertTransaction(ctx, txn); err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
		return w.AppendHistory(ctx, newHistory(txn.TransactionID, domain.HistoryCreated, nil, &txn, userID, now))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create transaction",
			slog.String("account_id", txn.AccountID),
			slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", txn.AccountID))
	return &txn, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	now := s.Now()
	var updated domain.Transaction
	err := s.uow.WithinTransaction(ctx, func(ctx context.Context, w portsrepo.LedgerTxWriter) error {
		current, err := w.FindTransactionForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		before := *current

		updated = applyUpdate(before, req)
		updated.LastUpdatedAt = now
		updated.LastUpdatedBy = userID
		if err := updated.Validate(); err != nil {
			return err
		}

		if err := w.UpdateTransaction(ctx, updated); err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		return w.AppendHistory(ctx, newHistory(transactionID, domain.HistoryUpdated, &before, &updated, userID, now))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update transaction",
			slog.String("transaction_id", transactionID),
			slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated", slog.String("transaction_id", transactionID))
	return &updated, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string, userID string) error {
	now := s.Now()
	err := s.uow.WithinTransaction(ctx, func(ctx context.Context, w portsrepo.LedgerTxWriter) error {
		current, err := w.FindTransactionForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		before := *current

		deleted := before
		deleted.DeletedAt = &now
		deleted.LastUpdatedAt = now
		deleted.LastUpdatedBy = userID

		if err := w.SoftDeleteTransaction(ctx, deleted); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		return w.AppendHistory(ctx, newHistory(transactionID, domain.HistoryDeleted, &before, &deleted, userID, now))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete transaction",
			slog.String("transaction_id", transactionID),
			slog.String("user_id", userID))
		return err
	}

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

func applyUpdate(txn domain.Transaction, req dto.UpdateTransactionRequest) domain.Transaction {
	if req.Type != nil {
		txn.Type = domain.TransactionType(*req.Type)
	}
	if req.Amount != nil {
		txn.Amount.Amount = *req.Amount
	}
	if req.Currency != nil {
		txn.Amount = domain.NewMoney(txn.Amount.Amount, *req.Currency)
	}
	if req.Date != nil {
		txn.Date = period.Day(*req.Date)
	}
	if req.ClearCategory {
		txn.CategoryID = nil
		txn.SubcategoryID = nil
	}
	if req.CategoryID != nil {
		txn.CategoryID = req.CategoryID
		// A new category invalidates the old subcategory unless one is supplied with it.
		txn.SubcategoryID = nil
	}
	if req.SubcategoryID != nil {
		txn.SubcategoryID = req.SubcategoryID
	}
	if req.Description != nil {
		txn.Description = strings.TrimSpace(*req.Description)
	}
	return txn
}

func newHistory(transactionID string, action domain.HistoryAction, before, after *domain.Transaction, userID string, at time.Time) domain.TransactionHistory {
	return domain.TransactionHistory{
		HistoryID:     uuid.NewString(),
		TransactionID: transactionID,
		Action:        action,
		Before:        before,
		After:         after,
		ChangedBy:     userID,
		ChangedAt:     at,
	}
}
