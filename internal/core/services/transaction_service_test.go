package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portssvc "github.com/SscSPs/family_finance_engine/internal/core/ports/services"
	"github.com/SscSPs/family_finance_engine/internal/core/services"
	"github.com/SscSPs/family_finance_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	uow     *fakeUnitOfWork
	service portssvc.TransactionSvc
	ctx     context.Context
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.uow = newFakeUnitOfWork()
	suite.service = services.NewTransactionService(suite.uow, services.WithTransactionClock(fixedClock))
	suite.ctx = context.Background()
}

func groceriesRequest() dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		AccountID:   "acc-1",
		Type:        "expense",
		Amount:      dec("42.50"),
		Currency:    "usd",
		Date:        fixedClock(),
		CategoryID:  strPtr("groceries"),
		Description: "  weekly shop ",
	}
}

func (suite *TransactionServiceTestSuite) create() *domain.Transaction {
	txn, err := suite.service.CreateTransaction(suite.ctx, groceriesRequest(), "alex")
	suite.Require().NoError(err)
	return txn
}

func (suite *TransactionServiceTestSuite) TestCreate_WritesOneHistoryRow() {
	txn := suite.create()

	suite.NotEmpty(txn.TransactionID)
	suite.Equal("USD", txn.Amount.Currency)
	suite.Equal(today, txn.Date, "dates are stored as calendar days")
	suite.Equal("weekly shop", txn.Description)
	suite.Equal("alex", txn.CreatedBy)
	suite.Equal(fixedClock(), txn.CreatedAt)

	suite.Contains(suite.uow.txns, txn.TransactionID)
	suite.Require().Len(suite.uow.history, 1)
	entry := suite.uow.history[0]
	suite.Equal(domain.HistoryCreated, entry.Action)
	suite.Equal(txn.TransactionID, entry.TransactionID)
	suite.Nil(entry.Before)
	suite.Require().NotNil(entry.After)
	suite.Equal(*txn, *entry.After)
	suite.Equal("alex", entry.ChangedBy)
}

func (suite *TransactionServiceTestSuite) TestCreate_ValidationErrors() {
	tests := []struct {
		name   string
		mutate func(*dto.CreateTransactionRequest)
	}{
		{"missing account", func(r *dto.CreateTransactionRequest) { r.AccountID = "" }},
		{"unknown type", func(r *dto.CreateTransactionRequest) { r.Type = "refund" }},
		{"zero amount", func(r *dto.CreateTransactionRequest) { r.Amount = decimal.Zero }},
		{"negative amount", func(r *dto.CreateTransactionRequest) { r.Amount = dec("-1") }},
		{"bad currency", func(r *dto.CreateTransactionRequest) { r.Currency = "DOLLAR" }},
		{"subcategory without category", func(r *dto.CreateTransactionRequest) {
			r.CategoryID = nil
			r.SubcategoryID = strPtr("fruit")
		}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			req := groceriesRequest()
			tt.mutate(&req)

			_, err := suite.service.CreateTransaction(suite.ctx, req, "alex")

			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.Empty(suite.uow.txns)
	suite.Empty(suite.uow.history)
}

func (suite *TransactionServiceTestSuite) TestCreate_HistoryFailureRollsBack() {
	suite.uow.failAppend = errors.New("history table locked")

	_, err := suite.service.CreateTransaction(suite.ctx, groceriesRequest(), "alex")

	suite.ErrorIs(err, suite.uow.failAppend)
	suite.Empty(suite.uow.txns, "the insert must not survive a failed history write")
	suite.Empty(suite.uow.history)
	suite.Equal(1, suite.uow.rollbacks)
	suite.Equal(0, suite.uow.commits)
}

func (suite *TransactionServiceTestSuite) TestUpdate_RecordsBeforeAndAfter() {
	txn := suite.create()
	amount := dec("50")
	desc := "weekly shop + snacks"

	updated, err := suite.service.UpdateTransaction(suite.ctx, txn.TransactionID, dto.UpdateTransactionRequest{
		Amount:      &amount,
		Description: &desc,
	}, "sam")

	suite.Require().NoError(err)
	suite.Equal("50", updated.Amount.Amount.String())
	suite.Equal("sam", updated.LastUpdatedBy)
	suite.Equal("alex", updated.CreatedBy)
	suite.Equal(*updated, suite.uow.txns[txn.TransactionID])

	suite.Require().Len(suite.uow.history, 2)
	entry := suite.uow.history[1]
	suite.Equal(domain.HistoryUpdated, entry.Action)
	suite.Require().NotNil(entry.Before)
	suite.Equal("42.5", entry.Before.Amount.Amount.String())
	suite.Require().NotNil(entry.After)
	suite.Equal(desc, entry.After.Description)
}

func (suite *TransactionServiceTestSuite) TestUpdate_CategoryChanges() {
	txn := suite.create()

	updated, err := suite.service.UpdateTransaction(suite.ctx, txn.TransactionID, dto.UpdateTransactionRequest{
		CategoryID:    strPtr("dining"),
		SubcategoryID: strPtr("coffee"),
	}, "alex")
	suite.Require().NoError(err)
	suite.Equal("dining", *updated.CategoryID)
	suite.Equal("coffee", *updated.SubcategoryID)

	updated, err = suite.service.UpdateTransaction(suite.ctx, txn.TransactionID, dto.UpdateTransactionRequest{
		CategoryID: strPtr("travel"),
	}, "alex")
	suite.Require().NoError(err)
	suite.Nil(updated.SubcategoryID, "a new category drops the old subcategory")

	updated, err = suite.service.UpdateTransaction(suite.ctx, txn.TransactionID, dto.UpdateTransactionRequest{
		ClearCategory: true,
	}, "alex")
	suite.Require().NoError(err)
	suite.Nil(updated.CategoryID)
}

func (suite *TransactionServiceTestSuite) TestUpdate_InvalidResultLeavesRowUntouched() {
	txn := suite.create()
	zero := decimal.Zero

	_, err := suite.service.UpdateTransaction(suite.ctx, txn.TransactionID, dto.UpdateTransactionRequest{Amount: &zero}, "alex")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(*txn, suite.uow.txns[txn.TransactionID])
	suite.Len(suite.uow.history, 1)
}

func (suite *TransactionServiceTestSuite) TestUpdate_NotFound() {
	_, err := suite.service.UpdateTransaction(suite.ctx, "missing", dto.UpdateTransactionRequest{}, "alex")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestDelete_SoftDeletesOnce() {
	txn := suite.create()

	err := suite.service.DeleteTransaction(suite.ctx, txn.TransactionID, "sam")
	suite.Require().NoError(err)

	stored := suite.uow.txns[txn.TransactionID]
	suite.True(stored.IsDeleted())
	suite.Equal(fixedClock(), *stored.DeletedAt)
	suite.Require().Len(suite.uow.history, 2)
	entry := suite.uow.history[1]
	suite.Equal(domain.HistoryDeleted, entry.Action)
	suite.False(entry.Before.IsDeleted())
	suite.True(entry.After.IsDeleted())

	err = suite.service.DeleteTransaction(suite.ctx, txn.TransactionID, "sam")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Len(suite.uow.history, 2)
}

func (suite *TransactionServiceTestSuite) TestDelete_HistoryFailureKeepsRowLive() {
	txn := suite.create()
	suite.uow.failAppend = errors.New("disk full")

	err := suite.service.DeleteTransaction(suite.ctx, txn.TransactionID, "sam")

	suite.Error(err)
	suite.False(suite.uow.txns[txn.TransactionID].IsDeleted())
	suite.Len(suite.uow.history, 1)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
