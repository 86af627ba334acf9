package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portssvc "github.com/SscSPs/family_finance_engine/internal/core/ports/services"
	"github.com/SscSPs/family_finance_engine/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockRateProvider is a mock type for the RateProvider interface
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) Name() string {
	return m.Called().String(0)
}

func (m *MockRateProvider) FetchRates(ctx context.Context, date time.Time, base string, symbols []string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, date, base, symbols)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

// MockExchangeRateWriter is a mock type for the ExchangeRateWriter interface
type MockExchangeRateWriter struct {
	mock.Mock
}

func (m *MockExchangeRateWriter) UpsertExchangeRates(ctx context.Context, rates []domain.ExchangeRate) (int, error) {
	args := m.Called(ctx, rates)
	return args.Int(0), args.Error(1)
}

type RateIngestionServiceTestSuite struct {
	suite.Suite
	provider *MockRateProvider
	writer   *MockExchangeRateWriter
	rates    *fakeRateRepo
	service  portssvc.RateIngestionSvc
	ctx      context.Context
}

func (suite *RateIngestionServiceTestSuite) SetupTest() {
	suite.provider = new(MockRateProvider)
	suite.provider.On("Name").Return("api.exchangerate.host").Maybe()
	suite.writer = new(MockExchangeRateWriter)
	suite.rates = &fakeRateRepo{}
	suite.service = services.NewRateIngestionService(
		suite.provider,
		suite.writer,
		services.NewExchangeRateService(suite.rates),
		services.WithIngestionClock(fixedClock),
	)
	suite.ctx = context.Background()
}

func (suite *RateIngestionServiceTestSuite) TestSyncRates_WritesSortedRows() {
	suite.provider.On("FetchRates", mock.Anything, day(2024, 6, 14), "USD", []string{"GBP", "EUR"}).
		Return(map[string]decimal.Decimal{"EUR": dec("0.92"), "GBP": dec("0.79")}, nil).Once()

	var written []domain.ExchangeRate
	suite.writer.On("UpsertExchangeRates", mock.Anything, mock.AnythingOfType("[]domain.ExchangeRate")).
		Run(func(args mock.Arguments) { written = args.Get(1).([]domain.ExchangeRate) }).
		Return(2, nil).Once()

	n, err := suite.service.SyncRates(suite.ctx, time.Date(2024, 6, 14, 18, 30, 0, 0, time.UTC), "usd", []string{"gbp", "EUR", "GBP", "USD"})

	suite.Require().NoError(err)
	suite.Equal(2, n)
	suite.Require().Len(written, 2)
	suite.Equal("EUR", written[0].TargetCurrency)
	suite.Equal("GBP", written[1].TargetCurrency)
	for _, row := range written {
		suite.Equal("USD", row.BaseCurrency)
		suite.Equal(day(2024, 6, 14), row.RateDate)
		suite.Equal("api.exchangerate.host", row.Source)
		suite.Equal("rate-ingestion", row.CreatedBy)
		suite.NotEmpty(row.ExchangeRateID)
		suite.False(row.Inverted)
	}
	suite.Equal("0.92", written[0].Rate.String())
	suite.provider.AssertExpectations(suite.T())
	suite.writer.AssertExpectations(suite.T())
}

func (suite *RateIngestionServiceTestSuite) TestFetchRates_DropsUnrequestedAndNonPositive() {
	suite.provider.On("FetchRates", mock.Anything, today, "EUR", []string{"USD", "JPY", "CHF"}).
		Return(map[string]decimal.Decimal{
			"usd": dec("1.08"),
			"JPY": dec("0"),
			"CHF": dec("-1"),
			"SEK": dec("11.4"),
		}, nil).Once()

	rates, err := suite.service.FetchRates(suite.ctx, today, "EUR", []string{"USD", "JPY", "CHF"})

	suite.Require().NoError(err)
	suite.Len(rates, 1)
	suite.Equal("1.08", rates["USD"].String())
}

func (suite *RateIngestionServiceTestSuite) TestSyncRates_NothingFetchedWritesNothing() {
	suite.provider.On("FetchRates", mock.Anything, today, "USD", []string{"EUR"}).
		Return(map[string]decimal.Decimal{}, nil).Once()

	n, err := suite.service.SyncRates(suite.ctx, today, "USD", []string{"EUR"})

	suite.Require().NoError(err)
	suite.Zero(n)
	suite.writer.AssertNotCalled(suite.T(), "UpsertExchangeRates", mock.Anything, mock.Anything)
}

func (suite *RateIngestionServiceTestSuite) TestSyncRates_ProviderFailureIsIngestionError() {
	suite.provider.On("FetchRates", mock.Anything, today, "USD", []string{"EUR"}).
		Return(nil, errors.New("dial tcp: connection refused")).Once()

	_, err := suite.service.SyncRates(suite.ctx, today, "USD", []string{"EUR"})

	suite.ErrorIs(err, apperrors.ErrIngestion)
	suite.writer.AssertNotCalled(suite.T(), "UpsertExchangeRates", mock.Anything, mock.Anything)
}

func (suite *RateIngestionServiceTestSuite) TestSyncRates_ProviderIngestionErrorKeptAsIs() {
	providerErr := fmt.Errorf("%w: invalid_access_key", apperrors.ErrIngestion)
	suite.provider.On("FetchRates", mock.Anything, today, "USD", []string{"EUR"}).Return(nil, providerErr).Once()

	_, err := suite.service.SyncRates(suite.ctx, today, "USD", []string{"EUR"})

	suite.Equal(providerErr, err)
}

func (suite *RateIngestionServiceTestSuite) TestSyncRates_StorageFailure() {
	dbErr := errors.New("unique violation")
	suite.provider.On("FetchRates", mock.Anything, today, "USD", []string{"EUR"}).
		Return(map[string]decimal.Decimal{"EUR": dec("0.9")}, nil).Once()
	suite.writer.On("UpsertExchangeRates", mock.Anything, mock.Anything).Return(0, dbErr).Once()

	_, err := suite.service.SyncRates(suite.ctx, today, "USD", []string{"EUR"})

	suite.ErrorIs(err, dbErr)
}

func (suite *RateIngestionServiceTestSuite) TestSyncRates_InvalidInput() {
	tests := []struct {
		name    string
		date    time.Time
		base    string
		symbols []string
	}{
		{"missing date", time.Time{}, "USD", []string{"EUR"}},
		{"unknown base", today, "XYZ", []string{"EUR"}},
		{"short base", today, "US", []string{"EUR"}},
		{"only the base as symbol", today, "USD", []string{"usd"}},
		{"no symbols", today, "USD", nil},
		{"bad symbol", today, "USD", []string{"EURO"}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.SyncRates(suite.ctx, tt.date, tt.base, tt.symbols)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.provider.AssertNotCalled(suite.T(), "FetchRates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RateIngestionServiceTestSuite) TestGetRate_UsesStoredRates() {
	suite.rates.add("USD", "EUR", day(2024, 6, 10), "0.91")

	rate, err := suite.service.GetRate(suite.ctx, today, "USD", "EUR")

	suite.Require().NoError(err)
	suite.Equal("0.91", rate.Rate.String())
	suite.Equal(day(2024, 6, 10), rate.RateDate)
}

func TestRateIngestionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateIngestionServiceTestSuite))
}
