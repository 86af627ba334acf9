package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portssvc "github.com/SscSPs/family_finance_engine/internal/core/ports/services"
	"github.com/SscSPs/family_finance_engine/internal/core/services"
	"github.com/stretchr/testify/suite"
)

type SavingsGoalServiceTestSuite struct {
	suite.Suite
	ledger   *fakeLedger
	rates    *fakeRateRepo
	planning *fakePlanningRepo
	service  portssvc.SavingsGoalSvc
	ctx      context.Context
}

func (suite *SavingsGoalServiceTestSuite) SetupTest() {
	suite.ledger = &fakeLedger{}
	suite.rates = &fakeRateRepo{}
	suite.planning = &fakePlanningRepo{}
	suite.service = services.NewSavingsGoalService(
		suite.planning,
		suite.ledger,
		services.NewExchangeRateService(suite.rates),
		services.WithSavingsGoalClock(fixedClock),
	)
	suite.ctx = context.Background()
}

func goal(mode domain.TrackingMode, target, initial string) domain.SavingsGoal {
	return domain.SavingsGoal{
		GoalID:        "goal-1",
		AccountID:     "acc-1",
		Name:          "Emergency fund",
		TargetAmount:  dec(target),
		InitialAmount: dec(initial),
		Currency:      "USD",
		TrackingMode:  mode,
		StartDate:     day(2024, 1, 1),
		TargetDate:    day(2024, 12, 31),
	}
}

func (suite *SavingsGoalServiceTestSuite) TestProgress_NetSavings() {
	suite.ledger.add("acc-1", domain.Income, "500", "USD", day(2024, 3, 1))
	suite.ledger.add("acc-1", domain.Expense, "200", "USD", day(2024, 4, 1))
	suite.ledger.add("acc-1", domain.Transfer, "1000", "USD", day(2024, 4, 2))
	suite.ledger.add("acc-1", domain.Income, "999", "USD", day(2023, 12, 31))

	progress, err := suite.service.CalculateProgress(suite.ctx, goal(domain.TrackNetSavings, "1000", "100"), time.Time{})

	suite.Require().NoError(err)
	suite.Equal("300.0000", progress.Contributed.StringFixed(4))
	suite.Equal("400.0000", progress.CurrentAmount.StringFixed(4))
	suite.Equal("600.0000", progress.Remaining.StringFixed(4))
	suite.Equal("40.00", progress.Percentage.StringFixed(2))
	suite.False(progress.IsComplete)
	suite.Equal(today, progress.AsOf)
}

func (suite *SavingsGoalServiceTestSuite) TestProgress_WindowEndsAtAsOf() {
	suite.ledger.add("acc-1", domain.Income, "100", "USD", day(2024, 3, 1))
	suite.ledger.add("acc-1", domain.Income, "100", "USD", day(2024, 3, 2))

	progress, err := suite.service.CalculateProgress(suite.ctx, goal(domain.TrackNetSavings, "1000", "0"), day(2024, 3, 1))

	suite.Require().NoError(err)
	suite.Equal("100.0000", progress.Contributed.StringFixed(4))
}

func (suite *SavingsGoalServiceTestSuite) TestProgress_ManualIgnoresLedger() {
	suite.ledger.add("acc-1", domain.Income, "500", "USD", day(2024, 3, 1))

	progress, err := suite.service.CalculateProgress(suite.ctx, goal(domain.TrackManual, "1000", "250"), today)

	suite.Require().NoError(err)
	suite.True(progress.Contributed.IsZero())
	suite.Equal("250.0000", progress.CurrentAmount.StringFixed(4))
}

func (suite *SavingsGoalServiceTestSuite) TestProgress_CategoryWithUserFilter() {
	suite.ledger.add("acc-1", domain.Expense, "120", "USD", day(2024, 2, 1), inCategory("savings"), byUser("alex"))
	suite.ledger.add("acc-1", domain.Expense, "80", "USD", day(2024, 2, 2), inCategory("savings"), byUser("sam"))
	suite.ledger.add("acc-1", domain.Expense, "999", "USD", day(2024, 2, 3), inCategory("rent"), byUser("alex"))
	suite.ledger.add("acc-1", domain.Income, "999", "USD", day(2024, 2, 3), inCategory("savings"), byUser("alex"))

	g := goal(domain.TrackCategory, "1000", "0")
	g.CategoryID = strPtr("savings")

	progress, err := suite.service.CalculateProgress(suite.ctx, g, today)
	suite.Require().NoError(err)
	suite.Equal("200.0000", progress.Contributed.StringFixed(4))

	g.UserID = strPtr("alex")
	progress, err = suite.service.CalculateProgress(suite.ctx, g, today)
	suite.Require().NoError(err)
	suite.Equal("120.0000", progress.Contributed.StringFixed(4))
}

func (suite *SavingsGoalServiceTestSuite) TestProgress_SubcategoryAndFallbacks() {
	suite.ledger.add("acc-1", domain.Expense, "30", "USD", day(2024, 2, 1), inSubcategory("invest", "etf"))
	suite.ledger.add("acc-1", domain.Expense, "70", "USD", day(2024, 2, 2), inSubcategory("invest", "bonds"))
	suite.ledger.add("acc-1", domain.Expense, "5", "USD", day(2024, 2, 3))

	g := goal(domain.TrackSubcategory, "1000", "0")
	g.CategoryID = strPtr("invest")
	g.SubcategoryID = strPtr("etf")
	progress, err := suite.service.CalculateProgress(suite.ctx, g, today)
	suite.Require().NoError(err)
	suite.Equal("30.0000", progress.Contributed.StringFixed(4))

	g.SubcategoryID = nil
	progress, err = suite.service.CalculateProgress(suite.ctx, g, today)
	suite.Require().NoError(err)
	suite.Equal("100.0000", progress.Contributed.StringFixed(4), "falls back to the category")

	g.CategoryID = nil
	progress, err = suite.service.CalculateProgress(suite.ctx, g, today)
	suite.Require().NoError(err)
	suite.Equal("105.0000", progress.Contributed.StringFixed(4), "falls back to the whole account")
}

func (suite *SavingsGoalServiceTestSuite) TestProgress_StartAfterAsOfCountsNothing() {
	suite.ledger.add("acc-1", domain.Income, "500", "USD", day(2024, 6, 1))
	g := goal(domain.TrackNetSavings, "1000", "0")
	g.StartDate = day(2024, 7, 1)

	progress, err := suite.service.CalculateProgress(suite.ctx, g, today)

	suite.Require().NoError(err)
	suite.True(progress.Contributed.IsZero())
}

func (suite *SavingsGoalServiceTestSuite) TestProgress_ZeroTargetIsTotal() {
	progress, err := suite.service.CalculateProgress(suite.ctx, goal(domain.TrackManual, "0", "10"), today)

	suite.Require().NoError(err)
	suite.True(progress.Percentage.IsZero())
	suite.True(progress.IsComplete)
}

func (suite *SavingsGoalServiceTestSuite) TestProjection_CeilsMonthsNeeded() {
	monthly := dec("33")

	projection, err := suite.service.CalculateProjection(suite.ctx, goal(domain.TrackManual, "100", "0"), &monthly, 0)

	suite.Require().NoError(err)
	suite.Equal("33.0000", projection.MonthlyUsed.StringFixed(4))
	suite.Equal(3, projection.MonthsForAverage)
	suite.Require().NotNil(projection.ProjectedCompletionDate)
	suite.Equal(day(2024, 10, 15), *projection.ProjectedCompletionDate, "ceil(100/33) = 4 months")
}

func (suite *SavingsGoalServiceTestSuite) TestProjection_GoalAlreadyMet() {
	projection, err := suite.service.CalculateProjection(suite.ctx, goal(domain.TrackManual, "400", "400"), nil, 3)

	suite.Require().NoError(err)
	suite.Require().NotNil(projection.ProjectedCompletionDate)
	suite.Equal(today, *projection.ProjectedCompletionDate)
	suite.Require().NotNil(projection.RequiredMonthly)
	suite.Equal("0.0000", projection.RequiredMonthly.StringFixed(4))
}

func (suite *SavingsGoalServiceTestSuite) TestProjection_FromTrailingAverage() {
	suite.ledger.add("acc-1", domain.Income, "300", "USD", day(2024, 4, 1))
	suite.ledger.add("acc-1", domain.Income, "300", "USD", day(2024, 5, 1))
	suite.ledger.add("acc-1", domain.Income, "300", "USD", day(2024, 6, 1))
	suite.ledger.add("acc-1", domain.Income, "600", "USD", day(2024, 3, 1)) // before the trailing window
	g := goal(domain.TrackNetSavings, "2000", "0")
	g.TargetDate = day(2024, 9, 13) // 90 days after today

	projection, err := suite.service.CalculateProjection(suite.ctx, g, nil, 3)

	suite.Require().NoError(err)
	suite.Equal("300.0000", projection.AverageMonthly.StringFixed(4))
	suite.Equal("300.0000", projection.MonthlyUsed.StringFixed(4))
	suite.Require().NotNil(projection.ProjectedCompletionDate)
	suite.Equal(day(2024, 8, 15), *projection.ProjectedCompletionDate, "remaining 500 at 300/month")
	suite.Require().NotNil(projection.RequiredMonthly)
	suite.Equal("166.6667", projection.RequiredMonthly.StringFixed(4), "500 over 3 months")
}

func (suite *SavingsGoalServiceTestSuite) TestProjection_NoContributionHistory() {
	projection, err := suite.service.CalculateProjection(suite.ctx, goal(domain.TrackManual, "100", "0"), nil, 3)

	suite.Require().NoError(err)
	suite.True(projection.AverageMonthly.IsZero())
	suite.Nil(projection.ProjectedCompletionDate)
	suite.Require().NotNil(projection.RequiredMonthly)
}

func (suite *SavingsGoalServiceTestSuite) TestProjection_NegativeAverageHasNoDate() {
	suite.ledger.add("acc-1", domain.Expense, "90", "USD", day(2024, 5, 1))

	projection, err := suite.service.CalculateProjection(suite.ctx, goal(domain.TrackNetSavings, "100", "500"), nil, 3)
	suite.Require().NoError(err)
	suite.Equal("-30.0000", projection.AverageMonthly.StringFixed(4))
	// current = 500 - 90 = 410 >= 100, so the goal is met regardless of the negative rate
	suite.Require().NotNil(projection.ProjectedCompletionDate)

	projection, err = suite.service.CalculateProjection(suite.ctx, goal(domain.TrackNetSavings, "1000", "0"), nil, 3)
	suite.Require().NoError(err)
	suite.Nil(projection.ProjectedCompletionDate)
}

func (suite *SavingsGoalServiceTestSuite) TestProjection_TargetDatePassed() {
	g := goal(domain.TrackManual, "100", "0")
	g.TargetDate = today

	projection, err := suite.service.CalculateProjection(suite.ctx, g, nil, 3)
	suite.Require().NoError(err)
	suite.Nil(projection.RequiredMonthly)

	g.TargetDate = day(2024, 6, 16)
	projection, err = suite.service.CalculateProjection(suite.ctx, g, nil, 3)
	suite.Require().NoError(err)
	suite.Require().NotNil(projection.RequiredMonthly)
	suite.Equal("100.0000", projection.RequiredMonthly.StringFixed(4), "at least one month")
}

func (suite *SavingsGoalServiceTestSuite) TestGetSavingsGoal_NotFound() {
	_, err := suite.service.GetSavingsGoal(suite.ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestSavingsGoalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SavingsGoalServiceTestSuite))
}
