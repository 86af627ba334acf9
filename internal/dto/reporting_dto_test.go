package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	"github.com/SscSPs/family_finance_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBudgetProgressResponse_FixedScales(t *testing.T) {
	res := dto.ToBudgetProgressResponse(&domain.BudgetProgress{
		BudgetID:     "b-1",
		Currency:     "USD",
		BudgetAmount: decimal.NewFromInt(1000),
		Spent:        decimal.NewFromInt(1200),
		Remaining:    decimal.NewFromInt(-200),
		Percentage:   decimal.NewFromInt(120),
		IsOverspent:  true,
		PeriodStart:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:    time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
	})

	assert.Equal(t, "1000.0000", res.BudgetAmount)
	assert.Equal(t, "-200.0000", res.Remaining)
	assert.Equal(t, "120.00", res.Percentage)
	assert.Equal(t, "2024-01-31", res.PeriodEnd)
}

func TestToGoalProjectionResponse_NullsSerialiseAsJSONNull(t *testing.T) {
	res := dto.ToGoalProjectionResponse(&domain.GoalProjection{
		GoalID:           "g-1",
		Currency:         "EUR",
		AverageMonthly:   decimal.Zero,
		MonthlyUsed:      decimal.Zero,
		MonthsForAverage: 3,
	})

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"projectedCompletionDate":null`)
	assert.Contains(t, string(raw), `"requiredMonthly":null`)
	assert.Contains(t, string(raw), `"averageMonthly":"0.0000"`)
}

func TestToGoalProjectionResponse_WithValues(t *testing.T) {
	when := time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)
	required := decimal.Zero
	res := dto.ToGoalProjectionResponse(&domain.GoalProjection{
		ProjectedCompletionDate: &when,
		RequiredMonthly:         &required,
	})

	require.NotNil(t, res.ProjectedCompletionDate)
	assert.Equal(t, "2024-05-15", *res.ProjectedCompletionDate)
	require.NotNil(t, res.RequiredMonthly)
	assert.Equal(t, "0.0000", *res.RequiredMonthly)
}

func TestToConversionResponse(t *testing.T) {
	in := domain.NewMoney(decimal.NewFromInt(100), "USD")

	converted := dto.ToConversionResponse(in, domain.NewMoney(decimal.RequireFromString("92"), "EUR"), "EUR", "2024-01-01")
	assert.Equal(t, "92.0000", converted.Result)
	assert.True(t, converted.Converted)

	passthrough := dto.ToConversionResponse(in, in, "EUR", "2024-01-01")
	assert.Equal(t, "USD", passthrough.ToCurrency)
	assert.False(t, passthrough.Converted)
}
