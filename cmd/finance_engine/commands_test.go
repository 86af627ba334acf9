package main

import (
	"bytes"
	"flag"
	"io"
	"testing"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	def := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	got, err := parseDay("", def)
	require.NoError(t, err)
	assert.Equal(t, def, got)

	got, err = parseDay("2024-02-29", def)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	_, err = parseDay("29/02/2024", def)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseRecordFlags(t *testing.T) {
	fs := flag.NewFlagSet("record", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	req, user, err := parseRecordFlags(fs, []string{
		"-account", "acc-1", "-type", "INCOME", "-amount", "1200.50", "-currency", "eur",
		"-date", "2024-06-01", "-category", "salary", "-user", "alex",
	})

	require.NoError(t, err)
	assert.Equal(t, "alex", user)
	assert.Equal(t, "income", req.Type)
	assert.Equal(t, "EUR", req.Currency)
	assert.Equal(t, "1200.5", req.Amount.String())
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), req.Date)
	require.NotNil(t, req.CategoryID)
	assert.Equal(t, "salary", *req.CategoryID)
	assert.Nil(t, req.SubcategoryID)
}

func TestParseRecordFlags_RequiresUserAndAmount(t *testing.T) {
	fs := flag.NewFlagSet("record", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	_, _, err := parseRecordFlags(fs, []string{"-account", "acc-1", "-amount", "10"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	fs = flag.NewFlagSet("record", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	_, _, err = parseRecordFlags(fs, []string{"-account", "acc-1", "-amount", "ten", "-user", "alex"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseAmendFlags_OnlySetFields(t *testing.T) {
	fs := flag.NewFlagSet("amend", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	id, req, user, err := parseAmendFlags(fs, []string{
		"-id", "txn-1", "-user", "sam", "-amount", "19.99", "-category", "dining",
	})

	require.NoError(t, err)
	assert.Equal(t, "txn-1", id)
	assert.Equal(t, "sam", user)
	require.NotNil(t, req.Amount)
	assert.Equal(t, "19.99", req.Amount.String())
	require.NotNil(t, req.CategoryID)
	assert.Equal(t, "dining", *req.CategoryID)
	assert.Nil(t, req.Type)
	assert.Nil(t, req.Currency)
	assert.Nil(t, req.Date)
	assert.Nil(t, req.SubcategoryID)
	assert.Nil(t, req.Description)
	assert.False(t, req.ClearCategory)
}

func TestParseAmendFlags_EmptyDescriptionIsAnUpdate(t *testing.T) {
	fs := flag.NewFlagSet("amend", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	_, req, _, err := parseAmendFlags(fs, []string{"-id", "txn-1", "-user", "sam", "-description", "", "-clear-category"})

	require.NoError(t, err)
	require.NotNil(t, req.Description)
	assert.Equal(t, "", *req.Description)
	assert.True(t, req.ClearCategory)
}

func TestParseAmendFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing id", []string{"-user", "sam"}},
		{"missing user", []string{"-id", "txn-1"}},
		{"bad amount", []string{"-id", "txn-1", "-user", "sam", "-amount", "1,5"}},
		{"bad date", []string{"-id", "txn-1", "-user", "sam", "-date", "2024/06/01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("amend", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			_, _, _, err := parseAmendFlags(fs, tt.args)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	a := &app{out: &buf}

	require.NoError(t, a.writeJSON(dto.SyncRatesResponse{Date: "2024-06-15", BaseCurrency: "USD", RowsWritten: 3}))

	assert.JSONEq(t, `{"date":"2024-06-15","baseCurrency":"USD","rowsWritten":3}`, buf.String())
}
