package service

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-projection/domain"
)

func TestParseLoanTape_MissingColumnsNamesAll(t *testing.T) {
	tape := domain.Table{
		Columns: []string{"DealID", "LoanID", "NoteRate_AtCutoff", "AmortTermMonths"},
		Rows:    [][]any{{"D", "L1", 0.05, 360}},
	}

	_, err := ParseLoanTape(tape)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var missing *domain.MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "loan tape", missing.Table)
	assert.Equal(t, []string{"OriginalBalance_AtCutoff", "IOFlag_AtCutoff", "ServicingFeeBps"}, missing.Columns)
	assert.Contains(t, err.Error(), "OriginalBalance_AtCutoff, IOFlag_AtCutoff, ServicingFeeBps")
}

func TestParseInput_FailsBeforeProjectionOnMissingTapeColumn(t *testing.T) {
	input := domain.ProjectionInput{
		DealTerms: dealTable("2024-01-31", 12, 2),
		LoanTape:  domain.Table{Columns: []string{"LoanID"}},
		Scenarios: scenarioTable([]any{"base", 0.1, 0.02, 0.4}),
	}
	_, err := ParseInput(input)

	var missing *domain.MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Len(t, missing.Columns, 6)
}

func TestParseLoanTape_ConvertsCells(t *testing.T) {
	loans, err := ParseLoanTape(tapeTable(
		[]any{"D1", "L1", "250000", "0.065", "N", "360", "25"},
		[]any{"D1", 2.0, 100000.0, 0.05, "y", 120.0, 12.5},
		[]any{"D1", "L3", 5000.0, 0.04, true, 60.0, 0.0},
	))
	require.NoError(t, err)
	require.Len(t, loans, 3)

	assert.Equal(t, domain.Loan{
		DealID: "D1", LoanID: "L1", OriginalBalance: 250000, NoteRate: 0.065,
		InterestOnly: false, AmortTermMonths: 360, ServicingFeeBps: 25,
	}, loans[0])
	assert.Equal(t, "2", loans[1].LoanID)
	assert.True(t, loans[1].InterestOnly)
	assert.Equal(t, 120, loans[1].AmortTermMonths)
	assert.False(t, loans[2].InterestOnly)
}

func TestParseLoanTape_RejectsBadCells(t *testing.T) {
	_, err := ParseLoanTape(tapeTable([]any{"D1", "L1", "lots", 0.05, "N", 360, 25}))

	var bad *domain.InvalidValueError
	require.True(t, errors.As(err, &bad))
	assert.Equal(t, domain.ColOriginalBalance, bad.Column)
	assert.Equal(t, 0, bad.Row)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = ParseLoanTape(tapeTable([]any{"D1", "L1", 100.0, 0.05, "N"}))
	require.True(t, errors.As(err, &bad))
	assert.Equal(t, domain.ColAmortTermMonths, bad.Column)
}

func TestParseLoanTape_RejectsDuplicateLoanIDs(t *testing.T) {
	_, err := ParseLoanTape(tapeTable(
		[]any{"D1", "L1", 100.0, 0.05, "N", 12, 0},
		[]any{"D1", "L1", 200.0, 0.05, "N", 12, 0},
	))

	var bad *domain.InvalidValueError
	require.True(t, errors.As(err, &bad))
	assert.Equal(t, 1, bad.Row)
	assert.Equal(t, domain.ColLoanID, bad.Column)
}

func TestIOFlag(t *testing.T) {
	for _, v := range []any{"Y", "y", " Y "} {
		assert.True(t, ioFlag(v), "%v", v)
	}
	for _, v := range []any{"N", "", "no", "YES", "TRUE", "1", true, 1.0, false, 0.0, nil} {
		assert.False(t, ioFlag(v), "%v", v)
	}
}

func TestParseLoanTape_RejectsNonFiniteCells(t *testing.T) {
	for _, v := range []any{"NaN", "Inf", "-inf", math.Inf(1), math.NaN()} {
		_, err := ParseLoanTape(tapeTable([]any{"D1", "L1", 100.0, v, "N", 12, 0}))

		var bad *domain.InvalidValueError
		require.True(t, errors.As(err, &bad), "%v", v)
		assert.Equal(t, domain.ColNoteRate, bad.Column)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}
}

func TestParseScenarios_FirstRowWinsAndSortedByName(t *testing.T) {
	scenarios, err := ParseScenarios(scenarioTable(
		[]any{"stress", 0.05, 0.10, 0.60},
		[]any{"base", 0.10, 0.02, 0.35},
		[]any{"stress", 0.99, 0.99, 0.99},
	))
	require.NoError(t, err)

	assert.Equal(t, []domain.Scenario{
		{Name: "base", CPR: 0.10, CDR: 0.02, Severity: 0.35},
		{Name: "stress", CPR: 0.05, CDR: 0.10, Severity: 0.60},
	}, scenarios)
}

func TestParseScenarios_RejectsRatesOutsideUnitInterval(t *testing.T) {
	rows := [][]any{
		{"pct", "6", 0.02, 0.35},
		{"neg", 0.1, -0.01, 0.35},
		{"sev", 0.1, 0.02, 1.5},
		{"nan", "NaN", 0.02, 0.35},
	}
	for _, row := range rows {
		_, err := ParseScenarios(scenarioTable(row))
		require.Error(t, err, "%v", row)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "%v", row)
	}

	_, err := ParseScenarios(scenarioTable([]any{"edge", 1.0, 0.0, 1.0}))
	assert.NoError(t, err)
}

func TestParseScenarios_MissingColumns(t *testing.T) {
	_, err := ParseScenarios(domain.Table{Columns: []string{"Scenario", "CPR_Annual"}})

	var missing *domain.MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"CDR_Annual", "Severity"}, missing.Columns)
}

func TestParseDealTerms(t *testing.T) {
	terms, err := ParseDealTerms(dealTable("2024-06-30", "24", 3.0))
	require.NoError(t, err)
	assert.Equal(t, date(2024, 6, 30), terms.CutoffDate)
	assert.Equal(t, 24, terms.HorizonMonths)
	assert.Equal(t, 3, terms.RecoveryLagMonths)
}

func TestParseDealTerms_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		table domain.Table
	}{
		{"negative horizon", dealTable("2024-06-30", -1, 0)},
		{"negative lag", dealTable("2024-06-30", 12, -2)},
		{"horizon above maximum", dealTable("2024-06-30", MaxHorizonMonths+1, 0)},
		{"infinite horizon", dealTable("2024-06-30", "Inf", 0)},
		{"bad date", dealTable("soon", 12, 0)},
		{"no rows", domain.Table{Columns: domain.DealTermsColumns}},
		{"missing column", domain.Table{Columns: []string{"CutoffDate"}, Rows: [][]any{{"2024-06-30"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDealTerms(tt.table)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}
