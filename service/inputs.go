package service

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"loan-projection/domain"
)

var validate = validator.New()

const (
	dealTermsTable     = "deal terms"
	loanTapeTable      = "loan tape"
	scenariosTableName = "scenarios"
)

var (
	errEmptyCell = errors.New("empty cell")
	errNotFinite = errors.New("value is not a finite number")
)

// PreparedInput is the typed form of the three input tables.
type PreparedInput struct {
	Terms     domain.DealTerms
	Loans     []domain.Loan
	Scenarios []domain.Scenario
}

// ParseInput validates and converts all three tables. Every check runs before
// any projection work; the loan tape column check names all missing columns.
func ParseInput(input domain.ProjectionInput) (PreparedInput, error) {
	terms, err := ParseDealTerms(input.DealTerms)
	if err != nil {
		return PreparedInput{}, err
	}
	loans, err := ParseLoanTape(input.LoanTape)
	if err != nil {
		return PreparedInput{}, err
	}
	scenarios, err := ParseScenarios(input.Scenarios)
	if err != nil {
		return PreparedInput{}, err
	}
	return PreparedInput{Terms: terms, Loans: loans, Scenarios: scenarios}, nil
}

// ParseDealTerms reads the first row of the deal-terms table.
func ParseDealTerms(t domain.Table) (domain.DealTerms, error) {
	if missing := t.MissingColumns(domain.DealTermsColumns); len(missing) > 0 {
		return domain.DealTerms{}, &domain.MissingColumnsError{Table: dealTermsTable, Columns: missing}
	}
	if len(t.Rows) == 0 {
		return domain.DealTerms{}, fmt.Errorf("%w: %s table has no rows", domain.ErrInvalidInput, dealTermsTable)
	}

	raw := t.Cell(0, domain.ColCutoffDate)
	s, err := stringCell(raw)
	if err != nil {
		return domain.DealTerms{}, invalid(dealTermsTable, 0, domain.ColCutoffDate, raw, err)
	}
	cutoff, err := ParseCutoffDate(s)
	if err != nil {
		return domain.DealTerms{}, invalid(dealTermsTable, 0, domain.ColCutoffDate, raw, err)
	}

	horizon, err := intCell(t, dealTermsTable, 0, domain.ColProjectionHorizonMonths)
	if err != nil {
		return domain.DealTerms{}, err
	}
	lag, err := intCell(t, dealTermsTable, 0, domain.ColRecoveryLagMonths)
	if err != nil {
		return domain.DealTerms{}, err
	}

	terms := domain.DealTerms{CutoffDate: cutoff, HorizonMonths: horizon, RecoveryLagMonths: lag}
	if err := validate.Struct(terms); err != nil {
		return domain.DealTerms{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, dealTermsTable, err)
	}
	if terms.HorizonMonths > MaxHorizonMonths {
		return domain.DealTerms{}, invalid(dealTermsTable, 0, domain.ColProjectionHorizonMonths, horizon,
			fmt.Errorf("horizon exceeds the maximum of %d months", MaxHorizonMonths))
	}
	return terms, nil
}

// ParseLoanTape converts each loan-tape row, in tape order.
func ParseLoanTape(t domain.Table) ([]domain.Loan, error) {
	if missing := t.MissingColumns(domain.LoanTapeColumns); len(missing) > 0 {
		return nil, &domain.MissingColumnsError{Table: loanTapeTable, Columns: missing}
	}

	loans := make([]domain.Loan, 0, len(t.Rows))
	seen := make(map[string]int, len(t.Rows))
	for i := range t.Rows {
		var (
			loan domain.Loan
			err  error
		)
		if loan.DealID, err = stringField(t, loanTapeTable, i, domain.ColDealID); err != nil {
			return nil, err
		}
		if loan.LoanID, err = stringField(t, loanTapeTable, i, domain.ColLoanID); err != nil {
			return nil, err
		}
		if first, dup := seen[loan.LoanID]; dup {
			return nil, invalid(loanTapeTable, i, domain.ColLoanID, loan.LoanID,
				fmt.Errorf("duplicate loan id, first seen on row %d", first))
		}
		seen[loan.LoanID] = i

		if loan.OriginalBalance, err = floatCell(t, loanTapeTable, i, domain.ColOriginalBalance); err != nil {
			return nil, err
		}
		if loan.NoteRate, err = floatCell(t, loanTapeTable, i, domain.ColNoteRate); err != nil {
			return nil, err
		}
		loan.InterestOnly = ioFlag(t.Cell(i, domain.ColIOFlag))
		if loan.AmortTermMonths, err = intCell(t, loanTapeTable, i, domain.ColAmortTermMonths); err != nil {
			return nil, err
		}
		if loan.ServicingFeeBps, err = floatCell(t, loanTapeTable, i, domain.ColServicingFeeBps); err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, nil
}

// ParseScenarios groups the scenario table by name. The first row of each
// group supplies its rates; groups come back sorted by name.
func ParseScenarios(t domain.Table) ([]domain.Scenario, error) {
	if missing := t.MissingColumns(domain.ScenarioColumns); len(missing) > 0 {
		return nil, &domain.MissingColumnsError{Table: scenariosTableName, Columns: missing}
	}

	byName := make(map[string]domain.Scenario)
	for i := range t.Rows {
		name, err := stringField(t, scenariosTableName, i, domain.ColScenario)
		if err != nil {
			return nil, err
		}
		if _, ok := byName[name]; ok {
			continue
		}
		sc := domain.Scenario{Name: name}
		if sc.CPR, err = floatCell(t, scenariosTableName, i, domain.ColCPRAnnual); err != nil {
			return nil, err
		}
		if sc.CDR, err = floatCell(t, scenariosTableName, i, domain.ColCDRAnnual); err != nil {
			return nil, err
		}
		if sc.Severity, err = floatCell(t, scenariosTableName, i, domain.ColSeverity); err != nil {
			return nil, err
		}
		if err := validate.Struct(sc); err != nil {
			return nil, fmt.Errorf("%w: %s row %d (%s): %v", domain.ErrInvalidInput, scenariosTableName, i, name, err)
		}
		byName[name] = sc
	}

	scenarios := make([]domain.Scenario, 0, len(byName))
	for _, sc := range byName {
		scenarios = append(scenarios, sc)
	}
	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].Name < scenarios[j].Name
	})
	return scenarios, nil
}

func invalid(table string, row int, col string, v any, err error) error {
	return &domain.InvalidValueError{Table: table, Row: row, Column: col, Value: v, Err: err}
}

func stringCell(v any) (string, error) {
	if v == nil {
		return "", errEmptyCell
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func stringField(t domain.Table, table string, row int, col string) (string, error) {
	v := t.Cell(row, col)
	s, err := stringCell(v)
	if err != nil {
		return "", invalid(table, row, col, v, err)
	}
	return s, nil
}

func floatCell(t domain.Table, table string, row int, col string) (float64, error) {
	v := t.Cell(row, col)
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	if v == nil || v == "" {
		return 0, invalid(table, row, col, v, errEmptyCell)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, invalid(table, row, col, v, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalid(table, row, col, v, errNotFinite)
	}
	return f, nil
}

func intCell(t domain.Table, table string, row int, col string) (int, error) {
	f, err := floatCell(t, table, row, col)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// ioFlag is true only for the text Y, in any case.
func ioFlag(v any) bool {
	s, err := cast.ToStringE(v)
	return err == nil && strings.EqualFold(strings.TrimSpace(s), "Y")
}
