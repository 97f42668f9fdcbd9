package domain

import "time"

// DealTerms are the run-wide parameters read from the first row of the deal-terms table.
type DealTerms struct {
	CutoffDate        time.Time
	HorizonMonths     int `validate:"gte=0"`
	RecoveryLagMonths int `validate:"gte=0"`
}

// Loan holds the static terms of one loan-tape row.
type Loan struct {
	DealID          string
	LoanID          string
	OriginalBalance float64
	NoteRate        float64 // annual, decimal
	InterestOnly    bool
	AmortTermMonths int
	ServicingFeeBps float64 // annual
}

// Scenario is one named set of annual prepayment, default and severity assumptions.
type Scenario struct {
	Name     string
	CPR      float64 `validate:"gte=0,lte=1"`
	CDR      float64 `validate:"gte=0,lte=1"`
	Severity float64 `validate:"gte=0,lte=1"`
}

type LoanStatus string

const (
	StatusCurrent   LoanStatus = "Current"
	StatusDefaulted LoanStatus = "Defaulted"
)

// AmortizationMode selects the term fed to the level-payment formula each period.
type AmortizationMode string

const (
	// AmortizationFixed recomputes the payment against the loan's static term every period.
	AmortizationFixed AmortizationMode = "fixed"
	// AmortizationDeclining uses the term remaining at each period.
	AmortizationDeclining AmortizationMode = "declining"
)
