package domain

import "time"

// LoanPeriodResult is one loan-period output row. Money fields are rounded to cents.
type LoanPeriodResult struct {
	DealID              string     `json:"DealID"`
	Scenario            string     `json:"Scenario"`
	LoanID              string     `json:"LoanID"`
	PeriodEndDate       string     `json:"PeriodEndDate"`
	BeginningBalance    float64    `json:"BeginningBalance"`
	GrossInterest       float64    `json:"GrossInterest"`
	ServicingFee        float64    `json:"ServicingFee"`
	NetInterest         float64    `json:"NetInterest"`
	ScheduledPrincipal  float64    `json:"ScheduledPrincipal"`
	PrepaymentPrincipal float64    `json:"PrepaymentPrincipal"`
	DefaultPrincipal    float64    `json:"DefaultPrincipal"`
	RecoveryAmount      float64    `json:"RecoveryAmount"`
	RealizedLoss        float64    `json:"RealizedLoss"`
	EndingBalance       float64    `json:"EndingBalance"`
	Status              LoanStatus `json:"Status"`
}

// PoolPeriodResult is one pool-period output row.
type PoolPeriodResult struct {
	DealID                  string  `json:"DealID"`
	Scenario                string  `json:"Scenario"`
	PeriodEndDate           string  `json:"PeriodEndDate"`
	InterestCollected       float64 `json:"InterestCollected"`
	PrincipalCollected      float64 `json:"PrincipalCollected"`
	Recoveries              float64 `json:"Recoveries"`
	RealizedLosses          float64 `json:"RealizedLosses"`
	FeesPaid                float64 `json:"FeesPaid"`
	NetCollections          float64 `json:"NetCollections"`
	EndingCollateralBalance float64 `json:"EndingCollateralBalance"`
}

// ScenarioSummary totals one scenario over the whole horizon.
type ScenarioSummary struct {
	Scenario           string  `json:"Scenario"`
	InterestCollected  float64 `json:"InterestCollected"`
	PrincipalCollected float64 `json:"PrincipalCollected"`
	Recoveries         float64 `json:"Recoveries"`
	RealizedLosses     float64 `json:"RealizedLosses"`
	FeesPaid           float64 `json:"FeesPaid"`
	NetCollections     float64 `json:"NetCollections"`
	FinalCollateral    float64 `json:"FinalCollateralBalance"`
	CumulativeLossRate float64 `json:"CumulativeLossRate"`
}

type ProjectionResult struct {
	LoanPeriods []LoanPeriodResult `json:"loan_periods"`
	PoolPeriods []PoolPeriodResult `json:"pool_periods"`
	Summaries   []ScenarioSummary  `json:"summaries"`
}

// ProjectionInput carries the three input tables of a run.
type ProjectionInput struct {
	DealTerms Table `json:"deal_terms"`
	LoanTape  Table `json:"loan_tape"`
	Scenarios Table `json:"scenarios"`
}

// ProjectionRun is a stored run.
type ProjectionRun struct {
	ID        string           `json:"id"`
	DealID    string           `json:"deal_id"`
	Scenarios int              `json:"scenarios"`
	Loans     int              `json:"loans"`
	Periods   int              `json:"periods"`
	CreatedAt time.Time        `json:"created_at"`
	Result    ProjectionResult `json:"result"`
}
