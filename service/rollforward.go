package service

import (
	"math"

	"loan-projection/domain"
)

// scenarioRates are the monthly equivalents of one scenario's assumptions.
type scenarioRates struct {
	smm      float64
	mdr      float64
	severity float64
}

func newScenarioRates(sc domain.Scenario) scenarioRates {
	return scenarioRates{
		smm:      CPRToSMM(sc.CPR),
		mdr:      CDRToMDR(sc.CDR),
		severity: sc.Severity,
	}
}

// loanState is the mutable part of one loan within one scenario run.
// recoveries is indexed by absolute period.
type loanState struct {
	balance    float64
	recoveries []float64
}

func newLoanState(loan domain.Loan, horizon int) *loanState {
	return &loanState{
		balance:    loan.OriginalBalance,
		recoveries: make([]float64, horizon),
	}
}

// loanFlows are the full-precision cash flows of one loan in one period.
type loanFlows struct {
	beginning     float64
	grossInterest float64
	servicingFee  float64
	netInterest   float64
	scheduled     float64
	prepayment    float64
	defaulted     float64
	recovery      float64
	loss          float64
	ending        float64
}

func (f loanFlows) principal() float64 {
	return f.scheduled + f.prepayment + f.defaulted
}

func (f loanFlows) status() domain.LoanStatus {
	if f.defaulted < defaultThreshold {
		return domain.StatusCurrent
	}
	return domain.StatusDefaulted
}

// roll advances the loan through period t and reports false once the loan
// has no balance left. term is the amortization term fed to the payment
// formula for this period.
func (s *loanState) roll(t int, loan domain.Loan, rates scenarioRates, lag, term int) (loanFlows, bool) {
	beg := s.balance
	if beg <= 0 {
		return loanFlows{}, false
	}

	f := loanFlows{beginning: beg}
	f.grossInterest = beg * loan.NoteRate / monthsPerYear
	f.servicingFee = beg * (loan.ServicingFeeBps / bpsPerUnit) / monthsPerYear
	f.netInterest = math.Max(f.grossInterest-f.servicingFee, 0)

	if !loan.InterestOnly {
		f.scheduled = math.Max(AmortPayment(beg, loan.NoteRate, term)-f.grossInterest, 0)
	}

	f.defaulted = rates.mdr * beg
	f.loss = rates.severity * f.defaulted
	if due := t + lag; due < len(s.recoveries) {
		s.recoveries[due] += (1 - rates.severity) * f.defaulted
	}
	f.recovery = s.recoveries[t]

	f.prepayment = rates.smm * math.Max(beg-f.defaulted, 0)

	reduction := math.Min(beg, f.principal())
	f.ending = math.Max(beg-reduction, 0)
	s.balance = f.ending
	return f, true
}

func (f loanFlows) row(dealID, scenario, loanID, period string) domain.LoanPeriodResult {
	return domain.LoanPeriodResult{
		DealID:              dealID,
		Scenario:            scenario,
		LoanID:              loanID,
		PeriodEndDate:       period,
		BeginningBalance:    roundTo2Decimals(f.beginning),
		GrossInterest:       roundTo2Decimals(f.grossInterest),
		ServicingFee:        roundTo2Decimals(f.servicingFee),
		NetInterest:         roundTo2Decimals(f.netInterest),
		ScheduledPrincipal:  roundTo2Decimals(f.scheduled),
		PrepaymentPrincipal: roundTo2Decimals(f.prepayment),
		DefaultPrincipal:    roundTo2Decimals(f.defaulted),
		RecoveryAmount:      roundTo2Decimals(f.recovery),
		RealizedLoss:        roundTo2Decimals(f.loss),
		EndingBalance:       roundTo2Decimals(f.ending),
		Status:              f.status(),
	}
}
