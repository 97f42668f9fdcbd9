package service

import "loan-projection/domain"

func dealTable(cutoff any, horizon, lag any) domain.Table {
	return domain.Table{
		Columns: []string{"CutoffDate", "ProjectionHorizonMonths", "RecoveryLagMonths"},
		Rows:    [][]any{{cutoff, horizon, lag}},
	}
}

func tapeTable(rows ...[]any) domain.Table {
	return domain.Table{
		Columns: []string{"DealID", "LoanID", "OriginalBalance_AtCutoff", "NoteRate_AtCutoff", "IOFlag_AtCutoff", "AmortTermMonths", "ServicingFeeBps"},
		Rows:    rows,
	}
}

func scenarioTable(rows ...[]any) domain.Table {
	return domain.Table{
		Columns: []string{"Scenario", "CPR_Annual", "CDR_Annual", "Severity"},
		Rows:    rows,
	}
}

func amortizingLoan(id string, balance, rate float64, term int) domain.Loan {
	return domain.Loan{
		DealID:          "DEAL1",
		LoanID:          id,
		OriginalBalance: balance,
		NoteRate:        rate,
		AmortTermMonths: term,
	}
}
