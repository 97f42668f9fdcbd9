package domain

// Input column names.
const (
	ColCutoffDate              = "CutoffDate"
	ColProjectionHorizonMonths = "ProjectionHorizonMonths"
	ColRecoveryLagMonths       = "RecoveryLagMonths"

	ColDealID          = "DealID"
	ColLoanID          = "LoanID"
	ColOriginalBalance = "OriginalBalance_AtCutoff"
	ColNoteRate        = "NoteRate_AtCutoff"
	ColIOFlag          = "IOFlag_AtCutoff"
	ColAmortTermMonths = "AmortTermMonths"
	ColServicingFeeBps = "ServicingFeeBps"

	ColScenario  = "Scenario"
	ColCPRAnnual = "CPR_Annual"
	ColCDRAnnual = "CDR_Annual"
	ColSeverity  = "Severity"
)

var (
	DealTermsColumns = []string{ColCutoffDate, ColProjectionHorizonMonths, ColRecoveryLagMonths}

	LoanTapeColumns = []string{
		ColDealID, ColLoanID, ColOriginalBalance, ColNoteRate,
		ColIOFlag, ColAmortTermMonths, ColServicingFeeBps,
	}

	ScenarioColumns = []string{ColScenario, ColCPRAnnual, ColCDRAnnual, ColSeverity}
)

// Output column names, in emission order.
var (
	LoanPeriodColumns = []string{
		"DealID", "Scenario", "LoanID", "PeriodEndDate",
		"BeginningBalance", "GrossInterest", "ServicingFee", "NetInterest",
		"ScheduledPrincipal", "PrepaymentPrincipal", "DefaultPrincipal",
		"RecoveryAmount", "RealizedLoss", "EndingBalance", "Status",
	}

	PoolPeriodColumns = []string{
		"DealID", "Scenario", "PeriodEndDate",
		"InterestCollected", "PrincipalCollected", "Recoveries",
		"RealizedLosses", "FeesPaid", "NetCollections", "EndingCollateralBalance",
	}
)
