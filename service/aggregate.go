package service

import "loan-projection/domain"

// poolTotals sums full-precision loan flows; rounding happens only on emission.
type poolTotals struct {
	interest   float64
	principal  float64
	recoveries float64
	losses     float64
	fees       float64
	ending     float64
}

func (p *poolTotals) add(f loanFlows) {
	p.interest += f.netInterest
	p.principal += f.principal()
	p.recoveries += f.recovery
	p.losses += f.loss
	p.fees += f.servicingFee
	p.ending += f.ending
}

func (p poolTotals) netCollections() float64 {
	return p.interest + p.principal + p.recoveries - p.fees
}

func (p poolTotals) row(dealID, scenario, period string) domain.PoolPeriodResult {
	return domain.PoolPeriodResult{
		DealID:                  dealID,
		Scenario:                scenario,
		PeriodEndDate:           period,
		InterestCollected:       roundTo2Decimals(p.interest),
		PrincipalCollected:      roundTo2Decimals(p.principal),
		Recoveries:              roundTo2Decimals(p.recoveries),
		RealizedLosses:          roundTo2Decimals(p.losses),
		FeesPaid:                roundTo2Decimals(p.fees),
		NetCollections:          roundTo2Decimals(p.netCollections()),
		EndingCollateralBalance: roundTo2Decimals(p.ending),
	}
}

// scenarioTotals accumulates pool periods over the horizon.
type scenarioTotals struct {
	poolTotals
	original float64
}

func (s *scenarioTotals) addPeriod(p poolTotals) {
	s.interest += p.interest
	s.principal += p.principal
	s.recoveries += p.recoveries
	s.losses += p.losses
	s.fees += p.fees
	s.ending = p.ending
}

func (s scenarioTotals) summary(scenario string) domain.ScenarioSummary {
	lossRate := 0.0
	if s.original > 0 {
		lossRate = s.losses / s.original
	}
	return domain.ScenarioSummary{
		Scenario:           scenario,
		InterestCollected:  roundTo2Decimals(s.interest),
		PrincipalCollected: roundTo2Decimals(s.principal),
		Recoveries:         roundTo2Decimals(s.recoveries),
		RealizedLosses:     roundTo2Decimals(s.losses),
		FeesPaid:           roundTo2Decimals(s.fees),
		NetCollections:     roundTo2Decimals(s.netCollections()),
		FinalCollateral:    roundTo2Decimals(s.ending),
		CumulativeLossRate: lossRate,
	}
}
