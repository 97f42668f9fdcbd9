package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"loan-projection/domain"
)

// Engine projects loan and pool cash flows. It holds no run state and is
// safe for concurrent use.
type Engine struct {
	mode    domain.AmortizationMode
	workers int
}

// NewEngine creates an Engine. workers bounds how many scenarios run at once;
// values below 1 mean sequential.
func NewEngine(mode domain.AmortizationMode, workers int) (*Engine, error) {
	switch mode {
	case "":
		mode = domain.AmortizationFixed
	case domain.AmortizationFixed, domain.AmortizationDeclining:
	default:
		return nil, fmt.Errorf("unknown amortization mode %q", mode)
	}
	if workers < 1 {
		workers = 1
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	return &Engine{mode: mode, workers: workers}, nil
}

func (e *Engine) Mode() domain.AmortizationMode { return e.mode }

// scenarioOutput is what one isolated scenario run produces.
type scenarioOutput struct {
	loans   []domain.LoanPeriodResult
	pool    []domain.PoolPeriodResult
	summary domain.ScenarioSummary
}

// Run projects every scenario over the horizon. Scenario outputs are
// concatenated in the given scenario order whatever order they finish in.
// Inputs are read only.
func (e *Engine) Run(
	ctx context.Context,
	terms domain.DealTerms,
	loans []domain.Loan,
	scenarios []domain.Scenario,
) (domain.ProjectionResult, error) {

	periods := formatPeriods(MonthEnds(terms.CutoffDate, terms.HorizonMonths))

	outputs := make([]scenarioOutput, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, sc := range scenarios {
		g.Go(func() error {
			out, err := e.runScenario(gctx, sc, terms.RecoveryLagMonths, periods, loans)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.ProjectionResult{}, err
	}

	var nLoan, nPool int
	for _, out := range outputs {
		nLoan += len(out.loans)
		nPool += len(out.pool)
	}
	result := domain.ProjectionResult{
		LoanPeriods: make([]domain.LoanPeriodResult, 0, nLoan),
		PoolPeriods: make([]domain.PoolPeriodResult, 0, nPool),
		Summaries:   make([]domain.ScenarioSummary, 0, len(outputs)),
	}
	for _, out := range outputs {
		result.LoanPeriods = append(result.LoanPeriods, out.loans...)
		result.PoolPeriods = append(result.PoolPeriods, out.pool...)
		result.Summaries = append(result.Summaries, out.summary)
	}
	return result, nil
}

// runScenario rolls every loan forward period by period. All loans finish
// period t before any loan starts t+1.
func (e *Engine) runScenario(
	ctx context.Context,
	sc domain.Scenario,
	lag int,
	periods []string,
	loans []domain.Loan,
) (scenarioOutput, error) {

	rates := newScenarioRates(sc)
	horizon := len(periods)

	dealID := ""
	if len(loans) > 0 {
		dealID = loans[0].DealID
	}

	states := make([]*loanState, len(loans))
	var totals scenarioTotals
	for i, loan := range loans {
		states[i] = newLoanState(loan, horizon)
		totals.original += loan.OriginalBalance
	}
	totals.ending = totals.original

	out := scenarioOutput{
		loans: make([]domain.LoanPeriodResult, 0, len(loans)*horizon),
		pool:  make([]domain.PoolPeriodResult, 0, horizon),
	}

	for t, period := range periods {
		if err := ctx.Err(); err != nil {
			return scenarioOutput{}, err
		}

		var pool poolTotals
		for i, loan := range loans {
			flows, active := states[i].roll(t, loan, rates, lag, e.term(loan, t))
			if !active {
				continue
			}
			pool.add(flows)
			out.loans = append(out.loans, flows.row(loan.DealID, sc.Name, loan.LoanID, period))
		}
		out.pool = append(out.pool, pool.row(dealID, sc.Name, period))
		totals.addPeriod(pool)
	}

	out.summary = totals.summary(sc.Name)
	return out, nil
}

func (e *Engine) term(loan domain.Loan, t int) int {
	if e.mode == domain.AmortizationDeclining {
		return loan.AmortTermMonths - t
	}
	return loan.AmortTermMonths
}
