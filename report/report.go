// Package report writes projection output tables as CSV.
package report

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"loan-projection/domain"
)

// money formats v to cents, rounding the exact binary value with ties to even.
func money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	d, err := decimal.NewFromString(strconv.FormatFloat(v, 'f', 2, 64))
	if err != nil {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return d.StringFixed(2)
}

// WriteLoanPeriods writes the loan-period table with its contract header.
func WriteLoanPeriods(w io.Writer, rows []domain.LoanPeriodResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.LoanPeriodColumns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.DealID, r.Scenario, r.LoanID, r.PeriodEndDate,
			money(r.BeginningBalance),
			money(r.GrossInterest),
			money(r.ServicingFee),
			money(r.NetInterest),
			money(r.ScheduledPrincipal),
			money(r.PrepaymentPrincipal),
			money(r.DefaultPrincipal),
			money(r.RecoveryAmount),
			money(r.RealizedLoss),
			money(r.EndingBalance),
			string(r.Status),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePoolPeriods writes the pool-period table with its contract header.
func WritePoolPeriods(w io.Writer, rows []domain.PoolPeriodResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.PoolPeriodColumns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.DealID, r.Scenario, r.PeriodEndDate,
			money(r.InterestCollected),
			money(r.PrincipalCollected),
			money(r.Recoveries),
			money(r.RealizedLosses),
			money(r.FeesPaid),
			money(r.NetCollections),
			money(r.EndingCollateralBalance),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
