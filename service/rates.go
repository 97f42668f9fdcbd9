package service

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// CPRToSMM converts an annual conditional prepayment rate to its single monthly mortality.
func CPRToSMM(cpr float64) float64 {
	return 1 - math.Pow(1-cpr, 1/monthsPerYear)
}

// CDRToMDR converts an annual conditional default rate to its monthly default rate.
func CDRToMDR(cdr float64) float64 {
	return 1 - math.Pow(1-cdr, 1/monthsPerYear)
}

// AmortPayment returns the level monthly payment that fully amortizes balance
// over termMonths at annualRate. A non-positive term owes nothing further.
func AmortPayment(balance, annualRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	r := annualRate / monthsPerYear
	n := float64(termMonths)
	if math.Abs(r) < zeroRateThreshold {
		return balance / n
	}
	return balance * (r / (1 - math.Pow(1+r, -n)))
}

// roundTo2Decimals redondea un float64 a 2 decimales.
// Rounds the exact binary value, ties to even; NaN and Inf pass through.
func roundTo2Decimals(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	d, err := decimal.NewFromString(strconv.FormatFloat(value, 'f', 2, 64))
	if err != nil {
		return value
	}
	f, _ := d.Float64()
	return f
}
