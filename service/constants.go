package service

const (
	// Monthly rates below this magnitude amortize straight-line.
	zeroRateThreshold = 1e-12

	// Default principal at or above this marks the loan Defaulted for the period.
	defaultThreshold = 1e-6

	monthsPerYear = 12.0
	bpsPerUnit    = 10_000.0

	MaxHorizonMonths = 1200 // 100 años
	MaxWorkers       = 64
)
