// Command projectcsv runs a projection from CSV input tables and writes the
// loan-period and pool-period tables as CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"loan-projection/domain"
	"loan-projection/logger"
	"loan-projection/report"
	"loan-projection/service"
	"loan-projection/tape"
)

type options struct {
	dealPath     string
	tapePath     string
	scenarioPath string
	loanOut      string
	poolOut      string
	mode         string
	workers      int
	logLevel     string
}

func main() {
	var opts options
	flag.StringVar(&opts.dealPath, "deal", "", "deal terms CSV")
	flag.StringVar(&opts.tapePath, "tape", "", "loan tape CSV")
	flag.StringVar(&opts.scenarioPath, "scenarios", "", "scenarios CSV")
	flag.StringVar(&opts.loanOut, "loan-out", "loan_periods.csv", "loan-period output CSV")
	flag.StringVar(&opts.poolOut, "pool-out", "pool_periods.csv", "pool-period output CSV")
	flag.StringVar(&opts.mode, "mode", string(domain.AmortizationFixed), "amortization mode: fixed or declining")
	flag.IntVar(&opts.workers, "workers", 1, "scenarios projected concurrently")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level")
	flag.Parse()

	if opts.dealPath == "" || opts.tapePath == "" || opts.scenarioPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(opts.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, log); err != nil {
		log.Error("projection failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, log *zap.Logger) error {
	var input domain.ProjectionInput
	var err error
	if input.DealTerms, err = tape.ReadCSVFile(opts.dealPath); err != nil {
		return err
	}
	if input.LoanTape, err = tape.ReadCSVFile(opts.tapePath); err != nil {
		return err
	}
	if input.Scenarios, err = tape.ReadCSVFile(opts.scenarioPath); err != nil {
		return err
	}

	prepared, err := service.ParseInput(input)
	if err != nil {
		return err
	}

	engine, err := service.NewEngine(domain.AmortizationMode(opts.mode), opts.workers)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := engine.Run(ctx, prepared.Terms, prepared.Loans, prepared.Scenarios)
	if err != nil {
		return err
	}
	log.Info("projection completed",
		zap.Int("loans", len(prepared.Loans)),
		zap.Int("scenarios", len(prepared.Scenarios)),
		zap.Int("periods", prepared.Terms.HorizonMonths),
		zap.Int("loan_rows", len(result.LoanPeriods)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if err := writeFile(opts.loanOut, func(f *os.File) error {
		return report.WriteLoanPeriods(f, result.LoanPeriods)
	}); err != nil {
		return err
	}
	if err := writeFile(opts.poolOut, func(f *os.File) error {
		return report.WritePoolPeriods(f, result.PoolPeriods)
	}); err != nil {
		return err
	}

	for _, s := range result.Summaries {
		log.Info("scenario summary",
			zap.String("scenario", s.Scenario),
			zap.Float64("net_collections", s.NetCollections),
			zap.Float64("realized_losses", s.RealizedLosses),
			zap.Float64("final_collateral", s.FinalCollateral),
			zap.Float64("cumulative_loss_rate", s.CumulativeLossRate),
		)
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
