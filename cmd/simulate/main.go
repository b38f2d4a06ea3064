package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"banking-os-go/internal/common"
	"banking-os-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	accounts := flag.Int("accounts", 6, "Number of accounts to open")
	operations := flag.Int("ops", 20, "Number of concurrent operations to fire")
	initialBalance := flag.Int64("balance", 100, "Opening balance of every account")
	seed := flag.Int64("seed", 1, "Random seed for the workload")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	w := workload{
		Accounts:       *accounts,
		Operations:     *operations,
		InitialBalance: *initialBalance,
		Rng:            rand.New(rand.NewSource(*seed)),
	}
	summary, err := w.Run(ctx, services.Dispatcher)
	if err != nil {
		zap.L().Fatal("Simulation failed", zap.Error(err))
	}

	common.PrintHeader("SIMULATION SUMMARY", common.DefaultWidth)
	fmt.Printf("Accounts opened:        %d\n", len(summary.AccountIds))
	fmt.Printf("Operations dispatched:  %d (%d failed)\n", summary.Dispatched, summary.Failed)
	fmt.Printf("Total money in ledger:  %d (expected %d)\n", summary.TotalBalance, summary.ExpectedTotal)
	fmt.Println(common.FormatCache(services.Dispatcher.InspectCache()))
	common.PrintSeparator("-", common.DefaultWidth)
	fmt.Print(common.FormatGantt(summary.Report))

	if summary.Mismatches > 0 {
		common.PrintFooter(fmt.Sprintf("Reconciliation FAILED for %d account(s)", summary.Mismatches), common.DefaultWidth)
		os.Exit(1)
	}
	common.PrintFooter("All accounts reconciled against the journal", common.DefaultWidth)
}
