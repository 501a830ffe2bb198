package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"poolledger/internal/app"
	"poolledger/internal/domain"
	"poolledger/internal/infra"
	"poolledger/internal/ledger"
)

var errDrift = errors.New("pool totals drifted from their contributions")

type auditor interface {
	Audit(ctx context.Context) ([]domain.PoolBalance, error)
	Contributions(ctx context.Context, poolID int64) ([]domain.Contribution, error)
}

func main() {
	var poolFlag int64
	flag.Int64Var(&poolFlag, "pool", 0, "also list the contributions of this pool id")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger("cli").With().Str("cmd", "ledgeraudit").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := app.OpenRepository(ctx, cfg, logger)
	if err != nil {
		exitWithError(fmt.Errorf("failed to open store: %w", err))
	}
	defer store.Close()

	err = run(ctx, ledger.NewService(store, nil, logger), os.Stdout, poolFlag)
	if err != nil {
		_ = store.Close()
		exitWithError(err)
	}
}

func run(ctx context.Context, svc auditor, out io.Writer, poolID int64) error {
	balances, err := svc.Audit(ctx)
	if err != nil {
		return fmt.Errorf("failed to audit pools: %w", err)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POOL\tNAME\tTOTAL\tCONTRIBUTIONS\tSUM\tDRIFT")
	drifted := 0
	for _, b := range balances {
		if b.Drift() != 0 {
			drifted++
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\n",
			b.Pool.ID, b.Pool.Name, b.Pool.TotalAmount, b.ContributionCount, b.ContributionSum, b.Drift())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if poolID > 0 {
		contributions, err := svc.Contributions(ctx, poolID)
		if err != nil {
			return fmt.Errorf("failed to list contributions of pool %d: %w", poolID, err)
		}
		fmt.Fprintf(out, "\nContributions of pool %d\n", poolID)
		tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tUSER\tPHONE\tAMOUNT\tCREATED")
		for _, c := range contributions {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", c.ID, c.UserName, c.Phone, c.Amount, c.CreatedAt.UTC().Format(time.RFC3339))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if drifted > 0 {
		return fmt.Errorf("%w: %d pool(s)", errDrift, drifted)
	}
	return nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
