package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"poolledger/internal/app"
	"poolledger/internal/infra"
	"poolledger/internal/ledger"
)

func main() {
	var seedFlag bool
	flag.BoolVar(&seedFlag, "seed", true, "create the default pool when it is missing")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger("cli").With().Str("cmd", "migrate").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if cfg.UsesPostgres() && !seedFlag {
		migrator, err := infra.OpenMigrator(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			exitWithError(err)
		}
		defer migrator.Close()
		if err := migrator.Migrate(ctx); err != nil {
			_ = migrator.Close()
			exitWithError(err)
		}
		fmt.Println("schema up to date")
		return
	}

	store, err := app.OpenRepository(ctx, cfg, logger)
	if err != nil {
		exitWithError(fmt.Errorf("failed to open store: %w", err))
	}
	defer store.Close()

	if seedFlag {
		err = ledger.NewService(store, nil, logger).Bootstrap(ctx)
	} else {
		err = store.Migrate(ctx)
	}
	if err != nil {
		_ = store.Close()
		exitWithError(err)
	}
	fmt.Println("schema up to date")
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
