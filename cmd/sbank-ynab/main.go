package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/sbank-ynab/internal/category"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/config"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/importer"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/pipeline"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/transaction"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/transaction/store"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/upload"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/ynab"
)

var cli struct {
	Input       string `help:"Bank export to import." default:"export.csv" type:"path"`
	ResultsDir  string `help:"Directory for run files and the ledger." default:"RESULTS" type:"path"`
	Ledger      string `help:"Ledger of processed transactions. Defaults to DUPLICATE_CHECK.csv in the results directory." type:"path"`
	EnvFile     string `help:"Optional .env file loaded before the environment is read." default:".env"`
	LogLevel    string `help:"Log level." enum:"debug,info,warn,error" default:"info"`
	LogFormat   string `help:"Log format." enum:"text,json" default:"text"`
	Interactive bool   `help:"Wait for acknowledgment before exiting on failure."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("sbank-ynab"),
		kong.Description("Import an S-Pankki export into YNAB."),
	)

	logger := newLogger(cli.LogLevel, cli.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger); err != nil {
		printError(os.Stderr, err.Error())

		if cli.Interactive {
			acknowledge()
		}

		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	if err := godotenv.Load(cli.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load env file", "path", cli.EnvFile, "error", err)
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	ledgerStore := store.New(cli.ResultsDir, cli.Ledger, transaction.DefaultFormat)
	logger.Debug("using ledger", "path", ledgerStore.LedgerPath())

	client := ynab.NewClient(cfg.YNAB.BaseURL, cfg.YNAB.APIKey, cfg.YNAB.BudgetID, cfg.YNAB.Timeout)

	var (
		importService  = importer.NewService()
		ledgerService  = transaction.NewService(ledgerStore, logger)
		categoryMapper = category.NewMapper(client, logger)
		uploadService  = upload.NewService(client, cfg.YNAB.AccountID, cfg.YNAB.FallbackCategoryID, logger)
	)

	p := pipeline.New(importService, categoryMapper, ledgerService, uploadService, logger, pipeline.Options{
		InputPath:              cli.Input,
		Bank:                   importer.BankSPankki,
		RunDate:                time.Now(),
		PersistOnUploadFailure: cfg.Upload.PersistOnFailure,
	})

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(os.Stdout, res)

	return nil
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
