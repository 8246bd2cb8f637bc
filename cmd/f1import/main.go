// cmd/f1import/main.go
// Synchronizes the local store with the upstream racing-statistics API.
//
// Usage:
//
//	go run ./cmd/f1import -year 2024 results qualifying
//	go run ./cmd/f1import -year 2024 -round 5 pitstops laptimes
//	go run ./cmd/f1import -year 2024 all
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iamnorbiato/F1App/config"
	bundb "github.com/iamnorbiato/F1App/db"
	"github.com/iamnorbiato/F1App/ergast"
	"github.com/iamnorbiato/F1App/importer"
	applog "github.com/iamnorbiato/F1App/logger"
	"github.com/iamnorbiato/F1App/metrics"
)

func main() {
	year := flag.Int("year", time.Now().Year(), "season to import")
	round := flag.Int("round", 0, "single round for standings, pitstops and laptimes (0 = whole season)")
	flag.Usage = usage
	flag.Parse()

	selected, err := selectTasks(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger, err := applog.New(cfg.Debug, cfg.LogFormat)
	if err != nil {
		log.Fatal("logger:", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := bundb.Setup(cfg)
	defer store.Close()
	if err := bundb.CreateTables(ctx, store); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	client := ergast.New(ergast.Options{
		BaseURL:       cfg.APIBaseURL,
		PageSize:      cfg.PageSize,
		Timeout:       cfg.HTTPTimeout,
		LapTimesDelay: cfg.LapTimesPageDelay,
		Logger:        logger,
	})
	m := metrics.New()
	im := importer.New(store, client, logger,
		importer.WithObserver(m),
		importer.WithLockTTL(cfg.LockTTL),
	)

	failed := runTasks(ctx, im, selected, params{year: *year, round: *round}, os.Stdout)

	if cfg.PushgatewayURL != "" {
		if err := m.Push(context.WithoutCancel(ctx), cfg.PushgatewayURL, "f1import"); err != nil {
			logger.Warn("metrics push failed", zap.Error(err))
		}
	}
	if failed {
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: f1import [-year N] [-round N] <entity>... | all\n\nentities:\n")
	for _, t := range tasks {
		fmt.Fprintf(os.Stderr, "  %s\n", t.name)
	}
	fmt.Fprintln(os.Stderr)
	flag.PrintDefaults()
}

// stopOnCancel reports whether the remaining runs should be abandoned.
func stopOnCancel(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}
