package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rbscholtus/connecdoku/internal/clean"
	"github.com/rbscholtus/connecdoku/internal/corpus"
	"github.com/rbscholtus/connecdoku/internal/telemetry"
	"github.com/rbscholtus/connecdoku/internal/tui"
)

var cleanCommand = &cli.Command{
	Name:   "clean",
	Usage:  "revalidate stored layouts against the current corpus",
	Flags:  flagsSlice("data-dir", "store", "mongo-uri", "workers", "batch-size", "log-file", "helper-timeout"),
	Action: cleanAction,
}

func cleanAction(c *cli.Context) error {
	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := configFromFlags(c)
	if err != nil {
		return err
	}

	bm, err := loadBimap(cfg.DataDir)
	if err != nil {
		return err
	}
	labelScores, err := corpus.LoadLabelScores(filepath.Join(cfg.DataDir, "labelScores.json"))
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	logger, closeLogger, err := newLogger(c)
	if err != nil {
		return err
	}
	defer closeLogger()

	start := time.Now()
	cleaner := &clean.Cleaner{
		Store:       st,
		Bimap:       bm,
		LabelScores: labelScores,
		Workers:     cfg.Workers,
		BatchSize:   cfg.BatchSize,
		Timeout:     time.Duration(cfg.HelperTimeout),
	}
	result, err := cleaner.Run(ctx, func(t telemetry.Tick) { logger.Log(t) })

	byKind := map[string]int{}
	for k, n := range result.Errors.Counts() {
		byKind[string(k)] = n
	}
	tui.RenderCleanSummary(tui.CleanSummary{
		Scanned:    uint64(result.Tally.Processed),
		Valid:      uint64(result.Tally.Valid),
		Invalid:    uint64(result.Tally.Invalid),
		Deleted:    uint64(result.Tally.Deleted),
		ByKind:     byKind,
		ElapsedSec: time.Since(start).Seconds(),
	})

	return err
}
