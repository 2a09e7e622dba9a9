package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rbscholtus/connecdoku/internal/adjacency"
	"github.com/rbscholtus/connecdoku/internal/search"
	"github.com/rbscholtus/connecdoku/internal/store"
	"github.com/rbscholtus/connecdoku/internal/telemetry"
	"github.com/rbscholtus/connecdoku/internal/tui"
)

var searchCommand = &cli.Command{
	Name:  "search",
	Usage: "enumerate fillable layouts and store them",
	Flags: flagsSlice("data-dir", "store", "mongo-uri", "workers",
		"save-interval", "log-interval", "fresh", "log-file"),
	Action: searchAction,
}

func searchAction(c *cli.Context) error {
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
	graph := adjacency.Build(bm)

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	logger, closeLogger, err := newLogger(c)
	if err != nil {
		return err
	}
	defer closeLogger()

	var found, stored, duplicates uint64
	start := time.Now()

	eng := &search.Engine{Bimap: bm, Graph: graph, Store: st}
	opts := search.Options{
		Workers:       cfg.Workers,
		CheckpointDir: filepath.Join(cfg.DataDir, "checkpoints"),
		SaveInterval:  cfg.SaveInterval,
		Fresh:         cfg.Fresh,
		OnProgress: func(p search.Progress) {
			if p.Iter%cfg.LogInterval != 0 {
				return
			}
			iter, solved, wid := p.Iter, p.Solved, p.WorkerID
			logger.Log(telemetry.Tick{Event: "search_progress", WorkerID: &wid, Iter: &iter, Solved: &solved})
		},
		OnEmit: func(l store.Layout) {
			found++
			res, err := st.Insert(ctx, l)
			if err != nil {
				return
			}
			if res.Duplicate {
				duplicates++
			} else {
				stored++
			}
		},
	}

	runErr := eng.Run(ctx, opts)
	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("search: %w", runErr)
	}

	tui.RenderSearchSummary(tui.SearchSummary{
		Workers:    cfg.Workers,
		Found:      found,
		Stored:     stored,
		Duplicates: duplicates,
		ElapsedSec: time.Since(start).Seconds(),
	})
	return nil
}
