package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/rbscholtus/connecdoku/internal/config"
	"github.com/rbscholtus/connecdoku/internal/corpus"
	"github.com/rbscholtus/connecdoku/internal/curate"
	"github.com/rbscholtus/connecdoku/internal/errkind"
	"github.com/rbscholtus/connecdoku/internal/store"
	"github.com/rbscholtus/connecdoku/internal/telemetry"
)

// configFromFlags collapses the flags shared by every subcommand into a
// validated config.Config.
func configFromFlags(c *cli.Context) (*config.Config, error) {
	raw := map[string]any{
		"data_dir":      c.String("data-dir"),
		"store":         c.String("store"),
		"mongo_uri":     c.String("mongo-uri"),
		"workers":       c.Int("workers"),
		"save_interval": c.Int("save-interval"),
		"log_interval":  c.Int("log-interval"),
		"batch_size":    c.Int("batch-size"),
		"fresh":         c.Bool("fresh"),
	}
	// Only subcommands that register --helper-timeout (clean) carry it;
	// others fall back to config.Decode's default.
	if c.IsSet("helper-timeout") || c.String("helper-timeout") != "" {
		raw["helper_timeout"] = c.String("helper-timeout")
	}
	return config.Decode(raw)
}

// openStore builds the Store backend named by cfg.Store.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store {
	case config.StoreMem:
		return store.NewMemStore(), nil
	case config.StoreMongo:
		return store.NewMongoStore(ctx, cfg.MongoURI, "connecdoku")
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Store)
	}
}

// loadBimap reads corpus.json under dataDir and normalizes it.
func loadBimap(dataDir string) (*corpus.Bimap, error) {
	raw, err := corpus.LoadRaw(filepath.Join(dataDir, "corpus.json"))
	if err != nil {
		return nil, err
	}
	bm, err := corpus.Normalize(raw)
	if err != nil {
		return nil, errkind.New(errkind.CorpusIntegrity, err)
	}
	return bm, nil
}

// newLogger builds a telemetry.Logger writing to stdout and, if
// --log-file is set, to that file as JSONL.
func newLogger(c *cli.Context) (*telemetry.Logger, func(), error) {
	path := c.String("log-file")
	if path == "" {
		return telemetry.New(os.Stdout, nil), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return telemetry.New(os.Stdout, f), func() { f.Close() }, nil
}

// newCurator wires a curate.Curator over the file-backed daily store
// under dataDir.
func newCurator(dataDir string, bm *corpus.Bimap) *curate.Curator {
	daily := curate.NewFileDailyStore(filepath.Join(dataDir, "daily.jsonl"))
	return &curate.Curator{Bimap: bm, Daily: daily}
}

// exitCodeFor maps an error's errkind.Kind to the exit codes from
// spec.md section 6: 0 success, 1 CorpusIntegrity, 2 FatalMismatch, 3
// any other unrecoverable helper/store error.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	ke, ok := err.(*errkind.Error)
	if !ok {
		return 3
	}
	switch ke.Kind {
	case errkind.CorpusIntegrity:
		return 1
	case errkind.FatalMismatch:
		return 2
	default:
		return 3
	}
}
