package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rbscholtus/connecdoku/internal/curate"
	"github.com/rbscholtus/connecdoku/internal/store"
	"github.com/rbscholtus/connecdoku/internal/tui"
)

var curateCommand = &cli.Command{
	Name:   "curate",
	Usage:  "commit a 16-word assignment for a stored layout",
	Flags:  flagsSlice("data-dir", "store", "mongo-uri", "hash", "assignment-file"),
	Action: curateAction,
}

func curateAction(c *cli.Context) error {
	ctx := c.Context
	hash := c.String("hash")
	if hash == "" {
		return fmt.Errorf("curate: --hash is required")
	}

	cfg, err := configFromFlags(c)
	if err != nil {
		return err
	}
	bm, err := loadBimap(cfg.DataDir)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	l, err := findLayout(ctx, st, hash)
	if err != nil {
		return err
	}

	cur := newCurator(cfg.DataDir, bm)
	cells, err := cur.ComputeCandidates(l)
	if err != nil {
		return err
	}
	fmt.Println(tui.RenderCandidateTable(cells).Render())

	assigned, ok, err := curate.AutoAssign(cells)
	if err != nil {
		return err
	}

	var words [16]string
	missing := false
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if ok[i][j] {
				words[i*4+j] = string(assigned[i][j])
			} else {
				missing = true
			}
		}
	}

	if missing {
		manual, err := readAssignment(c.String("assignment-file"))
		if err != nil {
			return err
		}
		for idx, w := range manual {
			if w != "" {
				words[idx] = w
			}
		}
	}

	for idx, w := range words {
		if w == "" {
			return fmt.Errorf("curate: cell %d has no assignment", idx)
		}
	}

	if err := cur.Commit(ctx, st, hash, l, words, time.Now()); err != nil {
		return err
	}

	fmt.Printf("committed puzzle %s\n", hash)
	return nil
}

// findLayout scans the full hash space for hash. The store interface
// has no direct get-by-hash; a curation run is infrequent and
// interactive, so a full scan is acceptable here (unlike the cleaner's
// sharded scans, which run concurrently over the whole store by
// design).
func findLayout(ctx context.Context, st store.Store, hash string) (store.Layout, error) {
	for sl, err := range st.Scan(ctx, store.HashRange{}) {
		if err != nil {
			return store.Layout{}, err
		}
		if sl.Hash == hash {
			return store.Layout{Rows: sl.Rows, Cols: sl.Cols}, nil
		}
	}
	return store.Layout{}, fmt.Errorf("curate: no layout with hash %q", hash)
}

func readAssignment(path string) ([16]string, error) {
	var out [16]string

	var r *bufio.Scanner
	if path == "" {
		r = bufio.NewScanner(os.Stdin)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return out, fmt.Errorf("curate: open assignment file: %w", err)
		}
		defer f.Close()
		r = bufio.NewScanner(f)
	}

	idx := 0
	for r.Scan() && idx < 16 {
		line := strings.TrimSpace(r.Text())
		if line == "" {
			continue
		}
		out[idx] = line
		idx++
	}
	return out, r.Err()
}
