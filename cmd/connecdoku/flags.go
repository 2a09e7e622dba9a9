// Package main is the connecdoku CLI: search, clean, and curate
// subcommands over a shared corpus and store (spec.md section 6).
package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// flagsMap centralizes flag definitions so each subcommand selects only
// what it needs, matching the teacher's appFlagsMap idiom.
var flagsMap = map[string]cli.Flag{
	"data-dir": &cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory containing corpus.json, labels.json, labelScores.json, checkpoints/, daily.jsonl",
		Value: ".",
	},
	"store": &cli.StringFlag{
		Name:  "store",
		Usage: "store backend: mem or mongo",
		Value: "mem",
	},
	"mongo-uri": &cli.StringFlag{
		Name:  "mongo-uri",
		Usage: "MongoDB connection URI, required when --store mongo",
	},
	"workers": &cli.IntFlag{
		Name:  "workers",
		Usage: "number of concurrent workers",
		Value: 6,
		Action: func(c *cli.Context, v int) error {
			if v < 1 {
				return fmt.Errorf("--workers must be at least 1 (got %d)", v)
			}
			return nil
		},
	},
	"save-interval": &cli.IntFlag{
		Name:  "save-interval",
		Usage: "iterations between search checkpoints",
		Value: 10000,
	},
	"log-interval": &cli.IntFlag{
		Name:  "log-interval",
		Usage: "iterations between progress log ticks",
		Value: 1000,
	},
	"fresh": &cli.BoolFlag{
		Name:  "fresh",
		Usage: "discard existing checkpoints and start over",
	},
	"batch-size": &cli.IntFlag{
		Name:  "batch-size",
		Usage: "cleaner flush threshold",
		Value: 100,
	},
	"log-file": &cli.StringFlag{
		Name:  "log-file",
		Usage: "path to a JSONL progress log; disabled when empty",
	},
	"helper-timeout": &cli.StringFlag{
		Name:  "helper-timeout",
		Usage: "cleaner ceiling for a writer reply before reporting a stall",
		Value: "5m",
	},
	"hash": &cli.StringFlag{
		Name:  "hash",
		Usage: "fingerprint of the layout to curate",
	},
	"assignment-file": &cli.StringFlag{
		Name:  "assignment-file",
		Usage: "file with a 16-word assignment (row-major); reads stdin when empty",
	},
}

func flagsSlice(keys ...string) []cli.Flag {
	flags := make([]cli.Flag, 0, len(keys))
	for _, k := range keys {
		if f, ok := flagsMap[k]; ok {
			flags = append(flags, f)
		}
	}
	return flags
}
