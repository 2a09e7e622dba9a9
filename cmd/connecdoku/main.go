package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "connecdoku",
		Usage: "generate, clean, and curate Connecdoku puzzles",
		Commands: []*cli.Command{
			searchCommand,
			cleanCommand,
			curateCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
