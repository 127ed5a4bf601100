package main

import (
	"context"
	"os"

	"github.com/maja42/symblob/cmd/cat"
	"github.com/maja42/symblob/cmd/gen"
	"github.com/maja42/symblob/cmd/list"
	"github.com/maja42/symblob/cmd/tree"
	"github.com/maja42/symblob/cmd/version"
	"github.com/maja42/symblob/cmd/width"
	"github.com/maja42/symblob/internal/log"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "symblob",
		Usage: "Embed length-prefixed records into executables and read them back",
		Commands: []*cli.Command{
			gen.GetCommand(),
			cat.GetCommand(),
			list.GetCommand(),
			width.GetCommand(),
			tree.GetCommand(),
			version.GetCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.ErrorMsg("%s\n", err)
		os.Exit(1)
	}
}
