package list

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/maja42/symblob"

	"github.com/urfave/cli/v3"
)

const exeFlag = "exe"
const prefixFlag = "prefix"

// GetCommand returns the list command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the data symbols of an executable",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return List(os.Stdout, cmd.String(exeFlag), cmd.String(prefixFlag))
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    exeFlag,
				Aliases: []string{"e"},
				Usage:   "Executable to inspect, defaults to the running executable",
			},
			&cli.StringFlag{
				Name:  prefixFlag,
				Usage: "Only list symbols starting with this prefix, e.g. main.",
			},
		},
	}
}

// List writes the names of all data symbols starting with prefix to w, one per line.
func List(w io.Writer, exe, prefix string) error {
	var img *symblob.Image
	var err error
	if exe == "" {
		img, err = symblob.Open()
	} else {
		img, err = symblob.OpenExe(exe)
	}
	if err != nil {
		return err
	}
	defer img.Close()

	for _, name := range img.Symbols() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}
