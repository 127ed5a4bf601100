package cat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/maja42/symblob"
	"github.com/maja42/symblob/internal/log"

	"github.com/urfave/cli/v3"
)

// ExeFlag is the name of the flag selecting the executable to read from.
const ExeFlag = "exe"

// GetCommand returns the cat command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "cat",
		Usage:     "Write the payload of a record to stdout",
		ArgsUsage: "SYMBOL",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one symbol, got %d", cmd.Args().Len())
			}
			err := WriteRecord(os.Stdout, cmd.String(ExeFlag), cmd.Args().First())
			if errors.Is(err, symblob.ErrSymbolNotFound) {
				log.ErrorMsg("%s\n", err)
				return cli.Exit("", 1)
			}
			return err
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    ExeFlag,
				Aliases: []string{"e"},
				Usage:   "Executable to read from, defaults to the running executable",
			},
		},
	}
}

// WriteRecord writes the payload of the record stored under symbol to w.
// If exe is empty, the record is read from the running executable.
func WriteRecord(w io.Writer, exe, symbol string) error {
	if exe == "" {
		rec, err := symblob.Lookup(symbol)
		if err != nil {
			return err
		}
		_, err = rec.WriteTo(w)
		return err
	}

	img, err := symblob.OpenExe(exe)
	if err != nil {
		return err
	}
	defer img.Close()

	rec, err := img.Lookup(symbol)
	if err != nil {
		return err
	}
	_, err = rec.WriteTo(w)
	return err
}
