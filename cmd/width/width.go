package width

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/maja42/symblob/tty"

	"github.com/urfave/cli/v3"
)

// GetCommand returns the width command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:  "width",
		Usage: "Print the column count of the terminal attached to stdout",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return Print(os.Stdout, tty.StdoutWidth)
		},
	}
}

// Print writes the width reported by query, or "unbounded" if it is unknown.
func Print(w io.Writer, query func() (int, bool)) error {
	cols, ok := query()
	if !ok {
		_, err := fmt.Fprintln(w, "unbounded")
		return err
	}
	_, err := fmt.Fprintln(w, cols)
	return err
}
