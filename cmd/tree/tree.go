package tree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/maja42/symblob/internal/log"
	"github.com/maja42/symblob/tty"

	"github.com/urfave/cli/v3"
)

// GetCommand returns the tree command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "Print directory trees, clamped to the terminal width",
		ArgsUsage: "DIR...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return errors.New("no directories specified")
			}
			width := int(tty.WidthOrUnbounded())
			for _, dir := range cmd.Args().Slice() {
				if err := Print(os.Stdout, dir, width); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// Print writes the tree of dir to w. Lines are clamped to width terminal cells.
// Unreadable directories are reported and skipped.
func Print(w io.Writer, dir string, width int) error {
	name := filepath.Base(dir)
	if name == "." || name == string(filepath.Separator) {
		name = dir
	}
	if _, err := fmt.Fprintln(w, tty.Clamp(name, width)); err != nil {
		return err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil
	}
	return printDir(w, dir, "", width)
}

func printDir(w io.Writer, dir, indent string, width int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.ErrorMsg("%s\n", err)
	}
	for i, entry := range entries {
		last := i == len(entries)-1

		branch, childIndent := "├─", "│ "
		if last {
			branch, childIndent = "└─", "  "
		}
		if _, err := fmt.Fprintln(w, tty.Clamp(indent+branch+entry.Name(), width)); err != nil {
			return err
		}
		if entry.IsDir() {
			if err := printDir(w, filepath.Join(dir, entry.Name()), indent+childIndent, width); err != nil {
				return err
			}
		}
	}
	return nil
}
