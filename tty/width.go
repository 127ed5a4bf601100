// Package tty queries the dimensions of the terminal a program writes to.
package tty

import (
	"math"
	"os"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Unbounded is reported by WidthOrUnbounded if the terminal width is unknown.
// Callers using the width to wrap or clamp output will effectively not wrap at all.
const Unbounded = math.MaxInt32

// Width returns the number of columns of the terminal attached to fd.
// ok is false if fd does not refer to a terminal or the terminal does not report its size.
// A terminal reporting zero columns, as pseudo terminals do until they are sized, counts as
// not reporting its size.
func Width(fd uintptr) (cols int, ok bool) {
	if !term.IsTerminal(int(fd)) {
		return 0, false
	}
	cols, err := columns(fd)
	if err != nil || cols <= 0 {
		return 0, false
	}
	return cols, true
}

// StdoutWidth returns the number of columns of the terminal attached to standard output.
func StdoutWidth() (cols int, ok bool) {
	return Width(os.Stdout.Fd())
}

// WidthOrUnbounded returns the number of columns of the terminal attached to standard output,
// or Unbounded if standard output is not a terminal.
func WidthOrUnbounded() int32 {
	return widthOrUnbounded(os.Stdout.Fd())
}

func widthOrUnbounded(fd uintptr) int32 {
	cols, ok := Width(fd)
	if !ok || cols > Unbounded {
		return Unbounded
	}
	return int32(cols)
}

// Clamp truncates s so that it occupies at most width terminal cells.
func Clamp(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if width >= Unbounded {
		return s
	}
	return runewidth.Truncate(s, width, "")
}
