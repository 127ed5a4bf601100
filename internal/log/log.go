// Package log prints colored status messages of the command line tools to stderr.
package log

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Output receives all messages.
var Output io.Writer = os.Stderr

var red = color.New(color.FgRed).FprintfFunc()
var blue = color.New(color.FgBlue).FprintfFunc()

func init() {
	// fatih/color bases its decision to colorize on stdout.
	// Messages are written to stderr, so decide again for stderr.
	fd := os.Stderr.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		color.NoColor = true
	}
}

// ErrorMsg prints an error message in red color.
func ErrorMsg(format string, a ...interface{}) {
	red(Output, "[!] Error: "+format, a...)
}

// InfoMsg prints an informational message in blue color.
func InfoMsg(format string, a ...interface{}) {
	blue(Output, "[+] "+format, a...)
}

// Progress reports progress of a library operation as an informational message.
// It satisfies the logger signature of the embedding package.
func Progress(format string, args ...interface{}) {
	InfoMsg(format+"\n", args...)
}
