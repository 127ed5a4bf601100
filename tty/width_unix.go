//go:build unix

package tty

import "golang.org/x/sys/unix"

// columns issues a TIOCGWINSZ request against fd.
func columns(fd uintptr) (int, error) {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return 0, err
	}
	return int(ws.Col), nil
}
