//go:build !unix

package tty

import "golang.org/x/term"

func columns(fd uintptr) (int, error) {
	width, _, err := term.GetSize(int(fd))
	return width, err
}
