//go:build !unix

package terminal

import (
	"os"

	"golang.org/x/term"
)

// TTYSize returns a SizeFunc querying the window size of f
func TTYSize(f *os.File) SizeFunc {
	fd := int(f.Fd())
	return func() (int, int, error) {
		return term.GetSize(fd)
	}
}

func resetTerminalMode() {}
