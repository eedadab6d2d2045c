package output

import (
	"os"

	"github.com/mattn/go-isatty"
)

// ColorEnabled reports whether colored output should be written to f.
// NO_COLOR (https://no-color.org) and TERM=dumb disable color.
func ColorEnabled(f *os.File) bool {
	if f == nil {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
