package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// SupportsColor reports whether ANSI escapes should be written to w.
// NO_COLOR (https://no-color.org) and TERM=dumb disable color even on a
// terminal; anything that is not a terminal never gets color.
func SupportsColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return IsTTY(w)
}

// IsTTY reports whether w is backed by a terminal. Anything exposing an
// Fd method (os.File and wrappers) is checked; other writers are not.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
