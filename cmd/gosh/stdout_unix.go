//go:build !windows

package main

import (
	"io"
	"os"
)

// stdout returns the writer the shell renders prompts and program output
// to. On POSIX systems os.Stdout already handles ANSI escapes natively.
func stdout() io.Writer {
	return os.Stdout
}
