//go:build windows

package main

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
)

// stdout wraps os.Stdout with go-colorable so the history-recall erase
// sequences and any future color output render correctly on the Windows
// console, the same wrapper the teacher's console/exec commands use there
// (lxc/console_windows.go, lxc/utils_windows.go).
func stdout() io.Writer {
	return colorable.NewColorableStdout()
}
