// Command gosh is a POSIX-like interactive shell: a recursive-descent
// parser and process-tree executor fed by a raw-mode line editor with
// history recall and a user-defined alias table.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gosh-project/gosh/internal/shell"
	"github.com/gosh-project/gosh/internal/shlog"
)

// version is overridden at build time via -ldflags.
var version = "0.0.0-dev"

// cmdGlobal holds the parsed global flags and the shell's exit status, the
// same role lxc/main.go's cmdGlobal struct plays for the teacher's CLI: a
// place PreRun and Run share state without package-level variables.
type cmdGlobal struct {
	log *shlog.Logger

	flagDebug    bool
	flagVerbose  bool
	flagVersion  bool
	flagPrintAST bool

	exitCode int
}

func main() {
	app := &cobra.Command{}
	app.Use = "gosh"
	app.Short = "A POSIX-like interactive shell"
	app.SilenceUsage = true
	app.SilenceErrors = true

	g := &cmdGlobal{}
	app.RunE = g.Run

	app.PersistentFlags().BoolVar(&g.flagDebug, "debug", false, "Show all debug messages")
	app.PersistentFlags().BoolVarP(&g.flagVerbose, "verbose", "v", false, "Show all information messages")
	app.PersistentFlags().BoolVar(&g.flagVersion, "version", false, "Print version number")
	app.PersistentFlags().BoolVar(&g.flagPrintAST, "print-ast", false, "Render the parsed command tree instead of executing it")

	app.PersistentPreRunE = g.PreRun

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	os.Exit(g.exitCode)
}

// PreRun initializes logging, the one piece of global setup needed before
// Run starts the shell loop (cf. lxc/main.go's PreRun, which loads the
// client config at this same point).
func (g *cmdGlobal) PreRun(cmd *cobra.Command, args []string) error {
	g.log = shlog.NewStderr(g.flagDebug, g.flagVerbose)
	return nil
}

// Run starts the interactive loop. The shell's own exit status is stashed
// on g rather than returned as an error, since cobra's RunE can only
// communicate success/failure, not an arbitrary process exit code.
func (g *cmdGlobal) Run(cmd *cobra.Command, args []string) error {
	if g.flagVersion {
		fmt.Println(version)
		return nil
	}

	fd := int(os.Stdin.Fd())
	sh := shell.New(fd, os.Stdin, stdout(), os.Stderr, g.log)
	sh.PrintAST = g.flagPrintAST

	g.exitCode = sh.Run()
	return nil
}
