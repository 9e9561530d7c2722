// Package shell wires the terminal controller, line editor, alias table,
// parser, and executor into the read-eval loop spec.md 4.6 describes, and
// dispatches the few builtins that must run in the shell's own process
// rather than a forked one: "#" comments, exit, alias, unalias, and cd.
//
// Builtin dispatch is a literal prefix match, the way
// original_source/shell.c's main does it (buf[0] == '#',
// memcmp(exit_cmd, buf, 4), ...) — not a cobra subcommand tree, since this
// loop is not the CLI-flag surface (see cmd/gosh for that).
package shell

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/gosh-project/gosh/internal/alias"
	"github.com/gosh-project/gosh/internal/astdump"
	"github.com/gosh-project/gosh/internal/editor"
	"github.com/gosh-project/gosh/internal/parser"
	"github.com/gosh-project/gosh/internal/shexec"
	"github.com/gosh-project/gosh/internal/shlog"
	"github.com/gosh-project/gosh/internal/term"
)

// Shell owns every C1-C5 component and drives the loop in Run.
type Shell struct {
	raw    *term.RawSession
	ed     *editor.Editor
	alias  *alias.Table
	exec   *shexec.Executor
	log    *shlog.Logger
	stdout io.Writer
	stderr io.Writer

	tty  bool
	home string
	cwd  string

	// PrintAST renders the parsed tree to stdout via astdump instead of
	// executing it, for non-interactive debugging (the CLI's --print-ast).
	PrintAST bool
}

// New builds a Shell reading commands from r, rendering prompts/output to
// stdout and diagnostics to stderr. fd is the file descriptor backing r,
// used to decide whether to enter raw mode and render a prompt.
func New(fd int, r io.Reader, stdout, stderr io.Writer, log *shlog.Logger) *Shell {
	tty := term.IsTerminal(fd)

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	return &Shell{
		raw:    term.New(fd),
		ed:     editor.New(r, stdout, tty),
		alias:  alias.New(),
		exec:   shexec.New(log),
		log:    log,
		stdout: stdout,
		stderr: stderr,
		tty:    tty,
		home:   os.Getenv("HOME"),
		cwd:    cwd,
	}
}

// Run drives the read-eval loop until EOF or the exit builtin and returns
// the process exit status, which is 0 in both cases. Parse and exec errors
// on a line are reported to stderr and the loop continues; they do not end
// the loop or change the returned status.
func (s *Shell) Run() int {
	if s.tty {
		if err := s.raw.Enter(); err != nil {
			fmt.Fprintf(s.stderr, "gosh: couldn't enter raw mode: %v\n", err)
		}
		defer s.raw.Restore()
	}

	for {
		line, err := s.ed.ReadLine(editor.Prompt(s.cwd, s.home))
		if err != nil {
			return 0
		}

		s.log.Debugf("read line: %q", line)

		if strings.TrimSpace(line) == "" {
			continue
		}

		if handled, code := s.dispatchBuiltin(line); handled {
			if code >= 0 {
				return code
			}
			continue
		}

		s.runLine(line)
	}
}

// dispatchBuiltin runs a builtin if line names one. It returns handled=true
// if line was consumed as a builtin; code is >= 0 only for "exit", meaning
// the caller should return that status immediately.
func (s *Shell) dispatchBuiltin(line string) (handled bool, code int) {
	trimmed := strings.TrimLeft(line, " \t")

	switch {
	case strings.HasPrefix(trimmed, "#"):
		return true, -1

	case trimmed == "exit" || strings.HasPrefix(trimmed, "exit "):
		return true, 0

	case strings.HasPrefix(trimmed, "alias "):
		s.builtinAlias(trimmed)
		return true, -1

	case trimmed == "alias":
		s.builtinAliasList()
		return true, -1

	case strings.HasPrefix(trimmed, "unalias "):
		name := strings.TrimSpace(trimmed[len("unalias "):])
		s.alias.Remove(name)
		return true, -1

	case trimmed == "cd" || strings.HasPrefix(trimmed, "cd "):
		s.builtinCd(trimmed)
		return true, -1

	default:
		return false, -1
	}
}

// builtinAlias parses `alias NAME='VALUE'`, the same two-scan
// strchr(' ')/strchr('=') then strchr('\'')/strchr('\'') shape
// original_source/shell.c's main uses.
func (s *Shell) builtinAlias(line string) {
	space := strings.Index(line, " ")
	eq := strings.Index(line, "=")
	if space < 0 || eq < 0 || eq <= space {
		fmt.Fprintln(s.stderr, "alias: syntax error, expected alias NAME='VALUE'")
		return
	}
	name := strings.TrimSpace(line[space+1 : eq])

	firstQuote := strings.Index(line[eq:], "'")
	if firstQuote < 0 {
		fmt.Fprintln(s.stderr, "alias: syntax error, expected alias NAME='VALUE'")
		return
	}
	firstQuote += eq
	secondQuote := strings.Index(line[firstQuote+1:], "'")
	if secondQuote < 0 {
		fmt.Fprintln(s.stderr, "alias: syntax error, expected alias NAME='VALUE'")
		return
	}
	secondQuote += firstQuote + 1

	value := line[firstQuote+1 : secondQuote]
	if name == "" {
		fmt.Fprintln(s.stderr, "alias: empty name")
		return
	}

	_ = s.alias.Add(name, value)
}

// builtinAliasList prints the alias table as a NAME/REPLACEMENT table, the
// same tablewriter-backed rendering the teacher's `lxc alias list` uses
// (lxc/util/table.go's tablePrinter) — a read-only listing addition
// supplementing original_source (see SPEC_FULL.md 4.3); it does not persist
// anything to disk.
func (s *Shell) builtinAliasList() {
	entries := s.alias.Snapshot()
	if len(entries) == 0 {
		return
	}

	table := tablewriter.NewWriter(s.stdout)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"NAME", "REPLACEMENT"})
	for _, e := range entries {
		table.Append([]string{e.Name, e.Replacement})
	}
	table.Render()
}

// builtinCd implements `cd [~|path]`: a bare $HOME prefix of "~" is
// substituted in place (exact match, as original_source's strcmp(home,
// buf+3) does, not a general tilde expansion), and the cached cwd is
// refreshed from os.Getwd after a successful chdir so the prompt reflects
// it without a syscall on every keystroke.
func (s *Shell) builtinCd(line string) {
	target := strings.TrimSpace(strings.TrimPrefix(line, "cd"))
	if target == "~" {
		target = s.home
	}
	if target == "" {
		target = s.home
	}

	if err := os.Chdir(target); err != nil {
		fmt.Fprintf(s.stderr, "cannot cd %s\n", target)
		return
	}

	if cwd, err := os.Getwd(); err == nil {
		s.cwd = cwd
	}
}

// runLine expands aliases, parses, and (unless PrintAST is set) executes
// line, reporting any error to stderr without killing the loop.
func (s *Shell) runLine(line string) {
	expanded := s.alias.Expand(line)

	cmd, err := parser.Parse(expanded)
	if err != nil {
		fmt.Fprintf(s.stderr, "%v\n", err)
		return
	}

	if s.PrintAST {
		out, err := astdump.Render(cmd)
		if err != nil {
			fmt.Fprintf(s.stderr, "%v\n", err)
			return
		}
		fmt.Fprint(s.stdout, out)
		return
	}

	if _, err := s.exec.Run(cmd); err != nil {
		fmt.Fprintf(s.stderr, "%v\n", err)
	}
}
