// Package ast defines the command tree produced by internal/parser and
// consumed by internal/shexec and internal/astdump.
package ast

import (
	"fmt"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
)

// MaxArgs is the compile-time limit on the number of words in a single Exec
// node. Exceeding it is a parse-time fatal error.
const MaxArgs = 10

// Direction is which way a Redir moves bytes relative to the child command.
type Direction int

const (
	// In redirects fd 0 to read from a file.
	In Direction = iota
	// Out redirects fd 1 to write to a file, truncating or creating it.
	Out
)

// String renders the redirection operator for this direction.
func (d Direction) String() string {
	if d == In {
		return "<"
	}
	return ">"
}

// Command is the sum type of the shell's command tree. There are exactly
// five variants: Exec, Redir, Pipe, List, Back. Ownership of subtrees is
// single-parent; nothing is shared between nodes.
type Command interface {
	fmt.Stringer
	isCommand()
}

// Exec is a single program invocation. Argv is non-empty whenever the
// executor reaches it; an empty Argv (a bare parsed exec with no words) is
// the no-op the executor turns into exit(0).
type Exec struct {
	Argv []string
}

func (*Exec) isCommand() {}

// String renders the exec node the way a user would have typed it.
func (e *Exec) String() string {
	return shellquote.Join(e.Argv...)
}

// Redir wraps a child command with one input/output redirection.
//
// Invariant: Fd is 0 iff Dir is In, else 1. Out opens the file write-only,
// creating it if absent and truncating it; In opens it read-only.
type Redir struct {
	Child Command
	Path  string
	Dir   Direction
	Fd    int
}

func (*Redir) isCommand() {}

func (r *Redir) String() string {
	return fmt.Sprintf("%s %s %s", r.Child, r.Dir, r.Path)
}

// Pipe connects the standard output of Left to the standard input of Right.
type Pipe struct {
	Left  Command
	Right Command
}

func (*Pipe) isCommand() {}

func (p *Pipe) String() string {
	return fmt.Sprintf("%s | %s", p.Left, p.Right)
}

// List runs Left to completion, then runs Right.
type List struct {
	Left  Command
	Right Command
}

func (*List) isCommand() {}

func (l *List) String() string {
	return fmt.Sprintf("%s; %s", l.Left, l.Right)
}

// Back runs Child detached from the waiting parent.
type Back struct {
	Child Command
}

func (*Back) isCommand() {}

func (b *Back) String() string {
	return fmt.Sprintf("%s &", b.Child)
}

// Flatten returns, in left-to-right order, the Argv of every Exec node
// reachable from cmd. It exists mainly so tests can assert on the word
// sequence a tree carries without depending on its shape.
func Flatten(cmd Command) []string {
	var words []string
	var walk func(Command)
	walk = func(c Command) {
		switch n := c.(type) {
		case nil:
			return
		case *Exec:
			words = append(words, n.Argv...)
		case *Redir:
			walk(n.Child)
		case *Pipe:
			walk(n.Left)
			walk(n.Right)
		case *List:
			walk(n.Left)
			walk(n.Right)
		case *Back:
			walk(n.Child)
		}
	}
	walk(cmd)
	return words
}

// String is a convenience for formatting an optional root command, matching
// the empty string the parser produces for a blank line.
func String(cmd Command) string {
	if cmd == nil {
		return ""
	}
	return strings.TrimSpace(cmd.String())
}
