// Package editor implements the shell's raw-mode line editor and history
// recall (spec.md 4.2 / SPEC_FULL.md C2): a character-at-a-time reader over
// an already-raw tty, with backspace and arrow-key history navigation, or a
// single buffered line read when stdin isn't a terminal.
//
// It is grounded on the same raw-tty plumbing the teacher uses for `lxc
// exec`'s interactive mode (lxc/exec.go's stdin copy loop) and
// `lxc console` (lxc/console_unix.go), generalized from "copy bytes to a
// remote pty" to "interpret bytes locally as editing commands."
package editor

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLine is CMD_LEN-1 from spec.md 4.2's buffer-overflow rule: the loop
// stops accepting characters once the buffer would grow past this length,
// discarding anything further until the line is committed.
const maxLine = 149

// Editor reads logical input lines from r, applying raw-mode editing when
// tty is true, and writes the prompt and editing echo to w.
type Editor struct {
	r   *bufio.Reader
	w   io.Writer
	tty bool

	history []string
	cursor  cursorState
}

type cursorState struct {
	// set is false for the "unset" state from spec.md 4.2; index is only
	// meaningful when set is true.
	set   bool
	index int
}

// New returns an Editor. When tty is false, ReadLine degrades to a single
// buffered read terminated by newline or EOF, with no prompt and no
// character-at-a-time interpretation — spec.md 4.2's non-tty case.
func New(r io.Reader, w io.Writer, tty bool) *Editor {
	return &Editor{r: bufio.NewReader(r), w: w, tty: tty}
}

// ErrEOF is returned by ReadLine when the input ended without a final
// newline-terminated line (including the tty EOF sentinel).
var ErrEOF = io.EOF

// Prompt renders the "238P:<display>$ " prompt for the given working
// directory and $HOME value, substituting a leading exact match of home
// with "~" (no trailing-slash magic: "/home/foobar" is not shortened by a
// home of "/home/foo").
func Prompt(cwd, home string) string {
	display := cwd
	if home != "" && (cwd == home || strings.HasPrefix(cwd, home+"/")) {
		display = "~" + cwd[len(home):]
	}
	return fmt.Sprintf("238P:%s$ ", display)
}

// ReadLine obtains one logical input line. In tty mode it renders prompt
// and drives the character loop from spec.md 4.2's table; otherwise prompt
// is ignored and the line comes from a single buffered read.
func (e *Editor) ReadLine(prompt string) (string, error) {
	if !e.tty {
		line, err := e.r.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		if err == io.EOF && line == "" {
			return "", io.EOF
		}
		return strings.TrimSuffix(line, "\n"), nil
	}

	fmt.Fprint(e.w, prompt)

	var buf []rune
	for {
		b, err := e.r.ReadByte()
		if err != nil {
			return "", io.EOF
		}

		switch b {
		case '\n':
			fmt.Fprint(e.w, "\n")
			line := string(buf)
			e.push(line)
			return line, nil

		case '\t':
			// ignored

		case 0x7F:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				fmt.Fprint(e.w, "\b \b")
			}

		case 0x1B: // ESC
			if !e.isCSIArrow() {
				continue
			}
			dir, err := e.r.ReadByte()
			if err != nil {
				return "", io.EOF
			}
			switch dir {
			case 'A':
				buf = e.recall(buf, e.previous())
			case 'B':
				buf = e.recall(buf, e.next())
			case 'C', 'D':
				// ignored
			}

		default:
			if len(buf) >= maxLine {
				continue
			}
			buf = append(buf, rune(b))
			fmt.Fprintf(e.w, "%c", b)
		}
	}
}

// isCSIArrow consumes the '[' of an ESC '[' X sequence, reporting whether
// one was present. A bare ESC not followed by '[' is otherwise swallowed
// silently, matching spec.md's "ESC [ C/D | ignore" table having no entry
// for a lone ESC.
func (e *Editor) isCSIArrow() bool {
	b, err := e.r.ReadByte()
	if err != nil {
		return false
	}
	return b == '['
}

// recall replaces the visible line with text, erasing the previously
// displayed buf first (one "\b \b" per column, per spec.md 4.2).
func (e *Editor) recall(buf []rune, text string, ok bool) []rune {
	if !ok {
		return buf
	}
	for range buf {
		fmt.Fprint(e.w, "\b \b")
	}
	fmt.Fprint(e.w, text)
	return []rune(text)
}

// previous implements the *previous* transition: unset -> tail,
// at-entry e -> predecessor (no-op at head).
func (e *Editor) previous() (string, bool) {
	if len(e.history) == 0 {
		return "", false
	}
	if !e.cursor.set {
		e.cursor = cursorState{set: true, index: len(e.history) - 1}
		return e.history[e.cursor.index], true
	}
	if e.cursor.index == 0 {
		return e.history[e.cursor.index], true
	}
	e.cursor.index--
	return e.history[e.cursor.index], true
}

// next implements the *next* transition: unset -> empty/no-op,
// tail -> unset + empty, else successor.
func (e *Editor) next() (string, bool) {
	if !e.cursor.set {
		return "", false
	}
	if e.cursor.index == len(e.history)-1 {
		e.cursor = cursorState{}
		return "", true
	}
	e.cursor.index++
	return e.history[e.cursor.index], true
}

// push appends line to history (iff non-empty) and resets the cursor to
// unset, per spec.md 4.2's "Adding a new line to history always resets the
// cursor."
func (e *Editor) push(line string) {
	e.cursor = cursorState{}
	if line == "" {
		return
	}
	e.history = append(e.history, line)
}

// History returns the current history in insertion order. The returned
// slice is a read-only snapshot.
func (e *Editor) History() []string {
	out := make([]string, len(e.history))
	copy(out, e.history)
	return out
}
