// Package term implements the scoped switch of the controlling tty between
// cooked and raw (no-echo, non-canonical) modes, with guaranteed
// restoration. It generalizes the MakeRaw/Restore pairing the teacher uses
// in lxc/exec.go and lxc/shell.go (there built on golang.org/x/crypto/ssh's
// predecessor terminal package; here on its successor, golang.org/x/term)
// into a reusable guard with idempotent restore.
package term

import (
	"sync"

	"golang.org/x/term"
)

// RawSession scopes one acquisition of raw mode on a file descriptor. The
// zero value is usable; the saved terminal state is captured on the first
// Enter and Restore is a no-op before that, and idempotent after it —
// satisfying spec.md's requirement that every shell exit path (normal exit,
// the `exit` builtin, EOF, a fatal error) can call Restore unconditionally.
type RawSession struct {
	fd int

	mu       sync.Mutex
	state    *term.State
	restored bool
}

// New returns a RawSession for the given file descriptor (typically
// os.Stdin's fd, via int(os.Stdin.Fd())).
func New(fd int) *RawSession {
	return &RawSession{fd: fd, restored: true}
}

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// GetSize returns the terminal's current width and height in columns/rows.
func GetSize(fd int) (width, height int, err error) {
	return term.GetSize(fd)
}

// Enter switches the descriptor into raw (non-canonical, echo-off) mode,
// saving the prior attributes exactly once. Calling Enter again while
// already raw is a no-op.
func (s *RawSession) Enter() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != nil && !s.restored {
		return nil
	}

	state, err := term.MakeRaw(s.fd)
	if err != nil {
		return err
	}

	s.state = state
	s.restored = false
	return nil
}

// Restore reapplies the attributes saved by Enter. It is idempotent: calling
// it when not in raw mode (including repeatedly, or before any Enter) is a
// no-op, so every exit path can call it unconditionally.
func (s *RawSession) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.restored || s.state == nil {
		s.restored = true
		return nil
	}

	err := term.Restore(s.fd, s.state)
	s.restored = true
	return err
}
