// Package alias maintains the shell's name->replacement table and expands
// command words in a raw input line before it reaches the parser. It is
// the Go generalization of original_source/shell.c's Alias linked list and
// search_replace, adapted to the in-memory, insertion-ordered map the
// teacher's own CLI config keeps for its `lxc alias` table
// (lxc/config/config.go's `Aliases map[string]string`).
package alias

import "strings"

// Entry is one row of the alias table, used by Snapshot for listing.
type Entry struct {
	Name        string
	Replacement string
}

// Table is a name->replacement mapping. Names match the lexical shape of a
// command word (non-whitespace, non-symbol). Adding a name that already
// exists replaces its value in place rather than shadowing it, resolving
// spec.md's open question in favor of the "cleaner behaviour."
//
// Table is not safe for concurrent use; the shell drives it from a single
// goroutine.
type Table struct {
	order []string
	rows  map[string]string
}

// New returns an empty alias table.
func New() *Table {
	return &Table{rows: make(map[string]string)}
}

// Add installs or replaces the replacement text for name.
func (t *Table) Add(name, replacement string) error {
	if _, exists := t.rows[name]; !exists {
		t.order = append(t.order, name)
	}
	t.rows[name] = replacement
	return nil
}

// Remove deletes name from the table. Removing a name that is not present
// is a no-op.
func (t *Table) Remove(name string) {
	if _, exists := t.rows[name]; !exists {
		return
	}
	delete(t.rows, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Lookup returns the replacement for name, if any.
func (t *Table) Lookup(name string) (string, bool) {
	v, ok := t.rows[name]
	return v, ok
}

// Snapshot returns the table's entries in insertion order, the same order
// the teacher's `lxc alias list` renders its table in before handing it to
// sort.
func (t *Table) Snapshot() []Entry {
	entries := make([]Entry, 0, len(t.order))
	for _, name := range t.order {
		entries = append(entries, Entry{Name: name, Replacement: t.rows[name]})
	}
	return entries
}

const whitespace = " \t"
const tokenStops = " \t\n\r<>|;&"
const cmdSep = "|;&\n"

// Expand scans line and substitutes, in place, any command word that begins
// a command (the first non-whitespace token after the start of the line or
// after one of | ; & \n) for which the table has an entry. Arguments,
// whitespace, and separator tails are preserved verbatim. Expansion is
// single-pass: an alias's replacement text is never itself re-expanded.
func (t *Table) Expand(line string) string {
	var result strings.Builder
	start := 0
	n := len(line)

	for start < n {
		// Leading whitespace run, copied verbatim.
		for start < n && strings.ContainsRune(whitespace, rune(line[start])) {
			result.WriteByte(line[start])
			start++
		}
		if start >= n {
			break
		}

		// The command word: a maximal run up to the next token-stopping
		// character (whitespace or an operator).
		end := start + 1
		for end < n && !strings.ContainsRune(tokenStops, rune(line[end])) {
			end++
		}

		word := line[start:end]
		if replacement, ok := t.rows[word]; ok {
			result.WriteString(replacement)
		} else {
			result.WriteString(word)
		}

		start = end

		// The separator tail: everything up to and including the next
		// character in cmdSep, copied verbatim (it may contain the
		// arguments to the command word above, which are never aliased).
		tailEnd := start
		for tailEnd < n && !strings.ContainsRune(cmdSep, rune(line[tailEnd])) {
			tailEnd++
		}
		tailEnd++ // include the separator itself, mirroring shell.c's `end += 1`

		if tailEnd <= n {
			result.WriteString(line[start:tailEnd])
		} else {
			result.WriteString(line[start:])
		}
		start = tailEnd
	}

	return result.String()
}
