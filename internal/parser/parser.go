// Package parser implements the shell's recursive-descent grammar:
//
//	line  ::= list
//	list  ::= back (';' list)?
//	back  ::= pipe ('&')*
//	pipe  ::= exec ('|' pipe)?
//	exec  ::= redir* (WORD redir*)*
//	redir ::= ('<' | '>') WORD
//
// It is a direct generalization of original_source/shell.c's
// gettoken/peek/parseline family onto Go's ast.Command tree.
package parser

import (
	"fmt"
	"strings"

	"github.com/gosh-project/gosh/internal/ast"
)

// SyntaxError is returned for every parse-time fatal condition: leftover
// input after the top-level list, a redirection with no following word, or
// an exec node with more than ast.MaxArgs words.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string { return e.Msg }

// maxDepth bounds the recursive-descent's stack depth so adversarial input
// like a long run of ";" or "|" fails with a SyntaxError instead of
// overflowing the goroutine stack (spec.md design note on parser recursion).
const maxDepth = 4096

const whitespace = " \t\r\n\v"
const symbols = "<|>;&"

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord
	tokLess
	tokGreater
	tokPipe
	tokSemi
	tokAmp
)

type parser struct {
	src   string
	pos   int
	depth int
}

// Parse tokenises and recursively descends over line, producing a Command
// tree. line need not carry a trailing newline.
func Parse(line string) (ast.Command, error) {
	p := &parser{src: line}
	cmd, err := p.parseList()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()
	if p.pos != len(p.src) {
		return nil, &SyntaxError{Msg: fmt.Sprintf("leftovers: %s", p.src[p.pos:])}
	}

	return cmd, nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return &SyntaxError{Msg: "syntax error"}
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) skipWhitespace() {
	for p.pos < len(p.src) && strings.ContainsRune(whitespace, rune(p.src[p.pos])) {
		p.pos++
	}
}

// peek reports whether the next non-whitespace character is one of toks,
// without consuming it.
func (p *parser) peek(toks string) bool {
	p.skipWhitespace()
	if p.pos >= len(p.src) {
		return false
	}
	return strings.ContainsRune(toks, rune(p.src[p.pos]))
}

// token is the result of gettoken: a kind plus, for WORD tokens, the
// underlying text.
type token struct {
	kind tokenKind
	text string
}

// gettoken skips whitespace, then consumes either a single-character
// operator or a maximal WORD run (anything but whitespace or an operator
// character).
func (p *parser) gettoken() token {
	p.skipWhitespace()
	if p.pos >= len(p.src) {
		return token{kind: tokEOF}
	}

	c := p.src[p.pos]
	switch c {
	case '&':
		p.pos++
		return token{kind: tokAmp}
	case ';':
		p.pos++
		return token{kind: tokSemi}
	case '|':
		p.pos++
		return token{kind: tokPipe}
	case '<':
		p.pos++
		return token{kind: tokLess}
	case '>':
		p.pos++
		return token{kind: tokGreater}
	default:
		start := p.pos
		for p.pos < len(p.src) && !strings.ContainsRune(whitespace, rune(p.src[p.pos])) && !strings.ContainsRune(symbols, rune(p.src[p.pos])) {
			p.pos++
		}
		return token{kind: tokWord, text: p.src[start:p.pos]}
	}
}

// parseList implements: list ::= back (';' list)?  (right-associative)
func (p *parser) parseList() (ast.Command, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseBack()
	if err != nil {
		return nil, err
	}

	if p.peek(";") {
		p.gettoken()
		right, err := p.parseList()
		if err != nil {
			return nil, err
		}
		return &ast.List{Left: left, Right: right}, nil
	}

	return left, nil
}

// parseBack implements: back ::= pipe ('&')*  (postfix, each '&' wraps again)
func (p *parser) parseBack() (ast.Command, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	cmd, err := p.parsePipe()
	if err != nil {
		return nil, err
	}

	for p.peek("&") {
		p.gettoken()
		cmd = &ast.Back{Child: cmd}
	}

	return cmd, nil
}

// parsePipe implements: pipe ::= exec ('|' pipe)?  (right-associative)
func (p *parser) parsePipe() (ast.Command, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseExec()
	if err != nil {
		return nil, err
	}

	if p.peek("|") {
		p.gettoken()

		// A pipe with nothing on its right (EOF, or another operator with
		// no intervening word) has no command to run there.
		if p.isEOF() || p.peek("|;&") {
			return nil, &SyntaxError{Msg: "syntax error"}
		}

		right, err := p.parsePipe()
		if err != nil {
			return nil, err
		}
		return &ast.Pipe{Left: left, Right: right}, nil
	}

	return left, nil
}

// isEOF reports whether, after skipping whitespace, no input remains.
func (p *parser) isEOF() bool {
	p.skipWhitespace()
	return p.pos >= len(p.src)
}

// parseExec implements: exec ::= redir* (WORD redir*)*
func (p *parser) parseExec() (ast.Command, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	exec := &ast.Exec{}
	var cmd ast.Command = exec

	cmd, err := p.parseRedirs(cmd)
	if err != nil {
		return nil, err
	}

	for !p.peek("|;&") {
		tok := p.gettoken()
		if tok.kind == tokEOF {
			break
		}
		if tok.kind != tokWord {
			return nil, &SyntaxError{Msg: "syntax error"}
		}

		exec.Argv = append(exec.Argv, tok.text)
		if len(exec.Argv) > ast.MaxArgs {
			return nil, &SyntaxError{Msg: "too many args"}
		}

		cmd, err = p.parseRedirs(cmd)
		if err != nil {
			return nil, err
		}
	}

	return cmd, nil
}

// parseRedirs implements: redir ::= ('<' | '>') WORD, consuming zero or more
// redirections and wrapping cmd in a nested ast.Redir for each.
func (p *parser) parseRedirs(cmd ast.Command) (ast.Command, error) {
	for p.peek("<>") {
		tok := p.gettoken()

		word := p.gettoken()
		if word.kind != tokWord {
			return nil, &SyntaxError{Msg: "missing file for redirection"}
		}

		dir := ast.In
		fd := 0
		if tok.kind == tokGreater {
			dir = ast.Out
			fd = 1
		}

		cmd = &ast.Redir{Child: cmd, Path: word.text, Dir: dir, Fd: fd}
	}

	return cmd, nil
}
