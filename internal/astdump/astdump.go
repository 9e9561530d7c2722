// Package astdump renders a parsed ast.Command tree to YAML, backing the
// --print-ast CLI flag and giving parser tests a tree-shape assertion that
// doesn't depend on a bespoke string format. It is grounded on
// lxc/util/yaml.go's yamlPrinter, the teacher's own wrapper around
// gopkg.in/yaml.v2.
package astdump

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/gosh-project/gosh/internal/ast"
)

// node is the YAML-friendly mirror of ast.Command: yaml.v2 can't marshal an
// interface-typed field directly, so Render walks the tree once into this
// tagged-variant shape before handing it to yaml.Marshal.
type node struct {
	Kind  string   `yaml:"kind"`
	Argv  []string `yaml:"argv,omitempty"`
	Child *node    `yaml:"child,omitempty"`
	Left  *node    `yaml:"left,omitempty"`
	Right *node    `yaml:"right,omitempty"`
	Path  string   `yaml:"path,omitempty"`
	Dir   string   `yaml:"dir,omitempty"`
}

func convert(cmd ast.Command) *node {
	switch c := cmd.(type) {
	case nil:
		return nil
	case *ast.Exec:
		return &node{Kind: "exec", Argv: c.Argv}
	case *ast.Redir:
		return &node{Kind: "redir", Child: convert(c.Child), Path: c.Path, Dir: c.Dir.String()}
	case *ast.Pipe:
		return &node{Kind: "pipe", Left: convert(c.Left), Right: convert(c.Right)}
	case *ast.List:
		return &node{Kind: "list", Left: convert(c.Left), Right: convert(c.Right)}
	case *ast.Back:
		return &node{Kind: "back", Child: convert(c.Child)}
	default:
		return &node{Kind: fmt.Sprintf("unknown(%T)", cmd)}
	}
}

// Render marshals cmd to YAML. A nil cmd renders as an empty string rather
// than YAML's "null" (an empty line parses to an Exec with no words, not to
// nil, and renders as "kind: exec"), matching
// yamlPrinter's own null-suppression.
func Render(cmd ast.Command) (string, error) {
	out, err := yaml.Marshal(convert(cmd))
	if err != nil {
		return "", err
	}

	if strings.TrimRight(string(out), "\n") == "null" {
		return "", nil
	}
	return string(out), nil
}
