package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosh-project/gosh/internal/ast"
)

func TestFlattenLeftToRight(t *testing.T) {
	tree := &ast.Pipe{
		Left:  &ast.Exec{Argv: []string{"ls", "-l"}},
		Right: &ast.List{
			Left:  &ast.Exec{Argv: []string{"grep", "foo"}},
			Right: &ast.Back{Child: &ast.Exec{Argv: []string{"wc", "-l"}}},
		},
	}

	require.Equal(t, []string{"ls", "-l", "grep", "foo", "wc", "-l"}, ast.Flatten(tree))
}

func TestFlattenNil(t *testing.T) {
	assert.Empty(t, ast.Flatten(nil))
}

func TestStringNilIsEmpty(t *testing.T) {
	assert.Equal(t, "", ast.String(nil))
}

func TestRedirString(t *testing.T) {
	r := &ast.Redir{
		Child: &ast.Exec{Argv: []string{"cat"}},
		Path:  "out.txt",
		Dir:   ast.Out,
	}
	assert.Equal(t, "cat > out.txt", r.String())
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "<", ast.In.String())
	assert.Equal(t, ">", ast.Out.String())
}
