package astdump_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosh-project/gosh/internal/astdump"
	"github.com/gosh-project/gosh/internal/parser"
)

func TestRenderNilIsEmpty(t *testing.T) {
	out, err := astdump.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestRenderExec(t *testing.T) {
	cmd, err := parser.Parse("echo hi")
	require.NoError(t, err)

	out, err := astdump.Render(cmd)
	require.NoError(t, err)
	assert.Contains(t, out, "kind: exec")
	assert.Contains(t, out, "- echo")
	assert.Contains(t, out, "- hi")
}

func TestRenderPipeShape(t *testing.T) {
	cmd, err := parser.Parse("echo hi | cat")
	require.NoError(t, err)

	out, err := astdump.Render(cmd)
	require.NoError(t, err)
	assert.Contains(t, out, "kind: pipe")
	assert.Contains(t, out, "left:")
	assert.Contains(t, out, "right:")
}
