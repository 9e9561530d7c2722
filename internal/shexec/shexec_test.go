package shexec_test

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosh-project/gosh/internal/ast"
	"github.com/gosh-project/gosh/internal/shexec"
)

func TestRunExecSuccess(t *testing.T) {
	ex := shexec.New(nil)
	code, err := ex.Run(&ast.Exec{Argv: []string{"true"}})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestRunExecFailure(t *testing.T) {
	ex := shexec.New(nil)
	_, err := ex.Run(&ast.Exec{Argv: []string{"false"}})
	require.Error(t, err)

	var execErr *shexec.ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, 1, execErr.ExitCode)
}

func TestRunExecNotFound(t *testing.T) {
	ex := shexec.New(nil)
	_, err := ex.Run(&ast.Exec{Argv: []string{"definitely-not-a-real-command-xyz"}})
	require.Error(t, err)
}

func TestRunEmptyArgvIsNoop(t *testing.T) {
	ex := shexec.New(nil)
	code, err := ex.Run(&ast.Exec{})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestRunRedirOut(t *testing.T) {
	// The creation mode passed to open is filtered through the process
	// umask; clear it so the file's bits are exactly the 0664 asked for.
	oldMask := syscall.Umask(0)
	defer syscall.Umask(oldMask)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	ex := shexec.New(nil)
	_, err := ex.Run(&ast.Redir{
		Child: &ast.Exec{Argv: []string{"echo", "hello"}},
		Path:  path,
		Dir:   ast.Out,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o664), info.Mode().Perm())
}

func TestRunRedirIn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("line one\n"), 0o664))

	outPath := filepath.Join(dir, "out.txt")

	ex := shexec.New(nil)
	_, err := ex.Run(&ast.Redir{
		Child: &ast.Redir{
			Child: &ast.Exec{Argv: []string{"cat"}},
			Path:  outPath,
			Dir:   ast.Out,
		},
		Path: path,
		Dir:  ast.In,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "line one\n", string(data))
}

func TestRunPipe(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.txt")

	ex := shexec.New(nil)
	_, err := ex.Run(&ast.Redir{
		Child: &ast.Pipe{
			Left:  &ast.Exec{Argv: []string{"echo", "hello world"}},
			Right: &ast.Exec{Argv: []string{"wc", "-w"}},
		},
		Path: outPath,
		Dir:  ast.Out,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2")
}

func TestRunListOrdersLeftBeforeRight(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.txt")

	ex := shexec.New(nil)
	_, err := ex.Run(&ast.List{
		Left: &ast.Redir{
			Child: &ast.Exec{Argv: []string{"echo", "first"}},
			Path:  path,
			Dir:   ast.Out,
		},
		Right: &ast.Redir{
			Child: &ast.Exec{Argv: []string{"echo", "second"}},
			Path:  path,
			Dir:   ast.Out,
		},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data), "right overwrites left's file only if left already finished")
}

func TestRunBackDoesNotBlock(t *testing.T) {
	ex := shexec.New(nil)

	start := time.Now()
	code, err := ex.Run(&ast.Back{Child: &ast.Exec{Argv: []string{"sleep", "2"}}})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Less(t, elapsed, 1*time.Second, "a backgrounded command must not block the caller")
}
