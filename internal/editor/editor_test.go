package editor_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosh-project/gosh/internal/editor"
)

func TestPromptHomeSubstitution(t *testing.T) {
	assert.Equal(t, "238P:~$ ", editor.Prompt("/home/alice", "/home/alice"))
	assert.Equal(t, "238P:~/src$ ", editor.Prompt("/home/alice/src", "/home/alice"))
	assert.Equal(t, "238P:/home/alicebob$ ", editor.Prompt("/home/alicebob", "/home/alice"),
		"must not shorten on a prefix that isn't a full path component")
}

func TestPromptNoHome(t *testing.T) {
	assert.Equal(t, "238P:/tmp$ ", editor.Prompt("/tmp", ""))
}

func TestReadLineNonTTY(t *testing.T) {
	r := strings.NewReader("echo hi\nls\n")
	var out bytes.Buffer
	ed := editor.New(r, &out, false)

	line, err := ed.ReadLine("ignored prompt")
	require.NoError(t, err)
	assert.Equal(t, "echo hi", line)
	assert.Empty(t, out.String(), "non-tty mode renders no prompt or echo")

	line, err = ed.ReadLine("ignored prompt")
	require.NoError(t, err)
	assert.Equal(t, "ls", line)
}

func TestReadLineNonTTYEOF(t *testing.T) {
	r := strings.NewReader("")
	ed := editor.New(r, io.Discard, false)

	_, err := ed.ReadLine("")
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadLineTTYBasic(t *testing.T) {
	r := strings.NewReader("hi\n")
	var out bytes.Buffer
	ed := editor.New(r, &out, true)

	line, err := ed.ReadLine("$ ")
	require.NoError(t, err)
	assert.Equal(t, "hi", line)
	assert.Equal(t, "$ hi\n", out.String())
}

func TestReadLineTTYBackspace(t *testing.T) {
	r := strings.NewReader("hx" + "\x7f" + "i\n")
	var out bytes.Buffer
	ed := editor.New(r, &out, true)

	line, err := ed.ReadLine("$ ")
	require.NoError(t, err)
	assert.Equal(t, "hi", line)
	assert.Equal(t, "$ hx\b \bi\n", out.String())
}

func TestReadLineTTYBackspaceAtColumnZeroIsNoop(t *testing.T) {
	r := strings.NewReader("\x7f" + "hi\n")
	var out bytes.Buffer
	ed := editor.New(r, &out, true)

	line, err := ed.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, "hi", line)
}

func TestReadLineTTYHistoryRecallPrevious(t *testing.T) {
	r := strings.NewReader("first\n" + "\x1b[A" + "\n")
	var out bytes.Buffer
	ed := editor.New(r, &out, true)

	line, err := ed.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = ed.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, "first", line, "ESC [ A recalls the previous history entry")
}

func TestReadLineTTYHistoryNextPastTailIsEmpty(t *testing.T) {
	r := strings.NewReader("first\n" + "\x1b[A" + "\x1b[B" + "\n")
	var out bytes.Buffer
	ed := editor.New(r, &out, true)

	_, err := ed.ReadLine("")
	require.NoError(t, err)

	line, err := ed.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, "", line, "next past the tail becomes unset and yields an empty line")
}

func TestReadLineTTYOverflowIsTruncated(t *testing.T) {
	overflowing := strings.Repeat("a", 160)
	r := strings.NewReader(overflowing + "\n")
	ed := editor.New(r, io.Discard, true)

	line, err := ed.ReadLine("")
	require.NoError(t, err)
	assert.Len(t, line, 149, "characters past CMD_LEN-1 are discarded, not buffered")
	assert.Equal(t, strings.Repeat("a", 149), line)
}

func TestHistorySkipsEmptyLines(t *testing.T) {
	r := strings.NewReader("\n" + "real\n")
	ed := editor.New(r, io.Discard, true)

	_, err := ed.ReadLine("")
	require.NoError(t, err)
	_, err = ed.ReadLine("")
	require.NoError(t, err)

	assert.Equal(t, []string{"real"}, ed.History())
}
