package qed

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEditor(content string) *Editor {
	var buf bytes.Buffer
	return NewEditor(strings.NewReader(content), &buf)
}

func numSpec(cmd byte, n int) *CommandSpec {
	return &CommandSpec{Cmd: cmd, Start: &LineSpec{Atoms: []Atom{{Kind: AtomNum, Sign: 1, N: n}}}, Flag: 'G', Num: -1}
}

func bareSpec(cmd byte) *CommandSpec {
	return &CommandSpec{Cmd: cmd, Start: &LineSpec{}, Flag: 'G', Num: -1}
}

func TestExecutorAppendOnEmptyBuffer(t *testing.T) {
	e := newTestEditor("one\ntwo\n\x04")
	_, err := e.execute(bareSpec('A'))
	require.NoError(t, err)
	require.Equal(t, 2, e.State.Dollar())
	assert.Equal(t, "one\n", string(e.State.Line(1)))
	assert.Equal(t, "two\n", string(e.State.Line(2)))
}

func TestExecutorInsertBeforeLine(t *testing.T) {
	e := newTestEditor("a\n\x04")
	e.State.InsertLines(0, []Line{newLine("b")})
	e.State.SetDot(1)

	spec := &CommandSpec{Cmd: 'I', Start: &LineSpec{Atoms: []Atom{{Kind: AtomDot}}}, Flag: 'G', Num: -1}
	_, err := e.execute(spec)
	require.NoError(t, err)
	require.Equal(t, 2, e.State.Dollar())
	assert.Equal(t, "a\n", string(e.State.Line(1)))
	assert.Equal(t, "b\n", string(e.State.Line(2)))
}

func TestExecutorDelete(t *testing.T) {
	e := newTestEditor("")
	e.State.InsertLines(0, []Line{newLine("x"), newLine("y")})

	_, err := e.execute(numSpec('D', 1))
	require.NoError(t, err)
	require.Equal(t, 1, e.State.Dollar())
	assert.Equal(t, "y\n", string(e.State.Line(1)))
}

func TestExecutorChange(t *testing.T) {
	e := newTestEditor("new\n\x04")
	e.State.InsertLines(0, []Line{newLine("old")})

	_, err := e.execute(numSpec('C', 1))
	require.NoError(t, err)
	require.Equal(t, 1, e.State.Dollar())
	assert.Equal(t, "new\n", string(e.State.Line(1)))
}

// TestExecutorPrintAdvancesDot checks the advance-by-one rule for a
// command line that carried no address at all (a bare CR): the line
// after dot is printed and becomes the new dot.
func TestExecutorPrintAdvancesDot(t *testing.T) {
	e := newTestEditor("")
	e.State.InsertLines(0, []Line{newLine("a"), newLine("b"), newLine("c")})
	e.State.SetDot(1)

	spec := bareSpec('\n')
	_, err := e.execute(spec)
	require.NoError(t, err)
	assert.Equal(t, 2, e.State.Dot()) // dot was 1, bare CR prints line 2
}

func TestExecutorCaretMovesBack(t *testing.T) {
	e := newTestEditor("")
	e.State.InsertLines(0, []Line{newLine("a"), newLine("b")})
	e.State.SetDot(2)

	_, err := e.execute(bareSpec('^'))
	require.NoError(t, err)
	assert.Equal(t, 1, e.State.Dot())
}

func TestExecutorCaretFailsAtLineOne(t *testing.T) {
	e := newTestEditor("")
	e.State.InsertLines(0, []Line{newLine("a")})
	e.State.SetDot(1)

	_, err := e.execute(bareSpec('^'))
	assert.ErrorIs(t, err, ErrRange)
}

func TestExecutorLoadAndGet(t *testing.T) {
	e := newTestEditor("")
	e.State.InsertLines(0, []Line{newLine("x"), newLine("y")})

	spec := &CommandSpec{Cmd: 'L', Start: &LineSpec{Atoms: []Atom{{Kind: AtomNum, Sign: 1, N: 1}}},
		End: &LineSpec{Atoms: []Atom{{Kind: AtomNum, Sign: 1, N: 2}}}, Arg1: "A", HasArg1: true, Flag: 'G', Num: -1}
	_, err := e.execute(spec)
	require.NoError(t, err)
	text, ok := e.State.Aux('A')
	require.True(t, ok)
	assert.Equal(t, "x\ny\r", text)
	assert.Equal(t, 2, e.State.Dollar(), "LOAD does not delete the source range")

	spec.Cmd = 'G'
	_, err = e.execute(spec)
	require.NoError(t, err)
	assert.Equal(t, 0, e.State.Dollar(), "GET deletes the source range after loading it")
}

func TestExecutorJam(t *testing.T) {
	e := newTestEditor("first\nsecond\x04")
	spec := &CommandSpec{Cmd: 'J', Start: &LineSpec{}, Arg1: "B", HasArg1: true, Flag: 'G', Num: -1}
	_, err := e.execute(spec)
	require.NoError(t, err)
	text, ok := e.State.Aux('B')
	require.True(t, ok)
	assert.Equal(t, "first\nsecond", text)
}

func TestExecutorKill(t *testing.T) {
	e := newTestEditor("")
	e.State.SetAux('C', "stuff")
	spec := &CommandSpec{Cmd: 'K', Start: &LineSpec{}, Arg1: "C", HasArg1: true, Flag: 'G', Num: -1}
	_, err := e.execute(spec)
	require.NoError(t, err)
	_, ok := e.State.Aux('C')
	assert.False(t, ok)
}

func TestExecutorBufferDisplay(t *testing.T) {
	e := newTestEditor("")
	e.State.SetAux('D', "payload")
	var buf bytes.Buffer
	e.Out = NewPrinter(&buf)
	spec := &CommandSpec{Cmd: 'B', Start: &LineSpec{}, Arg1: "D", HasArg1: true, Flag: 'G', Num: -1}
	_, err := e.execute(spec)
	require.NoError(t, err)
	assert.Equal(t, "\"payload\"\r\n", buf.String())
}

func TestExecutorWriteThenReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	e := newTestEditor("")
	e.State.InsertLines(0, []Line{newLine("alpha"), newLine("beta")})

	wspec := &CommandSpec{Cmd: 'W', Start: &LineSpec{}, Arg1: path, HasArg1: true, Flag: 'G', Num: -1}
	_, err := e.execute(wspec)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbeta\n", string(raw))

	e2 := newTestEditor("")
	rspec := &CommandSpec{Cmd: 'R', Start: &LineSpec{}, Arg1: path, HasArg1: true, Flag: 'G', Num: -1}
	_, err = e2.execute(rspec)
	require.NoError(t, err)
	require.Equal(t, 2, e2.State.Dollar())
	assert.Equal(t, "alpha\n", string(e2.State.Line(1)))
	assert.Equal(t, "beta\n", string(e2.State.Line(2)))
}

func TestExecutorSubstituteReportsCount(t *testing.T) {
	e := newTestEditor("")
	e.State.InsertLines(0, []Line{newLine("foo foo")})
	var buf bytes.Buffer
	e.Out = NewPrinter(&buf)

	spec := numSpec('S', 1)
	spec.Arg1, spec.Arg2 = "foo", "bar"
	_, err := e.execute(spec)
	require.NoError(t, err)
	assert.Equal(t, "bar bar\n", string(e.State.Line(1)))
	assert.Contains(t, buf.String(), "2")
}

func TestExecutorFinishedSignalsQuit(t *testing.T) {
	e := newTestEditor("")
	quit, err := e.execute(bareSpec('F'))
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestExecutorRangeCheckRejectsOutOfBounds(t *testing.T) {
	e := newTestEditor("")
	e.State.InsertLines(0, []Line{newLine("a")})
	_, err := e.execute(numSpec('D', 5))
	assert.ErrorIs(t, err, ErrRange)
}
