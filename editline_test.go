package qed

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTemplateCopyNextAndRest(t *testing.T) {
	old := "hello world\n"
	// Ctl-C Ctl-C Ctl-C Ctl-C Ctl-C copies "hello", then Ctl-D copies the rest.
	in := NewInputStack(strings.NewReader("\x03\x03\x03\x03\x03\x04"), NewPrinter(&bytes.Buffer{}), NewState())
	s, err := readTemplate(in, NewPrinter(&bytes.Buffer{}), old)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", s)
}

func TestReadTemplateLiteralReplacesOneByte(t *testing.T) {
	old := "cat\n"
	// 'b' replaces 'c' (non-insert default), Ctl-D copies the rest ("at").
	in := NewInputStack(strings.NewReader("b\x04"), NewPrinter(&bytes.Buffer{}), NewState())
	s, err := readTemplate(in, NewPrinter(&bytes.Buffer{}), old)
	require.NoError(t, err)
	assert.Equal(t, "bat\n", s)
}

func TestReadTemplateInsertMode(t *testing.T) {
	old := "cat\n"
	// Ctl-E turns insert on, 'X' is inserted without consuming old text,
	// Ctl-E turns it back off, Ctl-D copies the rest unchanged.
	in := NewInputStack(strings.NewReader("\x05X\x05\x04"), NewPrinter(&bytes.Buffer{}), NewState())
	s, err := readTemplate(in, NewPrinter(&bytes.Buffer{}), old)
	require.NoError(t, err)
	assert.Equal(t, "Xcat\n", s)
}

func TestReadTemplateSkip(t *testing.T) {
	old := "cat\n"
	// Ctl-S skips 'c' without copying, Ctl-D copies the rest ("at").
	in := NewInputStack(strings.NewReader("\x13\x04"), NewPrinter(&bytes.Buffer{}), NewState())
	s, err := readTemplate(in, NewPrinter(&bytes.Buffer{}), old)
	require.NoError(t, err)
	assert.Equal(t, "at\n", s)
}

func TestReadTemplateCopyUntil(t *testing.T) {
	old := "abc,def\n"
	// Ctl-O ',' copies up to (not including) the next comma from oldpos+1,
	// then CR ends the line without copying what remains.
	in := NewInputStack(strings.NewReader("\x0f,\n"), NewPrinter(&bytes.Buffer{}), NewState())
	s, err := readTemplate(in, NewPrinter(&bytes.Buffer{}), old)
	require.NoError(t, err)
	assert.Equal(t, "bc\n", s)
}

func TestReadTemplateCopyThrough(t *testing.T) {
	old := "abc,def\n"
	// Ctl-Z ',' copies through (including) the next comma.
	in := NewInputStack(strings.NewReader("\x1a,\x04"), NewPrinter(&bytes.Buffer{}), NewState())
	s, err := readTemplate(in, NewPrinter(&bytes.Buffer{}), old)
	require.NoError(t, err)
	assert.Equal(t, "abc,def\n", s)
}

func TestReadTemplateCRTerminates(t *testing.T) {
	old := "cat\n"
	in := NewInputStack(strings.NewReader("\n"), NewPrinter(&bytes.Buffer{}), NewState())
	s, err := readTemplate(in, NewPrinter(&bytes.Buffer{}), old)
	require.NoError(t, err)
	assert.Equal(t, "\n", s)
}

func TestReadTemplateRubRestorative(t *testing.T) {
	old := "cat\n"
	// 'x' replaces 'c', Ctl-N undoes that replacement, Ctl-D copies the rest.
	in := NewInputStack(strings.NewReader("x\x0e\x04"), NewPrinter(&bytes.Buffer{}), NewState())
	s, err := readTemplate(in, NewPrinter(&bytes.Buffer{}), old)
	require.NoError(t, err)
	assert.Equal(t, "cat\n", s)
}
