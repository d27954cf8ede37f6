package qed

import "strings"

// NumAux is the number of named auxiliary buffer slots: '0'-'9' then
// 'A'-'Z'.
const NumAux = 36

// Line is one line of text, stored with its trailing newline intact.
type Line []byte

// newLine copies s into a Line, appending a newline if s lacks one.
func newLine(s string) Line {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		s += "\n"
	}
	b := make([]byte, len(s))
	copy(b, s)
	return Line(b)
}

// String returns the line's text, including its trailing newline.
func (l Line) String() string { return string(l) }

// auxIndex maps a buffer name byte ('0'-'9', 'A'-'Z') to a slot index,
// or -1 if name is not a valid buffer name.
func auxIndex(name byte) int {
	switch {
	case name >= '0' && name <= '9':
		return int(name - '0')
	case name >= 'A' && name <= 'Z':
		return int(name-'A') + 10
	default:
		return -1
	}
}

// auxName is the inverse of auxIndex.
func auxName(i int) byte {
	if i < 10 {
		return byte('0' + i)
	}
	return byte('A' + i - 10)
}

// AuxBuffer is the content of one named auxiliary buffer. A false
// Present means the slot is unset, as distinct from holding an empty
// string.
type AuxBuffer struct {
	Present bool
	Text    string
}

// State holds everything that makes up the editor's in-memory state:
// the primary line buffer, dot/dollar, the 36 auxiliary buffers, and
// the interactive mode flags. It owns no I/O handles directly; those
// live on Editor.
type State struct {
	lines []Line // 1-indexed conceptually; lines[0] is line 1.
	dot   int    // 0 when empty, else 1..=dollar.
	aux   [NumAux]AuxBuffer

	// Quick toggles abbreviated command echo (Q/V commands).
	Quick bool
}

// NewState returns an empty editor state: dot=0, dollar=0, all
// auxiliary buffers unset, verbose (non-quick) echo.
func NewState() *State {
	return &State{}
}

// Dollar returns the current last-line number.
func (s *State) Dollar() int { return len(s.lines) }

// Dot returns the current line pointer.
func (s *State) Dot() int { return s.dot }

// SetDot sets dot directly; callers must keep the 0<=dot<=dollar
// invariant (InsertLines/DeleteLines already do).
func (s *State) SetDot(n int) { s.dot = n }

// Line returns the 1-indexed line n's text. n must be in 1..=dollar.
func (s *State) Line(n int) Line { return s.lines[n-1] }

// SetLine replaces line n's text in place (1-indexed).
func (s *State) SetLine(n int, l Line) { s.lines[n-1] = l }

// InsertLines inserts newLines after line "after" (0 means before
// line 1), advances dollar accordingly, and leaves dot on the last
// inserted line.
func (s *State) InsertLines(after int, newLines []Line) {
	if len(newLines) == 0 {
		return
	}
	tail := make([]Line, len(s.lines)-after)
	copy(tail, s.lines[after:])
	s.lines = append(s.lines[:after], append(append([]Line{}, newLines...), tail...)...)
	s.dot = after + len(newLines)
}

// DeleteLines removes lines first..=last (1-indexed, inclusive) and
// sets dot to first-1.
func (s *State) DeleteLines(first, last int) {
	s.lines = append(s.lines[:first-1], s.lines[last:]...)
	s.dot = first - 1
}

// Aux returns the named auxiliary buffer's content and whether it is
// set. name must be a valid buffer-name byte.
func (s *State) Aux(name byte) (string, bool) {
	i := auxIndex(name)
	if i < 0 {
		return "", false
	}
	a := s.aux[i]
	return a.Text, a.Present
}

// SetAux overwrites the named auxiliary buffer, freeing whatever it
// previously held.
func (s *State) SetAux(name byte, text string) {
	i := auxIndex(name)
	if i < 0 {
		return
	}
	s.aux[i] = AuxBuffer{Present: true, Text: text}
}

// AppendAux appends text onto the named auxiliary buffer's existing
// content (used by J; L and G overwrite via SetAux).
func (s *State) AppendAux(name byte, text string) {
	i := auxIndex(name)
	if i < 0 {
		return
	}
	var b strings.Builder
	if s.aux[i].Present {
		b.WriteString(s.aux[i].Text)
	}
	b.WriteString(text)
	s.aux[i] = AuxBuffer{Present: true, Text: b.String()}
}

// KillAux clears the named auxiliary buffer back to unset.
func (s *State) KillAux(name byte) {
	i := auxIndex(name)
	if i < 0 {
		return
	}
	s.aux[i] = AuxBuffer{}
}

// checkInvariants is used by tests to assert the editor-state
// invariants hold.
func (s *State) checkInvariants() bool {
	if s.dot < 0 || s.dot > len(s.lines) {
		return false
	}
	if (s.dot == 0) != (len(s.lines) == 0) {
		return false
	}
	for _, l := range s.lines {
		if len(l) == 0 || l[len(l)-1] != '\n' {
			return false
		}
	}
	return true
}
