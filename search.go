package qed

import "strings"

// find scans for needle starting at startLine (1-indexed), wrapping
// around the whole buffer once. For a tag search, a candidate line
// only matches if needle occurs at the very start of the line and is
// immediately followed by a byte that is not alphanumeric (so a
// search for "foo" matches "foo(x)" but not "foot"). It returns the
// matching line number, or 0 if nothing matched.
func find(s *State, needle string, startLine int, isTag bool) int {
	dollar := s.Dollar()
	if dollar == 0 || needle == "" {
		return 0
	}
	if startLine < 1 {
		startLine = 1
	}
	if startLine > dollar {
		startLine = 1
	}

	for n := startLine; n <= dollar; n++ {
		if lineMatches(s.Line(n), needle, isTag) {
			return n
		}
	}
	for n := 1; n < startLine; n++ {
		if lineMatches(s.Line(n), needle, isTag) {
			return n
		}
	}
	return 0
}

func lineMatches(line Line, needle string, isTag bool) bool {
	text := string(line)
	if !isTag {
		return strings.Contains(text, needle)
	}
	if !strings.HasPrefix(text, needle) {
		return false
	}
	if len(text) == len(needle) {
		return false
	}
	next := text[len(needle)]
	return !isAlnum(next)
}

func isAlnum(b byte) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= 'a' && b <= 'z':
		return true
	default:
		return false
	}
}
