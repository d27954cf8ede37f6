package qed

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// resolveAddrs evaluates spec.Start/spec.End against the editor's
// state, applying the defaulting and range-check rules plus two
// per-command default overrides: APPEND defaults to dollar (not dot)
// when no address is given, and WRITE defaults to the whole buffer
// when no address is given at all.
func (e *Editor) resolveAddrs(spec *CommandSpec) (line1, line2 int, err error) {
	st := e.State
	desc := commandTable[spec.Cmd]

	switch {
	case spec.Cmd == 'A' && spec.Start.IsEmpty():
		line1 = st.Dollar()
	case spec.Cmd == 'W' && spec.Start.IsEmpty():
		line1 = 1
	case spec.Start.IsEmpty():
		line1 = st.Dot()
	default:
		line1, err = resolveLine(spec.Start, st)
		if err != nil {
			return 0, 0, err
		}
	}

	switch {
	case spec.Cmd == 'W' && spec.Start.IsEmpty():
		line2 = st.Dollar()
	case spec.End == nil || spec.End.IsEmpty():
		line2 = line1
	default:
		line2, err = resolveLine(spec.End, st)
		if err != nil {
			return 0, 0, err
		}
	}

	if spec.Cmd == '\n' && spec.Start.IsEmpty() {
		line1++
		line2++
	}

	if desc.noAddrCheck {
		return line1, line2, nil
	}

	minAllowed := 1
	if spec.Cmd == 'A' || spec.Cmd == '=' || spec.Cmd == 'R' {
		minAllowed = 0
	}
	if line1 < minAllowed || line1 > line2 || line2 > st.Dollar() {
		return 0, 0, ErrRange
	}
	return line1, line2, nil
}

// execute interprets spec against e's state. It returns quit=true for
// the F command.
func (e *Editor) execute(spec *CommandSpec) (quit bool, err error) {
	line1, line2, err := e.resolveAddrs(spec)
	if err != nil {
		return false, err
	}
	st, in, out := e.State, e.In, e.Out

	switch spec.Cmd {
	case '=':
		_ = out.PutString(fmt.Sprintf("%d", line1))
		_ = out.PutByte('\r')

	case '/', '\n', 'P':
		if spec.Cmd == 'P' {
			_ = out.PutRaw("DOUBLE? ")
			ans, rerr := in.Next(ReadOptions{Convert: true})
			if rerr != nil {
				return false, rerr
			}
			_ = out.PutByte(ans)
			if ans != 'Y' && ans != 'N' {
				return false, ErrParse
			}
			double := ans == 'Y'
			for n := line1; n <= line2; n++ {
				_ = out.PutString(string(st.Line(n)))
				if double {
					_ = out.PutByte('\r')
				}
			}
		} else {
			for n := line1; n <= line2; n++ {
				_ = out.PutString(string(st.Line(n)))
			}
		}
		st.SetDot(line2)

	case '^':
		if st.Dot() <= 1 {
			return false, ErrRange
		}
		st.SetDot(st.Dot() - 1)
		_ = out.PutString(string(st.Line(st.Dot())))

	case 'A':
		lines, rerr := e.readAppendLines()
		if rerr != nil {
			return false, rerr
		}
		st.InsertLines(line1, lines)

	case 'I':
		lines, rerr := e.readAppendLines()
		if rerr != nil {
			return false, rerr
		}
		st.InsertLines(line1-1, lines)

	case 'D':
		st.DeleteLines(line1, line2)

	case 'C':
		st.DeleteLines(line1, line2)
		lines, rerr := e.readAppendLines()
		if rerr != nil {
			return false, rerr
		}
		st.InsertLines(line1-1, lines)

	case 'E', 'M':
		for n := line1; n <= line2; n++ {
			old := string(st.Line(n))
			if spec.Cmd == 'E' {
				_ = out.PutString(old)
			}
			text, rerr := ReadString(in, out, StringOptions{OldLine: &old})
			if rerr != nil {
				return false, rerr
			}
			st.SetLine(n, Line(text))
		}
		st.SetDot(line2)

	case 'L', 'G':
		name := spec.Arg1[0]
		st.SetAux(name, concatLines(st, line1, line2))
		if spec.Cmd == 'G' {
			st.DeleteLines(line1, line2)
		}

	case 'J':
		name := spec.Arg1[0]
		text, rerr := ReadString(in, out, StringOptions{Delim: 0x00, Full: true, Unlimited: true, Literal: true})
		if rerr != nil {
			return false, rerr
		}
		st.AppendAux(name, strings.TrimSuffix(text, "\x04"))

	case 'K':
		st.KillAux(spec.Arg1[0])

	case 'B':
		name := spec.Arg1[0]
		text, _ := st.Aux(name)
		_ = out.PutRaw(`"`)
		_ = out.PutString(text)
		_ = out.PutRaw(`"`)
		_ = out.PutByte('\r')

	case 'R':
		if rerr := e.readFile(spec.Arg1, line1); rerr != nil {
			return false, rerr
		}

	case 'W':
		if rerr := e.writeFile(spec.Arg1, line1, line2); rerr != nil {
			return false, rerr
		}

	case 'S':
		count, rerr := Substitute(in, out, st, spec.Arg1, spec.Arg2, line1, line2, spec.Flag, spec.Num)
		if rerr != nil {
			return false, rerr
		}
		if count == 0 {
			return false, ErrNoMatch
		}
		_ = out.PutString(fmt.Sprintf("%d", count))
		_ = out.PutByte('\r')

	case 'F':
		return true, nil

	case 'T':
		// Tab-stop expansion was never a property of the in-memory
		// model; stubbed.

	case 'V':
		st.Quick = false

	case 'Q':
		st.Quick = true

	case '"':
		// comment; no-op.

	case '<':
		return false, ErrNotImplemented

	default:
		return false, ErrParse
	}

	return false, nil
}

// readAppendLines reads lines for A/I/C: each line terminated by
// Enter, the whole sequence terminated by a line whose first byte is
// Ctl-D.
func (e *Editor) readAppendLines() ([]Line, error) {
	var lines []Line
	for {
		text, err := ReadString(e.In, e.Out, StringOptions{Delim: '\n', Full: true, Unlimited: true})
		if err != nil {
			return nil, err
		}
		if idx := strings.IndexByte(text, 0x04); idx >= 0 {
			if idx > 0 {
				lines = append(lines, newLine(text[:idx]))
			}
			// The Ctl-D is typically followed by the Enter that submitted
			// its line on the terminal; swallow it so it isn't mistaken
			// for a following bare-address print command.
			next, nerr := e.In.Next(ReadOptions{Convert: true})
			if nerr == nil {
				if next == '\n' {
					_ = e.Out.PutByte(next)
				} else {
					e.In.Unget(next)
				}
			}
			return lines, nil
		}
		lines = append(lines, newLine(text))
	}
}

// concatLines implements L/G's "load" text: every line's newline is
// kept except the last, whose newline is replaced with a carriage
// return.
func concatLines(st *State, line1, line2 int) string {
	var b strings.Builder
	for n := line1; n <= line2; n++ {
		text := string(st.Line(n))
		if n == line2 {
			text = strings.TrimSuffix(text, "\n") + "\r"
		}
		b.WriteString(text)
	}
	return b.String()
}

// readFile implements R: append path's lines, split on '\n', after
// "after" (0 meaning before line 1).
func (e *Editor) readFile(path string, after int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()

	var lines []Line
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		lines = append(lines, newLine(scanner.Text()))
	}
	if serr := scanner.Err(); serr != nil {
		return fmt.Errorf("%w: %v", ErrIO, serr)
	}
	e.State.InsertLines(after, lines)
	return nil
}

// writeFile implements W: write line1..=line2 verbatim, truncating
// any existing file at path.
func (e *Editor) writeFile(path string, line1, line2 int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for n := line1; n <= line2; n++ {
		if _, werr := w.Write(e.State.Line(n)); werr != nil {
			return fmt.Errorf("%w: %v", ErrIO, werr)
		}
	}
	if ferr := w.Flush(); ferr != nil {
		return fmt.Errorf("%w: %v", ErrIO, ferr)
	}
	return nil
}
