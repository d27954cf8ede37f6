package qed

import "strings"

// Substitute implements the S command's text-replacement pass. It
// scans line1..=line2, replacing find with replace left to right
// within each line, honoring mode's interactive/report behavior and
// stopping once num global substitutions have happened (num<0 means
// unlimited). It returns the number of substitutions made.
func Substitute(in *InputStack, out *Printer, s *State, find, replace string, line1, line2 int, mode byte, num int) (int, error) {
	if find == "" {
		return 0, nil
	}

	count := 0
	for lineNo := line1; lineNo <= line2; lineNo++ {
		if num >= 0 && count >= num {
			break
		}
		line := string(s.Line(lineNo))
		var out2 strings.Builder
		pos := 0
		changed := false

		for {
			if num >= 0 && count >= num {
				out2.WriteString(line[pos:])
				break
			}
			rel := strings.Index(line[pos:], find)
			if rel < 0 {
				out2.WriteString(line[pos:])
				break
			}
			idx := pos + rel

			interactive := mode == 'W' || mode == 'V'
			commit := true
			if interactive {
				_ = out.PutString(line[:idx])
				_ = out.PutRaw(`"`)
				_ = out.PutString(find)
				_ = out.PutRaw(`"`)
				_ = out.PutString(line[idx+len(find):])
				_ = out.PutByte('\r')

				var err error
				commit, err = decideOccurrence(in, out, &num, &mode)
				if err != nil {
					return count, err
				}
			}

			if commit {
				out2.WriteString(line[pos:idx])
				out2.WriteString(replace)
				count++
				changed = true
			} else {
				out2.WriteString(line[pos : idx+len(find)])
			}
			pos = idx + len(find)
		}

		newText := out2.String()
		if len(newText) == 0 || newText[len(newText)-1] != '\n' {
			newText += "\n"
		}
		s.SetLine(lineNo, Line(newText))

		if changed && (mode == 'L' || mode == 'V') {
			_ = out.PutString(newText)
		}
	}
	return count, nil
}

// decideOccurrence implements mode W/V's per-occurrence prompt: 'S'
// commits the replacement; a colon-prefixed digit run re-sets *num
// and a colon-prefixed G/W/L/V letter re-sets *mode, either of which
// then waits for a further directive; any other byte skips this
// occurrence.
func decideOccurrence(in *InputStack, out *Printer, num *int, mode *byte) (bool, error) {
	for {
		b, err := in.Next(ReadOptions{Convert: true})
		if err != nil {
			return false, err
		}
		switch {
		case b == 'S':
			_ = out.PutByte(b)
			return true, nil
		case b == ':':
			_ = out.PutByte(b)
			nxt, err := in.Next(ReadOptions{Convert: true})
			if err != nil {
				return false, err
			}
			switch {
			case nxt >= '0' && nxt <= '9':
				_ = out.PutByte(nxt)
				n := int(nxt - '0')
				for {
					d, err := in.Next(ReadOptions{Convert: true})
					if err != nil {
						return false, err
					}
					if d < '0' || d > '9' {
						in.Unget(d)
						break
					}
					_ = out.PutByte(d)
					n = n*10 + int(d-'0')
				}
				*num = n
			case nxt == 'G' || nxt == 'W' || nxt == 'L' || nxt == 'V':
				_ = out.PutByte(nxt)
				*mode = nxt
			default:
				return false, nil
			}
		default:
			return false, nil
		}
	}
}
