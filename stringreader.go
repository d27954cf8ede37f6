package qed

// maxFixedString bounds a non-unlimited string read's buffer; bytes
// beyond it are silently dropped rather than growing the buffer, for
// fixed-size targets (tag needles, substitute operands).
const maxFixedString = 256

// StringOptions configures ReadString. OldLine switches into
// EDIT/MODIFY template mode and is handled by readTemplate instead of
// the control-character loop below.
type StringOptions struct {
	Delim     byte
	Full      bool
	Unlimited bool
	Literal   bool
	OneLine   bool
	OldLine   *string
}

// ReadString collects a delimited or multi-line string from in,
// echoing through out. It is the single entry point both the command
// parser (tag/context needles, filenames, substitute operands) and
// the executor (APPEND/INSERT/CHANGE/JAM bodies, EDIT/MODIFY
// replacement lines) use to read user text.
func ReadString(in *InputStack, out *Printer, opts StringOptions) (string, error) {
	if opts.OldLine != nil {
		return readTemplate(in, out, *opts.OldLine)
	}
	return readPlain(in, out, opts)
}

func readPlain(in *InputStack, out *Printer, opts StringOptions) (string, error) {
	var buf []byte
	for {
		b, err := in.Next(ReadOptions{Literal: opts.Literal})
		if err != nil {
			return "", err
		}

		if !opts.Literal {
			switch b {
			case 0x16: // Ctl-V: next byte taken literally.
				lit, err := in.Next(ReadOptions{Literal: true})
				if err != nil {
					return "", err
				}
				buf = appendByte(buf, lit, opts.Unlimited)
				_ = out.PutByte(lit)
				continue
			case 0x01: // Ctl-A: delete one character.
				if len(buf) > 0 {
					buf = buf[:len(buf)-1]
				}
				_ = out.PutRaw(glyphUpArrow)
				if len(buf) == 0 {
					_ = out.PutByte('\r')
				}
				continue
			case 0x17: // Ctl-W: delete one word.
				buf = deleteWord(buf)
				_ = out.PutRaw("\\")
				continue
			case 0x11: // Ctl-Q: discard the line.
				buf = buf[:0]
				_ = out.PutRaw(glyphLeftArrow)
				_ = out.PutByte('\r')
				continue
			}
		}

		switch {
		case b == opts.Delim:
			if isPrintableByte(b) {
				_ = out.PutByte(b)
			}
			return string(buf), nil
		case opts.Full && b == 0x04: // Ctl-D terminator.
			buf = append(buf, b)
			return string(buf), nil
		case opts.OneLine && (b == '\r' || b == '\n'):
			return string(buf), nil
		default:
			buf = appendByte(buf, b, opts.Unlimited)
			_ = out.PutByte(b)
		}
	}
}

func appendByte(buf []byte, b byte, unlimited bool) []byte {
	if !unlimited && len(buf) >= maxFixedString {
		return buf
	}
	return append(buf, b)
}

// deleteWord removes a trailing whitespace run then the non-whitespace
// run before it, Ctl-W's word-erase semantics.
func deleteWord(buf []byte) []byte {
	i := len(buf)
	for i > 0 && isSpace(buf[i-1]) {
		i--
	}
	for i > 0 && !isSpace(buf[i-1]) {
		i--
	}
	return buf[:i]
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

func isPrintableByte(b byte) bool { return b >= 0x20 && b != 0x7f }
