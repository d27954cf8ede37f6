package qed

import "strings"

// templateEditor holds the (output, oldpos, insert) state machine
// behind EDIT/MODIFY's line-editing input mode. Each control byte
// either advances the read cursor over the old line in lockstep with
// the write cursor over the new one, or breaks that lockstep to copy,
// skip, or retype a span.
type templateEditor struct {
	old     string
	pos     int
	out     []byte
	insert  bool
	printer *Printer
}

func (te *templateEditor) atEnd() bool { return te.pos >= len(te.old) }

// next implements Ctl-C: copy one old byte forward, or beep at end.
func (te *templateEditor) next() {
	if te.atEnd() {
		_ = te.printer.Beep()
		return
	}
	b := te.old[te.pos]
	te.pos++
	te.out = append(te.out, b)
	_ = te.printer.PutByte(b)
}

// copyRest implements Ctl-H/Ctl-D/Ctl-F: copy everything up to but
// excluding the old line's trailing newline, echoing only when
// echoed is true.
func (te *templateEditor) copyRest(echoed bool) {
	end := len(te.old)
	if end > 0 && te.old[end-1] == '\n' {
		end--
	}
	if te.pos >= end {
		return
	}
	span := te.old[te.pos:end]
	te.out = append(te.out, span...)
	te.pos = end
	if echoed {
		_ = te.printer.PutString(span)
	}
}

// copyUntil implements Ctl-O: copy from oldpos+1 up to but excluding
// the next occurrence of f.
func (te *templateEditor) copyUntil(f byte) {
	from := te.pos + 1
	if from > len(te.old) {
		from = len(te.old)
	}
	rest := te.old[from:]
	if idx := strings.IndexByte(rest, f); idx >= 0 {
		span := rest[:idx]
		te.out = append(te.out, span...)
		te.pos = from + idx
		_ = te.printer.PutString(span)
		return
	}
	te.out = append(te.out, rest...)
	te.pos = len(te.old)
	_ = te.printer.PutString(rest)
}

// copyThrough implements Ctl-Z: copy from oldpos up to and including
// the next occurrence of f.
func (te *templateEditor) copyThrough(f byte) {
	if te.pos >= len(te.old) {
		return
	}
	rest := te.old[te.pos:]
	if idx := strings.IndexByte(rest, f); idx >= 0 {
		span := rest[:idx+1]
		te.out = append(te.out, span...)
		te.pos += idx + 1
		_ = te.printer.PutString(span)
		return
	}
	te.out = append(te.out, rest...)
	te.pos = len(te.old)
	_ = te.printer.PutString(rest)
}

// skip implements Ctl-S: advance oldpos without copying.
func (te *templateEditor) skip() {
	if te.atEnd() {
		_ = te.printer.Beep()
		return
	}
	te.pos++
	_ = te.printer.PutRaw("%")
}

// toggleInsert implements Ctl-E.
func (te *templateEditor) toggleInsert() {
	te.insert = !te.insert
	if te.insert {
		_ = te.printer.PutRaw(">")
	} else {
		_ = te.printer.PutRaw("<")
	}
}

// rubRestorative implements Ctl-N: delete one output byte and rewind
// oldpos to match, if possible.
func (te *templateEditor) rubRestorative() {
	if len(te.out) > 0 {
		te.out = te.out[:len(te.out)-1]
	}
	if te.pos > 0 {
		te.pos--
	}
}

// retype implements Ctl-R: redisplay the unconsumed old text followed
// by what has been typed so far, without changing any state.
func (te *templateEditor) retype() {
	_ = te.printer.PutByte('\n')
	_ = te.printer.PutString(te.old[te.pos:])
	_ = te.printer.PutString(string(te.out))
}

// literal implements "any other byte": append it to the output, and
// when not in insert mode, consume one byte of the old line too.
func (te *templateEditor) literal(b byte) {
	te.out = append(te.out, b)
	_ = te.printer.PutByte(b)
	if !te.insert && !te.atEnd() {
		te.pos++
	}
}

// readTemplate drives the EDIT/MODIFY control-byte dispatch loop
// until a terminator (Ctl-D, Ctl-F, or CR) ends it. Like the plain
// get_string path, reads are unconverted: the line being built is
// buffer content, and forcing it through next_char's uppercase
// conversion would corrupt arbitrary user text (see DESIGN.md).
func readTemplate(in *InputStack, out *Printer, oldline string) (string, error) {
	te := &templateEditor{old: oldline, printer: out}
	for {
		b, err := in.Next(ReadOptions{})
		if err != nil {
			return "", err
		}
		switch b {
		case 0x03: // Ctl-C next
			te.next()
		case 0x08: // Ctl-H copy rest
			te.copyRest(true)
		case 0x04: // Ctl-D copy+end
			te.copyRest(true)
			te.out = append(te.out, '\n')
			return string(te.out), nil
		case 0x06: // Ctl-F copy+end silent
			te.copyRest(false)
			te.out = append(te.out, '\n')
			return string(te.out), nil
		case '\r', '\n': // end
			te.out = append(te.out, '\n')
			return string(te.out), nil
		case 0x0f: // Ctl-O copy until
			f, err := in.Next(ReadOptions{Literal: true})
			if err != nil {
				return "", err
			}
			te.copyUntil(f)
		case 0x1a: // Ctl-Z copy through
			f, err := in.Next(ReadOptions{Literal: true})
			if err != nil {
				return "", err
			}
			te.copyThrough(f)
		case 0x13: // Ctl-S skip
			te.skip()
		case 0x05: // Ctl-E toggle insert
			te.toggleInsert()
		case 0x0e: // Ctl-N rub restorative
			te.rubRestorative()
		case 0x12: // Ctl-R retype
			te.retype()
		default:
			te.literal(b)
		}
	}
}
