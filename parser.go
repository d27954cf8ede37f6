package qed

// Parser recognizes one CommandSpec from the input stream: a
// character-driven state machine over four latched booleans
// (compoundValid, secondAddr, cmdValid, relValid) building up to two
// LineSpec chains and a command byte.
//
// Individual bytes are read without automatic echo; the parser
// decides what to print at each step itself, since command letters
// are echoed as their long/short word form (e.g. "A" is typed but
// "APPEND" is what appears) rather than as the raw byte, while
// address-expression bytes (digits, signs, '.', '$', ',') are echoed
// as typed.
type Parser struct {
	in    *InputStack
	out   *Printer
	state *State
}

// NewParser returns a Parser reading from in and echoing through out.
func NewParser(in *InputStack, out *Printer, state *State) *Parser {
	return &Parser{in: in, out: out, state: state}
}

type numBuilder struct {
	active bool
	chain  *[]Atom
	idx    int
	// started is false right after a bare sign creates its magnitude-1
	// placeholder atom; the first digit that follows replaces that
	// placeholder instead of multiplying into it.
	started bool
}

// Next reads and returns the next CommandSpec, or an error: ErrParse
// for malformed input, ErrCanceled for a double-rubout, or an
// InputStack error (ErrEOF, ErrBadBuffer, ErrRecursionLimit) that
// propagated up from a byte read.
func (p *Parser) Next() (*CommandSpec, error) {
	spec := &CommandSpec{Flag: 'G', Num: -1}
	start := &LineSpec{}
	end := &LineSpec{}
	spec.Start, spec.End = start, end

	compoundValid := false
	secondAddr := false
	cmdValid := true
	relValid := true
	lastWasDel := false

	activeChain := &start.Atoms
	var nb numBuilder

	for {
		b, err := p.in.Next(ReadOptions{Convert: true})
		if err != nil {
			return nil, err
		}

		if b != 0x7f {
			lastWasDel = false
		}

		switch {
		case b >= '0' && b <= '9':
			_ = p.out.PutByte(b)
			if nb.active && nb.chain == activeChain {
				last := &(*nb.chain)[nb.idx]
				if nb.started {
					last.N = last.N*10 + int(b-'0')
				} else {
					last.N = int(b - '0')
					nb.started = true
				}
			} else {
				*activeChain = append(*activeChain, Atom{Kind: AtomNum, Sign: 1, N: int(b - '0')})
				nb = numBuilder{active: true, chain: activeChain, idx: len(*activeChain) - 1, started: true}
			}
			compoundValid, cmdValid = true, true

		case b == '+' || b == '-':
			if !compoundValid {
				return nil, ErrParse
			}
			_ = p.out.PutByte(b)
			var sign int8 = 1
			if b == '-' {
				sign = -1
			}
			*activeChain = append(*activeChain, Atom{Kind: AtomNum, Sign: sign, N: 1})
			nb = numBuilder{active: true, chain: activeChain, idx: len(*activeChain) - 1}
			compoundValid, cmdValid = false, true

		case b == '.' || b == '$':
			if !relValid {
				return nil, ErrParse
			}
			nb.active = false
			_ = p.out.PutByte(b)
			kind := AtomDot
			if b == '$' {
				kind = AtomDollar
			}
			if (start.HasRelative() && activeChain == &start.Atoms) ||
				(end.HasRelative() && activeChain == &end.Atoms) {
				return nil, ErrParse
			}
			*activeChain = append(*activeChain, Atom{Kind: kind})
			relValid = false
			compoundValid, cmdValid = true, true

		case b == ':' || b == '[':
			nb.active = false
			isCtx := b == '['
			delim := byte(':')
			if isCtx {
				delim = ']'
			}
			_ = p.out.PutByte(b)
			text, err := ReadString(p.in, p.out, StringOptions{Delim: delim, Unlimited: isCtx})
			if err != nil {
				return nil, err
			}
			if text == "" {
				return nil, ErrBadAddress
			}
			kind := AtomTag
			if isCtx {
				kind = AtomCtx
			}
			*activeChain = append(*activeChain, Atom{Kind: kind, Text: text})
			relValid = false
			compoundValid, cmdValid = true, true

		case b == ',':
			if !compoundValid || secondAddr {
				return nil, ErrParse
			}
			nb.active = false
			_ = p.out.PutByte(b)
			secondAddr = true
			activeChain = &end.Atoms
			relValid = true
			compoundValid, cmdValid = false, false

		case b == 0x7f: // DEL / rubout
			if lastWasDel {
				return nil, ErrCanceled
			}
			lastWasDel = true
			_ = p.out.Beep()

		default:
			nb.active = false
			return p.finishCommand(spec, b, cmdValid, secondAddr, start, end)
		}
	}
}

// finishCommand handles the command-letter (or punctuation-command)
// byte once the address-expression portion of the line is done.
func (p *Parser) finishCommand(spec *CommandSpec, b byte, cmdValid, secondAddr bool, start, end *LineSpec) (*CommandSpec, error) {
	if !cmdValid {
		return nil, ErrParse
	}
	desc, ok := commandTable[b]
	if !ok {
		return nil, ErrParse
	}

	numAddrs := 0
	switch {
	case secondAddr:
		numAddrs = 2
	case !start.IsEmpty():
		numAddrs = 1
	}
	if numAddrs > desc.addrs {
		return nil, ErrParse
	}
	if !secondAddr {
		spec.End = nil
	}
	spec.Cmd = b

	_ = p.out.PutRaw(desc.echoFor(p.state.Quick))

	if bufferCommands[b] {
		name, err := p.in.Next(ReadOptions{Convert: true})
		if err != nil {
			return nil, err
		}
		if auxIndex(name) < 0 {
			return nil, ErrParse
		}
		_ = p.out.PutByte(name)
		spec.Arg1, spec.HasArg1 = string(name), true
	}

	switch b {
	case 'A', 'I', 'C':
		// These commands' text-reading loop starts immediately; the
		// Enter a user presses right after the command letter ends
		// the command line rather than opening an empty first line,
		// so it is swallowed here rather than left for readAppendLines.
		// Read unconverted: when there is no Enter to swallow, this
		// byte is the body text's own first character and must keep
		// its original case once ungotten.
		next, err := p.in.Next(ReadOptions{})
		if err != nil {
			return nil, err
		}
		if next == '\n' {
			_ = p.out.PutByte(next)
		} else {
			p.in.Unget(next)
		}
		return spec, nil

	case 'R', 'W':
		delim, err := p.skipToDelimiter()
		if err != nil {
			return nil, err
		}
		name, err := ReadString(p.in, p.out, StringOptions{Delim: delim, Unlimited: true, OneLine: true})
		if err != nil {
			return nil, err
		}
		spec.Arg1, spec.HasArg1 = name, true
		return spec, nil

	case 'S':
		flag, num, sep, err := p.readSubstituteFlags()
		if err != nil {
			return nil, err
		}
		spec.Flag, spec.Num = flag, num

		find, err := ReadString(p.in, p.out, StringOptions{Delim: sep})
		if err != nil {
			return nil, err
		}
		spec.Arg1, spec.HasArg1 = find, true

		_ = p.out.PutRaw(" FOR " + string(sep))

		replace, err := ReadString(p.in, p.out, StringOptions{Delim: '.'})
		if err != nil {
			return nil, err
		}
		spec.Arg2, spec.HasArg2 = replace, true
		return spec, nil
	}

	if !desc.noConfirm {
		confirm, err := p.in.Next(ReadOptions{Convert: true})
		if err != nil {
			return nil, err
		}
		if confirm != '.' {
			return nil, ErrParse
		}
		_ = p.out.PutByte(confirm)
	}
	return spec, nil
}

// skipSpaces consumes and echoes leading spaces/tabs, leaving the
// first non-whitespace byte available via Unget so the caller's next
// read sees it.
// Reads are unconverted: that byte may be ungotten and read back
// verbatim by the caller (as the substitute command's own separator,
// in "S:o:0."), and forcing it through uppercase conversion first
// would corrupt whatever case the user actually typed.
func (p *Parser) skipSpaces() error {
	for {
		b, err := p.in.Next(ReadOptions{})
		if err != nil {
			return err
		}
		if b == ' ' || b == '\t' {
			_ = p.out.PutByte(b)
			continue
		}
		p.in.Unget(b)
		return nil
	}
}

// skipToDelimiter skips leading spaces, tabs, and newlines and
// returns the first other byte read. Every byte read here is echoed,
// but that last one is not kept as content: it becomes the delimiter
// the filename that follows is read up to, the same dynamic-separator convention the substitute
// command's own leading byte uses.
func (p *Parser) skipToDelimiter() (byte, error) {
	for {
		b, err := p.in.Next(ReadOptions{Echo: true})
		if err != nil {
			return 0, err
		}
		if b == ' ' || b == '\t' || b == '\n' {
			continue
		}
		return b, nil
	}
}

// toUpperASCII reports the uppercase form of an ASCII lowercase
// letter, b unchanged otherwise. Used to compare a byte
// case-insensitively without mutating the value itself, since that
// value may still need to be ungotten in its original case.
func toUpperASCII(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// readSubstituteFlags implements the S command's flag reader: skip
// spaces/tabs, then consume zero or more ":<digits>" / ":<G|W|L|V>"
// groups. A colon not followed by a digit or mode letter is not a
// flag group at all — it is the operand separator itself (as in
// "S:o:0."), resolved here with a one-byte lookahead via
// InputStack.Unget. Every byte that might end up ungotten is read
// without case conversion, so the separator (and, through it, the
// first byte of the find string) keeps whatever case the user typed.
func (p *Parser) readSubstituteFlags() (flag byte, num int, sep byte, err error) {
	flag, num = 'G', -1
	if err = p.skipSpaces(); err != nil {
		return
	}
	b, err := p.in.Next(ReadOptions{})
	if err != nil {
		return
	}
	_ = p.out.PutByte(b)

	for b == ':' {
		nxt, e := p.in.Next(ReadOptions{})
		if e != nil {
			err = e
			return
		}
		upper := toUpperASCII(nxt)
		switch {
		case upper >= '0' && upper <= '9':
			_ = p.out.PutByte(nxt)
			n := int(upper - '0')
			for {
				d, e := p.in.Next(ReadOptions{})
				if e != nil {
					err = e
					return
				}
				du := toUpperASCII(d)
				if du < '0' || du > '9' {
					_ = p.out.PutByte(d)
					b = d
					break
				}
				_ = p.out.PutByte(d)
				n = n*10 + int(du-'0')
			}
			num = n
		case upper == 'G' || upper == 'W' || upper == 'L' || upper == 'V':
			_ = p.out.PutByte(upper)
			flag = upper
			next, e := p.in.Next(ReadOptions{})
			if e != nil {
				err = e
				return
			}
			_ = p.out.PutByte(next)
			b = next
		default:
			p.in.Unget(nxt)
			sep = b
			return flag, num, sep, nil
		}
	}
	sep = b
	return flag, num, sep, nil
}
