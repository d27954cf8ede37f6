package qed

import "io"

// Editor composes the editing core: state, the input multiplexer, the
// echo printer, and the command parser. It owns the single
// per-iteration loop that ties them together.
type Editor struct {
	State  *State
	In     *InputStack
	Out    *Printer
	Parser *Parser
}

// NewEditor returns an Editor reading commands from r and echoing
// output to w, with a fresh empty State.
func NewEditor(r io.Reader, w io.Writer) *Editor {
	st := NewState()
	out := NewPrinter(w)
	in := NewInputStack(r, out, st)
	return &Editor{
		State:  st,
		In:     in,
		Out:    out,
		Parser: NewParser(in, out, st),
	}
}

// Run drives the editor's main loop: parse one command, resolve its
// addresses, execute it, and on any error print "?" and cancel
// whatever input state the error left behind. Run returns nil when
// the F command ends the session or when the terminal is exhausted
// while a command line is being read, and ErrEOF when the terminal is
// exhausted while a command is executing (for example inside an
// APPEND body).
func (e *Editor) Run() error {
	for {
		spec, err := e.Parser.Next()
		if err != nil {
			if err == ErrEOF {
				return nil
			}
			_ = e.Out.PutByte('?')
			_ = e.Out.PutByte('\r')
			e.In.Reset()
			continue
		}

		quit, err := e.execute(spec)
		if err != nil {
			if err == ErrEOF {
				return err
			}
			_ = e.Out.PutByte('?')
			_ = e.Out.PutByte('\r')
			e.In.Reset()
			continue
		}
		if quit {
			return nil
		}
	}
}
