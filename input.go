// Input source multiplexing: a struct that reads raw bytes one at a
// time and applies a small table of control-byte transforms as it
// goes. InputStack decodes QED's escape and Ctl-B conventions over a
// source that can be the terminal, an attached file, or a stack of
// auxiliary-buffer "tape" frames.
package qed

import (
	"bufio"
	"io"
)

// maxRecursionDepth bounds Ctl-B's recursive buffer playback so that
// a buffer whose own text re-invokes itself fails with
// ErrRecursionLimit instead of exhausting the Go stack. A safety net,
// not a documented feature of the address language.
const maxRecursionDepth = 1024

// ReadOptions controls how InputStack.Next interprets and echoes the
// next byte.
type ReadOptions struct {
	// Convert lowercases-to-uppercase, maps CR to LF, and decodes the
	// two/three-byte cursor-key escape sequences.
	Convert bool
	// Echo prints the resulting byte through the Printer.
	Echo bool
	// Literal disables Ctl-B buffer-invocation interpretation.
	Literal bool
}

type tapeFrame struct {
	name byte
	buf  string
	pos  int
}

// InputStack is QED's stackable input source: it reads from an
// attached file if one is open, else from the topmost auxiliary
// buffer "tape" frame if any are pushed, else from the terminal.
// Ctl-B pushes a new frame and recurses to yield its first byte.
type InputStack struct {
	term  *bufio.Reader
	out   *Printer
	state *State

	file    *bufio.Reader
	frames  []tapeFrame
	pending []byte
}

// NewInputStack returns an InputStack reading raw bytes from term,
// echoing through out, and resolving Ctl-B buffer names against
// state's auxiliary buffers.
func NewInputStack(term io.Reader, out *Printer, state *State) *InputStack {
	return &InputStack{
		term:  bufio.NewReader(term),
		out:   out,
		state: state,
	}
}

// AttachFile makes r the active input source until it reaches EOF,
// taking priority over both the buffer-frame stack and the terminal.
// Used for batch/script invocation.
func (in *InputStack) AttachFile(r io.Reader) {
	in.file = bufio.NewReader(r)
}

// DetachFile stops reading from the attached file, if any.
func (in *InputStack) DetachFile() {
	in.file = nil
}

// Depth reports how many auxiliary-buffer frames are currently
// pushed; tests use it to check that EOF on a frame pops it.
func (in *InputStack) Depth() int { return len(in.frames) }

// Reset clears the attached file and the entire frame stack,
// cancelling all pending macro replay on error.
func (in *InputStack) Reset() {
	in.file = nil
	in.frames = nil
}

// Unget pushes back an already-processed byte so the next call to
// Next returns it directly, without re-reading or re-echoing it. It
// gives the parser a one-byte lookahead for the substitute command's
// flag-versus-separator ambiguity (see parser.go).
func (in *InputStack) Unget(b byte) {
	in.pending = append(in.pending, b)
}

// Next reads and returns one processed byte per opts.
func (in *InputStack) Next(opts ReadOptions) (byte, error) {
	if n := len(in.pending); n > 0 {
		b := in.pending[n-1]
		in.pending = in.pending[:n-1]
		return b, nil
	}

	b, err := in.rawNext()
	if err != nil {
		return 0, err
	}

	if b == 0x02 && !opts.Literal { // Ctl-B
		return in.invokeBuffer(opts)
	}

	if opts.Convert {
		b, err = in.convert(b)
		if err != nil {
			return 0, err
		}
	}

	if opts.Echo {
		_ = in.out.PutByte(b)
	}
	return b, nil
}

// invokeBuffer implements Ctl-B: read the buffer-name byte, push a
// new tape frame for it, and recurse to yield that frame's first
// byte (which may itself be another Ctl-B, or EOF if the buffer is
// empty, in which case the frame is popped immediately).
func (in *InputStack) invokeBuffer(opts ReadOptions) (byte, error) {
	nameByte, err := in.rawNext()
	if err != nil {
		return 0, err
	}
	name := nameByte
	if name >= 'a' && name <= 'z' {
		name -= 'a' - 'A'
	}
	text, ok := in.state.Aux(name)
	if !ok {
		return 0, ErrBadBuffer
	}
	if len(in.frames) >= maxRecursionDepth {
		return 0, ErrRecursionLimit
	}
	in.frames = append(in.frames, tapeFrame{name: name, buf: text})
	return in.Next(opts)
}

// rawNext returns the next unprocessed byte from whichever source is
// currently active, popping exhausted buffer frames and falling back
// to the terminal when the frame stack empties.
func (in *InputStack) rawNext() (byte, error) {
	if in.file != nil {
		b, err := in.file.ReadByte()
		if err == nil {
			return b, nil
		}
		if err != io.EOF {
			return 0, err
		}
		in.file = nil
	}

	for len(in.frames) > 0 {
		f := &in.frames[len(in.frames)-1]
		if f.pos >= len(f.buf) {
			in.frames = in.frames[:len(in.frames)-1]
			continue
		}
		b := f.buf[f.pos]
		f.pos++
		return b, nil
	}

	b, err := in.term.ReadByte()
	if err != nil {
		return 0, ErrEOF
	}
	return b, nil
}

// convert applies next_char's conversion rules: lowercase to
// uppercase, CR to LF, and decoding of the cursor-key escape
// sequences into the single bytes the parser understands.
func (in *InputStack) convert(b byte) (byte, error) {
	switch {
	case b >= 'a' && b <= 'z':
		return b - ('a' - 'A'), nil
	case b == '\r':
		return '\n', nil
	case b == 0x1b: // ESC
		b2, err := in.rawNext()
		if err != nil {
			return 0, err
		}
		if b2 != '[' {
			return 0x01, nil
		}
		b3, err := in.rawNext()
		if err != nil {
			return 0, err
		}
		switch b3 {
		case 'A':
			return '^', nil
		case 'D':
			return '<', nil
		default:
			return 0x01, nil
		}
	default:
		return b, nil
	}
}
