package qed

import "errors"

// Sentinel errors returned by the core. Every one of them except
// ErrEOF, when it reaches Editor.Run's command loop, is reported to the
// user as the single "?" indicator (see Editor.Run); the
// distinct values exist so callers and tests can tell failure modes
// apart without string matching.
var (
	// ErrParse is returned by the Parser when a command or address
	// expression is malformed.
	ErrParse = errors.New("qed: parse error")

	// ErrRange is returned when a resolved address falls outside
	// 1..=dollar (0..=dollar for the commands that permit 0).
	ErrRange = errors.New("qed: address out of range")

	// ErrNoMatch is returned by the search engine when neither a tag
	// nor a context search finds a matching line.
	ErrNoMatch = errors.New("qed: no match")

	// ErrBadAddress is returned when a LineSpec chain contains more
	// than one Dot/Dollar atom, or a search atom with an empty needle.
	ErrBadAddress = errors.New("qed: malformed address")

	// ErrBadBuffer is returned for Ctl-B or a buffer-name argument
	// naming a byte outside 0-9A-Z.
	ErrBadBuffer = errors.New("qed: invalid buffer name")

	// ErrEmptyBuffer names an empty-auxiliary-buffer failure. No
	// function in this package returns it: B on an unset buffer
	// displays an empty quoted string instead.
	ErrEmptyBuffer = errors.New("qed: buffer is empty")

	// ErrIO wraps a file-open failure for R or W.
	ErrIO = errors.New("qed: i/o error")

	// ErrCanceled is returned when two consecutive rubout (DEL) bytes
	// cancel the command in progress.
	ErrCanceled = errors.New("qed: command canceled")

	// ErrNotImplemented is returned by the '<' command.
	ErrNotImplemented = errors.New("qed: not yet implemented")

	// ErrEOF is returned when the outermost input source (the
	// terminal) is exhausted; it is fatal and ends Editor.Run.
	ErrEOF = errors.New("qed: end of input")

	// ErrRecursionLimit guards against an auxiliary buffer whose
	// playback invokes itself (directly or through a chain) without
	// bound.
	ErrRecursionLimit = errors.New("qed: buffer recursion too deep")
)
