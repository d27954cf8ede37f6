package qed

// CommandSpec is the parsed representation of one command line: an
// optional address range, the command byte, up to two string
// arguments, and the substitute flag/count.
type CommandSpec struct {
	Start *LineSpec
	End   *LineSpec
	Cmd   byte

	Arg1, Arg2         string
	HasArg1, HasArg2   bool
	Flag               byte // default 'G'
	Num                int  // default -1
}

// commandDesc is one row of the command-descriptor table: everything
// needed to recognize, echo, and validate one command byte, collected
// into a single struct instead of several parallel arrays.
type commandDesc struct {
	long       string // echoed in verbose mode
	short      string // echoed in quick mode
	addrs      int    // max number of addresses accepted (0, 1, or 2)
	noConfirm  bool   // true: takes effect without a trailing '.'
	noAddrCheck bool  // true: skips the 1<=line1<=line2<=dollar check
}

// commandTable is indexed by command byte.
var commandTable = map[byte]commandDesc{
	'"': {long: `"`, short: `"`, addrs: 0, noConfirm: true, noAddrCheck: true},
	'/': {long: "/", short: "/", addrs: 2, noConfirm: true},
	'=': {long: "=", short: "=", addrs: 1, noConfirm: true},
	'^': {long: glyphUpArrow, short: "", addrs: 0, noConfirm: true},
	'<': {long: glyphLeftArrow, short: "", addrs: 1, noConfirm: true},
	'\n': {long: "\r\n", short: "\r\n", addrs: 2, noConfirm: true},
	// A/I/C's own text-reading loop starts right at the Enter after the
	// command letter, with no confirming '.' in between, unlike E/M's
	// per-line template mode, which still wants one.
	'A': {long: "APPEND", short: "A", addrs: 1, noConfirm: true},
	'B': {long: "BUFFER #", short: "B", addrs: 0, noAddrCheck: true},
	'C': {long: "CHANGE", short: "C", addrs: 2, noConfirm: true},
	'D': {long: "DELETE", short: "D", addrs: 2},
	'E': {long: "EDIT", short: "E", addrs: 2},
	'F': {long: "FINISHED", short: "F", addrs: 0, noAddrCheck: true},
	'G': {long: "GET #", short: "G", addrs: 2},
	'I': {long: "INSERT", short: "I", addrs: 1, noConfirm: true},
	'J': {long: "JAM INTO #", short: "J", addrs: 0, noAddrCheck: true},
	'K': {long: "KILL #", short: "K", addrs: 0, noAddrCheck: true},
	'L': {long: "LOAD #", short: "L", addrs: 2},
	'M': {long: "MODIFY", short: "M", addrs: 2},
	'P': {long: "PRINT", short: "P", addrs: 2},
	'Q': {long: "QUICK", short: "Q", addrs: 0, noAddrCheck: true},
	'R': {long: "READ FROM ", short: "R", addrs: 1},
	'S': {long: "SUBSTITUTE ", short: "S", addrs: 2},
	'T': {long: "TABS", short: "T", addrs: 0, noAddrCheck: true},
	'V': {long: "VERBOSE", short: "V", addrs: 0, noAddrCheck: true},
	'W': {long: "WRITE ON ", short: "W", addrs: 2},
}

// bufferCommands is the set of command letters that take a single
// auxiliary-buffer-name argument (read as one alnum byte).
var bufferCommands = map[byte]bool{'B': true, 'G': true, 'J': true, 'K': true, 'L': true}

// echoFor returns the command's echo string for the current Quick
// setting.
func (d commandDesc) echoFor(quick bool) string {
	if quick {
		return d.short
	}
	return d.long
}
