// Command qed is a line-oriented text editor, a Go rendering of the
// classic QED core: a command parser, an auxiliary-buffer macro
// facility, and line-editing input mode, driven over a terminal put
// into raw mode so the editor can see every control byte itself.
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/qed-go/qed"
)

var (
	file  = flag.String("file", "", "read this file into the buffer before starting")
	quick = flag.Bool("quick", false, "start in quick (abbreviated echo) mode")
)

func main() {
	flag.Parse()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		log.Fatalf("qed: failed to set raw mode: %v", err)
	}
	defer term.Restore(fd, oldState)

	ed := qed.NewEditor(os.Stdin, os.Stdout)
	ed.State.Quick = *quick

	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			term.Restore(fd, oldState)
			log.Fatalf("qed: %v", err)
		}
		var lines []qed.Line
		for _, l := range strings.SplitAfter(string(data), "\n") {
			if l == "" {
				continue
			}
			if !strings.HasSuffix(l, "\n") {
				l += "\n"
			}
			lines = append(lines, qed.Line(l))
		}
		ed.State.InsertLines(0, lines)
	}

	if err := ed.Run(); err != nil {
		term.Restore(fd, oldState)
		log.Fatalf("qed: %v", err)
	}
}
