package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/encodeous/distvec/state"
)

// consoleDisplay renders tables to stdout and supplies the stepped-mode
// continuation prompt from stdin.
type consoleDisplay struct {
	out io.Writer
	in  *bufio.Reader
}

func newConsoleDisplay(out io.Writer, in io.Reader) *consoleDisplay {
	return &consoleDisplay{out: out, in: bufio.NewReader(in)}
}

func (d *consoleDisplay) ShowInitial(id state.NodeId, table []state.Entry) {
	fmt.Fprintf(d.out, "initial table for node %s\n", id)
	d.render(table)
}

func (d *consoleDisplay) TableChanged(id state.NodeId, table []state.Entry) {
	fmt.Fprintf(d.out, "node %s updated its table\n", id)
	d.render(table)
}

func (d *consoleDisplay) render(table []state.Entry) {
	w := tabwriter.NewWriter(d.out, 4, 4, 2, ' ', 0)
	fmt.Fprintln(w, "source\tdestination\tcost")
	for _, e := range table {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Src, e.Dst, e.Cost)
	}
	w.Flush()
}

// Continue asks whether to run another round.
func (d *consoleDisplay) Continue() bool {
	fmt.Fprint(d.out, "Continue to next cycle? (Y/N): ")
	line, err := d.in.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
