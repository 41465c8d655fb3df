package lifecycle

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteSummary prints one row per declaration in scheduled order.
func (s *Script) WriteSummary(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNODE\tKIND\tELEMENT\tID\tLINK ID")
	for i, d := range s.Declarations {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", i, d.Node, d.Kind, d.Element, d.ID, d.LinkID)
	}
	return tw.Flush()
}
