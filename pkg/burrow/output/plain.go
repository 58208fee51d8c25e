package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/jamesainslie/burrow/pkg/burrow/types"
)

// PlainFormatter renders aligned columns without color, for pipes and
// the line-mode shell.
type PlainFormatter struct{}

// Format writes the listing to w.
func (f *PlainFormatter) Format(w *bytes.Buffer, l *types.Listing) error {
	fmt.Fprintf(w, "%s\n", l.Path)

	rows := Rows(l)
	if len(rows) == 0 {
		fmt.Fprintf(w, "%s\n", emptyText(l))
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "NAME\tTYPE\tSIZE\tATTRIBUTE"); err != nil {
		return err
	}
	for _, r := range rows {
		name := r.Name
		if r.Degraded {
			name += " (!)"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, r.Type, r.SizeHuman, r.Attributes); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\n", totalsText(l))
	return nil
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

var _ Formatter = (*PlainFormatter)(nil)
