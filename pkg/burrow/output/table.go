package output

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jamesainslie/burrow/pkg/burrow/types"
)

// TableFormatter renders a boxed table with Name, Type, Size and
// Attribute columns followed by a totals line.
type TableFormatter struct{}

// Format writes the table to w.
func (f *TableFormatter) Format(w *bytes.Buffer, l *types.Listing) error {
	w.WriteString(TitleStyle.Render(l.Path))
	w.WriteString("\n")

	rows := Rows(l)
	if len(rows) == 0 {
		w.WriteString(FooterStyle.Render(emptyText(l)))
		w.WriteString("\n")
		return nil
	}

	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{r.Name, r.Type, r.SizeHuman, r.Attributes})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(BorderStyle).
		Headers("Name", "Type", "Size", "Attribute").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return HeaderStyle
			case rows[row].Degraded:
				return DegradedStyle
			case col == 0 && rows[row].Type == TypeDirectory:
				return DirStyle
			case col == 2:
				return CellStyle.Align(lipgloss.Right)
			default:
				return CellStyle
			}
		})

	w.WriteString(t.Render())
	w.WriteString("\n")
	w.WriteString(FooterStyle.Render(totalsText(l)))
	w.WriteString("\n")
	return nil
}

func emptyText(l *types.Listing) string {
	if !l.Scanned {
		return "(not scanned)"
	}
	return "(empty directory)"
}

func totalsText(l *types.Listing) string {
	s := fmt.Sprintf("%d objects, %s", l.TotalObjects, types.FormatSize(l.TotalSize))
	if n := l.Degraded(); n > 0 {
		s += fmt.Sprintf(" (%d unreadable)", n)
	}
	return s
}

func init() {
	Register("table", func() Formatter {
		return &TableFormatter{}
	})
}

var _ Formatter = (*TableFormatter)(nil)
