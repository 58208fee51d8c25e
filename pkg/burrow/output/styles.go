package output

import "github.com/charmbracelet/lipgloss"

// ANSI 256-color palette shared by the table formatter and the TUI.
const (
	ColorPrimary = lipgloss.Color("39")
	ColorSuccess = lipgloss.Color("42")
	ColorWarning = lipgloss.Color("214")
	ColorDanger  = lipgloss.Color("196")
	ColorMuted   = lipgloss.Color("245")
)

var (
	// TitleStyle renders the current path above a table.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// HeaderStyle renders table column headers.
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMuted).
			Padding(0, 1)

	// CellStyle renders table cells.
	CellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// DirStyle highlights directory names.
	DirStyle = CellStyle.
			Foreground(ColorPrimary).
			Bold(true)

	// DegradedStyle marks entries with incomplete metadata.
	DegradedStyle = CellStyle.
			Foreground(ColorWarning)

	// BorderStyle colors the table border.
	BorderStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// FooterStyle renders totals below a table.
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// ErrorStyle renders error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger)

	// SuccessStyle renders confirmations.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// WarningStyle renders prompts that need an answer.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)
)
