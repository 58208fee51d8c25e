package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jamesainslie/burrow/pkg/burrow/logging"
	"github.com/jamesainslie/burrow/pkg/burrow/output"
	"github.com/jamesainslie/burrow/pkg/burrow/scanner"
	"github.com/jamesainslie/burrow/pkg/burrow/session"
	"github.com/jamesainslie/burrow/pkg/burrow/shell"
	"github.com/jamesainslie/burrow/pkg/burrow/types"
)

// maxScrollback is the number of output blocks kept in the viewport.
const maxScrollback = 500

// Options configures the TUI application.
type Options struct {
	// Session is opened on Root when the program starts.
	Session *session.Session

	// Root is the directory to open; empty uses the configured start path.
	Root string

	// Formatter renders listings.
	Formatter output.Formatter
}

// openedMsg reports the initial scan.
type openedMsg struct {
	res *scanner.Result
	err error
}

// responseMsg carries the outcome of one command.
type responseMsg struct {
	resp shell.Response
}

// Model is the Bubble Tea model for the burrow shell.
type Model struct {
	opts    Options
	ctx     context.Context
	sh      *shell.Shell
	input   textinput.Model
	view    viewport.Model
	spinner spinner.Model

	blocks    []string
	busy      bool
	busyLabel string
	path      string
	showLogs  bool
	err       error

	width  int
	height int
}

// NewModel creates the model. The session is opened by Init.
func NewModel(ctx context.Context, opts Options) Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "type help for commands"
	in.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	m := Model{
		opts:      opts,
		ctx:       ctx,
		sh:        shell.New(opts.Session),
		input:     in,
		view:      viewport.New(80, 20),
		spinner:   s,
		busy:      true,
		busyLabel: "scanning " + opts.Root,
		width:     80,
		height:    24,
	}
	m.resize()
	return m
}

// Init starts the initial scan.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.open())
}

func (m Model) open() tea.Cmd {
	sess, ctx, root := m.opts.Session, m.ctx, m.opts.Root
	return func() tea.Msg {
		res, err := sess.Open(ctx, root)
		return openedMsg{res: res, err: err}
	}
}

// execute runs line off the update loop so the spinner keeps turning
// during scans and deletions.
func (m Model) execute(line string) tea.Cmd {
	sh, ctx := m.sh, m.ctx
	return func() tea.Msg {
		return responseMsg{resp: sh.Execute(ctx, line)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case openedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.path = m.opts.Session.Path()
		m.input.Prompt = promptStyle.Render(m.sh.Prompt())
		m.append(mutedTextStyle.Render(output.Menu()))
		m.appendScan(msg.res)
		return m, nil

	case responseMsg:
		m.busy = false
		return m.handleResponse(msg.resp)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+l":
		m.showLogs = !m.showLogs
		m.resize()
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}

	if m.busy {
		return m, nil
	}

	if msg.Type == tea.KeyEnter {
		line := m.input.Value()
		m.input.Reset()
		m.append(m.input.Prompt + line)
		m.busy = true
		m.busyLabel = busyLabel(line, m.sh.Pending())
		return m, m.execute(line)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResponse(resp shell.Response) (tea.Model, tea.Cmd) {
	if resp.Exit {
		return m, tea.Quit
	}

	switch {
	case resp.Err != nil:
		m.append(errorTextStyle.Render("Error: " + resp.Err.Error()))
	case resp.Confirm != "":
		m.append(warningTextStyle.Render(resp.Confirm))
	default:
		m.appendScan(resp.Scan)
		text, err := resp.Render(m.opts.Formatter)
		if err != nil {
			m.append(errorTextStyle.Render("Error: format listing: " + err.Error()))
		} else if text != "" {
			m.append(text)
		}
	}

	m.path = m.opts.Session.Path()
	m.input.Prompt = promptStyle.Render(m.sh.Prompt())
	return m, nil
}

// busyLabel describes what a submitted line is doing.
func busyLabel(line string, confirming bool) string {
	if confirming {
		return "deleting"
	}
	cmd, err := shell.Parse(line)
	if err != nil {
		return ""
	}
	switch cmd.Name {
	case shell.CmdCd, shell.CmdRefresh:
		return "scanning"
	default:
		return ""
	}
}

func (m *Model) appendScan(res *scanner.Result) {
	if res == nil {
		return
	}
	m.append(successTextStyle.Render(fmt.Sprintf("scanned %s: %d objects, %s in %s",
		res.Path, res.Entries, types.FormatSize(res.TotalSize), res.Elapsed.Round(time.Millisecond))))
	if res.Degraded > 0 {
		m.append(warningTextStyle.Render(fmt.Sprintf("%d entries could not be fully read", res.Degraded)))
	}
}

func (m *Model) append(block string) {
	m.blocks = append(m.blocks, block)
	if len(m.blocks) > maxScrollback {
		m.blocks = m.blocks[len(m.blocks)-maxScrollback:]
	}
	m.view.SetContent(m.scrollback())
	m.view.GotoBottom()
}

func (m Model) scrollback() string {
	return strings.Join(m.blocks, "\n")
}

// resize fits the viewport between the header and the footer.
func (m *Model) resize() {
	reserved := 2 + 2 // header + divider, status + input
	if m.showLogs {
		reserved += logPanelRows + 1
	}

	m.view.Width = m.width
	m.view.Height = max(m.height-reserved, 1)
	m.input.Width = max(m.width-lipgloss.Width(m.input.Prompt)-1, 10)
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(renderDivider(m.width))
	b.WriteString("\n")
	b.WriteString(m.view.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.input.View())

	if m.showLogs {
		b.WriteString("\n")
		b.WriteString(renderLogPanel(logging.Buffer(), m.width, logPanelRows))
	}
	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("burrow")
	info := mutedTextStyle.Render(fmt.Sprintf("  %d workers", m.opts.Session.Workers()))
	room := m.width - lipgloss.Width(title) - lipgloss.Width(info) - 1
	path := m.path
	if path == "" {
		path = m.opts.Root
	}
	return title + " " + pathStyle.Render(truncatePath(path, max(room, 4))) + info
}

func (m Model) renderStatus() string {
	if m.busy {
		label := m.busyLabel
		if label == "" {
			label = "working"
		}
		return m.spinner.View() + " " + mutedTextStyle.Render(label+"...")
	}
	return keyStyle.Render("enter") + keyDescStyle.Render(" run  ") +
		keyStyle.Render("pgup/pgdn") + keyDescStyle.Render(" scroll  ") +
		keyStyle.Render("ctrl+l") + keyDescStyle.Render(" logs  ") +
		keyStyle.Render("ctrl+c") + keyDescStyle.Render(" quit")
}

// Run starts the TUI and blocks until the user exits. It returns the
// error that prevented the session from opening, if any.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}
