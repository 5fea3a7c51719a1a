package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/xlsx-bridge/bridge"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#217346")).
			Padding(0, 1)

	sheetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#217346"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxViewRows bounds the rows rendered for one sheet.
const maxViewRows = 30

func viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <file>",
		Short: "Browse a workbook interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("view needs a terminal")
			}
			ctx := cmd.Context()
			return withSession(ctx, func(s *session) error {
				doc, done, err := s.open(ctx, args[0])
				if err != nil {
					return err
				}
				defer done()

				p := tea.NewProgram(newViewModel(ctx, s, doc, args[0]), tea.WithAltScreen())
				_, err = p.Run()
				return err
			})
		},
	}
}

type viewState int

const (
	stateSheets viewState = iota
	stateRows
	stateLookup
)

type viewModel struct {
	ctx      context.Context
	err      error
	session  *session
	doc      *bridge.Document
	filename string
	result   string
	sheets   []string
	rows     [][]string
	input    textinput.Model
	selected int
	state    viewState
}

type sheetsMsg struct {
	err    error
	sheets []string
}

type rowsMsg struct {
	err  error
	rows [][]string
}

type lookupMsg struct {
	err    error
	result string
}

func newViewModel(ctx context.Context, s *session, doc *bridge.Document, filename string) *viewModel {
	ti := textinput.New()
	ti.Placeholder = "B7"
	ti.Prompt = "cell: "
	ti.Width = 20
	return &viewModel{
		ctx:      ctx,
		session:  s,
		doc:      doc,
		filename: filename,
		input:    ti,
		state:    stateSheets,
	}
}

func (m *viewModel) Init() tea.Cmd {
	return m.loadSheets
}

func (m *viewModel) loadSheets() tea.Msg {
	sheets, err := m.doc.GetSheetList(m.ctx)
	return sheetsMsg{sheets: sheets, err: err}
}

func (m *viewModel) loadRows() tea.Msg {
	rows, err := m.doc.GetRows(m.ctx, m.sheets[m.selected], m.session.opts)
	return rowsMsg{rows: rows, err: err}
}

func (m *viewModel) lookup() tea.Msg {
	cell := strings.TrimSpace(m.input.Value())
	sheet := m.sheets[m.selected]
	v, err := m.doc.GetCellValue(m.ctx, sheet, cell, m.session.opts)
	if err != nil {
		return lookupMsg{err: err}
	}
	col, row, err := m.session.b.CellNameToCoordinates(m.ctx, cell)
	if err != nil {
		return lookupMsg{err: err}
	}
	return lookupMsg{result: fmt.Sprintf("%s!%s (col %d, row %d) = %q", sheet, cell, col, row, v)}
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateLookup {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSheets && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSheets && m.selected < len(m.sheets)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSheets:
				if len(m.sheets) == 0 {
					return m, nil
				}
				m.state = stateRows
				return m, m.loadRows
			case stateLookup:
				return m, m.lookup
			}

		case "/":
			if m.state == stateRows {
				m.state = stateLookup
				m.result = ""
				m.err = nil
				m.input.SetValue("")
				m.input.Focus()
				return m, textinput.Blink
			}

		case "esc":
			switch m.state {
			case stateRows:
				m.state = stateSheets
				m.rows = nil
				m.err = nil
			case stateLookup:
				m.state = stateRows
				m.input.Blur()
			}
			return m, nil
		}

	case sheetsMsg:
		m.sheets = msg.sheets
		m.err = msg.err

	case rowsMsg:
		m.rows = msg.rows
		m.err = msg.err

	case lookupMsg:
		m.result = msg.result
		m.err = msg.err
	}

	if m.state == stateLookup {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *viewModel) View() string {
	if m.err != nil && m.state == stateSheets {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.sheets == nil {
		return "Loading workbook..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("xlbridge"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSheets:
		b.WriteString("Select a sheet:\n\n")
		for i, name := range m.sheets {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + name))
			} else {
				b.WriteString("  " + sheetStyle.Render(name))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • q quit"))

	case stateRows, stateLookup:
		b.WriteString(headerStyle.Render(m.sheets[m.selected]))
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		b.WriteString(renderRows(m.rows))
		b.WriteString("\n")
		if m.state == stateLookup {
			b.WriteString(m.input.View())
			b.WriteString("\n")
			if m.result != "" {
				b.WriteString(resultStyle.Render(m.result))
				b.WriteString("\n")
			}
			b.WriteString("\n")
			b.WriteString(helpStyle.Render("enter look up • esc back"))
		} else {
			b.WriteString(helpStyle.Render("/ look up cell • esc sheets • q quit"))
		}
	}
	return b.String()
}

// renderRows lays rows out in columns padded to their widest cell.
func renderRows(rows [][]string) string {
	if len(rows) == 0 {
		return helpStyle.Render("(empty sheet)") + "\n"
	}
	shown := rows
	if len(shown) > maxViewRows {
		shown = shown[:maxViewRows]
	}

	var widths []int
	for _, row := range shown {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for _, row := range shown {
		for i, cell := range row {
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
		}
		b.WriteString("\n")
	}
	if len(rows) > maxViewRows {
		b.WriteString(helpStyle.Render(fmt.Sprintf("... %d more rows", len(rows)-maxViewRows)))
		b.WriteString("\n")
	}
	return b.String()
}
