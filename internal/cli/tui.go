package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kintree/kintree/pkg/tree"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PersonListModel - Interactive person browser
// =============================================================================

// PersonListModel is the bubbletea model for browsing the people of a
// snapshot. Selecting a row quits the program with Selected set.
type PersonListModel struct {
	Persons  []tree.Person
	Cursor   int
	Selected *tree.Person
	Height   int
	Offset   int
}

// NewPersonListModel creates a new person list model.
func NewPersonListModel(persons []tree.Person) PersonListModel {
	return PersonListModel{
		Persons: persons,
		Cursor:  0,
		Height:  15,
		Offset:  0,
	}
}

func (m PersonListModel) Init() tea.Cmd {
	return nil
}

func (m PersonListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Persons)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			person := m.Persons[m.Cursor]
			m.Selected = &person
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PersonListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Browse People"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Persons) {
		end = len(m.Persons)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Persons[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		span := lifespanOf(p)
		if span == "" {
			span = "—"
		}

		place := p.BirthPlace
		if place == "" {
			place = "—"
		}

		rows = append(rows, []string{
			cursor,
			strconv.Itoa(p.ID),
			p.Name,
			span,
			place,
			strconv.Itoa(len(p.Children)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "Lived", "Birthplace", "Children").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Persons) {
				return lipgloss.NewStyle()
			}

			base := lipgloss.NewStyle()
			if col == 3 || col == 4 {
				base = base.Foreground(colorDim)
			}
			if actualIdx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Persons))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// lifespanOf formats a person's birth and death dates for display.
func lifespanOf(p tree.Person) string {
	switch {
	case p.BirthDate == "" && p.DeathDate == "":
		return ""
	case p.DeathDate == "":
		return "* " + p.BirthDate
	case p.BirthDate == "":
		return "† " + p.DeathDate
	default:
		return p.BirthDate + " – " + p.DeathDate
	}
}
