package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/montrey/tabdash/search"
)

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	urlStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	usageStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	badgeStyles = map[search.Kind]lipgloss.Style{
		search.KindTab:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		search.KindBookmark: lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
		search.KindURL:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		search.KindGoogle:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	}

	badgeText = map[search.Kind]string{
		search.KindTab:      "[tab]",
		search.KindBookmark: "[bkm]",
		search.KindURL:      "[url]",
		search.KindGoogle:   "[ggl]",
	}
)

// ListModel renders the result list with a selection cursor and handles
// up/down navigation. It owns its scroll offset so a long list follows
// the cursor.
type ListModel struct {
	Results  []search.Result
	Selected int
	Width    int
	Height   int

	ScrollOffset int
}

func NewListModel(width, height int) ListModel {
	return ListModel{Width: width, Height: height}
}

// SetResults swaps in a fresh result list and places the cursor, clamping
// it into range.
func (m *ListModel) SetResults(results []search.Result, selected int) {
	m.Results = results
	if selected < 0 {
		selected = 0
	}
	if selected > len(results)-1 {
		selected = len(results) - 1
	}
	if selected < 0 {
		selected = 0
	}
	m.Selected = selected
	m.scrollIntoView()
}

func (m *ListModel) SelectedResult() (search.Result, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Results) {
		return search.Result{}, false
	}
	return m.Results[m.Selected], true
}

func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "ctrl+k":
			m.move(-1)
		case "down", "ctrl+j":
			m.move(1)
		}
	}
	return m, nil
}

func (m *ListModel) move(delta int) {
	next := m.Selected + delta
	if next < 0 || next >= len(m.Results) {
		return
	}
	m.Selected = next
	m.scrollIntoView()
}

func (m *ListModel) scrollIntoView() {
	if m.Height <= 0 {
		return
	}
	if m.Selected < m.ScrollOffset {
		m.ScrollOffset = m.Selected
	}
	if m.Selected >= m.ScrollOffset+m.Height {
		m.ScrollOffset = m.Selected - m.Height + 1
	}
}

func (m ListModel) View() string {
	if len(m.Results) == 0 {
		return urlStyle.Render("  no results")
	}

	var b strings.Builder
	end := len(m.Results)
	if m.Height > 0 && m.ScrollOffset+m.Height < end {
		end = m.ScrollOffset + m.Height
	}
	for i := m.ScrollOffset; i < end; i++ {
		r := m.Results[i]

		cursor := "  "
		title := titleStyle.Render(truncate(displayTitle(r), m.titleWidth()))
		if i == m.Selected {
			cursor = selectedStyle.Render("> ")
			title = selectedStyle.Render(truncate(displayTitle(r), m.titleWidth()))
		}

		badge := badgeStyles[r.Kind].Render(badgeText[r.Kind])
		line := cursor + badge + " " + title

		if r.Kind == search.KindTab || r.Kind == search.KindBookmark {
			line += " " + urlStyle.Render(truncate(r.URL, m.urlWidth()))
			if r.AccessCount > 0 {
				line += " " + usageStyle.Render(fmt.Sprintf("×%d", r.AccessCount))
			}
		}

		b.WriteString(line)
		if i < end-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func displayTitle(r search.Result) string {
	if r.Title != "" {
		return r.Title
	}
	return r.URL
}

func (m ListModel) titleWidth() int {
	w := m.Width / 2
	if w < 20 {
		w = 20
	}
	return w
}

func (m ListModel) urlWidth() int {
	w := m.Width/2 - 12
	if w < 16 {
		w = 16
	}
	return w
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
