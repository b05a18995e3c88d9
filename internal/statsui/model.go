// Package statsui provides the Bubble Tea typing report interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/barkeep/internal/stats"
	"github.com/verte-zerg/barkeep/internal/store"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Model implements the Bubble Tea typing report UI.
type Model struct {
	store  *store.Store
	filter store.Filter
	window int

	records []store.Record
	errMsg  string

	viewport viewport.Model

	width  int
	height int
}

// NewModel constructs a report UI model over the given store.
func NewModel(st *store.Store, filter store.Filter, window int) *Model {
	m := &Model{
		store:    st,
		filter:   filter,
		window:   window,
		viewport: viewport.New(0, 0),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderContent()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "r":
			m.refresh()
			return m, nil
		case "=":
			m.window = nextWindow(m.window)
			m.renderContent()
			return m, nil
		case "-":
			m.window = prevWindow(m.window)
			m.renderContent()
			return m, nil
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.viewport.View(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(titleStyle.Render("X"))
	if headerHeight < 1 {
		headerHeight = 1
	}
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.viewport.Width = m.width
	m.viewport.Height = bodyHeight
}

func (m *Model) refresh() {
	records, err := m.store.ListSessions(context.Background(), m.filter)
	if err != nil {
		m.errMsg = err.Error()
		m.viewport.SetContent("Failed to load typing sessions.")
		return
	}
	m.errMsg = ""
	m.records = records
	m.renderContent()
}

func (m *Model) renderContent() {
	if m.errMsg != "" {
		m.viewport.SetContent("Failed to load typing sessions.")
		return
	}
	if len(m.records) == 0 {
		m.viewport.SetContent("No typing sessions found.")
		return
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	cards := renderSummaryCards(m.records, width)

	var buf bytes.Buffer
	if err := stats.RenderReport(&buf, m.records, m.window); err != nil {
		m.viewport.SetContent(fmt.Sprintf("Failed to render report: %v", err))
		return
	}
	m.viewport.SetContent(strings.TrimRight(cards+"\n\n"+buf.String(), "\n"))
}

func (m *Model) renderHeader() string {
	return titleStyle.Render("Typing Report")
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render(fmt.Sprintf("Scroll: up/down/pgup/pgdn  Window: -/= (%d)  Refresh: r  Quit: q", m.window))
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func renderSummaryCards(records []store.Record, width int) string {
	bestWPM := 0.0
	totalChars := 0
	for _, r := range records {
		if wpm := r.WPM(); wpm > bestWPM {
			bestWPM = wpm
		}
		totalChars += r.Chars
	}
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", len(records))),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", stats.AverageWPM(records))),
		metricCard("Best WPM", fmt.Sprintf("%.1f", bestWPM)),
		metricCard("Chars", fmt.Sprintf("%d", totalChars)),
	}
	if width < 60 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func nextWindow(n int) int {
	if n < 5 {
		return 5
	}
	return n + 5
}

func prevWindow(n int) int {
	if n <= 5 {
		return 1
	}
	return n - 5
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
