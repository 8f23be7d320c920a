// Package historyui provides the Bubble Tea history viewer.
package historyui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/history"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	filterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// kindCycle is the order the filter key steps through.
var kindCycle = []model.Kind{"", model.KindText, model.KindRepeat, model.KindGroup, model.KindMemory}

// Loader builds a report for a filter.
type Loader func(cfg model.HistoryConfig) (history.Report, error)

// Model implements the Bubble Tea history viewer.
type Model struct {
	load Loader
	cfg  model.HistoryConfig
	now  func() time.Time

	report history.Report
	errMsg string
	table  table.Model

	width  int
	height int
}

// NewModel constructs a history viewer and loads the first report.
func NewModel(load Loader, cfg model.HistoryConfig) *Model {
	m := &Model{
		load: load,
		cfg:  cfg,
		now:  time.Now,
	}
	m.table = table.New(
		table.WithColumns(columns(0)),
		table.WithFocused(true),
		table.WithHeight(1),
	)
	m.table.SetStyles(tableStyles())
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
		m.layout()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "f":
			m.cfg.Kind = nextKind(m.cfg.Kind)
			m.refresh()
			m.layout()
			return m, nil
		case "r":
			m.refresh()
			return m, nil
		case "g", "home":
			m.table.GotoTop()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	parts := []string{m.renderHeader()}
	if m.errMsg != "" {
		parts = append(parts, errorStyle.Render(m.errMsg))
	} else {
		parts = append(parts, m.table.View())
	}
	parts = append(parts, footerStyle.Render("f kind filter • r reload • ↑/↓ scroll • q quit"))
	return strings.Join(parts, "\n")
}

// Kind returns the active kind filter; empty means all kinds.
func (m *Model) Kind() model.Kind {
	return m.cfg.Kind
}

func (m *Model) refresh() {
	report, err := m.load(m.cfg)
	if err != nil {
		m.errMsg = "Failed to load history: " + err.Error()
		m.report = history.Report{}
		m.table.SetRows(nil)
		return
	}
	m.errMsg = ""
	m.report = report
	rows := history.Rows(report.Transmissions, m.now())
	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, table.Row(r))
	}
	m.table.SetRows(tableRows)
	m.table.GotoTop()
}

func (m *Model) renderHeader() string {
	kind := "all"
	if m.cfg.Kind != "" {
		kind = string(m.cfg.Kind)
	}
	lines := []string{"Transmission history  " + filterStyle.Render("kind: "+kind)}
	for _, line := range history.SummaryLines(m.report) {
		if line == "" {
			break
		}
		lines = append(lines, headerStyle.Render(line))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) layout() {
	headerHeight := lipgloss.Height(m.renderHeader())
	m.table.SetColumns(columns(m.width))
	m.table.SetWidth(m.width)
	m.table.SetHeight(maxInt(2, m.height-headerHeight-2))
}

func columns(width int) []table.Column {
	cols := []table.Column{
		{Title: history.Columns[0], Width: 16},
		{Title: history.Columns[1], Width: 7},
		{Title: history.Columns[2], Width: 4},
		{Title: history.Columns[3], Width: 6},
		{Title: history.Columns[4], Width: 7},
		{Title: history.Columns[5], Width: 7},
		{Title: history.Columns[6], Width: 20},
	}
	used := 0
	for _, c := range cols[:len(cols)-1] {
		used += c.Width + 1
	}
	if text := width - used - 1; text > cols[len(cols)-1].Width {
		cols[len(cols)-1].Width = text
	}
	return cols
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func nextKind(k model.Kind) model.Kind {
	for i, c := range kindCycle {
		if c == k {
			return kindCycle[(i+1)%len(kindCycle)]
		}
	}
	return kindCycle[0]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
