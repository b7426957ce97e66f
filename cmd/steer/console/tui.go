package consolecmder

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/promptsteer/steer/pkg/adminapi"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

type consoleTab int

const (
	tabIntents consoleTab = iota
	tabQueryLogs
	tabFewShots
	tabDashboard
)

var tabNames = []string{"intents", "query logs", "few-shots", "dashboard"}

// screenState is the per-screen fetch lifecycle. Every tab starts idle,
// moves to loading on mount, and lands on data or error.
type screenState int

const (
	stateIdle screenState = iota
	stateLoading
	stateData
	stateError
)

// stateGen pairs a fetch lifecycle with the generation counter that tags
// in-flight requests. A response whose gen no longer matches is stale and
// gets dropped.
type stateGen struct {
	state screenState
	gen   int
	err   error
}

func (s *stateGen) startFetch() int {
	s.gen++
	s.state = stateLoading
	return s.gen
}

func (s *stateGen) finish(gen int, err error) bool {
	if gen != s.gen {
		return false
	}
	if err != nil {
		s.state = stateError
		s.err = err
		return true
	}
	s.state = stateData
	s.err = nil
	return true
}

var (
	consoleTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	consoleMutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	consoleAccentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
	consoleDimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	consoleSectionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	consoleDividerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	consoleHighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("81")).Bold(true)
	consoleErrStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	consoleOKStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	consoleWarnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	consoleLabelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Bold(true)
	activeTabStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")).Background(lipgloss.Color("81")).Padding(0, 1)
	inactiveTabStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Padding(0, 1)
)

type consoleKeyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Tabs    key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k consoleKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Tabs, k.Refresh, k.Help, k.Quit}
}

func (k consoleKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.NextTab, k.PrevTab, k.Tabs}, {k.Refresh, k.Help, k.Quit}}
}

func defaultConsoleKeyMap() consoleKeyMap {
	return consoleKeyMap{
		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Tabs:    key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "jump to tab")),
		Refresh: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type consoleModel struct {
	client *adminapi.Client
	tab    consoleTab
	width  int
	height int

	intents   intentsModel
	querylogs querylogsModel
	fewshots  fewshotsModel
	dashboard dashboardModel

	keys consoleKeyMap
	help help.Model

	initCmd bubbletea.Cmd
}

func runConsoleTUI(client *adminapi.Client, startTab consoleTab, limit int) error {
	model := newConsoleModel(client, startTab, limit)

	program := bubbletea.NewProgram(model, bubbletea.WithAltScreen())
	_, err := program.Run()
	return err
}

func newConsoleModel(client *adminapi.Client, startTab consoleTab, limit int) consoleModel {
	m := consoleModel{
		client:    client,
		tab:       startTab,
		intents:   newIntentsModel(client),
		querylogs: newQuerylogsModel(client, limit),
		fewshots:  newFewshotsModel(client),
		dashboard: newDashboardModel(client, limit),
		keys:      defaultConsoleKeyMap(),
		help:      help.New(),
	}

	// Init runs on a copy of the model, so the start tab's mount has to
	// happen here where the generation bump sticks.
	m.initCmd = m.mountCmd()
	return m
}

func (m consoleModel) Init() bubbletea.Cmd {
	return m.initCmd
}

// mountCmd kicks off the active screen's fetches. Screens refetch every
// time their tab becomes active so the view never shows stale data after
// a change made on another tab.
func (m *consoleModel) mountCmd() bubbletea.Cmd {
	switch m.tab {
	case tabIntents:
		var cmd bubbletea.Cmd
		m.intents, cmd = m.intents.mount()
		return cmd
	case tabQueryLogs:
		var cmd bubbletea.Cmd
		m.querylogs, cmd = m.querylogs.mount()
		return cmd
	case tabFewShots:
		var cmd bubbletea.Cmd
		m.fewshots, cmd = m.fewshots.mount()
		return cmd
	case tabDashboard:
		var cmd bubbletea.Cmd
		m.dashboard, cmd = m.dashboard.mount()
		return cmd
	}
	return nil
}

func (m consoleModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m.forwardToAll(msg)
	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	// Fetch results and spinner ticks route to every screen; each screen
	// ignores messages that are not its own.
	return m.forwardToAll(msg)
}

func (m consoleModel) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	// A screen capturing text input or awaiting a confirmation owns the
	// whole keyboard.
	if m.activeCapturing() {
		return m.forwardToActive(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, bubbletea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab((m.tab + 1) % 4)
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab((m.tab + 3) % 4)
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.mountCmd()
		return m, cmd
	}

	switch msg.String() {
	case "1":
		return m.switchTab(tabIntents)
	case "2":
		return m.switchTab(tabQueryLogs)
	case "3":
		return m.switchTab(tabFewShots)
	case "4":
		return m.switchTab(tabDashboard)
	}

	return m.forwardToActive(msg)
}

func (m consoleModel) switchTab(tab consoleTab) (bubbletea.Model, bubbletea.Cmd) {
	if tab == m.tab {
		return m, nil
	}
	m.tab = tab
	cmd := m.mountCmd()
	return m, cmd
}

func (m consoleModel) activeCapturing() bool {
	switch m.tab {
	case tabIntents:
		return m.intents.capturing()
	case tabQueryLogs:
		return m.querylogs.capturing()
	case tabFewShots:
		return m.fewshots.capturing()
	case tabDashboard:
		return m.dashboard.capturing()
	}
	return false
}

func (m consoleModel) forwardToActive(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	var cmd bubbletea.Cmd
	switch m.tab {
	case tabIntents:
		m.intents, cmd = m.intents.update(msg)
	case tabQueryLogs:
		m.querylogs, cmd = m.querylogs.update(msg)
	case tabFewShots:
		m.fewshots, cmd = m.fewshots.update(msg)
	case tabDashboard:
		m.dashboard, cmd = m.dashboard.update(msg)
	}
	return m, cmd
}

func (m consoleModel) forwardToAll(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	cmds := make([]bubbletea.Cmd, 0, 4)
	var cmd bubbletea.Cmd

	m.intents, cmd = m.intents.update(msg)
	cmds = append(cmds, cmd)
	m.querylogs, cmd = m.querylogs.update(msg)
	cmds = append(cmds, cmd)
	m.fewshots, cmd = m.fewshots.update(msg)
	cmds = append(cmds, cmd)
	m.dashboard, cmd = m.dashboard.update(msg)
	cmds = append(cmds, cmd)

	return m, bubbletea.Batch(cmds...)
}

func (m consoleModel) View() string {
	header := renderHeaderLine(m.width,
		consoleTitleStyle.Render("steer console"),
		consoleMutedStyle.Render(m.client.Target()),
	)

	body := ""
	switch m.tab {
	case tabIntents:
		body = m.intents.view(m.width, m.bodyHeight())
	case tabQueryLogs:
		body = m.querylogs.view(m.width, m.bodyHeight())
	case tabFewShots:
		body = m.fewshots.view(m.width, m.bodyHeight())
	case tabDashboard:
		body = m.dashboard.view(m.width, m.bodyHeight())
	}

	footer := consoleMutedStyle.Render(m.help.View(m.keys))

	return strings.Join([]string{header, m.renderTabBar(), renderRule(m.width), body, footer}, "\n")
}

func (m consoleModel) bodyHeight() int {
	if m.height <= 0 {
		return 30
	}
	// header + tab bar + rule + footer
	return max(m.height-5, 8)
}

func (m consoleModel) renderTabBar() string {
	parts := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if consoleTab(i) == m.tab {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func renderHeaderLine(width int, left, right string) string {
	lineWidth := width
	if lineWidth <= 0 {
		lineWidth = 80
	}
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	if leftWidth+rightWidth+1 >= lineWidth {
		return strings.TrimSpace(left + " " + right)
	}
	spacing := lineWidth - leftWidth - rightWidth
	return left + strings.Repeat(" ", spacing) + right
}

func renderRule(width int) string {
	lineWidth := width
	if lineWidth <= 0 {
		lineWidth = 80
	}
	return consoleDividerStyle.Render(strings.Repeat("─", lineWidth))
}

func clamp(value, upper int) int {
	if value < 0 {
		return 0
	}
	if value > upper {
		return upper
	}
	return value
}

func truncateText(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	if limit <= 3 {
		return value[:limit]
	}
	return value[:limit-3] + "..."
}

func fitCell(value string, width int) string {
	if width <= 0 {
		return value
	}
	if lipgloss.Width(value) > width {
		return truncateText(value, width)
	}
	return value + strings.Repeat(" ", width-lipgloss.Width(value))
}

func visibleRange(total, cursor, size int) (int, int) {
	if total <= 0 || size <= 0 {
		return 0, 0
	}
	if total <= size {
		return 0, total
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= total {
		cursor = total - 1
	}
	start := max(cursor-(size/2), 0)
	end := start + size
	if end > total {
		end = total
		start = max(end-size, 0)
	}
	return start, end
}

func renderSectionDivider(width int, title string) string {
	lineWidth := width
	if lineWidth <= 0 {
		lineWidth = 80
	}
	label := fmt.Sprintf("─── %s ", title)
	remaining := lineWidth - lipgloss.Width(label) - 2
	if remaining < 0 {
		return "  " + label
	}
	return "  " + label + strings.Repeat("─", remaining)
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	lines := []string{}
	current := ""
	for _, word := range words {
		if current == "" {
			current = word
			continue
		}
		if lipgloss.Width(current)+1+lipgloss.Width(word) <= width {
			current = current + " " + word
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
