package consolecmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	bubbletea "github.com/charmbracelet/bubbletea"

	"github.com/promptsteer/steer/pkg/adminapi"
	"github.com/promptsteer/steer/pkg/cliui"
)

type querylogsMode int

const (
	querylogsModeList querylogsMode = iota
	querylogsModeSearch
	querylogsModePromote
	querylogsModeConfirm
)

type querylogsLoadedMsg struct {
	gen  int
	list *adminapi.QueryLogList
	err  error
}

type querylogStatsMsg struct {
	gen   int
	stats *adminapi.QueryLogStats
	err   error
}

type querylogMutatedMsg struct {
	action string
	err    error
}

// intentFilterCycle is the filter rotation: all, then each known type.
var intentFilterCycle = append([]adminapi.IntentType{""}, adminapi.KnownIntentTypes()...)

// promoteForm collects the conversion request for one query log.
type promoteForm struct {
	logID      int64
	intentType adminapi.IntentType
	response   textarea.Model
	active     bool
	focus      int
	problem    string
	submitting bool
}

type querylogsModel struct {
	client *adminapi.Client
	limit  int

	state stateGen
	list  *adminapi.QueryLogList

	statsState stateGen
	stats      *adminapi.QueryLogStats

	cursor        int
	intentIdx     int
	convertedOnly bool
	search        string
	searchInput   textinput.Model

	mode    querylogsMode
	promote promoteForm
	spin    spinner.Model
	notice  string
}

func newQuerylogsModel(client *adminapi.Client, limit int) querylogsModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = consoleAccentStyle

	search := textinput.New()
	search.Placeholder = "search query text"
	search.CharLimit = 120

	return querylogsModel{
		client:      client,
		limit:       limit,
		searchInput: search,
		spin:        spin,
	}
}

func (m querylogsModel) capturing() bool {
	return m.mode != querylogsModeList
}

func (m querylogsModel) filters() adminapi.QueryLogFilters {
	return adminapi.QueryLogFilters{
		Intent:        intentFilterCycle[m.intentIdx],
		ConvertedOnly: m.convertedOnly,
		Search:        m.search,
		Limit:         m.limit,
	}
}

func (m querylogsModel) mount() (querylogsModel, bubbletea.Cmd) {
	m.notice = ""
	listGen := m.state.startFetch()
	statsGen := m.statsState.startFetch()
	return m, bubbletea.Batch(
		m.spin.Tick,
		fetchQuerylogsCmd(m.client, m.filters(), listGen),
		fetchQuerylogStatsCmd(m.client, statsGen),
	)
}

// refetchList reloads only the list. Free-text search changes take this
// path: the aggregate stats are search-independent and stay as they are.
func (m querylogsModel) refetchList() (querylogsModel, bubbletea.Cmd) {
	gen := m.state.startFetch()
	return m, bubbletea.Batch(m.spin.Tick, fetchQuerylogsCmd(m.client, m.filters(), gen))
}

// refetchAll reloads list and stats together. Intent filter changes, the
// converted-only toggle, and every mutation land here.
func (m querylogsModel) refetchAll() (querylogsModel, bubbletea.Cmd) {
	listGen := m.state.startFetch()
	statsGen := m.statsState.startFetch()
	return m, bubbletea.Batch(
		m.spin.Tick,
		fetchQuerylogsCmd(m.client, m.filters(), listGen),
		fetchQuerylogStatsCmd(m.client, statsGen),
	)
}

func fetchQuerylogsCmd(client *adminapi.Client, filters adminapi.QueryLogFilters, gen int) bubbletea.Cmd {
	return func() bubbletea.Msg {
		list, err := client.ListQueryLogs(context.Background(), filters)
		return querylogsLoadedMsg{gen: gen, list: list, err: err}
	}
}

func fetchQuerylogStatsCmd(client *adminapi.Client, gen int) bubbletea.Cmd {
	return func() bubbletea.Msg {
		stats, err := client.QueryLogStats(context.Background())
		return querylogStatsMsg{gen: gen, stats: stats, err: err}
	}
}

func convertCmd(client *adminapi.Client, req adminapi.ConvertRequest) bubbletea.Cmd {
	return func() bubbletea.Msg {
		result, err := client.ConvertToFewShot(context.Background(), req)
		action := ""
		if err == nil {
			action = fmt.Sprintf("promoted to few-shot %d", result.FewShotID)
		}
		return querylogMutatedMsg{action: action, err: err}
	}
}

func deleteQuerylogCmd(client *adminapi.Client, id int64) bubbletea.Cmd {
	return func() bubbletea.Msg {
		err := client.DeleteQueryLog(context.Background(), id)
		return querylogMutatedMsg{action: "query log deleted", err: err}
	}
}

func (m querylogsModel) update(msg bubbletea.Msg) (querylogsModel, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.state.state != stateLoading && m.statsState.state != stateLoading {
			return m, nil
		}
		var cmd bubbletea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case querylogsLoadedMsg:
		if !m.state.finish(msg.gen, msg.err) {
			return m, nil
		}
		if msg.err == nil {
			m.list = msg.list
			if len(m.list.Items) == 0 {
				m.cursor = 0
			} else {
				m.cursor = clamp(m.cursor, len(m.list.Items)-1)
			}
		}
		return m, nil
	case querylogStatsMsg:
		if !m.statsState.finish(msg.gen, msg.err) {
			return m, nil
		}
		if msg.err == nil {
			m.stats = msg.stats
		}
		return m, nil
	case querylogMutatedMsg:
		// A rejected conversion keeps the modal open with the draft intact.
		if m.mode == querylogsModePromote {
			m.promote.submitting = false
			if msg.err != nil {
				m.promote.problem = msg.err.Error()
				return m, nil
			}
			m.mode = querylogsModeList
		}
		if msg.err != nil {
			m.notice = consoleErrStyle.Render(msg.err.Error())
			return m, nil
		}
		m.notice = consoleOKStyle.Render(msg.action)
		return m.refetchAll()
	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m querylogsModel) handleKey(msg bubbletea.KeyMsg) (querylogsModel, bubbletea.Cmd) {
	switch m.mode {
	case querylogsModeSearch:
		return m.handleSearchKey(msg)
	case querylogsModePromote:
		return m.handlePromoteKey(msg)
	case querylogsModeConfirm:
		return m.handleConfirmKey(msg)
	}

	switch msg.String() {
	case "j", "down":
		if m.itemCount() > 0 {
			m.cursor = clamp(m.cursor+1, m.itemCount()-1)
		}
	case "k", "up":
		if m.itemCount() > 0 {
			m.cursor = clamp(m.cursor-1, m.itemCount()-1)
		}
	case "i":
		m.intentIdx = (m.intentIdx + 1) % len(intentFilterCycle)
		return m.refetchAll()
	case "c":
		m.convertedOnly = !m.convertedOnly
		return m.refetchAll()
	case "/":
		m.mode = querylogsModeSearch
		m.searchInput.SetValue(m.search)
		m.searchInput.Focus()
	case "p":
		return m.beginPromote()
	case "d":
		if m.state.state == stateData && m.itemCount() > 0 {
			m.mode = querylogsModeConfirm
		}
	case "r":
		return m.mount()
	}

	return m, nil
}

// beginPromote opens the conversion form, unless the selected log is
// already converted. Converted logs never produce a request.
func (m querylogsModel) beginPromote() (querylogsModel, bubbletea.Cmd) {
	if m.state.state != stateData || m.itemCount() == 0 {
		return m, nil
	}

	log := m.list.Items[m.cursor]
	if log.ConvertedToFewShot {
		m.notice = consoleWarnStyle.Render("already converted to a few-shot")
		return m, nil
	}

	response := textarea.New()
	response.Placeholder = "expected response"
	response.CharLimit = 4000
	response.SetValue(log.Response)

	intentType := adminapi.IntentGeneral
	if log.DetectedIntent.Known() {
		intentType = log.DetectedIntent
	}

	m.mode = querylogsModePromote
	m.promote = promoteForm{
		logID:      log.ID,
		intentType: intentType,
		response:   response,
		active:     true,
	}
	return m, nil
}

func (m querylogsModel) handleSearchKey(msg bubbletea.KeyMsg) (querylogsModel, bubbletea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = querylogsModeList
		m.search = strings.TrimSpace(m.searchInput.Value())
		return m.refetchList()
	case "esc":
		m.mode = querylogsModeList
		return m, nil
	}

	var cmd bubbletea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m querylogsModel) handleConfirmKey(msg bubbletea.KeyMsg) (querylogsModel, bubbletea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = querylogsModeList
		log := m.list.Items[m.cursor]
		return m, deleteQuerylogCmd(m.client, log.ID)
	case "n", "N", "esc":
		m.mode = querylogsModeList
	}
	return m, nil
}

func (m querylogsModel) handlePromoteKey(msg bubbletea.KeyMsg) (querylogsModel, bubbletea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = querylogsModeList
		return m, nil
	case "ctrl+s":
		if m.promote.submitting {
			return m, nil
		}
		m.promote.problem = ""
		m.promote.submitting = true
		req := adminapi.ConvertRequest{
			QueryLogID:       m.promote.logID,
			IntentType:       m.promote.intentType,
			ExpectedResponse: strings.TrimSpace(m.promote.response.Value()),
			IsActive:         m.promote.active,
		}
		return m, convertCmd(m.client, req)
	case "tab":
		m.promote.focus = (m.promote.focus + 1) % 3
		if m.promote.focus == 1 {
			m.promote.response.Focus()
		} else {
			m.promote.response.Blur()
		}
		return m, nil
	}

	switch m.promote.focus {
	case 0:
		if msg.String() == "left" || msg.String() == "right" {
			m.promote.intentType = cycleIntentType(m.promote.intentType, msg.String() == "right")
		}
		return m, nil
	case 2:
		if msg.String() == " " || msg.String() == "space" {
			m.promote.active = !m.promote.active
		}
		return m, nil
	}

	var cmd bubbletea.Cmd
	m.promote.response, cmd = m.promote.response.Update(msg)
	return m, cmd
}

func (m querylogsModel) itemCount() int {
	if m.list == nil {
		return 0
	}
	return len(m.list.Items)
}

func (m querylogsModel) view(width, height int) string {
	lines := make([]string, 0, height)
	lines = append(lines, consoleSectionStyle.Render("query logs"))
	lines = append(lines, m.viewStats(width))
	lines = append(lines, m.viewFilters())

	switch m.state.state {
	case stateLoading:
		lines = append(lines, "", m.spin.View()+" loading query logs...")
	case stateError:
		lines = append(lines, "", consoleErrStyle.Render("error: "+m.state.err.Error()), consoleMutedStyle.Render("press r to retry"))
	case stateData:
		lines = append(lines, m.viewList(width, height)...)
	}

	if m.notice != "" {
		lines = append(lines, "", m.notice)
	}

	switch m.mode {
	case querylogsModeSearch:
		lines = append(lines, "", "  /"+m.searchInput.View())
	case querylogsModePromote:
		lines = append(lines, "", m.viewPromote(width))
	case querylogsModeConfirm:
		log := m.list.Items[m.cursor]
		lines = append(lines, "", consoleWarnStyle.Render(fmt.Sprintf("delete query log %d? (y/n)", log.ID)))
	default:
		lines = append(lines, "", consoleMutedStyle.Render("p promote · d delete · i intent filter · c converted only · / search · r refresh"))
	}

	return strings.Join(lines, "\n")
}

func (m querylogsModel) viewStats(width int) string {
	switch m.statsState.state {
	case stateLoading:
		return consoleMutedStyle.Render("stats: loading...")
	case stateError:
		return consoleErrStyle.Render("stats: " + m.statsState.err.Error())
	}
	if m.stats == nil {
		return consoleMutedStyle.Render("stats: no data")
	}

	parts := []string{
		fmt.Sprintf("%s %d", consoleLabelStyle.Render("queries"), m.stats.TotalQueries),
		fmt.Sprintf("%s %d", consoleLabelStyle.Render("converted"), m.stats.ConvertedToFewShot),
		fmt.Sprintf("%s %.1f%%", consoleLabelStyle.Render("rate"), m.stats.ConversionRate),
	}
	for _, byIntent := range m.stats.ByIntent {
		parts = append(parts, consoleMutedStyle.Render(fmt.Sprintf("%s:%d", adminapi.IntentType(byIntent.Intent).Label(), byIntent.Count)))
	}
	return truncateText(strings.Join(parts, "  "), max(width, 40))
}

func (m querylogsModel) viewFilters() string {
	intent := "all"
	if t := intentFilterCycle[m.intentIdx]; t != "" {
		intent = t.Label()
	}
	converted := "off"
	if m.convertedOnly {
		converted = "on"
	}
	search := m.search
	if search == "" {
		search = "-"
	}
	total := ""
	if m.list != nil {
		total = fmt.Sprintf(" · %d total", m.list.Total)
	}
	return consoleMutedStyle.Render(fmt.Sprintf("filters: intent=%s converted=%s search=%s%s", intent, converted, search, total))
}

func (m querylogsModel) viewList(width, height int) []string {
	if m.itemCount() == 0 {
		return []string{"", consoleMutedStyle.Render("no query logs match the current filters.")}
	}

	lines := []string{"", consoleMutedStyle.Render("    id  query                                     intent        fs  created")}
	maxVisible := max(height-10, 4)
	start, end := visibleRange(m.itemCount(), m.cursor, maxVisible)
	for i := start; i < end; i++ {
		log := m.list.Items[i]
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		converted := consoleDimStyle.Render("·")
		if log.ConvertedToFewShot {
			converted = consoleOKStyle.Render("✓")
		}

		line := fmt.Sprintf("%s %5d  %s  %s  %s   %s",
			cursor,
			log.ID,
			fitCell(log.QueryText, 40),
			fitCell(log.DetectedIntent.Label(), 12),
			converted,
			consoleMutedStyle.Render(cliui.FormatTime(log.CreatedAt.Time)),
		)
		if i == m.cursor {
			line = consoleHighlightStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return lines
}

func (m querylogsModel) viewPromote(width int) string {
	typeValue := m.promote.intentType.Label()
	if m.promote.focus == 0 {
		typeValue = consoleAccentStyle.Render("< " + typeValue + " >")
	}

	active := "no"
	if m.promote.active {
		active = "yes"
	}
	if m.promote.focus == 2 {
		active = consoleAccentStyle.Render("[ " + active + " ]")
	}

	lines := []string{
		renderSectionDivider(width, fmt.Sprintf("promote query log %d", m.promote.logID)),
		fmt.Sprintf("  %s %s", consoleLabelStyle.Render("intent type:"), typeValue),
		fmt.Sprintf("  %s", consoleLabelStyle.Render("expected response:")),
		m.promote.response.View(),
		fmt.Sprintf("  %s %s", consoleLabelStyle.Render("active:     "), active),
	}

	if m.promote.problem != "" {
		lines = append(lines, "  "+consoleErrStyle.Render(m.promote.problem))
	}
	hint := "  tab next field · ←/→ cycle type · space toggle active · ctrl+s save · esc cancel"
	if m.promote.submitting {
		hint = "  saving..."
	}
	lines = append(lines, consoleMutedStyle.Render(hint))

	return strings.Join(lines, "\n")
}
