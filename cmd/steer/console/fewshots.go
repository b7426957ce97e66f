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

type fewshotsMode int

const (
	fewshotsModeList fewshotsMode = iota
	fewshotsModeEdit
	fewshotsModeConfirm
	fewshotsModeAudit
)

type fewshotsLoadedMsg struct {
	gen      int
	fewShots []adminapi.FewShot
	err      error
}

type fewshotMutatedMsg struct {
	action string
	err    error
}

type auditsLoadedMsg struct {
	gen    int
	audits []adminapi.FewShotAudit
	err    error
}

type fewshotForm struct {
	id         int64
	intentType adminapi.IntentType
	userQuery  textinput.Model
	response   textarea.Model
	focus      int
	problem    string
	submitting bool
}

type fewshotsModel struct {
	client *adminapi.Client

	state    stateGen
	fewShots []adminapi.FewShot
	cursor   int

	intentIdx  int
	activeOnly bool

	mode fewshotsMode
	form fewshotForm

	auditState  stateGen
	audits      []adminapi.FewShotAudit
	auditScope  *int64
	auditCursor int

	spin   spinner.Model
	notice string
}

func newFewshotsModel(client *adminapi.Client) fewshotsModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = consoleAccentStyle

	return fewshotsModel{
		client: client,
		spin:   spin,
	}
}

func (m fewshotsModel) capturing() bool {
	return m.mode != fewshotsModeList
}

func (m fewshotsModel) filters() adminapi.FewShotFilters {
	return adminapi.FewShotFilters{
		IntentType: intentFilterCycle[m.intentIdx],
		ActiveOnly: m.activeOnly,
	}
}

func (m fewshotsModel) mount() (fewshotsModel, bubbletea.Cmd) {
	m.notice = ""
	gen := m.state.startFetch()
	return m, bubbletea.Batch(m.spin.Tick, fetchFewshotsCmd(m.client, m.filters(), gen))
}

func fetchFewshotsCmd(client *adminapi.Client, filters adminapi.FewShotFilters, gen int) bubbletea.Cmd {
	return func() bubbletea.Msg {
		fewShots, err := client.ListFewShots(context.Background(), filters)
		return fewshotsLoadedMsg{gen: gen, fewShots: fewShots, err: err}
	}
}

func fetchAuditsCmd(client *adminapi.Client, scope *int64, gen int) bubbletea.Cmd {
	return func() bubbletea.Msg {
		audits, err := client.ListFewShotAudits(context.Background(), scope)
		return auditsLoadedMsg{gen: gen, audits: audits, err: err}
	}
}

func toggleFewshotCmd(client *adminapi.Client, id int64, active bool) bubbletea.Cmd {
	return func() bubbletea.Msg {
		_, err := client.UpdateFewShot(context.Background(), id, adminapi.FewShotUpdate{IsActive: &active})
		action := "few-shot deactivated"
		if active {
			action = "few-shot activated"
		}
		return fewshotMutatedMsg{action: action, err: err}
	}
}

func updateFewshotCmd(client *adminapi.Client, id int64, update adminapi.FewShotUpdate) bubbletea.Cmd {
	return func() bubbletea.Msg {
		_, err := client.UpdateFewShot(context.Background(), id, update)
		return fewshotMutatedMsg{action: "few-shot updated", err: err}
	}
}

func deleteFewshotCmd(client *adminapi.Client, id int64) bubbletea.Cmd {
	return func() bubbletea.Msg {
		err := client.DeleteFewShot(context.Background(), id)
		return fewshotMutatedMsg{action: "few-shot deleted", err: err}
	}
}

func (m fewshotsModel) update(msg bubbletea.Msg) (fewshotsModel, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.state.state != stateLoading && m.auditState.state != stateLoading {
			return m, nil
		}
		var cmd bubbletea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case fewshotsLoadedMsg:
		if !m.state.finish(msg.gen, msg.err) {
			return m, nil
		}
		if msg.err == nil {
			m.fewShots = msg.fewShots
			if len(m.fewShots) == 0 {
				m.cursor = 0
			} else {
				m.cursor = clamp(m.cursor, len(m.fewShots)-1)
			}
		}
		return m, nil
	case auditsLoadedMsg:
		if !m.auditState.finish(msg.gen, msg.err) {
			return m, nil
		}
		if msg.err == nil {
			m.audits = msg.audits
			m.auditCursor = 0
		}
		return m, nil
	case fewshotMutatedMsg:
		// A failed save keeps the edit form open with the draft intact.
		if m.mode == fewshotsModeEdit {
			m.form.submitting = false
			if msg.err != nil {
				m.form.problem = msg.err.Error()
				return m, nil
			}
			m.mode = fewshotsModeList
		}
		if msg.err != nil {
			m.notice = consoleErrStyle.Render(msg.err.Error())
			return m, nil
		}
		m.notice = consoleOKStyle.Render(msg.action)
		gen := m.state.startFetch()
		return m, bubbletea.Batch(m.spin.Tick, fetchFewshotsCmd(m.client, m.filters(), gen))
	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m fewshotsModel) handleKey(msg bubbletea.KeyMsg) (fewshotsModel, bubbletea.Cmd) {
	switch m.mode {
	case fewshotsModeEdit:
		return m.handleEditKey(msg)
	case fewshotsModeConfirm:
		return m.handleConfirmKey(msg)
	case fewshotsModeAudit:
		return m.handleAuditKey(msg)
	}

	switch msg.String() {
	case "j", "down":
		if len(m.fewShots) > 0 {
			m.cursor = clamp(m.cursor+1, len(m.fewShots)-1)
		}
	case "k", "up":
		if len(m.fewShots) > 0 {
			m.cursor = clamp(m.cursor-1, len(m.fewShots)-1)
		}
	case "i":
		m.intentIdx = (m.intentIdx + 1) % len(intentFilterCycle)
		return m.mount()
	case "c":
		m.activeOnly = !m.activeOnly
		return m.mount()
	case "t":
		if m.state.state == stateData && len(m.fewShots) > 0 {
			fewShot := m.fewShots[m.cursor]
			return m, toggleFewshotCmd(m.client, fewShot.ID, !fewShot.IsActive)
		}
	case "e", "enter":
		if m.state.state == stateData && len(m.fewShots) > 0 {
			m.mode = fewshotsModeEdit
			m.form = newFewshotForm(m.fewShots[m.cursor])
		}
	case "d":
		if m.state.state == stateData && len(m.fewShots) > 0 {
			m.mode = fewshotsModeConfirm
		}
	case "a":
		return m.openAudit()
	case "r":
		return m.mount()
	}

	return m, nil
}

// openAudit enters the audit sub-view scoped to the selected few-shot, or
// unscoped when the list is empty.
func (m fewshotsModel) openAudit() (fewshotsModel, bubbletea.Cmd) {
	m.mode = fewshotsModeAudit
	m.auditScope = nil
	if len(m.fewShots) > 0 {
		id := m.fewShots[m.cursor].ID
		m.auditScope = &id
	}
	gen := m.auditState.startFetch()
	return m, bubbletea.Batch(m.spin.Tick, fetchAuditsCmd(m.client, m.auditScope, gen))
}

func (m fewshotsModel) handleAuditKey(msg bubbletea.KeyMsg) (fewshotsModel, bubbletea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = fewshotsModeList
		return m, nil
	case "j", "down":
		if len(m.audits) > 0 {
			m.auditCursor = clamp(m.auditCursor+1, len(m.audits)-1)
		}
	case "k", "up":
		if len(m.audits) > 0 {
			m.auditCursor = clamp(m.auditCursor-1, len(m.audits)-1)
		}
	case "a":
		// Toggle between the selected few-shot's trail and the full trail.
		if m.auditScope != nil {
			m.auditScope = nil
		} else if len(m.fewShots) > 0 {
			id := m.fewShots[m.cursor].ID
			m.auditScope = &id
		}
		gen := m.auditState.startFetch()
		return m, bubbletea.Batch(m.spin.Tick, fetchAuditsCmd(m.client, m.auditScope, gen))
	}
	return m, nil
}

func (m fewshotsModel) handleConfirmKey(msg bubbletea.KeyMsg) (fewshotsModel, bubbletea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = fewshotsModeList
		fewShot := m.fewShots[m.cursor]
		return m, deleteFewshotCmd(m.client, fewShot.ID)
	case "n", "N", "esc":
		m.mode = fewshotsModeList
	}
	return m, nil
}

func (m fewshotsModel) handleEditKey(msg bubbletea.KeyMsg) (fewshotsModel, bubbletea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = fewshotsModeList
		return m, nil
	case "ctrl+s":
		if m.form.submitting {
			return m, nil
		}
		update, problem := m.form.build()
		if problem != "" {
			m.form.problem = problem
			return m, nil
		}
		m.form.problem = ""
		m.form.submitting = true
		return m, updateFewshotCmd(m.client, m.form.id, update)
	case "tab":
		m.form = m.form.focusField((m.form.focus + 1) % 3)
		return m, nil
	case "shift+tab":
		m.form = m.form.focusField((m.form.focus + 2) % 3)
		return m, nil
	}

	switch m.form.focus {
	case 0:
		if msg.String() == "left" || msg.String() == "right" {
			m.form.intentType = cycleIntentType(m.form.intentType, msg.String() == "right")
		}
		return m, nil
	case 1:
		var cmd bubbletea.Cmd
		m.form.userQuery, cmd = m.form.userQuery.Update(msg)
		return m, cmd
	}

	var cmd bubbletea.Cmd
	m.form.response, cmd = m.form.response.Update(msg)
	return m, cmd
}

func newFewshotForm(fewShot adminapi.FewShot) fewshotForm {
	userQuery := textinput.New()
	userQuery.Placeholder = "user query"
	userQuery.CharLimit = 500
	userQuery.SetValue(fewShot.UserQuery)

	response := textarea.New()
	response.Placeholder = "expected response"
	response.CharLimit = 4000
	response.SetValue(fewShot.ExpectedResponse)

	intentType := adminapi.IntentGeneral
	if fewShot.IntentType.Known() {
		intentType = fewShot.IntentType
	}

	return fewshotForm{
		id:         fewShot.ID,
		intentType: intentType,
		userQuery:  userQuery,
		response:   response,
	}
}

func (f fewshotForm) focusField(idx int) fewshotForm {
	f.focus = idx
	f.userQuery.Blur()
	f.response.Blur()
	switch idx {
	case 1:
		f.userQuery.Focus()
	case 2:
		f.response.Focus()
	}
	return f
}

func (f fewshotForm) build() (adminapi.FewShotUpdate, string) {
	userQuery := strings.TrimSpace(f.userQuery.Value())
	if userQuery == "" {
		return adminapi.FewShotUpdate{}, "user query is required"
	}

	intentType := f.intentType
	response := strings.TrimSpace(f.response.Value())
	return adminapi.FewShotUpdate{
		IntentType:       &intentType,
		UserQuery:        &userQuery,
		ExpectedResponse: &response,
	}, ""
}

func (m fewshotsModel) view(width, height int) string {
	if m.mode == fewshotsModeAudit {
		return m.viewAudit(width, height)
	}

	lines := make([]string, 0, height)
	lines = append(lines, consoleSectionStyle.Render(fmt.Sprintf("few-shot examples (%d)", len(m.fewShots))))
	lines = append(lines, m.viewFilters())

	switch m.state.state {
	case stateLoading:
		lines = append(lines, "", m.spin.View()+" loading few-shots...")
	case stateError:
		lines = append(lines, "", consoleErrStyle.Render("error: "+m.state.err.Error()), consoleMutedStyle.Render("press r to retry"))
	case stateData:
		lines = append(lines, m.viewList(width, height)...)
	}

	if m.notice != "" {
		lines = append(lines, "", m.notice)
	}

	switch m.mode {
	case fewshotsModeEdit:
		lines = append(lines, "", m.viewForm(width))
	case fewshotsModeConfirm:
		fewShot := m.fewShots[m.cursor]
		lines = append(lines, "", consoleWarnStyle.Render(fmt.Sprintf("delete few-shot %d? this also clears the conversion flag on its source log. (y/n)", fewShot.ID)))
	default:
		lines = append(lines, "", consoleMutedStyle.Render("t toggle active · e edit · d delete · a audit · i intent filter · c active only · r refresh"))
	}

	return strings.Join(lines, "\n")
}

func (m fewshotsModel) viewFilters() string {
	intent := "all"
	if t := intentFilterCycle[m.intentIdx]; t != "" {
		intent = t.Label()
	}
	active := "off"
	if m.activeOnly {
		active = "on"
	}
	return consoleMutedStyle.Render(fmt.Sprintf("filters: intent=%s active-only=%s", intent, active))
}

func (m fewshotsModel) viewList(width, height int) []string {
	if len(m.fewShots) == 0 {
		return []string{"", consoleMutedStyle.Render("no few-shot examples. promote a query log to create one.")}
	}

	lines := []string{"", consoleMutedStyle.Render("    id  query                                     intent        active  src  updated")}
	maxVisible := max(height-9, 4)
	start, end := visibleRange(len(m.fewShots), m.cursor, maxVisible)
	for i := start; i < end; i++ {
		fewShot := m.fewShots[i]
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		active := consoleDimStyle.Render("off")
		if fewShot.IsActive {
			active = consoleOKStyle.Render("on ")
		}

		source := "-"
		if fewShot.SourceQueryLogID != 0 {
			source = fmt.Sprintf("%d", fewShot.SourceQueryLogID)
		}

		line := fmt.Sprintf("%s %5d  %s  %s  %s     %s  %s",
			cursor,
			fewShot.ID,
			fitCell(fewShot.UserQuery, 40),
			fitCell(fewShot.IntentType.Label(), 12),
			active,
			fitCell(source, 4),
			consoleMutedStyle.Render(cliui.FormatTime(fewShot.UpdatedAt.Time)),
		)
		if i == m.cursor {
			line = consoleHighlightStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return lines
}

func (m fewshotsModel) viewForm(width int) string {
	typeValue := m.form.intentType.Label()
	if m.form.focus == 0 {
		typeValue = consoleAccentStyle.Render("< " + typeValue + " >")
	}

	lines := []string{
		renderSectionDivider(width, fmt.Sprintf("edit few-shot %d", m.form.id)),
		fmt.Sprintf("  %s %s", consoleLabelStyle.Render("intent type:"), typeValue),
		fmt.Sprintf("  %s %s", consoleLabelStyle.Render("user query: "), m.form.userQuery.View()),
		fmt.Sprintf("  %s", consoleLabelStyle.Render("expected response:")),
		m.form.response.View(),
	}

	if m.form.problem != "" {
		lines = append(lines, "  "+consoleErrStyle.Render(m.form.problem))
	}
	hint := "  tab next field · ←/→ cycle type · ctrl+s save · esc cancel"
	if m.form.submitting {
		hint = "  saving..."
	}
	lines = append(lines, consoleMutedStyle.Render(hint))

	return strings.Join(lines, "\n")
}

func (m fewshotsModel) viewAudit(width, height int) string {
	scope := "all few-shots"
	if m.auditScope != nil {
		scope = fmt.Sprintf("few-shot %d", *m.auditScope)
	}

	lines := make([]string, 0, height)
	lines = append(lines, consoleSectionStyle.Render("audit trail · "+scope))

	switch m.auditState.state {
	case stateLoading:
		lines = append(lines, "", m.spin.View()+" loading audit trail...")
	case stateError:
		lines = append(lines, "", consoleErrStyle.Render("error: "+m.auditState.err.Error()))
	case stateData:
		lines = append(lines, m.viewAuditList(width, height)...)
	}

	lines = append(lines, "", consoleMutedStyle.Render("a toggle scope · esc back"))
	return strings.Join(lines, "\n")
}

func (m fewshotsModel) viewAuditList(width, height int) []string {
	if len(m.audits) == 0 {
		return []string{"", consoleMutedStyle.Render("no audit entries.")}
	}

	lines := []string{"", consoleMutedStyle.Render("    id  fewshot  action  changed by        at")}
	maxVisible := max(height-10, 4)
	start, end := visibleRange(len(m.audits), m.auditCursor, maxVisible)
	for i := start; i < end; i++ {
		audit := m.audits[i]
		cursor := " "
		if i == m.auditCursor {
			cursor = ">"
		}

		changedBy := audit.ChangedBy
		if changedBy == "" {
			changedBy = "-"
		}

		line := fmt.Sprintf("%s %5d  %7d  %s  %s  %s",
			cursor,
			audit.ID,
			audit.FewShotID,
			fitCell(string(audit.Action), 6),
			fitCell(changedBy, 16),
			consoleMutedStyle.Render(cliui.FormatTime(audit.CreatedAt.Time)),
		)
		if i == m.auditCursor {
			line = consoleHighlightStyle.Render(line)
		}
		lines = append(lines, line)
	}

	// Show the change snapshot for the selected row.
	selected := m.audits[m.auditCursor]
	lines = append(lines, "", renderSectionDivider(width, "change"))
	if len(selected.OldValue) > 0 {
		lines = append(lines, "  "+consoleLabelStyle.Render("old:")+" "+truncateText(string(selected.OldValue), max(width-8, 20)))
	}
	if len(selected.NewValue) > 0 {
		lines = append(lines, "  "+consoleLabelStyle.Render("new:")+" "+truncateText(string(selected.NewValue), max(width-8, 20)))
	}

	return lines
}
