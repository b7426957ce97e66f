package consolecmder

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	bubbletea "github.com/charmbracelet/bubbletea"

	"github.com/promptsteer/steer/pkg/adminapi"
	"github.com/promptsteer/steer/pkg/cliui"
)

type intentsMode int

const (
	intentsModeList intentsMode = iota
	intentsModeForm
	intentsModeConfirm
)

type intentsLoadedMsg struct {
	gen     int
	intents []adminapi.Intent
	err     error
}

type intentMutatedMsg struct {
	action string
	err    error
}

// intentForm drives both create and edit. A nil editingID means create.
type intentForm struct {
	keyword     textinput.Model
	priority    textinput.Model
	description textinput.Model
	intentType  adminapi.IntentType
	focus       int
	editingID   *int64
	problem     string
	submitting  bool
}

const intentFormFields = 4

type intentsModel struct {
	client  *adminapi.Client
	state   stateGen
	intents []adminapi.Intent
	cursor  int
	mode    intentsMode
	form    intentForm
	spin    spinner.Model
	notice  string
}

func newIntentsModel(client *adminapi.Client) intentsModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = consoleAccentStyle

	return intentsModel{
		client: client,
		spin:   spin,
	}
}

func (m intentsModel) capturing() bool {
	return m.mode != intentsModeList
}

func (m intentsModel) mount() (intentsModel, bubbletea.Cmd) {
	m.notice = ""
	gen := m.state.startFetch()
	return m, bubbletea.Batch(m.spin.Tick, fetchIntentsCmd(m.client, gen))
}

func fetchIntentsCmd(client *adminapi.Client, gen int) bubbletea.Cmd {
	return func() bubbletea.Msg {
		intents, err := client.ListIntents(context.Background())
		return intentsLoadedMsg{gen: gen, intents: intents, err: err}
	}
}

func (m intentsModel) update(msg bubbletea.Msg) (intentsModel, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.state.state != stateLoading {
			return m, nil
		}
		var cmd bubbletea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case intentsLoadedMsg:
		if !m.state.finish(msg.gen, msg.err) {
			return m, nil
		}
		if msg.err == nil {
			m.intents = msg.intents
			if len(m.intents) == 0 {
				m.cursor = 0
			} else {
				m.cursor = clamp(m.cursor, len(m.intents)-1)
			}
		}
		return m, nil
	case intentMutatedMsg:
		// A failed save keeps the form open with the draft intact so the
		// user can fix it and retry.
		if m.mode == intentsModeForm {
			m.form.submitting = false
			if msg.err != nil {
				m.form.problem = msg.err.Error()
				return m, nil
			}
			m.mode = intentsModeList
		}
		if msg.err != nil {
			m.notice = consoleErrStyle.Render(msg.err.Error())
			return m, nil
		}
		m.notice = consoleOKStyle.Render(msg.action)
		gen := m.state.startFetch()
		return m, bubbletea.Batch(m.spin.Tick, fetchIntentsCmd(m.client, gen))
	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m intentsModel) handleKey(msg bubbletea.KeyMsg) (intentsModel, bubbletea.Cmd) {
	switch m.mode {
	case intentsModeForm:
		return m.handleFormKey(msg)
	case intentsModeConfirm:
		return m.handleConfirmKey(msg)
	}

	switch msg.String() {
	case "j", "down":
		if len(m.intents) > 0 {
			m.cursor = clamp(m.cursor+1, len(m.intents)-1)
		}
	case "k", "up":
		if len(m.intents) > 0 {
			m.cursor = clamp(m.cursor-1, len(m.intents)-1)
		}
	case "n":
		m.mode = intentsModeForm
		m.form = newIntentForm(nil)
	case "e", "enter":
		if m.state.state == stateData && len(m.intents) > 0 {
			m.mode = intentsModeForm
			m.form = newIntentForm(&m.intents[m.cursor])
		}
	case "d":
		if m.state.state == stateData && len(m.intents) > 0 {
			m.mode = intentsModeConfirm
		}
	case "r":
		return m.mount()
	}

	return m, nil
}

func (m intentsModel) handleConfirmKey(msg bubbletea.KeyMsg) (intentsModel, bubbletea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = intentsModeList
		intent := m.intents[m.cursor]
		return m, deleteIntentCmd(m.client, intent.ID)
	case "n", "N", "esc":
		m.mode = intentsModeList
	}
	return m, nil
}

func (m intentsModel) handleFormKey(msg bubbletea.KeyMsg) (intentsModel, bubbletea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = intentsModeList
		return m, nil
	case "tab", "down":
		m.form = m.form.focusField((m.form.focus + 1) % intentFormFields)
		return m, nil
	case "shift+tab", "up":
		m.form = m.form.focusField((m.form.focus + intentFormFields - 1) % intentFormFields)
		return m, nil
	case "enter":
		if m.form.submitting {
			return m, nil
		}
		req, problem := m.form.build()
		if problem != "" {
			m.form.problem = problem
			return m, nil
		}
		m.form.problem = ""
		m.form.submitting = true
		if m.form.editingID != nil {
			return m, updateIntentCmd(m.client, *m.form.editingID, req)
		}
		return m, createIntentCmd(m.client, req)
	case "left", "right":
		if m.form.focus == 1 {
			m.form.intentType = cycleIntentType(m.form.intentType, msg.String() == "right")
			return m, nil
		}
	}

	var cmd bubbletea.Cmd
	switch m.form.focus {
	case 0:
		m.form.keyword, cmd = m.form.keyword.Update(msg)
	case 2:
		m.form.priority, cmd = m.form.priority.Update(msg)
	case 3:
		m.form.description, cmd = m.form.description.Update(msg)
	}
	return m, cmd
}

func newIntentForm(editing *adminapi.Intent) intentForm {
	keyword := textinput.New()
	keyword.Placeholder = "keyword"
	keyword.CharLimit = 64
	keyword.Focus()

	priority := textinput.New()
	priority.Placeholder = "0"
	priority.CharLimit = 5

	description := textinput.New()
	description.Placeholder = "description (optional)"
	description.CharLimit = 200

	form := intentForm{
		keyword:     keyword,
		priority:    priority,
		description: description,
		intentType:  adminapi.IntentRAGSearch,
	}

	if editing != nil {
		id := editing.ID
		form.editingID = &id
		form.keyword.SetValue(editing.Keyword)
		form.priority.SetValue(strconv.Itoa(editing.Priority))
		form.description.SetValue(editing.Description)
		if editing.IntentType != "" {
			form.intentType = editing.IntentType
		}
	}

	return form
}

func (f intentForm) focusField(idx int) intentForm {
	f.focus = idx
	f.keyword.Blur()
	f.priority.Blur()
	f.description.Blur()
	switch idx {
	case 0:
		f.keyword.Focus()
	case 2:
		f.priority.Focus()
	case 3:
		f.description.Focus()
	}
	return f
}

// build validates the form and returns the request to send.
func (f intentForm) build() (adminapi.IntentRequest, string) {
	keyword := strings.TrimSpace(f.keyword.Value())
	if keyword == "" {
		return adminapi.IntentRequest{}, "keyword is required"
	}

	priority := 0
	if raw := strings.TrimSpace(f.priority.Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 10 {
			return adminapi.IntentRequest{}, "priority must be an integer between 0 and 10"
		}
		priority = parsed
	}

	return adminapi.IntentRequest{
		Keyword:     keyword,
		IntentType:  f.intentType,
		Priority:    priority,
		Description: strings.TrimSpace(f.description.Value()),
	}, ""
}

func cycleIntentType(current adminapi.IntentType, forward bool) adminapi.IntentType {
	types := adminapi.KnownIntentTypes()
	idx := 0
	for i, t := range types {
		if t == current {
			idx = i
		}
	}
	if forward {
		idx = (idx + 1) % len(types)
	} else {
		idx = (idx + len(types) - 1) % len(types)
	}
	return types[idx]
}

func createIntentCmd(client *adminapi.Client, req adminapi.IntentRequest) bubbletea.Cmd {
	return func() bubbletea.Msg {
		_, err := client.CreateIntent(context.Background(), req)
		return intentMutatedMsg{action: "intent created", err: err}
	}
}

func updateIntentCmd(client *adminapi.Client, id int64, req adminapi.IntentRequest) bubbletea.Cmd {
	return func() bubbletea.Msg {
		_, err := client.UpdateIntent(context.Background(), id, req)
		return intentMutatedMsg{action: "intent updated", err: err}
	}
}

func deleteIntentCmd(client *adminapi.Client, id int64) bubbletea.Cmd {
	return func() bubbletea.Msg {
		err := client.DeleteIntent(context.Background(), id)
		return intentMutatedMsg{action: "intent deleted", err: err}
	}
}

func (m intentsModel) view(width, height int) string {
	lines := make([]string, 0, height)
	lines = append(lines, consoleSectionStyle.Render(fmt.Sprintf("intent mappings (%d)", len(m.intents))))

	switch m.state.state {
	case stateLoading:
		lines = append(lines, "", m.spin.View()+" loading intents...")
	case stateError:
		lines = append(lines, "", consoleErrStyle.Render("error: "+m.state.err.Error()), consoleMutedStyle.Render("press r to retry"))
	case stateData:
		lines = append(lines, m.viewList(width, height)...)
	}

	if m.notice != "" {
		lines = append(lines, "", m.notice)
	}

	switch m.mode {
	case intentsModeForm:
		lines = append(lines, "", m.viewForm(width))
	case intentsModeConfirm:
		intent := m.intents[m.cursor]
		lines = append(lines, "", consoleWarnStyle.Render(fmt.Sprintf("delete intent %q? (y/n)", intent.Keyword)))
	default:
		lines = append(lines, "", consoleMutedStyle.Render("n new · e edit · d delete · r refresh"))
	}

	return strings.Join(lines, "\n")
}

func (m intentsModel) viewList(width, height int) []string {
	if len(m.intents) == 0 {
		return []string{"", consoleMutedStyle.Render("no intents yet. press n to create the first mapping.")}
	}

	lines := []string{consoleMutedStyle.Render("    id  keyword               type          pri  description                    updated")}
	maxVisible := max(height-8, 4)
	start, end := visibleRange(len(m.intents), m.cursor, maxVisible)
	for i := start; i < end; i++ {
		intent := m.intents[i]
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		line := fmt.Sprintf("%s %5d  %s  %s  %3d  %s  %s",
			cursor,
			intent.ID,
			fitCell(intent.Keyword, 20),
			fitCell(intent.IntentType.Label(), 12),
			intent.Priority,
			fitCell(intent.Description, 30),
			consoleMutedStyle.Render(cliui.FormatTime(intent.UpdatedAt.Time)),
		)
		if i == m.cursor {
			line = consoleHighlightStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return lines
}

func (m intentsModel) viewForm(width int) string {
	title := "new intent"
	if m.form.editingID != nil {
		title = fmt.Sprintf("edit intent %d", *m.form.editingID)
	}

	typeValue := m.form.intentType.Label()
	if m.form.focus == 1 {
		typeValue = consoleAccentStyle.Render("< " + typeValue + " >")
	}

	lines := []string{
		renderSectionDivider(width, title),
		fmt.Sprintf("  %s %s", consoleLabelStyle.Render("keyword:    "), m.form.keyword.View()),
		fmt.Sprintf("  %s %s", consoleLabelStyle.Render("type:       "), typeValue),
		fmt.Sprintf("  %s %s", consoleLabelStyle.Render("priority:   "), m.form.priority.View()),
		fmt.Sprintf("  %s %s", consoleLabelStyle.Render("description:"), m.form.description.View()),
	}

	if m.form.problem != "" {
		lines = append(lines, "  "+consoleErrStyle.Render(m.form.problem))
	}
	hint := "  tab next field · ←/→ cycle type · enter save · esc cancel"
	if m.form.submitting {
		hint = "  saving..."
	}
	lines = append(lines, consoleMutedStyle.Render(hint))

	return strings.Join(lines, "\n")
}
