package consolecmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	bubbletea "github.com/charmbracelet/bubbletea"

	"github.com/promptsteer/steer/pkg/adminapi"
	"github.com/promptsteer/steer/pkg/cliui"
)

type dashboardMode int

const (
	dashboardModeList dashboardMode = iota
	dashboardModeDetail
	dashboardModeConfirm
)

type collectionLoadedMsg struct {
	gen  int
	info *adminapi.CollectionInfo
	err  error
}

type documentsLoadedMsg struct {
	gen  int
	list *adminapi.DocumentList
	err  error
}

type documentMutatedMsg struct {
	action string
	err    error
}

// dashboardModel is the vector store tab. Collection info and the document
// list load independently; either side can fail without blanking the other.
type dashboardModel struct {
	client *adminapi.Client
	limit  int

	infoState stateGen
	info      *adminapi.CollectionInfo

	docsState stateGen
	list      *adminapi.DocumentList
	cursor    int

	// The detail view is a projection of the fetched list row; opening it
	// issues no request.
	mode      dashboardMode
	detailTop int

	spin   spinner.Model
	notice string
}

func newDashboardModel(client *adminapi.Client, limit int) dashboardModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = consoleAccentStyle

	return dashboardModel{
		client: client,
		limit:  limit,
		spin:   spin,
	}
}

func (m dashboardModel) capturing() bool {
	return m.mode != dashboardModeList
}

func (m dashboardModel) mount() (dashboardModel, bubbletea.Cmd) {
	m.notice = ""
	infoGen := m.infoState.startFetch()
	docsGen := m.docsState.startFetch()
	return m, bubbletea.Batch(
		m.spin.Tick,
		fetchCollectionCmd(m.client, infoGen),
		fetchDocumentsCmd(m.client, uint(m.limit), docsGen),
	)
}

func fetchCollectionCmd(client *adminapi.Client, gen int) bubbletea.Cmd {
	return func() bubbletea.Msg {
		info, err := client.CollectionStats(context.Background())
		return collectionLoadedMsg{gen: gen, info: info, err: err}
	}
}

func fetchDocumentsCmd(client *adminapi.Client, limit uint, gen int) bubbletea.Cmd {
	return func() bubbletea.Msg {
		list, err := client.ListDocuments(context.Background(), limit)
		return documentsLoadedMsg{gen: gen, list: list, err: err}
	}
}

func deleteDocumentCmd(client *adminapi.Client, id string) bubbletea.Cmd {
	return func() bubbletea.Msg {
		err := client.DeleteDocument(context.Background(), id)
		return documentMutatedMsg{action: "document deleted", err: err}
	}
}

func (m dashboardModel) update(msg bubbletea.Msg) (dashboardModel, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.infoState.state != stateLoading && m.docsState.state != stateLoading {
			return m, nil
		}
		var cmd bubbletea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case collectionLoadedMsg:
		if !m.infoState.finish(msg.gen, msg.err) {
			return m, nil
		}
		if msg.err == nil {
			m.info = msg.info
		}
		return m, nil
	case documentsLoadedMsg:
		if !m.docsState.finish(msg.gen, msg.err) {
			return m, nil
		}
		if msg.err == nil {
			m.list = msg.list
			if len(m.list.Documents) == 0 {
				m.cursor = 0
			} else {
				m.cursor = clamp(m.cursor, len(m.list.Documents)-1)
			}
		}
		return m, nil
	case documentMutatedMsg:
		if msg.err != nil {
			m.notice = consoleErrStyle.Render(msg.err.Error())
			return m, nil
		}
		m.notice = consoleOKStyle.Render(msg.action)
		return m.mount()
	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m dashboardModel) handleKey(msg bubbletea.KeyMsg) (dashboardModel, bubbletea.Cmd) {
	switch m.mode {
	case dashboardModeDetail:
		return m.handleDetailKey(msg)
	case dashboardModeConfirm:
		return m.handleConfirmKey(msg)
	}

	switch msg.String() {
	case "j", "down":
		if m.docCount() > 0 {
			m.cursor = clamp(m.cursor+1, m.docCount()-1)
		}
	case "k", "up":
		if m.docCount() > 0 {
			m.cursor = clamp(m.cursor-1, m.docCount()-1)
		}
	case "enter", "l":
		if m.docsState.state == stateData && m.docCount() > 0 {
			m.mode = dashboardModeDetail
			m.detailTop = 0
		}
	case "d":
		if m.docsState.state == stateData && m.docCount() > 0 {
			m.mode = dashboardModeConfirm
		}
	case "r":
		return m.mount()
	}

	return m, nil
}

func (m dashboardModel) handleDetailKey(msg bubbletea.KeyMsg) (dashboardModel, bubbletea.Cmd) {
	switch msg.String() {
	case "esc", "q", "h":
		m.mode = dashboardModeList
	case "j", "down":
		m.detailTop++
	case "k", "up":
		if m.detailTop > 0 {
			m.detailTop--
		}
	}
	return m, nil
}

func (m dashboardModel) handleConfirmKey(msg bubbletea.KeyMsg) (dashboardModel, bubbletea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = dashboardModeList
		doc := m.list.Documents[m.cursor]
		return m, deleteDocumentCmd(m.client, doc.ID)
	case "n", "N", "esc":
		m.mode = dashboardModeList
	}
	return m, nil
}

func (m dashboardModel) docCount() int {
	if m.list == nil {
		return 0
	}
	return len(m.list.Documents)
}

func (m dashboardModel) view(width, height int) string {
	if m.mode == dashboardModeDetail {
		return m.viewDetail(width, height)
	}

	lines := make([]string, 0, height)
	lines = append(lines, consoleSectionStyle.Render("vector store"))
	lines = append(lines, m.viewCollection(width))

	switch m.docsState.state {
	case stateLoading:
		lines = append(lines, "", m.spin.View()+" loading documents...")
	case stateError:
		lines = append(lines, "", consoleErrStyle.Render("documents: "+m.docsState.err.Error()), consoleMutedStyle.Render("press r to retry"))
	case stateData:
		lines = append(lines, m.viewDocuments(width, height)...)
	}

	if m.notice != "" {
		lines = append(lines, "", m.notice)
	}

	switch m.mode {
	case dashboardModeConfirm:
		doc := m.list.Documents[m.cursor]
		lines = append(lines, "", consoleWarnStyle.Render(fmt.Sprintf("delete document %q? (y/n)", doc.DisplayName())))
	default:
		lines = append(lines, "", consoleMutedStyle.Render("enter view · d delete · r refresh"))
	}

	return strings.Join(lines, "\n")
}

func (m dashboardModel) viewCollection(width int) string {
	switch m.infoState.state {
	case stateLoading:
		return consoleMutedStyle.Render("collection: loading...")
	case stateError:
		return consoleErrStyle.Render("collection: " + m.infoState.err.Error())
	}
	if m.info == nil {
		return consoleMutedStyle.Render("collection: no data")
	}

	return truncateText(fmt.Sprintf("%s %s  %s %d  %s %d  %s %s",
		consoleLabelStyle.Render("collection"), m.info.Name,
		consoleLabelStyle.Render("points"), m.info.PointsCount,
		consoleLabelStyle.Render("dims"), m.info.VectorSize,
		consoleLabelStyle.Render("distance"), m.info.Distance,
	), max(width, 40))
}

func (m dashboardModel) viewDocuments(width, height int) []string {
	if m.docCount() == 0 {
		return []string{"", consoleMutedStyle.Render("no documents indexed yet.")}
	}

	header := fmt.Sprintf("documents (%d of %d)", m.docCount(), m.list.Total)
	lines := []string{"", consoleSectionStyle.Render(header)}
	lines = append(lines, consoleMutedStyle.Render("    name                          size       uploaded             preview"))
	maxVisible := max(height-10, 4)
	start, end := visibleRange(m.docCount(), m.cursor, maxVisible)
	for i := start; i < end; i++ {
		doc := m.list.Documents[i]
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		line := fmt.Sprintf("%s %s  %s  %s  %s",
			cursor,
			fitCell(doc.DisplayName(), 28),
			fitCell(cliui.FormatFileSize(doc.Metadata.FileSize), 9),
			fitCell(cliui.FormatTime(doc.Metadata.UploadTime.Time), 19),
			consoleMutedStyle.Render(doc.Preview(max(width-70, 16))),
		)
		if i == m.cursor {
			line = consoleHighlightStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return lines
}

func (m dashboardModel) viewDetail(width, height int) string {
	if m.docCount() == 0 {
		return consoleMutedStyle.Render("document is no longer in the list. press esc to go back.")
	}

	doc := m.list.Documents[m.cursor]
	lines := make([]string, 0, height)
	lines = append(lines, consoleSectionStyle.Render("document · "+doc.DisplayName()))
	lines = append(lines, consoleMutedStyle.Render(fmt.Sprintf("id %s · %s · uploaded %s",
		doc.ID,
		cliui.FormatFileSize(doc.Metadata.FileSize),
		cliui.FormatTime(doc.Metadata.UploadTime.Time),
	)))
	lines = append(lines, renderRule(width))

	body := wrapText(doc.Text, max(width-4, 20))
	maxVisible := max(height-6, 4)
	top := clamp(m.detailTop, max(len(body)-maxVisible, 0))
	bottom := min(top+maxVisible, len(body))
	for _, bodyLine := range body[top:bottom] {
		lines = append(lines, "  "+bodyLine)
	}
	if bottom < len(body) {
		lines = append(lines, consoleMutedStyle.Render(fmt.Sprintf("  ... %d more lines", len(body)-bottom)))
	}

	lines = append(lines, "", consoleMutedStyle.Render("j/k scroll · esc back"))
	return strings.Join(lines, "\n")
}
