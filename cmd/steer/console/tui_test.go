package consolecmder

import (
	"github.com/charmbracelet/bubbles/spinner"
	bubbletea "github.com/charmbracelet/bubbletea"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/promptsteer/steer/pkg/adminapi"
)

// drive executes a command tree synchronously, feeding every resulting
// message back into the model until no commands remain. Spinner animation
// frames are dropped so the loop terminates.
func drive(model bubbletea.Model, cmd bubbletea.Cmd) bubbletea.Model {
	queue := []bubbletea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg := next()
		if msg == nil {
			continue
		}

		switch msg := msg.(type) {
		case bubbletea.BatchMsg:
			queue = append(queue, msg...)
		case spinner.TickMsg:
		case bubbletea.QuitMsg:
		default:
			var cmd bubbletea.Cmd
			model, cmd = model.Update(msg)
			queue = append(queue, cmd)
		}
	}
	return model
}

func keyMsg(k string) bubbletea.KeyMsg {
	switch k {
	case "enter":
		return bubbletea.KeyMsg{Type: bubbletea.KeyEnter}
	case "esc":
		return bubbletea.KeyMsg{Type: bubbletea.KeyEsc}
	case "tab":
		return bubbletea.KeyMsg{Type: bubbletea.KeyTab}
	case "shift+tab":
		return bubbletea.KeyMsg{Type: bubbletea.KeyShiftTab}
	case "ctrl+s":
		return bubbletea.KeyMsg{Type: bubbletea.KeyCtrlS}
	case "ctrl+c":
		return bubbletea.KeyMsg{Type: bubbletea.KeyCtrlC}
	case "space":
		return bubbletea.KeyMsg{Type: bubbletea.KeySpace}
	case "up":
		return bubbletea.KeyMsg{Type: bubbletea.KeyUp}
	case "down":
		return bubbletea.KeyMsg{Type: bubbletea.KeyDown}
	case "left":
		return bubbletea.KeyMsg{Type: bubbletea.KeyLeft}
	case "right":
		return bubbletea.KeyMsg{Type: bubbletea.KeyRight}
	}
	return bubbletea.KeyMsg{Type: bubbletea.KeyRunes, Runes: []rune(k)}
}

// press delivers key presses one at a time, running any commands each
// press produces.
func press(model bubbletea.Model, keys ...string) bubbletea.Model {
	for _, k := range keys {
		var cmd bubbletea.Cmd
		model, cmd = model.Update(keyMsg(k))
		model = drive(model, cmd)
	}
	return model
}

// typeText delivers a string as individual rune presses.
func typeText(model bubbletea.Model, text string) bubbletea.Model {
	for _, r := range text {
		model = press(model, string(r))
	}
	return model
}

func startConsole(backend *fakeBackend, tab consoleTab) bubbletea.Model {
	client := adminapi.NewClient(backend.url(), 0, nil)
	model := newConsoleModel(client, tab, 100)
	var asModel bubbletea.Model = model
	asModel, _ = asModel.Update(bubbletea.WindowSizeMsg{Width: 120, Height: 40})
	return drive(asModel, model.Init())
}

var _ = Describe("Console shell", func() {
	var backend *fakeBackend

	BeforeEach(func() {
		backend = newFakeBackend()
	})

	AfterEach(func() {
		backend.close()
	})

	Describe("parseTab", func() {
		It("maps names to tabs and defaults to intents", func() {
			tab, err := parseTab("")
			Expect(err).NotTo(HaveOccurred())
			Expect(tab).To(Equal(tabIntents))

			tab, err = parseTab("dashboard")
			Expect(err).NotTo(HaveOccurred())
			Expect(tab).To(Equal(tabDashboard))
		})

		It("rejects unknown names", func() {
			_, err := parseTab("settings")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unknown tab"))
		})
	})

	Describe("tab switching", func() {
		It("fetches the new tab's data when switching", func() {
			backend.addIntent("refund", adminapi.IntentRAGSearch, 5)
			model := startConsole(backend, tabIntents)

			Expect(backend.countRequests("GET", "/api/query-logs/")).To(Equal(0))
			model = press(model, "2")
			Expect(backend.countRequests("GET", "/api/query-logs/")).To(Equal(1))
			Expect(backend.countRequests("GET", "/api/query-logs/stats/summary")).To(Equal(1))
			Expect(model.(consoleModel).tab).To(Equal(tabQueryLogs))
		})

		It("refetches when returning to a previously visited tab", func() {
			model := startConsole(backend, tabIntents)
			Expect(backend.countRequests("GET", "/api/intent/")).To(Equal(1))

			model = press(model, "4", "1")
			Expect(backend.countRequests("GET", "/api/intent/")).To(Equal(2))
			Expect(model.(consoleModel).tab).To(Equal(tabIntents))
		})

		It("starts on the requested tab", func() {
			backend.addDocument("d1", "hello world", "notes.txt", 500)
			model := startConsole(backend, tabDashboard)

			Expect(model.(consoleModel).tab).To(Equal(tabDashboard))
			Expect(backend.countRequests("GET", "/api/upload/documents")).To(Equal(1))
			Expect(backend.countRequests("GET", "/api/upload/stats")).To(Equal(1))
		})
	})

	Describe("layout helpers", func() {
		It("clamps the visible range around the cursor", func() {
			start, end := visibleRange(10, 5, 4)
			Expect(end - start).To(Equal(4))
			Expect(start).To(BeNumerically("<=", 5))
			Expect(end).To(BeNumerically(">", 5))

			start, end = visibleRange(3, 0, 10)
			Expect(start).To(Equal(0))
			Expect(end).To(Equal(3))
		})

		It("truncates long cells", func() {
			Expect(truncateText("abcdefghij", 6)).To(Equal("abc..."))
			Expect(truncateText("abc", 6)).To(Equal("abc"))
		})

		It("wraps text at word boundaries", func() {
			lines := wrapText("one two three four", 9)
			Expect(lines).To(Equal([]string{"one two", "three", "four"}))
		})
	})
})
