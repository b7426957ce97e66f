package consolecmder

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/promptsteer/steer/pkg/adminapi"
)

var _ = Describe("Intents screen", func() {
	var backend *fakeBackend

	BeforeEach(func() {
		backend = newFakeBackend()
	})

	AfterEach(func() {
		backend.close()
	})

	It("lists intents on mount", func() {
		backend.addIntent("refund", adminapi.IntentRAGSearch, 10)
		backend.addIntent("weather", adminapi.IntentGeneral, 0)

		model := startConsole(backend, tabIntents)
		view := model.View()
		Expect(view).To(ContainSubstring("intent mappings (2)"))
		Expect(view).To(ContainSubstring("refund"))
		Expect(view).To(ContainSubstring("weather"))
	})

	It("shows an empty state when no intents exist", func() {
		model := startConsole(backend, tabIntents)
		Expect(model.View()).To(ContainSubstring("no intents yet"))
	})

	It("creates an intent and refetches the list", func() {
		model := startConsole(backend, tabIntents)

		model = press(model, "n")
		model = typeText(model, "refund")
		model = press(model, "tab", "right") // cycle type to sql_query
		model = press(model, "tab")
		model = typeText(model, "5")
		model = press(model, "enter")

		Expect(backend.countRequests("POST", "/api/intent/")).To(Equal(1))
		// Fire-and-refetch: the mount fetch plus the post-create fetch.
		Expect(backend.countRequests("GET", "/api/intent/")).To(Equal(2))

		view := model.View()
		Expect(view).To(ContainSubstring("refund"))
		Expect(view).To(ContainSubstring("SQL query"))
		Expect(view).To(ContainSubstring("intent created"))
	})

	It("rejects a form with no keyword and sends nothing", func() {
		model := startConsole(backend, tabIntents)

		model = press(model, "n", "enter")
		Expect(model.View()).To(ContainSubstring("keyword is required"))
		Expect(backend.countRequests("POST", "/api/intent/")).To(Equal(0))
	})

	It("rejects a non-numeric priority", func() {
		model := startConsole(backend, tabIntents)

		model = press(model, "n")
		model = typeText(model, "refund")
		model = press(model, "tab", "tab")
		model = typeText(model, "-")
		model = press(model, "enter")

		Expect(model.View()).To(ContainSubstring("priority must be an integer between 0 and 10"))
		Expect(backend.countRequests("POST", "/api/intent/")).To(Equal(0))
	})

	It("rejects a priority above 10", func() {
		model := startConsole(backend, tabIntents)

		model = press(model, "n")
		model = typeText(model, "refund")
		model = press(model, "tab", "tab")
		model = typeText(model, "11")
		model = press(model, "enter")

		Expect(model.View()).To(ContainSubstring("priority must be an integer between 0 and 10"))
		Expect(backend.countRequests("POST", "/api/intent/")).To(Equal(0))
	})

	It("keeps the form and draft when the backend rejects the save", func() {
		backend.failRequest("POST", "/api/intent/")
		model := startConsole(backend, tabIntents)

		model = press(model, "n")
		model = typeText(model, "refund")
		model = press(model, "enter")

		Expect(backend.countRequests("POST", "/api/intent/")).To(Equal(1))
		view := model.View()
		Expect(view).To(ContainSubstring("keyword:"))
		Expect(view).To(ContainSubstring("refund"))
		Expect(view).To(ContainSubstring("Internal Server Error"))

		// The draft is still live, so a retry sends a second request.
		backend.mu.Lock()
		delete(backend.failingReqs, "POST /api/intent/")
		backend.mu.Unlock()

		model = press(model, "enter")
		Expect(backend.countRequests("POST", "/api/intent/")).To(Equal(2))
		Expect(model.View()).To(ContainSubstring("intent created"))
	})

	It("edits the selected intent", func() {
		backend.addIntent("refund", adminapi.IntentRAGSearch, 10)
		model := startConsole(backend, tabIntents)

		model = press(model, "e")
		model = typeText(model, "s") // append to the prefilled keyword
		model = press(model, "enter")

		Expect(backend.countRequests("PUT", "/api/intent/1")).To(Equal(1))
		Expect(model.View()).To(ContainSubstring("refunds"))
	})

	It("does not delete when the confirmation is declined", func() {
		backend.addIntent("refund", adminapi.IntentRAGSearch, 10)
		model := startConsole(backend, tabIntents)

		model = press(model, "d")
		Expect(model.View()).To(ContainSubstring(`delete intent "refund"?`))

		model = press(model, "n")
		Expect(backend.countRequests("DELETE", "/api/intent/1")).To(Equal(0))
		Expect(model.View()).To(ContainSubstring("refund"))
	})

	It("deletes after confirmation and refetches", func() {
		backend.addIntent("refund", adminapi.IntentRAGSearch, 10)
		model := startConsole(backend, tabIntents)

		model = press(model, "d", "y")
		Expect(backend.countRequests("DELETE", "/api/intent/1")).To(Equal(1))
		Expect(model.View()).To(ContainSubstring("no intents yet"))
	})

	It("surfaces a backend error and offers a retry", func() {
		backend.addIntent("refund", adminapi.IntentRAGSearch, 10)
		model := startConsole(backend, tabIntents)
		backend.close()

		model = press(model, "r")
		Expect(model.View()).To(ContainSubstring("error:"))
		Expect(model.View()).To(ContainSubstring("press r to retry"))
	})

	It("drops responses from superseded fetches", func() {
		client := adminapi.NewClient(backend.url(), 0, nil)
		screen := newIntentsModel(client)
		screen, _ = screen.mount()
		screen, _ = screen.mount()

		stale := intentsLoadedMsg{gen: 1, intents: []adminapi.Intent{{ID: 99, Keyword: "stale"}}}
		screen, _ = screen.update(stale)
		Expect(screen.state.state).To(Equal(stateLoading))
		Expect(screen.intents).To(BeEmpty())

		current := intentsLoadedMsg{gen: 2, intents: []adminapi.Intent{{ID: 1, Keyword: "fresh"}}}
		screen, _ = screen.update(current)
		Expect(screen.state.state).To(Equal(stateData))
		Expect(screen.intents).To(HaveLen(1))
		Expect(screen.intents[0].Keyword).To(Equal("fresh"))
	})

	It("keeps the cursor in range after the list shrinks", func() {
		backend.addIntent("a", adminapi.IntentGeneral, 0)
		backend.addIntent("b", adminapi.IntentGeneral, 0)
		backend.addIntent("c", adminapi.IntentGeneral, 0)
		model := startConsole(backend, tabIntents)

		model = press(model, "j", "j") // cursor on "c"
		model = press(model, "d", "y")
		console := model.(consoleModel)
		Expect(console.intents.cursor).To(Equal(1))
	})
})
