package consolecmder

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Dashboard screen", func() {
	var backend *fakeBackend

	BeforeEach(func() {
		backend = newFakeBackend()
	})

	AfterEach(func() {
		backend.close()
	})

	It("issues two independent fetches on mount", func() {
		backend.addDocument("d1", "alpha beta", "notes.txt", 500)
		model := startConsole(backend, tabDashboard)

		Expect(backend.countRequests("GET", "/api/upload/stats")).To(Equal(1))
		Expect(backend.countRequests("GET", "/api/upload/documents")).To(Equal(1))
		Expect(model.View()).To(ContainSubstring("notes.txt"))
	})

	It("shows collection metadata and formatted sizes", func() {
		backend.addDocument("d1", "alpha", "small.txt", 500)
		backend.addDocument("d2", "beta", "medium.pdf", 2048)
		backend.addDocument("d3", "gamma", "large.pdf", 5242880)

		model := startConsole(backend, tabDashboard)
		view := model.View()
		Expect(view).To(ContainSubstring("documents"))
		Expect(view).To(ContainSubstring("1536"))
		Expect(view).To(ContainSubstring("Cosine"))
		Expect(view).To(ContainSubstring("500 B"))
		Expect(view).To(ContainSubstring("2.00 KB"))
		Expect(view).To(ContainSubstring("5.00 MB"))
	})

	It("renders a dash for documents with no size metadata", func() {
		backend.addDocument("d1", "alpha", "unsized.txt", 0)
		model := startConsole(backend, tabDashboard)
		Expect(model.View()).To(ContainSubstring("unsized.txt"))
		Expect(model.View()).To(ContainSubstring("-"))
	})

	It("falls back to a truncated id when no filename is stored", func() {
		backend.addDocument("abcdefghijklmnop", "alpha", "", 100)
		model := startConsole(backend, tabDashboard)
		Expect(model.View()).To(ContainSubstring("abcdefghijkl"))
	})

	It("shows an empty state when the store has no documents", func() {
		model := startConsole(backend, tabDashboard)
		Expect(model.View()).To(ContainSubstring("no documents indexed yet"))
	})

	It("keeps the document list when the collection fetch fails", func() {
		backend.addDocument("d1", "alpha", "notes.txt", 500)
		backend.failPath("/api/upload/stats")

		model := startConsole(backend, tabDashboard)
		view := model.View()
		Expect(view).To(ContainSubstring("collection:"))
		Expect(view).To(ContainSubstring("notes.txt"))
	})

	It("opens the detail view without issuing another fetch", func() {
		backend.addDocument("d1", "first line contents here", "notes.txt", 500)
		model := startConsole(backend, tabDashboard)

		model = press(model, "enter")
		Expect(backend.countRequests("GET", "/api/upload/documents/d1")).To(Equal(0))
		view := model.View()
		Expect(view).To(ContainSubstring("document · notes.txt"))
		Expect(view).To(ContainSubstring("first line contents here"))

		model = press(model, "esc")
		Expect(model.View()).To(ContainSubstring("vector store"))
		Expect(backend.countRequests("GET", "/api/upload/documents")).To(Equal(1))
	})

	It("deletes a document after confirmation and refetches both panels", func() {
		backend.addDocument("d1", "alpha", "notes.txt", 500)
		model := startConsole(backend, tabDashboard)

		model = press(model, "d")
		Expect(model.View()).To(ContainSubstring(`delete document "notes.txt"?`))

		model = press(model, "y")
		Expect(backend.countRequests("DELETE", "/api/upload/documents/d1")).To(Equal(1))
		Expect(backend.countRequests("GET", "/api/upload/stats")).To(Equal(2))
		Expect(backend.countRequests("GET", "/api/upload/documents")).To(Equal(2))
		Expect(model.View()).To(ContainSubstring("no documents indexed yet"))
	})

	It("sends nothing when the delete is declined", func() {
		backend.addDocument("d1", "alpha", "notes.txt", 500)
		model := startConsole(backend, tabDashboard)

		model = press(model, "d", "n")
		Expect(backend.countRequests("DELETE", "/api/upload/documents/d1")).To(Equal(0))
	})
})
