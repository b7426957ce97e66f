package docscmder

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/promptsteer/steer/pkg/adminapi"
)

// fakeConfirmer records the prompt it was asked and answers a fixed way.
type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (c *fakeConfirmer) Confirm(prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}

type docsBackend struct {
	server *httptest.Server

	mu      sync.Mutex
	docs    []adminapi.Document
	deleted []string
}

func newDocsBackend(docs ...adminapi.Document) *docsBackend {
	backend := &docsBackend{docs: docs}
	backend.server = httptest.NewServer(http.HandlerFunc(backend.handle))
	return backend
}

func (b *docsBackend) handle(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	writeJSON := func(status int, body any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}

	switch {
	case r.URL.Path == "/api/upload/documents" && r.Method == http.MethodGet:
		writeJSON(http.StatusOK, adminapi.DocumentList{
			Total:     len(b.docs),
			Limit:     len(b.docs),
			Documents: b.docs,
		})
	case strings.HasPrefix(r.URL.Path, "/api/upload/documents/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/upload/documents/")
		for i, doc := range b.docs {
			if doc.ID != id {
				continue
			}
			if r.Method == http.MethodDelete {
				b.deleted = append(b.deleted, id)
				b.docs = append(b.docs[:i], b.docs[i+1:]...)
				writeJSON(http.StatusOK, map[string]string{"status": "deleted"})
				return
			}
			writeJSON(http.StatusOK, doc)
			return
		}
		writeJSON(http.StatusNotFound, map[string]string{"detail": "Document not found"})
	default:
		writeJSON(http.StatusNotFound, map[string]string{"detail": "Not Found"})
	}
}

func (b *docsBackend) client() *adminapi.Client {
	return adminapi.NewClient(b.server.URL, time.Second, nil)
}

func docFixture(id, filename, text string, size int64) adminapi.Document {
	return adminapi.Document{
		ID:   id,
		Text: text,
		Metadata: adminapi.DocumentMetadata{
			Filename: filename,
			FileSize: size,
		},
	}
}

var _ = Describe("Docs Commands", func() {
	var backend *docsBackend

	AfterEach(func() {
		if backend != nil {
			backend.server.Close()
			backend = nil
		}
	})

	It("registers the list, show and delete subcommands", func() {
		cmd := NewDocsCmd()
		Expect(cmd.Use).To(Equal("docs"))

		names := []string{}
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("list", "show", "delete"))
	})

	Describe("list", func() {
		It("prints one row per document with size and name", func() {
			backend = newDocsBackend(
				docFixture("d1", "notes.md", "# Notes", 500),
				docFixture("d2", "", "raw text", 2048),
			)

			var out bytes.Buffer
			Expect(runList(&out, backend.client(), 100)).To(Succeed())

			report := out.String()
			Expect(report).To(ContainSubstring("notes.md"))
			Expect(report).To(ContainSubstring("500 B"))
			Expect(report).To(ContainSubstring("2.00 KB"))
			Expect(report).To(ContainSubstring("d2"))
			Expect(report).To(ContainSubstring("2 of 2 documents"))
		})

		It("prints an empty notice when nothing is indexed", func() {
			backend = newDocsBackend()

			var out bytes.Buffer
			Expect(runList(&out, backend.client(), 100)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("No documents indexed."))
		})
	})

	Describe("show", func() {
		It("prints the document header and raw text", func() {
			backend = newDocsBackend(docFixture("d1", "policy.txt", "refunds take 5 days", 19))

			var out bytes.Buffer
			Expect(runShow(&out, backend.client(), "d1", true)).To(Succeed())

			report := out.String()
			Expect(report).To(ContainSubstring("policy.txt"))
			Expect(report).To(ContainSubstring("19 B"))
			Expect(report).To(ContainSubstring("refunds take 5 days"))
		})

		It("surfaces the backend detail for unknown ids", func() {
			backend = newDocsBackend()

			var out bytes.Buffer
			err := runShow(&out, backend.client(), "missing", true)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Document not found"))
		})
	})

	Describe("delete", func() {
		It("deletes after confirmation, naming the document in the prompt", func() {
			backend = newDocsBackend(docFixture("d1", "old.txt", "stale", 5))
			confirmer := &fakeConfirmer{answer: true}

			var out bytes.Buffer
			Expect(runDelete(&out, backend.client(), "d1", confirmer)).To(Succeed())

			Expect(confirmer.prompts).To(HaveLen(1))
			Expect(confirmer.prompts[0]).To(ContainSubstring("old.txt"))
			Expect(backend.deleted).To(Equal([]string{"d1"}))
			Expect(out.String()).To(ContainSubstring("deleted old.txt"))
		})

		It("sends nothing when the confirmation is declined", func() {
			backend = newDocsBackend(docFixture("d1", "old.txt", "stale", 5))
			confirmer := &fakeConfirmer{answer: false}

			var out bytes.Buffer
			Expect(runDelete(&out, backend.client(), "d1", confirmer)).To(Succeed())

			Expect(backend.deleted).To(BeEmpty())
			Expect(out.String()).To(ContainSubstring("Aborted."))
		})

		It("deletes without a prompt when no confirmer is wired", func() {
			backend = newDocsBackend(docFixture("d1", "old.txt", "stale", 5))

			var out bytes.Buffer
			Expect(runDelete(&out, backend.client(), "d1", nil)).To(Succeed())
			Expect(backend.deleted).To(Equal([]string{"d1"}))
		})
	})
})
