package statuscmder

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/promptsteer/steer/pkg/adminapi"
)

func newStatusBackend(failStats bool, failCollection bool) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON := func(status int, body any) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(body)
		}

		switch r.URL.Path {
		case "/api/query-logs/stats/summary":
			if failStats {
				writeJSON(http.StatusInternalServerError, map[string]string{"detail": "Internal Server Error"})
				return
			}
			writeJSON(http.StatusOK, adminapi.QueryLogStats{
				TotalQueries:       42,
				ConvertedToFewShot: 7,
				ConversionRate:     16.7,
				ByIntent: []adminapi.IntentCount{
					{Intent: "rag_search", Count: 30},
					{Intent: "sql_query", Count: 12},
				},
			})
		case "/api/intent/":
			writeJSON(http.StatusOK, []adminapi.Intent{
				{ID: 1, Keyword: "refund"},
				{ID: 2, Keyword: "sales"},
			})
		case "/api/fewshot/":
			writeJSON(http.StatusOK, []adminapi.FewShot{
				{ID: 1, UserQuery: "how do refunds work", IsActive: true},
				{ID: 2, UserQuery: "old example", IsActive: false},
			})
		case "/api/upload/stats":
			if failCollection {
				writeJSON(http.StatusInternalServerError, map[string]string{"detail": "Internal Server Error"})
				return
			}
			writeJSON(http.StatusOK, adminapi.CollectionInfo{
				Name:        "documents",
				PointsCount: 1280,
				VectorSize:  1536,
				Distance:    "Cosine",
			})
		default:
			writeJSON(http.StatusNotFound, map[string]string{"detail": "Not Found"})
		}
	}))
}

var _ = Describe("Status Command", func() {
	It("uses the expected command line", func() {
		cmd := NewStatusCmd()
		Expect(cmd.Use).To(Equal("status"))
		Expect(cmd.Short).To(Equal(statusShortDesc))
	})

	It("rejects positional arguments", func() {
		cmd := NewStatusCmd()
		cmd.SetArgs([]string{"extra"})
		Expect(cmd.Execute()).To(HaveOccurred())
	})

	Describe("report", func() {
		It("summarizes stats, intents, few-shots and the collection", func() {
			backend := newStatusBackend(false, false)
			defer backend.Close()

			var out bytes.Buffer
			client := adminapi.NewClient(backend.URL, time.Second, nil)
			Expect(runStatus(&out, client)).To(Succeed())

			report := out.String()
			Expect(report).To(ContainSubstring(backend.URL))
			Expect(report).To(ContainSubstring("42"))
			Expect(report).To(ContainSubstring("7 (16.7%)"))
			Expect(report).To(ContainSubstring("RAG search"))
			Expect(report).To(ContainSubstring("30"))
			Expect(report).To(ContainSubstring("2 (1 active)"))
			Expect(report).To(ContainSubstring("documents · 1280 points · 1536 dims · Cosine"))
		})

		It("fails when the stats endpoint is down", func() {
			backend := newStatusBackend(true, false)
			defer backend.Close()

			var out bytes.Buffer
			client := adminapi.NewClient(backend.URL, time.Second, nil)
			err := runStatus(&out, client)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("backend unreachable"))
		})

		It("still reports when only the collection info is unavailable", func() {
			backend := newStatusBackend(false, true)
			defer backend.Close()

			var out bytes.Buffer
			client := adminapi.NewClient(backend.URL, time.Second, nil)
			Expect(runStatus(&out, client)).To(Succeed())

			report := out.String()
			Expect(report).To(ContainSubstring("42"))
			Expect(report).To(ContainSubstring("unavailable"))
		})
	})
})
