package zep

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pulsepolitics/recall/pkg/logger"
	"github.com/pulsepolitics/recall/pkg/memory"
)

var _ = Describe("Driver", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	newDriver := func(serverURL string) *Driver {
		d, err := NewDriver(Config{URL: serverURL, APIKey: "test-key"}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		return d
	}

	Describe("NewDriver", func() {
		It("requires a URL", func() {
			_, err := NewDriver(Config{APIKey: "k"}, logger.Nop())
			Expect(err).To(MatchError(ContainSubstring("zep URL is required")))
		})

		It("requires an API key", func() {
			_, err := NewDriver(Config{URL: "https://api.example.com"}, logger.Nop())
			Expect(err).To(MatchError(ContainSubstring("API key is required")))
		})

		It("strips a trailing slash from the URL", func() {
			d, err := NewDriver(Config{URL: "https://api.example.com/", APIKey: "k"}, logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(d.baseURL).To(Equal("https://api.example.com"))
		})
	})

	Describe("AppendMessage", func() {
		It("posts the message with auth header and assigns a uuid", func() {
			var gotPath, gotAuth string
			var gotBody appendRequest

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotAuth = r.Header.Get("Authorization")
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
				w.WriteHeader(http.StatusCreated)
			}))
			defer server.Close()

			d := newDriver(server.URL)
			err := d.AppendMessage(ctx, "public-memory", memory.Message{
				Role:    "assistant",
				Content: "El Congreso aprobó la Ley X",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(gotPath).To(Equal("/api/v2/sessions/public-memory/memory"))
			Expect(gotAuth).To(Equal("Api-Key test-key"))
			Expect(gotBody.Messages).To(HaveLen(1))
			Expect(gotBody.Messages[0].UUID).NotTo(BeEmpty())
			Expect(gotBody.Messages[0].Content).To(Equal("El Congreso aprobó la Ley X"))
		})

		It("folds the response body into append errors", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "session quota exceeded", http.StatusForbidden)
			}))
			defer server.Close()

			err := newDriver(server.URL).AppendMessage(ctx, "s", memory.Message{Content: "x"})
			Expect(err).To(MatchError(ContainSubstring("status 403")))
			Expect(err).To(MatchError(ContainSubstring("session quota exceeded")))
		})
	})

	Describe("SearchSession", func() {
		It("decodes ranked results", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/api/v2/sessions/public-memory/search"))

				var req searchRequest
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				Expect(req.Text).To(Equal("Ley X"))
				Expect(req.Limit).To(Equal(5))

				json.NewEncoder(w).Encode(searchResponse{
					Results: []memory.SearchEntry{
						{Message: &memory.Message{Content: "El Congreso aprobó la Ley X"}, Score: 0.93},
					},
				})
			}))
			defer server.Close()

			entries, err := newDriver(server.URL).SearchSession(ctx, "public-memory", "Ley X", 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Message.Content).To(Equal("El Congreso aprobó la Ley X"))
		})

		It("returns an error on a non-200 status", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "backend unavailable", http.StatusServiceUnavailable)
			}))
			defer server.Close()

			_, err := newDriver(server.URL).SearchSession(ctx, "s", "q", 5)
			Expect(err).To(MatchError(ContainSubstring("status 503")))
		})
	})

	Describe("GetSession", func() {
		It("fetches messages and timestamps", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodGet))
				Expect(r.URL.Path).To(Equal("/api/v2/sessions/public-memory/memory"))
				json.NewEncoder(w).Encode(sessionResponse{
					Messages:  []memory.Message{{Content: "uno"}, {Content: "dos"}},
					CreatedAt: "2023-01-01T00:00:00Z",
					UpdatedAt: "2023-01-02T00:00:00Z",
				})
			}))
			defer server.Close()

			session, err := newDriver(server.URL).GetSession(ctx, "public-memory")
			Expect(err).NotTo(HaveOccurred())
			Expect(session.Messages).To(HaveLen(2))
			Expect(session.CreatedAt).To(Equal("2023-01-01T00:00:00Z"))
			Expect(session.UpdatedAt).To(Equal("2023-01-02T00:00:00Z"))
		})
	})

	Describe("DeleteSession", func() {
		It("issues a DELETE against the session memory", func() {
			var gotMethod, gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			Expect(newDriver(server.URL).DeleteSession(ctx, "public-memory")).To(Succeed())
			Expect(gotMethod).To(Equal(http.MethodDelete))
			Expect(gotPath).To(Equal("/api/v2/sessions/public-memory/memory"))
		})
	})

	Describe("CreateGroup", func() {
		It("creates a group", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/api/v2/groups"))

				var req createGroupRequest
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				Expect(req.GroupID).To(Equal("pulse-politics"))
				w.WriteHeader(http.StatusCreated)
			}))
			defer server.Close()

			err := newDriver(server.URL).CreateGroup(ctx, "pulse-politics", "Pulse Politics", "Shared graph")
			Expect(err).NotTo(HaveOccurred())
		})

		It("maps a 400 already-exists response to ErrGroupExists", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"message":"group already exists"}`, http.StatusBadRequest)
			}))
			defer server.Close()

			err := newDriver(server.URL).CreateGroup(ctx, "pulse-politics", "", "")
			Expect(err).To(MatchError(memory.ErrGroupExists))
		})

		It("maps a 409 conflict to ErrGroupExists", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusConflict)
			}))
			defer server.Close()

			err := newDriver(server.URL).CreateGroup(ctx, "pulse-politics", "", "")
			Expect(err).To(MatchError(memory.ErrGroupExists))
		})

		It("surfaces other 400s as plain errors", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "invalid group id", http.StatusBadRequest)
			}))
			defer server.Close()

			err := newDriver(server.URL).CreateGroup(ctx, "bad id", "", "")
			Expect(err).To(HaveOccurred())
			Expect(err).NotTo(MatchError(memory.ErrGroupExists))
		})
	})

	Describe("MergeGraphData", func() {
		It("posts the document as a json-typed graph payload", func() {
			var gotBody mergeGraphRequest
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/api/v2/graph"))
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
				w.WriteHeader(http.StatusAccepted)
			}))
			defer server.Close()

			err := newDriver(server.URL).MergeGraphData(ctx, "pulse-politics", []byte(`{"facts":[]}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(gotBody.Type).To(Equal("json"))
			Expect(gotBody.Data).To(Equal(`{"facts":[]}`))
		})
	})

	Describe("SearchGraphEdges", func() {
		It("extracts content and fact fields and keeps the raw edge", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/api/v2/graph/search"))

				var req graphSearchRequest
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				Expect(req.Scope).To(Equal("edges"))

				w.Write([]byte(`{"edges":[
					{"content":"edge con contenido"},
					{"fact":"hecho registrado"},
					{"subject":"congreso","object":"ley"}
				]}`))
			}))
			defer server.Close()

			edges, err := newDriver(server.URL).SearchGraphEdges(ctx, "pulse-politics", "congreso", 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(edges).To(HaveLen(3))
			Expect(edges[0].Content).To(Equal("edge con contenido"))
			Expect(edges[1].Fact).To(Equal("hecho registrado"))
			Expect(edges[2].Content).To(BeEmpty())
			Expect(string(edges[2].Raw)).To(ContainSubstring(`"subject":"congreso"`))
		})
	})
})
