package memory_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pulsepolitics/recall/pkg/backoff"
	"github.com/pulsepolitics/recall/pkg/logger"
	"github.com/pulsepolitics/recall/pkg/memory"
	testutils "github.com/pulsepolitics/recall/pkg/utils/test"
)

// fastPolicy keeps retry sleeps negligible in tests.
var fastPolicy = backoff.Policy{MaxRetries: 1, BaseDelay: time.Microsecond}

var _ = Describe("Gateway", func() {
	var (
		backend *testutils.MockBackend
		gateway *memory.Gateway
		ctx     context.Context
	)

	BeforeEach(func() {
		backend = testutils.NewMockBackend()
		ctx = context.Background()

		var err error
		gateway, err = memory.NewGateway(memory.Config{
			SessionID:        "public-memory",
			GroupID:          "pulse-politics",
			GroupName:        "Pulse Politics",
			GroupDescription: "Shared political knowledge graph for all agents.",
			Policy:           fastPolicy,
		}, backend, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewGateway", func() {
		It("requires a driver", func() {
			_, err := memory.NewGateway(memory.Config{SessionID: "s"}, nil, logger.Nop())
			Expect(err).To(HaveOccurred())
		})

		It("requires a session id", func() {
			_, err := memory.NewGateway(memory.Config{}, backend, logger.Nop())
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Add", func() {
		It("appends an assistant message to the configured session", func() {
			err := gateway.Add(ctx, "El Congreso aprobó la Ley X", map[string]any{"source": "nitter_context"})
			Expect(err).NotTo(HaveOccurred())

			Expect(backend.AppendCalls).To(HaveLen(1))
			call := backend.AppendCalls[0]
			Expect(call.SessionID).To(Equal("public-memory"))
			Expect(call.Message.Role).To(Equal(memory.RoleAssistant))
			Expect(call.Message.Content).To(Equal("El Congreso aprobó la Ley X"))
			Expect(call.Message.Metadata["source"]).To(Equal("nitter_context"))
		})

		It("does nothing for empty content", func() {
			Expect(gateway.Add(ctx, "", nil)).To(Succeed())
			Expect(gateway.Add(ctx, "   ", nil)).To(Succeed())
			Expect(backend.AppendCalls).To(BeEmpty())
		})

		It("defaults the ts metadata field when absent", func() {
			Expect(gateway.Add(ctx, "Contenido de prueba", nil)).To(Succeed())

			md := backend.AppendCalls[0].Message.Metadata
			ts, ok := md["ts"].(string)
			Expect(ok).To(BeTrue())
			_, err := time.Parse(time.RFC3339, ts)
			Expect(err).NotTo(HaveOccurred())
		})

		It("preserves an explicit ts metadata field", func() {
			Expect(gateway.Add(ctx, "Contenido de prueba", map[string]any{"ts": "2024-01-01T00:00:00Z"})).To(Succeed())
			Expect(backend.AppendCalls[0].Message.Metadata["ts"]).To(Equal("2024-01-01T00:00:00Z"))
		})

		It("surfaces write failures after retries are exhausted", func() {
			backend.AppendErr = errors.New("backend down")

			err := gateway.Add(ctx, "Contenido de prueba", nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("backend down"))
		})

		It("does not mutate the caller's metadata map", func() {
			md := map[string]any{"source": "nitter_context"}
			Expect(gateway.Add(ctx, "Contenido de prueba", md)).To(Succeed())
			Expect(md).NotTo(HaveKey("ts"))
		})
	})

	Describe("Search", func() {
		It("returns empty immediately for an empty query", func() {
			Expect(gateway.Search(ctx, "", 5)).To(BeEmpty())
			Expect(gateway.Search(ctx, "   ", 5)).To(BeEmpty())
			Expect(backend.SearchCalls).To(BeZero())
			Expect(backend.GetCalls).To(BeZero())
		})

		It("extracts content from nested messages", func() {
			backend.SearchResults = []memory.SearchEntry{
				{Message: &memory.Message{Content: "El Congreso aprobó la Ley X"}, Score: 0.9},
			}

			results := gateway.Search(ctx, "Ley X", 5)
			Expect(results).To(Equal([]string{"El Congreso aprobó la Ley X"}))
		})

		It("falls back to bare content fields", func() {
			backend.SearchResults = []memory.SearchEntry{
				{Content: "dato suelto", Score: 0.4},
			}

			Expect(gateway.Search(ctx, "dato", 5)).To(Equal([]string{"dato suelto"}))
		})

		It("falls back to a substring scan when no semantic results arrive", func() {
			backend.Session = &memory.Session{
				Messages: []memory.Message{
					{Content: "El congreso sesionó ayer"},
					{Content: "nada que ver"},
					{Content: "Congreso aprobó el presupuesto"},
				},
			}

			results := gateway.Search(ctx, "congreso", 5)
			Expect(results).To(Equal([]string{
				"El congreso sesionó ayer",
				"Congreso aprobó el presupuesto",
			}))
			Expect(backend.GetCalls).To(Equal(1))
		})

		It("caps fallback results at the limit", func() {
			backend.Session = &memory.Session{
				Messages: []memory.Message{
					{Content: "congreso uno"},
					{Content: "congreso dos"},
					{Content: "congreso tres"},
				},
			}

			results := gateway.Search(ctx, "congreso", 2)
			Expect(results).To(HaveLen(2))
		})

		It("degrades to an empty list on semantic search failure", func() {
			backend.SearchErr = errors.New("timeout")

			Expect(gateway.Search(ctx, "congreso", 5)).To(BeEmpty())
		})

		It("degrades to an empty list on fallback fetch failure", func() {
			backend.GetErr = errors.New("timeout")

			Expect(gateway.Search(ctx, "congreso", 5)).To(BeEmpty())
		})
	})

	Describe("SearchGraph", func() {
		It("returns empty for an empty query without calling the backend", func() {
			Expect(gateway.SearchGraph(ctx, "  ", 5)).To(BeEmpty())
			Expect(backend.GraphSearchCalls).To(BeZero())
		})

		It("prefers content, then fact, then the raw edge", func() {
			backend.Edges = []memory.Edge{
				{Content: "edge con contenido"},
				{Fact: "hecho registrado"},
				{Raw: []byte(`{"subject":"congreso"}`)},
			}

			results := gateway.SearchGraph(ctx, "congreso", 5)
			Expect(results).To(Equal([]string{
				"edge con contenido",
				"hecho registrado",
				`{"subject":"congreso"}`,
			}))
		})

		It("degrades to an empty list on failure", func() {
			backend.GraphSearchErr = errors.New("graph down")
			Expect(gateway.SearchGraph(ctx, "congreso", 5)).To(BeEmpty())
		})
	})

	Describe("Stats", func() {
		It("reports session id, count and timestamps", func() {
			backend.Session = &memory.Session{
				Messages:  []memory.Message{{Content: "a"}, {Content: "b"}, {Content: "c"}},
				CreatedAt: "2023-01-01T00:00:00Z",
				UpdatedAt: "2023-01-02T00:00:00Z",
			}

			stats := gateway.Stats(ctx)
			Expect(stats.SessionID).To(Equal("public-memory"))
			Expect(stats.MessageCount).To(Equal(3))
			Expect(stats.CreatedAt).To(Equal("2023-01-01T00:00:00Z"))
			Expect(stats.UpdatedAt).To(Equal("2023-01-02T00:00:00Z"))
			Expect(stats.Err).To(BeEmpty())
		})

		It("folds backend errors into the Err field", func() {
			backend.GetErr = errors.New("no session")

			stats := gateway.Stats(ctx)
			Expect(stats.Err).To(ContainSubstring("no session"))
			Expect(stats.SessionID).To(BeEmpty())
		})
	})

	Describe("Clear", func() {
		It("deletes the session", func() {
			Expect(gateway.Clear(ctx)).To(Succeed())
			Expect(backend.DeleteCalls).To(Equal(1))
		})

		It("surfaces deletion failures", func() {
			backend.DeleteErr = errors.New("denied")
			Expect(gateway.Clear(ctx)).To(MatchError(ContainSubstring("denied")))
		})
	})

	Describe("EnsureGroup", func() {
		It("creates the group", func() {
			Expect(gateway.EnsureGroup(ctx)).To(Succeed())
			Expect(backend.CreateGroupCalls).To(Equal(1))
		})

		It("treats an existing group as success", func() {
			backend.CreateGroupErr = memory.ErrGroupExists
			Expect(gateway.EnsureGroup(ctx)).To(Succeed())
		})

		It("surfaces any other failure", func() {
			backend.CreateGroupErr = errors.New("unauthorized")
			Expect(gateway.EnsureGroup(ctx)).To(MatchError(ContainSubstring("unauthorized")))
		})
	})

	Describe("PopulateSeed", func() {
		It("merges seed data into the group graph", func() {
			Expect(gateway.PopulateSeed(ctx, []byte(`{"entities":[]}`))).To(Succeed())
			Expect(backend.MergeCalls).To(HaveLen(1))
		})

		It("is a no-op for missing seed data", func() {
			Expect(gateway.PopulateSeed(ctx, nil)).To(Succeed())
			Expect(gateway.PopulateSeed(ctx, []byte("  \n"))).To(Succeed())
			Expect(backend.MergeCalls).To(BeEmpty())
		})
	})

	Describe("Ingest", func() {
		It("merges a batch into the group graph", func() {
			Expect(gateway.Ingest(ctx, []byte(`{"facts":["x"]}`))).To(Succeed())
			Expect(backend.MergeCalls).To(HaveLen(1))
		})

		It("rejects an empty batch", func() {
			Expect(gateway.Ingest(ctx, nil)).To(HaveOccurred())
		})

		It("surfaces merge failures", func() {
			backend.MergeErr = errors.New("bad document")
			Expect(gateway.Ingest(ctx, []byte(`{}`))).To(MatchError(ContainSubstring("bad document")))
		})
	})
})
