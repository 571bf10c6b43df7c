// Package pipeline glues extraction, relevance classification and the
// memory gateway into the operations the HTTP surface exposes.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pulsepolitics/recall/pkg/eventstream"
	"github.com/pulsepolitics/recall/pkg/eventstream/nop"
	"github.com/pulsepolitics/recall/pkg/extract"
	"github.com/pulsepolitics/recall/pkg/memory"
	"github.com/pulsepolitics/recall/pkg/relevance"
	"github.com/pulsepolitics/recall/pkg/utils"
)

// now is stubbed in tests to pin timestamps.
var now = time.Now

// previewLen bounds the content echoed back in a ProcessResult.
const previewLen = 100

// defaultEnhanceLimit bounds memory context when the caller gives no limit.
const defaultEnhanceLimit = 3

// ProcessResult reports what happened to one tool result.
type ProcessResult struct {
	Saved    bool               `json:"saved"`
	Reason   string             `json:"reason,omitempty"`
	Content  string             `json:"content,omitempty"`
	Metadata map[string]any     `json:"metadata,omitempty"`
	Reasons  *relevance.Reasons `json:"reasons,omitempty"`
}

// EnhancedQuery carries a query augmented with memory context.
type EnhancedQuery struct {
	EnhancedQuery string   `json:"enhanced_query"`
	MemoryContext string   `json:"memory_context"`
	MemoryResults []string `json:"memory_results"`
}

// Pipeline routes tool output through extraction and classification into
// the memory gateway, and augments queries with recalled context.
type Pipeline struct {
	gateway *memory.Gateway
	events  eventstream.Publisher
	logger  *zap.Logger
}

// New creates a Pipeline. A nil publisher disables event emission.
func New(gateway *memory.Gateway, events eventstream.Publisher, logger *zap.Logger) (*Pipeline, error) {
	if gateway == nil {
		return nil, fmt.Errorf("memory gateway is required")
	}
	if events == nil {
		events = nop.NewPublisher()
	}
	return &Pipeline{
		gateway: gateway,
		events:  events,
		logger:  logger,
	}, nil
}

// ProcessToolResult extracts content from a tool result, classifies it,
// and persists it when the decision is positive. Classification rejections
// are reported in the result, not as errors; a failed write is an error.
func (p *Pipeline) ProcessToolResult(ctx context.Context, tool string, result map[string]any, userQuery string) (*ProcessResult, error) {
	content := extract.Content(extract.Source(tool), result)
	if strings.TrimSpace(content) == "" {
		return &ProcessResult{Saved: false, Reason: "no relevant content"}, nil
	}

	metadata := map[string]any{
		"source":           tool,
		"user_query":       userQuery,
		"tool_result_keys": payloadKeys(result),
		"ts":               now().UTC().Format(time.RFC3339),
	}

	decision := relevance.ShouldSave(content, metadata)
	if !decision.Save {
		p.logger.Info("tool result not saved",
			zap.String("tool", tool),
			zap.String("reason", decision.Reason),
		)
		return &ProcessResult{Saved: false, Reason: decision.Reason}, nil
	}

	if err := p.gateway.Add(ctx, content, decision.Metadata); err != nil {
		return nil, fmt.Errorf("processing %s result: %w", tool, err)
	}

	p.publishSaved(ctx, tool, decision.Metadata, content)

	return &ProcessResult{
		Saved:    true,
		Content:  utils.Truncate(content, previewLen),
		Metadata: decision.Metadata,
		Reasons:  decision.Reasons,
	}, nil
}

// EnhanceQuery searches public memory for context relevant to the query
// and, when found, prepends a numbered context block. Search failures have
// already degraded to no results inside the gateway, so the original query
// always comes back usable.
func (p *Pipeline) EnhanceQuery(ctx context.Context, query string, limit int) EnhancedQuery {
	if limit <= 0 {
		limit = defaultEnhanceLimit
	}

	results := p.gateway.Search(ctx, query, limit)
	if len(results) == 0 {
		return EnhancedQuery{
			EnhancedQuery: query,
			MemoryResults: []string{},
		}
	}

	var b strings.Builder
	b.WriteString("Relevant memory context:\n")
	for i, result := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, result)
	}
	memoryContext := b.String()

	return EnhancedQuery{
		EnhancedQuery: fmt.Sprintf("%s\n\nMEMORY CONTEXT:\n%s", query, memoryContext),
		MemoryContext: memoryContext,
		MemoryResults: results,
	}
}

// SaveUserDiscovery records a user found by ML discovery. Returns true on
// success; failures are logged and reported as false.
func (p *Pipeline) SaveUserDiscovery(ctx context.Context, name, handle, description, category string) bool {
	content := fmt.Sprintf("Discovered user: %s (@%s)", name, handle)
	if description != "" {
		content += " - " + description
	}

	tags := []string{"new_user", "ml_discovery"}
	if category != "" {
		tags = append(tags, category)
	}

	metadata := map[string]any{
		"source":           string(extract.SourceMLDiscovery),
		"tags":             tags,
		"twitter_username": handle,
		"category":         category,
		"ts":               now().UTC().Format(time.RFC3339),
	}

	if err := p.gateway.Add(ctx, content, metadata); err != nil {
		p.logger.Error("failed to save discovered user",
			zap.String("name", name),
			zap.String("handle", handle),
			zap.Error(err),
		)
		return false
	}

	p.publishSaved(ctx, string(extract.SourceMLDiscovery), metadata, content)

	p.logger.Info("discovered user saved",
		zap.String("name", name),
		zap.String("handle", handle),
	)
	return true
}

// publishSaved emits a memory-saved event. Emission is best effort: a
// failed publish is logged, never propagated.
func (p *Pipeline) publishSaved(ctx context.Context, source string, metadata map[string]any, content string) {
	var tags []string
	if t, ok := metadata["tags"].([]string); ok {
		tags = t
	}

	event := eventstream.NewMemorySavedEvent(
		p.gateway.SessionID(),
		source,
		tags,
		utils.Truncate(content, previewLen),
	)
	if err := p.events.PublishSaved(ctx, event); err != nil {
		p.logger.Warn("failed to publish memory-saved event", zap.Error(err))
	}
}

func payloadKeys(result map[string]any) []string {
	keys := make([]string, 0, len(result))
	for k := range result {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
