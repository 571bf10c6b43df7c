package zep

import (
	"encoding/json"

	"github.com/pulsepolitics/recall/pkg/memory"
)

// appendRequest is the body for appending messages to a session.
type appendRequest struct {
	Messages []memory.Message `json:"messages"`
}

// searchRequest is the body for a semantic session search.
type searchRequest struct {
	Text  string `json:"text"`
	Limit int    `json:"limit,omitempty"`
}

// searchResponse is the ranked result set of a session search.
type searchResponse struct {
	Results []memory.SearchEntry `json:"results"`
}

// sessionResponse is the full session payload.
type sessionResponse struct {
	Messages  []memory.Message `json:"messages"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
}

// createGroupRequest is the body for creating a group graph.
type createGroupRequest struct {
	GroupID     string `json:"group_id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// mergeGraphRequest is the body for merging a JSON document into a group graph.
type mergeGraphRequest struct {
	GroupID string `json:"group_id"`
	Type    string `json:"type"`
	Data    string `json:"data"`
}

// graphSearchRequest is the body for a group graph edge search.
type graphSearchRequest struct {
	GroupID string `json:"group_id"`
	Query   string `json:"query"`
	Scope   string `json:"scope"`
	Limit   int    `json:"limit,omitempty"`
}

// graphSearchResponse carries the matched edges. Edges are kept raw so the
// caller can stringify shapes this client does not model.
type graphSearchResponse struct {
	Edges []json.RawMessage `json:"edges"`
}

// edgeFields is the subset of edge fields this client extracts.
type edgeFields struct {
	Content string `json:"content"`
	Fact    string `json:"fact"`
}
