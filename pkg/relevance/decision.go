package relevance

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// minContentLength is the trimmed length below which content is rejected
// before any detector runs.
const minContentLength = 10

const (
	// ReasonTooShort rejects content under minContentLength trimmed characters.
	ReasonTooShort = "too short"

	// ReasonNotRelevant rejects content no detector matched.
	ReasonNotRelevant = "does not meet relevance criteria"
)

// now is stubbed in tests to pin the ts metadata field.
var now = time.Now

// Reasons carries the individual detector verdicts behind a positive
// decision.
type Reasons struct {
	NewEntity    bool `json:"new_entity"`
	NewTerm      bool `json:"new_term"`
	RelevantFact bool `json:"relevant_fact"`
}

// Decision is the outcome of evaluating content against the detectors.
// When Save is true, Metadata holds the input metadata enriched with
// auto-tags, a ts timestamp and a confidence level, and Reasons explains
// which detectors fired. When Save is false only Reason is set.
type Decision struct {
	Save     bool           `json:"should_save"`
	Reason   string         `json:"reason,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Reasons  *Reasons       `json:"reasons,omitempty"`
}

// ShouldSave decides whether content is worth persisting to public memory.
// The length check precedes all detector evaluation; the detectors are
// then OR-ed, and a positive decision derives tags, timestamp and
// confidence into a shallow copy of the input metadata.
func ShouldSave(content string, metadata map[string]any) Decision {
	if utf8.RuneCountInString(strings.TrimSpace(content)) < minContentLength {
		return Decision{Save: false, Reason: ReasonTooShort}
	}

	reasons := Reasons{
		NewEntity:    NewEntity(content, metadata),
		NewTerm:      NewTerm(content, metadata),
		RelevantFact: RelevantFact(content, metadata),
	}

	if !reasons.NewEntity && !reasons.NewTerm && !reasons.RelevantFact {
		return Decision{Save: false, Reason: ReasonNotRelevant}
	}

	suggested := make(map[string]any, len(metadata)+3)
	for k, v := range metadata {
		suggested[k] = v
	}

	tags := stringSlice(suggested["tags"])
	if reasons.NewEntity {
		tags = append(tags, "new_user")
	}
	if reasons.NewTerm {
		tags = append(tags, "new_term")
	}
	if reasons.RelevantFact {
		tags = append(tags, "relevant_fact")
	}

	lower := strings.ToLower(content)
	for category, pattern := range categoryPatterns {
		if pattern.MatchString(lower) {
			tags = append(tags, category)
		}
	}

	confidence := "medium"
	if reasons.NewEntity && reasons.RelevantFact {
		confidence = "high"
	}

	suggested["tags"] = dedupe(tags)
	suggested["ts"] = now().UTC().Format(time.RFC3339)
	suggested["confidence"] = confidence

	return Decision{Save: true, Metadata: suggested, Reasons: &reasons}
}

// dedupe returns the unique tags in sorted order so decisions are
// byte-for-byte deterministic for identical input.
func dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
