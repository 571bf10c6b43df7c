// Package relevance classifies content before it is written to public
// memory. Three independent boolean detectors score a text string, and
// ShouldSave combines them with length and category heuristics into a
// save/no-save decision plus derived metadata.
package relevance

import "strings"

// SourceMLDiscovery marks content originating from the ML discovery
// pipeline; it is an unconditional new-entity signal.
const SourceMLDiscovery = "ml_discovery"

// NewEntity reports whether content mentions a newly discovered account:
// a trigger phrase followed by an @handle, or an ml_discovery source in
// the metadata. Matching is case-insensitive and short-circuits on the
// first hit.
func NewEntity(content string, metadata map[string]any) bool {
	if matchAny(strings.ToLower(content), entityPatterns) {
		return true
	}
	if src, ok := metadata["source"].(string); ok && src == SourceMLDiscovery {
		return true
	}
	return false
}

// NewTerm reports whether content introduces a new term: governance
// vocabulary followed by a word, a hashtag, a mention, or simply enough
// words. The >=5-token fallback is a deliberate low bar, so almost any
// moderately long sentence qualifies.
func NewTerm(content string, _ map[string]any) bool {
	if matchAny(strings.ToLower(content), termPatterns) {
		return true
	}
	return len(strings.Fields(content)) >= 5
}

// RelevantFact reports whether content states a relevant fact: an
// action/result verb or outcome noun, a trusted source, or a relevant tag
// in the metadata.
func RelevantFact(content string, metadata map[string]any) bool {
	if matchAny(strings.ToLower(content), factPatterns) {
		return true
	}
	if src, ok := metadata["source"].(string); ok {
		if _, trusted := trustedSources[src]; trusted {
			return true
		}
	}
	for _, tag := range stringSlice(metadata["tags"]) {
		if _, ok := relevantTags[tag]; ok {
			return true
		}
	}
	return false
}

// stringSlice coerces a metadata value into a string slice. Metadata
// arriving through JSON bodies decodes to []any; metadata built in-process
// is []string.
func stringSlice(v any) []string {
	switch tags := v.(type) {
	case []string:
		return tags
	case []any:
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			if s, ok := t.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
