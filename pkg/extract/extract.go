// Package extract formats heterogeneous tool result payloads into a
// single natural-language string suitable for relevance classification
// and persistence.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Source identifies the tool that produced a result payload.
type Source string

const (
	SourceNitterProfile    Source = "nitter_profile"
	SourceNitterContext    Source = "nitter_context"
	SourcePerplexitySearch Source = "perplexity_search"
	SourceMLDiscovery      Source = "ml_discovery"
)

// maxTweets bounds how many tweets a profile or context payload
// contributes to the extracted content.
const maxTweets = 3

type formatter func(payload map[string]any) []string

var formatters = map[Source]formatter{
	SourceNitterProfile:    formatProfile,
	SourceNitterContext:    formatContext,
	SourcePerplexitySearch: formatSearch,
	SourceMLDiscovery:      formatDiscovery,
}

// Content extracts a formatted string from a tool result payload.
// Known sources get a per-variant formatter; anything else falls back
// to a generic JSON rendering of the payload. An empty result means
// the payload carried nothing worth keeping.
func Content(source Source, payload map[string]any) string {
	if payload == nil {
		return ""
	}

	format, ok := formatters[source]
	if !ok {
		return stringify(payload)
	}

	return strings.Join(format(payload), "\n")
}

func formatProfile(payload map[string]any) []string {
	var parts []string

	if profile, ok := payload["profile_info"].(map[string]any); ok {
		name := stringField(profile, "display_name", "N/A")
		handle := stringField(profile, "username", "N/A")
		parts = append(parts, fmt.Sprintf("Profile: %s (@%s)", name, handle))

		if bio := stringField(profile, "bio", ""); bio != "" {
			parts = append(parts, "Bio: "+bio)
		}
	}

	return append(parts, tweetLines(payload)...)
}

func formatContext(payload map[string]any) []string {
	var parts []string

	if summary := stringField(payload, "summary", ""); summary != "" {
		parts = append(parts, "Context: "+summary)
	}

	return append(parts, tweetLines(payload)...)
}

func formatSearch(payload map[string]any) []string {
	var parts []string

	if content := stringField(payload, "content", ""); content != "" {
		parts = append(parts, "Info: "+content)
	}

	if summary := stringField(payload, "summary", ""); summary != "" {
		parts = append(parts, "Summary: "+summary)
	}

	return parts
}

func formatDiscovery(payload map[string]any) []string {
	var parts []string

	if entity := stringField(payload, "entity", ""); entity != "" {
		parts = append(parts, "Discovered user: "+entity)
	}

	if handle := stringField(payload, "twitter_username", ""); handle != "" {
		parts = append(parts, "Username: @"+handle)
	}

	if description := stringField(payload, "description", ""); description != "" {
		parts = append(parts, "Description: "+description)
	}

	return parts
}

func tweetLines(payload map[string]any) []string {
	tweets, ok := payload["tweets"].([]any)
	if !ok {
		return nil
	}

	var lines []string
	for _, t := range tweets {
		if len(lines) == maxTweets {
			break
		}

		tweet, ok := t.(map[string]any)
		if !ok {
			continue
		}

		if content := stringField(tweet, "content", ""); content != "" {
			lines = append(lines, "Tweet: "+content)
		}
	}

	return lines
}

func stringField(m map[string]any, key, fallback string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func stringify(payload map[string]any) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(raw)
}
