package relevance

import "regexp"

const nonWord = `[^\p{L}\p{N}_]`

// word wraps an alternation of vocabulary words in Unicode-aware boundaries.
// RE2's \b is ASCII-only, so patterns for accented Spanish finals like
// "aprobó" would never match with plain \b delimiters.
func word(alternation string) string {
	return `(?:^|` + nonWord + `)(?:` + alternation + `)(?:$|` + nonWord + `)`
}

// wordThenWord matches a vocabulary word immediately followed by another word.
func wordThenWord(alternation string) string {
	return `(?:^|` + nonWord + `)(?:` + alternation + `)\s+[\p{L}\p{N}_]+`
}

func compile(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

// entityPatterns pair a discovery trigger phrase with an @handle token
// appearing after it. Applied to lower-cased content.
var entityPatterns = compile(
	`nuevo usuario.*?@\w+`,
	`descubrí.*?@\w+`,
	`encontré.*?@\w+`,
	`ml discovery.*?@\w+`,
	`persona.*?@\w+`,
	`usuario.*?@\w+`,
)

// termPatterns match governance/political vocabulary followed by a word,
// plus hashtag and mention tokens.
var termPatterns = compile(
	wordThenWord(`ley|decreto|acuerdo|resolución`),
	wordThenWord(`proyecto|iniciativa`),
	wordThenWord(`reforma|modificación`),
	wordThenWord(`congreso|diputado|ministro`),
	wordThenWord(`elección|candidato|partido`),
	wordThenWord(`crisis|emergencia|alerta`),
	wordThenWord(`política|gobierno|estado`),
	`#\w+`,
	`@\w+`,
)

// factPatterns match action/result verbs (designated plural forms included)
// and outcome nouns.
var factPatterns = compile(
	word(`aprobó|rechazó|votó|decidió`),
	word(`anunció|declaró|confirmó|negó`),
	word(`presentó|propuso|sugirió`),
	word(`ocurrió|sucedió|pasó`),
	word(`ganó|perdió|empató`),
	word(`aumentó|aumentaron|disminuyó|disminuyeron|cambió|cambiaron`),
	word(`nueva|nuevo|primer|primera`),
	word(`crisis|problema|conflicto`),
	word(`acuerdo|tratado|convenio`),
	word(`elección|resultado|ganador`),
)

// trustedSources are upstream tools whose output counts as a relevant fact
// regardless of content.
var trustedSources = map[string]struct{}{
	"nitter_profile":    {},
	"nitter_context":    {},
	"perplexity_search": {},
}

// relevantTags mark content as a relevant fact when present in metadata.
var relevantTags = map[string]struct{}{
	"politica":   {},
	"gobierno":   {},
	"congreso":   {},
	"noticia":    {},
	"importante": {},
}

// categoryPatterns drive the auto-tag category scan in ShouldSave. Each
// category is checked independently; content can carry several.
var categoryPatterns = map[string]*regexp.Regexp{
	"politica":  regexp.MustCompile(word(`congreso|diputado|política`)),
	"electoral": regexp.MustCompile(word(`elección|candidato|partido`)),
	"legal":     regexp.MustCompile(word(`ley|decreto|legal`)),
	"urgente":   regexp.MustCompile(word(`crisis|emergencia|problema`)),
}

func matchAny(content string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(content) {
			return true
		}
	}
	return false
}
