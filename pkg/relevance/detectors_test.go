package relevance

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewEntity", func() {
	DescribeTable("matches trigger phrases paired with an @handle",
		func(content string) {
			Expect(NewEntity(content, nil)).To(BeTrue())
		},
		Entry("nuevo usuario", "nuevo usuario @juanperez encontrado"),
		Entry("descubrí", "descubrí a @maria_lopez"),
		Entry("encontré", "encontré información sobre @politico_gt"),
		Entry("ml discovery marker", "ML Discovery: @carlos_gt es diputado"),
		Entry("persona", "esta persona @usuario_oficial es relevante"),
	)

	It("is case-insensitive", func() {
		Expect(NewEntity("NUEVO USUARIO @Alguien detectado", nil)).To(BeTrue())
	})

	It("matches when metadata source is ml_discovery", func() {
		Expect(NewEntity("Usuario encontrado", map[string]any{"source": "ml_discovery"})).To(BeTrue())
	})

	DescribeTable("rejects content without trigger+handle pairs",
		func(content string) {
			Expect(NewEntity(content, nil)).To(BeFalse())
		},
		Entry("greeting", "hola mundo"),
		Entry("generic info", "información general"),
		Entry("trigger word but no handle", "no hay usuarios aquí"),
		Entry("plain text", "solo texto normal"),
	)

	It("rejects a handle with no trigger phrase before it", func() {
		Expect(NewEntity("@alguien escribió algo", nil)).To(BeFalse())
	})
})

var _ = Describe("NewTerm", func() {
	DescribeTable("matches governance vocabulary followed by a word",
		func(content string) {
			Expect(NewTerm(content, nil)).To(BeTrue())
		},
		Entry("ley", "nueva ley de transparencia"),
		Entry("decreto", "decreto 123-2023"),
		Entry("proyecto", "proyecto de reforma"),
		Entry("acuerdo", "acuerdo gubernativo"),
		Entry("crisis", "crisis económica"),
		Entry("hashtag", "#NuevaLey es trending"),
		Entry("mention", "@CongresoGt anunció"),
		Entry("ministro", "el ministro de educación declaró"),
	)

	It("rejects short content with no vocabulary match", func() {
		Expect(NewTerm("ok", nil)).To(BeFalse())
	})

	It("accepts any content with at least five words (length fallback)", func() {
		// No vocabulary word appears here; the token count alone qualifies.
		Expect(NewTerm("they walked quietly through the evening", nil)).To(BeTrue())
	})

	It("rejects four plain words", func() {
		Expect(NewTerm("they walked quietly home", nil)).To(BeFalse())
	})
})

var _ = Describe("RelevantFact", func() {
	DescribeTable("matches action verbs and outcome nouns",
		func(content string) {
			Expect(RelevantFact(content, nil)).To(BeTrue())
		},
		Entry("aprobó", "El congreso aprobó la ley"),
		Entry("anunció", "El presidente anunció nuevas medidas"),
		Entry("presentó", "Se presentó una nueva propuesta"),
		Entry("ocurrió", "Ocurrió un evento importante"),
		Entry("ganó", "El candidato ganó las elecciones"),
		Entry("plural aumentaron", "Los precios aumentaron significativamente"),
		Entry("nueva", "Nueva política fue implementada"),
		Entry("crisis", "Crisis política en el país"),
	)

	It("matches content from a trusted source regardless of text", func() {
		Expect(RelevantFact("Información importante", map[string]any{"source": "nitter_context"})).To(BeTrue())
	})

	It("matches content carrying a relevant tag", func() {
		Expect(RelevantFact("Información", map[string]any{"tags": []string{"politica", "importante"}})).To(BeTrue())
	})

	It("matches relevant tags decoded from JSON", func() {
		Expect(RelevantFact("Información", map[string]any{"tags": []any{"noticia"}})).To(BeTrue())
	})

	It("rejects neutral content with no metadata", func() {
		Expect(RelevantFact("texto neutro", nil)).To(BeFalse())
	})

	It("rejects untrusted sources and unrelated tags", func() {
		Expect(RelevantFact("texto neutro", map[string]any{
			"source": "random_tool",
			"tags":   []string{"deportes"},
		})).To(BeFalse())
	})
})
