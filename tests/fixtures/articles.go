// Package fixtures provides reusable article content generators for tests
// that need realistic body text at a controlled length, such as summary
// truncation and read-time estimation.
package fixtures

import (
	"strings"
)

// ArticleOptions configures the generated article content.
type ArticleOptions struct {
	// Length is the approximate rune count (target length, ±10% variance allowed)
	Length int

	// Language specifies the content language ("french" or "english")
	Language string

	// IncludeMarkup embeds HTML fragments in the content, for exercising
	// sanitization paths
	IncludeMarkup bool
}

// GenerateArticle generates article content based on the provided options.
// The generated content is coherent French or English news prose.
func GenerateArticle(opts ArticleOptions) string {
	if opts.Language == "english" {
		return assemble(englishSentences, englishMarkup, opts.Length, opts.IncludeMarkup)
	}
	return assemble(frenchSentences, frenchMarkup, opts.Length, opts.IncludeMarkup)
}

// GenerateShortArticle generates a brief French article (~500 runes),
// shorter than the summary truncation threshold.
func GenerateShortArticle() string {
	return GenerateArticle(ArticleOptions{Length: 500, Language: "french"})
}

// GenerateMediumArticle generates a typical French article (~2000 runes).
func GenerateMediumArticle() string {
	return GenerateArticle(ArticleOptions{Length: 2000, Language: "french"})
}

// GenerateLongArticle generates a long French article (~10000 runes),
// useful for read-time estimation at the upper clamp.
func GenerateLongArticle() string {
	return GenerateArticle(ArticleOptions{Length: 10000, Language: "french"})
}

// GenerateArticleWithMarkup generates a French article containing HTML
// fragments that a normalizer is expected to strip.
func GenerateArticleWithMarkup() string {
	return GenerateArticle(ArticleOptions{Length: 2000, Language: "french", IncludeMarkup: true})
}

var frenchSentences = []string{
	"Le gouvernement gabonais a annoncé un nouveau plan de développement des infrastructures routières.",
	"Les travaux de réhabilitation de la route nationale devraient s'achever avant la saison des pluies.",
	"Le port d'Owendo enregistre une hausse notable du trafic de marchandises ce trimestre.",
	"Les producteurs de manioc de la province de la Ngounié bénéficieront d'un appui technique renforcé.",
	"La société nationale d'électricité prévoit d'étendre le réseau aux quartiers périphériques de Libreville.",
	"Le championnat national de football reprendra ses droits le mois prochain après une longue trêve.",
	"Les Panthères du Gabon préparent leur prochaine rencontre qualificative avec sérieux.",
	"Le parc national de la Lopé attire chaque année davantage de visiteurs étrangers.",
	"Les autorités sanitaires poursuivent la campagne de vaccination dans les zones rurales.",
	"Le secteur forestier demeure un pilier essentiel de l'économie nationale.",
	"Les exportations de bois transformé ont progressé grâce aux nouvelles unités industrielles de Nkok.",
	"La rentrée scolaire s'est déroulée dans de bonnes conditions sur l'ensemble du territoire.",
	"Les pêcheurs artisanaux de Port-Gentil réclament un meilleur encadrement de la filière.",
	"Le conseil des ministres a adopté plusieurs mesures en faveur de l'emploi des jeunes.",
	"La compagnie aérienne nationale étudie l'ouverture de nouvelles liaisons régionales.",
}

var frenchMarkup = []string{
	"<p>Le ministre a détaillé les <strong>prochaines étapes</strong> du projet.</p>",
	"<div class=\"encadre\">Lire aussi : <a href=\"/articles/123\">notre dossier complet</a></div>",
	"<blockquote>« Nous restons mobilisés », a déclaré le porte-parole.</blockquote>",
	"<p>Les chiffres publiés <em>hier soir</em> confirment cette tendance.</p>",
	"<script>trackPageView();</script>",
}

var englishSentences = []string{
	"The government has announced a new infrastructure development plan for the coming years.",
	"Rehabilitation work on the national highway should finish before the rainy season.",
	"The port of Owendo recorded a notable rise in cargo traffic this quarter.",
	"Cassava producers in the Ngounié province will receive reinforced technical support.",
	"The national power utility plans to extend the grid to the outskirts of Libreville.",
	"The national football championship resumes next month after a long break.",
	"The national park of Lopé attracts more foreign visitors every year.",
	"Health authorities are continuing the vaccination campaign in rural areas.",
	"The forestry sector remains an essential pillar of the national economy.",
	"Exports of processed timber have grown thanks to the new industrial units in Nkok.",
	"The school year started under good conditions across the whole territory.",
	"Artisanal fishermen in Port-Gentil are calling for better oversight of the sector.",
	"The cabinet adopted several measures in favour of youth employment.",
	"The national airline is studying the opening of new regional routes.",
}

var englishMarkup = []string{
	"<p>The minister detailed the <strong>next steps</strong> of the project.</p>",
	"<div class=\"inset\">Read also: <a href=\"/articles/123\">our full coverage</a></div>",
	"<blockquote>\"We remain committed,\" the spokesperson said.</blockquote>",
	"<p>Figures published <em>last night</em> confirm the trend.</p>",
	"<script>trackPageView();</script>",
}

// assemble concatenates sentences until the rune count lands within
// ±10% of targetLength. Markup fragments, when enabled, are spread
// evenly through the text.
func assemble(sentences, markup []string, targetLength int, includeMarkup bool) string {
	var builder strings.Builder
	currentLength := 0
	sentenceIndex := 0
	markupIndex := 0

	for {
		var sentence string
		if includeMarkup && targetLength >= 5 && currentLength%(targetLength/5) < 100 && markupIndex < len(markup) {
			sentence = markup[markupIndex]
			markupIndex++
		} else {
			sentence = sentences[sentenceIndex%len(sentences)]
			sentenceIndex++
		}

		sentenceLength := len([]rune(sentence))
		if currentLength > 0 {
			sentenceLength++ // account for the joining space
		}
		potentialLength := currentLength + sentenceLength

		if currentLength >= int(float64(targetLength)*0.9) {
			if potentialLength > int(float64(targetLength)*1.1) {
				break
			}
		}

		if currentLength > 0 {
			builder.WriteString(" ")
		}

		builder.WriteString(sentence)
		currentLength = len([]rune(builder.String()))

		if currentLength >= targetLength {
			break
		}
	}

	return builder.String()
}
