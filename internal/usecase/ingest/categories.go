package ingest

import "strings"

const (
	defaultCategory = "general"

	// A category wins only when at least this many of its keywords appear,
	// so a passing mention does not reclassify an article.
	minCategoryHits = 2
)

// categoryAliases maps the category labels feeds declare themselves, in
// French and English, onto our canonical labels.
var categoryAliases = map[string]string{
	"politique":     "political",
	"politics":      "political",
	"political":     "political",
	"économie":      "economic",
	"economie":      "economic",
	"economy":       "economic",
	"economic":      "economic",
	"business":      "economic",
	"sport":         "sports",
	"sports":        "sports",
	"football":      "sports",
	"culture":       "culture",
	"musique":       "culture",
	"music":         "culture",
	"santé":         "health",
	"sante":         "health",
	"health":        "health",
	"éducation":     "education",
	"education":     "education",
	"environnement": "environment",
	"environment":   "environment",
}

// categoryOrder fixes the evaluation order so score ties resolve the same
// way on every run.
var categoryOrder = []string{
	"political", "economic", "sports", "culture", "health", "education", "environment",
}

// categoryKeywords is scored against title and content when the feed does
// not declare a recognizable category. The vocabulary is weighted toward
// the French-language press.
var categoryKeywords = map[string][]string{
	"political": {
		"politique", "gouvernement", "président", "élection", "assemblée",
		"ministre", "sénat", "parti", "décret", "constitution", "transition",
	},
	"economic": {
		"économie", "pétrole", "croissance", "banque", "investissement",
		"entreprise", "fcfa", "commerce", "budget", "manganèse", "emploi",
	},
	"sports": {
		"football", "match", "championnat", "panthères", "coupe", "stade",
		"sélection", "athlète", "victoire", "tournoi", "basket",
	},
	"culture": {
		"culture", "musique", "festival", "artiste", "cinéma", "littérature",
		"tradition", "patrimoine", "concert", "exposition", "album",
	},
	"health": {
		"santé", "hôpital", "maladie", "vaccin", "épidémie", "médecin",
		"paludisme", "clinique", "traitement", "patients", "cnamgs",
	},
	"education": {
		"éducation", "école", "université", "étudiants", "enseignants",
		"baccalauréat", "formation", "rentrée", "concours", "bourses",
	},
	"environment": {
		"environnement", "forêt", "climat", "biodiversité", "parc",
		"conservation", "pollution", "écosystème", "faune", "braconnage",
	},
}

// classifyCategory resolves an article's category. Feed-declared categories
// win when they map to a canonical label; otherwise the title and content
// are scored against the keyword vocabulary, title hits counting double.
func classifyCategory(declared []string, title, content string) string {
	for _, d := range declared {
		if canonical, ok := categoryAliases[strings.ToLower(strings.TrimSpace(d))]; ok {
			return canonical
		}
	}

	titleLower := strings.ToLower(title)
	contentLower := strings.ToLower(content)

	best, bestScore := defaultCategory, 0
	for _, category := range categoryOrder {
		score := 0
		for _, kw := range categoryKeywords[category] {
			if strings.Contains(titleLower, kw) {
				score += 2
			} else if strings.Contains(contentLower, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = category, score
		}
	}
	if bestScore < minCategoryHits {
		return defaultCategory
	}
	return best
}
