package ingest

import "testing"

func TestClassifyCategory(t *testing.T) {
	tests := []struct {
		name     string
		declared []string
		title    string
		content  string
		want     string
	}{
		{
			name:     "declared french category wins",
			declared: []string{"Politique"},
			title:    "Un match de football",
			want:     "political",
		},
		{
			name:     "unknown declared category falls through to keywords",
			declared: []string{"À la une"},
			title:    "Le championnat reprend au stade",
			content:  "Les Panthères disputent un match décisif.",
			want:     "sports",
		},
		{
			name:    "keyword scoring on title and content",
			title:   "Le gouvernement annonce un décret",
			content: "Le ministre a signé le texte devant l'assemblée.",
			want:    "political",
		},
		{
			name:    "single keyword hit is not enough",
			title:   "Une journée ordinaire",
			content: "Il a regardé un match à la télévision.",
			want:    "general",
		},
		{
			name:  "no signal at all",
			title: "Brève",
			want:  "general",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyCategory(tt.declared, tt.title, tt.content); got != tt.want {
				t.Errorf("classifyCategory = %q, want %q", got, tt.want)
			}
		})
	}
}
