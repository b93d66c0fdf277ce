package article

import (
	"strings"
	"testing"

	"github.com/notesdureal/notes-data/internal/config"
)

func TestClassifyCompetitionTitleWins(t *testing.T) {
	t.Parallel()

	// A body mention of another competition must not override the title.
	html := `<html><body><article><p>Comme en Liga, le pressing a payé.</p></article></body></html>`
	got := ClassifyCompetition(html, "Real Madrid - City : les notes en Ligue des Champions")
	if got != config.CompetitionChampionsLeague {
		t.Errorf("competition = %q", got)
	}
}

func TestClassifyCompetitionFromWordPressTags(t *testing.T) {
	t.Parallel()

	html := `<html><body><script>self.__next_f.push("\"tags\":[{\"slug\":\"coupe-du-roi\"},{\"slug\":\"real-madrid\"}]")</script>
<article><p>Les notes.</p></article></body></html>`
	got := ClassifyCompetition(html, "Real Madrid - Leganés : les notes")
	if got != config.CompetitionCopaDelRey {
		t.Errorf("competition = %q", got)
	}
}

// Tag slugs outside the bounded window after the marker belong to related
// articles and must be ignored.
func TestClassifyCompetitionTagsWindowBounded(t *testing.T) {
	t.Parallel()

	padding := strings.Repeat("x", 900)
	html := `<html><body><script>` +
		`\"tags\":[{\"slug\":\"real-madrid\"}]` + padding + `supercopa` +
		`</script><article><p>Victoire en championnat.</p></article></body></html>`
	got := ClassifyCompetition(html, "Les notes")
	if got != config.CompetitionLiga {
		t.Errorf("competition = %q, want body fallback to Liga", got)
	}
}

func TestClassifyCompetitionFromOGImage(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<meta property="og:image" content="https://cdn.test/uploads/2025/09/champions-league-bernabeu.jpg"/>
</head><body><article><p>Les notes.</p></article></body></html>`
	got := ClassifyCompetition(html, "Real Madrid - Marseille : les notes")
	if got != config.CompetitionChampionsLeague {
		t.Errorf("competition = %q", got)
	}
}

func TestClassifyCompetitionSkipsGenericImage(t *testing.T) {
	t.Parallel()

	// A generic placeholder filename carries no competition signal even if
	// further cascade stages do.
	html := `<html><head>
<meta property="og:image" content="https://cdn.test/uploads/2025/09/nouveau-projet-12.jpg"/>
</head><body><article><p>Quart de finale maîtrisé.</p></article></body></html>`
	got := ClassifyCompetition(html, "Les notes")
	if got != config.CompetitionChampionsLeague {
		t.Errorf("competition = %q, want body classification", got)
	}
}

func TestClassifyCompetitionBodyKeywords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		body string
		want string
	}{
		{"Un match de pré-saison sans rythme.", config.CompetitionFriendly},
		{"Victoire en Coupe du Roi au bout de la nuit.", config.CompetitionCopaDelRey},
		{"Le championnat reprend ses droits.", config.CompetitionLiga},
	}
	for _, tt := range tests {
		html := `<html><body><article><p>` + tt.body + `</p></article></body></html>`
		if got := ClassifyCompetition(html, "Les notes"); got != tt.want {
			t.Errorf("body %q: competition = %q, want %q", tt.body, got, tt.want)
		}
	}
}

// Without an <article> boundary the fallback scans rendered text, never raw
// markup: a navigation link slug must not outrank the visible body.
func TestClassifyCompetitionIgnoresLinkSlugs(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<p>Victoire en championnat, sans trembler.</p>
<div class="sidebar"><a href="/tag/coupe-intercontinentale/">Tous les articles</a></div>
</body></html>`
	if got := ClassifyCompetition(html, "Les notes"); got != config.CompetitionLiga {
		t.Errorf("competition = %q, want Liga", got)
	}
}

func TestClassifyCompetitionDefaultsToLiga(t *testing.T) {
	t.Parallel()

	html := `<html><body><article><p>Les notes du match.</p></article></body></html>`
	if got := ClassifyCompetition(html, "Les notes du match"); got != config.CompetitionLiga {
		t.Errorf("competition = %q, want Liga default", got)
	}
}
