package article

import (
	"strings"
	"testing"

	"github.com/notesdureal/notes-data/internal/name"
)

func newTestParser() *Parser {
	return NewParser(name.New(name.DefaultTables()), "Real Madrid", nil)
}

const ratingsHTML = `<html><head>
<meta property="og:title" content="Real Madrid - FC Barcelone (2-1) : les notes des Madrilènes"/>
</head><body><article>
<p>Victoire au Bernabéu en Liga.</p>
<p><strong>Courtois (7/10)</strong> : décisif dans le money-time.</p>
<p><strong>Vinicius Jr. (8/10)</strong> : percutant sur son aile.</p>
<p><strong>Mbappé (6/10)</strong> : trop discret.</p>
<p><strong>Vinicius (9/10)</strong> : doublon éditorial.</p>
<p><strong>Ancelotti (5/10)</strong> : bon coaching.</p>
<p><strong>Güler (11/10)</strong> : coquille.</p>
<p><strong>Endrick, entré en jeu</strong> : Non noté.</p>
</article></body></html>`

func TestParseRatingsArticle(t *testing.T) {
	t.Parallel()
	p := newTestParser()

	a, ok := p.Parse("https://example.test/2025/10/26/les-notes", ratingsHTML, "2025-10-26")
	if !ok {
		t.Fatal("expected ratings article")
	}

	if a.Date != "2025-10-26" {
		t.Errorf("date = %q", a.Date)
	}
	if a.Opponent != "FC Barcelone" {
		t.Errorf("opponent = %q", a.Opponent)
	}

	byName := map[string]*int{}
	for _, pr := range a.Players {
		byName[pr.Name] = pr.Note
	}

	// Rated entries resolve to canonical names.
	if n := byName["Thibaut Courtois"]; n == nil || *n != 7 {
		t.Errorf("Courtois note = %v", n)
	}
	if n := byName["Kylian Mbappé"]; n == nil || *n != 6 {
		t.Errorf("Mbappé note = %v", n)
	}
	// Duplicate canonical name keeps the first occurrence.
	if n := byName["Vinicius Jr"]; n == nil || *n != 8 {
		t.Errorf("Vinicius note = %v", n)
	}
	// Coach lines are excluded.
	if _, ok := byName[name.Sentinel]; ok {
		t.Error("sentinel entry leaked into players")
	}
	for n := range byName {
		if strings.Contains(n, "Ancelotti") {
			t.Errorf("coach in players: %q", n)
		}
	}
	// Out-of-range ratings are dropped entirely.
	if _, ok := byName["Arda Güler"]; ok {
		t.Error("out-of-range rating kept")
	}
	// "Non noté" players appear with a nil note.
	n, ok := byName["Endrick Felipe"]
	if !ok {
		t.Fatal("unrated player missing")
	}
	if n != nil {
		t.Errorf("unrated player has note %d", *n)
	}

	if len(a.Players) != 5 {
		t.Errorf("players = %d, want 5", len(a.Players))
	}
}

func TestParseNonRatingsArticle(t *testing.T) {
	t.Parallel()
	p := newTestParser()

	html := `<html><body><article><p>Mercato : le Real suit un milieu.</p></article></body></html>`
	if _, ok := p.Parse("https://example.test/2025/10/26/mercato-notes", html, "2025-10-26"); ok {
		t.Error("expected non-ratings article to be rejected")
	}
}

// An article rating only coaching staff carries zero player entries and
// must be rejected like a non-ratings document.
func TestParseCoachOnlyArticle(t *testing.T) {
	t.Parallel()
	p := newTestParser()

	html := `<html><body><article>
<p><strong>Ancelotti (8/10)</strong> : le plan de jeu parfait.</p>
</article></body></html>`
	if _, ok := p.Parse("https://example.test/2025/10/26/la-note-du-coach", html, "2025-10-26"); ok {
		t.Error("expected coach-only article to be rejected")
	}
}

func TestParseTitleFallsBackToH1(t *testing.T) {
	t.Parallel()
	p := newTestParser()

	html := `<html><body><h1>Majorque - Real Madrid (0-1) : les notes</h1><article>
<p><strong>Valverde (7/10)</strong> : patron.</p>
</article></body></html>`
	a, ok := p.Parse("https://example.test/2025/08/20/notes", html, "2025-08-20")
	if !ok {
		t.Fatal("expected ratings article")
	}
	if a.Title != "Majorque - Real Madrid (0-1) : les notes" {
		t.Errorf("title = %q", a.Title)
	}
	if a.Opponent != "Majorque" {
		t.Errorf("opponent = %q", a.Opponent)
	}
}

func TestExtractOpponentWithoutScoreline(t *testing.T) {
	t.Parallel()
	p := newTestParser()

	title := "Les notes des Madrilènes face à Valence"
	if got := p.extractOpponent(title); got != title {
		t.Errorf("opponent = %q, want title passthrough", got)
	}
}
