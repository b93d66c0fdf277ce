// Package article parses match-report documents from the primary source
// into structured per-player rating records and infers the competition a
// document belongs to.
package article

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/notesdureal/notes-data/internal/name"
)

// --------------------------------------------------------------------------
// Records
// --------------------------------------------------------------------------

// PlayerRating is one player's rating in one article. Note is nil for
// players the journalist explicitly left unrated ("Non noté").
type PlayerRating struct {
	Name string `json:"name"`
	Note *int   `json:"note"`
}

// Article is the canonical per-document record persisted to the corpus.
// Players holds at most one entry per canonical name; first occurrence
// wins. Never mutated after creation — a re-scrape regenerates it whole.
type Article struct {
	URL         string         `json:"url"`
	Title       string         `json:"title"`
	Date        string         `json:"date"` // ISO 8601 (YYYY-MM-DD)
	Competition string         `json:"competition"`
	Opponent    string         `json:"opponent"`
	Players     []PlayerRating `json:"players"`
}

// --------------------------------------------------------------------------
// Parser
// --------------------------------------------------------------------------

// Parser turns raw article HTML into Article records.
type Parser struct {
	names  *name.Normalizer
	club   string
	clubRe *regexp.Regexp
	logger *slog.Logger
}

// NewParser creates a Parser. club is the club's display name, used to pick
// the opponent out of "Team A - Team B (x-y)" titles.
func NewParser(names *name.Normalizer, club string, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		names:  names,
		club:   club,
		clubRe: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(club)),
		logger: logger,
	}
}

// ratingRe matches the emphasized rating line text: "Name[, annotation](N/10)".
var ratingRe = regexp.MustCompile(`^\s*([^(]+?)\s*\((\d+)/10\)\s*$`)

// nonNotedRe marks the explicit "not rated" paragraphs.
var nonNotedRe = regexp.MustCompile(`(?i)Non\s+not[ée]`)

// nonNotedNameRe takes the text preceding the first comma/colon/parenthesis
// as the raw name of an unrated player.
var nonNotedNameRe = regexp.MustCompile(`^([^:,(]+?)\s*(?:[:,(]|$)`)

var titleScoreRe = regexp.MustCompile(`^(.+?)\s*[-–]\s*(.+?)\s*[\(\[]?\s*\d+\s*[-–]\s*\d+`)

// Parse extracts the structured record from one document. ok is false when
// the document is not a ratings article (no valid player entries survive
// filtering) — an expected outcome, not an error.
func (p *Parser) Parse(url, html, date string) (*Article, bool) {
	// Cheap pre-check before building a DOM: ratings articles always
	// contain at least one "(N/10)".
	if !strings.Contains(html, "/10)") {
		p.logger.Debug("No ratings found, skipping", "url", url)
		return nil, false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		p.logger.Warn("Unparseable document", "url", url, "error", err)
		return nil, false
	}

	title := extractTitle(doc)
	competition := classifyCompetition(doc, html, title)
	opponent := p.extractOpponent(title)

	var players []PlayerRating
	seen := map[string]bool{}

	doc.Find("strong").Each(func(_ int, sel *goquery.Selection) {
		text := collapseSpace(sel.Text())
		m := ratingRe.FindStringSubmatch(text)
		if m == nil || nonNotedRe.MatchString(m[1]) {
			return
		}

		note, err := strconv.Atoi(m[2])
		if err != nil {
			return
		}
		if note < 0 || note > 10 {
			p.logger.Warn("Invalid rating", "rating", note, "player", m[1], "url", url)
			return
		}

		canonical := p.names.Normalize(m[1])
		if name.IsSentinel(canonical) {
			p.logger.Debug("Skipping coach", "raw", m[1], "url", url)
			return
		}
		if seen[canonical] {
			p.logger.Debug("Duplicate player, keeping first", "player", canonical, "url", url)
			return
		}

		seen[canonical] = true
		n := note
		players = append(players, PlayerRating{Name: canonical, Note: &n})
	})

	// "Non noté" paragraphs: <p><strong>Nom, entré...</strong>: Non noté.</p>
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := collapseSpace(sel.Text())
		if !nonNotedRe.MatchString(text) {
			return
		}
		m := nonNotedNameRe.FindStringSubmatch(text)
		if m == nil || strings.TrimSpace(m[1]) == "" {
			return
		}

		canonical := p.names.Normalize(m[1])
		if name.IsSentinel(canonical) || seen[canonical] {
			return
		}

		seen[canonical] = true
		players = append(players, PlayerRating{Name: canonical, Note: nil})
		p.logger.Debug("Non-rated player", "player", canonical, "url", url)
	})

	if len(players) == 0 {
		p.logger.Debug("No valid player ratings", "url", url)
		return nil, false
	}

	return &Article{
		URL:         url,
		Title:       title,
		Date:        date,
		Competition: competition,
		Opponent:    opponent,
		Players:     players,
	}, true
}

// --------------------------------------------------------------------------
// Title / opponent extraction
// --------------------------------------------------------------------------

func extractTitle(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if t := strings.TrimSpace(content); t != "" {
			return t
		}
	}
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	return "Sans titre"
}

// extractOpponent pulls the non-club side out of a "Team A - Team B (x-y)"
// title. Titles without a scoreline pass through unchanged.
func (p *Parser) extractOpponent(title string) string {
	m := titleScoreRe.FindStringSubmatch(title)
	if m == nil {
		return title
	}
	team1 := strings.TrimSpace(m[1])
	team2 := strings.TrimSpace(m[2])
	if p.clubRe.MatchString(team1) {
		return team2
	}
	return team1
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

var collapseRe = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return strings.TrimSpace(collapseRe.ReplaceAllString(s, " "))
}
