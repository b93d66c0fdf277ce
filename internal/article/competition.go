package article

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/notesdureal/notes-data/internal/config"
)

// Competition detection runs a cascade of signals of decreasing
// reliability. First match wins; the ordering is load-bearing — a body-text
// mention of another competition must never override a title signal.

// Priority 0: title keywords (human-authored, unambiguous).
var titleCompetitionRules = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`(?i)ligue\s+des\s+champions|champions\s+league`), config.CompetitionChampionsLeague},
	{regexp.MustCompile(`(?i)supercoupe|supercopa`), config.CompetitionSupercopa},
	{regexp.MustCompile(`(?i)coupe\s+du\s+roi|copa\s+del\s+rey`), config.CompetitionCopaDelRey},
	{regexp.MustCompile(`(?i)intercontinental`), config.CompetitionIntercontinental},
	{regexp.MustCompile(`(?i)\bamical\b|friendly`), config.CompetitionFriendly},
}

// Priority 1: WordPress tags embedded in the Next.js RSC payload. The JSON
// is double-escaped inside the script text, so the marker is \"tags\":[.
// Only a bounded window after the first marker is trusted: the same marker
// recurs further down for related articles.
var wpTagsMarkerRe = regexp.MustCompile(`\\"tags\\":\[`)

const wpTagsWindow = 800

var wpTagsCompetitionMap = []struct {
	slug  string
	label string
}{
	{"ligue-des-champions", config.CompetitionChampionsLeague},
	{"supercoupe", config.CompetitionSupercopa},
	{"supercopa", config.CompetitionSupercopa},
	{"copa-del-rey", config.CompetitionCopaDelRey},
	{"coupe-du-roi", config.CompetitionCopaDelRey},
	{"intercontinental", config.CompetitionIntercontinental},
	{"pre-season", config.CompetitionFriendly},
	{"friendly", config.CompetitionFriendly},
	{"amical", config.CompetitionFriendly},
}

// Priority 2: og:image filename. Editorial match images are named after the
// competition; generic placeholders carry no signal and are skipped.
var genericImageRes = []*regexp.Regexp{
	regexp.MustCompile(`^nouveau-projet[-_]?\d*\.`),
	regexp.MustCompile(`^image[-_]?\d*\.`),
}

var ogImageCompetitionMap = []struct {
	keywords []string
	label    string
}{
	{[]string{"laliga", "laliga-ea-sports", "la-liga"}, config.CompetitionLiga},
	{[]string{"champions-league", "uefa-champions-league", "ligue-des-champions"}, config.CompetitionChampionsLeague},
	{[]string{"spanish-super-cup", "supercopa"}, config.CompetitionSupercopa},
	{[]string{"copa-del-rey", "coupe-du-roi"}, config.CompetitionCopaDelRey},
	{[]string{"intercontinental"}, config.CompetitionIntercontinental},
	{[]string{"pre-season", "friendly", "amical", "preseason"}, config.CompetitionFriendly},
}

// Priority 3: body-text keywords, restricted to the <article> element to
// avoid sidebar/related-content false positives. Most specific first: the
// Liga keywords are broad substrings that would spuriously match cup
// coverage.
var bodyCompetitionRules = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`(?i)ligue\s+des\s+champions|champions\s+league|phase\s+de\s+ligue` +
		`|barrage|huitième\s+de\s+finale|quart\s+de\s+finale` +
		`|demi-finale\s+(?:de\s+la\s+)?ligue|finale\s+(?:de\s+la\s+)?ligue\s+des\s+champions`),
		config.CompetitionChampionsLeague},
	{regexp.MustCompile(`(?i)\bsupercoupe\b|\bsupercopa\b|\bsuper\s+cup\b`), config.CompetitionSupercopa},
	{regexp.MustCompile(`(?i)coupe\s+du\s+roi|copa\s+del\s+rey`), config.CompetitionCopaDelRey},
	{regexp.MustCompile(`(?i)intercontinental`), config.CompetitionIntercontinental},
	{regexp.MustCompile(`(?i)\bamical\b|match\s+de\s+pr[eé]-saison|pr[eé]-saison|friendly`), config.CompetitionFriendly},
	{regexp.MustCompile(`(?i)\bliga\b|\blaliga\b|\bchampionnat\b|\bla\s+liga\b`), config.CompetitionLiga},
}

// ClassifyCompetition infers which competition the document covers.
// Unmatched documents default to Liga — the bulk of fixtures are league
// matches, but this is a guess: rearranged cup fixtures with no signal in
// title, tags, image or body will be mislabeled.
func ClassifyCompetition(html, title string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		doc = nil
	}
	return classifyCompetition(doc, html, title)
}

func classifyCompetition(doc *goquery.Document, html, title string) string {
	if title != "" {
		for _, rule := range titleCompetitionRules {
			if rule.re.MatchString(title) {
				return rule.label
			}
		}
	}

	if loc := wpTagsMarkerRe.FindStringIndex(html); loc != nil {
		end := loc[0] + wpTagsWindow
		if end > len(html) {
			end = len(html)
		}
		window := html[loc[0]:end]
		for _, m := range wpTagsCompetitionMap {
			if strings.Contains(window, m.slug) {
				return m.label
			}
		}
	}

	if doc != nil {
		if src, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
			filename := strings.ToLower(src)
			if i := strings.LastIndex(filename, "/"); i >= 0 {
				filename = filename[i+1:]
			}
			if !isGenericImage(filename) {
				for _, m := range ogImageCompetitionMap {
					for _, kw := range m.keywords {
						if strings.Contains(filename, kw) {
							return m.label
						}
					}
				}
			}
		}
	}

	// Keyword matching runs on rendered text only: raw markup would let
	// link hrefs (/tag/coupe-intercontinentale/) masquerade as body signal.
	body := html
	if doc != nil {
		if sel := doc.Find("article"); sel.Length() > 0 {
			body = sel.First().Text()
		} else {
			body = doc.Text()
		}
	}
	for _, rule := range bodyCompetitionRules {
		if rule.re.MatchString(body) {
			return rule.label
		}
	}

	return config.CompetitionLiga
}

func isGenericImage(filename string) bool {
	for _, re := range genericImageRes {
		if re.MatchString(filename) {
			return true
		}
	}
	return false
}
