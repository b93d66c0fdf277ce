// Package stats merges the article corpus with the FotMob corpus and
// aggregates per-player statistics. Everything here is a deterministic,
// total recomputation: corpus in, statistics out, no incremental patching.
// That keeps the output trivially consistent after corpus growth or alias
// corrections, which retroactively move historical entries between
// canonical buckets.
package stats

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/notesdureal/notes-data/internal/article"
	"github.com/notesdureal/notes-data/internal/fotmob"
	"github.com/notesdureal/notes-data/internal/name"
)

// --------------------------------------------------------------------------
// Records
// --------------------------------------------------------------------------

// MatchEntry is one player's merged line for one match. Note is the
// combined rating: the mean of whichever of the two source ratings are
// present, nil when both are absent. JSON field names are the persisted
// interchange contract — do not rename them casually.
type MatchEntry struct {
	Date        string   `json:"date"`
	Opponent    string   `json:"opponent"`
	Competition string   `json:"competition"`
	Note        *float64 `json:"note"`
	ArticleNote *int     `json:"jdr_note"`
	FotMobNote  *float64 `json:"fotmob_note"`
	Goals       int      `json:"goals"`
	Assists     int      `json:"assists"`
	YellowCards int      `json:"yellow_cards"`
	RedCards    int      `json:"red_cards"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
}

// CompetitionStats is the per-competition breakdown. Standard deviation is
// deliberately global-only.
type CompetitionStats struct {
	Moyenne    float64   `json:"moyenne"`
	NbMatchs   int       `json:"nb_matchs"`
	NbNonNotes int       `json:"nb_non_notes"`
	Notes      []float64 `json:"notes"`
}

// PlayerStats is the aggregated output for one canonical player.
type PlayerStats struct {
	PlayerName       string                      `json:"player_name"`
	ImageURL         string                      `json:"image_url,omitempty"`
	MoyenneGlobale   float64                     `json:"moyenne_globale"`
	MoyenneArticle   float64                     `json:"moyenne_jdr"`
	MoyenneFotMob    float64                     `json:"moyenne_fotmob"`
	NbMatchs         int                         `json:"nb_matchs"`
	NbMatchsNonNotes int                         `json:"nb_matchs_non_notes"`
	NbMatchsTotal    int                         `json:"nb_matchs_total"`
	EcartType        float64                     `json:"ecart_type"`
	NoteMax          float64                     `json:"note_max"`
	NoteMin          float64                     `json:"note_min"`
	TotalGoals       int                         `json:"total_goals"`
	TotalAssists     int                         `json:"total_assists"`
	TotalYellowCards int                         `json:"total_yellow_cards"`
	TotalRedCards    int                         `json:"total_red_cards"`
	ParCompetition   map[string]CompetitionStats `json:"par_competition"`
	DetailMatchs     []MatchEntry                `json:"detail_matchs"`
}

// Options filters the computation before aggregation.
type Options struct {
	Competition string // exact competition label, "" = all
	Player      string // canonical player name, case-insensitive, "" = all
}

// --------------------------------------------------------------------------
// Cross-source join
// --------------------------------------------------------------------------

type joinKey struct {
	Name string
	Date string
}

type secondary struct {
	Rating      *float64
	Goals       int
	Assists     int
	YellowCards int
	RedCards    int
	ImageURL    string
}

// buildIndex keys the FotMob corpus by (canonical name, date) for the
// join. Date equality is the sole join predicate — the documented
// precondition is that a player appears for the club at most once per
// calendar date. A collision means a double-header or a data-entry error;
// it is logged and resolved last-write-wins.
func buildIndex(matches []fotmob.Match, names *name.Normalizer, logger *slog.Logger) map[joinKey]secondary {
	if logger == nil {
		logger = slog.Default()
	}
	index := make(map[joinKey]secondary)
	for _, m := range matches {
		for _, p := range m.Players {
			canonical := names.Normalize(p.Name)
			if name.IsSentinel(canonical) {
				continue
			}
			key := joinKey{Name: canonical, Date: m.Date}
			if _, exists := index[key]; exists {
				logger.Warn("Duplicate (player, date) in secondary corpus, keeping last",
					"player", canonical, "date", m.Date, "match_id", m.MatchID)
			}
			index[key] = secondary{
				Rating:      p.Rating,
				Goals:       p.Goals,
				Assists:     p.Assists,
				YellowCards: p.YellowCards,
				RedCards:    p.RedCards,
				ImageURL:    p.ImageURL,
			}
		}
	}
	return index
}

// --------------------------------------------------------------------------
// Aggregation
// --------------------------------------------------------------------------

// Compute merges both corpora and aggregates statistics per canonical
// player, sorted by combined mean descending, rated-match count
// descending. Tolerates an empty or partial FotMob corpus — entries then
// carry primary-only ratings and zeroed counters.
func Compute(articles []article.Article, matches []fotmob.Match, opts Options, names *name.Normalizer, logger *slog.Logger) []PlayerStats {
	if logger == nil {
		logger = slog.Default()
	}

	index := buildIndex(matches, names, logger)

	playerMatches := make(map[string][]MatchEntry)
	playerImages := make(map[string]string)
	var order []string // first-seen order, for deterministic iteration

	for _, a := range articles {
		if opts.Competition != "" && a.Competition != opts.Competition {
			continue
		}

		for _, p := range a.Players {
			canonical := names.Normalize(p.Name)
			if name.IsSentinel(canonical) {
				continue
			}
			if opts.Player != "" && !strings.EqualFold(canonical, opts.Player) {
				continue
			}

			fm, hasFM := index[joinKey{Name: canonical, Date: a.Date}]

			// First-seen image wins; display-only.
			if hasFM && fm.ImageURL != "" {
				if _, ok := playerImages[canonical]; !ok {
					playerImages[canonical] = fm.ImageURL
				}
			}

			entry := MatchEntry{
				Date:        a.Date,
				Opponent:    a.Opponent,
				Competition: a.Competition,
				ArticleNote: p.Note,
				URL:         a.URL,
				Title:       a.Title,
			}
			if hasFM {
				entry.FotMobNote = fm.Rating
				entry.Goals = fm.Goals
				entry.Assists = fm.Assists
				entry.YellowCards = fm.YellowCards
				entry.RedCards = fm.RedCards
			}
			// Combined per entry, never from pre-aggregated averages:
			// averaging averages is wrong under missing data.
			entry.Note = combined(p.Note, entry.FotMobNote)

			if _, seen := playerMatches[canonical]; !seen {
				order = append(order, canonical)
			}
			playerMatches[canonical] = append(playerMatches[canonical], entry)
		}
	}

	results := make([]PlayerStats, 0, len(order))
	for _, player := range order {
		results = append(results, aggregatePlayer(player, playerMatches[player], playerImages[player]))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MoyenneGlobale != results[j].MoyenneGlobale {
			return results[i].MoyenneGlobale > results[j].MoyenneGlobale
		}
		if results[i].NbMatchs != results[j].NbMatchs {
			return results[i].NbMatchs > results[j].NbMatchs
		}
		return results[i].PlayerName < results[j].PlayerName
	})
	return results
}

func aggregatePlayer(player string, entries []MatchEntry, imageURL string) PlayerStats {
	var rated, articleRated, fotmobRated []float64
	for _, e := range entries {
		if e.Note != nil {
			rated = append(rated, *e.Note)
		}
		if e.ArticleNote != nil {
			articleRated = append(articleRated, float64(*e.ArticleNote))
		}
		if e.FotMobNote != nil {
			fotmobRated = append(fotmobRated, *e.FotMobNote)
		}
	}

	s := PlayerStats{
		PlayerName:       player,
		ImageURL:         imageURL,
		MoyenneGlobale:   round2(mean(rated)),
		MoyenneArticle:   round2(mean(articleRated)),
		MoyenneFotMob:    round2(mean(fotmobRated)),
		NbMatchs:         len(rated),
		NbMatchsNonNotes: len(entries) - len(rated),
		NbMatchsTotal:    len(entries),
		EcartType:        round2(sampleStdev(rated)),
		ParCompetition:   make(map[string]CompetitionStats),
	}

	if len(rated) > 0 {
		s.NoteMax = rated[0]
		s.NoteMin = rated[0]
		for _, v := range rated[1:] {
			s.NoteMax = math.Max(s.NoteMax, v)
			s.NoteMin = math.Min(s.NoteMin, v)
		}
	}

	for _, e := range entries {
		s.TotalGoals += e.Goals
		s.TotalAssists += e.Assists
		s.TotalYellowCards += e.YellowCards
		s.TotalRedCards += e.RedCards

		cs := s.ParCompetition[e.Competition]
		if e.Note != nil {
			cs.Notes = append(cs.Notes, *e.Note)
			cs.NbMatchs++
		} else {
			cs.NbNonNotes++
		}
		s.ParCompetition[e.Competition] = cs
	}
	for comp, cs := range s.ParCompetition {
		if cs.NbMatchs == 0 && cs.NbNonNotes == 0 {
			delete(s.ParCompetition, comp)
			continue
		}
		if len(cs.Notes) == 0 {
			// Only unrated appearances in this competition: no mean to
			// report, drop the bucket like the rated-only grouping does.
			delete(s.ParCompetition, comp)
			continue
		}
		cs.Moyenne = round2(mean(cs.Notes))
		s.ParCompetition[comp] = cs
	}

	// Timeline for downstream rendering, oldest first.
	detail := make([]MatchEntry, len(entries))
	copy(detail, entries)
	sort.SliceStable(detail, func(i, j int) bool { return detail[i].Date < detail[j].Date })
	s.DetailMatchs = detail

	return s
}

// --------------------------------------------------------------------------
// Query helpers
// --------------------------------------------------------------------------

// Filter returns the subset of a computed statistics list matching a
// player (case-insensitive exact) — the single-player detail query.
func Filter(all []PlayerStats, player string) []PlayerStats {
	if player == "" {
		return all
	}
	var out []PlayerStats
	for _, s := range all {
		if strings.EqualFold(s.PlayerName, player) {
			out = append(out, s)
		}
	}
	return out
}

// MinMatches keeps players with at least n rated matches.
func MinMatches(all []PlayerStats, n int) []PlayerStats {
	if n <= 1 {
		return all
	}
	var out []PlayerStats
	for _, s := range all {
		if s.NbMatchs >= n {
			out = append(out, s)
		}
	}
	return out
}

// Competitions counts articles per competition label.
func Competitions(articles []article.Article) map[string]int {
	out := make(map[string]int)
	for _, a := range articles {
		out[a.Competition]++
	}
	return out
}

// --------------------------------------------------------------------------
// Math helpers
// --------------------------------------------------------------------------

// combined averages whichever ratings are present, 2-decimal rounded; nil
// when both are absent.
func combined(articleNote *int, fotmobNote *float64) *float64 {
	var sum float64
	var n int
	if articleNote != nil {
		sum += float64(*articleNote)
		n++
	}
	if fotmobNote != nil {
		sum += *fotmobNote
		n++
	}
	if n == 0 {
		return nil
	}
	v := round2(sum / float64(n))
	return &v
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdev is 0.0 under two rated matches: a single observation has no
// defined sample variance, and the output contract wants a number.
func sampleStdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
