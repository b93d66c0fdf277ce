// Package fotmob fetches the club's finished matches from FotMob: player
// ratings, goals, assists, cards and photos. FotMob is the secondary
// ratings source; its records are joined to the article corpus by
// (canonical player name, date) only — the two sources share no match
// identifier.
package fotmob

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/notesdureal/notes-data/internal/fetch"
	"github.com/notesdureal/notes-data/internal/name"
)

const (
	baseURL  = "https://www.fotmob.com"
	imageCDN = "https://images.fotmob.com/image_resources/playerimages/%d.png"
)

// --------------------------------------------------------------------------
// Records
// --------------------------------------------------------------------------

// Player is one club player's line in one FotMob match. Rating is nil when
// FotMob did not rate the player (it reports 0 for unrated appearances).
type Player struct {
	Name        string   `json:"name"`
	PlayerID    int      `json:"player_id,omitempty"`
	Rating      *float64 `json:"rating"`
	Goals       int      `json:"goals"`
	Assists     int      `json:"assists"`
	YellowCards int      `json:"yellow_cards"`
	RedCards    int      `json:"red_cards"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// Match is one finished FotMob match for the club.
type Match struct {
	MatchID     int      `json:"match_id"`
	Date        string   `json:"date"` // ISO 8601 (YYYY-MM-DD)
	Competition string   `json:"competition,omitempty"`
	Opponent    string   `json:"opponent,omitempty"`
	Score       string   `json:"score,omitempty"`
	Players     []Player `json:"players"`
}

// Fixture is one entry from the team fixtures endpoint.
type Fixture struct {
	MatchID int
	PageURL string
	Date    string
}

// --------------------------------------------------------------------------
// Client
// --------------------------------------------------------------------------

// Client scrapes FotMob through the shared fetcher.
type Client struct {
	fetcher     *fetch.Fetcher
	names       *name.Normalizer
	teamID      int
	seasonStart string
	logger      *slog.Logger
}

// NewClient creates a FotMob client for one team.
func NewClient(fetcher *fetch.Fetcher, names *name.Normalizer, teamID int, seasonStart string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		fetcher:     fetcher,
		names:       names,
		teamID:      teamID,
		seasonStart: seasonStart,
		logger:      logger,
	}
}

// Fixtures returns the team's finished fixtures since the season start.
func (c *Client) Fixtures(ctx context.Context, useCache bool) ([]Fixture, error) {
	url := fmt.Sprintf("%s/api/teams?id=%d", baseURL, c.teamID)
	body, err := c.fetcher.Fetch(ctx, url, useCache)
	if err != nil {
		return nil, fmt.Errorf("team fixtures: %w", err)
	}
	if body == "" {
		return nil, fmt.Errorf("team fixtures: empty response")
	}

	var payload struct {
		Fixtures struct {
			AllFixtures struct {
				Fixtures []struct {
					ID      int    `json:"id"`
					PageURL string `json:"pageUrl"`
					Status  struct {
						Finished bool   `json:"finished"`
						UTCTime  string `json:"utcTime"`
					} `json:"status"`
				} `json:"fixtures"`
			} `json:"allFixtures"`
		} `json:"fixtures"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("decode team fixtures: %w", err)
	}

	var fixtures []Fixture
	for _, f := range payload.Fixtures.AllFixtures.Fixtures {
		if !f.Status.Finished || f.ID == 0 || f.PageURL == "" {
			continue
		}
		date := isoDate(f.Status.UTCTime)
		if date < c.seasonStart {
			continue
		}
		fixtures = append(fixtures, Fixture{MatchID: f.ID, PageURL: f.PageURL, Date: date})
	}

	c.logger.Info("Finished fixtures found", "count", len(fixtures), "since", c.seasonStart)
	return fixtures, nil
}

// Matches fetches and parses every finished match since the season start,
// sorted by date descending. A match that fails to fetch or parse is
// skipped — the join layer tolerates a partial secondary corpus.
func (c *Client) Matches(ctx context.Context, useCache bool) ([]Match, error) {
	fixtures, err := c.Fixtures(ctx, useCache)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, f := range fixtures {
		html, err := c.fetcher.Fetch(ctx, baseURL+f.PageURL, useCache)
		if err != nil || html == "" {
			c.logger.Warn("Match fetch failed, skipping", "match_id", f.MatchID, "error", err)
			continue
		}

		match, err := c.parseMatchPage(f.MatchID, html, f.Date)
		if err != nil {
			c.logger.Warn("Match parse failed, skipping", "match_id", f.MatchID, "error", err)
			continue
		}
		matches = append(matches, *match)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Date != matches[j].Date {
			return matches[i].Date > matches[j].Date
		}
		return matches[i].MatchID < matches[j].MatchID
	})
	return matches, nil
}

// --------------------------------------------------------------------------
// Match page parsing (__NEXT_DATA__ payload)
// --------------------------------------------------------------------------

type lineupPlayer struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Performance struct {
		Rating json.Number `json:"rating"`
		Events []struct {
			Type string `json:"type"`
		} `json:"events"`
	} `json:"performance"`
}

type lineupTeam struct {
	ID       int            `json:"id"`
	Starters []lineupPlayer `json:"starters"`
	Subs     []lineupPlayer `json:"subs"`
}

type nextData struct {
	Props struct {
		PageProps struct {
			General struct {
				MatchTimeUTCDate string `json:"matchTimeUTCDate"`
				LeagueName       string `json:"leagueName"`
			} `json:"general"`
			Header struct {
				Status struct {
					ScoreStr string `json:"scoreStr"`
				} `json:"status"`
				Teams []struct {
					ID   int    `json:"id"`
					Name string `json:"name"`
				} `json:"teams"`
			} `json:"header"`
			Content struct {
				Lineup struct {
					HomeTeam lineupTeam `json:"homeTeam"`
					AwayTeam lineupTeam `json:"awayTeam"`
				} `json:"lineup"`
			} `json:"content"`
		} `json:"pageProps"`
	} `json:"props"`
}

func (c *Client) parseMatchPage(matchID int, html, fallbackDate string) (*Match, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	payload := doc.Find(`script#__NEXT_DATA__`).First().Text()
	if payload == "" {
		return nil, fmt.Errorf("no __NEXT_DATA__ payload")
	}

	var data nextData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("decode __NEXT_DATA__: %w", err)
	}
	pp := data.Props.PageProps

	date := isoDate(pp.General.MatchTimeUTCDate)
	if date == "" {
		date = fallbackDate
	}

	var opponent string
	for _, t := range pp.Header.Teams {
		if t.ID != c.teamID {
			opponent = t.Name
			break
		}
	}

	lineup := pp.Content.Lineup
	var team *lineupTeam
	switch c.teamID {
	case lineup.HomeTeam.ID:
		team = &lineup.HomeTeam
	case lineup.AwayTeam.ID:
		team = &lineup.AwayTeam
	default:
		return nil, fmt.Errorf("team %d not in lineup", c.teamID)
	}

	var players []Player
	for _, lp := range append(append([]lineupPlayer{}, team.Starters...), team.Subs...) {
		if p := c.parsePlayer(lp); p != nil {
			players = append(players, *p)
		}
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("no players in lineup")
	}

	return &Match{
		MatchID:     matchID,
		Date:        date,
		Competition: pp.General.LeagueName,
		Opponent:    opponent,
		Score:       pp.Header.Status.ScoreStr,
		Players:     players,
	}, nil
}

// parsePlayer normalizes one lineup entry. Returns nil for empty names and
// coaching staff.
func (c *Client) parsePlayer(lp lineupPlayer) *Player {
	if lp.Name == "" {
		return nil
	}
	canonical := c.names.Normalize(lp.Name)
	if canonical == "" || name.IsSentinel(canonical) {
		return nil
	}

	// FotMob reports 0 for unrated appearances.
	var rating *float64
	if f, err := lp.Performance.Rating.Float64(); err == nil && f > 0 {
		rating = &f
	}

	p := &Player{
		Name:        canonical,
		PlayerID:    lp.ID,
		Rating:      rating,
		Goals:       countEvents(lp, "goal"),
		Assists:     countEvents(lp, "assist"),
		YellowCards: countEvents(lp, "yellowCard"),
		RedCards:    countEvents(lp, "redCard"),
	}
	if lp.ID != 0 {
		p.ImageURL = fmt.Sprintf(imageCDN, lp.ID)
	}
	return p
}

func countEvents(lp lineupPlayer, eventType string) int {
	n := 0
	for _, ev := range lp.Performance.Events {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

// isoDate truncates a UTC timestamp to its date part.
func isoDate(utc string) string {
	if len(utc) < 10 {
		return ""
	}
	return utc[:10]
}
