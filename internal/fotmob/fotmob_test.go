package fotmob

import (
	"fmt"
	"testing"

	"github.com/notesdureal/notes-data/internal/name"
)

const nextDataPayload = `{
  "props": {
    "pageProps": {
      "general": {
        "matchTimeUTCDate": "2025-10-26T15:15:00.000Z",
        "leagueName": "LaLiga"
      },
      "header": {
        "status": {"scoreStr": "2 - 1"},
        "teams": [
          {"id": 8633, "name": "Real Madrid"},
          {"id": 8634, "name": "Barcelona"}
        ]
      },
      "content": {
        "lineup": {
          "homeTeam": {
            "id": 8633,
            "starters": [
              {"id": 101, "name": "Thibaut Courtois",
               "performance": {"rating": 7.4, "events": []}},
              {"id": 102, "name": "Vinícius Júnior",
               "performance": {"rating": 8.1,
                 "events": [{"type": "goal"}, {"type": "assist"}, {"type": "yellowCard"}]}}
            ],
            "subs": [
              {"id": 103, "name": "Endrick",
               "performance": {"rating": 0, "events": []}}
            ]
          },
          "awayTeam": {
            "id": 8634,
            "starters": [
              {"id": 201, "name": "Wojciech Szczesny",
               "performance": {"rating": 6.0, "events": []}}
            ],
            "subs": []
          }
        }
      }
    }
  }
}`

func matchHTML(payload string) string {
	return fmt.Sprintf(`<html><body><script id="__NEXT_DATA__" type="application/json">%s</script></body></html>`, payload)
}

func newTestClient() *Client {
	return NewClient(nil, name.New(name.DefaultTables()), 8633, "2025-08-01", nil)
}

func TestParseMatchPage(t *testing.T) {
	t.Parallel()
	c := newTestClient()

	m, err := c.parseMatchPage(4500001, matchHTML(nextDataPayload), "2025-10-25")
	if err != nil {
		t.Fatalf("parseMatchPage: %v", err)
	}

	if m.Date != "2025-10-26" {
		t.Errorf("date = %q, want payload date over fallback", m.Date)
	}
	if m.Opponent != "Barcelona" {
		t.Errorf("opponent = %q", m.Opponent)
	}
	if m.Competition != "LaLiga" {
		t.Errorf("competition = %q", m.Competition)
	}
	if m.Score != "2 - 1" {
		t.Errorf("score = %q", m.Score)
	}

	// Only the club's side of the lineup is kept.
	if len(m.Players) != 3 {
		t.Fatalf("players = %d, want 3", len(m.Players))
	}
	byName := map[string]Player{}
	for _, p := range m.Players {
		byName[p.Name] = p
	}
	if _, ok := byName["Wojciech Szczesny"]; ok {
		t.Error("opponent player leaked into lineup")
	}

	vini, ok := byName["Vinicius Jr"]
	if !ok {
		t.Fatal("Vinicius missing, name not normalized")
	}
	if vini.Rating == nil || *vini.Rating != 8.1 {
		t.Errorf("rating = %v", vini.Rating)
	}
	if vini.Goals != 1 || vini.Assists != 1 || vini.YellowCards != 1 || vini.RedCards != 0 {
		t.Errorf("events = %+v", vini)
	}
	if vini.ImageURL == "" {
		t.Error("image URL missing")
	}

	// Rating 0 means unrated.
	endrick := byName["Endrick Felipe"]
	if endrick.Rating != nil {
		t.Errorf("unrated sub has rating %v", *endrick.Rating)
	}
}

func TestParseMatchPageClubNotInLineup(t *testing.T) {
	t.Parallel()
	c := NewClient(nil, name.New(name.DefaultTables()), 9999, "2025-08-01", nil)

	if _, err := c.parseMatchPage(1, matchHTML(nextDataPayload), "2025-10-25"); err == nil {
		t.Error("expected error when the club is in neither lineup")
	}
}

func TestParseMatchPageNoPayload(t *testing.T) {
	t.Parallel()
	c := newTestClient()

	if _, err := c.parseMatchPage(1, `<html><body><p>rien</p></body></html>`, "2025-10-25"); err == nil {
		t.Error("expected error for missing payload")
	}
}

func TestIsoDate(t *testing.T) {
	t.Parallel()

	if got := isoDate("2025-10-26T15:15:00.000Z"); got != "2025-10-26" {
		t.Errorf("isoDate = %q", got)
	}
	if got := isoDate("bad"); got != "" {
		t.Errorf("isoDate = %q, want empty", got)
	}
}
