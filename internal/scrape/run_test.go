package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/notesdureal/notes-data/internal/article"
	"github.com/notesdureal/notes-data/internal/fetch"
	"github.com/notesdureal/notes-data/internal/name"
)

const clasicoHTML = `<html><head>
<meta property="og:title" content="Real Madrid - FC Barcelone (2-1) : les notes"/>
</head><body><article>
<p>Victoire en championnat.</p>
<p><strong>Courtois (7/10)</strong> : solide.</p>
<p><strong>Mbappé (8/10)</strong> : décisif.</p>
</article></body></html>`

func miniSite(t *testing.T, articleHits *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			w.Write([]byte(`<html><body><a href="/2025/10/26/les-notes-du-clasico">notes</a></body></html>`))
			return
		}
		w.Write([]byte("<html><body></body></html>"))
	})
	mux.HandleFunc("/2025/10/26/les-notes-du-clasico", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(articleHits, 1)
		w.Write([]byte(clasicoHTML))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestPipeline(t *testing.T, baseURL string) *Pipeline {
	t.Helper()
	fetcher := fetch.NewFetcher(t.TempDir(), 600, nil)
	names := name.New(name.DefaultTables())
	enum := NewEnumerator(fetcher, baseURL, "2025-08-01", 5, nil)
	parser := article.NewParser(names, "Real Madrid", nil)
	return NewPipeline(enum, fetcher, parser, nil)
}

func TestPipelineRun(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := miniSite(t, &hits)
	p := newTestPipeline(t, srv.URL)

	articles, result, err := p.Run(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Discovered != 1 || result.Fetched != 1 || result.Parsed != 1 {
		t.Errorf("result = %s", result.Summary())
	}
	if len(articles) != 1 {
		t.Fatalf("articles = %d", len(articles))
	}
	a := articles[0]
	if a.Date != "2025-10-26" || a.Opponent != "FC Barcelone" || len(a.Players) != 2 {
		t.Errorf("article = %+v", a)
	}
}

// Incremental mode keeps stored entries without re-fetching their pages.
func TestPipelineRunIncremental(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := miniSite(t, &hits)
	p := newTestPipeline(t, srv.URL)

	existing := []article.Article{{
		URL:   srv.URL + "/2025/10/26/les-notes-du-clasico",
		Date:  "2025-10-26",
		Title: "déjà en corpus",
	}}

	articles, result, err := p.Run(context.Background(), existing, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("article page fetched %d times in incremental mode", hits)
	}
	if result.Fetched != 0 || result.Parsed != 0 {
		t.Errorf("result = %s", result.Summary())
	}
	if len(articles) != 1 || articles[0].Title != "déjà en corpus" {
		t.Errorf("stored entry not kept: %+v", articles)
	}
}

// Hard mode re-parses everything, replacing stale stored entries.
func TestPipelineRunHard(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := miniSite(t, &hits)
	p := newTestPipeline(t, srv.URL)

	existing := []article.Article{{
		URL:   srv.URL + "/2025/10/26/les-notes-du-clasico",
		Date:  "2025-10-26",
		Title: "version périmée",
	}}

	articles, _, err := p.Run(context.Background(), existing, true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if atomic.LoadInt32(&hits) == 0 {
		t.Error("hard mode did not re-fetch the article page")
	}
	if len(articles) != 1 || articles[0].Title == "version périmée" {
		t.Errorf("stale entry kept in hard mode: %+v", articles)
	}
}

// Corpus entries the search no longer surfaces survive the merge.
func TestPipelineKeepsUnsurfacedEntries(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := miniSite(t, &hits)
	p := newTestPipeline(t, srv.URL)

	existing := []article.Article{{
		URL:  srv.URL + "/2025/08/10/les-notes-anciennes",
		Date: "2025-08-10",
	}}

	articles, _, err := p.Run(context.Background(), existing, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("articles = %d, want merged corpus of 2", len(articles))
	}
	// Date-descending order.
	if articles[0].Date != "2025-10-26" || articles[1].Date != "2025-08-10" {
		t.Errorf("order: %+v", articles)
	}
}
