package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"PaperSummarizer/internal/scanner"
)

func TestBuildPageURL(t *testing.T) {
	t.Parallel()

	base := "https://arxiv.org/list/cs.AI/recent"
	u, err := buildPageURL(base, 0, 100)
	if err != nil {
		t.Fatalf("buildPageURL returned error: %v", err)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}

	if parsed.Scheme != "https" || parsed.Host != "arxiv.org" {
		t.Fatalf("unexpected host: %s", parsed.Host)
	}

	q := parsed.Query()
	if q.Get("skip") != "0" {
		t.Fatalf("expected skip=0, got %s", q.Get("skip"))
	}
	if q.Get("show") != "100" {
		t.Fatalf("expected show=100, got %s", q.Get("show"))
	}
}

func TestParseEntry(t *testing.T) {
	t.Parallel()

	html := `
	<dl>
	  <dt>
	    <span class="list-identifier"><a href="/abs/2501.12345">arXiv:2501.12345</a></span>
	  </dt>
	  <dd>
	    <div class="list-title mathjax">Title: Sample Title</div>
	  </dd>
	</dl>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	dt := doc.Find("dt").First()
	listing, ok := parseEntry(dt, dt.Next())
	if !ok {
		t.Fatal("parseEntry rejected valid entry")
	}

	if listing.ID != "2501.12345" {
		t.Fatalf("unexpected id: %s", listing.ID)
	}
	if listing.Title != "Sample Title" {
		t.Fatalf("unexpected title: %s", listing.Title)
	}
	if listing.SourceURL != "https://arxiv.org/pdf/2501.12345.pdf" {
		t.Fatalf("unexpected pdf url: %s", listing.SourceURL)
	}
}

func TestParseEntryMissingTitleFallsBack(t *testing.T) {
	t.Parallel()

	html := `
	<dl>
	  <dt><a href="/abs/2501.00042">arXiv:2501.00042</a></dt>
	  <dd></dd>
	</dl>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	dt := doc.Find("dt").First()
	listing, ok := parseEntry(dt, dt.Next())
	if !ok {
		t.Fatal("parseEntry rejected entry without title")
	}

	if listing.Title != "Paper-2501.00042" {
		t.Fatalf("unexpected fallback title: %s", listing.Title)
	}
}

func TestArxivScannerScan(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
		<dl>
		  <dt><a href="/abs/2501.00001">arXiv:2501.00001</a></dt>
		  <dd><div class="list-title mathjax">Title: Fresh Paper</div></dd>
		  <dt><a href="/abs/2501.00002">arXiv:2501.00002</a></dt>
		  <dd><div class="list-title mathjax">Title: Second Paper</div></dd>
		  <dt><a href="/abs/2501.00001">arXiv:2501.00001</a></dt>
		  <dd><div class="list-title mathjax">Title: Fresh Paper (duplicate entry)</div></dd>
		</dl>`))
	}))
	defer server.Close()

	sc := NewArxivScanner(server.Client())

	req := scanner.Request{
		SiteName: "arxiv",
		Category: "cs.AI",
		BaseURL:  server.URL + "/list/cs.AI/recent",
		Limit:    10,
	}

	listings, err := sc.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(listings) != 2 {
		t.Fatalf("expected 2 listings after id dedup, got %d", len(listings))
	}
	if listings[0].ID != "2501.00001" || listings[1].ID != "2501.00002" {
		t.Fatalf("unexpected ids: %s, %s", listings[0].ID, listings[1].ID)
	}
}

func TestArxivScannerHonorsLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
		<dl>
		  <dt><a href="/abs/2501.00001">a</a></dt>
		  <dd><div class="list-title">Title: One</div></dd>
		  <dt><a href="/abs/2501.00002">b</a></dt>
		  <dd><div class="list-title">Title: Two</div></dd>
		  <dt><a href="/abs/2501.00003">c</a></dt>
		  <dd><div class="list-title">Title: Three</div></dd>
		</dl>`))
	}))
	defer server.Close()

	sc := NewArxivScanner(server.Client())

	listings, err := sc.Scan(context.Background(), scanner.Request{
		SiteName: "arxiv",
		BaseURL:  server.URL + "/list/cs.AI/recent",
		Limit:    2,
	})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(listings) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(listings))
	}
}
