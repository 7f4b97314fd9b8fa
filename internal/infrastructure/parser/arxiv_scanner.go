package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"PaperSummarizer/internal/domain"
	"PaperSummarizer/internal/scanner"
)

const defaultLimit = 100

var absExpr = regexp.MustCompile(`/abs/(\d+\.\d+)`)

// ArxivScanner crawls a category "recent" page and extracts candidate
// papers up to the requested limit.
type ArxivScanner struct {
	client *http.Client
}

// NewArxivScanner wires an HTTP client; a default one is created when
// nil is passed.
func NewArxivScanner(client *http.Client) *ArxivScanner {
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &ArxivScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (a *ArxivScanner) Name() string {
	return "arxiv"
}

// Scan fetches the category page and walks its dt/dd entry pairs. When
// the first page yields fewer papers than the limit, a second request
// with explicit paging parameters tops the list up. Entries are
// deduplicated by arXiv id.
func (a *ArxivScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.PaperListing, error) {
	if req.BaseURL == "" {
		return nil, fmt.Errorf("no listing URL provided for site %s", req.SiteName)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	doc, err := a.fetchDocument(ctx, req.BaseURL)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	listings := extractListings(doc, limit, seen)

	if len(listings) < limit {
		pageURL, err := buildPageURL(req.BaseURL, 0, limit)
		if err != nil {
			return nil, err
		}
		if doc, err = a.fetchDocument(ctx, pageURL); err == nil {
			listings = append(listings, extractListings(doc, limit-len(listings), seen)...)
		}
	}

	return listings, nil
}

func (a *ArxivScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "PaperSummarizer/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	return doc, nil
}

func extractListings(doc *goquery.Document, limit int, seen map[string]struct{}) []domain.PaperListing {
	var collected []domain.PaperListing

	doc.Find("dl > dt").EachWithBreak(func(i int, dt *goquery.Selection) bool {
		if len(collected) >= limit {
			return false
		}

		listing, ok := parseEntry(dt, dt.Next())
		if !ok {
			return true
		}
		if _, dup := seen[listing.ID]; dup {
			return true
		}
		seen[listing.ID] = struct{}{}
		collected = append(collected, listing)
		return true
	})

	return collected
}

func parseEntry(dt, dd *goquery.Selection) (domain.PaperListing, bool) {
	var id string
	dt.Find("a").EachWithBreak(func(i int, a *goquery.Selection) bool {
		href, exists := a.Attr("href")
		if !exists {
			return true
		}
		if match := absExpr.FindStringSubmatch(href); match != nil {
			id = match[1]
			return false
		}
		return true
	})

	if id == "" {
		return domain.PaperListing{}, false
	}

	title := strings.TrimSpace(dd.Find("div.list-title").First().Text())
	title = strings.TrimSpace(strings.TrimPrefix(title, "Title:"))
	if title == "" {
		title = fmt.Sprintf("Paper-%s", id)
	}

	return domain.PaperListing{
		ID:        id,
		Title:     title,
		SourceURL: fmt.Sprintf("https://arxiv.org/pdf/%s.pdf", id),
	}, true
}

func buildPageURL(base string, skip, show int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid listing url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("skip", strconv.Itoa(skip))
	query.Set("show", strconv.Itoa(show))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
