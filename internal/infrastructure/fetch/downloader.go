package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"PaperSummarizer/internal/domain"
	"PaperSummarizer/internal/infrastructure/store"
	"PaperSummarizer/internal/ports"
)

// Documents under this size are almost certainly an error page rather
// than a real PDF.
const minDocumentBytes = 1000

// Downloader retrieves paper documents, keeping a per-key artifact
// cache under the store root so repeated runs skip the network.
type Downloader struct {
	root   string
	client *http.Client
	logger *slog.Logger
}

var _ ports.Downloader = (*Downloader)(nil)

// NewDownloader wires the cache directory and HTTP client; a default
// client with a bounded timeout is created when nil is passed.
func NewDownloader(root string, client *http.Client, log *slog.Logger) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &Downloader{root: root, client: client, logger: log}
}

// Fetch returns the document bytes for a listing. A cache hit reads the
// existing {key}.pdf without touching the network; a miss downloads the
// source URL and writes the artifact atomically before returning. On
// failure no partial file remains, so the next run retries.
func (d *Downloader) Fetch(ctx context.Context, listing domain.PaperListing) ([]byte, error) {
	key := domain.NormalizeTitle(listing.Title)
	path := filepath.Join(d.root, domain.DocumentFileName(key))

	if data, err := os.ReadFile(path); err == nil {
		d.debug("document cache hit", "key", key)
		return data, nil
	}

	data, err := d.download(ctx, listing.SourceURL)
	if err != nil {
		return nil, &domain.FetchFailedError{URL: listing.SourceURL, Cause: err}
	}

	if len(data) < minDocumentBytes {
		return nil, &domain.FetchFailedError{
			URL:   listing.SourceURL,
			Cause: fmt.Errorf("document too small (%d bytes), likely corrupted", len(data)),
		}
	}

	if err := store.WriteFileAtomic(path, data); err != nil {
		return nil, &domain.FetchFailedError{URL: listing.SourceURL, Cause: err}
	}

	d.debug("document saved", "key", key, "bytes", len(data))
	return data, nil
}

func (d *Downloader) download(ctx context.Context, sourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "PaperSummarizer/1.0")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return data, nil
}

func (d *Downloader) debug(msg string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
