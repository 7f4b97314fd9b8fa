package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"PaperSummarizer/internal/domain"
	"PaperSummarizer/internal/ports"
)

const defaultTimeout = 120 * time.Second

// PDFToText extracts plain text from PDF bytes by shelling out to the
// pdftotext binary. Extraction is a pure transformation with no cache
// of its own; re-extracting on cache-hit documents is cheap compared to
// the other stages.
type PDFToText struct {
	binary  string
	timeout time.Duration
}

var _ ports.Extractor = (*PDFToText)(nil)

// NewPDFToText builds an extractor using the pdftotext binary on PATH.
func NewPDFToText() *PDFToText {
	return &PDFToText{binary: "pdftotext", timeout: defaultTimeout}
}

// Extract writes the document to a temporary file, runs pdftotext on it,
// and returns the textual output. Command failures, timeouts, and empty
// output all surface as an extraction failure.
func (p *PDFToText) Extract(ctx context.Context, document []byte) (string, error) {
	tmp, err := os.CreateTemp("", "paper-*.pdf")
	if err != nil {
		return "", &domain.ExtractionFailedError{Cause: fmt.Errorf("create temp: %w", err)}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(document); err != nil {
		tmp.Close()
		return "", &domain.ExtractionFailedError{Cause: fmt.Errorf("write temp: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		return "", &domain.ExtractionFailedError{Cause: fmt.Errorf("close temp: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.binary, tmpPath, "-")
	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &domain.ExtractionFailedError{
			Cause: fmt.Errorf("%s failed: %w: %s", p.binary, err, strings.TrimSpace(stderr.String())),
		}
	}

	text := out.String()
	if strings.TrimSpace(text) == "" {
		return "", &domain.ExtractionFailedError{Cause: fmt.Errorf("no text extracted")}
	}

	return text, nil
}
