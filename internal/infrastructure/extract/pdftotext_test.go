package extract

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"PaperSummarizer/internal/domain"
)

func requirePDFToText(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("pdftotext"); err != nil {
		t.Skip("pdftotext not installed")
	}
}

func TestExtractRejectsGarbage(t *testing.T) {
	t.Parallel()
	requirePDFToText(t)

	e := NewPDFToText()

	_, err := e.Extract(context.Background(), []byte("definitely not a pdf"))
	require.Error(t, err)

	var extractErr *domain.ExtractionFailedError
	require.True(t, errors.As(err, &extractErr))
}

func TestExtractRespectsContextCancellation(t *testing.T) {
	t.Parallel()
	requirePDFToText(t)

	e := NewPDFToText()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, []byte("%PDF-1.4"))
	require.Error(t, err)
}
