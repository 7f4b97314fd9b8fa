package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"PaperSummarizer/internal/config"
	"PaperSummarizer/internal/domain"
)

func newTestSummarizer(endpoint string, maxInputRunes int) *OpenAISummarizer {
	return NewOpenAISummarizer(config.OpenAIConfig{
		Endpoint:            endpoint,
		Model:               "gpt-4o-mini",
		APIKey:              "test-key",
		MaxCompletionTokens: 2000,
		MaxInputRunes:       maxInputRunes,
	})
}

func testListing() domain.PaperListing {
	return domain.PaperListing{
		ID:        "2501.12345",
		Title:     "A Test Paper",
		SourceURL: "https://arxiv.org/pdf/2501.12345.pdf",
	}
}

func TestSummarizeSuccess(t *testing.T) {
	t.Parallel()

	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"A fine summary."}}]}`))
	}))
	defer server.Close()

	s := newTestSummarizer(server.URL, 50000)

	summary, err := s.Summarize(context.Background(), testListing(), "paper text")
	require.NoError(t, err)

	require.Equal(t, "gpt-4o-mini", captured.Model)
	require.Len(t, captured.Messages, 1)
	require.Contains(t, captured.Messages[0].Content, "A Test Paper")
	require.Contains(t, captured.Messages[0].Content, "paper text")

	require.True(t, strings.HasPrefix(summary, "# A Test Paper\n"))
	require.Contains(t, summary, "**arXiv ID**: 2501.12345")
	require.Contains(t, summary, "**PDF**: https://arxiv.org/pdf/2501.12345.pdf")
	require.True(t, strings.HasSuffix(summary, "A fine summary."))
}

func TestSummarizeHeadTruncatesInput(t *testing.T) {
	t.Parallel()

	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	s := newTestSummarizer(server.URL, 12)

	text := "HEADHEADHEADZZDROPPEDZZ"
	_, err := s.Summarize(context.Background(), testListing(), text)
	require.NoError(t, err)

	require.Contains(t, captured.Messages[0].Content, "HEADHEADHEAD")
	require.NotContains(t, captured.Messages[0].Content, "ZZDROPPEDZZ")
}

func TestSummarizeRateLimited(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	s := newTestSummarizer(server.URL, 50000)

	_, err := s.Summarize(context.Background(), testListing(), "text")
	require.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestSummarizeServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	s := newTestSummarizer(server.URL, 50000)

	_, err := s.Summarize(context.Background(), testListing(), "text")
	var modelErr *domain.ModelError
	require.True(t, errors.As(err, &modelErr))
}

func TestSummarizeEmptyResponse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{name: "no choices", body: `{"choices":[]}`},
		{name: "blank content", body: `{"choices":[{"message":{"content":"  "}}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			s := newTestSummarizer(server.URL, 50000)

			_, err := s.Summarize(context.Background(), testListing(), "text")
			require.ErrorIs(t, err, domain.ErrEmptyResponse)
		})
	}
}

func TestSummarizeMisconfigured(t *testing.T) {
	t.Parallel()

	s := NewOpenAISummarizer(config.OpenAIConfig{})

	_, err := s.Summarize(context.Background(), testListing(), "text")
	var modelErr *domain.ModelError
	require.True(t, errors.As(err, &modelErr))
}
