package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"PaperSummarizer/internal/config"
	"PaperSummarizer/internal/domain"
	"PaperSummarizer/internal/ports"
)

// OpenAISummarizer implements ports.Summarizer backed by
// OpenAI-compatible chat completions APIs.
type OpenAISummarizer struct {
	endpoint            string
	model               string
	apiKey              string
	maxCompletionTokens int
	maxInputRunes       int
	httpClient          *http.Client
}

var _ ports.Summarizer = (*OpenAISummarizer)(nil)

// NewOpenAISummarizer builds a summarizer from configuration.
func NewOpenAISummarizer(cfg config.OpenAIConfig) *OpenAISummarizer {
	maxTokens := cfg.MaxCompletionTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	maxRunes := cfg.MaxInputRunes
	if maxRunes <= 0 {
		maxRunes = 50000
	}

	return &OpenAISummarizer{
		endpoint:            cfg.Endpoint,
		model:               cfg.Model,
		apiKey:              cfg.APIKey,
		maxCompletionTokens: maxTokens,
		maxInputRunes:       maxRunes,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	MaxCompletionTokens int           `json:"max_completion_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Summarize posts the paper text with a fixed instruction template and
// returns the final summary document. Input text is head-truncated to
// the configured rune limit: abstracts and introductions lead the
// document, so the head carries the most salient content.
func (c *OpenAISummarizer) Summarize(ctx context.Context, listing domain.PaperListing, text string) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", &domain.ModelError{Cause: fmt.Errorf("summarizer misconfigured")}
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: buildPrompt(listing, truncateRunes(text, c.maxInputRunes))},
		},
		MaxCompletionTokens: c.maxCompletionTokens,
	})
	if err != nil {
		return "", &domain.ModelError{Cause: fmt.Errorf("marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &domain.ModelError{Cause: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.ModelError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", domain.ErrRateLimited
	}

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &domain.ModelError{
			Cause: fmt.Errorf("endpoint error %s: %s", resp.Status, strings.TrimSpace(string(payload))),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &domain.ModelError{Cause: fmt.Errorf("decode response: %w", err)}
	}

	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", domain.ErrEmptyResponse
	}

	return formatSummary(listing, parsed.Choices[0].Message.Content), nil
}

func buildPrompt(listing domain.PaperListing, text string) string {
	return fmt.Sprintf(`Please provide a comprehensive, evidence-based summary of the following academic paper based on the provided text.
Title: %s
arXiv ID: %s
PDF URL: %s

Paper Content:
%s

Please analyze the text provided and structure your summary using the following specific sections:
1. **Overview**: A concise description of the paper's core mission, what it introduces (e.g., specific benchmarks, datasets, or models), and its primary goal.
2. **Key Results**: detailed quantitative findings. Do not be vague. Extract specific metrics, leaderboard rankings, scores (e.g., "Model X scored 56.1%%"), and domain-specific performance comparisons.
3. **Methodology**: Explain the specific approach used. Detail the dataset composition (e.g., number of test cases, expert sources) and the evaluation/grading process (e.g., "hurdle criteria," "grounding checks," or specific algorithms).
4. **Critical Insights**: Discuss the nuances, limitations, or specific behaviors observed in the study. Look for failure modes (e.g., hallucinations), performance gaps between domains, or qualitative observations made by the authors.

**Constraint:** Do not hallucinate. Base the summary *strictly* on the provided text context.`,
		listing.Title, listing.ID, listing.SourceURL, text)
}

func formatSummary(listing domain.PaperListing, content string) string {
	return fmt.Sprintf("# %s\n\n**arXiv ID**: %s\n**PDF**: %s\n\n---\n\n%s",
		listing.Title, listing.ID, listing.SourceURL, content)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
