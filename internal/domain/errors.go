package domain

import (
	"errors"
	"fmt"
)

// Stage error kinds. The orchestrator matches on these to record the
// failure cause; no stage decides run-level control flow on its own.

// FetchFailedError reports a document download failure.
type FetchFailedError struct {
	URL   string
	Cause error
}

func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
}

func (e *FetchFailedError) Unwrap() error { return e.Cause }

// ExtractionFailedError reports an unreadable or corrupt document.
type ExtractionFailedError struct {
	Cause error
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("extract text: %v", e.Cause)
}

func (e *ExtractionFailedError) Unwrap() error { return e.Cause }

// ErrRateLimited signals the model endpoint throttled the request.
var ErrRateLimited = errors.New("model endpoint rate limited")

// ErrEmptyResponse signals the model endpoint returned no usable text.
var ErrEmptyResponse = errors.New("model returned empty response")

// ModelError reports any other summarization endpoint failure.
type ModelError struct {
	Cause error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model request: %v", e.Cause)
}

func (e *ModelError) Unwrap() error { return e.Cause }

// WriteFailedError reports a summary persistence failure.
type WriteFailedError struct {
	Path  string
	Cause error
}

func (e *WriteFailedError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Cause)
}

func (e *WriteFailedError) Unwrap() error { return e.Cause }

// FailureStage names the pipeline stage an item error originated from,
// for log lines and history records.
func FailureStage(err error) string {
	var fetchErr *FetchFailedError
	var extractErr *ExtractionFailedError
	var modelErr *ModelError
	var writeErr *WriteFailedError

	switch {
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &extractErr):
		return "extract"
	case errors.Is(err, ErrRateLimited), errors.Is(err, ErrEmptyResponse), errors.As(err, &modelErr):
		return "summarize"
	case errors.As(err, &writeErr):
		return "persist"
	default:
		return "unknown"
	}
}
