package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"PaperSummarizer/internal/domain"
)

func openTestRepo(t *testing.T) *HistoryRepository {
	t.Helper()

	repo, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestBeginAndFinishRun(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	started := time.Now()
	runID, err := repo.BeginRun(ctx, started)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	report := domain.RunReport{
		Found:     3,
		Skipped:   1,
		Completed: 1,
		Failed:    1,
		StartedAt: started,
		EndedAt:   started.Add(time.Minute),
	}
	require.NoError(t, repo.FinishRun(ctx, runID, report))

	count, err := repo.RunCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestRecordItemStoresFailureCause(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	runID, err := repo.BeginRun(ctx, time.Now())
	require.NoError(t, err)

	results := []domain.ProcessingResult{
		{
			Listing: domain.PaperListing{ID: "1", Title: "Done"},
			Status:  domain.StatusCompleted,
		},
		{
			Listing: domain.PaperListing{ID: "2", Title: "Broken"},
			Status:  domain.StatusFailed,
			Err:     domain.ErrRateLimited,
		},
	}
	for _, res := range results {
		require.NoError(t, repo.RecordItem(ctx, runID, res))
	}

	rows, err := repo.db.Query(`SELECT paper_id, status, stage, error FROM run_items ORDER BY paper_id`)
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		paperID, status, stage, cause string
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.paperID, &r.status, &r.stage, &r.cause))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	require.Len(t, got, 2)
	require.Equal(t, row{paperID: "1", status: "completed"}, got[0])
	require.Equal(t, "failed", got[1].status)
	require.Equal(t, "summarize", got[1].stage)
	require.Contains(t, got[1].cause, "rate limited")
}

func TestMultipleRunsAreIndependent(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	first, err := repo.BeginRun(ctx, time.Now())
	require.NoError(t, err)
	second, err := repo.BeginRun(ctx, time.Now())
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	count, err := repo.RunCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}
