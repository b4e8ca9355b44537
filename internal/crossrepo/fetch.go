package crossrepo

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/repo"
)

// FetchCrossRepoDiff ingests the per-file changes of every repository
// concurrently and joins the results into one complete CrossRepoDiff. A
// failed fetch is logged as a warning and contributes an empty change list;
// the engine then proceeds as if that repository had no changes.
func FetchCrossRepoDiff(
	ctx context.Context,
	fetcher Fetcher,
	repositories []repo.Repository,
	commitRange CommitRange,
	logger *slog.Logger,
) *CrossRepoDiff {
	if logger == nil {
		logger = slog.Default()
	}

	results := make([][]FileChange, len(repositories))

	var wg sync.WaitGroup

	for i, repository := range repositories {
		wg.Add(1)

		go func() {
			defer wg.Done()

			changes, err := fetcher.FetchChanges(ctx, repository, commitRange)
			if err != nil {
				logger.Warn("diff fetch failed, treating repository as unchanged",
					"repository", repository.Name, "error", err)

				return
			}

			results[i] = changes
		}()
	}

	wg.Wait()

	diff := &CrossRepoDiff{
		Repositories: repositories,
		Changes:      make(map[string][]FileChange, len(repositories)),
	}

	for i, repository := range repositories {
		if results[i] == nil {
			results[i] = []FileChange{}
		}

		diff.Changes[repository.Name] = results[i]
	}

	return diff
}
