package crossrepo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/repo"
)

// stubFetcher serves canned changes per repository and fails on request.
type stubFetcher struct {
	changes map[string][]FileChange
	fail    map[string]bool
}

var errFetchStub = errors.New("fetch failed")

func (s *stubFetcher) FetchChanges(
	_ context.Context, repository repo.Repository, _ CommitRange,
) ([]FileChange, error) {
	if s.fail[repository.Name] {
		return nil, errFetchStub
	}

	return s.changes[repository.Name], nil
}

func TestFetchCrossRepoDiff_JoinsAllRepositories(t *testing.T) {
	t.Parallel()

	repositories := []repo.Repository{{Name: "app"}, {Name: "shared"}}
	fetcher := &stubFetcher{
		changes: map[string][]FileChange{
			"app":    {{Path: "a.go", Repository: "app"}},
			"shared": {{Path: "b.go", Repository: "shared"}},
		},
	}

	diff := FetchCrossRepoDiff(context.Background(), fetcher, repositories, CommitRange{}, nil)

	require.Len(t, diff.Repositories, 2)
	assert.Equal(t, 2, diff.TotalChanges())
	assert.Len(t, diff.Changes["app"], 1)
	assert.Len(t, diff.Changes["shared"], 1)
}

func TestFetchCrossRepoDiff_FailedFetchYieldsEmptyChanges(t *testing.T) {
	t.Parallel()

	repositories := []repo.Repository{{Name: "app"}, {Name: "broken"}}
	fetcher := &stubFetcher{
		changes: map[string][]FileChange{
			"app": {{Path: "a.go", Repository: "app"}},
		},
		fail: map[string]bool{"broken": true},
	}

	diff := FetchCrossRepoDiff(context.Background(), fetcher, repositories, CommitRange{}, nil)

	require.NotNil(t, diff.Changes["broken"])
	assert.Empty(t, diff.Changes["broken"])
	assert.Len(t, diff.Changes["app"], 1)
}

func TestAnalyzeRepositories_EndToEnd(t *testing.T) {
	t.Parallel()

	manager, err := repo.NewManager([]repo.Repository{
		{Name: "core-lib", Path: "/tmp/core-lib"},
		{Name: "api-service", Path: "/tmp/api-service"},
	})
	require.NoError(t, err)

	fetcher := &stubFetcher{
		changes: map[string][]FileChange{
			"core-lib":    {{Path: "models.py", Diff: "+class Invoice:\n", Repository: "core-lib"}},
			"api-service": {{Path: "handlers.py", Diff: "+import core-lib\n", Repository: "api-service"}},
		},
	}

	proposal, err := AnalyzeRepositories(
		context.Background(), manager, fetcher, &stubClassifier{},
		nil, CommitRange{From: "p", To: "q"}, DefaultConfig(), nil,
	)
	require.NoError(t, err)

	assert.NotEmpty(t, proposal.CommitGroups)
	assert.Equal(t, "p", proposal.OriginalCommitIDs["core-lib"])
	assert.Equal(t, "q", proposal.TargetCommitIDs["api-service"])
}

func TestAnalyzeRepositories_UnknownRepository(t *testing.T) {
	t.Parallel()

	manager, err := repo.NewManager([]repo.Repository{{Name: "app", Path: "/tmp/app"}})
	require.NoError(t, err)

	_, err = AnalyzeRepositories(
		context.Background(), manager, &stubFetcher{}, &stubClassifier{},
		[]string{"absent"}, CommitRange{}, DefaultConfig(), nil,
	)
	require.ErrorIs(t, err, repo.ErrUnknownRepository)
}
