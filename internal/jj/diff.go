package jj

import (
	"context"
	"strings"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/crossrepo"
	"github.com/jasagiri/mcp-jujutsu-sub001/internal/repo"
)

// diffChunkPrefix starts each per-file section of git-format diff output.
const diffChunkPrefix = "diff --git "

// FetchChanges runs "jj diff --git" over the commit range and splits the
// output into one FileChange per file. It satisfies the crossrepo.Fetcher
// contract.
func (c *Client) FetchChanges(
	ctx context.Context, repository repo.Repository, commitRange crossrepo.CommitRange,
) ([]crossrepo.FileChange, error) {
	args := []string{"diff", "--git", "--color=never"}

	if commitRange.From != "" {
		args = append(args, "--from", commitRange.From)
	}

	if commitRange.To != "" {
		args = append(args, "--to", commitRange.To)
	}

	output, err := c.run(ctx, repository.Path, args...)
	if err != nil {
		return nil, err
	}

	return ParseGitDiff(output, repository.Name), nil
}

// ParseGitDiff splits git-format diff text into per-file changes. Each
// chunk keeps its full header and hunks so downstream consumers can
// distinguish metadata lines from content lines. Unparseable chunks are
// skipped, never an error.
func ParseGitDiff(output, repository string) []crossrepo.FileChange {
	changes := make([]crossrepo.FileChange, 0)

	for _, chunk := range splitChunks(output) {
		path := chunkPath(chunk)
		if path == "" {
			continue
		}

		changes = append(changes, crossrepo.FileChange{
			Path:       path,
			Action:     chunkAction(chunk),
			Diff:       chunk,
			Repository: repository,
		})
	}

	return changes
}

// splitChunks divides the output at each "diff --git" header.
func splitChunks(output string) []string {
	lines := strings.Split(output, "\n")
	chunks := make([]string, 0)

	var current []string

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range lines {
		if strings.HasPrefix(line, diffChunkPrefix) {
			flush()
		}

		if len(current) > 0 || strings.HasPrefix(line, diffChunkPrefix) {
			current = append(current, line)
		}
	}

	flush()

	return chunks
}

// chunkAction derives the change action from the chunk's header lines.
func chunkAction(chunk string) crossrepo.FileAction {
	switch {
	case strings.Contains(chunk, "\nnew file mode"),
		strings.Contains(chunk, "\n--- /dev/null"):
		return crossrepo.ActionAdd
	case strings.Contains(chunk, "\ndeleted file mode"),
		strings.Contains(chunk, "\n+++ /dev/null"):
		return crossrepo.ActionDelete
	default:
		return crossrepo.ActionModify
	}
}

// chunkPath extracts the file path from the "+++ b/" header, falling back to
// the "--- a/" header for deletions and then to the chunk header itself.
func chunkPath(chunk string) string {
	for _, line := range strings.Split(chunk, "\n") {
		if path, ok := strings.CutPrefix(line, "+++ b/"); ok {
			return path
		}

		if path, ok := strings.CutPrefix(line, "--- a/"); ok && strings.Contains(chunk, "\n+++ /dev/null") {
			return path
		}
	}

	// Header fallback: "diff --git a/<path> b/<path>".
	header, _, _ := strings.Cut(chunk, "\n")

	if idx := strings.LastIndex(header, " b/"); idx >= 0 {
		return header[idx+len(" b/"):]
	}

	return ""
}
