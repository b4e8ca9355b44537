package crossrepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCommitMessage_SubjectWithScope(t *testing.T) {
	t.Parallel()

	files := []FileChange{
		{Path: "auth/login.go"},
		{Path: "auth/session.go"},
	}

	message := BuildCommitMessage(ChangeFeature, files, []string{"login", "session"})

	assert.Equal(t, "feat(auth): update 2 files\n\nlogin, session", message)
}

func TestBuildCommitMessage_SingleFileNoun(t *testing.T) {
	t.Parallel()

	message := BuildCommitMessage(ChangeBugfix, []FileChange{{Path: "main.go"}}, nil)

	assert.Equal(t, "fix: update 1 file\n\ngeneral defect repairs", message)
}

func TestBuildCommitMessage_KeywordsCapped(t *testing.T) {
	t.Parallel()

	keywords := []string{"alpha", "bravo", "charlie", "delta", "echo"}

	message := BuildCommitMessage(ChangeRefactor, []FileChange{{Path: "a.go"}, {Path: "b.go"}}, keywords)

	assert.Contains(t, message, "alpha, bravo, charlie")
	assert.NotContains(t, message, "delta")
}

func TestBuildCommitMessage_FallbackBody(t *testing.T) {
	t.Parallel()

	message := BuildCommitMessage(ChangeDocs, []FileChange{{Path: "docs/guide.md"}}, nil)

	assert.Contains(t, message, "docs(docs): update 1 file")
	assert.Contains(t, message, "documentation updates")
}

func TestCommonScope_MixedDirectories(t *testing.T) {
	t.Parallel()

	files := []FileChange{
		{Path: "auth/login.go"},
		{Path: "billing/invoice.go"},
	}

	assert.Empty(t, commonScope(files))
}

func TestCommonScope_RootFiles(t *testing.T) {
	t.Parallel()

	files := []FileChange{{Path: "main.go"}, {Path: "util.go"}}

	assert.Empty(t, commonScope(files))
}

func TestCommonScope_NestedDirectory(t *testing.T) {
	t.Parallel()

	files := []FileChange{
		{Path: "internal/auth/login.go"},
		{Path: "internal/auth/session.go"},
	}

	assert.Equal(t, "auth", commonScope(files))
}
