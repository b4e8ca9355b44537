package crossrepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/repo"
)

// stubClassifier returns canned results keyed by exact diff text.
type stubClassifier struct {
	types    map[string]ChangeType
	keywords map[string][]string
}

func (s *stubClassifier) Classify(diffText string) (ChangeType, []string) {
	changeType, ok := s.types[diffText]
	if !ok {
		changeType = ChangeChore
	}

	return changeType, s.keywords[diffText]
}

func newDiff(changes map[string][]FileChange, names ...string) *CrossRepoDiff {
	repositories := make([]repo.Repository, 0, len(names))
	for _, name := range names {
		repositories = append(repositories, repo.Repository{Name: name, Path: "/tmp/" + name})
	}

	return &CrossRepoDiff{Repositories: repositories, Changes: changes}
}

func hasRelation(relations []DependencyRelation, source, target, kind string, confidence float64) bool {
	for _, relation := range relations {
		if relation.Source == source && relation.Target == target &&
			relation.Kind == kind && relation.Confidence == confidence {
			return true
		}
	}

	return false
}

func TestDetector_DirectReference(t *testing.T) {
	t.Parallel()

	diff := newDiff(map[string][]FileChange{
		"api-service": {{
			Path: "src/client.go",
			Diff: "diff --git a/src/client.go b/src/client.go\n" +
				"+++ b/src/client.go\n" +
				"@@ -1,2 +1,3 @@\n" +
				"+import core-lib/data/models\n",
			Repository: "api-service",
		}},
		"core-lib": {},
	}, "core-lib", "api-service")

	relations := NewDetector(&stubClassifier{}).Detect(diff)

	assert.True(t, hasRelation(relations, "api-service", "core-lib", "reference", 0.7))
	assert.True(t, hasRelation(relations, "api-service", "core-lib", "import", 0.9))
}

func TestDetector_ReferenceCarriesSourceFile(t *testing.T) {
	t.Parallel()

	diff := newDiff(map[string][]FileChange{
		"app": {{
			Path:       "main.py",
			Diff:       "+from shared import models\n",
			Repository: "app",
		}},
		"shared": {},
	}, "app", "shared")

	relations := NewDetector(&stubClassifier{}).Detect(diff)
	require.NotEmpty(t, relations)

	for _, relation := range relations {
		if relation.Kind == "reference" {
			require.NotNil(t, relation.SourceFile)
			assert.Equal(t, "main.py", *relation.SourceFile)
			assert.Nil(t, relation.TargetFile)
		}
	}
}

func TestDetector_MetadataLinesIgnored(t *testing.T) {
	t.Parallel()

	// The other repository's name appears only in metadata lines.
	diff := newDiff(map[string][]FileChange{
		"app": {{
			Path: "shared.go",
			Diff: "diff --git a/shared/shared.go b/shared/shared.go\n" +
				"index 1111111..2222222 100644\n" +
				"--- a/shared/shared.go\n" +
				"+++ b/shared/shared.go\n",
			Repository: "app",
		}},
		"shared": {},
	}, "app", "shared")

	relations := NewDetector(&stubClassifier{}).Detect(diff)

	for _, relation := range relations {
		assert.NotEqual(t, "reference", relation.Kind)
		assert.NotEqual(t, "import", relation.Kind)
	}
}

func TestDetector_KeywordPatternConfidences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		line       string
		kind       string
		confidence float64
	}{
		{name: "require", line: "+require 'shared'", kind: "require", confidence: 0.8},
		{name: "depend", line: "+depends on shared", kind: "dependency", confidence: 0.7},
		{name: "include", line: "+include shared.h", kind: "include", confidence: 0.7},
		{name: "use", line: "+use shared::prelude", kind: "import", confidence: 0.7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			diff := newDiff(map[string][]FileChange{
				"app":    {{Path: "a.rb", Diff: tc.line + "\n", Repository: "app"}},
				"shared": {},
			}, "app", "shared")

			relations := NewDetector(&stubClassifier{}).Detect(diff)
			assert.True(t, hasRelation(relations, "app", "shared", tc.kind, tc.confidence),
				"expected %s relation at %.1f", tc.kind, tc.confidence)
		})
	}
}

func TestDetector_FilenameSimilarity(t *testing.T) {
	t.Parallel()

	diff := newDiff(map[string][]FileChange{
		"backend":  {{Path: "handlers/api.go", Diff: "+x\n", Repository: "backend"}},
		"frontend": {{Path: "src/api.go", Diff: "+y\n", Repository: "frontend"}},
	}, "backend", "frontend")

	relations := NewDetector(&stubClassifier{}).Detect(diff)

	assert.True(t, hasRelation(relations, "backend", "frontend", "api", 0.6))
	assert.True(t, hasRelation(relations, "frontend", "backend", "api", 0.6))
}

func TestDetector_FilenameSimilarityRequiresSameExtension(t *testing.T) {
	t.Parallel()

	diff := newDiff(map[string][]FileChange{
		"backend":  {{Path: "api.go", Diff: "+x\n", Repository: "backend"}},
		"frontend": {{Path: "api.ts", Diff: "+y\n", Repository: "frontend"}},
	}, "backend", "frontend")

	relations := NewDetector(&stubClassifier{}).Detect(diff)

	assert.False(t, hasRelation(relations, "backend", "frontend", "api", 0.6))
}

func TestDetector_SemanticKeywords(t *testing.T) {
	t.Parallel()

	classifier := &stubClassifier{
		keywords: map[string][]string{
			"diff-a": {"billing", "invoice", "ledger", "payout"},
			"diff-b": {"billing", "invoice", "ledger"},
		},
	}

	diff := newDiff(map[string][]FileChange{
		"app":    {{Path: "a.go", Diff: "diff-a", Repository: "app"}},
		"shared": {{Path: "b.go", Diff: "diff-b", Repository: "shared"}},
	}, "app", "shared")

	relations := NewDetector(classifier).Detect(diff)

	// Three shared keywords: 0.5 + 3*0.1 = 0.8, both directions.
	assert.True(t, hasRelation(relations, "app", "shared", "semantic", 0.8))
	assert.True(t, hasRelation(relations, "shared", "app", "semantic", 0.8))
}

func TestDetector_SemanticKeywordsBelowMinimum(t *testing.T) {
	t.Parallel()

	classifier := &stubClassifier{
		keywords: map[string][]string{
			"diff-a": {"billing", "invoice"},
			"diff-b": {"billing", "invoice"},
		},
	}

	diff := newDiff(map[string][]FileChange{
		"app":    {{Path: "a.go", Diff: "diff-a", Repository: "app"}},
		"shared": {{Path: "b.go", Diff: "diff-b", Repository: "shared"}},
	}, "app", "shared")

	relations := NewDetector(classifier).Detect(diff)

	for _, relation := range relations {
		assert.NotEqual(t, "semantic", relation.Kind)
	}
}

func TestDetector_SemanticConfidenceCapped(t *testing.T) {
	t.Parallel()

	shared := []string{
		"alpha", "bravo", "charlie", "delta", "echo",
		"foxtrot", "golf", "hotel", "india", "juliet",
	}
	classifier := &stubClassifier{
		keywords: map[string][]string{"diff-a": shared, "diff-b": shared},
	}

	diff := newDiff(map[string][]FileChange{
		"app":    {{Path: "a.go", Diff: "diff-a", Repository: "app"}},
		"shared": {{Path: "b.go", Diff: "diff-b", Repository: "shared"}},
	}, "app", "shared")

	relations := NewDetector(classifier).Detect(diff)

	assert.True(t, hasRelation(relations, "app", "shared", "semantic", 0.9))
}

func TestDetector_EmptyDiff(t *testing.T) {
	t.Parallel()

	diff := newDiff(map[string][]FileChange{}, "app", "shared")

	relations := NewDetector(&stubClassifier{}).Detect(diff)
	assert.Empty(t, relations)
}
