package crossrepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBySemantics_BucketsByChangeType(t *testing.T) {
	t.Parallel()

	classifier := &stubClassifier{
		types: map[string]ChangeType{
			"feat-diff": ChangeFeature,
			"fix-diff":  ChangeBugfix,
		},
	}

	diff := newDiff(map[string][]FileChange{
		"app": {
			{Path: "feature.go", Diff: "feat-diff", Repository: "app"},
			{Path: "repair.go", Diff: "fix-diff", Repository: "app"},
		},
	}, "app")

	classes := classifyAll(diff, classifier)
	groups := groupBySemantics(diff, classes, DefaultConfig())

	require.Len(t, groups, 2)

	assert.Equal(t, "Feature changes", groups[0].Name)
	assert.Equal(t, GroupFeature, groups[0].GroupType)
	assert.Equal(t, ChangeFeature, groups[0].ChangeType)
	assert.Equal(t, 0.85, groups[0].Confidence)

	assert.Equal(t, "Bugfix changes", groups[1].Name)
	assert.Equal(t, GroupBugfix, groups[1].GroupType)
}

func TestGroupBySemantics_SpansRepositories(t *testing.T) {
	t.Parallel()

	classifier := &stubClassifier{
		types: map[string]ChangeType{"feat-diff": ChangeFeature},
	}

	diff := newDiff(map[string][]FileChange{
		"backend":  {{Path: "api.go", Diff: "feat-diff", Repository: "backend"}},
		"frontend": {{Path: "view.ts", Diff: "feat-diff", Repository: "frontend"}},
	}, "backend", "frontend")

	classes := classifyAll(diff, classifier)
	groups := groupBySemantics(diff, classes, DefaultConfig())

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Commits, 2)
	assert.Equal(t, "backend", groups[0].Commits[0].Repository)
	assert.Equal(t, "frontend", groups[0].Commits[1].Repository)
}

func TestGroupByDependency_HonorsMinConfidence(t *testing.T) {
	t.Parallel()

	diff := newDiff(map[string][]FileChange{
		"app":    {{Path: "a.go", Diff: "+x\n", Repository: "app"}},
		"shared": {{Path: "b.go", Diff: "+y\n", Repository: "shared"}},
	}, "app", "shared")

	classes := classifyAll(diff, &stubClassifier{})
	relations := []DependencyRelation{
		{Source: "app", Target: "shared", Kind: "api", Confidence: 0.6},
	}

	groups := groupByDependency(diff, classes, relations, DefaultConfig())
	assert.Empty(t, groups, "relation below min confidence must not form a group")

	relations[0].Confidence = 0.9
	groups = groupByDependency(diff, classes, relations, DefaultConfig())

	require.Len(t, groups, 1)
	assert.Equal(t, "app => shared", groups[0].Name)
	assert.Equal(t, GroupDependency, groups[0].GroupType)
	assert.Equal(t, 0.9, groups[0].Confidence)
}

func TestGroupByDependency_IdentifiedFilesOnly(t *testing.T) {
	t.Parallel()

	diff := newDiff(map[string][]FileChange{
		"app": {
			{Path: "a.go", Diff: "+x\n", Repository: "app"},
			{Path: "other.go", Diff: "+z\n", Repository: "app"},
		},
		"shared": {{Path: "b.go", Diff: "+y\n", Repository: "shared"}},
	}, "app", "shared")

	classes := classifyAll(diff, &stubClassifier{})
	sourceFile := "a.go"
	relations := []DependencyRelation{
		{Source: "app", Target: "shared", SourceFile: &sourceFile, Kind: "import", Confidence: 0.9},
	}

	groups := groupByDependency(diff, classes, relations, DefaultConfig())

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Commits, 2)
	require.Len(t, groups[0].Commits[0].Changes, 1)
	assert.Equal(t, "a.go", groups[0].Commits[0].Changes[0].Path)
}

func TestGroupByFileType_SkipsSingleFileBuckets(t *testing.T) {
	t.Parallel()

	diff := newDiff(map[string][]FileChange{
		"app": {
			{Path: "a.go", Diff: "+x\n", Repository: "app"},
			{Path: "b.go", Diff: "+y\n", Repository: "app"},
			{Path: "readme.md", Diff: "+z\n", Repository: "app"},
		},
	}, "app")

	classes := classifyAll(diff, &stubClassifier{})
	groups := groupByFileType(diff, classes, DefaultConfig())

	require.Len(t, groups, 1)
	assert.Equal(t, "File type: .go", groups[0].Name)
	assert.Equal(t, GroupFileType, groups[0].GroupType)
	assert.Equal(t, 0.75, groups[0].Confidence)
}

func TestGroupByDirectory_BucketsByParentName(t *testing.T) {
	t.Parallel()

	diff := newDiff(map[string][]FileChange{
		"app": {
			{Path: "auth/login.go", Diff: "+x\n", Repository: "app"},
			{Path: "auth/session.go", Diff: "+y\n", Repository: "app"},
			{Path: "billing/invoice.go", Diff: "+z\n", Repository: "app"},
		},
	}, "app")

	classes := classifyAll(diff, &stubClassifier{})
	groups := groupByDirectory(diff, classes, DefaultConfig())

	require.Len(t, groups, 1)
	assert.Equal(t, "Directory: auth", groups[0].Name)
	assert.Equal(t, 0.8, groups[0].Confidence)
}

func TestCapFiles_TruncatesAcrossRepositories(t *testing.T) {
	t.Parallel()

	diff := newDiff(nil, "first", "second", "third")
	perRepo := map[string][]FileChange{
		"first":  {{Path: "a"}, {Path: "b"}},
		"second": {{Path: "c"}, {Path: "d"}},
		"third":  {{Path: "e"}},
	}

	capFiles(diff, perRepo, 3)

	assert.Len(t, perRepo["first"], 2)
	assert.Len(t, perRepo["second"], 1)
	assert.Empty(t, perRepo["third"])
}

func TestCapFiles_ZeroMeansUnlimited(t *testing.T) {
	t.Parallel()

	diff := newDiff(nil, "first")
	perRepo := map[string][]FileChange{
		"first": {{Path: "a"}, {Path: "b"}},
	}

	capFiles(diff, perRepo, 0)

	assert.Len(t, perRepo["first"], 2)
}

func TestSelectFiles(t *testing.T) {
	t.Parallel()

	changes := []FileChange{{Path: "a.go"}, {Path: "b.go"}}

	assert.Len(t, selectFiles(changes, nil), 2)

	identified := "b.go"
	picked := selectFiles(changes, &identified)
	require.Len(t, picked, 1)
	assert.Equal(t, "b.go", picked[0].Path)

	missing := "absent.go"
	assert.Empty(t, selectFiles(changes, &missing))
}

func TestMajorityType_TieBreaksTowardEarlierBucket(t *testing.T) {
	t.Parallel()

	classifier := &stubClassifier{
		types: map[string]ChangeType{
			"feat-diff": ChangeFeature,
			"fix-diff":  ChangeBugfix,
		},
	}

	diff := newDiff(map[string][]FileChange{
		"app": {
			{Path: "a.go", Diff: "fix-diff", Repository: "app"},
			{Path: "b.go", Diff: "feat-diff", Repository: "app"},
		},
	}, "app")

	classes := classifyAll(diff, classifier)
	choose := majorityType(classes)

	// One vote each; feature precedes bugfix in bucket order.
	assert.Equal(t, ChangeFeature, choose("app", diff.Changes["app"]))
}

func TestParentDirName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "auth", parentDirName("internal/auth/login.go"))
	assert.Equal(t, ".", parentDirName("main.go"))
}

func TestTitleCase(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Feature", titleCase("feature"))
	assert.Empty(t, titleCase(""))
}
