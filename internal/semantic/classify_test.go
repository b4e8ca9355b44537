package semantic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/crossrepo"
)

func TestClassify_EmptyInput(t *testing.T) {
	t.Parallel()

	changeType, keywords := NewClassifier().Classify("")

	assert.Equal(t, crossrepo.ChangeChore, changeType)
	assert.Empty(t, keywords)
}

func TestClassify_BinaryInput(t *testing.T) {
	t.Parallel()

	changeType, keywords := NewClassifier().Classify("GIF89a\x00\x01binary junk")

	assert.Equal(t, crossrepo.ChangeChore, changeType)
	assert.Empty(t, keywords)
}

func TestClassify_ChangeTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		diff string
		want crossrepo.ChangeType
	}{
		{
			name: "feature from definition lines",
			diff: "+func RenderInvoice() {}\n+func SubmitPayment() {}\n",
			want: crossrepo.ChangeFeature,
		},
		{
			name: "feature from wording",
			diff: "+// add support for webhooks\n+webhooks = enable()\n",
			want: crossrepo.ChangeFeature,
		},
		{
			name: "bugfix",
			diff: "+// fix crash on empty payload\n+guard(payload)\n",
			want: crossrepo.ChangeBugfix,
		},
		{
			name: "tests win over feature cues",
			diff: "+func TestRenderInvoice(t *testing.T) {\n+\tassertRendered(t)\n+}\n",
			want: crossrepo.ChangeTests,
		},
		{
			name: "docs",
			diff: "+updated the readme with setup notes\n+see changelog for details\n",
			want: crossrepo.ChangeDocs,
		},
		{
			name: "style",
			diff: "+reformat indent of block\n+lint appeasement\n",
			want: crossrepo.ChangeStyle,
		},
		{
			name: "performance",
			diff: "+optimize hot loop\n+benchmark shows 2x speedup\n",
			want: crossrepo.ChangePerformance,
		},
		{
			name: "refactor",
			diff: "+rename handler for clarity\n+cleanup of dead branches\n",
			want: crossrepo.ChangeRefactor,
		},
		{
			name: "no cues fall back to chore",
			diff: "+x = 1\n+y = 2\n",
			want: crossrepo.ChangeChore,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			changeType, _ := NewClassifier().Classify(tc.diff)
			assert.Equal(t, tc.want, changeType)
		})
	}
}

func TestClassify_DeletionOnlyDiffUsesRemainingContent(t *testing.T) {
	t.Parallel()

	diff := "--- a/handler.go\n" +
		"+++ b/handler.go\n" +
		"@@ -1,2 +0,0 @@\n" +
		"-// fix crash on empty payload\n" +
		"-guard(payload)\n"

	changeType, _ := NewClassifier().Classify(diff)
	assert.Equal(t, crossrepo.ChangeBugfix, changeType)
}

func TestClassify_KeywordExtraction(t *testing.T) {
	t.Parallel()

	diff := "+invoice := BuildInvoice(ledger)\n+ab := 1\n+return invoice\n"

	_, keywords := NewClassifier().Classify(diff)

	assert.Contains(t, keywords, "invoice")
	assert.Contains(t, keywords, "buildinvoice")
	assert.Contains(t, keywords, "ledger")
	// Short tokens and stopwords are dropped.
	assert.NotContains(t, keywords, "ab")
	assert.NotContains(t, keywords, "return")
}

func TestClassify_KeywordsSortedAndCapped(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for _, word := range []string{"zulu", "alpha", "mike"} {
		b.WriteString("+" + word + "\n")
	}

	// Pad well past the cap with distinct tokens.
	for i := 0; i < 40; i++ {
		b.WriteString("+token" + strings.Repeat("x", i+1) + "\n")
	}

	_, keywords := NewClassifier().Classify(b.String())

	require.Len(t, keywords, 30)
	assert.True(t, sortedStrings(keywords))
}

func sortedStrings(values []string) bool {
	for i := 1; i < len(values); i++ {
		if values[i-1] > values[i] {
			return false
		}
	}

	return true
}

func TestClassify_IgnoresDiffHeaders(t *testing.T) {
	t.Parallel()

	diff := "diff --git a/test/fixture.go b/test/fixture.go\n" +
		"+++ b/test/fixture.go\n" +
		"+x = 1\n"

	changeType, keywords := NewClassifier().Classify(diff)

	// The header's "test" and "fixture" words must not vote or tokenize.
	assert.Equal(t, crossrepo.ChangeChore, changeType)
	assert.NotContains(t, keywords, "fixture")
}
