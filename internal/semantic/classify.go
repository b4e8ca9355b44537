// Package semantic labels a single file's diff text with a change type and
// extracts keyword tokens. The heuristics are lexical only: no parsing, no
// language awareness, never an error.
package semantic

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/crossrepo"
)

// binarySniffLength caps the scan for null bytes when deciding whether diff
// text is binary garbage. Matches the heuristic used by Git.
const binarySniffLength = 8000

// Token extraction limits.
const (
	minTokenLength = 4
	maxKeywords    = 30
)

// marker associates a change type with the lexical cues that vote for it.
// Order is the tie-break priority: earlier entries win equal scores.
type marker struct {
	changeType crossrepo.ChangeType
	words      []string
}

// markers lists the classification cues in priority order. Test cues come
// first so test files mentioning functions do not land in feature.
var markers = []marker{
	{changeType: crossrepo.ChangeTests, words: []string{"test", "spec", "assert", "mock", "fixture"}},
	{changeType: crossrepo.ChangeBugfix, words: []string{"fix", "bug", "issue", "crash", "regression", "resolve"}},
	{changeType: crossrepo.ChangeDocs, words: []string{"readme", "documentation", "changelog", "docstring"}},
	{changeType: crossrepo.ChangeStyle, words: []string{"format", "lint", "whitespace", "indent"}},
	{changeType: crossrepo.ChangePerformance, words: []string{"optimiz", "performance", "benchmark", "speedup", "latency"}},
	{changeType: crossrepo.ChangeRefactor, words: []string{"refactor", "rename", "restructur", "cleanup", "simplif", "extract"}},
	{changeType: crossrepo.ChangeFeature, words: []string{"add", "new", "implement", "introduce", "support", "feature"}},
}

// definitionPrefixes mark added lines that introduce a new routine or type,
// which counts as a feature cue.
var definitionPrefixes = []string{
	"func ", "def ", "fn ", "function ", "class ", "proc ", "impl ",
}

// tokenPattern matches identifier-like words for keyword extraction.
var tokenPattern = regexp.MustCompile(`[A-Za-z][A-Za-z0-9]+`)

// stopwords are tokens too common to carry semantic signal.
var stopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "func": {}, "return": {},
	"import": {}, "package": {}, "const": {}, "type": {}, "interface": {},
	"struct": {}, "string": {}, "bool": {}, "true": {}, "false": {},
	"else": {}, "range": {}, "error": {}, "testing": {}, "have": {},
	"will": {}, "when": {}, "then": {}, "than": {}, "them": {}, "they": {},
	"these": {}, "there": {}, "which": {}, "while": {}, "should": {},
	"could": {}, "about": {}, "after": {}, "before": {}, "other": {},
	"only": {}, "such": {}, "very": {}, "each": {}, "into": {}, "over": {},
	"more": {}, "most": {}, "must": {}, "value": {}, "values": {},
	"null": {}, "void": {}, "public": {}, "private": {}, "static": {},
	"class": {}, "self": {}, "none": {},
}

// Classifier implements the crossrepo.Classifier contract with lexical
// heuristics over added diff lines. Stateless and safe for concurrent use.
type Classifier struct{}

// NewClassifier creates a Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the change type and lowercase keyword tokens for one
// file's unified diff text. Malformed or binary input yields the chore
// classification and no keywords.
func (c *Classifier) Classify(diffText string) (crossrepo.ChangeType, []string) {
	if diffText == "" || looksBinary(diffText) {
		return crossrepo.ChangeChore, []string{}
	}

	added := addedLines(diffText)
	if len(added) == 0 {
		// Deletions and context only: classify over whatever content is left.
		added = allContentLines(diffText)
	}

	return scoreLines(added), extractKeywords(added)
}

// scoreLines votes each marker's words over the lines and returns the
// highest-scoring change type, chore when nothing matched.
func scoreLines(lines []string) crossrepo.ChangeType {
	scores := make(map[crossrepo.ChangeType]int, len(markers))

	for _, line := range lines {
		lowered := strings.ToLower(line)

		for _, m := range markers {
			for _, word := range m.words {
				if strings.Contains(lowered, word) {
					scores[m.changeType]++

					break
				}
			}
		}

		for _, prefix := range definitionPrefixes {
			if strings.HasPrefix(strings.TrimSpace(line), prefix) {
				scores[crossrepo.ChangeFeature]++

				break
			}
		}
	}

	winner := crossrepo.ChangeChore
	best := 0

	for _, m := range markers {
		if score := scores[m.changeType]; score > best {
			winner = m.changeType
			best = score
		}
	}

	return winner
}

// extractKeywords tokenizes the lines into lowercase identifier-like words,
// dropping short tokens and stopwords. The result is sorted and capped.
func extractKeywords(lines []string) []string {
	set := make(map[string]struct{})

	for _, line := range lines {
		for _, token := range tokenPattern.FindAllString(line, -1) {
			lowered := strings.ToLower(token)
			if len(lowered) < minTokenLength {
				continue
			}

			if _, stop := stopwords[lowered]; stop {
				continue
			}

			set[lowered] = struct{}{}
		}
	}

	keywords := make([]string, 0, len(set))
	for keyword := range set {
		keywords = append(keywords, keyword)
	}

	sort.Strings(keywords)

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}

	return keywords
}

// addedLines returns the content of "+" lines, excluding the "+++" header.
func addedLines(diffText string) []string {
	lines := strings.Split(diffText, "\n")
	added := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			added = append(added, line[1:])
		}
	}

	return added
}

// allContentLines returns every non-metadata line's content.
func allContentLines(diffText string) []string {
	lines := strings.Split(diffText, "\n")
	content := make([]string, 0, len(lines))

	for _, line := range lines {
		if line == "" || isDiffHeader(line) {
			continue
		}

		switch line[0] {
		case '+', '-', ' ':
			content = append(content, line[1:])
		default:
			content = append(content, line)
		}
	}

	return content
}

// isDiffHeader reports whether the line is unified-diff metadata.
func isDiffHeader(line string) bool {
	for _, prefix := range []string{
		"diff --git", "index ", "+++ ", "--- ", "@@",
		"new file mode", "deleted file mode", "rename from", "rename to",
		"similarity index", "Binary files", "\\ No newline",
	} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}

	return false
}

// looksBinary reports whether the text contains a null byte within the
// sniff window.
func looksBinary(text string) bool {
	sniff := text
	if len(sniff) > binarySniffLength {
		sniff = sniff[:binarySniffLength]
	}

	return strings.IndexByte(sniff, 0) >= 0
}
