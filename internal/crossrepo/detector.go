package crossrepo

import (
	"path/filepath"
	"sort"
	"strings"
)

// Detection confidences per technique.
const (
	referenceConfidence  = 0.7
	similarityConfidence = 0.6

	// semanticBaseConfidence and semanticMaxConfidence bound the
	// keyword-intersection score: 0.5 + n/10, capped at 0.9.
	semanticBaseConfidence = 0.5
	semanticMaxConfidence  = 0.9
	semanticPerKeyword     = 0.1

	// semanticMinShared is the minimum keyword-intersection size that emits a
	// semantic relation.
	semanticMinShared = 3
)

// patternRule associates a literal substring with a dependency kind and a
// base confidence.
type patternRule struct {
	pattern    string
	kind       string
	confidence float64
}

// keywordPatterns is the fixed table for the keyword-pattern scan. Order is
// part of the output contract: earlier rules emit first.
var keywordPatterns = []patternRule{
	{pattern: "import ", kind: "import", confidence: 0.9},
	{pattern: "from ", kind: "import", confidence: 0.9},
	{pattern: "require", kind: "require", confidence: 0.8},
	{pattern: "depend", kind: "dependency", confidence: 0.7},
	{pattern: "include", kind: "include", confidence: 0.7},
	{pattern: "use ", kind: "import", confidence: 0.7},
}

// diffMetaPrefixes identify unified-diff metadata lines that the line scans
// must skip.
var diffMetaPrefixes = []string{
	"diff --git",
	"index ",
	"+++ ",
	"--- ",
	"@@",
	"new file mode",
	"deleted file mode",
	"rename from",
	"rename to",
	"similarity index",
	"Binary files",
	"\\ No newline",
}

// Detector infers directed, confidence-scored relationships between
// repositories from their ingested changes.
type Detector struct {
	classifier Classifier
}

// NewDetector creates a Detector using the given classifier for the
// semantic-keyword scan.
func NewDetector(classifier Classifier) *Detector {
	return &Detector{classifier: classifier}
}

// Detect runs all detection techniques over the diff and concatenates their
// results. No cross-technique deduplication is performed; the same pair may
// appear with several kinds and confidences.
func (d *Detector) Detect(diff *CrossRepoDiff) []DependencyRelation {
	relations := make([]DependencyRelation, 0)

	relations = append(relations, d.scanDirectReferences(diff)...)
	relations = append(relations, d.scanKeywordPatterns(diff)...)
	relations = append(relations, d.scanFilenameSimilarity(diff)...)
	relations = append(relations, d.scanSemanticKeywords(diff)...)

	return relations
}

// scanDirectReferences emits a "reference" relation whenever a content line
// of one repository's diff mentions another repository's name literally.
func (d *Detector) scanDirectReferences(diff *CrossRepoDiff) []DependencyRelation {
	relations := make([]DependencyRelation, 0)

	for _, source := range diff.Repositories {
		for _, change := range diff.Changes[source.Name] {
			sourceFile := change.Path

			for _, line := range contentLines(change.Diff) {
				for _, target := range diff.Repositories {
					if target.Name == source.Name {
						continue
					}

					if !strings.Contains(line, target.Name) {
						continue
					}

					relations = append(relations, DependencyRelation{
						Source:     source.Name,
						Target:     target.Name,
						SourceFile: &sourceFile,
						Kind:       "reference",
						Confidence: referenceConfidence,
					})
				}
			}
		}
	}

	return relations
}

// scanKeywordPatterns emits a relation when a content line contains both a
// known dependency pattern and another repository's name.
func (d *Detector) scanKeywordPatterns(diff *CrossRepoDiff) []DependencyRelation {
	relations := make([]DependencyRelation, 0)

	for _, source := range diff.Repositories {
		for _, change := range diff.Changes[source.Name] {
			sourceFile := change.Path

			for _, line := range contentLines(change.Diff) {
				for _, rule := range keywordPatterns {
					if !strings.Contains(line, rule.pattern) {
						continue
					}

					for _, target := range diff.Repositories {
						if target.Name == source.Name || !strings.Contains(line, target.Name) {
							continue
						}

						relations = append(relations, DependencyRelation{
							Source:     source.Name,
							Target:     target.Name,
							SourceFile: &sourceFile,
							Kind:       rule.kind,
							Confidence: rule.confidence,
						})
					}
				}
			}
		}
	}

	return relations
}

// scanFilenameSimilarity groups changed files by extension across
// repositories and emits an "api" relation for base-name matches.
func (d *Detector) scanFilenameSimilarity(diff *CrossRepoDiff) []DependencyRelation {
	// extension -> repository name -> changed paths.
	byExt := make(map[string]map[string][]string)

	for _, repository := range diff.Repositories {
		for _, change := range diff.Changes[repository.Name] {
			ext := strings.ToLower(filepath.Ext(change.Path))

			perRepo, ok := byExt[ext]
			if !ok {
				perRepo = make(map[string][]string)
				byExt[ext] = perRepo
			}

			perRepo[repository.Name] = append(perRepo[repository.Name], change.Path)
		}
	}

	exts := make([]string, 0, len(byExt))
	for ext := range byExt {
		exts = append(exts, ext)
	}

	sort.Strings(exts)

	relations := make([]DependencyRelation, 0)

	for _, ext := range exts {
		perRepo := byExt[ext]

		for _, source := range diff.Repositories {
			for _, target := range diff.Repositories {
				if source.Name == target.Name {
					continue
				}

				for _, sourcePath := range perRepo[source.Name] {
					for _, targetPath := range perRepo[target.Name] {
						if !baseNamesSimilar(sourcePath, targetPath) {
							continue
						}

						src, tgt := sourcePath, targetPath

						relations = append(relations, DependencyRelation{
							Source:     source.Name,
							Target:     target.Name,
							SourceFile: &src,
							TargetFile: &tgt,
							Kind:       "api",
							Confidence: similarityConfidence,
						})
					}
				}
			}
		}
	}

	return relations
}

// scanSemanticKeywords unions each repository's extracted keywords and emits
// a "semantic" relation for pairs sharing at least semanticMinShared tokens.
func (d *Detector) scanSemanticKeywords(diff *CrossRepoDiff) []DependencyRelation {
	keywords := make(map[string]map[string]struct{}, len(diff.Repositories))

	for _, repository := range diff.Repositories {
		set := make(map[string]struct{})

		for _, change := range diff.Changes[repository.Name] {
			_, tokens := d.classifier.Classify(change.Diff)
			for _, token := range tokens {
				set[token] = struct{}{}
			}
		}

		keywords[repository.Name] = set
	}

	relations := make([]DependencyRelation, 0)

	for _, source := range diff.Repositories {
		for _, target := range diff.Repositories {
			if source.Name == target.Name {
				continue
			}

			shared := intersectionSize(keywords[source.Name], keywords[target.Name])
			if shared < semanticMinShared {
				continue
			}

			confidence := semanticBaseConfidence + float64(shared)*semanticPerKeyword
			if confidence > semanticMaxConfidence {
				confidence = semanticMaxConfidence
			}

			relations = append(relations, DependencyRelation{
				Source:     source.Name,
				Target:     target.Name,
				Kind:       "semantic",
				Confidence: confidence,
			})
		}
	}

	return relations
}

// contentLines returns the diff's content lines with their +/-/space markers
// stripped, skipping unified-diff metadata lines.
func contentLines(diffText string) []string {
	lines := strings.Split(diffText, "\n")
	content := make([]string, 0, len(lines))

	for _, line := range lines {
		if line == "" || isMetaLine(line) {
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

// isMetaLine reports whether the line is unified-diff metadata rather than
// file content.
func isMetaLine(line string) bool {
	for _, prefix := range diffMetaPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}

	return false
}

// baseNamesSimilar reports whether two paths have equal base names or one
// base name contains the other.
func baseNamesSimilar(a, b string) bool {
	baseA := filepath.Base(a)
	baseB := filepath.Base(b)

	return baseA == baseB || strings.Contains(baseA, baseB) || strings.Contains(baseB, baseA)
}

// intersectionSize returns the number of keys present in both sets.
func intersectionSize(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}

	count := 0

	for key := range a {
		if _, ok := b[key]; ok {
			count++
		}
	}

	return count
}
