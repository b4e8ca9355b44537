package crossrepo

import (
	"context"
	"log/slog"
	"slices"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/repo"
)

// Analyzer runs the full analysis pipeline: detection, grouping, and
// proposal assembly. It holds no mutable state across requests; every call
// operates on its own CrossRepoDiff.
type Analyzer struct {
	classifier Classifier
	config     Config
	logger     *slog.Logger
}

// NewAnalyzer creates an Analyzer. A nil logger uses the slog default.
func NewAnalyzer(classifier Classifier, cfg Config, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Analyzer{classifier: classifier, config: cfg, logger: logger}
}

// Analyze produces a coordinated commit proposal for the given diff. It is
// pure, synchronous computation; an empty diff yields an empty group list
// with confidence 0.0, never an error.
func (a *Analyzer) Analyze(diff *CrossRepoDiff, commitRange CommitRange) CrossRepoProposal {
	classes := classifyAll(diff, a.classifier)

	var relations []DependencyRelation
	if a.config.DependencyDetection {
		relations = NewDetector(a.classifier).Detect(diff)
	}

	graph := BuildDependencyGraph(relations)
	a.logger.Debug("dependency detection complete",
		"relations", len(relations), "graphEdges", graph.EdgeCount())

	groups := a.runStrategies(diff, classes, relations)
	groups = appendCatchAll(diff, classes, groups)

	sortGroups(groups)

	proposal := CrossRepoProposal{
		OriginalCommitIDs: commitIDs(diff, commitRange.From),
		TargetCommitIDs:   commitIDs(diff, commitRange.To),
		CommitGroups:      groups,
		ConfidenceScore:   meanConfidence(groups),
	}

	a.logger.Debug("proposal assembled",
		"groups", len(groups), "confidenceScore", proposal.ConfidenceScore)

	return proposal
}

// runStrategies executes every enabled strategy in the fixed order
// semantic -> dependency -> fileType -> directory.
func (a *Analyzer) runStrategies(
	diff *CrossRepoDiff, classes classifications, relations []DependencyRelation,
) []CommitGroup {
	groups := make([]CommitGroup, 0)

	if a.config.GroupBySemantics {
		groups = append(groups, groupBySemantics(diff, classes, a.config)...)
	}

	if a.config.GroupByDependency {
		groups = append(groups, groupByDependency(diff, classes, relations, a.config)...)
	}

	if a.config.GroupByFileType {
		groups = append(groups, groupByFileType(diff, classes, a.config)...)
	}

	if a.config.GroupByDirectory {
		groups = append(groups, groupByDirectory(diff, classes, a.config)...)
	}

	return groups
}

// appendCatchAll collects every file not yet claimed by any group into a
// final miscellaneous group, guaranteeing that each ingested file appears in
// exactly one group. Files claimed by several strategy groups stay where the
// strategies put them; only truly unclaimed files land here.
func appendCatchAll(diff *CrossRepoDiff, classes classifications, groups []CommitGroup) []CommitGroup {
	claimed := make(map[string]map[string]struct{}, len(diff.Repositories))

	for _, group := range groups {
		for _, commit := range group.Commits {
			set, ok := claimed[commit.Repository]
			if !ok {
				set = make(map[string]struct{})
				claimed[commit.Repository] = set
			}

			for _, change := range commit.Changes {
				set[change.Path] = struct{}{}
			}
		}
	}

	perRepo := make(map[string][]FileChange)

	for _, repository := range diff.Repositories {
		for _, change := range diff.Changes[repository.Name] {
			if _, ok := claimed[repository.Name][change.Path]; ok {
				continue
			}

			perRepo[repository.Name] = append(perRepo[repository.Name], change)
		}
	}

	// The catch-all is never size-capped: completeness wins over group size.
	commits := buildCommits(diff, perRepo, classes, majorityType(classes))
	if len(commits) == 0 {
		return groups
	}

	return append(groups, CommitGroup{
		Name:        "Miscellaneous changes",
		Description: "Files not claimed by any grouping strategy",
		Commits:     commits,
		GroupType:   GroupMixed,
		ChangeType:  dominantType(commits),
		Confidence:  miscellaneousConfidence,
		Keywords:    unionKeywords(commits),
	})
}

// sortGroups orders groups by group-type ordinal ascending, then by
// confidence descending. The sort is stable so equal groups keep their
// strategy order.
func sortGroups(groups []CommitGroup) {
	slices.SortStableFunc(groups, func(a, b CommitGroup) int {
		if diff := a.GroupType.Ordinal() - b.GroupType.Ordinal(); diff != 0 {
			return diff
		}

		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		default:
			return 0
		}
	})
}

// meanConfidence returns the arithmetic mean of the groups' confidences, or
// 0.0 when there are no groups.
func meanConfidence(groups []CommitGroup) float64 {
	if len(groups) == 0 {
		return 0.0
	}

	total := 0.0
	for _, group := range groups {
		total += group.Confidence
	}

	return total / float64(len(groups))
}

// commitIDs maps every repository in the diff to the given revision
// identifier. The boundaries are caller-supplied pass-through values.
func commitIDs(diff *CrossRepoDiff, revision string) map[string]string {
	ids := make(map[string]string, len(diff.Repositories))
	for _, repository := range diff.Repositories {
		ids[repository.Name] = revision
	}

	return ids
}

// AnalyzeRepositories is the outward-facing entry point: it resolves the
// requested repositories, ingests their diffs concurrently, and runs the
// engine over the joined result.
func AnalyzeRepositories(
	ctx context.Context,
	manager *repo.Manager,
	fetcher Fetcher,
	classifier Classifier,
	names []string,
	commitRange CommitRange,
	cfg Config,
	logger *slog.Logger,
) (CrossRepoProposal, error) {
	repositories, err := manager.Select(names)
	if err != nil {
		return CrossRepoProposal{}, err
	}

	diff := FetchCrossRepoDiff(ctx, fetcher, repositories, commitRange, logger)

	return NewAnalyzer(classifier, cfg, logger).Analyze(diff, commitRange), nil
}
