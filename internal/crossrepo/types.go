// Package crossrepo implements the cross-repository semantic analysis and
// commit-division engine: dependency inference between repositories,
// multi-strategy grouping of changed files, and assembly of a coordinated
// multi-repository commit proposal.
package crossrepo

import (
	"context"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/repo"
)

// FileAction identifies how a file changed within a commit range.
type FileAction int

const (
	// ActionAdd indicates a new file was added.
	ActionAdd FileAction = iota
	// ActionModify indicates an existing file was modified.
	ActionModify
	// ActionDelete indicates a file was removed.
	ActionDelete
)

// fileActionNames maps actions to their wire representation.
var fileActionNames = map[FileAction]string{
	ActionAdd:    "add",
	ActionModify: "modify",
	ActionDelete: "delete",
}

// String returns the wire name of the action.
func (a FileAction) String() string {
	if name, ok := fileActionNames[a]; ok {
		return name
	}

	return "modify"
}

// MarshalJSON encodes the action as its wire name.
func (a FileAction) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// ChangeType classifies the semantic nature of a diff.
type ChangeType int

const (
	// ChangeFeature is new functionality.
	ChangeFeature ChangeType = iota
	// ChangeBugfix is a defect repair.
	ChangeBugfix
	// ChangeRefactor is a behavior-preserving restructuring.
	ChangeRefactor
	// ChangeDocs is a documentation change.
	ChangeDocs
	// ChangeTests is a test change.
	ChangeTests
	// ChangeChore is maintenance work and the default classification.
	ChangeChore
	// ChangeStyle is a formatting-only change.
	ChangeStyle
	// ChangePerformance is an optimization.
	ChangePerformance
)

// changeTypeNames maps change types to their wire representation.
var changeTypeNames = map[ChangeType]string{
	ChangeFeature:     "feature",
	ChangeBugfix:      "bugfix",
	ChangeRefactor:    "refactor",
	ChangeDocs:        "docs",
	ChangeTests:       "tests",
	ChangeChore:       "chore",
	ChangeStyle:       "style",
	ChangePerformance: "performance",
}

// commitPrefixes maps change types to conventional-commit type words.
var commitPrefixes = map[ChangeType]string{
	ChangeFeature:     "feat",
	ChangeBugfix:      "fix",
	ChangeRefactor:    "refactor",
	ChangeDocs:        "docs",
	ChangeTests:       "test",
	ChangeChore:       "chore",
	ChangeStyle:       "style",
	ChangePerformance: "perf",
}

// String returns the wire name of the change type.
func (c ChangeType) String() string {
	if name, ok := changeTypeNames[c]; ok {
		return name
	}

	return "chore"
}

// CommitPrefix returns the conventional-commit type word for the change type.
func (c ChangeType) CommitPrefix() string {
	if prefix, ok := commitPrefixes[c]; ok {
		return prefix
	}

	return "chore"
}

// MarshalJSON encodes the change type as its wire name.
func (c ChangeType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// GroupType identifies which grouping strategy produced a commit group.
type GroupType int

const (
	// GroupFeature groups feature-classified changes.
	GroupFeature GroupType = iota
	// GroupBugfix groups bugfix-classified changes.
	GroupBugfix
	// GroupRefactor groups refactor-classified changes.
	GroupRefactor
	// GroupDependency groups changes linked by an inferred dependency.
	GroupDependency
	// GroupFileType groups changes sharing a file extension.
	GroupFileType
	// GroupDirectory groups changes sharing a parent directory.
	GroupDirectory
	// GroupComponent groups changes belonging to one logical component.
	GroupComponent
	// GroupMixed is the catch-all for everything else.
	GroupMixed
)

// groupTypeNames maps group types to their wire representation.
var groupTypeNames = map[GroupType]string{
	GroupFeature:    "feature",
	GroupBugfix:     "bugfix",
	GroupRefactor:   "refactor",
	GroupDependency: "dependency",
	GroupFileType:   "fileType",
	GroupDirectory:  "directory",
	GroupComponent:  "component",
	GroupMixed:      "mixed",
}

// groupTypeOrdinals preserves the documented sort order explicitly so a
// reordering of the enum constants cannot silently change proposal output.
var groupTypeOrdinals = map[GroupType]int{
	GroupFeature:    0,
	GroupBugfix:     1,
	GroupRefactor:   2,
	GroupDependency: 3,
	GroupFileType:   4,
	GroupDirectory:  5,
	GroupComponent:  6,
	GroupMixed:      7,
}

// String returns the wire name of the group type.
func (g GroupType) String() string {
	if name, ok := groupTypeNames[g]; ok {
		return name
	}

	return "mixed"
}

// Ordinal returns the sort rank of the group type.
func (g GroupType) Ordinal() int {
	if ord, ok := groupTypeOrdinals[g]; ok {
		return ord
	}

	return groupTypeOrdinals[GroupMixed]
}

// MarshalJSON encodes the group type as its wire name.
func (g GroupType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + g.String() + `"`), nil
}

// FileChange is one changed file in one repository, with its unified diff.
// Immutable once produced by ingestion.
type FileChange struct {
	Path       string     `json:"path"`
	Action     FileAction `json:"changeType"`
	Diff       string     `json:"diff"`
	Repository string     `json:"repository"`
}

// CommitRange identifies the span of changes to analyze, as a pair of
// revision identifiers understood by the VCS adapter.
type CommitRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CrossRepoDiff is the complete ingested change set for one analysis request.
// Read-only after construction.
type CrossRepoDiff struct {
	Repositories []repo.Repository       `json:"repositories"`
	Changes      map[string][]FileChange `json:"changes"`
}

// TotalChanges returns the number of changed files across all repositories.
func (d *CrossRepoDiff) TotalChanges() int {
	total := 0
	for _, changes := range d.Changes {
		total += len(changes)
	}

	return total
}

// DependencyRelation is one inferred, confidence-scored relationship between
// two repositories. Multiple relations may exist for the same pair.
type DependencyRelation struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	SourceFile *string `json:"sourceFile,omitempty"`
	TargetFile *string `json:"targetFile,omitempty"`
	Kind       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// DependencyGraph maps a repository name to the set of repositories it
// depends on.
type DependencyGraph map[string]map[string]struct{}

// DependsOn reports whether source has an edge to target.
func (g DependencyGraph) DependsOn(source, target string) bool {
	_, ok := g[source][target]

	return ok
}

// EdgeCount returns the total number of edges in the graph.
func (g DependencyGraph) EdgeCount() int {
	count := 0
	for _, targets := range g {
		count += len(targets)
	}

	return count
}

// CommitInfo is one repository's contribution to a commit group: the proposed
// commit message and the files it would contain.
type CommitInfo struct {
	Repository string       `json:"repository"`
	Message    string       `json:"message"`
	Changes    []FileChange `json:"changes"`
	ChangeType ChangeType   `json:"changeType"`
	Keywords   []string     `json:"keywords"`
}

// CommitGroup is a proposed future commit spanning one or more repositories.
type CommitGroup struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Commits     []CommitInfo `json:"commits"`
	GroupType   GroupType    `json:"groupType"`
	ChangeType  ChangeType   `json:"changeType"`
	Confidence  float64      `json:"confidence"`
	Keywords    []string     `json:"keywords"`
}

// CrossRepoProposal is the externally visible result of the engine: a
// coordinated multi-repository commit plan with a confidence score.
type CrossRepoProposal struct {
	OriginalCommitIDs map[string]string `json:"originalCommitIds"`
	TargetCommitIDs   map[string]string `json:"targetCommitIds"`
	CommitGroups      []CommitGroup     `json:"commitGroups"`
	ConfidenceScore   float64           `json:"confidenceScore"`
}

// Classifier labels one file's diff text with a change type and extracts
// lowercase keyword tokens. Implementations must be pure and deterministic
// and must not fail on malformed or binary input.
type Classifier interface {
	Classify(diffText string) (ChangeType, []string)
}

// Fetcher retrieves the per-file changes of one repository for a commit
// range. Diff text must be in unified-diff form with metadata lines
// distinguishable from content lines.
type Fetcher interface {
	FetchChanges(ctx context.Context, repository repo.Repository, commitRange CommitRange) ([]FileChange, error)
}
