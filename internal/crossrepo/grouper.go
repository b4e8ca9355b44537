package crossrepo

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Fixed confidences per grouping strategy.
const (
	semanticGroupConfidence  = 0.85
	dependencyConfidence     = 0.9
	fileTypeConfidence       = 0.75
	directoryConfidence      = 0.8
	miscellaneousConfidence  = 0.6
	maxGroupKeywords         = 10
	maxCommitMessageKeywords = 3
)

// fileClass is one file's cached classification.
type fileClass struct {
	changeType ChangeType
	keywords   []string
}

// classifications caches classifier output per repository and path.
type classifications map[string]map[string]fileClass

// classifyAll runs the classifier once over every ingested file.
func classifyAll(diff *CrossRepoDiff, classifier Classifier) classifications {
	result := make(classifications, len(diff.Repositories))

	for _, repository := range diff.Repositories {
		perFile := make(map[string]fileClass, len(diff.Changes[repository.Name]))

		for _, change := range diff.Changes[repository.Name] {
			changeType, keywords := classifier.Classify(change.Diff)
			perFile[change.Path] = fileClass{changeType: changeType, keywords: keywords}
		}

		result[repository.Name] = perFile
	}

	return result
}

// changeTypeToGroupType maps a semantic bucket to its group type. Everything
// outside feature/bugfix/refactor lands in the mixed bucket.
func changeTypeToGroupType(changeType ChangeType) GroupType {
	switch changeType {
	case ChangeFeature:
		return GroupFeature
	case ChangeBugfix:
		return GroupBugfix
	case ChangeRefactor:
		return GroupRefactor
	default:
		return GroupMixed
	}
}

// semanticBucketOrder fixes the iteration order of semantic buckets.
var semanticBucketOrder = []ChangeType{
	ChangeFeature,
	ChangeBugfix,
	ChangeRefactor,
	ChangeDocs,
	ChangeTests,
	ChangeChore,
	ChangeStyle,
	ChangePerformance,
}

// groupBySemantics buckets files by their classified change type across all
// repositories, one group per non-empty bucket.
func groupBySemantics(diff *CrossRepoDiff, classes classifications, cfg Config) []CommitGroup {
	buckets := make(map[ChangeType]map[string][]FileChange)

	for _, repository := range diff.Repositories {
		for _, change := range diff.Changes[repository.Name] {
			changeType := classes[repository.Name][change.Path].changeType

			perRepo, ok := buckets[changeType]
			if !ok {
				perRepo = make(map[string][]FileChange)
				buckets[changeType] = perRepo
			}

			perRepo[repository.Name] = append(perRepo[repository.Name], change)
		}
	}

	groups := make([]CommitGroup, 0, len(buckets))

	for _, changeType := range semanticBucketOrder {
		perRepo, ok := buckets[changeType]
		if !ok {
			continue
		}

		capFiles(diff, perRepo, cfg.MaxGroupSize)

		commits := buildCommits(diff, perRepo, classes, forcedType(changeType))
		if len(commits) == 0 {
			continue
		}

		groups = append(groups, CommitGroup{
			Name:        titleCase(changeType.String()) + " changes",
			Description: fmt.Sprintf("Changes classified as %s across repositories", changeType),
			Commits:     commits,
			GroupType:   changeTypeToGroupType(changeType),
			ChangeType:  changeType,
			Confidence:  semanticGroupConfidence,
			Keywords:    unionKeywords(commits),
		})
	}

	return groups
}

// groupByDependency forms one group per surviving relation, pairing the
// source repository's files with the target repository's files. When a
// relation identifies concrete files, only those files are included.
func groupByDependency(
	diff *CrossRepoDiff, classes classifications, relations []DependencyRelation, cfg Config,
) []CommitGroup {
	groups := make([]CommitGroup, 0)

	for _, relation := range relations {
		if relation.Confidence < cfg.MinConfidence {
			continue
		}

		perRepo := map[string][]FileChange{
			relation.Source: selectFiles(diff.Changes[relation.Source], relation.SourceFile),
			relation.Target: selectFiles(diff.Changes[relation.Target], relation.TargetFile),
		}

		capFiles(diff, perRepo, cfg.MaxGroupSize)

		commits := buildCommits(diff, perRepo, classes, majorityType(classes))
		if len(commits) == 0 {
			continue
		}

		groups = append(groups, CommitGroup{
			Name:        relation.Source + " => " + relation.Target,
			Description: fmt.Sprintf("Coordinated %s dependency from %s to %s", relation.Kind, relation.Source, relation.Target),
			Commits:     commits,
			GroupType:   GroupDependency,
			ChangeType:  dominantType(commits),
			Confidence:  dependencyConfidence,
			Keywords:    unionKeywords(commits),
		})
	}

	return groups
}

// groupByFileType buckets files by extension across repositories, skipping
// buckets that hold a single file overall.
func groupByFileType(diff *CrossRepoDiff, classes classifications, cfg Config) []CommitGroup {
	buckets := make(map[string]map[string][]FileChange)

	for _, repository := range diff.Repositories {
		for _, change := range diff.Changes[repository.Name] {
			ext := strings.ToLower(filepath.Ext(change.Path))

			perRepo, ok := buckets[ext]
			if !ok {
				perRepo = make(map[string][]FileChange)
				buckets[ext] = perRepo
			}

			perRepo[repository.Name] = append(perRepo[repository.Name], change)
		}
	}

	exts := sortedKeys(buckets)
	groups := make([]CommitGroup, 0, len(exts))

	for _, ext := range exts {
		perRepo := buckets[ext]
		if totalFiles(perRepo) <= 1 {
			continue
		}

		capFiles(diff, perRepo, cfg.MaxGroupSize)

		commits := buildCommits(diff, perRepo, classes, majorityType(classes))
		if len(commits) == 0 {
			continue
		}

		label := ext
		if label == "" {
			label = "(no extension)"
		}

		groups = append(groups, CommitGroup{
			Name:        "File type: " + label,
			Description: fmt.Sprintf("Changes to %s files across repositories", label),
			Commits:     commits,
			GroupType:   GroupFileType,
			ChangeType:  dominantType(commits),
			Confidence:  fileTypeConfidence,
			Keywords:    unionKeywords(commits),
		})
	}

	return groups
}

// groupByDirectory buckets files by their immediate parent directory name
// across repositories, with the same single-file skip rule as file types.
func groupByDirectory(diff *CrossRepoDiff, classes classifications, cfg Config) []CommitGroup {
	buckets := make(map[string]map[string][]FileChange)

	for _, repository := range diff.Repositories {
		for _, change := range diff.Changes[repository.Name] {
			dir := parentDirName(change.Path)

			perRepo, ok := buckets[dir]
			if !ok {
				perRepo = make(map[string][]FileChange)
				buckets[dir] = perRepo
			}

			perRepo[repository.Name] = append(perRepo[repository.Name], change)
		}
	}

	dirs := sortedKeys(buckets)
	groups := make([]CommitGroup, 0, len(dirs))

	for _, dir := range dirs {
		perRepo := buckets[dir]
		if totalFiles(perRepo) <= 1 {
			continue
		}

		capFiles(diff, perRepo, cfg.MaxGroupSize)

		commits := buildCommits(diff, perRepo, classes, majorityType(classes))
		if len(commits) == 0 {
			continue
		}

		groups = append(groups, CommitGroup{
			Name:        "Directory: " + dir,
			Description: fmt.Sprintf("Changes under the %s directory across repositories", dir),
			Commits:     commits,
			GroupType:   GroupDirectory,
			ChangeType:  dominantType(commits),
			Confidence:  directoryConfidence,
			Keywords:    unionKeywords(commits),
		})
	}

	return groups
}

// typeChooser picks the change type of one repository's commit.
type typeChooser func(repository string, files []FileChange) ChangeType

// forcedType always returns the given change type.
func forcedType(changeType ChangeType) typeChooser {
	return func(string, []FileChange) ChangeType {
		return changeType
	}
}

// majorityType votes among the classified types of the repository's files.
// Ties break toward the lower enum value, keeping output deterministic.
func majorityType(classes classifications) typeChooser {
	return func(repository string, files []FileChange) ChangeType {
		votes := make(map[ChangeType]int)

		for _, file := range files {
			votes[classes[repository][file.Path].changeType]++
		}

		winner := ChangeChore
		best := 0

		for _, candidate := range semanticBucketOrder {
			if count := votes[candidate]; count > best {
				winner = candidate
				best = count
			}
		}

		return winner
	}
}

// buildCommits creates one CommitInfo per repository that contributed files,
// in the diff's repository order. Repositories with no files are skipped.
func buildCommits(
	diff *CrossRepoDiff, perRepo map[string][]FileChange, classes classifications, choose typeChooser,
) []CommitInfo {
	commits := make([]CommitInfo, 0, len(perRepo))

	for _, repository := range diff.Repositories {
		files := perRepo[repository.Name]
		if len(files) == 0 {
			continue
		}

		changeType := choose(repository.Name, files)
		keywords := fileKeywords(classes, repository.Name, files)

		commits = append(commits, CommitInfo{
			Repository: repository.Name,
			Message:    BuildCommitMessage(changeType, files, keywords),
			Changes:    files,
			ChangeType: changeType,
			Keywords:   keywords,
		})
	}

	return commits
}

// fileKeywords unions and sorts the keywords of the given files.
func fileKeywords(classes classifications, repository string, files []FileChange) []string {
	set := make(map[string]struct{})

	for _, file := range files {
		for _, keyword := range classes[repository][file.Path].keywords {
			set[keyword] = struct{}{}
		}
	}

	keywords := make([]string, 0, len(set))
	for keyword := range set {
		keywords = append(keywords, keyword)
	}

	sort.Strings(keywords)

	return keywords
}

// dominantType votes among the change types of the group's commits.
func dominantType(commits []CommitInfo) ChangeType {
	votes := make(map[ChangeType]int)

	for _, commit := range commits {
		votes[commit.ChangeType] += len(commit.Changes)
	}

	winner := ChangeChore
	best := 0

	for _, candidate := range semanticBucketOrder {
		if count := votes[candidate]; count > best {
			winner = candidate
			best = count
		}
	}

	return winner
}

// unionKeywords merges the keywords of all commits, sorted and capped.
func unionKeywords(commits []CommitInfo) []string {
	set := make(map[string]struct{})

	for _, commit := range commits {
		for _, keyword := range commit.Keywords {
			set[keyword] = struct{}{}
		}
	}

	keywords := make([]string, 0, len(set))
	for keyword := range set {
		keywords = append(keywords, keyword)
	}

	sort.Strings(keywords)

	if len(keywords) > maxGroupKeywords {
		keywords = keywords[:maxGroupKeywords]
	}

	return keywords
}

// selectFiles returns all changes, or only the one matching the identified
// path when the relation names a concrete file.
func selectFiles(changes []FileChange, identified *string) []FileChange {
	if identified == nil {
		return changes
	}

	for _, change := range changes {
		if change.Path == *identified {
			return []FileChange{change}
		}
	}

	return nil
}

// capFiles truncates the group's claimed files to maxSize in total, walking
// repositories in diff order. Files shed here are reclaimed by the catch-all
// pass, so completeness is unaffected.
func capFiles(diff *CrossRepoDiff, perRepo map[string][]FileChange, maxSize int) {
	if maxSize <= 0 {
		return
	}

	remaining := maxSize

	for _, repository := range diff.Repositories {
		files := perRepo[repository.Name]
		if len(files) == 0 {
			continue
		}

		if remaining <= 0 {
			perRepo[repository.Name] = nil

			continue
		}

		if len(files) > remaining {
			perRepo[repository.Name] = files[:remaining]
			remaining = 0

			continue
		}

		remaining -= len(files)
	}
}

// totalFiles counts the files claimed across all repositories.
func totalFiles(perRepo map[string][]FileChange) int {
	total := 0
	for _, files := range perRepo {
		total += len(files)
	}

	return total
}

// parentDirName returns the immediate parent directory name of a path, or
// "." for files at the repository root.
func parentDirName(path string) string {
	return filepath.Base(filepath.Dir(path))
}

// sortedKeys returns the map's keys in lexicographic order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// titleCase upper-cases the first byte of an ASCII word.
func titleCase(word string) string {
	if word == "" {
		return word
	}

	return strings.ToUpper(word[:1]) + word[1:]
}
