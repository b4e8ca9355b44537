package crossrepo

import (
	"fmt"
	"path/filepath"
	"strings"
)

// fallbackPhrases supplies a body line when no keywords were extracted.
var fallbackPhrases = map[ChangeType]string{
	ChangeFeature:     "general feature work",
	ChangeBugfix:      "general defect repairs",
	ChangeRefactor:    "general restructuring",
	ChangeDocs:        "documentation updates",
	ChangeTests:       "test updates",
	ChangeChore:       "maintenance work",
	ChangeStyle:       "formatting changes",
	ChangePerformance: "performance tuning",
}

// BuildCommitMessage generates a conventional-commit message for one
// repository's share of a commit group. The subject carries the type word,
// an optional scope derived from a shared parent directory, and the file
// count; the body lists up to three keywords or a kind-specific phrase.
func BuildCommitMessage(changeType ChangeType, files []FileChange, keywords []string) string {
	prefix := changeType.CommitPrefix()

	if scope := commonScope(files); scope != "" {
		prefix = fmt.Sprintf("%s(%s)", prefix, scope)
	}

	noun := "files"
	if len(files) == 1 {
		noun = "file"
	}

	subject := fmt.Sprintf("%s: update %d %s", prefix, len(files), noun)

	body := fallbackPhrases[changeType]
	if body == "" {
		body = fallbackPhrases[ChangeChore]
	}

	if len(keywords) > 0 {
		picked := keywords
		if len(picked) > maxCommitMessageKeywords {
			picked = picked[:maxCommitMessageKeywords]
		}

		body = strings.Join(picked, ", ")
	}

	return subject + "\n\n" + body
}

// commonScope returns the shared immediate parent directory name of all
// files, or "" when they do not share one or live at the repository root.
func commonScope(files []FileChange) string {
	if len(files) == 0 {
		return ""
	}

	shared := filepath.Dir(files[0].Path)

	for _, file := range files[1:] {
		if filepath.Dir(file.Path) != shared {
			return ""
		}
	}

	if shared == "." || shared == "/" {
		return ""
	}

	return filepath.Base(shared)
}
