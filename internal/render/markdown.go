package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/crossrepo"
)

// writeMarkdown renders the proposal as a Markdown report suitable for PR
// descriptions or documentation.
func writeMarkdown(w io.Writer, proposal crossrepo.CrossRepoProposal) error {
	fmt.Fprintf(w, "# Commit Division Proposal\n\n")
	fmt.Fprintf(w, "Overall confidence: **%.2f** across %d group(s).\n\n",
		proposal.ConfidenceScore, len(proposal.CommitGroups))

	for i, group := range proposal.CommitGroups {
		fmt.Fprintf(w, "## %d. %s\n\n", i+1, group.Name)
		fmt.Fprintf(w, "%s\n\n", group.Description)
		fmt.Fprintf(w, "- Type: `%s`\n", group.GroupType)
		fmt.Fprintf(w, "- Change: `%s`\n", group.ChangeType)
		fmt.Fprintf(w, "- Confidence: %.2f\n", group.Confidence)

		if len(group.Keywords) > 0 {
			fmt.Fprintf(w, "- Keywords: %s\n", strings.Join(group.Keywords, ", "))
		}

		fmt.Fprintln(w)

		for _, commit := range group.Commits {
			fmt.Fprintf(w, "### %s\n\n", commit.Repository)
			fmt.Fprintf(w, "```\n%s\n```\n\n", commit.Message)

			for _, change := range commit.Changes {
				lang := fileLanguage(change.Path)
				if lang != "" {
					lang = " (" + lang + ")"
				}

				fmt.Fprintf(w, "- `%s` %s%s\n", change.Path, change.Action, lang)
			}

			fmt.Fprintln(w)
		}
	}

	return nil
}

// fileLanguage detects the programming language from the file name, or ""
// when detection is unsafe.
func fileLanguage(path string) string {
	lang, safe := enry.GetLanguageByExtension(path)
	if !safe {
		return ""
	}

	return lang
}
