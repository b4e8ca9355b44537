package render

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/crossrepo"
)

// Terminal styles.
var (
	headlineStyle = color.New(color.FgCyan, color.Bold)
	repoStyle     = color.New(color.FgYellow)
	dimStyle      = color.New(color.Faint)
)

// writeText renders a colored terminal report: a headline, one summary
// table over all groups, and per-group commit messages.
func writeText(w io.Writer, proposal crossrepo.CrossRepoProposal, opts Options) error {
	files := totalProposalFiles(proposal)

	_, err := headlineStyle.Fprintf(w, "Commit division proposal: %s group(s), %s file(s), confidence %.2f\n\n",
		humanize.Comma(int64(len(proposal.CommitGroups))), humanize.Comma(int64(files)), proposal.ConfidenceScore)
	if err != nil {
		return fmt.Errorf("write headline: %w", err)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "Group", "Type", "Change", "Confidence", "Repositories", "Files"})

	for i, group := range proposal.CommitGroups {
		tw.AppendRow(table.Row{
			i + 1,
			group.Name,
			group.GroupType.String(),
			group.ChangeType.String(),
			fmt.Sprintf("%.2f", group.Confidence),
			len(group.Commits),
			groupFileCount(group),
		})
	}

	tw.Render()

	for i, group := range proposal.CommitGroups {
		fmt.Fprintf(w, "\n[%d] %s\n", i+1, group.Name)

		for _, commit := range group.Commits {
			repoStyle.Fprintf(w, "  %s", commit.Repository)
			fmt.Fprintf(w, ": %s\n", firstLine(commit.Message))

			for _, change := range commit.Changes {
				lang := fileLanguage(change.Path)
				if lang != "" {
					lang = " [" + lang + "]"
				}

				dimStyle.Fprintf(w, "    %s %s%s\n", actionMarker(change.Action), change.Path, lang)

				if opts.ShowDiffs {
					preview := InlineDiff(change.Diff)
					if preview != "" {
						fmt.Fprintln(w, indent(preview, "      "))
					}
				}
			}
		}
	}

	return nil
}

// actionMarker renders a one-character action indicator.
func actionMarker(action crossrepo.FileAction) string {
	switch action {
	case crossrepo.ActionAdd:
		return "A"
	case crossrepo.ActionDelete:
		return "D"
	default:
		return "M"
	}
}

// firstLine returns the subject line of a commit message.
func firstLine(message string) string {
	for i := range len(message) {
		if message[i] == '\n' {
			return message[:i]
		}
	}

	return message
}

// groupFileCount counts the files claimed by a group.
func groupFileCount(group crossrepo.CommitGroup) int {
	count := 0
	for _, commit := range group.Commits {
		count += len(commit.Changes)
	}

	return count
}

// totalProposalFiles counts the files across the whole proposal.
func totalProposalFiles(proposal crossrepo.CrossRepoProposal) int {
	total := 0
	for _, group := range proposal.CommitGroups {
		total += groupFileCount(group)
	}

	return total
}
