package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Inline diff styles.
var (
	insertStyle = color.New(color.FgGreen)
	deleteStyle = color.New(color.FgRed, color.CrossedOut)
)

// maxPreviewBytes caps the reconstructed text fed to the word-level differ;
// huge files get no inline preview rather than a slow one.
const maxPreviewBytes = 64 << 10

// InlineDiff renders a word-level preview of one file's unified diff:
// removed runs struck through in red, inserted runs in green. Returns ""
// when the diff carries no content lines or is too large to preview.
func InlineDiff(diffText string) string {
	oldText, newText := reconstruct(diffText)
	if oldText == "" && newText == "" {
		return ""
	}

	if len(oldText) > maxPreviewBytes || len(newText) > maxPreviewBytes {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString(insertStyle.Sprint(d.Text))
		case diffmatchpatch.DiffDelete:
			b.WriteString(deleteStyle.Sprint(d.Text))
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// reconstruct rebuilds the old and new text of a file from its unified
// diff's content lines.
func reconstruct(diffText string) (string, string) {
	var oldText, newText strings.Builder

	for _, line := range strings.Split(diffText, "\n") {
		if line == "" || isMetaLine(line) {
			continue
		}

		switch line[0] {
		case '+':
			newText.WriteString(line[1:] + "\n")
		case '-':
			oldText.WriteString(line[1:] + "\n")
		case ' ':
			oldText.WriteString(line[1:] + "\n")
			newText.WriteString(line[1:] + "\n")
		}
	}

	return oldText.String(), newText.String()
}

// isMetaLine reports whether the line is unified-diff metadata.
func isMetaLine(line string) bool {
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

// indent prefixes every line of text with the given prefix.
func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}

	return strings.Join(lines, "\n")
}
