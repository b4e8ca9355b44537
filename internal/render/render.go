// Package render turns analysis results into human- and machine-readable
// output: text tables, Markdown, and JSON.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/crossrepo"
)

// Format selects an output rendering.
type Format string

const (
	// FormatText renders a colored table for terminals.
	FormatText Format = "text"
	// FormatJSON renders the proposal as indented JSON.
	FormatJSON Format = "json"
	// FormatMarkdown renders a Markdown report.
	FormatMarkdown Format = "markdown"
)

// ErrUnknownFormat indicates an unsupported output format name.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat resolves a format name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatText, FormatJSON, FormatMarkdown:
		return Format(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Options controls optional rendering detail.
type Options struct {
	// ShowDiffs includes an inline word-level diff preview per file in the
	// text format.
	ShowDiffs bool
}

// Proposal writes the proposal to w in the requested format.
func Proposal(w io.Writer, proposal crossrepo.CrossRepoProposal, format Format, opts Options) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, proposal)
	case FormatMarkdown:
		return writeMarkdown(w, proposal)
	case FormatText:
		return writeText(w, proposal, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// writeJSON renders any value as indented JSON.
func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(value)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}
