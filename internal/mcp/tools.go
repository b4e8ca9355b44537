package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool name constants.
const (
	ToolNameAnalyze = "crossrepo_analyze"
	ToolNamePlan    = "crossrepo_plan"
	ToolNameOrder   = "repo_order"
)

// Sentinel errors for tool input validation.
var (
	// ErrNoRepositoriesConfigured indicates the server has no repository declarations.
	ErrNoRepositoriesConfigured = errors.New("no repositories configured")
	// ErrRangeTooLong indicates a revision identifier exceeds the size limit.
	ErrRangeTooLong = errors.New("revision identifier exceeds maximum length")
)

// maxRevisionLength bounds caller-supplied revision identifiers.
const maxRevisionLength = 512

// Input types (JSON schemas auto-generated via struct tags).

// AnalyzeInput is the input schema for the crossrepo_analyze tool.
type AnalyzeInput struct {
	Repositories []string `json:"repositories,omitempty" jsonschema:"optional list of repository names to analyze (default: all configured)"`
	From         string   `json:"from,omitempty"         jsonschema:"revision the commit range starts from (default: working-copy parent)"`
	To           string   `json:"to,omitempty"           jsonschema:"revision the commit range ends at (default: working copy)"`
}

// PlanInput is the input schema for the crossrepo_plan tool.
type PlanInput struct {
	Repositories []string `json:"repositories,omitempty" jsonschema:"optional list of repository names to plan for (default: all configured)"`
	From         string   `json:"from,omitempty"         jsonschema:"revision the commit range starts from (default: working-copy parent)"`
	To           string   `json:"to,omitempty"           jsonschema:"revision the commit range ends at (default: working copy)"`
}

// OrderInput is the input schema for the repo_order tool.
type OrderInput struct {
	Repositories []string `json:"repositories,omitempty" jsonschema:"optional list of repository names to order (default: all configured)"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateRange checks common revision input constraints.
func validateRange(from, to string) error {
	if len(from) > maxRevisionLength || len(to) > maxRevisionLength {
		return ErrRangeTooLong
	}

	return nil
}
