package mcp

import (
	"context"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/crossrepo"
)

// handleAnalyze processes crossrepo_analyze tool calls: ingest diffs across
// the requested repositories and return a commit-division proposal.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input AnalyzeInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateRange(input.From, input.To)
	if err != nil {
		return errorResult(err)
	}

	if len(s.manager.Names()) == 0 {
		return errorResult(ErrNoRepositoriesConfigured)
	}

	proposal, err := crossrepo.AnalyzeRepositories(
		ctx,
		s.manager,
		s.fetcher,
		s.classifier,
		input.Repositories,
		crossrepo.CommitRange{From: input.From, To: input.To},
		s.analysis,
		s.logger,
	)
	if err != nil {
		return errorResult(fmt.Errorf("analyze: %w", err))
	}

	return jsonResult(proposal)
}

// handlePlan processes crossrepo_plan tool calls: the analyze result plus
// the topological execution order over the selected repositories.
func (s *Server) handlePlan(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input PlanInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateRange(input.From, input.To)
	if err != nil {
		return errorResult(err)
	}

	repositories, err := s.manager.Select(input.Repositories)
	if err != nil {
		return errorResult(err)
	}

	proposal, err := crossrepo.AnalyzeRepositories(
		ctx,
		s.manager,
		s.fetcher,
		s.classifier,
		input.Repositories,
		crossrepo.CommitRange{From: input.From, To: input.To},
		s.analysis,
		s.logger,
	)
	if err != nil {
		return errorResult(fmt.Errorf("analyze: %w", err))
	}

	plan, err := crossrepo.PlanExecution(proposal, repositories)
	if err != nil {
		if errors.Is(err, crossrepo.ErrCyclicDependency) {
			return errorResult(err)
		}

		return errorResult(fmt.Errorf("plan execution: %w", err))
	}

	return jsonResult(plan)
}

// handleOrder processes repo_order tool calls.
func (s *Server) handleOrder(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input OrderInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	repositories, err := s.manager.Select(input.Repositories)
	if err != nil {
		return errorResult(err)
	}

	order, err := crossrepo.OrderRepositories(repositories)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(map[string]any{"executionOrder": order})
}
