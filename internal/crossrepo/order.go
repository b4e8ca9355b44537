package crossrepo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jasagiri/mcp-jujutsu-sub001/internal/repo"
	"github.com/jasagiri/mcp-jujutsu-sub001/pkg/toposort"
)

// ErrCyclicDependency indicates the static repository dependency
// declarations contain a cycle. Fatal for any caller requiring a topological
// order; proposal generation never consults this component.
var ErrCyclicDependency = errors.New("cyclic repository dependency")

// OrderRepositories returns the repository names in topological order: every
// declared dependency precedes its dependents. Dependencies naming
// repositories outside the given set are ignored.
func OrderRepositories(repositories []repo.Repository) ([]string, error) {
	inSet := make(map[string]struct{}, len(repositories))
	for _, repository := range repositories {
		inSet[repository.Name] = struct{}{}
	}

	graph := toposort.NewGraph()

	for _, repository := range repositories {
		graph.AddNode(repository.Name)

		for _, dep := range repository.Dependencies {
			if _, ok := inSet[dep]; !ok {
				continue
			}

			// Dependency first, dependent after.
			graph.AddEdge(dep, repository.Name)
		}
	}

	order, ok := graph.Toposort()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCyclicDependency, describeCycle(graph, repositories))
	}

	return order, nil
}

// describeCycle renders one detected cycle as "a -> b -> c" for error text.
func describeCycle(graph *toposort.Graph, repositories []repo.Repository) string {
	for _, repository := range repositories {
		cycle := graph.FindCycle(repository.Name)
		if len(cycle) > 0 {
			return strings.Join(cycle, " -> ")
		}
	}

	return "cycle location unknown"
}

// ExecutionPlan pairs a proposal with the order repositories must be
// processed in when applying it.
type ExecutionPlan struct {
	Proposal       CrossRepoProposal `json:"proposal"`
	ExecutionOrder []string          `json:"executionOrder"`
}

// PlanExecution builds an execution plan for the proposal over the given
// repository set. Returns ErrCyclicDependency when the static declarations
// are cyclic.
func PlanExecution(proposal CrossRepoProposal, repositories []repo.Repository) (ExecutionPlan, error) {
	order, err := OrderRepositories(repositories)
	if err != nil {
		return ExecutionPlan{}, err
	}

	return ExecutionPlan{Proposal: proposal, ExecutionOrder: order}, nil
}
