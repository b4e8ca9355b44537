package crossrepo

// graphMinConfidence is the confidence threshold below which a relation does
// not form a graph edge.
const graphMinConfidence = 0.6

// BuildDependencyGraph turns detected relations into an adjacency structure,
// dropping relations below the confidence threshold. Kind and confidence are
// discarded; only the (source, target) edge survives. Pure function.
func BuildDependencyGraph(relations []DependencyRelation) DependencyGraph {
	graph := make(DependencyGraph)

	for _, relation := range relations {
		if relation.Confidence < graphMinConfidence {
			continue
		}

		targets, ok := graph[relation.Source]
		if !ok {
			targets = make(map[string]struct{})
			graph[relation.Source] = targets
		}

		targets[relation.Target] = struct{}{}
	}

	return graph
}
