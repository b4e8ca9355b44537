package crossrepo

// Default analysis settings.
const (
	// DefaultMaxGroupSize caps the number of files one commit group claims.
	DefaultMaxGroupSize = 20

	// DefaultMinConfidence is the relation confidence required by the
	// dependency grouping strategy.
	DefaultMinConfidence = 0.7
)

// Config controls which grouping strategies run and how aggressive they are.
// It is passed explicitly through every strategy call; the engine holds no
// ambient state.
type Config struct {
	GroupBySemantics    bool    `json:"groupBySemantics"    mapstructure:"group_by_semantics"`
	GroupByDependency   bool    `json:"groupByDependency"   mapstructure:"group_by_dependency"`
	GroupByFileType     bool    `json:"groupByFileType"     mapstructure:"group_by_file_type"`
	GroupByDirectory    bool    `json:"groupByDirectory"    mapstructure:"group_by_directory"`
	DependencyDetection bool    `json:"dependencyDetection" mapstructure:"dependency_detection"`
	MaxGroupSize        int     `json:"maxGroupSize"        mapstructure:"max_group_size"`
	MinConfidence       float64 `json:"minConfidence"       mapstructure:"min_confidence"`
}

// DefaultConfig returns the default analysis configuration: all strategies
// enabled, dependency detection on.
func DefaultConfig() Config {
	return Config{
		GroupBySemantics:    true,
		GroupByDependency:   true,
		GroupByFileType:     true,
		GroupByDirectory:    true,
		DependencyDetection: true,
		MaxGroupSize:        DefaultMaxGroupSize,
		MinConfidence:       DefaultMinConfidence,
	}
}
