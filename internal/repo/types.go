// Package repo manages the static repository declarations: which
// repositories participate in coordinated analysis, where they live on disk,
// and which other repositories they declare as dependencies.
package repo

// Repository is one static repository declaration. The engine treats it as
// read-only input.
type Repository struct {
	Name         string   `json:"name"         yaml:"name"         mapstructure:"name"`
	Path         string   `json:"path"         yaml:"path"         mapstructure:"path"`
	Dependencies []string `json:"dependencies" yaml:"dependencies" mapstructure:"dependencies"`
}

// Manifest is the on-disk shape of the repository configuration file.
type Manifest struct {
	Repositories []Repository `json:"repositories" yaml:"repositories" mapstructure:"repositories"`
}
