package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Sentinel errors for manifest loading and lookup.
var (
	ErrUnknownRepository = errors.New("unknown repository")
	ErrDuplicateName     = errors.New("duplicate repository name")
	ErrEmptyName         = errors.New("repository name must not be empty")
	ErrUnsupportedFormat = errors.New("unsupported manifest format")
	ErrManifestInvalid   = errors.New("manifest failed schema validation")
	ErrNoRepositories    = errors.New("manifest declares no repositories")
	ErrUnknownDependency = errors.New("dependency references an undeclared repository")
)

// manifestSchema validates JSON manifests before decoding.
const manifestSchema = `{
  "type": "object",
  "required": ["repositories"],
  "properties": {
    "repositories": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "path"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "path": {"type": "string", "minLength": 1},
          "dependencies": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

// Manager holds the loaded repository declarations and answers lookups.
type Manager struct {
	byName map[string]Repository
	order  []string
}

// NewManager builds a Manager from explicit declarations, preserving their
// order. Names must be unique and non-empty.
func NewManager(repositories []Repository) (*Manager, error) {
	mgr := &Manager{
		byName: make(map[string]Repository, len(repositories)),
		order:  make([]string, 0, len(repositories)),
	}

	for _, repository := range repositories {
		if repository.Name == "" {
			return nil, ErrEmptyName
		}

		if _, dup := mgr.byName[repository.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, repository.Name)
		}

		mgr.byName[repository.Name] = repository
		mgr.order = append(mgr.order, repository.Name)
	}

	return mgr, nil
}

// LoadManifest reads a repository manifest from path. JSON manifests are
// validated against the embedded schema; YAML and TOML are decoded directly.
func LoadManifest(path string) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest Manifest

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = decodeJSONManifest(data, &manifest)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &manifest)
	case ".toml":
		err = decodeTOMLManifest(path, &manifest)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	if err != nil {
		return nil, err
	}

	if len(manifest.Repositories) == 0 {
		return nil, ErrNoRepositories
	}

	return NewManager(manifest.Repositories)
}

// decodeJSONManifest validates data against the manifest schema and decodes it.
func decodeJSONManifest(data []byte, manifest *Manifest) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(manifestSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validate manifest: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return fmt.Errorf("%w: %s", ErrManifestInvalid, strings.Join(details, "; "))
	}

	err = json.Unmarshal(data, manifest)
	if err != nil {
		return fmt.Errorf("decode manifest: %w", err)
	}

	return nil
}

// decodeTOMLManifest decodes a TOML manifest through viper.
func decodeTOMLManifest(path string, manifest *Manifest) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	err := v.ReadInConfig()
	if err != nil {
		return fmt.Errorf("read toml manifest: %w", err)
	}

	err = v.Unmarshal(manifest)
	if err != nil {
		return fmt.Errorf("decode toml manifest: %w", err)
	}

	return nil
}

// Get returns the repository declared under name.
func (m *Manager) Get(name string) (Repository, error) {
	repository, ok := m.byName[name]
	if !ok {
		return Repository{}, fmt.Errorf("%w: %s", ErrUnknownRepository, name)
	}

	return repository, nil
}

// List returns all repositories in declaration order.
func (m *Manager) List() []Repository {
	result := make([]Repository, 0, len(m.order))
	for _, name := range m.order {
		result = append(result, m.byName[name])
	}

	return result
}

// Names returns all repository names in declaration order.
func (m *Manager) Names() []string {
	names := make([]string, len(m.order))
	copy(names, m.order)

	return names
}

// Select resolves the given names to declarations, preserving request order.
// An empty request selects every declared repository.
func (m *Manager) Select(names []string) ([]Repository, error) {
	if len(names) == 0 {
		return m.List(), nil
	}

	result := make([]Repository, 0, len(names))

	for _, name := range names {
		repository, err := m.Get(name)
		if err != nil {
			return nil, err
		}

		result = append(result, repository)
	}

	return result, nil
}

// ValidateDependencies checks that every declared dependency names another
// declared repository.
func (m *Manager) ValidateDependencies() error {
	for _, name := range m.order {
		for _, dep := range m.byName[name].Dependencies {
			if _, ok := m.byName[dep]; !ok {
				return fmt.Errorf("%w: %s -> %s", ErrUnknownDependency, name, dep)
			}
		}
	}

	return nil
}
