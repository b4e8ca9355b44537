package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mcp-jujutsu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "repos.json", cfg.Repositories.Manifest)
	assert.True(t, cfg.Analysis.GroupBySemantics)
	assert.True(t, cfg.Analysis.GroupByDependency)
	assert.True(t, cfg.Analysis.GroupByFileType)
	assert.True(t, cfg.Analysis.GroupByDirectory)
	assert.True(t, cfg.Analysis.DependencyDetection)
	assert.Equal(t, 20, cfg.Analysis.MaxGroupSize)
	assert.InDelta(t, 0.7, cfg.Analysis.MinConfidence, 1e-9)
	assert.Equal(t, 2*time.Minute, cfg.Analysis.FetchTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Diagnostics.Enabled)
}

func TestLoad_FileOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `
repositories:
  manifest: /etc/workspaces/repos.yaml
analysis:
  group_by_directory: false
  max_group_size: 5
  min_confidence: 0.9
  fetch_timeout: 30s
logging:
  level: debug
  format: json
diagnostics:
  enabled: true
  addr: 127.0.0.1:9999
`))
	require.NoError(t, err)

	assert.Equal(t, "/etc/workspaces/repos.yaml", cfg.Repositories.Manifest)
	assert.False(t, cfg.Analysis.GroupByDirectory)
	assert.True(t, cfg.Analysis.GroupBySemantics)
	assert.Equal(t, 5, cfg.Analysis.MaxGroupSize)
	assert.InDelta(t, 0.9, cfg.Analysis.MinConfidence, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.Analysis.FetchTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Diagnostics.Enabled)
	assert.Equal(t, "127.0.0.1:9999", cfg.Diagnostics.Addr)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "zero max group size",
			content: "analysis:\n  max_group_size: 0\n",
			wantErr: ErrInvalidMaxGroupSize,
		},
		{
			name:    "negative min confidence",
			content: "analysis:\n  min_confidence: -0.1\n",
			wantErr: ErrInvalidMinConfidence,
		},
		{
			name:    "min confidence above one",
			content: "analysis:\n  min_confidence: 1.5\n",
			wantErr: ErrInvalidMinConfidence,
		},
		{
			name:    "bad log level",
			content: "logging:\n  level: loud\n",
			wantErr: ErrInvalidLogLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeConfig(t, tc.content))
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidate_FetchTimeout(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	cfg.Analysis.FetchTimeout = 0
	require.ErrorIs(t, Validate(cfg), ErrInvalidTimeout)
}
