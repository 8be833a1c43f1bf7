package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProjectsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("projects:\n  - giraph\n  - wss4j\n"), 0o644))

	projects, err := loadProjectsConfig(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"giraph", "wss4j"}, projects)
}

func TestLoadProjectsConfig_MissingFile(t *testing.T) {
	_, err := loadProjectsConfig(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadProjectsConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("projects: [unbalanced"), 0o644))

	_, err := loadProjectsConfig(path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestResolveProjects(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("projects:\n  - opennlp\n"), 0o644))

	testCases := []struct {
		name         string
		flagProjects []string
		configPath   string
		expected     []string
	}{
		{
			name:         "flag wins over config file",
			flagProjects: []string{"giraph"},
			configPath:   configPath,
			expected:     []string{"giraph"},
		},
		{
			name:       "config file wins over defaults",
			configPath: configPath,
			expected:   []string{"opennlp"},
		},
		{
			name:     "defaults when nothing is set",
			expected: []string{"ant-ivy", "archiva"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			projects, err := resolveProjects(tc.flagProjects, tc.configPath, []string{"ant-ivy", "archiva"})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, projects)
		})
	}
}
