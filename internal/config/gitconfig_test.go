package config

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitConfigOutput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string][]string
	}{
		{
			name:     "empty output",
			input:    "",
			expected: map[string][]string{},
		},
		{
			name:  "single values",
			input: "lsvcs.sort_column size\nlsvcs.git_status true\n",
			expected: map[string][]string{
				"sort_column": {"size"},
				"git_status":  {"true"},
			},
		},
		{
			name:  "value with spaces",
			input: "lsvcs.date_format 2006-01-02 15:04\n",
			expected: map[string][]string{
				"date_format": {"2006-01-02 15:04"},
			},
		},
		{
			name:  "repeated key",
			input: "lsvcs.theme nord\nlsvcs.theme monokai\n",
			expected: map[string][]string{
				"theme": {"nord", "monokai"},
			},
		},
		{
			name:  "bare boolean key",
			input: "lsvcs.long\n",
			expected: map[string][]string{
				"long": {"true"},
			},
		},
		{
			name:     "foreign prefix is skipped",
			input:    "lw.theme nord\nlsvcs. nothing\n",
			expected: map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseGitConfigOutput(tt.input))
		})
	}
}

func TestConvertGitConfigToParseConfig(t *testing.T) {
	result := convertGitConfigToParseConfig(map[string][]string{
		"sort_column": {"size"},
		"theme":       {"nord", "monokai"},
		"empty":       {},
	})
	assert.Equal(t, map[string]any{
		"sort_column": "size",
		"theme":       []any{"nord", "monokai"},
	}, result)

	cfg := parseConfig(result)
	assert.Equal(t, "monokai", cfg.Theme)
}

func TestParseCLIConfigOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides []string
		expected  map[string]any
		errSubstr string
	}{
		{
			name:      "single override",
			overrides: []string{"lsvcs.sort_column=size"},
			expected:  map[string]any{"sort_column": "size"},
		},
		{
			name:      "value containing equals",
			overrides: []string{"lsvcs.date_format=a=b"},
			expected:  map[string]any{"date_format": "a=b"},
		},
		{
			name:      "repeated key",
			overrides: []string{"lsvcs.theme=nord", "lsvcs.theme=monokai"},
			expected:  map[string]any{"theme": []any{"nord", "monokai"}},
		},
		{
			name:      "missing equals",
			overrides: []string{"lsvcs.sort_column"},
			errSubstr: "expected format",
		},
		{
			name:      "wrong prefix",
			overrides: []string{"lw.sort_column=size"},
			errSubstr: "must start with",
		},
		{
			name:      "empty key",
			overrides: []string{"lsvcs.=size"},
			errSubstr: "empty config key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseCLIConfigOverrides(tt.overrides)
			if tt.errSubstr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestLoadGitConfigErrorHandling(t *testing.T) {
	defer func() { gitConfigMock = nil }()

	gitConfigMock = func(args []string, repoPath string) (string, error) {
		return "", fmt.Errorf("git command failed")
	}

	result, err := loadGitConfig(true, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git command failed")
	assert.Nil(t, result)
}

func TestLoadGitConfig(t *testing.T) {
	defer func() { gitConfigMock = nil }()

	tests := []struct {
		name       string
		globalOnly bool
		repoPath   string
		mockOutput string
		expected   map[string]any
	}{
		{
			name:       "global config with values",
			globalOnly: true,
			mockOutput: "lsvcs.sort_column size\nlsvcs.git_status true\n",
			expected: map[string]any{
				"sort_column": "size",
				"git_status":  "true",
			},
		},
		{
			name:       "local config with values",
			repoPath:   "/repo",
			mockOutput: "lsvcs.theme dracula\n",
			expected:   map[string]any{"theme": "dracula"},
		},
		{
			name:       "empty output",
			globalOnly: true,
			expected:   map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gitConfigMock = func(args []string, repoPath string) (string, error) {
				if tt.globalOnly {
					assert.Contains(t, args, "--global")
				} else {
					assert.Contains(t, args, "--local")
				}
				assert.Contains(t, args, `^lsvcs\.`)
				assert.Equal(t, tt.repoPath, repoPath)
				return tt.mockOutput, nil
			}

			result, err := loadGitConfig(tt.globalOnly, tt.repoPath)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestRunGitConfigUsesMock(t *testing.T) {
	defer func() { gitConfigMock = nil }()

	var gotArgs []string
	gitConfigMock = func(args []string, _ string) (string, error) {
		gotArgs = args
		return "lsvcs.long true\n", nil
	}

	out, err := runGitConfig([]string{"config", "--list"}, "")
	require.NoError(t, err)
	assert.Equal(t, "lsvcs.long true\n", out)
	assert.Equal(t, []string{"config", "--list"}, gotArgs)
}
