package config

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// gitConfigPrefix namespaces lsvcs keys in git config and -C overrides.
const gitConfigPrefix = "lsvcs."

// gitConfigMock allows tests to mock git config output.
var gitConfigMock func(args []string, repoPath string) (string, error)

// runGitConfig executes git config command and returns raw output.
func runGitConfig(args []string, repoPath string) (string, error) {
	if gitConfigMock != nil {
		return gitConfigMock(args, repoPath)
	}

	cmd := exec.Command("git", args...)
	if repoPath != "" {
		cmd.Dir = repoPath
	}

	output, err := cmd.Output()
	if err != nil {
		// git config exits 1 when no key matches
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return string(output), nil
}

// parseGitConfigOutput parses git config output into multi-value map.
// Input format: "lsvcs.sort_column size\nlsvcs.git_status true\n"
func parseGitConfigOutput(output string) map[string][]string {
	configMap := make(map[string][]string)
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}

		// values may contain spaces
		parts := strings.SplitN(line, " ", 2)
		key := strings.TrimPrefix(parts[0], gitConfigPrefix)
		if key == "" || key == parts[0] {
			continue
		}
		value := "true" // a bare key is a boolean set to true
		if len(parts) == 2 {
			value = parts[1]
		}
		configMap[key] = append(configMap[key], value)
	}
	return configMap
}

// convertGitConfigToParseConfig converts to the map form apply expects.
func convertGitConfigToParseConfig(gitCfg map[string][]string) map[string]any {
	result := make(map[string]any)

	for key, values := range gitCfg {
		switch len(values) {
		case 0:
			continue
		case 1:
			result[key] = values[0]
		default:
			anySlice := make([]any, len(values))
			for i, v := range values {
				anySlice[i] = v
			}
			result[key] = anySlice
		}
	}

	return result
}

// loadGitConfig reads lsvcs.* values from git config.
func loadGitConfig(globalOnly bool, repoPath string) (map[string]any, error) {
	args := []string{"config", "--get-regexp", `^lsvcs\.`}

	if globalOnly {
		args = append(args, "--global")
	} else {
		args = append(args, "--local")
	}

	output, err := runGitConfig(args, repoPath)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return make(map[string]any), nil
	}
	return convertGitConfigToParseConfig(parseGitConfigOutput(output)), nil
}

// parseCLIConfigOverrides parses --config=lsvcs.key=value format.
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	gitCfg := make(map[string][]string)

	for _, override := range overrides {
		fullKey, value, ok := strings.Cut(override, "=")
		if !ok {
			return nil, fmt.Errorf("invalid config override: %q, expected format: lsvcs.key=value (note: use = not space)", override)
		}
		if !strings.HasPrefix(fullKey, gitConfigPrefix) {
			return nil, fmt.Errorf("config override key must start with %q: %q", gitConfigPrefix, fullKey)
		}

		key := strings.TrimPrefix(fullKey, gitConfigPrefix)
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}
		gitCfg[key] = append(gitCfg[key], value)
	}

	return convertGitConfigToParseConfig(gitCfg), nil
}
