// Package utils holds small helpers shared by the command and config layers.
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading "~" or "~/" to the home directory and then
// environment variables. "~user" forms are left alone.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}
