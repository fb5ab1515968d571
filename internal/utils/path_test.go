package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("CUSTOM_VAR", "/custom")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"path without tilde", "/absolute/path", "/absolute/path"},
		{"tilde alone", "~", home},
		{"path with tilde", "~/test/path", filepath.Join(home, "test", "path")},
		{"other user untouched", "~bob/x", "~bob/x"},
		{"environment variable", "$CUSTOM_VAR/test", "/custom/test"},
		{"braced variable", "${CUSTOM_VAR}/logs/debug.log", "/custom/logs/debug.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
