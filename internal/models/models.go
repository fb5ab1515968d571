// Package models defines the data objects shared across lsvcs packages.
package models

import (
	"strings"
	"time"
)

// Entry is one item of a directory listing.
type Entry struct {
	Path      string // Absolute path of the entry
	Name      string // Display name
	IsDir     bool   // Directories and symlinks pointing to directories
	IsSymlink bool
	Size      int64
	ModTime   time.Time
	Extension string      // Text after the last dot, empty for none
	Status    *StatusPair // nil when status could not be resolved
}

// ExtensionOf returns the extension of a file name without the leading dot.
// Dotfiles such as ".bashrc" have no extension.
func ExtensionOf(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return ""
	}
	return name[idx+1:]
}
