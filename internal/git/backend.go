// Package git reads version-control status for directory listings.
package git

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrRepositoryAbsent is returned by Backend.Discover when no repository
// encloses the starting path.
var ErrRepositoryAbsent = errors.New("no enclosing repository")

// NotifyFn receives user facing notifications.
type NotifyFn func(message string, severity string)

// Severity values passed to NotifyFn.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// PathStatus is one record of a status scan.
type PathStatus struct {
	Path  string // Slash separated, relative to the working directory
	Flags RawStatus
}

// Repository is a discovered repository.
type Repository interface {
	// Workdir returns the working directory, false for bare repositories.
	Workdir() (string, bool)
	// Statuses scans the working tree once. On failure the returned slice
	// holds the records collected before the error.
	Statuses(ctx context.Context) ([]PathStatus, error)
}

// Backend locates repositories.
type Backend interface {
	Discover(ctx context.Context, path string) (Repository, error)
}

// Backend names accepted by NewBackend.
const (
	BackendGoGit = "go-git"
	BackendCLI   = "cli"
)

// BackendNames lists the supported backend names.
func BackendNames() []string {
	return []string{BackendGoGit, BackendCLI}
}

// NewBackend returns the backend registered under name.
func NewBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendGoGit, "gogit":
		return GoGitBackend{}, nil
	case BackendCLI, "git":
		return CLIBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown git backend %q", name)
	}
}
