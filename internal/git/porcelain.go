package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/chmouel/lsvcs/internal/log"
)

// runGitCommand executes git inside dir. It's a package variable so tests can
// replace it and avoid depending on a git binary being installed.
var runGitCommand = func(ctx context.Context, dir string, args ...string) ([]byte, error) {
	// #nosec G204 -- arguments are fixed by this package
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	return cmd.Output()
}

// statusArgs scans without the index lock: --no-optional-locks stops git
// from refreshing .git/index, so a listing never writes to the repository.
var statusArgs = []string{
	"--no-optional-locks", "status",
	"--porcelain=v1", "-z", "--untracked-files=all", "--ignored",
}

// CLIBackend reads status by running `git status --porcelain`.
type CLIBackend struct{}

var _ Backend = CLIBackend{}

// Discover asks git for the repository enclosing path.
func (CLIBackend) Discover(ctx context.Context, path string) (Repository, error) {
	out, err := runGitCommand(ctx, path, "rev-parse", "--is-bare-repository")
	if err != nil {
		if isNotARepository(err) {
			return nil, ErrRepositoryAbsent
		}
		return nil, fmt.Errorf("git rev-parse in %s: %w", path, commandError(err))
	}
	if strings.TrimSpace(string(out)) == "true" {
		return &cliRepository{}, nil
	}

	out, err = runGitCommand(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("git rev-parse --show-toplevel in %s: %w", path, commandError(err))
	}
	top := strings.TrimSpace(string(out))
	if top == "" {
		return &cliRepository{}, nil
	}
	return &cliRepository{workdir: filepath.FromSlash(top)}, nil
}

type cliRepository struct {
	workdir string
}

func (r *cliRepository) Workdir() (string, bool) {
	return r.workdir, r.workdir != ""
}

func (r *cliRepository) Statuses(ctx context.Context) ([]PathStatus, error) {
	if r.workdir == "" {
		return nil, fmt.Errorf("repository has no working directory")
	}
	out, err := runGitCommand(ctx, r.workdir, statusArgs...)
	records := parsePorcelain(out)
	if err != nil {
		log.Printf("git status in %s failed after %d records: %v", r.workdir, len(records), err)
		return records, fmt.Errorf("git status: %w", commandError(err))
	}
	return records, nil
}

// parsePorcelain parses `git status --porcelain=v1 -z` output. A truncated
// trailing record is ignored.
func parsePorcelain(out []byte) []PathStatus {
	fields := bytes.Split(out, []byte{0})
	records := make([]PathStatus, 0, len(fields))

	for i := 0; i < len(fields); i++ {
		field := fields[i]
		if len(field) < 4 || field[2] != ' ' {
			continue
		}
		x, y := field[0], field[1]
		path := string(field[3:])

		// Renames and copies carry the source path in the next field.
		if x == 'R' || x == 'C' || y == 'R' || y == 'C' {
			i++
		}

		flags := porcelainFlags(x, y)
		if flags == 0 {
			continue
		}
		records = append(records, PathStatus{Path: path, Flags: flags})
	}
	return records
}

func porcelainFlags(x, y byte) RawStatus {
	switch string([]byte{x, y}) {
	case "??":
		return WtNew
	case "!!":
		return Ignored
	case "DD", "AU", "UD", "UA", "DU", "AA", "UU":
		return Conflicted
	}

	var flags RawStatus
	switch x {
	case 'A', 'C':
		flags |= IndexNew
	case 'M':
		flags |= IndexModified
	case 'D':
		flags |= IndexDeleted
	case 'R':
		flags |= IndexRenamed
	case 'T':
		flags |= IndexTypechange
	}
	switch y {
	case 'A':
		flags |= WtNew
	case 'M':
		flags |= WtModified
	case 'D':
		flags |= WtDeleted
	case 'R':
		flags |= WtRenamed
	case 'T':
		flags |= WtTypechange
	}
	return flags
}

func isNotARepository(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	return strings.Contains(string(exitErr.Stderr), "not a git repository")
}

// commandError folds git's stderr into the error message when available.
func commandError(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if stderr := strings.TrimSpace(string(exitErr.Stderr)); stderr != "" {
			return fmt.Errorf("%s: %w", stderr, err)
		}
	}
	return err
}
