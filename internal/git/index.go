package git

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/chmouel/lsvcs/internal/log"
	"github.com/chmouel/lsvcs/internal/models"
)

// Index is a point-in-time snapshot of the status of a working tree.
// Build one per listing root and drop it once the listing is done.
type Index struct {
	workdir string
	paths   []string // canonical absolute paths, sorted
	flags   []RawStatus
	notify  NotifyFn
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	backend Backend
	notify  NotifyFn
}

// WithBackend selects the backend used for discovery and scanning.
func WithBackend(b Backend) Option {
	return func(o *buildOptions) {
		if b != nil {
			o.backend = b
		}
	}
}

// WithNotify sets the callback receiving non-fatal warnings.
func WithNotify(fn NotifyFn) Option {
	return func(o *buildOptions) {
		if fn != nil {
			o.notify = fn
		}
	}
}

// Build discovers the repository enclosing root and scans it once.
// The absence of a repository is not an error and yields an empty index.
func Build(ctx context.Context, root string, opts ...Option) *Index {
	o := buildOptions{
		backend: GoGitBackend{},
		notify:  func(string, string) {},
	}
	for _, opt := range opts {
		opt(&o)
	}

	idx := &Index{notify: o.notify}

	repo, err := o.backend.Discover(ctx, root)
	if err != nil {
		if errors.Is(err, ErrRepositoryAbsent) {
			log.Printf("git: no repository above %s", root)
		} else {
			idx.warnf("unable to open repository for %s: %v", root, err)
		}
		return idx
	}

	workdir, ok := repo.Workdir()
	if !ok {
		log.Printf("git: repository above %s has no working directory", root)
		return idx
	}
	canonWorkdir, err := canonicalize(workdir)
	if err != nil {
		idx.warnf("unable to resolve working directory %s: %v", workdir, err)
		return idx
	}
	idx.workdir = canonWorkdir

	records, err := repo.Statuses(ctx)
	if err != nil {
		idx.warnf("git status scan of %s failed: %v", canonWorkdir, err)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	idx.paths = make([]string, 0, len(records))
	idx.flags = make([]RawStatus, 0, len(records))
	for _, rec := range records {
		if rec.Flags == 0 || rec.Path == "" {
			continue
		}
		idx.paths = append(idx.paths, filepath.Join(canonWorkdir, filepath.FromSlash(rec.Path)))
		idx.flags = append(idx.flags, rec.Flags)
	}
	// Joining cleans trailing slashes which can reorder neighbours.
	if !sort.StringsAreSorted(idx.paths) {
		sort.Sort(byPath{idx})
	}

	log.Printf("git: indexed %d paths under %s", len(idx.paths), canonWorkdir)
	return idx
}

type byPath struct{ idx *Index }

func (b byPath) Len() int           { return len(b.idx.paths) }
func (b byPath) Less(i, j int) bool { return b.idx.paths[i] < b.idx.paths[j] }
func (b byPath) Swap(i, j int) {
	b.idx.paths[i], b.idx.paths[j] = b.idx.paths[j], b.idx.paths[i]
	b.idx.flags[i], b.idx.flags[j] = b.idx.flags[j], b.idx.flags[i]
}

// Workdir returns the canonical working directory, empty outside a repository.
func (idx *Index) Workdir() string {
	return idx.workdir
}

// InRepository reports whether a working tree was found.
func (idx *Index) InRepository() bool {
	return idx.workdir != ""
}

// Len returns the number of indexed paths.
func (idx *Index) Len() int {
	return len(idx.paths)
}

// Lookup returns the status of path. For directories the statuses of every
// indexed path at or below it are combined with StatusPair.Max. The boolean
// is false when the path could not be resolved.
func (idx *Index) Lookup(path string, isDir bool) (models.StatusPair, bool) {
	canon, err := canonicalize(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			idx.warnf("unable to resolve %s: %v", path, err)
		}
		return models.StatusPair{}, false
	}

	if isDir {
		return idx.rollUp(canon), true
	}

	if i, found := idx.find(canon); found {
		return idx.flags[i].Pair(), true
	}
	return models.StatusPair{}, true
}

// Resolve attaches the status of entry to it.
func (idx *Index) Resolve(entry *models.Entry) {
	if entry == nil {
		return
	}
	pair, ok := idx.Lookup(entry.Path, entry.IsDir)
	if !ok {
		entry.Status = nil
		return
	}
	entry.Status = &pair
}

func (idx *Index) find(path string) (int, bool) {
	i := sort.SearchStrings(idx.paths, path)
	if i < len(idx.paths) && idx.paths[i] == path {
		return i, true
	}
	return i, false
}

// rollUp folds every path equal to dir or nested below it. Paths sharing
// the "dir" + separator prefix form one contiguous run of the sorted slice.
func (idx *Index) rollUp(dir string) models.StatusPair {
	result := models.StatusPair{}

	if i, found := idx.find(dir); found {
		result = result.Max(idx.flags[i].Pair())
	}

	prefix := dir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	start := sort.SearchStrings(idx.paths, prefix)
	for i := start; i < len(idx.paths) && isUnder(prefix, idx.paths[i]); i++ {
		result = result.Max(idx.flags[i].Pair())
	}
	return result
}

// isUnder reports whether path lies below the directory prefix, which ends
// with a separator so that /a/bb never matches /a/b.
func isUnder(prefix, path string) bool {
	return strings.HasPrefix(path, prefix)
}

func (idx *Index) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("git: %s", msg)
	if idx.notify != nil {
		idx.notify(msg, SeverityWarning)
	}
}

// canonicalize returns an absolute path with symlinks resolved.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
