// Package listing reads directories into entries, attaches their
// version-control status and orders them.
package listing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chmouel/lsvcs/internal/git"
	log "github.com/chmouel/lsvcs/internal/log"
	"github.com/chmouel/lsvcs/internal/models"
	"github.com/chmouel/lsvcs/internal/sorting"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Display selects which directory members are listed.
type Display int

// Display modes.
const (
	DisplayVisible   Display = iota // hide dotfiles
	DisplayAlmostAll                // dotfiles, without . and ..
	DisplayAll                      // dotfiles, . and ..
)

func (d Display) String() string {
	switch d {
	case DisplayAll:
		return "all"
	case DisplayAlmostAll:
		return "almost-all"
	default:
		return "visible"
	}
}

// ParseDisplay converts "visible", "all" or "almost-all".
func ParseDisplay(s string) (Display, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "visible", "":
		return DisplayVisible, nil
	case "all":
		return DisplayAll, nil
	case "almost-all", "almost_all":
		return DisplayAlmostAll, nil
	default:
		return DisplayVisible, fmt.Errorf("invalid display mode %q (valid: visible, all, almost-all)", s)
	}
}

// Options configures a Lister.
type Options struct {
	Display    Display
	GitStatus  bool
	Comparator sorting.Comparator
	Backend    git.Backend
	Notify     git.NotifyFn
	// FS is addressed with absolute paths. Defaults to the host filesystem.
	FS billy.Filesystem
}

// Listing is the ordered content of one path argument.
type Listing struct {
	Path    string // argument as given
	Root    string // absolute directory the entries live in
	IsDir   bool
	Entries []*models.Entry
	// Workdirs lists the working trees the statuses were read from.
	Workdirs []string
}

// Lister produces listings.
type Lister struct {
	opts Options
	fs   billy.Filesystem
}

// New returns a Lister for opts.
func New(opts Options) *Lister {
	fs := opts.FS
	if fs == nil {
		fs = osfs.New("/")
	}
	return &Lister{opts: opts, fs: fs}
}

// List reads path. A directory yields its members, anything else yields a
// single entry named as given.
func (l *Lister) List(ctx context.Context, path string) (*Listing, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := l.fs.Stat(abs)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return l.Files(ctx, []string{path})
	}

	entries, err := l.readDir(abs)
	if err != nil {
		return nil, err
	}

	out := &Listing{Path: path, Root: abs, IsDir: true, Entries: entries}
	out.addWorkdir(l.attachStatus(ctx, abs, entries))
	l.opts.Comparator.Sort(entries)
	log.Printf("listing: %s: %d entries", abs, len(entries))
	return out, nil
}

// ArgError reports a path argument that could not be listed.
type ArgError struct {
	Path string
	Err  error
}

func (e *ArgError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *ArgError) Unwrap() error { return e.Err }

// ListAll lists every argument. Non-directories are gathered in a single
// listing placed first and directories follow in argument order. Arguments
// that cannot be read are skipped and returned as ArgErrors.
func (l *Lister) ListAll(ctx context.Context, paths []string) ([]*Listing, []error) {
	var files, dirs []string
	var errs []error
	for _, p := range paths {
		isDir, err := l.isDir(p)
		switch {
		case err != nil:
			errs = append(errs, &ArgError{Path: p, Err: err})
		case isDir:
			dirs = append(dirs, p)
		default:
			files = append(files, p)
		}
	}

	var out []*Listing
	if len(files) > 0 {
		ls, err := l.Files(ctx, files)
		if err != nil {
			errs = append(errs, err)
		} else {
			out = append(out, ls)
		}
	}
	for _, d := range dirs {
		ls, err := l.List(ctx, d)
		if err != nil {
			errs = append(errs, &ArgError{Path: d, Err: err})
			continue
		}
		out = append(out, ls)
	}
	return out, errs
}

// isDir follows symlinks. A dangling symlink is listed as a file.
func (l *Lister) isDir(path string) (bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	info, err := l.fs.Stat(abs)
	if err == nil {
		return info.IsDir(), nil
	}
	if _, lerr := l.fs.Lstat(abs); lerr == nil {
		return false, nil
	}
	return false, err
}

// Files lists non-directory arguments together, as ls does. One status
// index is built per parent directory.
func (l *Lister) Files(ctx context.Context, paths []string) (*Listing, error) {
	out := &Listing{}
	byParent := map[string][]*models.Entry{}
	var parents []string

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		info, err := l.fs.Lstat(abs)
		if err != nil {
			return nil, err
		}
		e := l.entry(abs, p, info)
		out.Entries = append(out.Entries, e)

		parent := filepath.Dir(abs)
		if _, ok := byParent[parent]; !ok {
			parents = append(parents, parent)
		}
		byParent[parent] = append(byParent[parent], e)
	}

	for _, parent := range parents {
		out.addWorkdir(l.attachStatus(ctx, parent, byParent[parent]))
	}
	if len(parents) == 1 {
		out.Root = parents[0]
	}
	l.opts.Comparator.Sort(out.Entries)
	return out, nil
}

func (l *Lister) readDir(dir string) ([]*models.Entry, error) {
	infos, err := l.fs.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var entries []*models.Entry
	if l.opts.Display == DisplayAll {
		for _, name := range []string{".", ".."} {
			p := filepath.Clean(filepath.Join(dir, name))
			if info, err := l.fs.Stat(p); err == nil {
				e := l.entry(p, name, info)
				entries = append(entries, e)
			}
		}
	}

	for _, info := range infos {
		name := info.Name()
		if strings.HasPrefix(name, ".") && l.opts.Display == DisplayVisible {
			continue
		}
		entries = append(entries, l.entry(filepath.Join(dir, name), name, info))
	}
	return entries, nil
}

// entry converts file info into an Entry. Symlinks to directories count as
// directories.
func (l *Lister) entry(path, name string, info os.FileInfo) *models.Entry {
	e := &models.Entry{
		Path:      path,
		Name:      name,
		IsDir:     info.IsDir(),
		IsSymlink: info.Mode()&os.ModeSymlink != 0,
		Size:      info.Size(),
		ModTime:   info.ModTime(),
	}
	if e.IsSymlink {
		if target, err := l.fs.Stat(path); err == nil {
			e.IsDir = target.IsDir()
		}
	}
	if !e.IsDir {
		e.Extension = models.ExtensionOf(filepath.Base(name))
	}
	return e
}

// attachStatus resolves the status of entries from one index built for
// root. It returns the working tree found, if any.
func (l *Lister) attachStatus(ctx context.Context, root string, entries []*models.Entry) string {
	if !l.opts.GitStatus {
		return ""
	}
	idx := git.Build(ctx, root, git.WithBackend(l.opts.Backend), git.WithNotify(l.opts.Notify))
	for _, e := range entries {
		idx.Resolve(e)
	}
	return idx.Workdir()
}

func (out *Listing) addWorkdir(dir string) {
	if dir == "" || slices.Contains(out.Workdirs, dir) {
		return
	}
	out.Workdirs = append(out.Workdirs, dir)
}
