// Package watch re-runs a listing when the listed directories or their
// repository change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/chmouel/lsvcs/internal/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period required before a refresh.
const DefaultDebounce = 300 * time.Millisecond

// Watcher coalesces filesystem events into refresh calls.
type Watcher struct {
	debounce time.Duration
	watcher  *fsnotify.Watcher
	events   chan struct{}

	mu    sync.Mutex
	paths map[string]struct{}
}

// New creates a Watcher. A non-positive debounce selects DefaultDebounce.
func New(debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		debounce: debounce,
		watcher:  fw,
		events:   make(chan struct{}, 1),
		paths:    make(map[string]struct{}),
	}, nil
}

// Add watches dir. Paths that are not directories are ignored.
func (w *Watcher) Add(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.paths[dir]; ok {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.paths[dir] = struct{}{}
	log.Printf("watch: watching %s", dir)
	return nil
}

// AddRepository watches the git directory of workdir so staging and commits
// trigger a refresh. A linked worktree's .git file is followed to its git
// directory, and the shared common directory is watched too.
func (w *Watcher) AddRepository(workdir string) {
	if workdir == "" {
		return
	}
	gitDir, err := resolveGitDir(workdir)
	if err != nil {
		log.Printf("watch: no git directory for %s: %v", workdir, err)
		return
	}

	dirs := []string{gitDir}
	if common := commonDir(gitDir); common != "" && common != gitDir {
		dirs = append(dirs, common)
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			log.Printf("watch: %s: %v", dir, err)
		}
	}
}

// resolveGitDir returns the git directory of workdir, reading the
// "gitdir:" line when .git is a file.
func resolveGitDir(workdir string) (string, error) {
	dotGit := filepath.Join(workdir, ".git")
	info, err := os.Stat(dotGit)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return dotGit, nil
	}

	data, err := os.ReadFile(dotGit) //nolint:gosec
	if err != nil {
		return "", err
	}
	gitDir, ok := strings.CutPrefix(strings.TrimSpace(string(data)), "gitdir:")
	if !ok {
		return "", fmt.Errorf("%s has no gitdir line", dotGit)
	}
	gitDir = strings.TrimSpace(gitDir)
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(workdir, gitDir)
	}
	return filepath.Clean(gitDir), nil
}

// commonDir returns the directory named by gitDir/commondir, empty when
// there is none.
func commonDir(gitDir string) string {
	data, err := os.ReadFile(filepath.Join(gitDir, "commondir")) //nolint:gosec
	if err != nil {
		return ""
	}
	dir := strings.TrimSpace(string(data))
	if dir == "" {
		return ""
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(gitDir, dir)
	}
	return filepath.Clean(dir)
}

// Watched returns the number of watched directories.
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.paths)
}

// Close releases the watcher without running it.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run calls refresh after every burst of changes, once the debounce window
// has passed without further events. It returns nil once ctx is done.
// Watcher and refresh errors are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, refresh func(context.Context) error) error {
	defer func() { _ = w.watcher.Close() }()

	go w.forward(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case <-w.events:
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := refresh(ctx); err != nil {
				log.Printf("watch: refresh failed: %v", err)
			}
		}
	}
}

func (w *Watcher) forward(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if isLockFile(event.Name) {
				continue
			}
			w.signal()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch: watcher error: %v", err)
		}
	}
}

// isLockFile matches git's transient lock files such as index.lock. Git
// renames them into place, so the final write still produces an event.
func isLockFile(name string) bool {
	return strings.HasSuffix(name, ".lock")
}

func (w *Watcher) signal() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}
