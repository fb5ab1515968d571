package listing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chmouel/lsvcs/internal/models"
	"github.com/chmouel/lsvcs/internal/sorting"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memTree(t *testing.T) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("/work/project/src", 0o755))
	require.NoError(t, fs.MkdirAll("/work/project/.cache", 0o755))
	require.NoError(t, util.WriteFile(fs, "/work/project/main.go", []byte("package main\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/work/project/README.md", []byte("# readme, longer\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/work/project/.env", []byte("A=1\n"), 0o644))
	require.NoError(t, fs.Symlink("/work/project/src", "/work/project/link"))
	return fs
}

func entryNames(entries []*models.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestDisplayModes(t *testing.T) {
	fs := memTree(t)

	tests := []struct {
		display Display
		want    []string
	}{
		{DisplayVisible, []string{"link", "main.go", "README.md", "src"}},
		{DisplayAlmostAll, []string{".cache", ".env", "link", "main.go", "README.md", "src"}},
		{DisplayAll, []string{".", "..", ".cache", ".env", "link", "main.go", "README.md", "src"}},
	}

	for _, tt := range tests {
		t.Run(tt.display.String(), func(t *testing.T) {
			l := New(Options{FS: fs, Display: tt.display, Comparator: sorting.Comparator{Key: sorting.KeyName}})
			got, err := l.List(context.Background(), "/work/project")
			require.NoError(t, err)
			assert.True(t, got.IsDir)
			assert.Equal(t, "/work/project", got.Root)
			assert.Equal(t, tt.want, entryNames(got.Entries))
		})
	}
}

func TestEntryKinds(t *testing.T) {
	l := New(Options{FS: memTree(t), Comparator: sorting.Comparator{Key: sorting.KeyName}})
	got, err := l.List(context.Background(), "/work/project")
	require.NoError(t, err)

	byName := map[string]*models.Entry{}
	for _, e := range got.Entries {
		byName[e.Name] = e
	}

	link := byName["link"]
	require.NotNil(t, link)
	assert.True(t, link.IsSymlink)
	assert.True(t, link.IsDir, "symlink to a directory lists as a directory")

	assert.True(t, byName["src"].IsDir)
	assert.Equal(t, "go", byName["main.go"].Extension)
	assert.Equal(t, int64(len("package main\n")), byName["main.go"].Size)
	assert.Equal(t, "/work/project/README.md", byName["README.md"].Path)
	assert.Nil(t, byName["main.go"].Status, "status is not resolved unless requested")
}

func TestGroupingAndReverse(t *testing.T) {
	l := New(Options{FS: memTree(t), Comparator: sorting.Comparator{
		Key:       sorting.KeyName,
		Direction: sorting.Descending,
		Grouping:  sorting.GroupFirst,
	}})
	got, err := l.List(context.Background(), "/work/project")
	require.NoError(t, err)
	assert.Equal(t, []string{"src", "link", "README.md", "main.go"}, entryNames(got.Entries))
}

func TestFileArguments(t *testing.T) {
	l := New(Options{FS: memTree(t), Comparator: sorting.Comparator{Key: sorting.KeyName}})

	got, err := l.List(context.Background(), "/work/project/main.go")
	require.NoError(t, err)
	assert.False(t, got.IsDir)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "/work/project/main.go", got.Entries[0].Name)

	got, err = l.Files(context.Background(), []string{"/work/project/README.md", "/work/project/.env"})
	require.NoError(t, err)
	assert.Equal(t, "/work/project", got.Root)
	assert.Equal(t, []string{"/work/project/.env", "/work/project/README.md"}, entryNames(got.Entries))
}

func TestMissingPath(t *testing.T) {
	l := New(Options{FS: memTree(t)})
	_, err := l.List(context.Background(), "/work/nowhere")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestListAll(t *testing.T) {
	fs := memTree(t)
	require.NoError(t, fs.Symlink("/work/nowhere", "/work/project/dangling"))
	l := New(Options{FS: fs, Comparator: sorting.Comparator{Key: sorting.KeyName}})

	got, errs := l.ListAll(context.Background(), []string{
		"/work/project/src",
		"/work/project/main.go",
		"/work/missing",
		"/work/project/dangling",
		"/work/project",
	})

	require.Len(t, errs, 1)
	var argErr *ArgError
	require.ErrorAs(t, errs[0], &argErr)
	assert.Equal(t, "/work/missing", argErr.Path)
	assert.ErrorIs(t, errs[0], os.ErrNotExist)

	require.Len(t, got, 3)
	assert.False(t, got[0].IsDir)
	assert.Equal(t, []string{"/work/project/dangling", "/work/project/main.go"}, entryNames(got[0].Entries))
	assert.Equal(t, "/work/project/src", got[1].Path)
	assert.Equal(t, "/work/project", got[2].Path)
}

func TestParseDisplay(t *testing.T) {
	for _, d := range []Display{DisplayVisible, DisplayAll, DisplayAlmostAll} {
		got, err := ParseDisplay(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
	_, err := ParseDisplay("hidden")
	assert.Error(t, err)
}

func TestStatusFromRepository(t *testing.T) {
	root := t.TempDir()
	repo, err := gogit.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	write := func(rel, content string) {
		t.Helper()
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	write("committed.txt", "one\n")
	write("pkg/lib.go", "package pkg\n")
	_, err = wt.Add("committed.txt")
	require.NoError(t, err)
	_, err = wt.Add("pkg/lib.go")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "lsvcs", Email: "lsvcs@example.com", When: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
	})
	require.NoError(t, err)

	write("committed.txt", "two\n")
	write("pkg/new.go", "package pkg\n")
	write("staged.txt", "staged\n")
	_, err = wt.Add("staged.txt")
	require.NoError(t, err)

	var warnings []string
	l := New(Options{
		GitStatus:  true,
		Comparator: sorting.Comparator{Key: sorting.KeyStatus},
		Notify:     func(msg, _ string) { warnings = append(warnings, msg) },
	})
	got, err := l.List(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	canonRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, []string{canonRoot}, got.Workdirs)

	statuses := map[string]models.StatusPair{}
	for _, e := range got.Entries {
		require.NotNil(t, e.Status, e.Name)
		statuses[e.Name] = *e.Status
	}

	assert.Equal(t, models.StatusPair{Index: models.StatusUnmodified, Workdir: models.StatusModified}, statuses["committed.txt"])
	assert.Equal(t, models.StatusPair{Index: models.StatusNewInIndex, Workdir: models.StatusUnmodified}, statuses["staged.txt"])
	assert.Equal(t, models.StatusPair{Index: models.StatusUnmodified, Workdir: models.StatusNewInWorkdir}, statuses["pkg"])
	assert.Equal(t, []string{"pkg", "committed.txt", "staged.txt"}, entryNames(got.Entries))

	file, err := l.List(context.Background(), filepath.Join(root, "pkg", "lib.go"))
	require.NoError(t, err)
	require.Len(t, file.Entries, 1)
	assert.Equal(t, models.StatusPair{}, *file.Entries[0].Status)
}

func TestStatusOutsideRepository(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "plain.txt"), []byte("x"), 0o644))

	var warnings []string
	l := New(Options{GitStatus: true, Notify: func(msg, _ string) { warnings = append(warnings, msg) }})
	got, err := l.List(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, got.Workdirs)
	require.Len(t, got.Entries, 1)
	require.NotNil(t, got.Entries[0].Status)
	assert.True(t, got.Entries[0].Status.IsDefault())
}
