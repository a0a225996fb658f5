package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
	"github.com/wiarlawd/fs-crawler/internal/core/ports/driven"
)

// fakeFile is an in-memory driven.ReadonlyFile used to drive FileIterator
// without touching a real filesystem.
type fakeFile struct {
	path         string
	name         string
	parent       string
	isDir        bool
	isRegular    bool
	canRead      bool
	hidden       bool
	lastModified time.Time
	length       int64
	children     []driven.ReadonlyFile
	listErr      error

	// transientFailures, while positive, makes Length return a
	// *domain.RepositoryError and decrements by one on each call, then
	// reports length normally once exhausted. Used to drive retry paths.
	transientFailures int
}

func (f *fakeFile) FileSystemType() driven.FileSystemType             { return fakeFSType{} }
func (f *fakeFile) Path() string                                      { return f.path }
func (f *fakeFile) Name() string                                      { return f.name }
func (f *fakeFile) Parent() string                                    { return f.parent }
func (f *fakeFile) IsDirectory(context.Context) (bool, error)         { return f.isDir, nil }
func (f *fakeFile) IsRegularFile(context.Context) (bool, error)       { return f.isRegular, nil }
func (f *fakeFile) CanRead(context.Context) (bool, error)             { return f.canRead, nil }
func (f *fakeFile) Exists(context.Context) (bool, error)              { return true, nil }
func (f *fakeFile) IsHidden(context.Context) (bool, error)            { return f.hidden, nil }
func (f *fakeFile) LastModified(context.Context) (time.Time, error)   { return f.lastModified, nil }
func (f *fakeFile) IsModifiedSince(_ context.Context, since time.Time) (bool, error) {
	if since.IsZero() {
		return true, nil
	}
	return f.lastModified.After(since), nil
}
func (f *fakeFile) Length(context.Context) (int64, error) {
	if f.transientFailures > 0 {
		f.transientFailures--
		return 0, &domain.RepositoryError{Path: f.path, Err: assertErr("transient read failure")}
	}
	return f.length, nil
}
func (f *fakeFile) Acl(context.Context) (*domain.Acl, error)                 { return domain.PublicAcl(), nil }
func (f *fakeFile) HasInheritedAcls(context.Context) (bool, error)           { return false, nil }
func (f *fakeFile) InheritedAcl(context.Context) (*domain.Acl, error)        { return nil, nil }
func (f *fakeFile) ContainerInheritAcl(context.Context) (*domain.Acl, error) { return domain.PublicAcl(), nil }
func (f *fakeFile) FileInheritAcl(context.Context) (*domain.Acl, error)      { return domain.PublicAcl(), nil }
func (f *fakeFile) ShareAcl(context.Context) (*domain.Acl, error)            { return nil, nil }
func (f *fakeFile) ListFiles(context.Context) ([]driven.ReadonlyFile, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.children, nil
}
func (f *fakeFile) DisplayURL() string                        { return "file://" + f.path }
func (f *fakeFile) Open(context.Context) (io.ReadCloser, error) { return nil, nil }

// fakeFSType is a no-ACL driven.FileSystemType stand-in for fakeFile.
type fakeFSType struct{}

func (fakeFSType) Name() string                { return "fake" }
func (fakeFSType) IsPath(string) bool          { return true }
func (fakeFSType) SupportsACL() bool           { return false }
func (fakeFSType) RequiresCredentials() bool   { return false }
func (fakeFSType) GetFile(context.Context, string, domain.Credentials) (driven.ReadonlyFile, error) {
	return nil, nil
}

func file(path string, isDir bool) *fakeFile {
	return &fakeFile{path: path, name: path, isDir: isDir, isRegular: !isDir, canRead: true}
}

func dirWithChildren(path string, children ...driven.ReadonlyFile) *fakeFile {
	f := file(path, true)
	f.children = children
	return f
}

func TestFileIterator_DepthFirstOrder(t *testing.T) {
	leafA := file("/root/a.txt", false)
	leafB := file("/root/sub/b.txt", false)
	sub := dirWithChildren("/root/sub", leafB)
	root := dirWithChildren("/root", leafA, sub)

	it, err := NewFileIterator(context.Background(), root, nil, time.Time{}, false)
	require.NoError(t, err)

	var got []string
	for {
		f, err := it.Next(context.Background())
		if err == domain.ErrIteratorDone {
			break
		}
		require.NoError(t, err)
		got = append(got, f.Path())
	}
	assert.Equal(t, []string{"/root/a.txt", "/root/sub/b.txt"}, got)
}

func TestFileIterator_SkipsHidden(t *testing.T) {
	hidden := file("/root/.secret", false)
	hidden.hidden = true
	visible := file("/root/visible.txt", false)
	root := dirWithChildren("/root", hidden, visible)

	it, err := NewFileIterator(context.Background(), root, nil, time.Time{}, false)
	require.NoError(t, err)

	f, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/root/visible.txt", f.Path())

	_, err = it.Next(context.Background())
	assert.ErrorIs(t, err, domain.ErrIteratorDone)
}

func TestFileIterator_SkipsUnreadable(t *testing.T) {
	unreadable := file("/root/locked.txt", false)
	unreadable.canRead = false
	root := dirWithChildren("/root", unreadable)

	it, err := NewFileIterator(context.Background(), root, nil, time.Time{}, false)
	require.NoError(t, err)

	_, err = it.Next(context.Background())
	assert.ErrorIs(t, err, domain.ErrIteratorDone)
}

func TestFileIterator_IfModifiedSinceCutoff(t *testing.T) {
	old := file("/root/old.txt", false)
	old.lastModified = time.Now().Add(-48 * time.Hour)
	fresh := file("/root/fresh.txt", false)
	fresh.lastModified = time.Now()
	root := dirWithChildren("/root", old, fresh)

	it, err := NewFileIterator(context.Background(), root, nil, time.Now().Add(-time.Hour), false)
	require.NoError(t, err)

	f, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/root/fresh.txt", f.Path())

	_, err = it.Next(context.Background())
	assert.ErrorIs(t, err, domain.ErrIteratorDone)
}

func TestFileIterator_MatcherFiltersPaths(t *testing.T) {
	included := file("/root/keep/a.txt", false)
	excluded := file("/root/skip/b.txt", false)
	root := dirWithChildren("/root", dirWithChildren("/root/keep", included), dirWithChildren("/root/skip", excluded))

	matcher, err := NewFilePatternMatcher([]string{"/root/keep"}, nil)
	require.NoError(t, err)

	it, err := NewFileIterator(context.Background(), root, matcher, time.Time{}, false)
	require.NoError(t, err)

	f, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/root/keep/a.txt", f.Path())

	_, err = it.Next(context.Background())
	assert.ErrorIs(t, err, domain.ErrIteratorDone)
}

func TestFileIterator_DirectoryListingErrorSkipsSubtreeSilently(t *testing.T) {
	broken := dirWithChildren("/root/broken")
	broken.listErr = &domain.DirectoryListingError{Path: "/root/broken", Err: assertErr("denied")}
	after := file("/root/after.txt", false)
	root := dirWithChildren("/root", broken, after)

	it, err := NewFileIterator(context.Background(), root, nil, time.Time{}, false)
	require.NoError(t, err)

	f, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/root/after.txt", f.Path())
}

func TestFileIterator_PushBackReplaysNextValue(t *testing.T) {
	a := file("/root/a.txt", false)
	b := file("/root/b.txt", false)
	root := dirWithChildren("/root", a, b)

	it, err := NewFileIterator(context.Background(), root, nil, time.Time{}, false)
	require.NoError(t, err)

	first, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/root/a.txt", first.Path())

	require.NoError(t, it.PushBack(first))

	replayed, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, replayed)

	second, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/root/b.txt", second.Path())
}

func TestFileIterator_PushBackTwiceIsRejected(t *testing.T) {
	a := file("/root/a.txt", false)
	root := dirWithChildren("/root", a)

	it, err := NewFileIterator(context.Background(), root, nil, time.Time{}, false)
	require.NoError(t, err)

	require.NoError(t, it.PushBack(a))
	err = it.PushBack(a)
	assert.ErrorIs(t, err, domain.ErrPushbackOccupied)
}

func TestFileIterator_DirectoriesReturnedSurfacesDirectories(t *testing.T) {
	child := file("/root/sub/leaf.txt", false)
	sub := dirWithChildren("/root/sub", child)
	root := dirWithChildren("/root", sub)

	it, err := NewFileIterator(context.Background(), root, nil, time.Time{}, true)
	require.NoError(t, err)
	assert.True(t, it.DirectoriesReturned())

	var got []string
	for {
		f, err := it.Next(context.Background())
		if err == domain.ErrIteratorDone {
			break
		}
		require.NoError(t, err)
		got = append(got, f.Path())
	}
	assert.Equal(t, []string{"/root/sub", "/root/sub/leaf.txt"}, got)
}

type simpleErr string

func (e simpleErr) Error() string { return string(e) }

func assertErr(msg string) error { return simpleErr(msg) }
