package filesystem

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
	"github.com/wiarlawd/fs-crawler/internal/core/ports/driven"
	"github.com/wiarlawd/fs-crawler/internal/logger"
)

var driveLetterPath = regexp.MustCompile(`^[A-Za-z]:\\`)

// looksLikeWindowsPath recognizes a drive-letter path (C:\...) or a UNC
// share path (\\host\share\...).
func looksLikeWindowsPath(path string) bool {
	return driveLetterPath.MatchString(path) || strings.HasPrefix(path, `\\`)
}

// windowsACLReader isolates the native Win32 ACL and access-time syscalls
// behind a build tag; see windows_acl_windows.go and windows_acl_other.go.
type windowsACLReader interface {
	fileAcl(path string) (*domain.Acl, error)
	inheritedAcl(path string) (*domain.Acl, error)
	preserveLastAccess(path string, before time.Time) error
}

// WindowsFileSystemType handles local Windows drive-letter and UNC paths,
// with case-insensitive path comparisons and native ACL extraction.
type WindowsFileSystemType struct {
	acl             windowsACLReader
	resetLastAccess bool
}

// NewWindowsFileSystemType returns the local Windows filesystem type.
// resetLastAccess mirrors lastAccessResetFlagForLocalWindows (§6): when
// true, reading a file's content restores its pre-read access time.
func NewWindowsFileSystemType(resetLastAccess bool) *WindowsFileSystemType {
	return &WindowsFileSystemType{acl: newWindowsACLReader(), resetLastAccess: resetLastAccess}
}

func (WindowsFileSystemType) Name() string { return "windows" }

func (WindowsFileSystemType) IsPath(path string) bool {
	return looksLikeWindowsPath(path)
}

func (t *WindowsFileSystemType) GetFile(_ context.Context, path string, _ domain.Credentials) (driven.ReadonlyFile, error) {
	return &windowsFile{sys: t, path: filepath.Clean(path)}, nil
}

func (WindowsFileSystemType) SupportsACL() bool         { return true }
func (WindowsFileSystemType) RequiresCredentials() bool { return false }

type windowsFile struct {
	sys  *WindowsFileSystemType
	path string
}

func (f *windowsFile) FileSystemType() driven.FileSystemType { return f.sys }
func (f *windowsFile) Path() string                          { return f.path }

func (f *windowsFile) Name() string {
	name := filepath.Base(f.path)
	if name == "." || name == `\` {
		return ""
	}
	return name
}

func (f *windowsFile) Parent() string {
	parent := filepath.Dir(f.path)
	if strings.EqualFold(parent, f.path) {
		return ""
	}
	return parent
}

func (f *windowsFile) stat() (os.FileInfo, error) {
	info, err := os.Lstat(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		if os.IsPermission(err) {
			return nil, &domain.RepositoryDocumentError{DocID: f.path, Err: err}
		}
		return nil, &domain.RepositoryError{Path: f.path, Err: err}
	}
	return info, nil
}

func (f *windowsFile) IsDirectory(_ context.Context) (bool, error) {
	info, err := f.stat()
	if err != nil || info == nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (f *windowsFile) IsRegularFile(_ context.Context) (bool, error) {
	info, err := f.stat()
	if err != nil || info == nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (f *windowsFile) CanRead(_ context.Context) (bool, error) {
	info, err := f.stat()
	if err != nil || info == nil {
		return false, err
	}
	if info.IsDir() {
		d, err := os.Open(f.path)
		if err != nil {
			return false, nil
		}
		d.Close()
		return true, nil
	}
	fh, err := os.Open(f.path)
	if err != nil {
		return false, nil
	}
	fh.Close()
	return true, nil
}

func (f *windowsFile) Exists(_ context.Context) (bool, error) {
	info, err := f.stat()
	if err != nil {
		return false, err
	}
	return info != nil, nil
}

func (f *windowsFile) IsHidden(_ context.Context) (bool, error) {
	return isHidden(f.Name()), nil
}

func (f *windowsFile) LastModified(_ context.Context) (time.Time, error) {
	info, err := f.stat()
	if err != nil || info == nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (f *windowsFile) IsModifiedSince(ctx context.Context, since time.Time) (bool, error) {
	if since.IsZero() {
		return true, nil
	}
	mod, err := f.LastModified(ctx)
	if err != nil {
		return false, err
	}
	return !mod.Before(since), nil
}

func (f *windowsFile) Length(_ context.Context) (int64, error) {
	info, err := f.stat()
	if err != nil || info == nil {
		return 0, err
	}
	return info.Size(), nil
}

func (f *windowsFile) Acl(_ context.Context) (*domain.Acl, error) {
	acl, err := f.sys.acl.fileAcl(f.path)
	if err != nil {
		return domain.IndeterminateAcl(), nil
	}
	return acl, nil
}

func (f *windowsFile) HasInheritedAcls(ctx context.Context) (bool, error) {
	acl, err := f.InheritedAcl(ctx)
	if err != nil {
		return false, err
	}
	return acl != nil && !acl.IsEmpty(), nil
}

func (f *windowsFile) InheritedAcl(_ context.Context) (*domain.Acl, error) {
	acl, err := f.sys.acl.inheritedAcl(f.path)
	if err != nil {
		return nil, nil
	}
	return acl, nil
}

func (f *windowsFile) ContainerInheritAcl(ctx context.Context) (*domain.Acl, error) {
	return f.Acl(ctx)
}

func (f *windowsFile) FileInheritAcl(ctx context.Context) (*domain.Acl, error) {
	return f.Acl(ctx)
}

// ShareAcl is nil for local Windows: there is no SMB share layer to query.
func (f *windowsFile) ShareAcl(_ context.Context) (*domain.Acl, error) { return nil, nil }

func (f *windowsFile) ListFiles(_ context.Context) ([]driven.ReadonlyFile, error) {
	entries, err := os.ReadDir(f.path)
	if err != nil {
		return nil, &domain.DirectoryListingError{Path: f.path, Err: err}
	}

	names := make([]string, 0, len(entries))
	isDir := make(map[string]bool, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
		isDir[e.Name()] = e.IsDir()
	}
	sortChildrenCaseInsensitive(names, isDir)

	files := make([]driven.ReadonlyFile, 0, len(names))
	for _, name := range names {
		files = append(files, &windowsFile{sys: f.sys, path: filepath.Join(f.path, name)})
	}
	return files, nil
}

func (f *windowsFile) DisplayURL() string {
	return "file:///" + strings.ReplaceAll(f.path, `\`, "/")
}

func (f *windowsFile) Open(_ context.Context) (io.ReadCloser, error) {
	before, _ := f.LastModified(context.Background())
	fh, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return nil, &domain.RepositoryDocumentError{DocID: f.path, Err: err}
		}
		return nil, &domain.RepositoryError{Path: f.path, Err: err}
	}
	if !f.sys.resetLastAccess {
		return fh, nil
	}
	return &lastAccessRestoringFile{ReadCloser: fh, sys: f.sys, path: f.path, before: before}, nil
}

// lastAccessRestoringFile restores the pre-read access time on Close, per
// lastAccessResetFlagForLocalWindows (§6).
type lastAccessRestoringFile struct {
	io.ReadCloser
	sys    *WindowsFileSystemType
	path   string
	before time.Time
}

func (l *lastAccessRestoringFile) Close() error {
	err := l.ReadCloser.Close()
	if resetErr := l.sys.acl.preserveLastAccess(l.path, l.before); resetErr != nil {
		logger.Warn("restore last-access time of %s: %v", l.path, resetErr)
	}
	return err
}

func sortChildrenCaseInsensitive(names []string, isDir map[string]bool) {
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(sortKey(names[i], isDir[names[i]], `\`)) < strings.ToLower(sortKey(names[j], isDir[names[j]], `\`))
	})
}
