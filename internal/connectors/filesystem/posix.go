package filesystem

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
	"github.com/wiarlawd/fs-crawler/internal/core/ports/driven"
)

// PosixFileSystemType handles local, case-sensitive filesystem paths.
// POSIX carries no ACL model in this crawler: access control on a local
// mount is the OS's own concern, not something the feed can usefully
// reproduce downstream.
type PosixFileSystemType struct{}

// NewPosixFileSystemType returns the local POSIX filesystem type.
func NewPosixFileSystemType() *PosixFileSystemType { return &PosixFileSystemType{} }

func (PosixFileSystemType) Name() string { return "posix" }

// IsPath matches an absolute path, or ".", that isn't shaped like a smb://
// or nfs:// URL or a Windows path; used as the fallback type in classifier
// registration order. Other relative paths are not matched.
func (PosixFileSystemType) IsPath(path string) bool {
	if isURLPath(path) {
		return false
	}
	if looksLikeWindowsPath(path) {
		return false
	}
	return filepath.IsAbs(path) || path == "."
}

func (t *PosixFileSystemType) GetFile(_ context.Context, path string, _ domain.Credentials) (driven.ReadonlyFile, error) {
	return &posixFile{sys: t, path: filepath.Clean(path)}, nil
}

func (PosixFileSystemType) SupportsACL() bool         { return false }
func (PosixFileSystemType) RequiresCredentials() bool { return false }

// posixFile is a node on the local filesystem.
type posixFile struct {
	sys  *PosixFileSystemType
	path string
}

func (f *posixFile) FileSystemType() driven.FileSystemType { return f.sys }

func (f *posixFile) Path() string { return f.path }

func (f *posixFile) Name() string {
	if f.path == string(filepath.Separator) {
		return ""
	}
	return filepath.Base(f.path)
}

func (f *posixFile) Parent() string {
	parent := filepath.Dir(f.path)
	if parent == f.path {
		return ""
	}
	return parent
}

func (f *posixFile) stat() (os.FileInfo, error) {
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

func (f *posixFile) IsDirectory(_ context.Context) (bool, error) {
	info, err := f.stat()
	if err != nil || info == nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (f *posixFile) IsRegularFile(_ context.Context) (bool, error) {
	info, err := f.stat()
	if err != nil || info == nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (f *posixFile) CanRead(_ context.Context) (bool, error) {
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

func (f *posixFile) Exists(_ context.Context) (bool, error) {
	info, err := f.stat()
	if err != nil {
		return false, err
	}
	return info != nil, nil
}

func (f *posixFile) IsHidden(_ context.Context) (bool, error) {
	return isHidden(f.Name()), nil
}

func (f *posixFile) LastModified(_ context.Context) (time.Time, error) {
	info, err := f.stat()
	if err != nil || info == nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (f *posixFile) IsModifiedSince(ctx context.Context, since time.Time) (bool, error) {
	if since.IsZero() {
		return true, nil
	}
	mod, err := f.LastModified(ctx)
	if err != nil {
		return false, err
	}
	return !mod.Before(since), nil
}

func (f *posixFile) Length(_ context.Context) (int64, error) {
	info, err := f.stat()
	if err != nil || info == nil {
		return 0, err
	}
	return info.Size(), nil
}

func (f *posixFile) Acl(_ context.Context) (*domain.Acl, error) { return domain.PublicAcl(), nil }
func (f *posixFile) HasInheritedAcls(_ context.Context) (bool, error) { return false, nil }
func (f *posixFile) InheritedAcl(_ context.Context) (*domain.Acl, error) { return nil, nil }
func (f *posixFile) ContainerInheritAcl(_ context.Context) (*domain.Acl, error) {
	return domain.PublicAcl(), nil
}
func (f *posixFile) FileInheritAcl(_ context.Context) (*domain.Acl, error) {
	return domain.PublicAcl(), nil
}
func (f *posixFile) ShareAcl(_ context.Context) (*domain.Acl, error) { return nil, nil }

func (f *posixFile) ListFiles(_ context.Context) ([]driven.ReadonlyFile, error) {
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
	sortChildren(names, isDir, string(filepath.Separator))

	files := make([]driven.ReadonlyFile, 0, len(names))
	for _, name := range names {
		files = append(files, &posixFile{sys: f.sys, path: filepath.Join(f.path, name)})
	}
	return files, nil
}

func (f *posixFile) DisplayURL() string { return "file://" + f.path }

func (f *posixFile) Open(_ context.Context) (io.ReadCloser, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return nil, &domain.RepositoryDocumentError{DocID: f.path, Err: err}
		}
		return nil, &domain.RepositoryError{Path: f.path, Err: err}
	}
	return fh, nil
}

// isURLPath reports whether path is shaped like a scheme:// URL, used by
// the local types to defer to the URL-shaped types (smb, nfs).
func isURLPath(path string) bool {
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case ':':
			return i+2 < len(path) && path[i+1] == '/' && path[i+2] == '/'
		case '/', '\\':
			return false
		}
	}
	return false
}
