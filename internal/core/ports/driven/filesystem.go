// Package driven declares the interfaces the core traversal subsystem
// consumes from the outside: concrete filesystem types, the document sink,
// and MIME detection.
package driven

import (
	"context"
	"io"
	"time"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
)

// ReadonlyFile is the minimal API for a node in a read-only directory tree
// (C2). Every concrete filesystem type (POSIX, Windows, SMB, NFS) provides
// its own implementation; the traversal subsystem never type-switches on
// the concrete type.
type ReadonlyFile interface {
	// FileSystemType returns the filesystem type this node belongs to.
	FileSystemType() FileSystemType

	// Path returns the absolute path to this file, in a form consistent
	// with lexicographic depth-first ordering (§4.2): directories compare
	// as if their name were suffixed by the path separator.
	Path() string

	// Name returns the last path segment, or the empty string for a root
	// with no name component.
	Name() string

	// Parent returns the parent directory path.
	Parent() string

	IsDirectory(ctx context.Context) (bool, error)
	IsRegularFile(ctx context.Context) (bool, error)
	CanRead(ctx context.Context) (bool, error)
	Exists(ctx context.Context) (bool, error)
	IsHidden(ctx context.Context) (bool, error)

	LastModified(ctx context.Context) (time.Time, error)
	IsModifiedSince(ctx context.Context, since time.Time) (bool, error)
	Length(ctx context.Context) (int64, error)

	// Acl returns the file's own ACL.
	Acl(ctx context.Context) (*domain.Acl, error)
	// HasInheritedAcls reports whether the file or folder has any inherited
	// ACLs at all, even ones not surfaced by InheritedAcl.
	HasInheritedAcls(ctx context.Context) (bool, error)
	InheritedAcl(ctx context.Context) (*domain.Acl, error)
	// ContainerInheritAcl is the ACL inherited by subordinate folders.
	ContainerInheritAcl(ctx context.Context) (*domain.Acl, error)
	// FileInheritAcl is the ACL inherited by subordinate files.
	FileInheritAcl(ctx context.Context) (*domain.Acl, error)
	// ShareAcl is the SMB share-level ACL; nil for non-SMB filesystems.
	ShareAcl(ctx context.Context) (*domain.Acl, error)

	// ListFiles returns this directory's contents sorted consistent with
	// depth-first order (§4.2). Returns a *domain.DirectoryListingError if
	// enumeration is forbidden.
	ListFiles(ctx context.Context) ([]ReadonlyFile, error)

	DisplayURL() string

	// Open returns the content byte stream. The caller owns the returned
	// ReadCloser.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSystemType answers whether a path belongs to it and, if so,
// constructs a ReadonlyFile for that path (C1).
type FileSystemType interface {
	// Name identifies the type, e.g. "posix", "windows", "smb", "nfs".
	Name() string

	// IsPath reports whether path is shaped like one this type handles.
	// Matching is by case-insensitive URL prefix (smb://, nfs://) or by
	// path shape for local types.
	IsPath(path string) bool

	// GetFile resolves path to a ReadonlyFile.
	GetFile(ctx context.Context, path string, creds domain.Credentials) (ReadonlyFile, error)

	// SupportsACL reports whether nodes of this type carry meaningful ACLs.
	SupportsACL() bool

	// RequiresCredentials reports whether GetFile needs non-empty
	// credentials to authenticate.
	RequiresCredentials() bool
}
