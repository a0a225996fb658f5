package filesystem

import (
	"context"
	"strings"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
	"github.com/wiarlawd/fs-crawler/internal/core/ports/driven"
)

const nfsURLPrefix = "nfs://"

// MountManager resolves an nfs://host/path root to the local mount point
// the host OS already has it mounted at. It never mounts or unmounts
// anything itself: NFS shares are expected to be mounted by the host
// before the crawler starts, matching how they're actually operated in
// production.
type MountManager interface {
	// ResolveMount returns the local filesystem path host:remotePath is
	// currently mounted at, or an error if no matching mount is found.
	ResolveMount(host, remotePath string) (string, error)
}

// NFSFileSystemType treats every NFS root as an already-mounted local
// path. When an nfs://host/path URL is given instead of a local path, an
// optional MountManager resolves it once at GetFile time; everything after
// that is ordinary local file I/O, identical to POSIX, since a mounted NFS
// export has no ACL surface distinct from the local mount's own
// permissions.
type NFSFileSystemType struct {
	posix  *PosixFileSystemType
	mounts MountManager
}

// NewNFSFileSystemType returns the NFS filesystem type. mounts may be nil,
// in which case nfs:// URLs are rejected (only pre-mounted local paths are
// accepted).
func NewNFSFileSystemType(mounts MountManager) *NFSFileSystemType {
	return &NFSFileSystemType{posix: NewPosixFileSystemType(), mounts: mounts}
}

func (NFSFileSystemType) Name() string { return "nfs" }

func (NFSFileSystemType) IsPath(path string) bool {
	return strings.HasPrefix(strings.ToLower(path), nfsURLPrefix)
}

func (NFSFileSystemType) SupportsACL() bool         { return false }
func (NFSFileSystemType) RequiresCredentials() bool { return false }

func (t *NFSFileSystemType) GetFile(ctx context.Context, path string, creds domain.Credentials) (driven.ReadonlyFile, error) {
	if t.mounts == nil {
		return nil, &domain.UnknownFileSystemError{Path: path}
	}

	trimmed := strings.TrimPrefix(strings.TrimPrefix(path, nfsURLPrefix), "NFS://")
	segments := strings.SplitN(trimmed, "/", 2)
	host := segments[0]
	remote := "/"
	if len(segments) > 1 {
		remote = "/" + segments[1]
	}

	local, err := t.mounts.ResolveMount(host, remote)
	if err != nil {
		return nil, &domain.RepositoryError{Path: path, Err: err}
	}

	return t.posix.GetFile(ctx, local, creds)
}
