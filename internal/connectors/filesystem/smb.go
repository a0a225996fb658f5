package filesystem

import (
	"context"
	"io"
	"net"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/hirochachacha/go-smb2"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
	"github.com/wiarlawd/fs-crawler/internal/core/ports/driven"
	"github.com/wiarlawd/fs-crawler/internal/logger"
)

const smbURLPrefix = "smb://"

// SMBFileSystemType handles smb://host/share/path roots via SMB2. Sessions
// and mounted shares are cached per host/share/credentials tuple so a
// crawl cycle doesn't renegotiate a connection per file.
type SMBFileSystemType struct {
	mu     sync.Mutex
	shares map[string]*smb2.Share

	resetLastAccess bool
}

// NewSMBFileSystemType returns the SMB filesystem type. resetLastAccess
// mirrors lastAccessResetFlagForSmb (§6).
func NewSMBFileSystemType(resetLastAccess bool) *SMBFileSystemType {
	return &SMBFileSystemType{shares: make(map[string]*smb2.Share), resetLastAccess: resetLastAccess}
}

func (SMBFileSystemType) Name() string { return "smb" }

func (SMBFileSystemType) IsPath(path string) bool {
	return strings.HasPrefix(strings.ToLower(path), smbURLPrefix)
}

func (SMBFileSystemType) SupportsACL() bool         { return true }
func (SMBFileSystemType) RequiresCredentials() bool { return true }

// parsedSMBPath splits smb://host/share/rest into its components.
type parsedSMBPath struct {
	host  string
	share string
	rest  string // forward-slash separated, may be empty
}

func parseSMBPath(p string) parsedSMBPath {
	trimmed := strings.TrimPrefix(p, smbURLPrefix)
	trimmed = strings.TrimPrefix(trimmed, "SMB://")
	segments := strings.SplitN(trimmed, "/", 3)
	out := parsedSMBPath{}
	if len(segments) > 0 {
		out.host = segments[0]
	}
	if len(segments) > 1 {
		out.share = segments[1]
	}
	if len(segments) > 2 {
		out.rest = strings.TrimSuffix(segments[2], "/")
	}
	return out
}

func (pp parsedSMBPath) String() string {
	u := smbURLPrefix + pp.host + "/" + pp.share
	if pp.rest != "" {
		u += "/" + pp.rest
	}
	return u
}

// windowsPath converts the forward-slash rest into the backslash form the
// go-smb2 client expects.
func (pp parsedSMBPath) windowsPath() string {
	return strings.ReplaceAll(pp.rest, "/", `\`)
}

func (t *SMBFileSystemType) mountedShare(host, shareName string, creds domain.Credentials) (*smb2.Share, error) {
	key := host + "/" + shareName + "/" + creds.Domain + "/" + creds.User

	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.shares[key]; ok {
		return s, nil
	}

	conn, err := net.DialTimeout("tcp", host+":445", 30*time.Second)
	if err != nil {
		return nil, &domain.RepositoryError{Path: smbURLPrefix + host, Err: err}
	}

	dialer := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:     creds.User,
			Password: creds.Password,
			Domain:   creds.Domain,
		},
	}
	session, err := dialer.Dial(conn)
	if err != nil {
		conn.Close()
		return nil, &domain.RepositoryError{Path: smbURLPrefix + host, Err: err}
	}

	share, err := session.Mount(shareName)
	if err != nil {
		return nil, &domain.RepositoryError{Path: smbURLPrefix + host + "/" + shareName, Err: err}
	}

	t.shares[key] = share
	return share, nil
}

func (t *SMBFileSystemType) GetFile(_ context.Context, p string, creds domain.Credentials) (driven.ReadonlyFile, error) {
	pp := parseSMBPath(p)
	share, err := t.mountedShare(pp.host, pp.share, creds)
	if err != nil {
		return nil, err
	}
	return &smbFile{sys: t, share: share, parsed: pp}, nil
}

// smbFile is a node on an SMB2 share.
type smbFile struct {
	sys    *SMBFileSystemType
	share  *smb2.Share
	parsed parsedSMBPath
}

func (f *smbFile) FileSystemType() driven.FileSystemType { return f.sys }
func (f *smbFile) Path() string                          { return f.parsed.String() }

func (f *smbFile) Name() string {
	if f.parsed.rest == "" {
		return f.parsed.share
	}
	return path.Base(f.parsed.rest)
}

func (f *smbFile) Parent() string {
	if f.parsed.rest == "" {
		return ""
	}
	parentPP := f.parsed
	parentPP.rest = path.Dir(f.parsed.rest)
	if parentPP.rest == "." {
		parentPP.rest = ""
	}
	return parentPP.String()
}

func (f *smbFile) nativePath() string {
	if f.parsed.rest == "" {
		return "."
	}
	return f.parsed.windowsPath()
}

func (f *smbFile) stat() (interface{ IsDir() bool; ModTime() time.Time; Size() int64 }, error) {
	info, err := f.share.Stat(f.nativePath())
	if err != nil {
		return nil, &domain.RepositoryError{Path: f.Path(), Err: err}
	}
	return info, nil
}

func (f *smbFile) IsDirectory(_ context.Context) (bool, error) {
	info, err := f.stat()
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (f *smbFile) IsRegularFile(ctx context.Context) (bool, error) {
	isDir, err := f.IsDirectory(ctx)
	if err != nil {
		return false, err
	}
	return !isDir, nil
}

func (f *smbFile) CanRead(_ context.Context) (bool, error) {
	fh, err := f.share.Open(f.nativePath())
	if err != nil {
		return false, nil
	}
	fh.Close()
	return true, nil
}

func (f *smbFile) Exists(_ context.Context) (bool, error) {
	_, err := f.share.Stat(f.nativePath())
	return err == nil, nil
}

func (f *smbFile) IsHidden(_ context.Context) (bool, error) {
	return isHidden(f.Name()), nil
}

func (f *smbFile) LastModified(_ context.Context) (time.Time, error) {
	info, err := f.stat()
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (f *smbFile) IsModifiedSince(ctx context.Context, since time.Time) (bool, error) {
	if since.IsZero() {
		return true, nil
	}
	mod, err := f.LastModified(ctx)
	if err != nil {
		return false, err
	}
	return !mod.Before(since), nil
}

func (f *smbFile) Length(_ context.Context) (int64, error) {
	info, err := f.stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Acl and the container/file-inherit ACLs all resolve to the same security
// descriptor query on SMB2. Explicit and inherited ACEs are not told apart:
// InheritedAcl always returns nil and HasInheritedAcls always reports false.
func (f *smbFile) Acl(_ context.Context) (*domain.Acl, error) {
	sd, err := f.share.GetSecurityDescriptor(f.nativePath())
	if err != nil {
		return domain.IndeterminateAcl(), nil
	}
	return aclFromSecurityDescriptor(sd), nil
}

func (f *smbFile) HasInheritedAcls(_ context.Context) (bool, error) { return false, nil }
func (f *smbFile) InheritedAcl(_ context.Context) (*domain.Acl, error) { return nil, nil }

func (f *smbFile) ContainerInheritAcl(ctx context.Context) (*domain.Acl, error) { return f.Acl(ctx) }
func (f *smbFile) FileInheritAcl(ctx context.Context) (*domain.Acl, error)      { return f.Acl(ctx) }

func (f *smbFile) ShareAcl(_ context.Context) (*domain.Acl, error) {
	sd, err := f.share.GetSecurityDescriptor(".")
	if err != nil {
		return domain.IndeterminateAcl(), nil
	}
	return aclFromSecurityDescriptor(sd), nil
}

func (f *smbFile) ListFiles(_ context.Context) ([]driven.ReadonlyFile, error) {
	entries, err := f.share.ReadDir(f.nativePath())
	if err != nil {
		return nil, &domain.DirectoryListingError{Path: f.Path(), Err: err}
	}

	names := make([]string, 0, len(entries))
	isDir := make(map[string]bool, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
		isDir[e.Name()] = e.IsDir()
	}
	sortChildren(names, isDir, "/")

	files := make([]driven.ReadonlyFile, 0, len(names))
	for _, name := range names {
		childPP := f.parsed
		if childPP.rest == "" {
			childPP.rest = name
		} else {
			childPP.rest = childPP.rest + "/" + name
		}
		files = append(files, &smbFile{sys: f.sys, share: f.share, parsed: childPP})
	}
	return files, nil
}

func (f *smbFile) DisplayURL() string { return f.Path() }

func (f *smbFile) Open(_ context.Context) (io.ReadCloser, error) {
	var before time.Time
	if f.sys.resetLastAccess {
		if info, err := f.stat(); err == nil {
			before = info.ModTime()
		}
	}
	fh, err := f.share.Open(f.nativePath())
	if err != nil {
		return nil, &domain.RepositoryError{Path: f.Path(), Err: err}
	}
	if !f.sys.resetLastAccess {
		return fh, nil
	}
	return &smbLastAccessRestoringFile{File: fh, share: f.share, nativePath: f.nativePath(), before: before}, nil
}

type smbLastAccessRestoringFile struct {
	*smb2.File
	share      *smb2.Share
	nativePath string
	before     time.Time
}

func (l *smbLastAccessRestoringFile) Close() error {
	err := l.File.Close()
	if !l.before.IsZero() {
		if resetErr := l.share.Chtimes(l.nativePath, l.before, l.before); resetErr != nil {
			logger.Warn("restore last-access time of %s: %v", l.nativePath, resetErr)
		}
	}
	return err
}

// aclFromSecurityDescriptor maps a raw security descriptor to an Acl without
// parsing its ACEs: an empty descriptor yields a public Acl and any
// non-empty descriptor yields a non-determinate Acl. No principals are
// extracted.
func aclFromSecurityDescriptor(sd []byte) *domain.Acl {
	if len(sd) == 0 {
		return domain.PublicAcl()
	}
	return domain.IndeterminateAcl()
}
