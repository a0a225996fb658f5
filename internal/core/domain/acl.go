package domain

import "strings"

// Reserved docid prefixes for synthetic ACL documents. These must never
// collide with a real filesystem path, which is why they carry a colon: no
// supported filesystem type produces a colon in the position right after
// the prefix.
const (
	ShareAclPrefix            = "shareAcl:"
	ContainerInheritAclPrefix = "foldersAcl:"
	FileInheritAclPrefix      = "filesAcl:"
)

// ShareAclDocID returns the docid of the share-ACL document for rootPath.
func ShareAclDocID(rootPath string) string { return ShareAclPrefix + rootPath }

// ContainerInheritAclDocID returns the docid of the container-inherit ACL
// document for dirPath.
func ContainerInheritAclDocID(dirPath string) string { return ContainerInheritAclPrefix + dirPath }

// FileInheritAclDocID returns the docid of the file-inherit ACL document
// for dirPath.
func FileInheritAclDocID(dirPath string) string { return FileInheritAclPrefix + dirPath }

// SecurityLevel controls which ACL(s) must be satisfied for a user to be
// authorized against a document.
type SecurityLevel string

const (
	SecurityLevelFile         SecurityLevel = "FILE"
	SecurityLevelShare        SecurityLevel = "SHARE"
	SecurityLevelFileOrShare  SecurityLevel = "FILEORSHARE"
	SecurityLevelFileAndShare SecurityLevel = "FILEANDSHARE"
)

// AclFormat controls how a Principal is rendered into a single string form
// consumed by the downstream sink.
type AclFormat string

const (
	AclFormatUser            AclFormat = "USER"
	AclFormatGroup           AclFormat = "GROUP"
	AclFormatDomainSlashUser AclFormat = "DOMAIN\\USER"
	AclFormatDomainSlashGrp  AclFormat = "DOMAIN\\GROUP"
	AclFormatUserAtDomain    AclFormat = "USER@DOMAIN"
	AclFormatGroupAtDomain   AclFormat = "GROUP@DOMAIN"
)

// Principal identifies a user or group entry within an ACL.
type Principal struct {
	Name          string
	Domain        string
	Namespace     string
	CaseSensitive bool
}

// Format renders p according to format. USER/GROUP formats ignore the
// domain; the DOMAIN\ and @DOMAIN formats fall back to the bare name when
// no domain is known, matching the filesystem's own convention for local
// accounts.
func (p Principal) Format(format AclFormat) string {
	switch format {
	case AclFormatDomainSlashUser, AclFormatDomainSlashGrp:
		if p.Domain == "" {
			return p.Name
		}
		return p.Domain + "\\" + p.Name
	case AclFormatUserAtDomain, AclFormatGroupAtDomain:
		if p.Domain == "" {
			return p.Name
		}
		return p.Name + "@" + p.Domain
	default:
		return p.Name
	}
}

// Equal reports whether p and other identify the same principal, honoring
// case sensitivity hints.
func (p Principal) Equal(other Principal) bool {
	if p.Domain != other.Domain || p.Namespace != other.Namespace {
		return false
	}
	if p.CaseSensitive || other.CaseSensitive {
		return p.Name == other.Name
	}
	return strings.EqualFold(p.Name, other.Name)
}

// Acl is a record of allow/deny principals plus the isPublic and
// isDeterminate flags. Legacy mode uses only the allow sets; inherited-ACL
// mode additionally uses the deny sets.
type Acl struct {
	AllowUsers  []Principal
	AllowGroups []Principal
	DenyUsers   []Principal
	DenyGroups  []Principal

	// IsPublic, when true, means no principals are present and any
	// authenticated user is authorized. Mutually exclusive in practice with
	// a non-empty principal set.
	IsPublic bool

	// IsDeterminate is false when the ACL could not be resolved. A
	// non-determinate ACL must never be emitted; the caller must fall back
	// to per-request authorization instead.
	IsDeterminate bool
}

// PublicAcl returns a determinate, public ACL.
func PublicAcl() *Acl {
	return &Acl{IsPublic: true, IsDeterminate: true}
}

// IndeterminateAcl returns the sentinel non-determinate ACL.
func IndeterminateAcl() *Acl {
	return &Acl{IsDeterminate: false}
}

// IsEmpty reports whether the ACL carries no principals at all.
func (a *Acl) IsEmpty() bool {
	return a == nil || (len(a.AllowUsers) == 0 && len(a.AllowGroups) == 0 &&
		len(a.DenyUsers) == 0 && len(a.DenyGroups) == 0)
}

// InheritanceType tags how an ACL document composes with the ACL it
// inherits from.
type InheritanceType string

const (
	// InheritChildOverrides is used by directory ACL documents: a child's
	// explicit deny/allow entries take precedence over inherited ones.
	InheritChildOverrides InheritanceType = "child-overrides"

	// InheritAndBothPermit is used by the share ACL: both the share ACL and
	// the file/folder ACL must permit access.
	InheritAndBothPermit InheritanceType = "and-both-permit"
)

// InheritFrom is the tagged union describing which ACL document a file or
// directory's ACL is inherited from. Resolution to a docid string happens
// at serialization via DocID.
type InheritFrom interface {
	// DocID returns the docid of the ACL document this pointer resolves
	// to, or the empty string for None.
	DocID() string

	isInheritFrom()
}

// NoInherit means the file or directory has no inherited ACL pointer.
type NoInherit struct{}

func (NoInherit) DocID() string { return "" }
func (NoInherit) isInheritFrom() {}

// ParentFilesInherit points at the file-inherit ACL document of the
// directory at Path.
type ParentFilesInherit struct{ Path string }

func (p ParentFilesInherit) DocID() string  { return FileInheritAclDocID(p.Path) }
func (ParentFilesInherit) isInheritFrom() {}

// ParentContainersInherit points at the container-inherit ACL document of
// the directory at Path.
type ParentContainersInherit struct{ Path string }

func (p ParentContainersInherit) DocID() string  { return ContainerInheritAclDocID(p.Path) }
func (ParentContainersInherit) isInheritFrom() {}

// ShareInherit points at the share-ACL document of the root at RootPath.
type ShareInherit struct{ RootPath string }

func (s ShareInherit) DocID() string  { return ShareAclDocID(s.RootPath) }
func (ShareInherit) isInheritFrom() {}
