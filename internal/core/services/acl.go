package services

import "github.com/wiarlawd/fs-crawler/internal/core/domain"

// DirectoriesReturnedMode reports whether the file iterator should surface
// directories, per §4.5: the filesystem must support ACLs, ACL-push must
// be enabled, inherited-ACL mode must be on, and documents must not all be
// marked public.
func DirectoriesReturnedMode(supportsACL, pushAcls, supportsInheritedAcls, markAllDocumentsPublic bool) bool {
	return supportsACL && pushAcls && supportsInheritedAcls && !markAllDocumentsPublic
}

// resolveFileInheritFrom computes the aclInheritFrom pointer for a content
// document at path with parent parentDir, per §4.6's inheritance graph
// rules: root's own children point at the share ACL; everyone else points
// at their immediate parent's file-inherit ACL document.
func resolveFileInheritFrom(rootPath, parentDir string) domain.InheritFrom {
	if parentDir == rootPath {
		return domain.ShareInherit{RootPath: rootPath}
	}
	return domain.ParentFilesInherit{Path: parentDir}
}

// resolveContainerInheritFrom computes the aclInheritFrom pointer for a
// directory's container-inherit ACL document: it points at its parent
// directory's container-inherit ACL document, or at the share ACL if the
// parent is the root itself (or the directory being resolved is the root).
func resolveContainerInheritFrom(rootPath, dirPath, parentDir string) domain.InheritFrom {
	if dirPath == rootPath {
		return domain.ShareInherit{RootPath: rootPath}
	}
	if parentDir == rootPath {
		return domain.ShareInherit{RootPath: rootPath}
	}
	return domain.ParentContainersInherit{Path: parentDir}
}

// selectAclsForSecurityLevel picks which ACL(s) to attach to a content
// document based on the configured security level (§4.4). SHARE returns
// the share ACL; FILE, FILEORSHARE and FILEANDSHARE all return the file ACL.
// The levels differ only in the inheritance type: SHARE and FILEANDSHARE
// use and-both-permit, FILE and FILEORSHARE use child-overrides.
func selectAclsForSecurityLevel(level domain.SecurityLevel, fileAcl, shareAcl *domain.Acl) (acl *domain.Acl, inheritanceType domain.InheritanceType) {
	switch level {
	case domain.SecurityLevelShare:
		return shareAcl, domain.InheritAndBothPermit
	case domain.SecurityLevelFileAndShare:
		return fileAcl, domain.InheritAndBothPermit
	case domain.SecurityLevelFileOrShare:
		return fileAcl, domain.InheritChildOverrides
	case domain.SecurityLevelFile:
		fallthrough
	default:
		return fileAcl, domain.InheritChildOverrides
	}
}

// formatPrincipals renders a slice of principals under format, used when a
// concrete filesystem type exposes an AclFormat-aware adapter.
func formatPrincipals(principals []domain.Principal, format domain.AclFormat) []string {
	out := make([]string, len(principals))
	for i, p := range principals {
		out[i] = p.Format(format)
	}
	return out
}
