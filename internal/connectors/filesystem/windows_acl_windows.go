//go:build windows

package filesystem

import (
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
)

// nativeWindowsACLReader queries the Win32 security descriptor of a file or
// directory via GetNamedSecurityInfo and preserves access times via
// SetFileTime, so a content read does not itself count as an access for
// downstream auditing on the source share.
type nativeWindowsACLReader struct{}

func newWindowsACLReader() windowsACLReader { return nativeWindowsACLReader{} }

func (nativeWindowsACLReader) fileAcl(path string) (*domain.Acl, error) {
	sd, err := windows.GetNamedSecurityInfo(
		path,
		windows.SE_FILE_OBJECT,
		windows.DACL_SECURITY_INFORMATION|windows.OWNER_SECURITY_INFORMATION,
	)
	if err != nil {
		return domain.IndeterminateAcl(), err
	}
	dacl, _, err := sd.DACL()
	if err != nil {
		return domain.IndeterminateAcl(), err
	}
	return aclFromDACL(dacl), nil
}

// inheritedAcl returns the same full DACL as fileAcl. The INHERITED_ACE flag
// is not inspected, so inherited and explicit ACEs are not separated.
func (r nativeWindowsACLReader) inheritedAcl(path string) (*domain.Acl, error) {
	acl, err := r.fileAcl(path)
	if err != nil {
		return nil, err
	}
	return acl, nil
}

func (nativeWindowsACLReader) preserveLastAccess(path string, before time.Time) error {
	if before.IsZero() {
		return nil
	}
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	h, err := windows.CreateFile(p, windows.FILE_WRITE_ATTRIBUTES, windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil, windows.OPEN_EXISTING, windows.FILE_FLAG_BACKUP_SEMANTICS, 0)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)

	ft := windows.NsecToFiletime(before.UnixNano())
	return windows.SetFileTime(h, nil, &ft, nil)
}

// aclFromDACL walks a raw Win32 ACL and translates its ACEs into the
// crawler's Principal-based Acl. Group vs. user membership and SID
// resolution are looked up through LookupAccountSid.
func aclFromDACL(dacl *windows.ACL) *domain.Acl {
	acl := &domain.Acl{IsDeterminate: true}
	if dacl == nil {
		acl.IsPublic = true
		return acl
	}

	for i := uint16(0); i < dacl.AceCount; i++ {
		var ace *windows.ACCESS_ALLOWED_ACE
		if err := windows.GetAce(dacl, uint32(i), &ace); err != nil {
			continue
		}
		sid := (*windows.SID)(unsafe.Pointer(&ace.SidStart))
		name, domainName, accType, err := sid.LookupAccount("")
		if err != nil {
			continue
		}
		principal := domain.Principal{Name: name, Domain: domainName, CaseSensitive: false}

		allow := ace.Header.AceType == windows.ACCESS_ALLOWED_ACE_TYPE
		isGroup := accType == windows.SidTypeGroup || accType == windows.SidTypeWellKnownGroup || accType == windows.SidTypeAlias

		switch {
		case allow && isGroup:
			acl.AllowGroups = append(acl.AllowGroups, principal)
		case allow && !isGroup:
			acl.AllowUsers = append(acl.AllowUsers, principal)
		case !allow && isGroup:
			acl.DenyGroups = append(acl.DenyGroups, principal)
		default:
			acl.DenyUsers = append(acl.DenyUsers, principal)
		}
	}
	return acl
}
