//go:build !windows

package filesystem

import (
	"time"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
)

// stubWindowsACLReader backs the windows filesystem type on non-Windows
// build targets (e.g. a Linux-hosted crawler pointed at a mapped drive
// through a network redirector). Native security descriptors are
// unavailable here, so every ACL is non-determinate and access-time
// preservation is a no-op.
type stubWindowsACLReader struct{}

func newWindowsACLReader() windowsACLReader { return stubWindowsACLReader{} }

func (stubWindowsACLReader) fileAcl(string) (*domain.Acl, error) {
	return domain.IndeterminateAcl(), nil
}

func (stubWindowsACLReader) inheritedAcl(string) (*domain.Acl, error) {
	return domain.IndeterminateAcl(), nil
}

func (stubWindowsACLReader) preserveLastAccess(string, time.Time) error {
	return nil
}
