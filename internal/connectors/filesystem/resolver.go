package filesystem

import (
	"os"
	"strings"
)

// NormalizeRootPath cleans up a root path as configured by an operator
// before it's handed to the classifier: file:// URIs are stripped down to
// a bare local path, environment variables are expanded on local paths,
// and any of the URL-shaped roots (smb://, nfs://) or Windows paths pass
// through untouched aside from trimming a trailing separator.
func NormalizeRootPath(path string) string {
	if strings.HasPrefix(path, "file://") {
		path = strings.TrimPrefix(path, "file://")
	}

	if isURLPath(path) || looksLikeWindowsPath(path) {
		return trimTrailingSeparator(path)
	}

	return trimTrailingSeparator(os.Expand(path, os.Getenv))
}

func trimTrailingSeparator(path string) string {
	for _, sep := range []string{"/", `\`} {
		if len(path) > 1 && strings.HasSuffix(path, sep) && !strings.HasSuffix(path, "://") {
			path = strings.TrimSuffix(path, sep)
		}
	}
	return path
}
