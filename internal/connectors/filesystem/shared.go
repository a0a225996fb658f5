// Package filesystem provides the concrete filesystem types (C1) and their
// ReadonlyFile implementations (C2): posix, windows, smb and nfs.
package filesystem

import (
	"sort"
	"strings"
)

// isHidden reports whether name (a single path segment, not a full path)
// marks a dotfile. "." and ".." are never hidden.
func isHidden(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}

// sortKey returns the string used to order a child within its directory
// listing per §4.2: a directory's key is its name suffixed with sep, so a
// directory compares as if its own children's paths were in the listing.
// With sep "/" or `\`, a directory "foo" (key "foo/") therefore sorts after
// a sibling file "foo.bar", because '.' orders before both separators.
func sortKey(name string, isDir bool, sep string) string {
	if isDir {
		return name + sep
	}
	return name
}

// sortChildren orders files depth-first-consistent within one directory
// listing, using isDir and sep to compute each entry's sort key.
func sortChildren(names []string, isDir map[string]bool, sep string) {
	sort.Slice(names, func(i, j int) bool {
		return sortKey(names[i], isDir[names[i]], sep) < sortKey(names[j], isDir[names[j]], sep)
	})
}
