package filesystem

import (
	"context"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
	"github.com/wiarlawd/fs-crawler/internal/core/ports/driven"
)

// Classifier resolves a root or docid path to the concrete filesystem type
// that owns it (C1). Types are tried in registration order; the first
// whose IsPath matches wins, so more specific URL-shaped types should be
// registered ahead of the POSIX fallback.
type Classifier struct {
	types []driven.FileSystemType
}

// NewClassifier builds a classifier over types, tried in the given order.
func NewClassifier(types ...driven.FileSystemType) *Classifier {
	return &Classifier{types: types}
}

// GetFile resolves path via the first matching filesystem type.
func (c *Classifier) GetFile(ctx context.Context, path string, creds domain.Credentials) (driven.ReadonlyFile, error) {
	t := c.typeFor(path)
	if t == nil {
		return nil, &domain.UnknownFileSystemError{Path: path}
	}
	if t.RequiresCredentials() && creds.IsEmpty() {
		return nil, &domain.UnknownFileSystemError{Path: path}
	}
	return t.GetFile(ctx, path, creds)
}

func (c *Classifier) typeFor(path string) driven.FileSystemType {
	for _, t := range c.types {
		if t.IsPath(path) {
			return t
		}
	}
	return nil
}
