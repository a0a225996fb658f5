package domain

import (
	"errors"
	"fmt"
)

// Three-tier error taxonomy for the traversal subsystem.
//
// UnknownFileSystemError is reported to the caller and never retried.
// RepositoryDocumentError is permanent for one document; the crawl continues.
// RepositoryError is transient; the traverser pushes the file back and retries.
// DirectoryListingError is a hybrid: the iterator logs a warning and skips
// the subtree without surfacing the error.

// UnknownFileSystemError indicates that no registered filesystem type
// accepts a path.
type UnknownFileSystemError struct {
	Path string
}

func (e *UnknownFileSystemError) Error() string {
	return fmt.Sprintf("unknown filesystem for path %q", e.Path)
}

// RepositoryDocumentError indicates a document cannot be produced now or in
// the foreseeable future: missing, access-denied, malformed metadata,
// oversize, or empty.
type RepositoryDocumentError struct {
	DocID string
	Err   error
}

func (e *RepositoryDocumentError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("repository document error for %q", e.DocID)
	}
	return fmt.Sprintf("repository document error for %q: %v", e.DocID, e.Err)
}

func (e *RepositoryDocumentError) Unwrap() error { return e.Err }

// RepositoryError indicates a transient failure: server unreachable,
// timeout, expired authentication, interrupted directory listing.
type RepositoryError struct {
	Path string
	Err  error
}

func (e *RepositoryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("repository error for %q", e.Path)
	}
	return fmt.Sprintf("repository error for %q: %v", e.Path, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// DirectoryListingError indicates the caller was not authorized to
// enumerate a directory. The iterator skips the subtree but keeps walking
// its siblings.
type DirectoryListingError struct {
	Path string
	Err  error
}

func (e *DirectoryListingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("directory listing error for %q", e.Path)
	}
	return fmt.Sprintf("directory listing error for %q: %v", e.Path, e.Err)
}

func (e *DirectoryListingError) Unwrap() error { return e.Err }

// Sentinel errors for programming-contract violations, not filesystem
// conditions.
var (
	// ErrPushbackOccupied is returned by FileIterator.PushBack when a file
	// is already pending in the single-slot pushback buffer.
	ErrPushbackOccupied = errors.New("pushback slot already occupied")

	// ErrIteratorDone is returned by FileIterator.Next once the walk of a
	// root has been fully consumed.
	ErrIteratorDone = errors.New("iterator exhausted")

	// ErrShuttingDown indicates the lister observed a shutdown request and
	// abandoned an in-progress operation cleanly. It is never surfaced as a
	// cycle failure.
	ErrShuttingDown = errors.New("lister is shutting down")

	// ErrMissingCredentials indicates a filesystem type that requires
	// credentials (SMB) was asked to resolve a path with none configured.
	ErrMissingCredentials = errors.New("filesystem type requires credentials")
)

// AsRepositoryError reports whether err is (or wraps) a RepositoryError.
func AsRepositoryError(err error) (*RepositoryError, bool) {
	var re *RepositoryError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// AsRepositoryDocumentError reports whether err is (or wraps) a
// RepositoryDocumentError.
func AsRepositoryDocumentError(err error) (*RepositoryDocumentError, bool) {
	var rde *RepositoryDocumentError
	if errors.As(err, &rde) {
		return rde, true
	}
	return nil, false
}

// AsDirectoryListingError reports whether err is (or wraps) a
// DirectoryListingError.
func AsDirectoryListingError(err error) (*DirectoryListingError, bool) {
	var dle *DirectoryListingError
	if errors.As(err, &dle) {
		return dle, true
	}
	return nil, false
}
