package driven

import (
	"context"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
)

// DocumentAcceptor is the downstream sink the traversal subsystem feeds.
// It is an external collaborator, specified only by this interface: the
// core never assumes anything about how documents are stored or indexed.
type DocumentAcceptor interface {
	// Take delivers one document. May block for backpressure.
	Take(ctx context.Context, doc *domain.Document) error

	// Flush signals the end of one traversal cycle's submissions. Called
	// unconditionally by the traverser, even on failure.
	Flush(ctx context.Context) error

	// Cancel signals that the lister is shutting down. Called exactly once
	// during a clean shutdown.
	Cancel(ctx context.Context) error
}

// MimeDetector is the out-of-scope MIME-type detection helper the document
// factory calls through. The core only depends on this interface; a
// concrete content-sniffing implementation lives in
// internal/adapters/driven/mime.
type MimeDetector interface {
	// DetectMime returns the MIME type for name given a content sniff
	// (which may be nil or short if unavailable).
	DetectMime(name string, sniff []byte) (string, error)
}
