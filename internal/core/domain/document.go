package domain

import (
	"io"
	"time"
)

// DocKind distinguishes the four kinds of document the crawler emits.
type DocKind int

const (
	// DocKindContent is one per regular file.
	DocKindContent DocKind = iota
	// DocKindShareAcl is the synthetic share-level ACL document at a root.
	DocKindShareAcl
	// DocKindContainerInheritAcl is the synthetic per-directory ACL document
	// inherited by subordinate containers.
	DocKindContainerInheritAcl
	// DocKindFileInheritAcl is the synthetic per-directory ACL document
	// inherited by subordinate files.
	DocKindFileInheritAcl
)

func (k DocKind) String() string {
	switch k {
	case DocKindContent:
		return "content"
	case DocKindShareAcl:
		return "shareAcl"
	case DocKindContainerInheritAcl:
		return "containerInheritAcl"
	case DocKindFileInheritAcl:
		return "fileInheritAcl"
	default:
		return "unknown"
	}
}

// FeedTypeContentURL is the feed-type value used for content documents.
const FeedTypeContentURL = "contenturl"

// Document is the property bag emitted to the downstream DocumentAcceptor.
// MimeType and Content are lazy: the sink may never invoke them, e.g. when
// ifModifiedSince already indicates the document is unchanged.
type Document struct {
	DocID       string
	Kind        DocKind
	DisplayURL  string
	LastModified time.Time
	ContentLength int64
	FeedType    string

	// MimeType lazily resolves the document's MIME type. Nil for ACL
	// documents.
	MimeType func() (string, error)

	// Content lazily opens the document's byte stream. The caller owns the
	// returned ReadCloser and must close it. Nil for ACL documents and for
	// directories.
	Content func() (io.ReadCloser, error)

	// IsPublic, when true, means the document carries no ACL and any
	// authenticated user may access it.
	IsPublic bool

	// Acl is the resolved ACL for this document, or nil when IsPublic is
	// true or the document kind does not carry its own ACL.
	Acl *Acl

	// AclInheritFrom points at the ACL document this document's ACL is
	// composed with. NoInherit{} when there is none.
	AclInheritFrom InheritFrom

	// InheritanceType tags how AclInheritFrom composes with this
	// document's own ACL. Zero value for documents with no inheritance.
	InheritanceType InheritanceType
}

// NewContentDocument builds the property bag for a regular file, leaving
// the caller to fill in ACL fields.
func NewContentDocument(docID, displayURL string, lastModified time.Time, contentLength int64) *Document {
	return &Document{
		DocID:         docID,
		Kind:          DocKindContent,
		DisplayURL:    displayURL,
		LastModified:  lastModified,
		ContentLength: contentLength,
		FeedType:      FeedTypeContentURL,
		AclInheritFrom: NoInherit{},
	}
}

// NewAclDocument builds the property bag for one of the three synthetic
// ACL document kinds.
func NewAclDocument(kind DocKind, docID string, acl *Acl, inheritFrom InheritFrom, inheritanceType InheritanceType) *Document {
	d := &Document{
		DocID:           docID,
		Kind:            kind,
		Acl:             acl,
		AclInheritFrom:  inheritFrom,
		InheritanceType: inheritanceType,
	}
	if acl != nil {
		d.IsPublic = acl.IsPublic
	}
	return d
}
