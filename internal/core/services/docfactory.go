package services

import (
	"context"
	"io"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
	"github.com/wiarlawd/fs-crawler/internal/core/ports/driven"
)

// DocumentFactoryConfig mirrors the recognized configuration keys from
// §6 that affect document assembly.
type DocumentFactoryConfig struct {
	PushAcls               bool
	MarkAllDocumentsPublic bool
	SupportsInheritedAcls  bool
	SecurityLevel          domain.SecurityLevel
	UserAclFormat          domain.AclFormat
	GroupAclFormat         domain.AclFormat
}

// DocumentFactory turns a visited file node into feed documents (C6): one
// content document, or, for a directory with ACL push on, its two
// inheritance ACL documents (none when those ACLs are non-determinate).
type DocumentFactory struct {
	cfg          DocumentFactoryConfig
	mimeDetector driven.MimeDetector
}

// NewDocumentFactory builds a factory. mimeDetector may be nil, in which
// case MimeType always resolves to the empty string.
func NewDocumentFactory(cfg DocumentFactoryConfig, mimeDetector driven.MimeDetector) *DocumentFactory {
	return &DocumentFactory{cfg: cfg, mimeDetector: mimeDetector}
}

// GetDocuments implements §4.6. rootPath identifies the root this file was
// found under, needed to resolve the root-special-case and the
// inheritance graph.
func (f *DocumentFactory) GetDocuments(ctx context.Context, file driven.ReadonlyFile, rootPath string) ([]*domain.Document, error) {
	isDir, err := file.IsDirectory(ctx)
	if err != nil {
		return nil, err
	}

	if isDir && f.cfg.PushAcls {
		return f.buildDirectoryAclDocuments(ctx, file, rootPath)
	}
	doc, err := f.buildContentDocument(ctx, file, rootPath)
	if err != nil {
		return nil, err
	}
	return []*domain.Document{doc}, nil
}

func (f *DocumentFactory) buildDirectoryAclDocuments(ctx context.Context, dir driven.ReadonlyFile, rootPath string) ([]*domain.Document, error) {
	containerAcl, err := dir.ContainerInheritAcl(ctx)
	if err != nil {
		return nil, err
	}
	fileAcl, err := dir.FileInheritAcl(ctx)
	if err != nil {
		return nil, err
	}

	if !aclDeterminate(containerAcl) || !aclDeterminate(fileAcl) {
		// Non-determinate ACLs must never be emitted (§3 invariant); skip
		// this directory's inheritance documents. Content beneath it still
		// falls back to the share ACL via resolveFileInheritFrom.
		return nil, nil
	}

	dirPath := dir.Path()
	parentDir := dir.Parent()

	containerDoc := domain.NewAclDocument(
		domain.DocKindContainerInheritAcl,
		domain.ContainerInheritAclDocID(dirPath),
		containerAcl,
		resolveContainerInheritFrom(rootPath, dirPath, parentDir),
		domain.InheritChildOverrides,
	)
	fileDoc := domain.NewAclDocument(
		domain.DocKindFileInheritAcl,
		domain.FileInheritAclDocID(dirPath),
		fileAcl,
		resolveContainerInheritFrom(rootPath, dirPath, parentDir),
		domain.InheritChildOverrides,
	)
	return []*domain.Document{containerDoc, fileDoc}, nil
}

func (f *DocumentFactory) buildContentDocument(ctx context.Context, file driven.ReadonlyFile, rootPath string) (*domain.Document, error) {
	lastModified, err := file.LastModified(ctx)
	if err != nil {
		return nil, err
	}
	length, err := file.Length(ctx)
	if err != nil {
		return nil, err
	}

	doc := domain.NewContentDocument(file.Path(), file.DisplayURL(), lastModified, length)
	doc.MimeType = f.lazyMimeType(file)
	doc.Content = f.lazyContent(file)

	if f.cfg.MarkAllDocumentsPublic {
		doc.IsPublic = true
		return doc, nil
	}
	if !f.cfg.PushAcls {
		doc.IsPublic = true
		return doc, nil
	}

	fileAcl, err := file.Acl(ctx)
	if err != nil {
		return nil, err
	}
	var shareAcl *domain.Acl
	if file.FileSystemType().SupportsACL() {
		shareAcl, err = file.ShareAcl(ctx)
		if err != nil {
			return nil, err
		}
	}

	acl, inheritanceType := selectAclsForSecurityLevel(f.cfg.SecurityLevel, fileAcl, shareAcl)
	if !aclDeterminate(acl) {
		doc.Acl = domain.IndeterminateAcl()
		return doc, nil
	}

	path := file.Path()
	parentDir := file.Parent()

	if path == rootPath {
		// Root-special-case (§4.6): the root document inherits directly
		// from the share ACL, and any inherited-ACL sets the root itself
		// carries are flattened into its own ACL rather than pointing at a
		// non-existent parent.
		inherited, err := file.InheritedAcl(ctx)
		if err == nil && inherited != nil && !inherited.IsEmpty() {
			acl = mergeAcl(acl, inherited)
		}
		doc.AclInheritFrom = domain.ShareInherit{RootPath: rootPath}
	} else if f.cfg.SupportsInheritedAcls {
		doc.AclInheritFrom = resolveFileInheritFrom(rootPath, parentDir)
	}

	doc.InheritanceType = inheritanceType
	doc.Acl = acl
	return doc, nil
}

func (f *DocumentFactory) lazyMimeType(file driven.ReadonlyFile) func() (string, error) {
	return func() (string, error) {
		if f.mimeDetector == nil {
			return "", nil
		}
		rc, err := file.Open(context.Background())
		if err != nil {
			return f.mimeDetector.DetectMime(file.Name(), nil)
		}
		defer rc.Close()
		head := make([]byte, 512)
		n, _ := io.ReadFull(rc, head)
		return f.mimeDetector.DetectMime(file.Name(), head[:n])
	}
}

func (f *DocumentFactory) lazyContent(file driven.ReadonlyFile) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return file.Open(context.Background())
	}
}

func aclDeterminate(a *domain.Acl) bool {
	return a != nil && a.IsDeterminate
}

// mergeAcl unions two ACLs' principal sets. Used only for the root
// special-case flattening.
func mergeAcl(base, extra *domain.Acl) *domain.Acl {
	if base == nil {
		return extra
	}
	if extra == nil {
		return base
	}
	return &domain.Acl{
		AllowUsers:    append(append([]domain.Principal{}, base.AllowUsers...), extra.AllowUsers...),
		AllowGroups:   append(append([]domain.Principal{}, base.AllowGroups...), extra.AllowGroups...),
		DenyUsers:     append(append([]domain.Principal{}, base.DenyUsers...), extra.DenyUsers...),
		DenyGroups:    append(append([]domain.Principal{}, base.DenyGroups...), extra.DenyGroups...),
		IsPublic:      base.IsPublic && extra.IsPublic,
		IsDeterminate: base.IsDeterminate && extra.IsDeterminate,
	}
}
