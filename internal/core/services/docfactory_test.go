package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
)

func TestDocumentFactory_ContentDocumentMarkedPublicWhenAclsDisabled(t *testing.T) {
	f := file("/srv/shared/report.pdf", false)
	f.lastModified = time.Now()

	factory := NewDocumentFactory(DocumentFactoryConfig{PushAcls: false}, nil)
	docs, err := factory.GetDocuments(context.Background(), f, "/srv/shared")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.True(t, docs[0].IsPublic)
	assert.Equal(t, domain.DocKindContent, docs[0].Kind)
}

func TestDocumentFactory_MarkAllDocumentsPublicShortCircuits(t *testing.T) {
	f := file("/srv/shared/report.pdf", false)

	factory := NewDocumentFactory(DocumentFactoryConfig{PushAcls: true, MarkAllDocumentsPublic: true}, nil)
	docs, err := factory.GetDocuments(context.Background(), f, "/srv/shared")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.True(t, docs[0].IsPublic)
}

func TestDocumentFactory_RootDocumentInheritsFromShare(t *testing.T) {
	f := file("/srv/shared", false)
	f.isRegular = true

	factory := NewDocumentFactory(DocumentFactoryConfig{
		PushAcls:      true,
		SecurityLevel: domain.SecurityLevelFile,
	}, nil)
	docs, err := factory.GetDocuments(context.Background(), f, "/srv/shared")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, domain.ShareInherit{RootPath: "/srv/shared"}, docs[0].AclInheritFrom)
}

func TestDocumentFactory_NonRootContentInheritsFromParent(t *testing.T) {
	f := file("/srv/shared/docs/report.pdf", false)

	factory := NewDocumentFactory(DocumentFactoryConfig{
		PushAcls:              true,
		SupportsInheritedAcls: true,
		SecurityLevel:         domain.SecurityLevelFile,
	}, nil)
	f.parent = "/srv/shared/docs"
	docs, err := factory.GetDocuments(context.Background(), f, "/srv/shared")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, domain.ParentFilesInherit{Path: "/srv/shared/docs"}, docs[0].AclInheritFrom)
}

func TestDocumentFactory_DirectoryProducesTwoAclDocuments(t *testing.T) {
	dir := dirWithChildren("/srv/shared/docs")
	dir.parent = "/srv/shared"

	factory := NewDocumentFactory(DocumentFactoryConfig{PushAcls: true}, nil)
	docs, err := factory.GetDocuments(context.Background(), dir, "/srv/shared")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, domain.DocKindContainerInheritAcl, docs[0].Kind)
	assert.Equal(t, domain.DocKindFileInheritAcl, docs[1].Kind)
	assert.Equal(t, "foldersAcl:/srv/shared/docs", docs[0].DocID)
	assert.Equal(t, "filesAcl:/srv/shared/docs", docs[1].DocID)
}

// indeterminateFile forces ContainerInheritAcl/FileInheritAcl to return a
// non-determinate ACL, which the factory must never emit.
type indeterminateFile struct{ *fakeFile }

func (f indeterminateFile) ContainerInheritAcl(context.Context) (*domain.Acl, error) {
	return domain.IndeterminateAcl(), nil
}
func (f indeterminateFile) FileInheritAcl(context.Context) (*domain.Acl, error) {
	return domain.IndeterminateAcl(), nil
}

func TestDocumentFactory_NonDeterminateDirectoryAclsAreSkipped(t *testing.T) {
	dir := indeterminateFile{dirWithChildren("/srv/shared/docs")}

	factory := NewDocumentFactory(DocumentFactoryConfig{PushAcls: true}, nil)
	docs, err := factory.GetDocuments(context.Background(), dir, "/srv/shared")
	require.NoError(t, err)
	assert.Nil(t, docs)
}
