package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
	"github.com/wiarlawd/fs-crawler/internal/core/ports/driven"
)

// fakeClassifier resolves a fixed set of docids to fakeFiles, used to drive
// the Retriever without a real filesystem type.
type fakeClassifier struct {
	files map[string]*fakeFile
}

func (c *fakeClassifier) GetFile(_ context.Context, path string, _ domain.Credentials) (driven.ReadonlyFile, error) {
	f, ok := c.files[path]
	if !ok {
		return nil, &domain.UnknownFileSystemError{Path: path}
	}
	return f, nil
}

func TestRetriever_GetMetadata_UnknownPathIsUnknownFileSystemError(t *testing.T) {
	classifier := &fakeClassifier{files: map[string]*fakeFile{}}
	factory := NewDocumentFactory(DocumentFactoryConfig{}, nil)
	r := NewRetriever(classifier, factory, RetrieverConfig{})

	_, err := r.GetMetadata(context.Background(), "/missing.txt", domain.Credentials{}, "/srv")
	var unknown *domain.UnknownFileSystemError
	assert.ErrorAs(t, err, &unknown)
}

func TestRetriever_GetMetadata_OversizeIsRepositoryDocumentError(t *testing.T) {
	f := file("/srv/big.bin", false)
	f.length = 1024
	classifier := &fakeClassifier{files: map[string]*fakeFile{"/srv/big.bin": f}}
	factory := NewDocumentFactory(DocumentFactoryConfig{}, nil)
	r := NewRetriever(classifier, factory, RetrieverConfig{MaxDocumentSize: 10})

	_, err := r.GetMetadata(context.Background(), "/srv/big.bin", domain.Credentials{}, "/srv")
	var rde *domain.RepositoryDocumentError
	require.ErrorAs(t, err, &rde)
	assert.Equal(t, "/srv/big.bin", rde.DocID)
}

func TestRetriever_GetMetadata_EmptyDocIsRepositoryDocumentError(t *testing.T) {
	f := file("/srv/empty.txt", false)
	classifier := &fakeClassifier{files: map[string]*fakeFile{"/srv/empty.txt": f}}
	factory := NewDocumentFactory(DocumentFactoryConfig{}, nil)
	r := NewRetriever(classifier, factory, RetrieverConfig{MaxDocumentSize: 10})

	_, err := r.GetMetadata(context.Background(), "/srv/empty.txt", domain.Credentials{}, "/srv")
	var rde *domain.RepositoryDocumentError
	require.ErrorAs(t, err, &rde)
	assert.Equal(t, "/srv/empty.txt", rde.DocID)
}

func TestRetriever_GetContent_DirectoryReturnsNilNil(t *testing.T) {
	dir := dirWithChildren("/srv/docs")
	classifier := &fakeClassifier{files: map[string]*fakeFile{"/srv/docs": dir}}
	factory := NewDocumentFactory(DocumentFactoryConfig{}, nil)
	r := NewRetriever(classifier, factory, RetrieverConfig{})

	rc, err := r.GetContent(context.Background(), "/srv/docs", domain.Credentials{})
	require.NoError(t, err)
	assert.Nil(t, rc)
}

func TestRetriever_GetContent_UnknownPathPropagatesError(t *testing.T) {
	classifier := &fakeClassifier{files: map[string]*fakeFile{}}
	factory := NewDocumentFactory(DocumentFactoryConfig{}, nil)
	r := NewRetriever(classifier, factory, RetrieverConfig{})

	_, err := r.GetContent(context.Background(), "/nope.txt", domain.Credentials{})
	var unknown *domain.UnknownFileSystemError
	assert.ErrorAs(t, err, &unknown)
}
