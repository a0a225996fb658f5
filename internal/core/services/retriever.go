package services

import (
	"context"
	"io"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
)

// RetrieverConfig bounds the sizes the retriever will serve.
type RetrieverConfig struct {
	MaxDocumentSize int64
}

// Retriever is the on-demand metadata/content lookup path used by the sink
// (C9). It is invoked concurrently on arbitrary goroutines and holds no
// mutable state, so it is trivially reentrant.
type Retriever struct {
	classifier Classifier
	factory    *DocumentFactory
	cfg        RetrieverConfig
}

// NewRetriever builds a Retriever sharing the classifier and document
// factory used by the traversal side, so metadata assembly rules
// (ACL selection, mime/content laziness) stay identical.
func NewRetriever(classifier Classifier, factory *DocumentFactory, cfg RetrieverConfig) *Retriever {
	return &Retriever{classifier: classifier, factory: factory, cfg: cfg}
}

// GetMetadata re-opens docid via the classifier and produces a fresh
// document, per §4.9's four failure modes.
func (r *Retriever) GetMetadata(ctx context.Context, docid string, creds domain.Credentials, rootPath string) (*domain.Document, error) {
	file, err := r.classifier.GetFile(ctx, docid, creds)
	if err != nil {
		return nil, err
	}

	exists, err := file.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &domain.RepositoryDocumentError{DocID: docid, Err: nil}
	}

	readable, err := file.CanRead(ctx)
	if err != nil {
		return nil, err
	}
	if !readable {
		return nil, &domain.RepositoryDocumentError{DocID: docid, Err: nil}
	}

	length, err := file.Length(ctx)
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, &domain.RepositoryDocumentError{DocID: docid, Err: nil}
	}
	if r.cfg.MaxDocumentSize > 0 && length > r.cfg.MaxDocumentSize {
		return nil, &domain.RepositoryDocumentError{DocID: docid, Err: nil}
	}

	docs, err := r.factory.GetDocuments(ctx, file, rootPath)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, &domain.RepositoryDocumentError{DocID: docid, Err: nil}
	}
	return docs[0], nil
}

// GetContent re-opens docid and returns its byte stream, or nil when the
// document is a directory, missing, empty, or oversize (§4.9).
func (r *Retriever) GetContent(ctx context.Context, docid string, creds domain.Credentials) (io.ReadCloser, error) {
	file, err := r.classifier.GetFile(ctx, docid, creds)
	if err != nil {
		return nil, err
	}

	isDir, err := file.IsDirectory(ctx)
	if err != nil {
		return nil, err
	}
	if isDir {
		return nil, nil
	}

	exists, err := file.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	length, err := file.Length(ctx)
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, nil
	}
	if r.cfg.MaxDocumentSize > 0 && length > r.cfg.MaxDocumentSize {
		return nil, nil
	}

	return file.Open(ctx)
}
