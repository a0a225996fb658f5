package filesystem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
	"github.com/wiarlawd/fs-crawler/internal/core/ports/driven"
)

// fakeCredentialedType is a minimal driven.FileSystemType stand-in used to
// exercise the classifier's credentials gate without a real SMB dial.
type fakeCredentialedType struct{}

func (fakeCredentialedType) Name() string                  { return "fake" }
func (fakeCredentialedType) IsPath(path string) bool        { return path == "fake://x" }
func (fakeCredentialedType) SupportsACL() bool               { return true }
func (fakeCredentialedType) RequiresCredentials() bool       { return true }
func (fakeCredentialedType) GetFile(_ context.Context, path string, _ domain.Credentials) (driven.ReadonlyFile, error) {
	return nil, nil
}

func TestClassifier_PicksFirstMatchingType(t *testing.T) {
	c := NewClassifier(NewNFSFileSystemType(nil), NewWindowsFileSystemType(false), NewPosixFileSystemType())

	f, err := c.GetFile(context.Background(), "/var/lib/data", domain.Credentials{})
	require.NoError(t, err)
	assert.Equal(t, "posix", f.FileSystemType().Name())
}

func TestClassifier_NoMatchIsUnknownFileSystemError(t *testing.T) {
	c := NewClassifier(NewPosixFileSystemType())

	_, err := c.GetFile(context.Background(), "smb://host/share/doc.txt", domain.Credentials{})
	require.Error(t, err)
	var unknown *domain.UnknownFileSystemError
	assert.ErrorAs(t, err, &unknown)
}

func TestClassifier_MissingCredentialsForCredentialedTypeIsUnknown(t *testing.T) {
	c := NewClassifier(fakeCredentialedType{})

	_, err := c.GetFile(context.Background(), "fake://x", domain.Credentials{})
	require.Error(t, err)
	var unknown *domain.UnknownFileSystemError
	assert.ErrorAs(t, err, &unknown)
}

func TestClassifier_CredentialedTypeSucceedsWithCredentials(t *testing.T) {
	c := NewClassifier(fakeCredentialedType{})

	_, err := c.GetFile(context.Background(), "fake://x", domain.Credentials{User: "bob", Password: "secret"})
	assert.NoError(t, err)
}
