package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnknownFileSystemError_Message(t *testing.T) {
	err := &UnknownFileSystemError{Path: "gopher://weird"}
	assert.Contains(t, err.Error(), "gopher://weird")
}

func TestRepositoryDocumentError_UnwrapsAndMatches(t *testing.T) {
	cause := errors.New("permission denied")
	err := &RepositoryDocumentError{DocID: "/root/secret.txt", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "/root/secret.txt")
	assert.Contains(t, err.Error(), "permission denied")

	rde, ok := AsRepositoryDocumentError(fmt.Errorf("wrapping: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "/root/secret.txt", rde.DocID)
}

func TestRepositoryDocumentError_NilCauseStillHasMessage(t *testing.T) {
	err := &RepositoryDocumentError{DocID: "/root/gone.txt"}
	assert.NotEmpty(t, err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestRepositoryError_UnwrapsAndMatches(t *testing.T) {
	cause := errors.New("connection reset")
	err := &RepositoryError{Path: "smb://host/share", Err: cause}

	assert.ErrorIs(t, err, cause)

	re, ok := AsRepositoryError(fmt.Errorf("cycle failed: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "smb://host/share", re.Path)
}

func TestDirectoryListingError_UnwrapsAndMatches(t *testing.T) {
	cause := errors.New("access denied")
	err := &DirectoryListingError{Path: "/root/private", Err: cause}

	assert.ErrorIs(t, err, cause)

	dle, ok := AsDirectoryListingError(fmt.Errorf("listing: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "/root/private", dle.Path)
}

func TestAsRepositoryError_FalseForOtherTypes(t *testing.T) {
	_, ok := AsRepositoryError(&RepositoryDocumentError{DocID: "x"})
	assert.False(t, ok)
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{ErrPushbackOccupied, ErrIteratorDone, ErrShuttingDown, ErrMissingCredentials}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b))
		}
	}
}
