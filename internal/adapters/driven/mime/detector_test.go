package mime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMime_ExtensionOverride(t *testing.T) {
	d := New()

	got, err := d.DetectMime("main.go", []byte("package main\n"))
	require.NoError(t, err)
	assert.Equal(t, "text/x-go", got)
}

func TestDetectMime_SniffsWhenNoOverride(t *testing.T) {
	d := New()

	got, err := d.DetectMime("report.pdf", []byte("%PDF-1.4\n"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", got)
}

func TestDetectMime_StripsCharsetParameter(t *testing.T) {
	d := New()

	got, err := d.DetectMime("notes.txt", []byte("plain text content"))
	require.NoError(t, err)
	assert.NotContains(t, got, ";")
}
