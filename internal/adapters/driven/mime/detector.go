// Package mime provides the content-sniffing driven.MimeDetector adapter.
package mime

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/wiarlawd/fs-crawler/internal/core/ports/driven"
)

// extensionOverrides covers extensions mimetype's magic-byte sniffing
// either misses entirely or resolves too generically (e.g. any of these
// read as text/plain by content alone).
var extensionOverrides = map[string]string{
	".md":   "text/markdown",
	".go":   "text/x-go",
	".py":   "text/x-python",
	".rs":   "text/x-rust",
	".ts":   "text/typescript",
	".tsx":  "text/typescript",
	".jsx":  "text/javascript",
	".yaml": "text/yaml",
	".yml":  "text/yaml",
	".toml": "text/x-toml",
	".sh":   "text/x-shellscript",
	".sql":  "text/x-sql",
}

// Detector implements driven.MimeDetector using content sniffing with an
// extension-based override table layered on top for the source types
// sniffing alone can't disambiguate.
type Detector struct{}

// New returns a Detector.
func New() *Detector { return &Detector{} }

var _ driven.MimeDetector = (*Detector)(nil)

// DetectMime reports the MIME type for a file, given its name and (when
// available) its leading content bytes. Extension overrides win over
// sniffing; charset parameters are stripped since the sink treats MIME
// type as a bare content-type string.
func (Detector) DetectMime(name string, sniff []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if override, ok := extensionOverrides[ext]; ok {
		return override, nil
	}

	mt := mimetype.Detect(sniff)
	return stripParameters(mt.String()), nil
}

func stripParameters(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		return strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}
