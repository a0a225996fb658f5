// Package sink provides a minimal driven.DocumentAcceptor for standalone
// runs of the reference CLI, where no real downstream index is wired up.
package sink

import (
	"context"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
	"github.com/wiarlawd/fs-crawler/internal/core/ports/driven"
	"github.com/wiarlawd/fs-crawler/internal/logger"
)

// LogSink logs each document instead of forwarding it to an index. It
// exists so `fscrawler crawl` is runnable end to end without a production
// document-acceptor configured; a real deployment supplies its own
// driven.DocumentAcceptor.
type LogSink struct {
	taken int
}

var _ driven.DocumentAcceptor = (*LogSink)(nil)

// New returns a LogSink.
func New() *LogSink { return &LogSink{} }

func (s *LogSink) Take(_ context.Context, doc *domain.Document) error {
	s.taken++
	if doc.Acl != nil && !doc.Acl.IsDeterminate {
		logger.Warn("sink: %s %s (indeterminate acl)", doc.Kind, doc.DocID)
	} else {
		logger.Info("sink: %s %s", doc.Kind, doc.DocID)
	}
	return nil
}

func (s *LogSink) Flush(_ context.Context) error {
	logger.Info("sink: flush (%d documents so far)", s.taken)
	return nil
}

func (s *LogSink) Cancel(_ context.Context) error {
	logger.Info("sink: cancel")
	return nil
}
