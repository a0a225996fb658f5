package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
	"github.com/wiarlawd/fs-crawler/internal/core/ports/driven"
	"github.com/wiarlawd/fs-crawler/internal/logger"
)

// defaultErrorDelay is the fixed sleep after a transient failure (§4.7 step
// 7, §4.8) when TraverserConfig.ErrorRetryDelay is left at its zero value.
const defaultErrorDelay = 5 * time.Minute

// defaultIfModifiedSinceCushion compensates for server-clock skew and
// timestamp-granularity rounding.
const defaultIfModifiedSinceCushion = 1 * time.Hour

// Classifier resolves a root path to a ReadonlyFile, implemented by the
// path classifier (C1). Kept as a narrow interface here so the traverser
// does not depend on the concrete classifier package.
type Classifier interface {
	GetFile(ctx context.Context, path string, creds domain.Credentials) (driven.ReadonlyFile, error)
}

// TraverserConfig holds the per-root options that affect the full/
// incremental decision and matcher construction.
type TraverserConfig struct {
	RootPath               string
	Credentials            domain.Credentials
	Matcher                *FilePatternMatcher
	FullTraversalInterval  time.Duration // negative = never force full
	IfModifiedSinceCushion time.Duration
	PushAcls               bool
	SupportsInheritedAcls  bool
	MarkAllDocumentsPublic bool

	// ErrorRetryDelay overrides defaultErrorDelay's sleep between a
	// transient-error retry and the next attempt. Zero uses the default.
	ErrorRetryDelay time.Duration
}

// Traverser runs one root's scheduled crawl cycle (C7).
type Traverser struct {
	cfg        TraverserConfig
	classifier Classifier
	factory    *DocumentFactory
	sink       driven.DocumentAcceptor
	state      *domain.TraversalState
	limiter    *rate.Limiter
}

// NewTraverser builds a Traverser. schedule.Rate() (docs/min) seeds the
// token-bucket limiter used to self-throttle sink submissions; a
// non-positive rate disables throttling.
func NewTraverser(cfg TraverserConfig, classifier Classifier, factory *DocumentFactory, sink driven.DocumentAcceptor, schedule domain.Schedule) *Traverser {
	t := &Traverser{
		cfg:        cfg,
		classifier: classifier,
		factory:    factory,
		sink:       sink,
		state:      &domain.TraversalState{},
	}
	if schedule != nil && schedule.Rate() > 0 {
		perSecond := float64(schedule.Rate()) / 60.0
		t.limiter = rate.NewLimiter(rate.Limit(perSecond), schedule.Rate())
	}
	return t
}

// State exposes the traverser's TraversalState for tests and progress
// reporting.
func (t *Traverser) State() *domain.TraversalState { return t.state }

// ifModifiedSince implements §4.7 step 2.
func (t *Traverser) ifModifiedSince(now time.Time) (time.Time, bool) {
	if t.cfg.FullTraversalInterval >= 0 {
		last := t.state.LastFullTraversal()
		if last.IsZero() || now.Sub(last) >= t.cfg.FullTraversalInterval {
			return time.Time{}, true
		}
	}
	cushion := t.cfg.IfModifiedSinceCushion
	if cushion == 0 {
		cushion = defaultIfModifiedSinceCushion
	}
	cutoff := t.state.LastTraversal().Add(-cushion)
	if cutoff.Before(time.Time{}) {
		cutoff = time.Time{}
	}
	return cutoff, false
}

func (t *Traverser) directoriesReturned(root driven.ReadonlyFile) bool {
	return DirectoriesReturnedMode(root.FileSystemType().SupportsACL(), t.cfg.PushAcls, t.cfg.SupportsInheritedAcls, t.cfg.MarkAllDocumentsPublic)
}

func (t *Traverser) errorDelay() time.Duration {
	if t.cfg.ErrorRetryDelay > 0 {
		return t.cfg.ErrorRetryDelay
	}
	return defaultErrorDelay
}

// Run executes one crawl cycle. Transient failures (RepositoryError) are
// retried after errorDelay with no limit on the number of retries, so they
// never end the cycle with an error. Run returns nil when the root cannot
// be opened or ctx is canceled, and a non-nil error when the iterator
// cannot be built, the sink rejects a document, or an unclassified error
// occurs; callers treat any non-nil return as "cycle finished with errors"
// for scheduling purposes (§4.8).
func (t *Traverser) Run(ctx context.Context) error {
	cycleID := uuid.NewString()
	startTime := time.Now()
	logger.Info("traversal %s: starting cycle for root %s", cycleID, t.cfg.RootPath)

	defer func() {
		if err := t.sink.Flush(ctx); err != nil {
			logger.Warn("traversal %s: flush failed: %v", cycleID, err)
		}
	}()

	root, err := t.classifier.GetFile(ctx, t.cfg.RootPath, t.cfg.Credentials)
	if err != nil {
		logger.Warn("traversal %s: failed to open root %s: %v", cycleID, t.cfg.RootPath, err)
		return nil // the lister retries on the next scheduled cycle
	}

	since, forcedFull := t.ifModifiedSince(startTime)
	if forcedFull {
		t.state.SetLastFullTraversal(time.Time{})
	}

	dirsReturned := t.directoriesReturned(root)
	it, err := NewFileIterator(ctx, root, t.cfg.Matcher, since, dirsReturned)
	if err != nil {
		return err
	}

	if dirsReturned {
		shareAcl, err := root.ShareAcl(ctx)
		if err == nil && aclDeterminate(shareAcl) {
			doc := domain.NewAclDocument(domain.DocKindShareAcl, domain.ShareAclDocID(t.cfg.RootPath), shareAcl, domain.NoInherit{}, domain.InheritAndBothPermit)
			if err := t.take(ctx, doc); err != nil {
				return err
			}
		}
	}

	emitted := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		file, err := it.Next(ctx)
		if err != nil {
			if err == domain.ErrIteratorDone {
				break
			}
			if _, ok := domain.AsRepositoryError(err); ok {
				logger.Warn("traversal %s: transient error, backing off: %v", cycleID, err)
				select {
				case <-time.After(t.errorDelay()):
				case <-ctx.Done():
					return nil
				}
				continue
			}
			return err
		}

		docs, err := t.factory.GetDocuments(ctx, file, t.cfg.RootPath)
		if err != nil {
			if _, ok := domain.AsRepositoryDocumentError(err); ok {
				logger.Warn("traversal %s: skipping document %s: %v", cycleID, file.Path(), err)
				continue
			}
			if _, ok := domain.AsRepositoryError(err); ok {
				logger.Warn("traversal %s: transient error on %s, retrying: %v", cycleID, file.Path(), err)
				if pbErr := it.PushBack(file); pbErr != nil {
					return pbErr
				}
				select {
				case <-time.After(t.errorDelay()):
				case <-ctx.Done():
					return nil
				}
				continue
			}
			return err
		}

		for _, doc := range docs {
			if err := t.take(ctx, doc); err != nil {
				return err
			}
			emitted++
		}
	}

	t.state.SetLastTraversal(startTime)
	if t.state.LastFullTraversal().IsZero() {
		t.state.SetLastFullTraversal(startTime)
	}

	logger.Info("traversal %s: cycle finished, %d documents emitted", cycleID, emitted)
	return nil
}

func (t *Traverser) take(ctx context.Context, doc *domain.Document) error {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return t.sink.Take(ctx, doc)
}
