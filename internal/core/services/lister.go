package services

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
	"github.com/wiarlawd/fs-crawler/internal/core/ports/driven"
	"github.com/wiarlawd/fs-crawler/internal/core/ports/driving"
	"github.com/wiarlawd/fs-crawler/internal/logger"
)

// maxSleep stands in for "infinite" (disabled schedule, negative retry
// delay): a near-maximum finite duration that any interrupt still wakes.
const maxSleep = 365 * 24 * time.Hour

// Ensure Lister implements the driving port.
var _ driving.Lister = (*Lister)(nil)

// Lister is the worker-pool-based scheduler that runs all traversers under
// a shared schedule (C8).
type Lister struct {
	traversers []*Traverser
	poolSize   int
	sink       driven.DocumentAcceptor

	schedule atomic.Pointer[domain.Schedule]

	scheduleChanged chan struct{}
	shutdownCh      chan struct{}
	shutdownOnce    sync.Once
	shutdownDone    chan struct{}

	watcher *fsnotify.Watcher
}

// NewLister builds a lister for traversers, bounded to poolSize concurrent
// traverser goroutines per cycle. sink.Cancel is invoked exactly once, by
// Start as it returns after Shutdown or cancellation of its context.
func NewLister(traversers []*Traverser, poolSize int, sink driven.DocumentAcceptor, schedule domain.Schedule) *Lister {
	if poolSize <= 0 {
		poolSize = 10
	}
	l := &Lister{
		traversers:      traversers,
		poolSize:        poolSize,
		sink:            sink,
		scheduleChanged: make(chan struct{}, 1),
		shutdownCh:      make(chan struct{}),
		shutdownDone:    make(chan struct{}),
	}
	l.schedule.Store(&schedule)
	return l
}

// WatchLocalRoots opens an fsnotify watch on every root path that looks
// like a local filesystem path (not a smb:// or nfs:// URL). A filesystem
// event on a watched root interrupts the lister's current sleep the same
// way a schedule change would (§4.8), so a locally visible edit can
// shorten the wait instead of always waiting out RETRY_DELAY. This is a
// best-effort hint: failures to watch are logged and non-fatal.
func (l *Lister) WatchLocalRoots(roots []string) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("lister: fsnotify unavailable, local roots will only wake on schedule: %v", err)
		return
	}
	l.watcher = w

	for _, root := range roots {
		if strings.Contains(root, "://") {
			continue
		}
		if err := w.Add(root); err != nil {
			logger.Warn("lister: failed to watch %s: %v", root, err)
		}
	}

	go func() {
		for {
			select {
			case _, ok := <-w.Events:
				if !ok {
					return
				}
				l.interruptSleep()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("lister: fsnotify error: %v", err)
			case <-l.shutdownCh:
				return
			}
		}
	}()
}

func (l *Lister) currentSchedule() domain.Schedule {
	p := l.schedule.Load()
	if p == nil {
		return domain.StaticSchedule{}
	}
	return *p
}

// SetSchedule installs a new schedule and interrupts any in-progress sleep.
func (l *Lister) SetSchedule(schedule domain.Schedule) {
	l.schedule.Store(&schedule)
	l.interruptSleep()
}

func (l *Lister) interruptSleep() {
	select {
	case l.scheduleChanged <- struct{}{}:
	default:
	}
}

// Start runs the main loop described in §4.8 until ctx is canceled or
// Shutdown is called.
func (l *Lister) Start(ctx context.Context) error {
	for {
		sched := l.currentSchedule()

		if !l.sleep(ctx, l.scheduleDelay(sched)) {
			return l.finish(ctx)
		}

		sched = l.currentSchedule()
		if !sched.ShouldRun() {
			continue
		}

		anyErr := l.runCycle(ctx)

		var next time.Duration
		if anyErr {
			next = defaultErrorDelay
		} else {
			next = sched.RetryDelay()
			if next < 0 {
				next = maxSleep
			}
		}

		if !l.sleep(ctx, next) {
			return l.finish(ctx)
		}
	}
}

func (l *Lister) scheduleDelay(sched domain.Schedule) time.Duration {
	if sched.IsDisabled() {
		return maxSleep
	}
	if sched.InScheduledInterval() {
		return 0
	}
	d := sched.NextScheduledInterval()
	if d <= 0 {
		return maxSleep
	}
	return d
}

// sleep waits for d, or until interrupted by a schedule change or
// shutdown. It returns false when the lister should stop entirely.
func (l *Lister) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-l.scheduleChanged:
		return true
	case <-l.shutdownCh:
		return false
	case <-ctx.Done():
		return false
	}
}

// runCycle runs every traverser once, bounded to poolSize concurrent
// goroutines, and reports whether any traverser returned an error.
// Shutdown cancels the context of traversers that are still running.
func (l *Lister) runCycle(ctx context.Context) bool {
	cycleCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-l.shutdownCh:
			cancel()
		case <-cycleCtx.Done():
		}
	}()

	g, gctx := errgroup.WithContext(cycleCtx)
	g.SetLimit(l.poolSize)

	var failed atomic.Bool
	for _, t := range l.traversers {
		t := t
		g.Go(func() error {
			select {
			case <-l.shutdownCh:
				return nil
			default:
			}
			if err := t.Run(gctx); err != nil {
				logger.Warn("lister: traverser for %s finished with error: %v", t.cfg.RootPath, err)
				failed.Store(true)
			}
			return nil
		})
	}
	_ = g.Wait()
	return failed.Load()
}

func (l *Lister) finish(ctx context.Context) error {
	if err := l.sink.Cancel(ctx); err != nil {
		logger.Warn("lister: sink cancel failed: %v", err)
	}
	close(l.shutdownDone)
	return nil
}

// Shutdown cancels the pool and waits up to 5 minutes for termination,
// per §4.8.
func (l *Lister) Shutdown(ctx context.Context) error {
	l.shutdownOnce.Do(func() {
		close(l.shutdownCh)
	})
	if l.watcher != nil {
		_ = l.watcher.Close()
	}

	select {
	case <-l.shutdownDone:
		return nil
	case <-time.After(5 * time.Minute):
		logger.Warn("lister: shutdown did not complete within 5 minutes")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
