// Package driving declares the interfaces external callers use to drive
// the core traversal subsystem.
package driving

import (
	"context"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
)

// Lister is the top-level driving port for the crawler (C8): start the
// scheduled crawl loop, change its schedule, and shut it down cleanly.
type Lister interface {
	// Start runs the lister's main loop until ctx is canceled or Shutdown
	// is called. It blocks.
	Start(ctx context.Context) error

	// SetSchedule installs a new schedule, interrupting any in-progress
	// sleep so the lister re-evaluates promptly.
	SetSchedule(schedule domain.Schedule)

	// Shutdown stops the loop run by Start: in-flight traversers are
	// canceled and Start calls the sink's Cancel exactly once as it returns.
	// Shutdown waits (bounded) for Start to finish.
	Shutdown(ctx context.Context) error
}
