package services

import (
	"context"
	"time"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
	"github.com/wiarlawd/fs-crawler/internal/core/ports/driven"
	"github.com/wiarlawd/fs-crawler/internal/logger"
)

// frame is one level of the explicit traversal stack: a directory and its
// remaining, not-yet-visited children in sorted order.
type frame struct {
	children []driven.ReadonlyFile
	idx      int
}

func (f *frame) done() bool { return f.idx >= len(f.children) }

func (f *frame) pop() driven.ReadonlyFile {
	c := f.children[f.idx]
	f.idx++
	return c
}

// FileIterator is the lazy, ordered, pushback-capable depth-first walk of
// one root (C5). It never recurses on the Go call stack, so a transient
// failure partway through a subtree can be retried by pushing the
// in-progress file back and resuming later.
type FileIterator struct {
	matcher            *FilePatternMatcher
	ifModifiedSince    time.Time
	directoriesReturned bool

	stack    []*frame
	pushback driven.ReadonlyFile
}

// NewFileIterator constructs an iterator rooted at root. ifModifiedSince
// filters out regular files last modified before it; the zero time accepts
// everything (a forced full traversal). When directoriesReturned is true,
// directories are surfaced by Next in addition to regular files, so their
// inheritance ACL documents can be emitted.
func NewFileIterator(
	ctx context.Context,
	root driven.ReadonlyFile,
	matcher *FilePatternMatcher,
	ifModifiedSince time.Time,
	directoriesReturned bool,
) (*FileIterator, error) {
	it := &FileIterator{
		matcher:             matcher,
		ifModifiedSince:     ifModifiedSince,
		directoriesReturned: directoriesReturned,
	}
	if err := it.pushFrame(ctx, root); err != nil {
		return nil, err
	}
	return it, nil
}

// pushFrame lists dir's children and pushes a new frame, or swallows a
// DirectoryListingError (logging it) so the caller's enclosing loop simply
// sees an empty frame and moves on to the next sibling.
func (it *FileIterator) pushFrame(ctx context.Context, dir driven.ReadonlyFile) error {
	children, err := dir.ListFiles(ctx)
	if err != nil {
		if dle, ok := domain.AsDirectoryListingError(err); ok {
			logger.Warn("skipping unreadable directory %s: %v", dle.Path, dle)
			it.stack = append(it.stack, &frame{})
			return nil
		}
		return err
	}
	it.stack = append(it.stack, &frame{children: children})
	return nil
}

// PushBack stores f as the next value Next will return. A second call
// before an intervening Next is a programming error.
func (it *FileIterator) PushBack(f driven.ReadonlyFile) error {
	if it.pushback != nil {
		return domain.ErrPushbackOccupied
	}
	it.pushback = f
	return nil
}

// Next returns the next accepted file or directory in depth-first order.
// It returns domain.ErrIteratorDone once the root is fully consumed.
func (it *FileIterator) Next(ctx context.Context) (driven.ReadonlyFile, error) {
	if it.pushback != nil {
		f := it.pushback
		it.pushback = nil
		return f, nil
	}

	for len(it.stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		top := it.stack[len(it.stack)-1]
		if top.done() {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}

		child := top.pop()

		hidden, err := child.IsHidden(ctx)
		if err != nil {
			return nil, err
		}
		if hidden {
			logger.Debug("skipping hidden path %s", child.Path())
			continue
		}

		isDir, err := child.IsDirectory(ctx)
		if err != nil {
			return nil, err
		}

		if isDir {
			if err := it.pushFrame(ctx, child); err != nil {
				return nil, err
			}
			if it.directoriesReturned {
				return child, nil
			}
			continue
		}

		isRegular, err := child.IsRegularFile(ctx)
		if err != nil {
			return nil, err
		}
		if !isRegular {
			continue
		}

		readable, err := child.CanRead(ctx)
		if err != nil {
			return nil, err
		}
		if !readable {
			logger.Debug("skipping unreadable file %s", child.Path())
			continue
		}

		if it.matcher != nil && !it.matcher.Accept(child.Path()) {
			continue
		}

		modified, err := child.IsModifiedSince(ctx, it.ifModifiedSince)
		if err != nil {
			return nil, err
		}
		if !modified {
			continue
		}

		return child, nil
	}

	return nil, domain.ErrIteratorDone
}

// DirectoriesReturned reports whether this iterator surfaces directories,
// used by the traverser to decide whether to emit the root share-ACL
// document up front (§4.7 step 4).
func (it *FileIterator) DirectoriesReturned() bool { return it.directoriesReturned }
