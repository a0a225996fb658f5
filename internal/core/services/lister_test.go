package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiarlawd/fs-crawler/internal/core/domain"
)

func TestLister_Sleep_InterruptedByScheduleChange(t *testing.T) {
	sink := &fakeSink{}
	l := NewLister(nil, 1, sink, domain.StaticSchedule{})

	done := make(chan bool, 1)
	go func() {
		done <- l.sleep(context.Background(), time.Hour)
	}()

	// give the goroutine a moment to enter the sleep before interrupting it.
	time.Sleep(10 * time.Millisecond)
	l.SetSchedule(domain.StaticSchedule{RetryDelaySeconds: 30})

	select {
	case woke := <-done:
		assert.True(t, woke)
	case <-time.After(time.Second):
		t.Fatal("sleep was not interrupted by schedule change")
	}
}

func TestLister_Sleep_ZeroDurationReturnsImmediately(t *testing.T) {
	sink := &fakeSink{}
	l := NewLister(nil, 1, sink, domain.StaticSchedule{})
	assert.True(t, l.sleep(context.Background(), 0))
}

func TestLister_Sleep_ShutdownStopsSleep(t *testing.T) {
	sink := &fakeSink{}
	l := NewLister(nil, 1, sink, domain.StaticSchedule{})

	done := make(chan bool, 1)
	go func() {
		done <- l.sleep(context.Background(), time.Hour)
	}()

	time.Sleep(10 * time.Millisecond)
	l.shutdownOnce.Do(func() { close(l.shutdownCh) })

	select {
	case woke := <-done:
		assert.False(t, woke)
	case <-time.After(time.Second):
		t.Fatal("sleep did not stop on shutdown")
	}
}

func TestLister_Shutdown_CancelsSinkExactlyOnce(t *testing.T) {
	sink := &fakeSink{}
	a := file("/root/a.txt", false)
	root := dirWithChildren("/root", a)
	tr := newTestTraverser(t, root, TraverserConfig{RootPath: "/root"}, sink)

	// disabled schedule so Start sleeps forever until Shutdown interrupts it.
	l := NewLister([]*Traverser{tr}, 1, sink, domain.StaticSchedule{Disabled: true})

	startDone := make(chan error, 1)
	go func() {
		startDone <- l.Start(context.Background())
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, l.Shutdown(context.Background()))

	select {
	case err := <-startDone:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
	assert.Equal(t, 1, sink.cancelCount())

	// Shutdown is idempotent: calling it again must not panic or re-close
	// the shutdown channel.
	require.NoError(t, l.Shutdown(context.Background()))
}

func TestLister_RunCycle_ReportsTraverserFailure(t *testing.T) {
	a := file("/root/a.txt", false)
	root := dirWithChildren("/root", a)
	sink := &fakeSink{takeErr: assertErr("sink rejected document")}
	tr := newTestTraverser(t, root, TraverserConfig{RootPath: "/root"}, sink)

	l := NewLister([]*Traverser{tr}, 1, sink, domain.StaticSchedule{})

	failed := l.runCycle(context.Background())
	assert.True(t, failed)
}

func TestLister_RunCycle_SucceedsWithHealthyTraversers(t *testing.T) {
	a := file("/root/a.txt", false)
	root := dirWithChildren("/root", a)
	sink := &fakeSink{}
	tr := newTestTraverser(t, root, TraverserConfig{RootPath: "/root"}, sink)

	l := NewLister([]*Traverser{tr}, 2, sink, domain.StaticSchedule{})

	failed := l.runCycle(context.Background())
	assert.False(t, failed)
	assert.Equal(t, 1, sink.docCount())
}

func TestLister_ScheduleDelay_DisabledIsMaxSleep(t *testing.T) {
	sink := &fakeSink{}
	l := NewLister(nil, 1, sink, domain.StaticSchedule{})
	assert.Equal(t, maxSleep, l.scheduleDelay(domain.StaticSchedule{Disabled: true}))
}

func TestLister_ScheduleDelay_InIntervalIsZero(t *testing.T) {
	sink := &fakeSink{}
	l := NewLister(nil, 1, sink, domain.StaticSchedule{})
	assert.Equal(t, time.Duration(0), l.scheduleDelay(domain.StaticSchedule{}))
}
