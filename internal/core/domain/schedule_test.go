package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStaticSchedule_RetryDelayNegativeMeansInfinite(t *testing.T) {
	s := StaticSchedule{RetryDelaySeconds: -1}
	assert.Equal(t, time.Duration(-1), s.RetryDelay())
}

func TestStaticSchedule_RetryDelayPositive(t *testing.T) {
	s := StaticSchedule{RetryDelaySeconds: 30}
	assert.Equal(t, 30*time.Second, s.RetryDelay())
}

func TestStaticSchedule_ShouldRunHonorsDisabled(t *testing.T) {
	assert.True(t, StaticSchedule{}.ShouldRun())
	assert.False(t, StaticSchedule{Disabled: true}.ShouldRun())
}

func TestTraversalState_ConcurrentReadsDuringWrite(t *testing.T) {
	st := &TraversalState{}
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			st.SetLastTraversal(time.Now())
		}
		close(done)
	}()
	for i := 0; i < 1000; i++ {
		_ = st.LastTraversal()
	}
	<-done
	assert.False(t, st.LastTraversal().IsZero())
}
