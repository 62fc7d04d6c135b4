package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDebouncer_SingleCall(t *testing.T) {
	var called int32
	d := New(20 * time.Millisecond)

	d.Trigger(func() { atomic.AddInt32(&called, 1) })
	assert.True(t, d.Pending())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&called) == 1
	}, time.Second, 5*time.Millisecond)
	assert.False(t, d.Pending())
}

func TestDebouncer_OnlyLatestRuns(t *testing.T) {
	var called, last int32
	d := New(40 * time.Millisecond)

	for i := int32(1); i <= 5; i++ {
		value := i
		d.Trigger(func() {
			atomic.StoreInt32(&last, value)
			atomic.AddInt32(&called, 1)
		})
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&called) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&called))
	assert.Equal(t, int32(5), atomic.LoadInt32(&last))
}

func TestDebouncer_Cancel(t *testing.T) {
	var called int32
	d := New(20 * time.Millisecond)

	d.Trigger(func() { atomic.AddInt32(&called, 1) })
	d.Cancel()
	assert.False(t, d.Pending())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&called))
}

func TestDebouncer_Flush(t *testing.T) {
	var called int32
	d := New(time.Hour)

	d.Trigger(func() { atomic.AddInt32(&called, 1) })
	d.Flush()
	assert.Equal(t, int32(1), atomic.LoadInt32(&called))

	// nothing left to flush
	d.Flush()
	assert.Equal(t, int32(1), atomic.LoadInt32(&called))
}
