package editor

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_Coalesces(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })
	defer d.Stop()

	for i := 0; i < 10; i++ {
		d.Trigger()
	}
	assert.True(t, d.Pending())

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, d.Pending())

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_Cancel(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })
	defer d.Stop()

	assert.False(t, d.Cancel())
	d.Trigger()
	assert.True(t, d.Cancel())

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestDebouncer_StopIgnoresTriggers(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(time.Millisecond, func() { calls.Add(1) })
	d.Stop()
	d.Trigger()

	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, calls.Load())
	assert.False(t, d.Pending())
}

func TestDebouncer_Flush(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(time.Hour, func() { calls.Add(1) })
	defer d.Stop()

	assert.False(t, d.Flush())
	d.Trigger()
	assert.True(t, d.Flush())
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())
}
