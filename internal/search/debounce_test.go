package search

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	fired chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan struct{}, 10)}
}

func (r *recorder) record(q string) {
	r.mu.Lock()
	r.calls = append(r.calls, q)
	r.mu.Unlock()
	r.fired <- struct{}{}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestDebouncerCoalescesTriggers(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(50*time.Millisecond, rec.record)
	defer d.Stop()

	d.Trigger("r")
	d.Trigger("re")
	d.Trigger("rea")
	d.Trigger("react")

	select {
	case <-rec.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced callback never fired")
	}

	// Give a stale timer the chance to misfire
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"react"}, rec.snapshot())
}

func TestDebouncerFiresAgainAfterQuietPeriod(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(20*time.Millisecond, rec.record)
	defer d.Stop()

	d.Trigger("first")
	<-rec.fired
	d.Trigger("second")
	<-rec.fired

	assert.Equal(t, []string{"first", "second"}, rec.snapshot())
}

func TestDebouncerStop(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(20*time.Millisecond, rec.record)

	d.Trigger("pending")
	d.Stop()
	d.Trigger("ignored")

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestNewDebouncerDefaultDelay(t *testing.T) {
	d := NewDebouncer(0, func(string) {})
	assert.Equal(t, DefaultDebounceDelay, d.delay)
}

func TestDebouncerFlush(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(time.Hour, rec.record)
	defer d.Stop()

	d.Flush() // nothing pending
	assert.Empty(t, rec.snapshot())

	d.Trigger("go")
	d.Trigger("gopher")
	d.Flush()
	assert.Equal(t, []string{"gopher"}, rec.snapshot())

	// Flushed query does not fire again
	d.Flush()
	assert.Equal(t, []string{"gopher"}, rec.snapshot())
}

func TestDebouncerStopWaitsForRunningCallback(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	d := NewDebouncer(time.Millisecond, func(string) {
		close(started)
		<-release
		finished.Store(true)
	})

	d.Trigger("slow")
	<-started

	stopped := make(chan struct{})
	go func() {
		d.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while the callback was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop never returned")
	}
	assert.True(t, finished.Load())
}
